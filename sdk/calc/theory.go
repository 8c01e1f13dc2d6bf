package calc

import (
	"github.com/zintix-labs/tunelab/errs"
	"github.com/zintix-labs/tunelab/spec"
)

// TheoreticalRTP 以解析方式計算精確 RTP（浮點精度內），作為經驗估計的基準真值。
//
// 全盤面共 k^9 種組合不可行，但各格獨立抽樣且期望值可加，
// 因此逐線枚舉該線 k^Cols 種符號組合即為精確值——即使多條線共用格子，
// 線與線之間的相關性不影響總和的期望。
//
// 枚舉順序固定（字典序里程計），同一組輸入重算必定 bit-identical。
func TheoreticalRTP(gs *spec.GameSetting, wv spec.WeightVector) (float64, error) {
	if err := gs.Init(); err != nil {
		return 0, err
	}
	if err := wv.Validate(); err != nil {
		return 0, err
	}
	if len(wv) != gs.SymbolTable.Count() {
		return 0, errs.Fatalf("weight vector length %d != symbol count %d", len(wv), gs.SymbolTable.Count())
	}

	k := len(wv)
	cols := gs.Screen.Columns
	total := float64(wv.Total())
	prob := make([]float64, k)
	for i, w := range wv {
		prob[i] = float64(w) / total
	}

	sc := NewLineCalculator(gs)
	line := make([]spec.Symbol, cols)

	// 每條線的期望贏分相同（各格同分佈），但線表是設定資料不是推導結論，
	// 仍逐線算一遍，讓未來的非對稱線型（權重分軸）不需要改這裡。
	expWin := 0.0
	for li := 0; li < sc.LineCount; li++ {
		expWin += expectLine(sc, line, prob, 0, 1.0)
	}

	totalBet := float64(gs.TotalBet())
	if totalBet == 0 {
		return 0, errs.Fatalf("total bet is zero")
	}
	return float64(gs.BetPerLine) * expWin / totalBet, nil
}

// expectLine 遞迴枚舉 line[pos:] 的所有符號組合，回傳該線的期望倍率。
func expectLine(sc *LineCalculator, line []spec.Symbol, prob []float64, pos int, p float64) float64 {
	if pos == len(line) {
		_, _, pay := sc.ScoreLine(line)
		return p * float64(pay)
	}
	sum := 0.0
	for s := range prob {
		line[pos] = spec.Symbol(s)
		sum += expectLine(sc, line, prob, pos+1, p*prob[s])
	}
	return sum
}
