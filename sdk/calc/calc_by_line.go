package calc

import (
	"github.com/zintix-labs/tunelab/sdk/buf"
	"github.com/zintix-labs/tunelab/spec"
)

// LineCalculator 依線下注規則計算盤面分數。
//
// 建構時把設定攤平成查表資料（線表 CSR、賠付 CSR、百搭/可計分遮罩），
// 熱路徑逐線評分時不做任何 map 查找與座標換算。
type LineCalculator struct {
	Cols      int
	LineCount int

	lineFlat []int16 // 每線 Cols 個 cell 索引
	lineIdx  []int
	payFlat  []int // CSR：base + (len-1)
	payIdx   []int

	wildMask uint64
	paidMask uint64
	policy   spec.WildPolicy

	lineBuf []spec.Symbol // 單線符號重用緩衝
}

// NewLineCalculator 依已初始化的設定建立計算器。
func NewLineCalculator(gs *spec.GameSetting) *LineCalculator {
	return &LineCalculator{
		Cols:      gs.Screen.Columns,
		LineCount: len(gs.Paylines),
		lineFlat:  gs.LineTableFlat,
		lineIdx:   gs.LineTableIndex,
		payFlat:   gs.SymbolTable.PayTableFlat,
		payIdx:    gs.SymbolTable.PayTableIndex,
		wildMask:  gs.SymbolTable.WildMask,
		paidMask:  gs.SymbolTable.PaidMask,
		policy:    gs.WildPolicy,
		lineBuf:   make([]spec.Symbol, gs.Screen.Columns),
	}
}

// CalcByLine 對整個盤面逐線計分，結果累積進 sr。
func (sc *LineCalculator) CalcByLine(betPerLine int, screen []spec.Symbol, sr *buf.SpinResult) {
	// 沒有可計分圖標，直接回傳空結果
	if sc.paidMask == 0 {
		return
	}
	for lineIdx := 0; lineIdx < sc.LineCount; lineIdx++ {
		start := sc.lineIdx[lineIdx]
		line := sc.lineFlat[start : start+sc.Cols]
		for pos, cell := range line {
			sc.lineBuf[pos] = screen[cell]
		}
		sym, hitLen, pay := sc.ScoreLine(sc.lineBuf)
		if pay > 0 {
			sr.RecordLine(lineIdx, sym, hitLen, betPerLine*pay)
		}
	}
}

// ScoreLine 結算單線符號序列，回傳計分符號、連線長度與未乘押注的倍率。
//
// 參照規則：參照符號是由左數來首個非百搭符號；百搭可代任延長參照串。
// 純百搭前綴自成一串（以首符號計，全百搭線即以百搭自身查表）。
// 兩串如何取捨由 WildPolicy 決定：
//   - BestOf：取兩串中較大的贏分（業界常見，對玩家有利）。
//   - Reference：有參照符號就只算參照串；全百搭才算百搭串。
func (sc *LineCalculator) ScoreLine(line []spec.Symbol) (sym spec.Symbol, hitLen int, pay int) {
	firstSym := line[0]
	wildRun := 0               // 連續百搭前綴長度
	normSym := spec.Symbol(-1) // 首個非百搭且可計分的符號
	normRun := 0               // 參照串長（包含前綴百搭）

	if sc.isWild(firstSym) {
		wildRun = 1
	} else {
		if !sc.isPaid(firstSym) {
			return -1, 0, 0
		}
		normSym = firstSym
		normRun = 1
	}

	for pos := 1; pos < len(line); pos++ {
		s := line[pos]
		isWild := sc.isWild(s)

		// A) 純百搭前綴：前面全百搭且本格仍百搭才延長
		if normSym < 0 && wildRun == pos && isWild {
			wildRun++
			continue
		}

		// B) 尚未起手參照串，本格為首個非百搭
		if normSym < 0 && !isWild {
			if !sc.isPaid(s) {
				// 首個非百搭也不可計分，只剩百搭串可比
				break
			}
			normSym = s
			normRun = wildRun + 1 // 前綴百搭併入參照串
			continue
		}

		// C) 參照串已起手：同符號或百搭代任延長
		if normSym >= 0 {
			if s == normSym || isWild {
				normRun++
				continue
			}
			break
		}
	}

	wildWin := 0
	if wildRun > 0 {
		wildWin = sc.payFlat[sc.payIdx[firstSym]+(wildRun-1)]
	}
	normWin := 0
	if normRun > 0 {
		normWin = sc.payFlat[sc.payIdx[normSym]+(normRun-1)]
	}

	if sc.policy == spec.WildPolicyReference && normSym >= 0 {
		return normSym, normRun, normWin
	}
	if wildWin > normWin {
		return firstSym, wildRun, wildWin
	}
	if normWin > 0 {
		return normSym, normRun, normWin
	}
	return -1, 0, 0
}

func (sc *LineCalculator) isWild(s spec.Symbol) bool {
	return sc.wildMask&(1<<uint(s)) != 0
}

func (sc *LineCalculator) isPaid(s spec.Symbol) bool {
	return sc.paidMask&(1<<uint(s)) != 0
}
