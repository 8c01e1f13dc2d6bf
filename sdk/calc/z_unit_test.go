// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package calc

import (
	"math"
	"testing"

	"github.com/zintix-labs/tunelab/sdk/buf"
	"github.com/zintix-labs/tunelab/spec"
)

// newTestSetting 建一張最小 3x3 測試桌：W 百搭、A/B 一般符號。
func newTestSetting(t *testing.T, policy string) *spec.GameSetting {
	t.Helper()
	gs := &spec.GameSetting{
		GameName:   "calc_test",
		Screen:     spec.ScreenSetting{Columns: 3, Rows: 3},
		BetPerLine: 1,
		SymbolTable: spec.SymbolTable{
			Symbols: []spec.SymbolSetting{
				{Name: "W", Weight: 1, Pays: []int{0, 0, 250}, Wild: true},
				{Name: "A", Weight: 10, Pays: []int{0, 0, 50}},
				{Name: "B", Weight: 10, Pays: []int{0, 0, 10}},
				{Name: "X", Weight: 10, Pays: nil}, // 不計分符號
			},
		},
		Paylines: []spec.Payline{
			{Cells: [][2]int{{0, 0}, {0, 1}, {0, 2}}},
		},
		WildPolicyStr: policy,
	}
	if err := gs.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	return gs
}

func scoreTop(t *testing.T, gs *spec.GameSetting, top []spec.Symbol) (spec.Symbol, int, int) {
	t.Helper()
	sc := NewLineCalculator(gs)
	return sc.ScoreLine(top)
}

func TestScoreLineTriple(t *testing.T) {
	gs := newTestSetting(t, "best_of")
	const W, A, B, X = spec.Symbol(0), spec.Symbol(1), spec.Symbol(2), spec.Symbol(3)

	sym, n, pay := scoreTop(t, gs, []spec.Symbol{A, A, A})
	if sym != A || n != 3 || pay != 50 {
		t.Fatalf("AAA: got sym=%d n=%d pay=%d", sym, n, pay)
	}

	// 百搭代任：W A A 計為 A 的 3 連線
	sym, n, pay = scoreTop(t, gs, []spec.Symbol{W, A, A})
	if sym != A || n != 3 || pay != 50 {
		t.Fatalf("WAA: got sym=%d n=%d pay=%d", sym, n, pay)
	}
	sym, n, pay = scoreTop(t, gs, []spec.Symbol{A, W, A})
	if sym != A || n != 3 || pay != 50 {
		t.Fatalf("AWA: got sym=%d n=%d pay=%d", sym, n, pay)
	}

	// 全百搭：以百搭自身查表
	sym, n, pay = scoreTop(t, gs, []spec.Symbol{W, W, W})
	if sym != W || n != 3 || pay != 250 {
		t.Fatalf("WWW: got sym=%d n=%d pay=%d", sym, n, pay)
	}

	// 混線不成串
	if _, _, pay = scoreTop(t, gs, []spec.Symbol{A, B, A}); pay != 0 {
		t.Fatalf("ABA should pay 0, got %d", pay)
	}
	// 查無此組合賠 0 分，不是錯誤
	if _, _, pay = scoreTop(t, gs, []spec.Symbol{X, X, X}); pay != 0 {
		t.Fatalf("XXX should pay 0, got %d", pay)
	}
}

func TestScoreLineWildPolicy(t *testing.T) {
	// W W B：BestOf 下百搭前綴串 (W,2)=0 與參照串 (B,3)=10 比較取 10。
	gs := newTestSetting(t, "best_of")
	const W, B = spec.Symbol(0), spec.Symbol(2)
	sym, n, pay := scoreTop(t, gs, []spec.Symbol{W, W, B})
	if sym != B || n != 3 || pay != 10 {
		t.Fatalf("best_of WWB: got sym=%d n=%d pay=%d", sym, n, pay)
	}

	// Reference 政策下同樣只算參照串
	gsRef := newTestSetting(t, "reference")
	sym, n, pay = scoreTop(t, gsRef, []spec.Symbol{W, W, B})
	if sym != B || n != 3 || pay != 10 {
		t.Fatalf("reference WWB: got sym=%d n=%d pay=%d", sym, n, pay)
	}
	// Reference 全百搭仍以百搭計
	sym, n, pay = scoreTop(t, gsRef, []spec.Symbol{W, W, W})
	if sym != W || n != 3 || pay != 250 {
		t.Fatalf("reference WWW: got sym=%d n=%d pay=%d", sym, n, pay)
	}
}

func TestCalcByLineSum(t *testing.T) {
	gs := newTestSetting(t, "best_of")
	gs.Paylines = append(gs.Paylines, spec.Payline{Cells: [][2]int{{1, 0}, {1, 1}, {1, 2}}})
	// 重新攤平線表
	gs2 := &spec.GameSetting{
		GameName:      gs.GameName,
		Screen:        gs.Screen,
		BetPerLine:    2,
		SymbolTable:   spec.SymbolTable{Symbols: gs.SymbolTable.Symbols},
		Paylines:      gs.Paylines,
		WildPolicyStr: "best_of",
	}
	if err := gs2.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	const A = spec.Symbol(1)
	screen := []spec.Symbol{
		A, A, A, // 第 0 線：A 3 連線
		A, A, A, // 第 1 線：A 3 連線
		3, 3, 3,
	}
	sc := NewLineCalculator(gs2)
	sr := buf.NewSpinResult(gs2)
	sc.CalcByLine(gs2.BetPerLine, screen, sr)
	if sr.TotalWin != 2*50*2 {
		t.Fatalf("expected total 200, got %d", sr.TotalWin)
	}
	if len(sr.Lines) != 2 {
		t.Fatalf("expected 2 winning lines, got %d", len(sr.Lines))
	}
}

func TestTheoreticalRTPByHand(t *testing.T) {
	// 權重 {A:10,B:5,C:1}、單線（上排）、賠付 (A,3):5 (B,3):10 (C,3):50、押注 1。
	// RTP = (10^3*5 + 5^3*10 + 1*50) / 16^3 = 6300/4096。
	gs := &spec.GameSetting{
		GameName:   "hand_calc",
		Screen:     spec.ScreenSetting{Columns: 3, Rows: 3},
		BetPerLine: 1,
		SymbolTable: spec.SymbolTable{
			Symbols: []spec.SymbolSetting{
				{Name: "A", Weight: 10, Pays: []int{0, 0, 5}},
				{Name: "B", Weight: 5, Pays: []int{0, 0, 10}},
				{Name: "C", Weight: 1, Pays: []int{0, 0, 50}},
			},
		},
		Paylines: []spec.Payline{
			{Cells: [][2]int{{0, 0}, {0, 1}, {0, 2}}},
		},
	}
	if err := gs.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	wv := gs.SymbolTable.Weights()

	got, err := TheoreticalRTP(gs, wv)
	if err != nil {
		t.Fatalf("theoretical: %v", err)
	}
	want := 6300.0 / 4096.0
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("rtp: got %v want %v", got, want)
	}

	// 重算必定 bit-identical
	again, err := TheoreticalRTP(gs, wv)
	if err != nil {
		t.Fatalf("theoretical: %v", err)
	}
	if got != again {
		t.Fatalf("not reproducible: %v vs %v", got, again)
	}
}
