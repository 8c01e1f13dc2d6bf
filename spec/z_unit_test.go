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

package spec

import (
	"errors"
	"testing"
)

const testYAML = `
game_name: unit_test_3x3
bet_per_line: 1
screen:
  columns: 3
  rows: 3
wild_policy: best_of
symbol_table:
  symbols:
    - {name: W, weight: 3, pays: [0, 0, 250], wild: true}
    - {name: B, weight: 1, pays: [0, 0, 100]}
    - {name: T, weight: 10, pays: [0, 0, 25]}
paylines:
  - cells: [[0,0],[0,1],[0,2]]
  - cells: [[1,0],[1,1],[1,2]]
  - cells: [[2,0],[2,1],[2,2]]
  - cells: [[0,0],[1,1],[2,2]]
  - cells: [[2,0],[1,1],[0,2]]
`

func TestGetGameSettingByYAML(t *testing.T) {
	gs, err := GetGameSettingByYAML([]byte(testYAML))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if gs.GameName != "unit_test_3x3" {
		t.Fatalf("game name: %q", gs.GameName)
	}
	if gs.SymbolTable.Count() != 3 {
		t.Fatalf("symbol count: %d", gs.SymbolTable.Count())
	}
	if !gs.SymbolTable.IsWild(0) || gs.SymbolTable.IsWild(1) {
		t.Fatalf("wild mask wrong: %b", gs.SymbolTable.WildMask)
	}
	if gs.TotalBet() != 5 {
		t.Fatalf("total bet: %d", gs.TotalBet())
	}
	if len(gs.LineTableFlat) != 15 {
		t.Fatalf("line table flat len: %d", len(gs.LineTableFlat))
	}
	// 第 3 線（主對角）cell 索引：0, 4, 8
	base := gs.LineTableIndex[3]
	if gs.LineTableFlat[base] != 0 || gs.LineTableFlat[base+1] != 4 || gs.LineTableFlat[base+2] != 8 {
		t.Fatalf("diagonal line table wrong: %v", gs.LineTableFlat[base:base+3])
	}
	if gs.SymbolTable.Lookup("T") != 2 || gs.SymbolTable.Lookup("ZZZ") != -1 {
		t.Fatalf("lookup failed")
	}
}

func TestInitRejectsInvalidWeight(t *testing.T) {
	gs, _ := GetGameSettingByYAML([]byte(testYAML))
	wv := gs.SymbolTable.Weights()
	if err := wv.Set(1, 0); !errors.Is(err, ErrInvalidWeight) {
		t.Fatalf("expected ErrInvalidWeight, got %v", err)
	}
	if err := wv.Set(1, -3); !errors.Is(err, ErrInvalidWeight) {
		t.Fatalf("expected ErrInvalidWeight, got %v", err)
	}
	if err := wv.Set(1, 7); err != nil {
		t.Fatalf("valid set failed: %v", err)
	}
	if wv[1] != 7 {
		t.Fatalf("set not applied")
	}
}

func TestInitRejectsNegativeMultiplier(t *testing.T) {
	bad := &GameSetting{
		GameName:   "bad",
		Screen:     ScreenSetting{Columns: 3, Rows: 3},
		BetPerLine: 1,
		SymbolTable: SymbolTable{
			Symbols: []SymbolSetting{
				{Name: "A", Weight: 1, Pays: []int{0, 0, -5}},
			},
		},
		Paylines: []Payline{{Cells: [][2]int{{0, 0}, {0, 1}, {0, 2}}}},
	}
	if err := bad.Init(); !errors.Is(err, ErrInvalidPaytable) {
		t.Fatalf("expected ErrInvalidPaytable, got %v", err)
	}
}

func TestValidateDegenerateWeights(t *testing.T) {
	if err := (WeightVector{}).Validate(); !errors.Is(err, ErrSamplingDegenerate) {
		t.Fatalf("expected ErrSamplingDegenerate for empty vector")
	}
	if err := (WeightVector{1, 2, 0}).Validate(); !errors.Is(err, ErrInvalidWeight) {
		t.Fatalf("expected ErrInvalidWeight for zero entry")
	}
	if err := (WeightVector{3, 1, 10}).Validate(); err != nil {
		t.Fatalf("valid vector rejected: %v", err)
	}
}

func TestInitRejectsBadPayline(t *testing.T) {
	bad := &GameSetting{
		GameName:   "bad_line",
		Screen:     ScreenSetting{Columns: 3, Rows: 3},
		BetPerLine: 1,
		SymbolTable: SymbolTable{
			Symbols: []SymbolSetting{{Name: "A", Weight: 1, Pays: []int{0, 0, 5}}},
		},
		Paylines: []Payline{{Cells: [][2]int{{0, 0}, {0, 1}, {3, 2}}}},
	}
	if err := bad.Init(); !errors.Is(err, ErrInvalidPayline) {
		t.Fatalf("expected ErrInvalidPayline, got %v", err)
	}
}

func TestApplyWeights(t *testing.T) {
	gs, _ := GetGameSettingByYAML([]byte(testYAML))
	if err := gs.ApplyWeights(WeightVector{4, 4, 9}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if gs.SymbolTable.Symbols[2].Weight != 9 {
		t.Fatalf("weights not applied")
	}
	if err := gs.ApplyWeights(WeightVector{1, 2}); err == nil {
		t.Fatalf("expected length mismatch error")
	}
	if err := gs.ApplyWeights(WeightVector{1, 0, 2}); err == nil {
		t.Fatalf("expected invalid weight error")
	}
}
