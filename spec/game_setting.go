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

// Package spec 定義遊戲設定模型：符號表、線表、盤面規格與其衍生查表資料。
//
// 設定一律由外部明確建構（YAML 或程式內組裝）後以 Init 驗證，
// 沒有任何 process-wide 的可變遊戲狀態。Init 之後的設定視為唯讀；
// 唯一的例外是調參器透過 ApplyWeights 在批次之間換權重。
package spec

import (
	"fmt"

	"github.com/zintix-labs/tunelab/errs"
)

// 設定驗證期的錯誤分類。全部 Fatal：帶著這些錯誤的設定不允許啟動模擬。
var (
	ErrInvalidWeight      = errs.NewFatal("invalid weight: must be positive")
	ErrInvalidPaytable    = errs.NewFatal("invalid paytable: negative multiplier")
	ErrSamplingDegenerate = errs.NewFatal("sampling degenerate: total weight is zero")
	ErrInvalidPayline     = errs.NewFatal("invalid payline")
)

// WildPolicy 決定一條線上百搭的計分方式（規則書對此常是含糊的，所以做成設定）。
type WildPolicy int

const (
	// WildPolicyBestOf：同時結算「純百搭前綴串（以首符號計）」與
	// 「首個非百搭參照符號串（百搭代任延長）」，取較大者。預設。
	WildPolicyBestOf WildPolicy = iota
	// WildPolicyReference：只結算參照符號串；全百搭線以百搭自身查表。
	WildPolicyReference
)

var wildPolicyMap = map[string]WildPolicy{
	"":          WildPolicyBestOf,
	"best_of":   WildPolicyBestOf,
	"reference": WildPolicyReference,
}

// Payline 是盤面上一條固定檢查線，依 [row, col] 座標排序列出。
type Payline struct {
	Cells [][2]int `yaml:"cells" json:"cells"`
}

// ScreenSetting 描述盤面尺寸。索引約定為 row-major：cell = row*Columns + col。
type ScreenSetting struct {
	Columns int `yaml:"columns" json:"columns"`
	Rows    int `yaml:"rows"    json:"rows"`
}

// GameSetting 包含啟動一台機台所需的所有高階設定。
type GameSetting struct {
	GameName      string        `yaml:"game_name"       json:"game_name"`
	Screen        ScreenSetting `yaml:"screen"          json:"screen"`
	BetPerLine    int           `yaml:"bet_per_line"    json:"bet_per_line"`
	SymbolTable   SymbolTable   `yaml:"symbol_table"    json:"symbol_table"`
	Paylines      []Payline     `yaml:"paylines"        json:"paylines"`
	WildPolicyStr string        `yaml:"wild_policy"     json:"wild_policy"`

	// 衍生資料（init 時建立）
	WildPolicy     WildPolicy `yaml:"-" json:"-"`
	LineTableFlat  []int16    `yaml:"-" json:"-"` // 線表攤平成 cell 索引，每線 Columns 格
	LineTableIndex []int      `yaml:"-" json:"-"` // 每線在 LineTableFlat 的起點
	initFlag       bool
}

// Init 驗證設定並建立衍生查表資料。冪等；重複呼叫是 no-op。
func (gs *GameSetting) Init() error {
	if gs.initFlag {
		return nil
	}
	if gs.Screen.Columns <= 0 || gs.Screen.Rows <= 0 {
		return errs.Fatalf("invalid screen dimensions: cols=%d rows=%d", gs.Screen.Columns, gs.Screen.Rows)
	}
	if gs.BetPerLine <= 0 {
		return errs.Fatalf("game %q: bet_per_line must be positive, got %d", gs.GameName, gs.BetPerLine)
	}

	wp, ok := wildPolicyMap[gs.WildPolicyStr]
	if !ok {
		return errs.Fatalf("game %q: unknown wild_policy %q", gs.GameName, gs.WildPolicyStr)
	}
	gs.WildPolicy = wp

	if err := gs.SymbolTable.Init(gs.Screen.Columns); err != nil {
		return err
	}

	if err := gs.initLineTable(); err != nil {
		return err
	}

	gs.initFlag = true
	return nil
}

// TotalBet 回傳一次 spin 的總押注（每線押注 × 線數）。
func (gs *GameSetting) TotalBet() int {
	return gs.BetPerLine * len(gs.Paylines)
}

// Cells 回傳盤面格數。
func (gs *GameSetting) Cells() int {
	return gs.Screen.Columns * gs.Screen.Rows
}

// ApplyWeights 將調參後的權重寫回符號表。
// 只能在批次模擬之間呼叫；正在跑的批次持有的是舊權重建出的查表。
func (gs *GameSetting) ApplyWeights(wv WeightVector) error {
	if len(wv) != gs.SymbolTable.Count() {
		return errs.Fatalf("weight vector length %d != symbol count %d", len(wv), gs.SymbolTable.Count())
	}
	if err := wv.Validate(); err != nil {
		return err
	}
	for i := range gs.SymbolTable.Symbols {
		gs.SymbolTable.Symbols[i].Weight = wv[i]
	}
	return nil
}

// initLineTable 將線座標攤平成 cell 索引表（CSR 形式，熱路徑免座標換算）。
func (gs *GameSetting) initLineTable() error {
	cols, rows := gs.Screen.Columns, gs.Screen.Rows
	if len(gs.Paylines) == 0 {
		return errs.Wrap(ErrInvalidPayline, fmt.Sprintf("game %q has no paylines", gs.GameName))
	}

	gs.LineTableFlat = make([]int16, 0, len(gs.Paylines)*cols)
	gs.LineTableIndex = make([]int, len(gs.Paylines))
	for i, pl := range gs.Paylines {
		if len(pl.Cells) != cols {
			return errs.Wrap(ErrInvalidPayline, fmt.Sprintf("payline %d has %d cells, want %d", i, len(pl.Cells), cols))
		}
		gs.LineTableIndex[i] = len(gs.LineTableFlat)
		for _, rc := range pl.Cells {
			r, c := rc[0], rc[1]
			if r < 0 || r >= rows || c < 0 || c >= cols {
				return errs.Wrap(ErrInvalidPayline, fmt.Sprintf("payline %d cell (%d,%d) out of %dx%d screen", i, r, c, rows, cols))
			}
			gs.LineTableFlat = append(gs.LineTableFlat, int16(r*cols+c))
		}
	}
	return nil
}
