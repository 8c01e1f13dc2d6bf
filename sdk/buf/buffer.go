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

// Package buf 提供熱路徑重用的結果緩衝。
//
// SpinResult 會被同一台機台重複覆寫以避免 GC；
// 需要跨 spin 保留結果時請轉成 Snapshot()（深拷貝）。
package buf

import (
	"slices"

	"github.com/zintix-labs/tunelab/spec"
)

// LineWin 單線中獎細項。
type LineWin struct {
	Line   int         `json:"line"`   // 線表索引
	Symbol spec.Symbol `json:"symbol"` // 計分符號
	Count  int         `json:"count"`  // 連線長度
	Win    int         `json:"win"`    // 該線贏分（已乘每線押注）
}

// SpinResult 是單次 spin 的可重用結果緩衝。
//
// 盤面由生成器持有並在 Screen 欄位共享（同一塊底層陣列），
// 所以 SpinResult 的生命週期不可長於下一次 spin。
type SpinResult struct {
	GameName string      `json:"game_name"`
	Screen   []spec.Symbol `json:"screen"` // row-major 盤面（借用生成器緩衝）
	Bet      int         `json:"bet"`      // 當次總押注
	TotalWin int         `json:"total_win"`
	Lines    []LineWin   `json:"lines"` // 中獎線（重用切片）
}

// NewSpinResult 建立指定機台的 SpinResult 實體，並預先配置容量。
func NewSpinResult(gs *spec.GameSetting) *SpinResult {
	return &SpinResult{
		GameName: gs.GameName,
		Screen:   nil,
		Bet:      0,
		TotalWin: 0,
		Lines:    make([]LineWin, 0, len(gs.Paylines)),
	}
}

// RecordLine 將單線中獎累積到結果。
func (s *SpinResult) RecordLine(line int, sym spec.Symbol, count int, win int) {
	s.TotalWin += win
	s.Lines = append(s.Lines, LineWin{Line: line, Symbol: sym, Count: count, Win: win})
}

// Reset 重置累積資料，保留已配置的內部切片容量。
func (s *SpinResult) Reset() {
	s.Screen = nil
	s.Bet = 0
	s.TotalWin = 0
	s.Lines = s.Lines[:0]
}

// SpinSnapshot 是 SpinResult 的不可變深拷貝，交給外部呼叫端保存。
type SpinSnapshot struct {
	GameName string        `json:"game_name"`
	Screen   []spec.Symbol `json:"screen"`
	Bet      int           `json:"bet"`
	TotalWin int           `json:"total_win"`
	Lines    []LineWin     `json:"lines"`
}

// Snapshot 回傳目前內容的深拷貝。
func (s *SpinResult) Snapshot() SpinSnapshot {
	return SpinSnapshot{
		GameName: s.GameName,
		Screen:   slices.Clone(s.Screen),
		Bet:      s.Bet,
		TotalWin: s.TotalWin,
		Lines:    slices.Clone(s.Lines),
	}
}
