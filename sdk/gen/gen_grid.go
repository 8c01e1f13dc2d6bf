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

// Package gen 負責盤面生成。
package gen

import (
	"github.com/zintix-labs/tunelab/errs"
	"github.com/zintix-labs/tunelab/sdk/core"
	"github.com/zintix-labs/tunelab/sdk/sampler"
	"github.com/zintix-labs/tunelab/spec"
)

// GridGenerator 保存生成盤面所需的所有狀態。
//
// 獨立轉軸假設：9 格各自從同一張權重表獨立抽樣，格與格之間不共享抽樣狀態；
// 決定性完全由注入的 Core seed 控制。
//
// 會快取盤面尺寸、權重 LUT 與輸出緩衝，避免熱路徑重複配置。
// 輸出緩衝是重用的：呼叫端需在下一次 GenGrid 前完成讀取或自行拷貝。
type GridGenerator struct {
	core    *core.Core
	symbols int
	Cols    int
	Rows    int
	lut     sampler.LUT
	Screen  []spec.Symbol
}

// NewGridGenerator 依設定與核心亂數器建立生成器。
// 設定必須已通過 Init；權重在此展開成 LUT。
func NewGridGenerator(c *core.Core, gs *spec.GameSetting) (*GridGenerator, error) {
	g := &GridGenerator{
		core:    c,
		symbols: gs.SymbolTable.Count(),
		Cols:    gs.Screen.Columns,
		Rows:    gs.Screen.Rows,
	}
	g.Screen = make([]spec.Symbol, g.Cols*g.Rows)
	if err := g.Rebuild(gs.SymbolTable.Weights()); err != nil {
		return nil, err
	}
	return g, nil
}

// Rebuild 以新的權重向量重建抽樣表。
//
// 調參器在兩次批次之間呼叫；批次執行中不可呼叫，
// 批次必須從頭到尾看到同一張表（copy-on-read 快照語意）。
func (g *GridGenerator) Rebuild(wv spec.WeightVector) error {
	if len(wv) != g.symbols {
		return errs.Fatalf("weight vector length %d != symbol count %d", len(wv), g.symbols)
	}
	if err := wv.Validate(); err != nil {
		return err
	}
	g.lut = sampler.BuildLUT(wv)
	return nil
}

// GenGrid 生成盤面熱路徑函數：每格獨立抽一次樣，填滿重用緩衝後回傳。
func (g *GridGenerator) GenGrid() []spec.Symbol {
	for i := range g.Screen {
		g.Screen[i] = spec.Symbol(g.lut.Pick(g.core))
	}
	return g.Screen
}

// TotalWeight 回傳目前抽樣表的權重總和。
func (g *GridGenerator) TotalWeight() int {
	return g.lut.Total()
}
