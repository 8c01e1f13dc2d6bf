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

// Package tunelab 提供 3x3 多線 slot 的機率實驗室：
// 機台（Machine）、模擬器（Simulator）與權重調參的組裝入口。
//
// 地基分三層：
//  1. GameSetting（spec）：PAR sheet 的單一事實來源——符號、權重、賠付表、線表。
//     設定檔一律以 fs.FS 注入（go:embed 或 os.DirFS），不綁定檔案路徑。
//  2. PRNGFactory（sdk/core）：亂數核心工廠，保證可重現（reproducible）與可審計（auditable）。
//  3. Machine：對外提供 Spin 的最小單位；大量模擬由 Simulator 建立多台機台分散到 workers。
//
// 典型使用情境：
//   - RTP 模擬（cmd/sim）：Simulator.SimMP 平行估計經驗 RTP，與 calc.TheoreticalRTP 互相校驗。
//   - 權重調參（cmd/tune）：optimizer.Tuner 以山坡/隨機步進把權重收斂到目標 RTP。
//   - 互動試玩（cmd/play）：Play 迴圈逐局操作 Machine.Spin，賠付即為最終結果。
//
// 注意：此實驗室以 Slot 領域為中心（Spin -> Result），不是泛用遊戲框架。
package tunelab

import (
	"io/fs"

	"github.com/zintix-labs/tunelab/sdk/core"
	"github.com/zintix-labs/tunelab/spec"
)

// NewMachineFromFS 從設定檔來源建立機台（隨機 seed）。
func NewMachineFromFS(cfgFS fs.FS, name string, cf core.PRNGFactory) (*Machine, error) {
	gs, err := spec.LoadGameSetting(cfgFS, name)
	if err != nil {
		return nil, err
	}
	return NewMachine(gs, cf)
}

// NewSimulatorFromFS 從設定檔來源建立模擬器（隨機 seed）。
func NewSimulatorFromFS(cfgFS fs.FS, name string, cf core.PRNGFactory) (*Simulator, error) {
	gs, err := spec.LoadGameSetting(cfgFS, name)
	if err != nil {
		return nil, err
	}
	return NewSimulator(gs, cf)
}
