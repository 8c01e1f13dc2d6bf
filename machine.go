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

package tunelab

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"sync"

	"github.com/zintix-labs/tunelab/errs"
	"github.com/zintix-labs/tunelab/sdk/buf"
	"github.com/zintix-labs/tunelab/sdk/calc"
	"github.com/zintix-labs/tunelab/sdk/core"
	"github.com/zintix-labs/tunelab/sdk/gen"
	"github.com/zintix-labs/tunelab/spec"
)

// Machine 封裝一台「可對外提供 Spin」的遊戲機台。
//
// 對外：提供 Spin 入口（模擬器與互動模式只操作 Machine）。
// 對內：持有 RNG 核心、盤面生成器與對獎計算核心。
//
// 並發語意：
//   - Machine 不是 lock-free 結構；它內含可重用的 result buffer（熱路徑），因此同一台 Machine 不應被多 goroutine 同時 Spin。
//   - 若要併發模擬，由更高層建立多台 Machine 分散到不同 worker 並管理其生命週期。
//
// Buffer 語意：
//   - SpinResult 會被重用（避免 GC），每次 Spin 會覆寫內容。
//   - 你若需要在 Spin 後保留結果，請在下一次 Spin 前呼叫 Snapshot()（或自行 copy 需要的欄位）。
type Machine struct {
	gameName string            // 遊戲名稱（來自 GameSetting.GameName，主要用於觀測/日誌）
	setting  *spec.GameSetting // 機台設定（初始化後唯讀；權重調整走 SetWeights）
	core     *core.Core        // RNG 核心（PRNG + Snapshot/Restore 合約；熱路徑會頻繁取樣）
	gen      *gen.GridGenerator
	calc     *calc.LineCalculator
	Result   *buf.SpinResult // 可重用的結果 buffer（熱路徑；每次 Spin 會覆寫）
	mu       sync.Mutex      // 防併發鎖：保護可重用 buffer 與核心狀態一致性
	initseed int64           // 出生 seed（便於追溯；完整重現請用 Snapshot/Restore）
}

// NewMachine 以「隨機 seed」建立 Machine。
//
// 這裡使用 crypto/rand 產生 seed 是為了：
//   - 避免可預測 RNG 起點
//   - 同時保留可追溯性（seed 會被記錄在 Machine.initseed）
//
// seed 只保證了新建的 Machine 起點，如果需要在任意局後將機台"重設"到任意 Core 節點，請利用 Snapshot Restore 來操作
func NewMachine(gs *spec.GameSetting, cf core.PRNGFactory) (*Machine, error) {
	seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return nil, errs.Wrap(err, "new crypto seed error in go std lib")
	}
	return NewMachineWithSeed(gs, cf, seed.Int64())
}

// NewMachineWithSeed 以指定 seed 建立 Machine。
//
// 這是最常用的「可重現」入口：同一份 GameSetting + 同一個 seed，會得到一致的隨機序列。
func NewMachineWithSeed(gs *spec.GameSetting, cf core.PRNGFactory, seed int64) (*Machine, error) {
	if err := gs.Init(); err != nil {
		return nil, err
	}
	m := &Machine{
		gameName: gs.GameName,
		setting:  gs,
		core:     core.New(cf.New(seed)),
		initseed: seed,
	}
	var err error
	m.gen, err = gen.NewGridGenerator(m.core, gs)
	if err != nil {
		return nil, err
	}
	m.calc = calc.NewLineCalculator(gs)
	m.Result = buf.NewSpinResult(gs)
	return m, nil
}

// Spin 為主要公開入口，會驗證投注，執行一局並回傳深拷貝結果。
func (m *Machine) Spin(bet int) (buf.SpinSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if bet != m.setting.TotalBet() {
		return buf.SpinSnapshot{}, errs.NewWarn(fmt.Sprintf("error bet value: got %d, machine takes %d", bet, m.setting.TotalBet()))
	}
	return m.SpinInternal().Snapshot(), nil
}

// SpinInternal 直接取得內部 SpinResult；常用於模擬器或測試
//
// 此行為跳過檢查與鎖，並回傳會被下一局覆寫的共用 buffer
func (m *Machine) SpinInternal() *buf.SpinResult {
	m.Result.Reset()
	m.Result.Screen = m.gen.GenGrid()
	m.Result.Bet = m.setting.TotalBet()
	m.calc.CalcByLine(m.setting.BetPerLine, m.Result.Screen, m.Result)
	return m.Result
}

// SetWeights 重建取樣表，讓後續 spin 依新的符號權重取樣。
//
// 僅允許在兩批模擬之間呼叫，不可與 Spin 並發。
func (m *Machine) SetWeights(wv spec.WeightVector) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gen.Rebuild(wv)
}

// Setting 回傳機台設定（唯讀約定）。
func (m *Machine) Setting() *spec.GameSetting {
	return m.setting
}

// InitSeed 回傳出生 seed。
func (m *Machine) InitSeed() int64 {
	return m.initseed
}

// SnapshotCore 取得 Core 狀態暫存 當前僅提供取得 Core 狀態
func (m *Machine) SnapshotCore() ([]byte, error) {
	return m.core.Snapshot()
}

// RestoreCore 恢復 Core 狀態暫存 當前僅提供恢復 Core 狀態
func (m *Machine) RestoreCore(src []byte) error {
	return m.core.Restore(src)
}
