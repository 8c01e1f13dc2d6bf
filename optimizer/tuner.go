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

// Package optimizer 以目標 RTP 為準調整符號權重。
//
// 狀態機：Searching → Converged（|rtp-target| <= tolerance）
// 或 Exhausted（迭代預算用罄，回報 best-seen）。
// 接受規則：嚴格縮短與目標的距離才接受，同距離視為振盪來源一律拒絕。
package optimizer

import (
	"io"
	"io/fs"
	"math"

	"github.com/cheggaaa/pb/v3"

	"github.com/zintix-labs/tunelab"
	"github.com/zintix-labs/tunelab/errs"
	"github.com/zintix-labs/tunelab/sdk/core"
	"github.com/zintix-labs/tunelab/spec"
)

// ErrNonConvergence 表示迭代預算用罄仍未達容忍度。
// 這是結果狀態不是失敗：呼叫端可放寬容忍度或加大預算重試。
var ErrNonConvergence = errs.NewWarn("optimizer: iteration budget exhausted without convergence")

// State 調參器狀態。
type State int

const (
	Searching State = iota
	Converged
	Exhausted
)

func (s State) String() string {
	switch s {
	case Searching:
		return "Searching"
	case Converged:
		return "Converged"
	case Exhausted:
		return "Exhausted"
	default:
		return "Unknown"
	}
}

// Result 調參結果。Exhausted 時 Weights/RTP/Distance 為 best-seen。
type Result struct {
	State      State
	Weights    spec.WeightVector
	RTP        float64
	ConfirmRTP float64   // 確認驗證的 RTP（未啟用確認時為 0）
	Distance   float64   // |RTP - target|
	Attempts   int       // 已消耗的迭代數
	Accepted   []float64 // 每次接受後的距離序列（兩次確認之間嚴格遞減）
}

// Err 以錯誤形式回報未收斂；Converged 回傳 nil。
func (r *Result) Err() error {
	if r.State == Exhausted {
		return ErrNonConvergence
	}
	return nil
}

// Tuner 調參器主體。迭代恆為串行，批次內的模擬可平行。
type Tuner struct {
	cfg  *TunerSetting
	gs   *spec.GameSetting
	eval Evaluator
	step StepPolicy
	core *core.Core
}

// New 從設定檔建立調參器，預設使用經驗評估器。
func New(cfgFS fs.FS, name string, gs *spec.GameSetting, cf core.PRNGFactory, seed int64) (*Tuner, error) {
	ts, err := LoadTunerSetting(cfgFS, name)
	if err != nil {
		return nil, err
	}
	sim, err := tunelab.NewSimulatorWithSeed(gs, cf, seed)
	if err != nil {
		return nil, err
	}
	return NewTuner(ts, gs, NewEmpiricalEvaluator(sim, ts), cf, seed)
}

// NewTuner 以指定評估器建立調參器；測試通常注入 TheoreticalEvaluator。
func NewTuner(ts *TunerSetting, gs *spec.GameSetting, eval Evaluator, cf core.PRNGFactory, seed int64) (*Tuner, error) {
	if err := ts.validate(); err != nil {
		return nil, err
	}
	if err := gs.Init(); err != nil {
		return nil, err
	}
	step, err := GetStepPolicy(ts, gs.SymbolTable.Count())
	if err != nil {
		return nil, err
	}
	return &Tuner{
		cfg:  ts,
		gs:   gs,
		eval: eval,
		step: step,
		core: core.New(cf.New(seed)),
	}, nil
}

// RegisterEvaluator 覆蓋評估來源。
func (t *Tuner) RegisterEvaluator(eval Evaluator) {
	t.eval = eval
}

// Run 從 start 權重開始搜索直到收斂或預算用罄。
//
// start 不會被改動；所有候選都是副本（copy-on-read，批次內不變）。
func (t *Tuner) Run(start spec.WeightVector) (*Result, error) {
	if err := start.Validate(); err != nil {
		return nil, err
	}
	if len(start) != t.gs.SymbolTable.Count() {
		return nil, errs.Warnf("start weights length %d != symbol count %d", len(start), t.gs.SymbolTable.Count())
	}

	cur := start.Clone()
	rtp, err := t.eval.Estimate(cur)
	if err != nil {
		return nil, err
	}
	dist := math.Abs(rtp - t.cfg.TargetRTP)

	res := &Result{
		State:    Searching,
		Weights:  cur.Clone(),
		RTP:      rtp,
		Distance: dist,
		Accepted: []float64{},
	}

	bar := pb.StartNew(t.cfg.MaxAttempts)
	if !t.cfg.ShowProgress {
		bar.SetWriter(io.Discard)
	}
	defer bar.Finish()

	// recheck 控制收斂判定時機：初始估計後與每次接受後才判，
	// 確認失敗的同一個估計不重複確認。
	recheck := true
	for res.Attempts < t.cfg.MaxAttempts {
		// 先判收斂：起始權重就達標時一局都不用搜
		if recheck && dist <= t.cfg.Tolerance {
			ok, confirmRTP, err := t.confirm(cur)
			if err != nil {
				return nil, err
			}
			if ok {
				res.State = Converged
				res.Weights = cur.Clone()
				res.RTP = rtp
				res.ConfirmRTP = confirmRTP
				res.Distance = dist
				return res, nil
			}
			// 確認失敗：以確認值當作當前估計，繼續搜
			rtp = confirmRTP
			dist = math.Abs(rtp - t.cfg.TargetRTP)
			recheck = false
		}

		res.Attempts++
		bar.Increment()

		cand := t.step.Propose(t.core, cur)
		candRTP, err := t.eval.Estimate(cand)
		if err != nil {
			return nil, err
		}
		candDist := math.Abs(candRTP - t.cfg.TargetRTP)

		// 嚴格改善才接受；同距離拒絕以避免振盪
		if candDist < dist {
			cur = cand
			rtp = candRTP
			dist = candDist
			recheck = true
			res.Accepted = append(res.Accepted, dist)
			if dist < res.Distance {
				res.Weights = cur.Clone()
				res.RTP = rtp
				res.Distance = dist
			}
		}
	}

	// 預算用罄後最後再判一次（最後一次接受可能剛好達標）
	if dist <= t.cfg.Tolerance {
		ok, confirmRTP, err := t.confirm(cur)
		if err != nil {
			return nil, err
		}
		if ok {
			res.State = Converged
			res.Weights = cur.Clone()
			res.RTP = rtp
			res.ConfirmRTP = confirmRTP
			res.Distance = dist
			return res, nil
		}
	}

	res.State = Exhausted
	return res, nil
}

// confirm 收斂後的確認驗證。評估器不支援確認（理論評估）或未啟用時直接通過。
func (t *Tuner) confirm(wv spec.WeightVector) (bool, float64, error) {
	c, ok := t.eval.(Confirmer)
	if !ok || t.cfg.ConfirmMult <= 1 {
		return true, 0, nil
	}
	confirmRTP, err := c.Confirm(wv, t.cfg.ConfirmMult)
	if err != nil {
		return false, 0, err
	}
	return math.Abs(confirmRTP-t.cfg.TargetRTP) <= t.cfg.Tolerance, confirmRTP, nil
}
