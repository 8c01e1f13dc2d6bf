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

package optimizer

import (
	"github.com/zintix-labs/tunelab"
	"github.com/zintix-labs/tunelab/sdk/calc"
	"github.com/zintix-labs/tunelab/spec"
)

// Evaluator 對候選權重估計 RTP。
//
// 調參器對估計來源無感：經驗模擬（預設）與理論解析（測試/校驗）
// 走同一個介面。
type Evaluator interface {
	Estimate(wv spec.WeightVector) (float64, error)
}

// Confirmer 可選介面：收斂後以 mult 倍樣本重測一次。
// 理論評估器是精確值，不需要確認，所以不實作本介面。
type Confirmer interface {
	Confirm(wv spec.WeightVector, mult int) (float64, error)
}

// EmpiricalEvaluator 以平行模擬批次估計 RTP。
//
// 每次估計重跑 repeat 批取平均，壓制單批的抽樣雜訊。
type EmpiricalEvaluator struct {
	sim     *tunelab.Simulator
	spins   int
	repeat  int
	workers int
}

func NewEmpiricalEvaluator(sim *tunelab.Simulator, ts *TunerSetting) *EmpiricalEvaluator {
	return &EmpiricalEvaluator{
		sim:     sim,
		spins:   ts.SpinsPerEval,
		repeat:  ts.EvalRepeat,
		workers: ts.Workers,
	}
}

func (e *EmpiricalEvaluator) Estimate(wv spec.WeightVector) (float64, error) {
	return e.estimate(wv, e.spins)
}

// Confirm 以 mult 倍 spin 數重測（單批，不再重複）。
func (e *EmpiricalEvaluator) Confirm(wv spec.WeightVector, mult int) (float64, error) {
	if mult < 1 {
		mult = 1
	}
	rounds := perWorker(e.spins*mult, e.workers)
	st, _, err := e.sim.SimWeights(wv, rounds, e.workers, false)
	if err != nil {
		return 0, err
	}
	return st.Rtp(), nil
}

func (e *EmpiricalEvaluator) estimate(wv spec.WeightVector, spins int) (float64, error) {
	rounds := perWorker(spins, e.workers)
	sum := 0.0
	for range e.repeat {
		st, _, err := e.sim.SimWeights(wv, rounds, e.workers, false)
		if err != nil {
			return 0, err
		}
		sum += st.Rtp()
	}
	return sum / float64(e.repeat), nil
}

func perWorker(spins, workers int) int {
	rounds := spins / workers
	if rounds < 1 {
		rounds = 1
	}
	return rounds
}

// TheoreticalEvaluator 以解析 RTP 作為精確評估來源。
//
// 無雜訊且可重現，調參收斂測試與小型設定的校驗都用它。
type TheoreticalEvaluator struct {
	GS *spec.GameSetting
}

func (e *TheoreticalEvaluator) Estimate(wv spec.WeightVector) (float64, error) {
	return calc.TheoreticalRTP(e.GS, wv)
}
