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
	"github.com/zintix-labs/tunelab/errs"
	"github.com/zintix-labs/tunelab/sdk/core"
	"github.com/zintix-labs/tunelab/spec"
)

// StepPolicy 產生下一個候選權重向量。
//
// Propose 不得改動 cur，回傳的向量為獨立副本（候選被拒絕時直接丟棄）。
type StepPolicy interface {
	Propose(c *core.Core, cur spec.WeightVector) spec.WeightVector
}

// GetStepPolicy 依設定建立步進策略。
func GetStepPolicy(ts *TunerSetting, symbols int) (StepPolicy, error) {
	switch ts.Policy {
	case "hill":
		return &HillStep{Floor: ts.WeightFloor}, nil
	case "random":
		if len(ts.Ranges) != symbols {
			return nil, errs.Warnf("ranges length %d != symbol count %d", len(ts.Ranges), symbols)
		}
		return &RandomStep{Ranges: ts.Ranges}, nil
	default:
		return nil, errs.Warnf("policy %s not supported", ts.Policy)
	}
}

// HillStep 隨機挑一個符號，權重 ±1，不低於 Floor。
type HillStep struct {
	Floor int
}

func (h *HillStep) Propose(c *core.Core, cur spec.WeightVector) spec.WeightVector {
	next := cur.Clone()
	idx := c.IntN(len(next))
	delta := c.IntN(2)*2 - 1 // -1 或 +1
	w := next[idx] + delta
	if w < h.Floor {
		// 往下撞到底就往上走，保持每次提案都是真實移動
		w = next[idx] + 1
	}
	next[idx] = w
	return next
}

// RandomStep 各符號在各自範圍內重抽（無界步進的暴力搜索）。
type RandomStep struct {
	Ranges []WeightRange
}

func (r *RandomStep) Propose(c *core.Core, cur spec.WeightVector) spec.WeightVector {
	next := cur.Clone()
	for i, rg := range r.Ranges {
		next[i] = rg.Min + c.IntN(rg.Max-rg.Min+1)
	}
	return next
}
