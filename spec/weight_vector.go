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
	"fmt"
	"slices"

	"github.com/zintix-labs/tunelab/errs"
)

// WeightVector 是 Symbol 索引 → 權重的向量。
//
// 生命週期約定：只有調參器會在兩次批次模擬「之間」改動它；
// 單一批次模擬看到的是不可變快照（copy-on-read，見 Simulator.SimWeights）。
type WeightVector []int

// Clone 回傳獨立副本。
func (wv WeightVector) Clone() WeightVector {
	return slices.Clone(wv)
}

// Total 回傳權重總和（抽樣分母）。
func (wv WeightVector) Total() int {
	t := 0
	for _, w := range wv {
		t += w
	}
	return t
}

// Set 設定單一符號權重，w <= 0 回傳 ErrInvalidWeight。
func (wv WeightVector) Set(idx int, w int) error {
	if idx < 0 || idx >= len(wv) {
		return errs.Fatalf("weight index %d out of range [0,%d)", idx, len(wv))
	}
	if w <= 0 {
		return errs.Wrap(ErrInvalidWeight, fmt.Sprintf("index %d weight %d", idx, w))
	}
	wv[idx] = w
	return nil
}

// Validate 檢查所有權重為正且總和非零。
// 總和為零（退化抽樣）是 Fatal：模擬不可啟動，必須在設定驗證期擋下。
func (wv WeightVector) Validate() error {
	if len(wv) == 0 {
		return errs.Wrap(ErrSamplingDegenerate, "empty weight vector")
	}
	for i, w := range wv {
		if w <= 0 {
			return errs.Wrap(ErrInvalidWeight, fmt.Sprintf("index %d weight %d", i, w))
		}
	}
	if wv.Total() == 0 {
		return errs.Wrap(ErrSamplingDegenerate, "total weight is zero")
	}
	return nil
}

// Prob 回傳符號 idx 的抽樣機率。
func (wv WeightVector) Prob(idx int) float64 {
	t := wv.Total()
	if t == 0 || idx < 0 || idx >= len(wv) {
		return 0
	}
	return float64(wv[idx]) / float64(t)
}
