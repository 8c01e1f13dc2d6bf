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

// Package sampler 提供加權抽樣工具。
//
// 本檔案 (lut.go) 實作查找表 (Look-Up Table) 加權抽樣：
//   - 空間換時間：將權重展開為長陣列，每個索引出現的次數等於其權重。
//   - 抽樣是一次 IntN 後直接取值，O(1)。
//   - 對宣告的權重而言抽樣是「精確」的（整數均勻抽樣上的 CDF 反演），不是近似。
//
// 適用場景：權重總和較小（PAR sheet 的符號權重通常是個位數到兩位數），
// 對抽樣效能有極致要求的滾輪熱路徑。
package sampler

import (
	"fmt"
	"math"

	"github.com/zintix-labs/tunelab/sdk/core"
)

const maxLUTCap uint64 = 10_000_000 // 約 80MB (int slice)

// LUT 展開後的加權查找表。
//
// 舉例：三個符號，權重 [3,5,0]，總和 8。
// 展開為 [0,0,0,1,1,1,1,1]，從中均勻取一個值即符合 3/8、5/8、0/8 的抽樣。
type LUT []int

// BuildLUT 根據權重列表建立查找表。
//
// src 為任意非負整數權重列表，遇到負權重、全零權重或總和爆表會 panic：
// 這些都屬於設定驗證就該擋下的錯誤，建表時出現代表上游流程有 bug。
func BuildLUT[T Integers](src []T) LUT {
	if len(src) == 0 {
		return []int{}
	}

	acc := uint64(0)
	for _, v := range src {
		if v < 0 {
			panic("lut: negative value encountered")
		}
		uv := uint64(v)
		if acc > math.MaxUint64-uv {
			panic("lut: total weight overflow uint64 range")
		}
		acc += uv
	}

	if acc == 0 {
		panic("lut: all weights are zero")
	}

	if acc > maxLUTCap {
		panic(fmt.Sprintf("lut: total weight %d exceeds limit %d", acc, maxLUTCap))
	}

	lut := make([]int, 0, int(acc))
	for i, v := range src {
		// 將索引 i 重複寫入 v 次
		for j := T(0); j < v; j++ {
			lut = append(lut, i)
		}
	}
	return lut
}

// Pick 透過 Core 的 RNG 從 LUT 中隨機位置取一個值。
// 若 lut 為空，回傳 -1。
func (l LUT) Pick(c *core.Core) int {
	return c.Pick(l)
}

// Total 回傳展開前的權重總和（即查找表長度）。
func (l LUT) Total() int {
	return len(l)
}
