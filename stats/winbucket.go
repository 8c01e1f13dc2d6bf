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

package stats

const (
	maxLutMult = 2000  // LUT 反查表只建到 2000 倍
	maxMult    = 10000 // 超過視為最末桶
)

// WinBuckets 管理各押注額的贏分分桶表。
type WinBuckets struct {
	winBucket    []int
	winBucketStr []string
	winBucketMap map[int]*WinBucket
}

// WinBucket 單一押注額的分桶：贏分 → 桶索引 O(1)。
type WinBucket struct {
	maxCheckWin      int
	lutMaxWin        int
	winBucketByScore []int
	winBucketLUT     []int
	justOverIdx      int
	maxIdx           int
}

// Buckets 全域分桶設定，贏倍區間 [0,0], (0,1), [1,2), [2,5), ..., [10000,+inf)。
// 請勿修改預設值。
var Buckets *WinBuckets = &WinBuckets{
	winBucket:    []int{0, 1, 2, 5, 10, 20, 50, 100, 300, 500, 1000, 2000, 10000},
	winBucketStr: []string{"[0,0]", "(0,1)", "[1,2)", "[2,5)", "[5,10)", "[10,20)", "[20,50)", "[50,100)", "[100,300)", "[300,500)", "[500,1000)", "[1000,2000)", "[2000,10000)", "[10000,+inf)"},
	winBucketMap: make(map[int]*WinBucket),
}

func (b *WinBuckets) WinBucketStr() []string {
	return b.winBucketStr
}

// GetBucketByBet 取得對應押注額的分桶，不存在則建表。
func (b *WinBuckets) GetBucketByBet(bet int) *WinBucket {
	result, exist := b.winBucketMap[bet]
	if !exist {
		result = b.buildBucket(bet)
	}
	return result
}

func (b *WinBuckets) buildBucket(bet int) *WinBucket {
	maxLut := bet * maxLutMult
	maxcheckwin := bet * maxMult

	// 把「倍數邊界」轉成「贏分邊界」
	winGp := make([]int, len(b.winBucket))
	for i, v := range b.winBucket {
		winGp[i] = bet * v
	}

	// 建立 LUT 反查表 lut[win] = idx
	lut := make([]int, maxLut)

	idx := 1 // 由 (0,1) 區間開始
	last := len(winGp) - 1

	lut[0] = 0
	for i := 1; i < maxLut; i++ {
		// 僅在還有更高邊界時才前進 idx，避免越界讀取
		for idx < last && i >= winGp[idx] {
			idx++
		}
		lut[i] = idx
	}

	result := &WinBucket{
		maxCheckWin:      maxcheckwin,
		lutMaxWin:        maxLut,
		winBucketByScore: winGp,
		winBucketLUT:     lut,
		justOverIdx:      len(winGp) - 1,
		maxIdx:           len(winGp),
	}

	b.winBucketMap[bet] = result
	return result
}

// Index 回傳贏分所屬桶索引。
func (wb *WinBucket) Index(win int) int {
	if win >= wb.lutMaxWin {
		if win >= wb.maxCheckWin {
			return wb.maxIdx
		}
		return wb.justOverIdx
	}
	return wb.winBucketLUT[win]
}
