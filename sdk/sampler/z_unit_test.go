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

package sampler

import (
	"math"
	"testing"

	"github.com/zintix-labs/tunelab/sdk/core"
)

// assertPanic 驗證函數是否如預期觸發 panic
func assertPanic(t *testing.T, f func(), msg string) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic for %s, but got none", msg)
		}
	}()
	f()
}

// checkDistribution 驗證抽樣結果的分佈是否符合預期權重
func checkDistribution(t *testing.T, name string, weights []int, samples []int, tolerance float64) {
	t.Helper()
	totalW := 0
	for _, w := range weights {
		totalW += w
	}
	if totalW == 0 {
		return
	}

	counts := make(map[int]int)
	for _, idx := range samples {
		counts[idx]++
	}

	totalSamples := len(samples)
	for i, w := range weights {
		if w == 0 {
			if counts[i] > 0 {
				t.Errorf("[%s] expected 0 samples for index %d (weight 0), got %d", name, i, counts[i])
			}
			continue
		}
		expectedProb := float64(w) / float64(totalW)
		actualProb := float64(counts[i]) / float64(totalSamples)
		diff := math.Abs(expectedProb - actualProb)

		if diff > tolerance {
			t.Errorf("[%s] index %d: expected prob %.3f, got %.3f (diff %.3f > tol %.3f)",
				name, i, expectedProb, actualProb, diff, tolerance)
		}
	}
}

func TestBuildLUTExpansion(t *testing.T) {
	lut := BuildLUT([]int{3, 5, 0})
	if lut.Total() != 8 {
		t.Fatalf("expected total 8, got %d", lut.Total())
	}
	want := []int{0, 0, 0, 1, 1, 1, 1, 1}
	for i, v := range lut {
		if v != want[i] {
			t.Fatalf("lut[%d]=%d want %d", i, v, want[i])
		}
	}
}

func TestBuildLUTPanics(t *testing.T) {
	assertPanic(t, func() { BuildLUT([]int{1, -1}) }, "negative weight")
	assertPanic(t, func() { BuildLUT([]int{0, 0}) }, "all-zero weights")
}

func TestLUTPickDistribution(t *testing.T) {
	weights := []int{10, 5, 1}
	lut := BuildLUT(weights)
	c := core.New(core.Default().New(1234))

	const n = 200_000
	samples := make([]int, n)
	for i := range samples {
		samples[i] = lut.Pick(c)
	}
	checkDistribution(t, "lut", weights, samples, 0.01)
}

func TestLUTPickDeterminism(t *testing.T) {
	lut := BuildLUT([]int{3, 1, 10, 21, 5, 26, 15})
	c1 := core.New(core.Default().New(99))
	c2 := core.New(core.Default().New(99))
	for i := 0; i < 1000; i++ {
		if lut.Pick(c1) != lut.Pick(c2) {
			t.Fatalf("pick mismatch at %d", i)
		}
	}
}
