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

package tunelab_test

import (
	"bytes"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/zintix-labs/tunelab"
	"github.com/zintix-labs/tunelab/configs"
	"github.com/zintix-labs/tunelab/sdk/calc"
	"github.com/zintix-labs/tunelab/sdk/core"
	"github.com/zintix-labs/tunelab/spec"
)

// 單線單列的小型設定，理論值可手算，經驗模擬收斂快。
var lawOfLargeNumbersYAML = []byte(`
game_name: "lln_check"
screen:
  columns: 3
  rows: 1
bet_per_line: 1
symbol_table:
  symbols:
    - name: "A"
      weight: 10
      pays: [0, 0, 4]
    - name: "B"
      weight: 5
      pays: [0, 0, 8]
    - name: "C"
      weight: 1
      pays: [0, 0, 30]
paylines:
  - cells: [[0, 0], [0, 1], [0, 2]]
`)

func TestLoadEmbeddedTigrinho(t *testing.T) {
	gs, err := spec.LoadGameSetting(configs.FS, "tigrinho_3x3.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if gs.GameName != "tigrinho_3x3" {
		t.Fatalf("game name = %q", gs.GameName)
	}
	if got := gs.SymbolTable.Count(); got != 7 {
		t.Fatalf("symbol count = %d, want 7", got)
	}
	if got := gs.TotalBet(); got != 5 {
		t.Fatalf("total bet = %d, want 5", got)
	}
	if w := gs.SymbolTable.Lookup("W"); !gs.SymbolTable.IsWild(w) {
		t.Fatal("W should be wild")
	}
	if s := gs.SymbolTable.Lookup("S"); gs.SymbolTable.IsWild(s) {
		t.Fatal("S should not be wild")
	}
	if len(gs.Paylines) != 5 {
		t.Fatalf("paylines = %d, want 5", len(gs.Paylines))
	}
}

func TestMachineDeterminism(t *testing.T) {
	gs, err := spec.LoadGameSetting(configs.FS, "tigrinho_3x3.yaml")
	if err != nil {
		t.Fatal(err)
	}
	m1, err := tunelab.NewMachineWithSeed(gs, core.Default(), 42)
	if err != nil {
		t.Fatal(err)
	}
	m2, err := tunelab.NewMachineWithSeed(gs, core.Default(), 42)
	if err != nil {
		t.Fatal(err)
	}
	bet := gs.TotalBet()
	for i := 0; i < 300; i++ {
		s1, err := m1.Spin(bet)
		if err != nil {
			t.Fatal(err)
		}
		s2, err := m2.Spin(bet)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(s1, s2) {
			t.Fatalf("spin %d diverged: %+v vs %+v", i, s1, s2)
		}
	}
}

func TestMachineBetMismatch(t *testing.T) {
	gs, err := spec.LoadGameSetting(configs.FS, "tigrinho_3x3.yaml")
	if err != nil {
		t.Fatal(err)
	}
	m, err := tunelab.NewMachineWithSeed(gs, core.Default(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Spin(gs.TotalBet() + 1); err == nil {
		t.Fatal("mismatched bet should be rejected")
	}
}

func TestSetWeightsRejectsWrongLength(t *testing.T) {
	gs, err := spec.LoadGameSetting(configs.FS, "tigrinho_3x3.yaml")
	if err != nil {
		t.Fatal(err)
	}
	m, err := tunelab.NewMachineWithSeed(gs, core.Default(), 11)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.SetWeights(spec.WeightVector{5}); err == nil {
		t.Fatal("short weight vector should be rejected")
	}

	// 拒絕後機台狀態不得受影響：與同種子的乾淨機台序列一致
	clean, err := tunelab.NewMachineWithSeed(gs, core.Default(), 11)
	if err != nil {
		t.Fatal(err)
	}
	bet := gs.TotalBet()
	for i := 0; i < 50; i++ {
		s1, err := m.Spin(bet)
		if err != nil {
			t.Fatal(err)
		}
		s2, err := clean.Spin(bet)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(s1, s2) {
			t.Fatalf("spin %d diverged after rejected SetWeights", i)
		}
	}
}

func TestEmpiricalMatchesTheoretical(t *testing.T) {
	gs, err := spec.GetGameSettingByYAML(lawOfLargeNumbersYAML)
	if err != nil {
		t.Fatal(err)
	}
	theory, err := calc.TheoreticalRTP(gs, gs.SymbolTable.Weights())
	if err != nil {
		t.Fatal(err)
	}
	// RTP = (4*10^3 + 8*5^3 + 30*1^3) / 16^3
	want := float64(4*1000+8*125+30*1) / 4096
	if math.Abs(theory-want) > 1e-12 {
		t.Fatalf("theory = %v, want %v", theory, want)
	}

	sim, err := tunelab.NewSimulatorWithSeed(gs, core.Default(), 20250826)
	if err != nil {
		t.Fatal(err)
	}
	report, _, err := sim.Sim(500_000, false)
	if err != nil {
		t.Fatal(err)
	}
	if diff := math.Abs(report.Rtp() - theory); diff > 0.05 {
		t.Fatalf("empirical %.4f vs theoretical %.4f, diff %.4f", report.Rtp(), theory, diff)
	}
}

func TestSimMPTotalRounds(t *testing.T) {
	gs, err := spec.GetGameSettingByYAML(lawOfLargeNumbersYAML)
	if err != nil {
		t.Fatal(err)
	}
	sim, err := tunelab.NewSimulatorWithSeed(gs, core.Default(), 7)
	if err != nil {
		t.Fatal(err)
	}
	report, _, err := sim.SimMP(1000, 4, false)
	if err != nil {
		t.Fatal(err)
	}
	if report.Summary.Rounds != 4000 {
		t.Fatalf("rounds = %d, want 4000", report.Summary.Rounds)
	}
	if report.Summary.TotalBet != 4000*gs.TotalBet() {
		t.Fatalf("total bet = %d", report.Summary.TotalBet)
	}
}

func TestSimPlayersReports(t *testing.T) {
	gs, err := spec.LoadGameSetting(configs.FS, "tigrinho_3x3.yaml")
	if err != nil {
		t.Fatal(err)
	}
	sim, err := tunelab.NewSimulatorWithSeed(gs, core.Default(), 99)
	if err != nil {
		t.Fatal(err)
	}
	report, est, _, err := sim.SimPlayers(2, 50, 10, 100, false)
	if err != nil {
		t.Fatal(err)
	}
	if report == nil || est == nil {
		t.Fatal("nil report")
	}
	sum := est.SessionStat.Bust.Hat + est.SessionStat.Cashout.Hat + est.SessionStat.Alive.Hat
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("session proportions sum to %v", sum)
	}
	if est.RtpStat.ExpMedian.Hat < 0 {
		t.Fatalf("median RTP = %v", est.RtpStat.ExpMedian.Hat)
	}
}

func TestPlaySession(t *testing.T) {
	gs, err := spec.LoadGameSetting(configs.FS, "tigrinho_3x3.yaml")
	if err != nil {
		t.Fatal(err)
	}

	// 立刻離場：餘額不變
	m, err := tunelab.NewMachineWithSeed(gs, core.Default(), 5)
	if err != nil {
		t.Fatal(err)
	}
	out := &bytes.Buffer{}
	final, err := tunelab.Play(m, strings.NewReader("q\n"), out, 100)
	if err != nil {
		t.Fatal(err)
	}
	if final != 100 {
		t.Fatalf("final = %d, want 100", final)
	}
	if !strings.Contains(out.String(), "tigrinho_3x3") {
		t.Fatal("output should mention the game name")
	}

	// 轉一輪再離場：與同種子機台的結果一致
	clone, err := tunelab.NewMachineWithSeed(gs, core.Default(), 5)
	if err != nil {
		t.Fatal(err)
	}
	snap, err := clone.Spin(gs.TotalBet())
	if err != nil {
		t.Fatal(err)
	}
	m2, err := tunelab.NewMachineWithSeed(gs, core.Default(), 5)
	if err != nil {
		t.Fatal(err)
	}
	out.Reset()
	final, err = tunelab.Play(m2, strings.NewReader("\nq\n"), out, 100)
	if err != nil {
		t.Fatal(err)
	}
	want := 100 - gs.TotalBet() + snap.TotalWin
	if final != want {
		t.Fatalf("final = %d, want %d", final, want)
	}
	if !strings.Contains(out.String(), "Reels") {
		t.Fatal("grid should be rendered")
	}
}
