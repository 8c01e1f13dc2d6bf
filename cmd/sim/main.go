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

package main

import (
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/zintix-labs/tunelab"
	"github.com/zintix-labs/tunelab/configs"
	"github.com/zintix-labs/tunelab/sdk/calc"
	"github.com/zintix-labs/tunelab/sdk/core"
	"github.com/zintix-labs/tunelab/spec"
	"github.com/zintix-labs/tunelab/stats"
)

const (
	seed            = int64(4127483647)
	roundsPerWorker = 1_000_000
	players         = 10_000
	playerInitBets  = 40
	playerRounds    = 500
)

// 固定跑內嵌的 Tigrinho 示範設定：經驗 RTP 對照理論 RTP，再加一輪玩家體驗模擬。
func main() {
	gs, err := spec.LoadGameSetting(configs.FS, "tigrinho_3x3.yaml")
	if err != nil {
		log.Fatal(err)
	}
	sim, err := tunelab.NewSimulatorWithSeed(gs, core.Default(), seed)
	if err != nil {
		log.Fatal(err)
	}

	workers := runtime.NumCPU()
	report, used, err := sim.SimMP(roundsPerWorker, workers, true)
	if err != nil {
		log.Fatal(err)
	}
	report.StdOut(used)

	theory, err := calc.TheoreticalRTP(gs, gs.SymbolTable.Weights())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\nTheoretical RTP : %.6f\n", theory)
	fmt.Printf("Empirical   RTP : %.6f (95%% CI half-width %.6f)\n", report.Rtp(), report.CiHalfWidth())
	fmt.Printf("Spins for 0.005 half-width: %d\n", stats.RequiredSpins(report.Std(), 0.005, 0.95))

	fmt.Println("\n--- player sessions ---")
	_, est, _, err := sim.SimPlayers(workers, players, playerInitBets, playerRounds, true)
	if err != nil {
		log.Fatal(err)
	}
	est.Out()

	fmt.Println("\n--- player sessions (yaml) ---")
	if err := (&stats.YAMLEstimatorRender{}).Write(os.Stdout, est); err != nil {
		log.Fatal(err)
	}
}
