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

package recorder_test

import (
	"testing"

	"github.com/zintix-labs/tunelab/recorder"
	"github.com/zintix-labs/tunelab/sdk/buf"
)

func spin(bet, win int) *buf.SpinResult {
	return &buf.SpinResult{GameName: "TestGame", Bet: bet, TotalWin: win}
}

func TestRecorderBasicAccumulation(t *testing.T) {
	r, err := recorder.NewSpinRecorder("TestGame", 5, 0)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	wins := []int{0, 5, 20, 0}
	for _, w := range wins {
		r.Record(spin(5, w))
	}

	rep := r.Done()
	if rep.Summary.Rounds != 4 {
		t.Fatalf("rounds got %d want 4", rep.Summary.Rounds)
	}
	if rep.Summary.TotalBet != 20 || rep.Summary.TotalWin != 25 {
		t.Fatalf("totals got bet=%d win=%d want 20/25", rep.Summary.TotalBet, rep.Summary.TotalWin)
	}
	if rep.Summary.RTP != 1.25 {
		t.Fatalf("RTP got %f want 1.25", rep.Summary.RTP)
	}
	if rep.Summary.NoWinRounds != 2 {
		t.Fatalf("no-win rounds got %d want 2", rep.Summary.NoWinRounds)
	}
	if rep.Summary.HitRate != 0.5 {
		t.Fatalf("hit rate got %f want 0.5", rep.Summary.HitRate)
	}
	if rep.Player != nil {
		t.Fatalf("pure RTP mode should not carry a player report")
	}

	total := 0
	for _, c := range rep.Dist.TotalWinCollect {
		total += c
	}
	if total != 4 {
		t.Fatalf("distribution total %d want 4", total)
	}
}

func TestRecorderRejectsBadInput(t *testing.T) {
	if _, err := recorder.NewSpinRecorder("g", 0, 0); err == nil {
		t.Fatalf("expected error for zero bet")
	}
	if _, err := recorder.NewSpinRecorder("g", 5, -1); err == nil {
		t.Fatalf("expected error for negative init bets")
	}
}

func TestRecorderPlayerBustAndCashout(t *testing.T) {
	// Bust: 2 bets of bankroll, never wins.
	r, err := recorder.NewSpinRecorder("TestGame", 10, 2)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	leave := r.RecordWithPlayer(spin(10, 0))
	if leave {
		t.Fatalf("balance 10 >= bet, should continue")
	}
	leave = r.RecordWithPlayer(spin(10, 0))
	if !leave {
		t.Fatalf("balance 0, should bust")
	}
	rep := r.Done()
	if rep.Player == nil || !rep.Player.Bust || rep.Player.Cashout {
		t.Fatalf("expected bust outcome, got %+v", rep.Player)
	}
	if rep.Player.Balance != 0 || rep.Player.MinBalance != 0 {
		t.Fatalf("balance got %d min %d want 0/0", rep.Player.Balance, rep.Player.MinBalance)
	}

	// Cashout: one big win pushes balance past 3x bankroll.
	r2, _ := recorder.NewSpinRecorder("TestGame", 10, 2)
	leave = r2.RecordWithPlayer(spin(10, 100))
	if !leave {
		t.Fatalf("balance 110 >= 60 cashout line, should leave")
	}
	rep2 := r2.Done()
	if !rep2.Player.Cashout || rep2.Player.Bust {
		t.Fatalf("expected cashout outcome, got %+v", rep2.Player)
	}
	if rep2.Player.MaxBalance != 110 {
		t.Fatalf("max balance got %d want 110", rep2.Player.MaxBalance)
	}
}

func TestMergeSpinRecorder(t *testing.T) {
	a, _ := recorder.NewSpinRecorder("TestGame", 5, 0)
	b, _ := recorder.NewSpinRecorder("TestGame", 5, 0)
	a.Record(spin(5, 10))
	b.Record(spin(5, 0))
	b.Record(spin(5, 5))

	m, err := recorder.MergeSpinRecorder([]*recorder.SpinRecorder{a, b})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if m.Basic.Rounds != 3 || m.Basic.TotalBet != 15 || m.Basic.TotalWin != 15 {
		t.Fatalf("merged totals wrong: %+v", m.Basic)
	}

	c, _ := recorder.NewSpinRecorder("Other", 5, 0)
	if _, err := recorder.MergeSpinRecorder([]*recorder.SpinRecorder{a, c}); err == nil {
		t.Fatalf("expected error merging different games")
	}
}

func TestBalanceTraceRoundTrip(t *testing.T) {
	tr := recorder.NewBalanceTrace(100)
	want := []int{100}
	bal := 100
	for i := 0; i < 50000; i++ {
		bal += (i % 7) - 3
		tr.Append(bal)
		want = append(want, bal)
	}
	if tr.Len() != len(want) {
		t.Fatalf("trace length got %d want %d", tr.Len(), len(want))
	}

	got, err := tr.Points()
	if err != nil {
		t.Fatalf("points: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("points length got %d want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("point %d got %d want %d", i, got[i], want[i])
		}
	}
}

func TestBalanceTraceReadOnlyAfterPoints(t *testing.T) {
	tr := recorder.NewBalanceTrace(10)
	tr.Append(15)
	first, err := tr.Points()
	if err != nil {
		t.Fatalf("points: %v", err)
	}

	// 定稿後 Append 必須是 no-op，Len 與再次 Points 保持一致
	tr.Append(20)
	if tr.Len() != len(first) {
		t.Fatalf("len changed after finalize: got %d want %d", tr.Len(), len(first))
	}
	again, err := tr.Points()
	if err != nil {
		t.Fatalf("points after finalize: %v", err)
	}
	if len(again) != len(first) {
		t.Fatalf("points length got %d want %d", len(again), len(first))
	}
	for i := range first {
		if again[i] != first[i] {
			t.Fatalf("point %d got %d want %d", i, again[i], first[i])
		}
	}
}
