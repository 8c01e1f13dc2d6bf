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

package recorder

import (
	"fmt"

	"github.com/zintix-labs/tunelab/errs"
	"github.com/zintix-labs/tunelab/sdk/buf"
	"github.com/zintix-labs/tunelab/stats"
)

// SpinRecorder 遊戲紀錄員
//
// SpinRecorder 負責紀錄遊戲結果，並透過Done輸出統計報表。
// 熱路徑只累積整數，統計換算集中在Done。
type SpinRecorder struct {
	GameName string
	Bet      int // 單次 spin 總押注（每線押注 × 線數）
	InitBets int // 玩家模式的初始本金（以押注數計），0 表示純 RTP 模式
	Basic    *BasicRecord
	Dist     *DistRecord
	Player   *PlayerRecord
}

// BasicRecord 基本遊戲資料紀錄
type BasicRecord struct {
	TotalBet      int
	TotalWin      int
	TotalWinSqSum int // 平方和
	Rounds        int
}

// DistRecord 分數區間落點統計
type DistRecord struct {
	Bucket          *stats.WinBucket
	TotalWinCollect []int
}

// PlayerRecord 玩家統計
type PlayerRecord struct {
	leaveLine   int
	InitBalance int
	Balance     int
	MaxBalance  int
	MinBalance  int
	Bust        bool
	Cashout     bool
	Trace       *BalanceTrace
}

// 玩家贏滿本金幾倍即離場
const cashoutMult = 3

func NewSpinRecorder(name string, bet int, initBets int) (*SpinRecorder, error) {
	s := new(SpinRecorder)

	if bet <= 0 {
		return s, errs.NewFatal(fmt.Sprintf("bet must be positive, got: %d", bet))
	}
	if initBets < 0 {
		return s, errs.NewFatal(fmt.Sprintf("init bets must not negative integer, got: %d", initBets))
	}
	// 通過valid
	s.GameName = name
	s.Bet = bet
	s.InitBets = initBets
	s.Basic = new(BasicRecord)
	s.Dist = newDistRecord(bet)
	if initBets > 0 {
		s.Player = newPlayerRecord(bet, initBets)
	}

	return s, nil
}

// MergeSpinRecorder 合併多個worker的紀錄（僅合併 Basic/Dist，玩家紀錄不可合併）。
func MergeSpinRecorder(r []*SpinRecorder) (*SpinRecorder, error) {
	r0 := r[0]
	s, err := NewSpinRecorder(r0.GameName, r0.Bet, 0)
	if err != nil {
		return s, err
	}
	for _, v := range r {
		if v.GameName != r0.GameName {
			return s, errs.NewFatal("merge spin record err : different game name")
		}
		if v.Bet != r0.Bet {
			return s, errs.NewFatal("merge spin record err : different bet")
		}
		s.Basic.TotalBet += v.Basic.TotalBet
		s.Basic.TotalWin += v.Basic.TotalWin
		s.Basic.TotalWinSqSum += v.Basic.TotalWinSqSum
		s.Basic.Rounds += v.Basic.Rounds

		// 整合Dist
		for i := range len(v.Dist.TotalWinCollect) {
			s.Dist.TotalWinCollect[i] += v.Dist.TotalWinCollect[i]
		}
	}
	return s, nil
}

// Record 以單次 SpinResult 更新基本統計（不含玩家）
func (s *SpinRecorder) Record(sr *buf.SpinResult) {
	s.recordBasic(sr) // Basic
	s.recordDist(sr)  // Dist
}

// RecordWithPlayer 在 Record 的基礎上，進一步更新玩家餘額／離場狀態，並回傳玩家是否停止遊戲。
func (s *SpinRecorder) RecordWithPlayer(sr *buf.SpinResult) bool {
	if s.Player.Balance < s.Bet {
		return true
	}
	s.recordBasic(sr)
	s.recordDist(sr)
	return s.recordPlayer(sr)
}

func (s *SpinRecorder) Done() *stats.StatReport {
	bf := float64(s.Bet)
	bb := bf * bf

	report := &stats.StatReport{
		Summary: &stats.SummaryReport{
			GameName:    s.GameName,
			Bet:         s.Bet,
			TotalBet:    s.Basic.TotalBet,
			TotalWin:    s.Basic.TotalWin,
			RTP:         s.rtp(),
			NoWinRounds: s.Dist.TotalWinCollect[0],
			HitRate:     hitRate(s.Dist.TotalWinCollect[0], s.Basic.Rounds),
			Rounds:      s.Basic.Rounds,
		},
		Mult: &stats.MultReport{
			TotalWinMult:      float64(s.Basic.TotalWin) / bf,
			TotalWinMultSqSum: float64(s.Basic.TotalWinSqSum) / bb,
		},
		Dist: &stats.DistReport{
			WinBucket:       stats.Buckets.WinBucketStr(),
			TotalWinCollect: s.Dist.TotalWinCollect,
			TotalWinDist:    nil,
		},
	}

	if s.Player != nil {
		report.Player = &stats.PlayerReport{
			InitBalance: s.Player.InitBalance,
			Balance:     s.Player.Balance,
			MaxBalance:  s.Player.MaxBalance,
			MinBalance:  s.Player.MinBalance,
			Bust:        s.Player.Bust,
			Cashout:     s.Player.Cashout,
		}
	}

	length := len(report.Dist.WinBucket)
	totalWinF := make([]float64, length)
	if rf := float64(report.Summary.Rounds); rf > 0 {
		for i := range length {
			totalWinF[i] = float64(report.Dist.TotalWinCollect[i]) / rf
		}
	}
	report.Dist.TotalWinDist = totalWinF

	report.Done()
	return report
}

func (s *SpinRecorder) rtp() float64 {
	if s.Basic.Rounds == 0 || s.Basic.TotalBet == 0 {
		return 0
	}
	return float64(s.Basic.TotalWin) / float64(s.Basic.TotalBet)
}

func hitRate(noWin, rounds int) float64 {
	if rounds == 0 {
		return 0
	}
	return 1.0 - float64(noWin)/float64(rounds)
}

func (s *SpinRecorder) recordBasic(res *buf.SpinResult) {
	w := res.TotalWin

	s.Basic.TotalBet += res.Bet
	s.Basic.TotalWin += w
	s.Basic.TotalWinSqSum += w * w
	s.Basic.Rounds++
}

func (s *SpinRecorder) recordDist(res *buf.SpinResult) {
	s.Dist.TotalWinCollect[s.Dist.Bucket.Index(res.TotalWin)]++
}

func (s *SpinRecorder) recordPlayer(sr *buf.SpinResult) bool {
	p := s.Player
	w := sr.TotalWin
	b := s.Bet

	// 更新資金
	p.Balance -= b
	p.Balance += w

	// 更新歷史最高資產
	if p.Balance > p.MaxBalance {
		p.MaxBalance = p.Balance
	}
	// 更新歷史最低資產
	if p.Balance < p.MinBalance {
		p.MinBalance = p.Balance
	}

	if p.Trace != nil {
		p.Trace.Append(p.Balance)
	}

	// 更新結局
	leave := false
	if p.Balance < b {
		p.Bust = true
		leave = true
	}
	if p.Balance >= p.leaveLine {
		p.Cashout = true
		leave = true
	}
	return leave
}

func newDistRecord(bet int) *DistRecord {
	d := new(DistRecord)
	d.Bucket = stats.Buckets.GetBucketByBet(bet)
	d.TotalWinCollect = make([]int, len(stats.Buckets.WinBucketStr()))
	return d
}

func newPlayerRecord(bet int, initBets int) *PlayerRecord {
	p := new(PlayerRecord)

	b := bet * initBets // 初始帶入總金額

	p.InitBalance = b
	p.Balance = b
	p.MaxBalance = b
	p.MinBalance = b
	p.leaveLine = cashoutMult * b // 離場條件：本金翻三倍
	p.Trace = NewBalanceTrace(b)

	return p
}
