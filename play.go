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

package tunelab

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/zintix-labs/tunelab/errs"
	"github.com/zintix-labs/tunelab/sdk/buf"
)

// Play 互動試玩迴圈：ENTER 轉一局、q 離開。
//
// 賠付以 Machine.Spin 的結果為準且不可重議；
// 餘額只是本迴圈的外部狀態，輸光即結束。
func Play(m *Machine, in io.Reader, out io.Writer, balance int) (int, error) {
	if balance <= 0 {
		return balance, errs.NewWarn("balance must be positive")
	}
	bet := m.Setting().TotalBet()
	lines := len(m.Setting().Paylines)
	sc := bufio.NewScanner(in)

	for {
		fmt.Fprintf(out, "\n--- %s ---\n", m.gameName)
		fmt.Fprintf(out, "Your Balance: $%d\n", balance)
		fmt.Fprintf(out, "Bet: $%d on %d lines (Total Bet: $%d)\n", m.Setting().BetPerLine, lines, bet)
		fmt.Fprint(out, "Press ENTER to spin, or type 'q' to quit: ")

		if !sc.Scan() {
			return balance, sc.Err()
		}
		if strings.EqualFold(strings.TrimSpace(sc.Text()), "q") {
			return balance, nil
		}
		if balance < bet {
			fmt.Fprintln(out, "Game Over! You've run out of money.")
			return balance, nil
		}
		balance -= bet

		snap, err := m.Spin(bet)
		if err != nil {
			return balance, err
		}
		writeGrid(out, m, snap)

		if snap.TotalWin > 0 {
			balance += snap.TotalWin
			fmt.Fprintf(out, "\nCongratulations! You won a total of $%d!\n", snap.TotalWin)
			for _, lw := range snap.Lines {
				fmt.Fprintf(out, "  - Line %d: %s x%d paid $%d\n",
					lw.Line+1, m.setting.SymbolTable.NameOf(lw.Symbol), lw.Count, lw.Win)
			}
		} else {
			fmt.Fprintln(out, "\nNo winning lines this time.")
		}
	}
}

func writeGrid(out io.Writer, m *Machine, snap buf.SpinSnapshot) {
	cols := m.setting.Screen.Columns
	rows := m.setting.Screen.Rows

	// 對齊到最寬符號名
	w := 1
	for _, s := range m.setting.SymbolTable.Symbols {
		if n := runewidth.StringWidth(s.Name); n > w {
			w = n
		}
	}

	fmt.Fprintln(out, "     --- Reels ---")
	for r := 0; r < rows; r++ {
		cells := make([]string, cols)
		for c := 0; c < cols; c++ {
			name := m.setting.SymbolTable.NameOf(snap.Screen[r*cols+c])
			cells[c] = runewidth.FillLeft(name, w)
		}
		fmt.Fprintf(out, "     | %s |\n", strings.Join(cells, " | "))
	}
	fmt.Fprintln(out, "     -------------")
}
