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

	"github.com/zintix-labs/tunelab/errs"
)

// Symbol 是符號在設定表內的索引（由符號列表順序決定，非全域 enum）。
//
// 盤面與線表都以 Symbol 索引運作；符號名稱只存在於設定與報表輸出。
type Symbol = int16

// SymbolSetting 描述單一符號：名稱、權重、各連線長度的賠率與是否為百搭。
//
// Pays 以 match 數為索引（Pays[0] 為 1 連線倍率，依此類推）。
// 長度可短於欄數，缺的視為 0（查無此組合賠 0 分，不是錯誤）。
type SymbolSetting struct {
	Name   string `yaml:"name"   json:"name"`
	Weight int    `yaml:"weight" json:"weight"`
	Pays   []int  `yaml:"pays"   json:"pays"`
	Wild   bool   `yaml:"wild"   json:"wild,omitempty"`
}

// SymbolTable 統整一組符號並記錄衍生屬性（百搭遮罩、賠付 CSR 表）。
type SymbolTable struct {
	Symbols []SymbolSetting `yaml:"symbols" json:"symbols"`

	// 衍生資料（Init 時建立）
	WildMask      uint64 `yaml:"-" json:"-"`
	PaidMask      uint64 `yaml:"-" json:"-"`
	PayTableFlat  []int  `yaml:"-" json:"-"`
	PayTableIndex []int  `yaml:"-" json:"-"`
	initFlag      bool
}

// Init 驗證符號設定並建立衍生賠付表。
//
// 所有違規都在這裡擋下，熱路徑假設資料已合法：
//   - 權重 <= 0 → ErrInvalidWeight
//   - 任一倍率 < 0 → ErrInvalidPaytable
//   - 符號數超過遮罩位寬、名稱重複 → Fatal
func (st *SymbolTable) Init(cols int) error {
	if st.initFlag {
		return nil
	}
	n := len(st.Symbols)
	if n == 0 {
		return errs.Wrap(ErrSamplingDegenerate, "symbol table is empty")
	}
	if n > 64 {
		return errs.Fatalf("too many symbols: %d (mask width is 64)", n)
	}

	seen := map[string]struct{}{}
	st.PayTableFlat = make([]int, n*cols)
	st.PayTableIndex = make([]int, n)
	write := 0
	for i := range st.Symbols {
		s := &st.Symbols[i]
		if s.Name == "" {
			return errs.Fatalf("symbol %d has empty name", i)
		}
		if _, ok := seen[s.Name]; ok {
			return errs.Fatalf("duplicate symbol name %q", s.Name)
		}
		seen[s.Name] = struct{}{}

		if s.Weight <= 0 {
			return errs.Wrap(ErrInvalidWeight, fmt.Sprintf("symbol %q weight %d", s.Name, s.Weight))
		}
		if len(s.Pays) > cols {
			return errs.Wrap(ErrInvalidPaytable, fmt.Sprintf("symbol %q has %d pay entries for %d columns", s.Name, len(s.Pays), cols))
		}

		st.PayTableIndex[i] = write
		for j, v := range s.Pays {
			if v < 0 {
				return errs.Wrap(ErrInvalidPaytable, fmt.Sprintf("symbol %q pay[%d] = %d", s.Name, j, v))
			}
			st.PayTableFlat[write+j] = v
		}
		write += cols

		if s.Wild {
			st.WildMask |= 1 << uint(i)
		}
		for _, v := range s.Pays {
			if v > 0 {
				st.PaidMask |= 1 << uint(i)
				break
			}
		}
	}

	st.initFlag = true
	return nil
}

// Count 回傳符號數量。
func (st *SymbolTable) Count() int {
	return len(st.Symbols)
}

// Lookup 依名稱找符號索引，找不到回傳 -1。
func (st *SymbolTable) Lookup(name string) Symbol {
	for i := range st.Symbols {
		if st.Symbols[i].Name == name {
			return Symbol(i)
		}
	}
	return -1
}

// NameOf 回傳符號名稱，越界回傳 "?"。
func (st *SymbolTable) NameOf(s Symbol) string {
	if s < 0 || int(s) >= len(st.Symbols) {
		return "?"
	}
	return st.Symbols[s].Name
}

// IsWild 回報符號是否為百搭。
func (st *SymbolTable) IsWild(s Symbol) bool {
	return st.WildMask&(1<<uint(s)) != 0
}

// Weights 回傳目前的權重向量（快照，呼叫端可任意改動）。
func (st *SymbolTable) Weights() WeightVector {
	wv := make(WeightVector, len(st.Symbols))
	for i := range st.Symbols {
		wv[i] = st.Symbols[i].Weight
	}
	return wv
}
