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
	"bytes"
	"encoding/binary"

	"github.com/klauspost/compress/zstd"

	"github.com/zintix-labs/tunelab/errs"
)

// BalanceTrace 玩家資金曲線的壓縮紀錄。
//
// 玩家模擬常需要上萬條資金曲線存在記憶體裡，展開儲存成本太高；
// 餘額相鄰幾乎不變，delta 後以 zigzag varint 編碼再交給 zstd，
// Append 只寫入 varint 緩衝，超過 chunk 門檻時才批次壓縮。
type BalanceTrace struct {
	prev    int
	count   int
	pending []byte
	packed  bytes.Buffer
	enc     *zstd.Encoder
}

const traceChunkSize = 1 << 14

// NewBalanceTrace 建立以 init 為首點的資金曲線。
func NewBalanceTrace(init int) *BalanceTrace {
	t := &BalanceTrace{
		pending: make([]byte, 0, traceChunkSize+binary.MaxVarintLen64),
	}
	enc, err := zstd.NewWriter(&t.packed,
		zstd.WithEncoderLevel(zstd.SpeedFastest),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		panic(err)
	}
	t.enc = enc
	t.Append(init)
	return t
}

// Append 記錄一個餘額點。Points 定稿後曲線唯讀，再 Append 為 no-op。
func (t *BalanceTrace) Append(balance int) {
	if t.enc == nil {
		return
	}
	t.pending = binary.AppendVarint(t.pending, int64(balance-t.prev))
	t.prev = balance
	t.count++

	if len(t.pending) >= traceChunkSize {
		t.flush()
	}
}

// Len 回傳已記錄的點數。
func (t *BalanceTrace) Len() int {
	return t.count
}

// Points 解壓並還原完整資金曲線。
func (t *BalanceTrace) Points() ([]int, error) {
	t.flush()
	if t.enc != nil {
		if err := t.enc.Close(); err != nil {
			return nil, errs.Wrap(err, "balance trace: close encoder")
		}
		// Close 後 encoder 不可再寫，曲線視為定稿
		t.enc = nil
	}

	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, errs.Wrap(err, "balance trace: new decoder")
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(t.packed.Bytes(), nil)
	if err != nil {
		return nil, errs.Wrap(err, "balance trace: decode")
	}

	out := make([]int, 0, t.count)
	cur := int64(0)
	for len(raw) > 0 {
		d, n := binary.Varint(raw)
		if n <= 0 {
			return nil, errs.NewFatal("balance trace: corrupt varint stream")
		}
		cur += d
		out = append(out, int(cur))
		raw = raw[n:]
	}
	return out, nil
}

func (t *BalanceTrace) flush() {
	if len(t.pending) == 0 || t.enc == nil {
		return
	}
	_, _ = t.enc.Write(t.pending)
	t.pending = t.pending[:0]
}
