// Copyright 2021 Optakt Labs OÜ
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package chain

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"unicode/utf8"
)

// Canonical returns the canonical JSON encoding of a list of transactions.
// Every payload is compacted, which keeps its key order and literal values
// exactly as received. A payload that is not valid JSON, or not valid UTF-8,
// cannot be encoded.
func Canonical(txs []Transaction) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, tx := range txs {
		if i > 0 {
			buf.WriteByte(',')
		}
		if !utf8.Valid(tx) {
			return nil, fmt.Errorf("%w (position: %d): invalid UTF-8", ErrSerialization, i)
		}
		err := json.Compact(&buf, tx)
		if err != nil {
			return nil, fmt.Errorf("%w (position: %d): %s", ErrSerialization, i, err)
		}
	}
	buf.WriteByte(']')

	return buf.Bytes(), nil
}

// ComputeHash returns the lowercase hexadecimal SHA-256 digest of a block's
// content: decimal index, timestamp, canonical transactions and previous hash
// concatenated in that order.
func ComputeHash(index uint64, timestamp string, txs []Transaction, previous string) (string, error) {
	data, err := Canonical(txs)
	if err != nil {
		return "", err
	}

	h := sha256.New()
	h.Write([]byte(strconv.FormatUint(index, 10)))
	h.Write([]byte(timestamp))
	h.Write(data)
	h.Write([]byte(previous))

	return hex.EncodeToString(h.Sum(nil)), nil
}
