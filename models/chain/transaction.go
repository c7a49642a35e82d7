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
	"encoding/json"
	"fmt"
)

// Transaction is an opaque JSON payload staged for inclusion in a block. The
// chain never inspects it; it is only carried and hashed.
type Transaction []byte

// Transfer is the payload the command line produces for a value transfer.
type Transfer struct {
	Sender   string  `json:"sender"`
	Receiver string  `json:"receiver"`
	Amount   float64 `json:"amount"`
}

// NewTransaction encodes the given value as a transaction payload.
func NewTransaction(v interface{}) (Transaction, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSerialization, err)
	}

	return Transaction(data), nil
}

// MarshalJSON returns the payload verbatim.
func (t Transaction) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("null"), nil
	}
	return t, nil
}

// UnmarshalJSON keeps a copy of the raw payload.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	*t = append((*t)[0:0], data...)
	return nil
}

// Decode unmarshals the payload into the given value.
func (t Transaction) Decode(v interface{}) error {
	return json.Unmarshal(t, v)
}

func (t Transaction) String() string {
	return string(t)
}

func copyTransactions(txs []Transaction) []Transaction {
	dup := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		dup = append(dup, append(Transaction(nil), tx...))
	}
	return dup
}
