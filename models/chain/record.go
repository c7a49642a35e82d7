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

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Record is the persisted layout of a block: five fields, with the
// transactions serialized as a JSON text blob.
type Record struct {
	Index        uint64 `validate:"-"`
	Timestamp    string `validate:"required"`
	Previous     string `validate:"required"`
	Hash         string `validate:"required,len=64,hexadecimal"`
	Transactions string `validate:"-"`
}

// FromBlock converts a block into its persisted record.
func FromBlock(b Block) (Record, error) {
	data, err := Canonical(b.transactions)
	if err != nil {
		return Record{}, fmt.Errorf("could not encode transactions (index: %d): %w", b.index, err)
	}

	r := Record{
		Index:        b.index,
		Timestamp:    b.timestamp,
		Previous:     b.previous,
		Hash:         b.hash,
		Transactions: string(data),
	}

	return r, nil
}

// Validate checks that the record is well-formed before it is persisted.
func (r Record) Validate() error {
	err := validate.Struct(r)
	if err != nil {
		return fmt.Errorf("invalid record (index: %d): %w", r.Index, err)
	}
	return nil
}

// Payload parses the transactions blob of the record.
func (r Record) Payload() ([]Transaction, error) {
	var raw []json.RawMessage
	err := json.Unmarshal([]byte(r.Transactions), &raw)
	if err != nil {
		return nil, fmt.Errorf("%w (index: %d): %s", ErrPayloadCorrupt, r.Index, err)
	}

	txs := make([]Transaction, 0, len(raw))
	for _, msg := range raw {
		txs = append(txs, Transaction(msg))
	}

	return txs, nil
}
