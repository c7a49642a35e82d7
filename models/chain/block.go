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
	"fmt"
)

// GenesisPrevious is the sentinel previous hash of the genesis block.
const GenesisPrevious = "0"

// TimestampLayout is the layout used to render block timestamps.
const TimestampLayout = "2006-01-02 15:04:05.000000"

// Block is an immutable, sealed batch of transactions linked to its
// predecessor through the previous hash.
type Block struct {
	index        uint64
	timestamp    string
	transactions []Transaction
	previous     string
	hash         string
}

// NewBlock freezes a copy of the given transactions into a new block and
// computes its hash.
func NewBlock(index uint64, timestamp string, txs []Transaction, previous string) (Block, error) {
	frozen := copyTransactions(txs)
	hash, err := ComputeHash(index, timestamp, frozen, previous)
	if err != nil {
		return Block{}, fmt.Errorf("could not compute block hash (index: %d): %w", index, err)
	}

	b := Block{
		index:        index,
		timestamp:    timestamp,
		transactions: frozen,
		previous:     previous,
		hash:         hash,
	}

	return b, nil
}

func (b Block) Index() uint64 {
	return b.index
}

func (b Block) Timestamp() string {
	return b.timestamp
}

// Transactions returns a copy of the transactions sealed into the block.
func (b Block) Transactions() []Transaction {
	return copyTransactions(b.transactions)
}

func (b Block) Previous() string {
	return b.previous
}

func (b Block) Hash() string {
	return b.hash
}

// Genesis reports whether the block has the shape of a genesis block.
func (b Block) Genesis() bool {
	return b.index == 0 && b.previous == GenesisPrevious
}
