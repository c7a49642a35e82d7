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

package mocks

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/optakt/hashchain/models/chain"
)

// Global variables that can be used for testing. They are non-nil valid values for the types commonly needed
// to test hashchain components.
var (
	NoopLogger = zerolog.New(io.Discard)

	GenericError = errors.New("dummy error")

	GenericTime = time.Date(1972, 11, 12, 13, 14, 15, 16000, time.UTC)

	GenericTimestamp = GenericTime.Format(chain.TimestampLayout)

	GenericHash = "2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a"
)

// GenericTransactions returns the given number of distinct transfer payloads.
func GenericTransactions(number int) []chain.Transaction {
	txs := make([]chain.Transaction, 0, number)
	for i := 0; i < number; i++ {
		tx := chain.Transaction(fmt.Sprintf(`{"sender":"sender-%d","receiver":"receiver-%d","amount":%d}`, i, i, i+1))
		txs = append(txs, tx)
	}

	return txs
}

// GenericBlock returns a block with the given index. Non-genesis blocks link
// to GenericHash.
func GenericBlock(index uint64) chain.Block {
	previous := chain.GenesisPrevious
	txs := []chain.Transaction{}
	if index > 0 {
		previous = GenericHash
		txs = GenericTransactions(2)
	}

	block, err := chain.NewBlock(index, GenericTimestamp, txs, previous)
	if err != nil {
		panic(err)
	}

	return block
}

// GenericBlocks returns a correctly linked chain of the given length,
// starting with a genesis block.
func GenericBlocks(number int) []chain.Block {
	blocks := make([]chain.Block, 0, number)
	previous := chain.GenesisPrevious
	for i := 0; i < number; i++ {
		txs := GenericTransactions(i)
		block, err := chain.NewBlock(uint64(i), GenericTimestamp, txs, previous)
		if err != nil {
			panic(err)
		}
		blocks = append(blocks, block)
		previous = block.Hash()
	}

	return blocks
}

// GenericRecord returns the persisted record of GenericBlock(index).
func GenericRecord(index uint64) chain.Record {
	record, err := chain.FromBlock(GenericBlock(index))
	if err != nil {
		panic(err)
	}

	return record
}

// GenericRecords returns the persisted records of GenericBlocks(number).
func GenericRecords(number int) []chain.Record {
	blocks := GenericBlocks(number)
	records := make([]chain.Record, 0, len(blocks))
	for _, block := range blocks {
		record, err := chain.FromBlock(block)
		if err != nil {
			panic(err)
		}
		records = append(records, record)
	}

	return records
}
