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
	"testing"

	"github.com/optakt/hashchain/models/chain"
)

type Chain struct {
	BlocksFunc  func() []chain.Block
	BlockFunc   func(index uint64) (chain.Block, error)
	PendingFunc func() []chain.Transaction
	VerifyFunc  func() error
}

func BaselineChain(t *testing.T) *Chain {
	t.Helper()

	c := Chain{
		BlocksFunc: func() []chain.Block {
			return GenericBlocks(3)
		},
		BlockFunc: func(index uint64) (chain.Block, error) {
			return GenericBlock(index), nil
		},
		PendingFunc: func() []chain.Transaction {
			return GenericTransactions(2)
		},
		VerifyFunc: func() error {
			return nil
		},
	}

	return &c
}

func (c *Chain) Blocks() []chain.Block {
	return c.BlocksFunc()
}

func (c *Chain) Block(index uint64) (chain.Block, error) {
	return c.BlockFunc(index)
}

func (c *Chain) Pending() []chain.Transaction {
	return c.PendingFunc()
}

func (c *Chain) Verify() error {
	return c.VerifyFunc()
}
