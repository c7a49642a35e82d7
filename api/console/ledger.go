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

package console

import (
	"context"

	"github.com/optakt/hashchain/models/chain"
)

// Ledger represents the chain operations driven from the console.
type Ledger interface {
	AddTransaction(tx chain.Transaction)
	EditTransaction(position int, tx chain.Transaction) error
	DeleteTransaction(position int) error
	Seal(ctx context.Context) (chain.Block, error)
	DeleteBlock(ctx context.Context, index uint64) error
	Blocks() []chain.Block
	Pending() []chain.Transaction
	Verify() error
}
