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

package rest

import (
	"github.com/optakt/hashchain/models/chain"
)

// Chain represents the read side of a block chain exposed by the API.
type Chain interface {
	Blocks() []chain.Block
	Block(index uint64) (chain.Block, error)
	Pending() []chain.Transaction
	Verify() error
}
