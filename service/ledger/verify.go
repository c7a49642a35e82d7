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

package ledger

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/optakt/hashchain/models/chain"
)

// Verify walks the in-memory chain and reports every broken invariant: a
// first block that is not a genesis block and every block whose previous hash
// does not match the hash of the block before it in the sequence, such as the
// block following an interior deletion. It never modifies the chain.
func (c *Chain) Verify() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs error
	for i, block := range c.blocks {
		if i == 0 {
			if !block.Genesis() {
				errs = multierror.Append(errs, fmt.Errorf("%w: first block is not a genesis block (index: %d)", chain.ErrIntegrity, block.Index()))
			}
			continue
		}

		parent := c.blocks[i-1]
		if block.Previous() != parent.Hash() {
			errs = multierror.Append(errs, fmt.Errorf("%w (index: %d, previous: %s, parent: %d)", chain.ErrDanglingLink, block.Index(), block.Previous(), parent.Index()))
		}
	}

	return errs
}
