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
	"errors"
	"fmt"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/optakt/hashchain/models/chain"
)

var errInvalidInput = errors.New("invalid input")

func (c *Console) readTransfer(qualifier string) (chain.Transaction, error) {
	sender, err := c.prompt(fmt.Sprintf("Enter %ssender: ", qualifier))
	if err != nil {
		return nil, err
	}
	receiver, err := c.prompt(fmt.Sprintf("Enter %sreceiver: ", qualifier))
	if err != nil {
		return nil, err
	}
	input, err := c.prompt(fmt.Sprintf("Enter %samount: ", qualifier))
	if err != nil {
		return nil, err
	}
	amount, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: amount %q is not a number", errInvalidInput, input)
	}

	return chain.NewTransaction(chain.Transfer{Sender: sender, Receiver: receiver, Amount: amount})
}

func (c *Console) readPosition(label string) (int, error) {
	input, err := c.prompt(label)
	if err != nil {
		return 0, err
	}
	position, err := strconv.Atoi(input)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a whole number", errInvalidInput, input)
	}
	return position, nil
}

func (c *Console) addTransaction() (bool, error) {
	tx, err := c.readTransfer("")
	if err != nil {
		return false, err
	}

	c.ledger.AddTransaction(tx)
	c.print(pterm.Success.Sprintln("transaction added"))
	return false, nil
}

func (c *Console) editTransaction() (bool, error) {
	position, err := c.readPosition("Enter the position of the transaction to edit: ")
	if err != nil {
		return false, err
	}
	tx, err := c.readTransfer("new ")
	if err != nil {
		return false, err
	}

	err = c.ledger.EditTransaction(position, tx)
	if err != nil {
		return false, err
	}

	c.print(pterm.Success.Sprintln("transaction edited"))
	return false, nil
}

func (c *Console) deleteTransaction() (bool, error) {
	position, err := c.readPosition("Enter the position of the transaction to delete: ")
	if err != nil {
		return false, err
	}

	err = c.ledger.DeleteTransaction(position)
	if err != nil {
		return false, err
	}

	c.print(pterm.Success.Sprintln("transaction deleted"))
	return false, nil
}

func (c *Console) sealBlock() (bool, error) {
	block, err := c.ledger.Seal(c.ctx)
	if err != nil {
		return false, fmt.Errorf("could not mine block: %w", err)
	}

	c.print(pterm.Success.Sprintfln("block %d mined with hash %s", block.Index(), block.Hash()))
	return false, nil
}

func (c *Console) deleteBlock() (bool, error) {
	input, err := c.prompt("Enter the index of the block to delete: ")
	if err != nil {
		return false, err
	}
	index, err := strconv.ParseUint(input, 10, 64)
	if err != nil {
		return false, fmt.Errorf("%w: %q is not a block index", errInvalidInput, input)
	}

	err = c.ledger.DeleteBlock(c.ctx, index)
	if err != nil {
		return false, err
	}

	c.print(pterm.Success.Sprintfln("block %d deleted", index))
	return false, nil
}

func (c *Console) showChain() (bool, error) {
	c.print(renderChain(c.ledger.Blocks()))
	return false, nil
}

func (c *Console) showPending() (bool, error) {
	table, err := renderPending(c.ledger.Pending())
	if err != nil {
		return false, fmt.Errorf("could not render pending transactions: %w", err)
	}

	c.print(table)
	return false, nil
}

func (c *Console) verifyChain() (bool, error) {
	c.print(renderVerify(c.ledger.Verify()))
	return false, nil
}

func (c *Console) quit() (bool, error) {
	c.print(pterm.Info.Sprintln("goodbye"))
	return true, nil
}
