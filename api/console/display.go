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
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pterm/pterm"

	"github.com/optakt/hashchain/models/chain"
)

const separator = "--------------------------------------------------"

func renderMenu() string {
	var b strings.Builder
	b.WriteString(pterm.DefaultSection.Sprint("Hash Chain"))
	for i, option := range options {
		b.WriteString(strconv.Itoa(i+1) + ". " + option.label + "\n")
	}
	b.WriteString(separator + "\n")
	return b.String()
}

func renderChain(blocks []chain.Block) string {
	if len(blocks) == 0 {
		return pterm.Info.Sprintln("the chain is empty")
	}

	var b strings.Builder
	for _, block := range blocks {
		b.WriteString("Index: " + strconv.FormatUint(block.Index(), 10) + "\n")
		b.WriteString("Timestamp: " + block.Timestamp() + "\n")
		b.WriteString("Previous Hash: " + block.Previous() + "\n")
		b.WriteString("Hash: " + block.Hash() + "\n")
		b.WriteString("Transactions: " + renderTransactions(block.Transactions()) + "\n")
		b.WriteString(separator + "\n")
	}
	return b.String()
}

func renderTransactions(txs []chain.Transaction) string {
	parts := make([]string, 0, len(txs))
	for _, tx := range txs {
		parts = append(parts, tx.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func renderPending(txs []chain.Transaction) (string, error) {
	if len(txs) == 0 {
		return pterm.Info.Sprintln("no pending transactions"), nil
	}

	data := [][]string{{"Position", "Sender", "Receiver", "Amount", "Payload"}}
	for i, tx := range txs {
		var transfer chain.Transfer
		err := tx.Decode(&transfer)
		if err != nil {
			data = append(data, []string{strconv.Itoa(i), "", "", "", tx.String()})
			continue
		}
		amount := strconv.FormatFloat(transfer.Amount, 'f', -1, 64)
		data = append(data, []string{strconv.Itoa(i), transfer.Sender, transfer.Receiver, amount, tx.String()})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

func renderVerify(err error) string {
	if err == nil {
		return pterm.Success.Sprintln("all links are intact")
	}

	merr, ok := err.(*multierror.Error)
	if !ok {
		return pterm.Warning.Sprintln(err.Error())
	}

	var b strings.Builder
	for _, problem := range merr.Errors {
		b.WriteString(pterm.Warning.Sprintln(problem.Error()))
	}
	return b.String()
}
