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
	"encoding/json"
	"unicode/utf8"

	"github.com/hashicorp/go-multierror"

	"github.com/optakt/hashchain/models/chain"
)

type BlockResponse struct {
	Index        uint64              `json:"index"`
	Timestamp    string              `json:"timestamp"`
	Previous     string              `json:"previous_hash"`
	Hash         string              `json:"hash"`
	Transactions []json.RawMessage `json:"transactions"`
}

type ChainResponse struct {
	Length int             `json:"length"`
	Blocks []BlockResponse `json:"blocks"`
}

type PendingResponse struct {
	Transactions []json.RawMessage `json:"transactions"`
}

type VerifyResponse struct {
	Valid    bool     `json:"valid"`
	Problems []string `json:"problems,omitempty"`
}

func blockResponse(block chain.Block) BlockResponse {
	return BlockResponse{
		Index:        block.Index(),
		Timestamp:    block.Timestamp(),
		Previous:     block.Previous(),
		Hash:         block.Hash(),
		Transactions: payloads(block.Transactions()),
	}
}

// payloads converts transactions for a response. Staged payloads are opaque
// and may not be valid JSON; those are rendered as JSON strings.
func payloads(txs []chain.Transaction) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(txs))
	for _, tx := range txs {
		if json.Valid(tx) && utf8.Valid(tx) {
			out = append(out, json.RawMessage(tx))
			continue
		}
		// Marshaling a Go string never fails.
		quoted, _ := json.Marshal(tx.String())
		out = append(out, json.RawMessage(quoted))
	}
	return out
}

func verifyResponse(err error) VerifyResponse {
	if err == nil {
		return VerifyResponse{Valid: true}
	}

	var problems []string
	merr, ok := err.(*multierror.Error)
	if !ok {
		return VerifyResponse{Problems: []string{err.Error()}}
	}
	for _, problem := range merr.Errors {
		problems = append(problems, problem.Error())
	}

	return VerifyResponse{Problems: problems}
}
