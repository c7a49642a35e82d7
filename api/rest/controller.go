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
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/optakt/hashchain/models/chain"
)

// Controller serves read-only views of a block chain.
type Controller struct {
	chain Chain
}

func NewController(chain Chain) *Controller {
	c := &Controller{
		chain: chain,
	}
	return c
}

// GetBlocks returns the whole in-memory chain in sequence order.
func (c *Controller) GetBlocks(ctx echo.Context) error {

	blocks := c.chain.Blocks()

	res := ChainResponse{
		Length: len(blocks),
		Blocks: make([]BlockResponse, 0, len(blocks)),
	}
	for _, block := range blocks {
		res.Blocks = append(res.Blocks, blockResponse(block))
	}

	return ctx.JSON(http.StatusOK, res)
}

// GetBlock returns the block carrying the index given as path parameter.
func (c *Controller) GetBlock(ctx echo.Context) error {

	index, err := strconv.ParseUint(ctx.Param("index"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	block, err := c.chain.Block(index)
	if errors.Is(err, chain.ErrBlockNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	return ctx.JSON(http.StatusOK, blockResponse(block))
}

// GetPending returns the transactions staged for the next block.
func (c *Controller) GetPending(ctx echo.Context) error {

	res := PendingResponse{
		Transactions: payloads(c.chain.Pending()),
	}

	return ctx.JSON(http.StatusOK, res)
}

// GetVerify re-validates the links of the in-memory chain. A broken chain is
// still a successful request; the problems are listed in the response.
func (c *Controller) GetVerify(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, verifyResponse(c.chain.Verify()))
}
