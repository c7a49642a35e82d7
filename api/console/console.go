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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"github.com/optakt/hashchain/models/chain"
)

type option struct {
	label  string
	handle func(c *Console) (bool, error)
}

var options = []option{
	{label: "Add transaction", handle: (*Console).addTransaction},
	{label: "Edit transaction", handle: (*Console).editTransaction},
	{label: "Delete transaction", handle: (*Console).deleteTransaction},
	{label: "Mine block", handle: (*Console).sealBlock},
	{label: "Delete block", handle: (*Console).deleteBlock},
	{label: "Show chain", handle: (*Console).showChain},
	{label: "Show pending transactions", handle: (*Console).showPending},
	{label: "Verify chain", handle: (*Console).verifyChain},
	{label: "Quit", handle: (*Console).quit},
}

// errQuit signals that the input ended or the console was stopped.
var errQuit = errors.New("console closed")

// Console is the interactive menu driving a ledger from a line-based input.
type Console struct {
	log    zerolog.Logger
	ledger Ledger
	in     io.Reader
	out    io.Writer

	ctx    context.Context
	cancel context.CancelFunc
	lines  chan string
}

// New creates a console reading commands from in and writing to out.
func New(log zerolog.Logger, ledger Ledger, in io.Reader, out io.Writer) *Console {

	ctx, cancel := context.WithCancel(context.Background())

	c := Console{
		log:    log.With().Str("component", "console").Logger(),
		ledger: ledger,
		in:     in,
		out:    out,
		ctx:    ctx,
		cancel: cancel,
		lines:  make(chan string),
	}

	return &c
}

// Run shows the menu and executes the selected options until the user quits,
// the input ends or the console is stopped.
func (c *Console) Run() error {
	defer c.cancel()

	go c.scan()

	for {
		c.print(renderMenu())
		choice, err := c.prompt(fmt.Sprintf("Choose an option (1-%d): ", len(options)))
		if errors.Is(err, errQuit) {
			return nil
		}

		number, err := strconv.Atoi(choice)
		if err != nil || number < 1 || number > len(options) {
			c.print(pterm.Warning.Sprintln("invalid option"))
			continue
		}

		done, err := options[number-1].handle(c)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			c.report(err)
		}
		if done {
			return nil
		}
	}
}

// Stop interrupts a running console.
func (c *Console) Stop() {
	c.cancel()
}

func (c *Console) scan() {
	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		select {
		case c.lines <- strings.TrimSpace(scanner.Text()):
		case <-c.ctx.Done():
			return
		}
	}
	close(c.lines)
}

func (c *Console) prompt(label string) (string, error) {
	c.print(label)
	select {
	case line, ok := <-c.lines:
		if !ok {
			return "", errQuit
		}
		return line, nil
	case <-c.ctx.Done():
		return "", errQuit
	}
}

func (c *Console) print(text string) {
	_, _ = io.WriteString(c.out, text)
}

// report turns an operation failure into guidance for the user. Rejected
// input is a warning; anything else comes from the store and is logged.
func (c *Console) report(err error) {
	switch {
	case errors.Is(err, chain.ErrIndexOutOfRange):
		c.print(pterm.Warning.Sprintln("transaction not found, check the position with option 7"))
	case errors.Is(err, chain.ErrBlockNotFound):
		c.print(pterm.Warning.Sprintln("block not found, check the index with option 6"))
	case errors.Is(err, chain.ErrEmptyChain):
		c.print(pterm.Warning.Sprintln("the chain has no block to link to, restart to create a genesis block"))
	case errors.Is(err, errInvalidInput):
		c.print(pterm.Warning.Sprintln(err.Error()))
	default:
		c.log.Error().Err(err).Msg("operation failed")
		c.print(pterm.Error.Sprintln(err.Error()))
	}
}
