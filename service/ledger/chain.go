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
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/optakt/hashchain/models/chain"
)

// Chain owns the ordered sequence of sealed blocks and the list of pending
// transactions awaiting the next seal. It keeps the in-memory sequence
// consistent with the store: memory only changes once the store accepted the
// matching write.
//
// All operations are serialized on a single mutex, as sealing reads and then
// clears the pending list around a persistence call.
type Chain struct {
	log   zerolog.Logger
	cfg   Config
	store chain.Store

	mu      sync.Mutex
	blocks  []chain.Block
	pending []chain.Transaction
}

// Report summarizes a load from the store.
type Report struct {
	Loaded    int
	Corrupted []uint64 // indices whose transactions blob could not be parsed
	Tampered  []uint64 // indices whose stored hash differs from the recomputed one
}

// New creates an empty chain persisting to the given store.
func New(log zerolog.Logger, store chain.Store, options ...Option) *Chain {

	cfg := DefaultConfig
	for _, option := range options {
		option(&cfg)
	}

	c := Chain{
		log:   log.With().Str("component", "chain").Logger(),
		cfg:   cfg,
		store: store,
	}

	return &c
}

// Bootstrap rebuilds the chain from the store and creates the genesis block
// if the store held no blocks.
func (c *Chain) Bootstrap(ctx context.Context) (Report, error) {
	report, err := c.Load(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("could not load chain: %w", err)
	}

	_, err = c.EnsureGenesis(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("could not ensure genesis: %w", err)
	}

	return report, nil
}

// AddTransaction appends a transaction to the pending list.
func (c *Chain) AddTransaction(tx chain.Transaction) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pending = append(c.pending, append(chain.Transaction(nil), tx...))
}

// EditTransaction replaces the pending transaction at the given position.
func (c *Chain) EditTransaction(position int, tx chain.Transaction) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if position < 0 || position >= len(c.pending) {
		return fmt.Errorf("%w (position: %d, pending: %d)", chain.ErrIndexOutOfRange, position, len(c.pending))
	}

	c.pending[position] = append(chain.Transaction(nil), tx...)

	return nil
}

// DeleteTransaction removes the pending transaction at the given position.
func (c *Chain) DeleteTransaction(position int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if position < 0 || position >= len(c.pending) {
		return fmt.Errorf("%w (position: %d, pending: %d)", chain.ErrIndexOutOfRange, position, len(c.pending))
	}

	c.pending = append(c.pending[:position], c.pending[position+1:]...)

	return nil
}

// Pending returns a copy of the pending transactions.
func (c *Chain) Pending() []chain.Transaction {
	c.mu.Lock()
	defer c.mu.Unlock()

	pending := make([]chain.Transaction, 0, len(c.pending))
	for _, tx := range c.pending {
		pending = append(pending, append(chain.Transaction(nil), tx...))
	}

	return pending
}

// Blocks returns a copy of the in-memory block sequence.
func (c *Chain) Blocks() []chain.Block {
	c.mu.Lock()
	defer c.mu.Unlock()

	blocks := make([]chain.Block, len(c.blocks))
	copy(blocks, c.blocks)

	return blocks
}

// Block returns the first block carrying the given index.
func (c *Chain) Block(index uint64) (chain.Block, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, block := range c.blocks {
		if block.Index() == index {
			return block, nil
		}
	}

	return chain.Block{}, fmt.Errorf("%w (index: %d)", chain.ErrBlockNotFound, index)
}

// Len returns the number of blocks in the in-memory sequence.
func (c *Chain) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.blocks)
}

// EnsureGenesis creates and persists the genesis block when the chain is
// empty. It returns whether a block was created.
func (c *Chain) EnsureGenesis(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.blocks) > 0 {
		return false, nil
	}

	genesis, err := chain.NewBlock(0, c.timestamp(), []chain.Transaction{}, chain.GenesisPrevious)
	if err != nil {
		return false, fmt.Errorf("could not build genesis block: %w", err)
	}

	err = c.persist(ctx, genesis)
	if err != nil {
		return false, fmt.Errorf("could not persist genesis block: %w", err)
	}

	c.blocks = append(c.blocks, genesis)

	c.log.Info().Str("hash", genesis.Hash()).Msg("genesis block created")

	return true, nil
}

// Seal freezes the pending transactions into a new block linked to the last
// block of the chain. The block is only appended, and the pending list only
// cleared, once the store accepted the block.
func (c *Chain) Seal(ctx context.Context) (chain.Block, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.blocks) == 0 {
		return chain.Block{}, chain.ErrEmptyChain
	}

	last := c.blocks[len(c.blocks)-1]
	block, err := chain.NewBlock(uint64(len(c.blocks)), c.timestamp(), c.pending, last.Hash())
	if err != nil {
		return chain.Block{}, fmt.Errorf("could not build block: %w", err)
	}

	err = c.persist(ctx, block)
	if err != nil {
		return chain.Block{}, fmt.Errorf("could not persist block (index: %d): %w", block.Index(), err)
	}

	c.blocks = append(c.blocks, block)
	c.pending = nil

	c.log.Info().
		Uint64("index", block.Index()).
		Str("hash", block.Hash()).
		Str("previous", block.Previous()).
		Int("transactions", len(block.Transactions())).
		Msg("block sealed")

	return block, nil
}

// DeleteBlock removes every block with the given index from the store and
// from memory. The request is only admissible when the index is below the
// current chain length. Links are never repaired: a block following the
// deleted one keeps referencing the deleted block's hash.
func (c *Chain) DeleteBlock(ctx context.Context, index uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index >= uint64(len(c.blocks)) {
		return fmt.Errorf("%w (index: %d, length: %d)", chain.ErrBlockNotFound, index, len(c.blocks))
	}

	err := c.store.Delete(ctx, index)
	if err != nil {
		return fmt.Errorf("could not delete block (index: %d): %w", index, err)
	}

	kept := make([]chain.Block, 0, len(c.blocks))
	for _, block := range c.blocks {
		if block.Index() == index {
			continue
		}
		kept = append(kept, block)
	}
	removed := len(c.blocks) - len(kept)
	c.blocks = kept

	c.log.Info().Uint64("index", index).Int("removed", removed).Msg("block deleted")

	return nil
}

// Load rebuilds the in-memory sequence from the store. Every block is rebuilt
// from its record, so its hash is recomputed; a mismatch with the stored hash
// is reported but does not stop the load. A record whose transactions cannot
// be parsed is loaded with an empty transaction list.
func (c *Chain) Load(ctx context.Context) (Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.store.Records(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("could not fetch records: %w", err)
	}

	var report Report
	blocks := make([]chain.Block, 0, len(records))
	for _, record := range records {

		txs, err := record.Payload()
		if err != nil {
			c.log.Warn().Uint64("index", record.Index).Err(err).Msg("could not parse transactions, loading block with empty transactions")
			report.Corrupted = append(report.Corrupted, record.Index)
			txs = []chain.Transaction{}
		}

		block, err := chain.NewBlock(record.Index, record.Timestamp, txs, record.Previous)
		if err != nil {
			return Report{}, fmt.Errorf("could not rebuild block (index: %d): %w", record.Index, err)
		}

		if block.Hash() != record.Hash {
			c.log.Warn().
				Uint64("index", record.Index).
				Str("stored", record.Hash).
				Str("computed", block.Hash()).
				Err(chain.ErrIntegrity).
				Msg("stored hash does not match block content")
			report.Tampered = append(report.Tampered, record.Index)
		}

		blocks = append(blocks, block)
	}

	c.blocks = blocks
	report.Loaded = len(blocks)

	c.log.Info().
		Int("loaded", report.Loaded).
		Int("corrupted", len(report.Corrupted)).
		Int("tampered", len(report.Tampered)).
		Msg("chain loaded")

	return report, nil
}

func (c *Chain) persist(ctx context.Context, block chain.Block) error {
	record, err := chain.FromBlock(block)
	if err != nil {
		return fmt.Errorf("could not convert block: %w", err)
	}

	err = c.store.Append(ctx, record)
	if err != nil {
		return fmt.Errorf("could not append record: %w", err)
	}

	return nil
}

func (c *Chain) timestamp() string {
	return c.cfg.Clock().Format(c.cfg.Layout)
}
