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

package store

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v2"
	"github.com/rs/zerolog"

	"github.com/optakt/hashchain/models/chain"
	"github.com/optakt/hashchain/service/storage"
)

// Badger is a chain store backed by a Badger key-value database. Every call
// runs in its own Badger transaction.
type Badger struct {
	log zerolog.Logger
	db  *badger.DB
	lib *storage.Library
}

// NewBadger creates a chain store on top of the given database, using the
// storage library to encode records.
func NewBadger(log zerolog.Logger, db *badger.DB, lib *storage.Library) *Badger {

	b := Badger{
		log: log.With().Str("component", "badger_store").Logger(),
		db:  db,
		lib: lib,
	}

	return &b
}

func (b *Badger) Append(ctx context.Context, record chain.Record) error {
	err := ctx.Err()
	if err != nil {
		return fmt.Errorf("%w: %s", chain.ErrStoreUnavailable, err)
	}

	err = record.Validate()
	if err != nil {
		return fmt.Errorf("%w: %w", chain.ErrStoreWrite, err)
	}

	err = b.db.Update(storage.Combine(
		b.lib.Absent(record.Index),
		b.lib.SaveRecord(record),
	))
	if err != nil {
		return fmt.Errorf("%w: could not save record: %w", chain.ErrStoreWrite, err)
	}

	b.log.Debug().Uint64("index", record.Index).Str("hash", record.Hash).Msg("record appended")

	return nil
}

func (b *Badger) Delete(ctx context.Context, index uint64) error {
	err := ctx.Err()
	if err != nil {
		return fmt.Errorf("%w: %s", chain.ErrStoreUnavailable, err)
	}

	err = b.db.Update(b.lib.DeleteRecord(index))
	if err != nil {
		return fmt.Errorf("%w: could not delete record: %w", chain.ErrStoreWrite, err)
	}

	b.log.Debug().Uint64("index", index).Msg("record deleted")

	return nil
}

func (b *Badger) Records(ctx context.Context) ([]chain.Record, error) {
	err := ctx.Err()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", chain.ErrStoreUnavailable, err)
	}

	var records []chain.Record
	err = b.db.View(b.lib.IterateRecords(func(record chain.Record) error {
		records = append(records, record)
		return nil
	}))
	if err != nil {
		return nil, fmt.Errorf("%w: could not iterate records: %w", chain.ErrStoreUnavailable, err)
	}

	return records, nil
}
