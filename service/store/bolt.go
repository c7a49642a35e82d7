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
	"encoding/binary"
	"fmt"

	"github.com/rs/zerolog"
	"go.etcd.io/bbolt"

	"github.com/optakt/hashchain/models/chain"
)

// Bolt is a chain store backed by a bbolt database file. Records live in a
// single bucket, keyed by their big-endian index so that the cursor yields
// them in ascending order.
type Bolt struct {
	log   zerolog.Logger
	db    *bbolt.DB
	codec chain.Codec
	cfg   Config
}

// NewBolt creates a chain store on top of the given bolt database.
func NewBolt(log zerolog.Logger, db *bbolt.DB, codec chain.Codec, options ...Option) *Bolt {

	cfg := DefaultConfig
	for _, option := range options {
		option(&cfg)
	}

	b := Bolt{
		log:   log.With().Str("component", "bolt_store").Logger(),
		db:    db,
		codec: codec,
		cfg:   cfg,
	}

	return &b
}

func (b *Bolt) Append(ctx context.Context, record chain.Record) error {
	err := ctx.Err()
	if err != nil {
		return fmt.Errorf("%w: %s", chain.ErrStoreUnavailable, err)
	}

	err = record.Validate()
	if err != nil {
		return fmt.Errorf("%w: %w", chain.ErrStoreWrite, err)
	}

	val, err := b.codec.Marshal(record)
	if err != nil {
		return fmt.Errorf("%w: could not encode record: %w", chain.ErrStoreWrite, err)
	}

	err = b.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(b.cfg.Table))
		if err != nil {
			return fmt.Errorf("could not create bucket: %w", err)
		}
		key := encodeIndex(record.Index)
		if bucket.Get(key) != nil {
			return fmt.Errorf("%w (index: %d)", chain.ErrDuplicateIndex, record.Index)
		}
		return bucket.Put(key, val)
	})
	if err != nil {
		return fmt.Errorf("%w: could not save record: %w", chain.ErrStoreWrite, err)
	}

	b.log.Debug().Uint64("index", record.Index).Str("hash", record.Hash).Msg("record appended")

	return nil
}

func (b *Bolt) Delete(ctx context.Context, index uint64) error {
	err := ctx.Err()
	if err != nil {
		return fmt.Errorf("%w: %s", chain.ErrStoreUnavailable, err)
	}

	err = b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(b.cfg.Table))
		if bucket == nil {
			return nil
		}
		return bucket.Delete(encodeIndex(index))
	})
	if err != nil {
		return fmt.Errorf("%w: could not delete record: %w", chain.ErrStoreWrite, err)
	}

	b.log.Debug().Uint64("index", index).Msg("record deleted")

	return nil
}

func (b *Bolt) Records(ctx context.Context) ([]chain.Record, error) {
	err := ctx.Err()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", chain.ErrStoreUnavailable, err)
	}

	var records []chain.Record
	err = b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(b.cfg.Table))
		if bucket == nil {
			return nil
		}

		c := bucket.Cursor()
		for key, val := c.First(); key != nil; key, val = c.Next() {
			var record chain.Record
			err := b.codec.Unmarshal(val, &record)
			if err != nil {
				return fmt.Errorf("could not decode record (key: %x): %w", key, err)
			}
			records = append(records, record)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: could not iterate records: %w", chain.ErrStoreUnavailable, err)
	}

	return records, nil
}

func encodeIndex(index uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, index)
	return key
}
