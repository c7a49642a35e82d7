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

package storage

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/optakt/hashchain/models/chain"
)

// Absent is an operation that fails with a duplicate index error if a record
// with the given index already exists.
func (l *Library) Absent(index uint64) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		_, err := tx.Get(EncodeKey(PrefixRecord, index))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("could not check record (index: %d): %w", index, err)
		}
		return fmt.Errorf("%w (index: %d)", chain.ErrDuplicateIndex, index)
	}
}

// SaveRecord is an operation that writes the given block record.
func (l *Library) SaveRecord(record chain.Record) func(*badger.Txn) error {
	return l.save(EncodeKey(PrefixRecord, record.Index), record)
}

// DeleteRecord is an operation that removes the record with the given index.
// Removing a missing record is not an error.
func (l *Library) DeleteRecord(index uint64) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		key := EncodeKey(PrefixRecord, index)
		err := tx.Delete(key)
		if err != nil {
			return fmt.Errorf("could not delete value (key: %x): %w", key, err)
		}
		return nil
	}
}

// RetrieveRecord retrieves the record with the given index.
func (l *Library) RetrieveRecord(index uint64, record *chain.Record) func(*badger.Txn) error {
	return l.retrieve(EncodeKey(PrefixRecord, index), record)
}

// IterateRecords steps through all records in ascending index order and calls
// the given callback for each of them.
func (l *Library) IterateRecords(process func(record chain.Record) error) func(*badger.Txn) error {
	prefix := EncodeKey(PrefixRecord)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix

	return func(tx *badger.Txn) error {

		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()

			// The record is declared within the loop body, so each decoded
			// value has its own memory.
			var record chain.Record
			err := item.Value(func(val []byte) error {
				return l.codec.Unmarshal(val, &record)
			})
			if err != nil {
				return fmt.Errorf("could not decode record (key: %x): %w", item.Key(), err)
			}

			err = process(record)
			if err != nil {
				return fmt.Errorf("could not process record (index: %d): %w", record.Index, err)
			}
		}

		return nil
	}
}
