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
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/optakt/hashchain/models/chain"
)

// SQL is a chain store backed by a relational table. Each call acquires its
// own connection from the pool and releases it before returning.
type SQL struct {
	log zerolog.Logger
	db  *sql.DB
	cfg Config
}

// OpenSQL opens a database handle for the given dialect and checks that the
// server can be reached.
func OpenSQL(ctx context.Context, dialect Dialect, dsn string) (*sql.DB, error) {
	db, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: could not open database: %w", chain.ErrStoreUnavailable, err)
	}
	err = db.PingContext(ctx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: could not ping database: %w", chain.ErrStoreUnavailable, err)
	}

	return db, nil
}

// NewSQL creates a chain store on top of the given database handle.
func NewSQL(log zerolog.Logger, db *sql.DB, options ...Option) *SQL {

	cfg := DefaultConfig
	for _, option := range options {
		option(&cfg)
	}

	s := SQL{
		log: log.With().Str("component", "sql_store").Str("dialect", cfg.Dialect.Name).Logger(),
		db:  db,
		cfg: cfg,
	}

	return &s
}

// Init creates the block table if it does not exist yet.
func (s *SQL) Init(ctx context.Context) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("%w: could not acquire connection: %w", chain.ErrStoreUnavailable, err)
	}
	defer conn.Close()

	_, err = conn.ExecContext(ctx, fmt.Sprintf(s.cfg.Dialect.Create, s.cfg.Table))
	if err != nil {
		return fmt.Errorf("%w: could not create table: %w", chain.ErrStoreWrite, err)
	}

	return nil
}

func (s *SQL) Append(ctx context.Context, record chain.Record) error {
	err := record.Validate()
	if err != nil {
		return fmt.Errorf("%w: %w", chain.ErrStoreWrite, err)
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("%w: could not acquire connection: %w", chain.ErrStoreUnavailable, err)
	}
	defer conn.Close()

	query := fmt.Sprintf("INSERT INTO %s (block_index, timestamp, previous_hash, hash, transactions) VALUES (%s)",
		s.cfg.Table,
		s.cfg.Dialect.Placeholders(5),
	)
	_, err = conn.ExecContext(ctx, query, int64(record.Index), record.Timestamp, record.Previous, record.Hash, record.Transactions)
	if s.cfg.Dialect.Duplicate(err) {
		return fmt.Errorf("%w: %w (index: %d)", chain.ErrStoreWrite, chain.ErrDuplicateIndex, record.Index)
	}
	if err != nil {
		return fmt.Errorf("%w: could not insert record: %w", chain.ErrStoreWrite, err)
	}

	s.log.Debug().Uint64("index", record.Index).Str("hash", record.Hash).Msg("record appended")

	return nil
}

func (s *SQL) Delete(ctx context.Context, index uint64) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("%w: could not acquire connection: %w", chain.ErrStoreUnavailable, err)
	}
	defer conn.Close()

	query := fmt.Sprintf("DELETE FROM %s WHERE block_index = %s", s.cfg.Table, s.cfg.Dialect.Placeholders(1))
	res, err := conn.ExecContext(ctx, query, int64(index))
	if err != nil {
		return fmt.Errorf("%w: could not delete record: %w", chain.ErrStoreWrite, err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		s.log.Warn().Uint64("index", index).Err(err).Msg("could not count deleted records")
		return nil
	}

	s.log.Debug().Uint64("index", index).Int64("rows", deleted).Msg("record deleted")

	return nil
}

func (s *SQL) Records(ctx context.Context) ([]chain.Record, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: could not acquire connection: %w", chain.ErrStoreUnavailable, err)
	}
	defer conn.Close()

	query := fmt.Sprintf("SELECT block_index, timestamp, previous_hash, hash, transactions FROM %s ORDER BY block_index", s.cfg.Table)
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: could not query records: %w", chain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var records []chain.Record
	for rows.Next() {
		var (
			record chain.Record
			index  int64
		)
		err = rows.Scan(&index, &record.Timestamp, &record.Previous, &record.Hash, &record.Transactions)
		if err != nil {
			return nil, fmt.Errorf("%w: could not scan record: %w", chain.ErrStoreUnavailable, err)
		}
		record.Index = uint64(index)
		records = append(records, record)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("%w: could not read records: %w", chain.ErrStoreUnavailable, err)
	}

	return records, nil
}
