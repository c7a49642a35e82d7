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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.etcd.io/bbolt"

	"github.com/optakt/hashchain/codec/zbor"
	"github.com/optakt/hashchain/models/chain"
	"github.com/optakt/hashchain/service/metrics"
	"github.com/optakt/hashchain/service/storage"
	"github.com/optakt/hashchain/service/store"
)

const (
	kindBadger   = "badger"
	kindBolt     = "bolt"
	kindMySQL    = "mysql"
	kindPostgres = "postgres"
)

// openStore opens the store engine of the given kind. The returned closer
// releases the underlying database.
func openStore(ctx context.Context, log zerolog.Logger, kind string, data string, dsn string, table string, reg prometheus.Registerer) (chain.Store, io.Closer, error) {

	switch kind {

	case kindBadger:
		codec, err := zbor.NewCodec()
		if err != nil {
			return nil, nil, fmt.Errorf("could not initialize codec: %w", err)
		}
		db, err := badger.Open(storage.DefaultOptions(data))
		if err != nil {
			return nil, nil, fmt.Errorf("could not open badger database: %w", err)
		}
		err = metrics.RegisterBadgerMetrics(reg)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return store.NewBadger(log, db, storage.New(codec)), db, nil

	case kindBolt:
		codec, err := zbor.NewCodec()
		if err != nil {
			return nil, nil, fmt.Errorf("could not initialize codec: %w", err)
		}
		err = os.MkdirAll(data, 0o755)
		if err != nil {
			return nil, nil, fmt.Errorf("could not create data directory: %w", err)
		}
		db, err := bbolt.Open(filepath.Join(data, "chain.db"), 0o600, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open bolt database: %w", err)
		}
		return store.NewBolt(log, db, codec, store.WithTable(table)), db, nil

	case kindMySQL, kindPostgres:
		dialect, err := store.DialectByName(kind)
		if err != nil {
			return nil, nil, err
		}
		db, err := store.OpenSQL(ctx, dialect, dsn)
		if err != nil {
			return nil, nil, err
		}
		sql := store.NewSQL(log, db, store.WithDialect(dialect), store.WithTable(table))
		err = sql.Init(ctx)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return sql, db, nil

	default:
		return nil, nil, fmt.Errorf("unknown store kind (%s)", kind)
	}
}
