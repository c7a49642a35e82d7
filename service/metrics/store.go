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

package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/optakt/hashchain/models/chain"
)

const namespace = "hashchain"

// Store wraps a chain store and records what goes through it as prometheus
// metrics.
type Store struct {
	store chain.Store

	appended prometheus.Counter
	deleted  prometheus.Counter
	loaded   prometheus.Counter
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewStore wraps the given store and registers its metrics on the given
// registerer.
func NewStore(store chain.Store, reg prometheus.Registerer) *Store {

	factory := promauto.With(reg)

	appendedOpts := prometheus.CounterOpts{
		Name:      "appended_records",
		Namespace: namespace,
		Help:      "number of block records appended to the store",
	}
	appended := factory.NewCounter(appendedOpts)

	deletedOpts := prometheus.CounterOpts{
		Name:      "deleted_records",
		Namespace: namespace,
		Help:      "number of block deletions applied to the store",
	}
	deleted := factory.NewCounter(deletedOpts)

	loadedOpts := prometheus.CounterOpts{
		Name:      "loaded_records",
		Namespace: namespace,
		Help:      "number of block records read back from the store",
	}
	loaded := factory.NewCounter(loadedOpts)

	failuresOpts := prometheus.CounterOpts{
		Name:      "store_failures",
		Namespace: namespace,
		Help:      "number of failed store operations",
	}
	failures := factory.NewCounterVec(failuresOpts, []string{"operation"})

	durationOpts := prometheus.HistogramOpts{
		Name:      "store_duration_seconds",
		Namespace: namespace,
		Help:      "duration of store operations",
		Buckets:   prometheus.DefBuckets,
	}
	duration := factory.NewHistogramVec(durationOpts, []string{"operation"})

	s := Store{
		store:    store,
		appended: appended,
		deleted:  deleted,
		loaded:   loaded,
		failures: failures,
		duration: duration,
	}

	return &s
}

func (s *Store) Append(ctx context.Context, record chain.Record) error {
	defer s.observe("append")()

	err := s.store.Append(ctx, record)
	if err != nil {
		s.failures.WithLabelValues("append").Inc()
		return err
	}

	s.appended.Inc()
	return nil
}

func (s *Store) Delete(ctx context.Context, index uint64) error {
	defer s.observe("delete")()

	err := s.store.Delete(ctx, index)
	if err != nil {
		s.failures.WithLabelValues("delete").Inc()
		return err
	}

	s.deleted.Inc()
	return nil
}

func (s *Store) Records(ctx context.Context) ([]chain.Record, error) {
	defer s.observe("records")()

	records, err := s.store.Records(ctx)
	if err != nil {
		s.failures.WithLabelValues("records").Inc()
		return nil, err
	}

	s.loaded.Add(float64(len(records)))
	return records, nil
}

func (s *Store) observe(operation string) func() {
	start := time.Now()
	return func() {
		s.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
