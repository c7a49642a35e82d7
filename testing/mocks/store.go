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

package mocks

import (
	"context"
	"testing"

	"github.com/optakt/hashchain/models/chain"
)

type Store struct {
	AppendFunc  func(ctx context.Context, record chain.Record) error
	DeleteFunc  func(ctx context.Context, index uint64) error
	RecordsFunc func(ctx context.Context) ([]chain.Record, error)
}

func BaselineStore(t *testing.T) *Store {
	t.Helper()

	s := Store{
		AppendFunc: func(context.Context, chain.Record) error {
			return nil
		},
		DeleteFunc: func(context.Context, uint64) error {
			return nil
		},
		RecordsFunc: func(context.Context) ([]chain.Record, error) {
			return GenericRecords(3), nil
		},
	}

	return &s
}

func (s *Store) Append(ctx context.Context, record chain.Record) error {
	return s.AppendFunc(ctx, record)
}

func (s *Store) Delete(ctx context.Context, index uint64) error {
	return s.DeleteFunc(ctx, index)
}

func (s *Store) Records(ctx context.Context) ([]chain.Record, error) {
	return s.RecordsFunc(ctx)
}
