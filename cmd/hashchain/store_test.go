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
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/hashchain/testing/mocks"
)

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	for _, kind := range []string{kindBadger, kindBolt} {
		kind := kind
		t.Run(kind, func(t *testing.T) {
			s, closer, err := openStore(ctx, mocks.NoopLogger, kind, t.TempDir(), "", "blocks", prometheus.NewRegistry())
			require.NoError(t, err)
			defer closer.Close()

			err = s.Append(ctx, mocks.GenericRecord(0))
			require.NoError(t, err)

			records, err := s.Records(ctx)
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, mocks.GenericRecord(0), records[0])
		})
	}

	t.Run("unknown kind", func(t *testing.T) {
		_, _, err := openStore(ctx, mocks.NoopLogger, "sqlite", t.TempDir(), "", "blocks", prometheus.NewRegistry())

		assert.Error(t, err)
	})
}
