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

package console_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/hashchain/api/console"
	"github.com/optakt/hashchain/models/chain"
	"github.com/optakt/hashchain/service/ledger"
	"github.com/optakt/hashchain/testing/mocks"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	os.Exit(m.Run())
}

func loaded(t *testing.T, store chain.Store) *ledger.Chain {
	t.Helper()

	c := ledger.New(mocks.NoopLogger, store, ledger.WithClock(func() time.Time { return mocks.GenericTime }))
	_, err := c.Load(context.Background())
	require.NoError(t, err)

	return c
}

func TestConsole_Run(t *testing.T) {
	tests := []struct {
		desc  string
		input string

		wantLen     int
		wantPending int
		wantOutput  []string
	}{
		{
			desc:        "add and mine a transfer",
			input:       "1\nA\nB\n10\n4\n6\n9\n",
			wantLen:     4,
			wantPending: 0,
			wantOutput: []string{
				"transaction added",
				"block 3 mined",
				`{"sender":"A","receiver":"B","amount":10}`,
				"goodbye",
			},
		},
		{
			desc:        "show pending transactions",
			input:       "1\nA\nB\n2.5\n7\n9\n",
			wantLen:     3,
			wantPending: 1,
			wantOutput:  []string{"Position", "2.5"},
		},
		{
			desc:        "edit and delete staged transactions",
			input:       "1\nA\nB\n1\n2\n0\nC\nD\n2\n3\n0\n9\n",
			wantLen:     3,
			wantPending: 0,
			wantOutput:  []string{"transaction edited", "transaction deleted"},
		},
		{
			desc:        "edit unknown transaction",
			input:       "2\n5\nA\nB\n1\n9\n",
			wantLen:     3,
			wantPending: 0,
			wantOutput:  []string{"transaction not found"},
		},
		{
			desc:        "amount is not a number",
			input:       "1\nA\nB\nten\n9\n",
			wantLen:     3,
			wantPending: 0,
			wantOutput:  []string{"is not a number"},
		},
		{
			desc:        "invalid option",
			input:       "42\nfoo\n9\n",
			wantLen:     3,
			wantPending: 0,
			wantOutput:  []string{"invalid option"},
		},
		{
			desc:        "delete block beyond chain length",
			input:       "5\n3\n9\n",
			wantLen:     3,
			wantPending: 0,
			wantOutput:  []string{"block not found"},
		},
		{
			desc:        "delete interior block and verify",
			input:       "5\n1\n8\n9\n",
			wantLen:     2,
			wantPending: 0,
			wantOutput:  []string{"block 1 deleted", chain.ErrDanglingLink.Error()},
		},
		{
			desc:        "verify intact chain",
			input:       "8\n9\n",
			wantLen:     3,
			wantPending: 0,
			wantOutput:  []string{"all links are intact"},
		},
		{
			desc:        "input ends without quitting",
			input:       "1\nA\n",
			wantLen:     3,
			wantPending: 0,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.desc, func(t *testing.T) {
			t.Parallel()

			l := loaded(t, mocks.BaselineStore(t))
			var out bytes.Buffer
			c := console.New(mocks.NoopLogger, l, strings.NewReader(test.input), &out)

			err := c.Run()

			require.NoError(t, err)
			assert.Equal(t, test.wantLen, l.Len())
			assert.Len(t, l.Pending(), test.wantPending)
			for _, want := range test.wantOutput {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func TestConsole_StoreFailure(t *testing.T) {
	store := mocks.BaselineStore(t)
	store.AppendFunc = func(context.Context, chain.Record) error {
		return chain.ErrStoreUnavailable
	}
	l := loaded(t, store)
	var out bytes.Buffer
	c := console.New(mocks.NoopLogger, l, strings.NewReader("1\nA\nB\n10\n4\n9\n"), &out)

	err := c.Run()

	require.NoError(t, err)
	assert.Contains(t, out.String(), "could not mine block")
	assert.Equal(t, 3, l.Len())
	assert.Len(t, l.Pending(), 1)
}

func TestConsole_Stop(t *testing.T) {
	reader, writer := io.Pipe()
	defer writer.Close()

	c := console.New(mocks.NoopLogger, loaded(t, mocks.BaselineStore(t)), reader, io.Discard)

	done := make(chan error)
	go func() {
		done <- c.Run()
	}()

	c.Stop()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("console did not stop")
	}
}
