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

package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/hashchain/codec/zbor"
	"github.com/optakt/hashchain/models/chain"
	"github.com/optakt/hashchain/service/ledger"
	"github.com/optakt/hashchain/service/storage"
	"github.com/optakt/hashchain/service/store"
	"github.com/optakt/hashchain/testing/helpers"
	"github.com/optakt/hashchain/testing/mocks"
)

func testClock() func() time.Time {
	now := mocks.GenericTime
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func testStore(t *testing.T) chain.Store {
	t.Helper()

	db := helpers.InMemoryDB(t)
	t.Cleanup(func() { _ = db.Close() })

	codec, err := zbor.NewCodec()
	require.NoError(t, err)

	return store.NewBadger(mocks.NoopLogger, db, storage.New(codec))
}

func testChain(t *testing.T, s chain.Store) *ledger.Chain {
	t.Helper()

	return ledger.New(mocks.NoopLogger, s, ledger.WithClock(testClock()))
}

func transfer(t *testing.T, sender string, receiver string, amount float64) chain.Transaction {
	t.Helper()

	tx, err := chain.NewTransaction(chain.Transfer{Sender: sender, Receiver: receiver, Amount: amount})
	require.NoError(t, err)

	return tx
}

func TestChain_EnsureGenesis(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)
	c := testChain(t, s)

	created, err := c.EnsureGenesis(ctx)

	require.NoError(t, err)
	assert.True(t, created)

	blocks := c.Blocks()
	require.Len(t, blocks, 1)
	assert.Equal(t, uint64(0), blocks[0].Index())
	assert.Equal(t, chain.GenesisPrevious, blocks[0].Previous())
	assert.Empty(t, blocks[0].Transactions())

	records, err := s.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, blocks[0].Hash(), records[0].Hash)

	t.Run("repeated call is a no-op", func(t *testing.T) {
		created, err := c.EnsureGenesis(ctx)

		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, 1, c.Len())
	})
}

func TestChain_EnsureGenesis_StoreFailure(t *testing.T) {
	s := mocks.BaselineStore(t)
	s.AppendFunc = func(context.Context, chain.Record) error {
		return chain.ErrStoreUnavailable
	}
	c := testChain(t, s)

	_, err := c.EnsureGenesis(context.Background())

	assert.ErrorIs(t, err, chain.ErrStoreUnavailable)
	assert.Equal(t, 0, c.Len())
}

func TestChain_Staging(t *testing.T) {
	first := chain.Transaction(`{"n":1}`)
	second := chain.Transaction(`{"n":2}`)
	replacement := chain.Transaction(`{"n":3}`)

	staged := func(t *testing.T) *ledger.Chain {
		c := testChain(t, mocks.BaselineStore(t))
		c.AddTransaction(first)
		c.AddTransaction(second)
		return c
	}

	t.Run("add keeps order", func(t *testing.T) {
		c := staged(t)

		assert.Equal(t, []chain.Transaction{first, second}, c.Pending())
	})

	t.Run("add copies the payload", func(t *testing.T) {
		c := testChain(t, mocks.BaselineStore(t))
		tx := chain.Transaction(`{"n":1}`)
		c.AddTransaction(tx)
		tx[2] = 'm'

		assert.Equal(t, []chain.Transaction{first}, c.Pending())
	})

	editTests := []struct {
		desc     string
		position int

		wantPending []chain.Transaction
		wantErr     assert.ErrorAssertionFunc
	}{
		{
			desc:        "edit first",
			position:    0,
			wantPending: []chain.Transaction{replacement, second},
			wantErr:     assert.NoError,
		},
		{
			desc:        "edit last",
			position:    1,
			wantPending: []chain.Transaction{first, replacement},
			wantErr:     assert.NoError,
		},
		{
			desc:        "edit negative position",
			position:    -1,
			wantPending: []chain.Transaction{first, second},
			wantErr: func(t assert.TestingT, err error, _ ...interface{}) bool {
				return assert.ErrorIs(t, err, chain.ErrIndexOutOfRange)
			},
		},
		{
			desc:        "edit position equal to length",
			position:    2,
			wantPending: []chain.Transaction{first, second},
			wantErr: func(t assert.TestingT, err error, _ ...interface{}) bool {
				return assert.ErrorIs(t, err, chain.ErrIndexOutOfRange)
			},
		},
	}

	for _, test := range editTests {
		test := test
		t.Run(test.desc, func(t *testing.T) {
			c := staged(t)

			err := c.EditTransaction(test.position, replacement)

			test.wantErr(t, err)
			assert.Equal(t, test.wantPending, c.Pending())
		})
	}

	deleteTests := []struct {
		desc     string
		position int

		wantPending []chain.Transaction
		wantErr     assert.ErrorAssertionFunc
	}{
		{
			desc:        "delete first",
			position:    0,
			wantPending: []chain.Transaction{second},
			wantErr:     assert.NoError,
		},
		{
			desc:        "delete last",
			position:    1,
			wantPending: []chain.Transaction{first},
			wantErr:     assert.NoError,
		},
		{
			desc:        "delete negative position",
			position:    -1,
			wantPending: []chain.Transaction{first, second},
			wantErr: func(t assert.TestingT, err error, _ ...interface{}) bool {
				return assert.ErrorIs(t, err, chain.ErrIndexOutOfRange)
			},
		},
		{
			desc:        "delete beyond length",
			position:    5,
			wantPending: []chain.Transaction{first, second},
			wantErr: func(t assert.TestingT, err error, _ ...interface{}) bool {
				return assert.ErrorIs(t, err, chain.ErrIndexOutOfRange)
			},
		},
	}

	for _, test := range deleteTests {
		test := test
		t.Run(test.desc, func(t *testing.T) {
			c := staged(t)

			err := c.DeleteTransaction(test.position)

			test.wantErr(t, err)
			assert.Equal(t, test.wantPending, c.Pending())
		})
	}

	t.Run("operations on empty pending list", func(t *testing.T) {
		c := testChain(t, mocks.BaselineStore(t))

		assert.ErrorIs(t, c.EditTransaction(0, first), chain.ErrIndexOutOfRange)
		assert.ErrorIs(t, c.DeleteTransaction(0), chain.ErrIndexOutOfRange)
		assert.Empty(t, c.Pending())
	})
}

func TestChain_Seal(t *testing.T) {
	ctx := context.Background()

	t.Run("single transfer scenario", func(t *testing.T) {
		c := testChain(t, testStore(t))
		_, err := c.EnsureGenesis(ctx)
		require.NoError(t, err)

		c.AddTransaction(transfer(t, "A", "B", 10))
		block, err := c.Seal(ctx)
		require.NoError(t, err)

		blocks := c.Blocks()
		require.Len(t, blocks, 2)
		assert.Equal(t, block, blocks[1])
		assert.Equal(t, uint64(1), blocks[1].Index())
		assert.Equal(t, blocks[0].Hash(), blocks[1].Previous())
		assert.Equal(t, []chain.Transaction{chain.Transaction(`{"sender":"A","receiver":"B","amount":10}`)}, blocks[1].Transactions())
		assert.Empty(t, c.Pending())
	})

	t.Run("index follows chain length and links to last block", func(t *testing.T) {
		c := testChain(t, testStore(t))
		_, err := c.EnsureGenesis(ctx)
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			last := c.Blocks()[c.Len()-1]
			length := c.Len()

			block, err := c.Seal(ctx)

			require.NoError(t, err)
			assert.Equal(t, uint64(length), block.Index())
			assert.Equal(t, last.Hash(), block.Previous())
			assert.Empty(t, c.Pending())
		}
	})

	t.Run("empty pending list still seals", func(t *testing.T) {
		c := testChain(t, testStore(t))
		_, err := c.EnsureGenesis(ctx)
		require.NoError(t, err)

		block, err := c.Seal(ctx)

		require.NoError(t, err)
		assert.Empty(t, block.Transactions())
	})

	t.Run("store failure rolls back", func(t *testing.T) {
		s := mocks.BaselineStore(t)
		c := testChain(t, s)
		_, err := c.EnsureGenesis(ctx)
		require.NoError(t, err)

		s.AppendFunc = func(context.Context, chain.Record) error {
			return chain.ErrStoreWrite
		}
		tx := transfer(t, "A", "B", 10)
		c.AddTransaction(tx)
		before := c.Blocks()

		_, err = c.Seal(ctx)

		assert.ErrorIs(t, err, chain.ErrStoreWrite)
		assert.Equal(t, before, c.Blocks())
		assert.Equal(t, []chain.Transaction{tx}, c.Pending())
	})

	t.Run("unserializable transaction aborts seal", func(t *testing.T) {
		s := mocks.BaselineStore(t)
		c := testChain(t, s)
		_, err := c.EnsureGenesis(ctx)
		require.NoError(t, err)

		s.AppendFunc = func(context.Context, chain.Record) error {
			t.Fatal("store must not be called")
			return nil
		}
		c.AddTransaction(chain.Transaction(`{"broken":`))

		_, err = c.Seal(ctx)

		assert.ErrorIs(t, err, chain.ErrSerialization)
		assert.Equal(t, 1, c.Len())
		assert.Len(t, c.Pending(), 1)
	})

	t.Run("invalid UTF-8 payload aborts seal and keeps the store loadable", func(t *testing.T) {
		s := testStore(t)
		c := testChain(t, s)
		_, err := c.EnsureGenesis(ctx)
		require.NoError(t, err)

		c.AddTransaction(chain.Transaction("{\"memo\":\"\xff\xfe\"}"))
		_, err = c.Seal(ctx)

		assert.ErrorIs(t, err, chain.ErrSerialization)
		assert.Equal(t, 1, c.Len())
		assert.Len(t, c.Pending(), 1)

		reloaded := testChain(t, s)
		report, err := reloaded.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Loaded)
		assert.Equal(t, c.Blocks(), reloaded.Blocks())
	})

	t.Run("empty chain", func(t *testing.T) {
		c := testChain(t, mocks.BaselineStore(t))

		_, err := c.Seal(ctx)

		assert.ErrorIs(t, err, chain.ErrEmptyChain)
	})
}

func TestChain_DeleteBlock(t *testing.T) {
	ctx := context.Background()

	sealed := func(t *testing.T, s chain.Store) *ledger.Chain {
		c := testChain(t, s)
		_, err := c.EnsureGenesis(ctx)
		require.NoError(t, err)
		for i := 0; i < 2; i++ {
			c.AddTransaction(transfer(t, "A", "B", float64(i)))
			_, err = c.Seal(ctx)
			require.NoError(t, err)
		}
		return c
	}

	t.Run("interior deletion leaves dangling link", func(t *testing.T) {
		s := testStore(t)
		c := sealed(t, s)
		deleted := c.Blocks()[1]

		err := c.DeleteBlock(ctx, 1)
		require.NoError(t, err)

		blocks := c.Blocks()
		require.Len(t, blocks, 2)
		assert.Equal(t, uint64(0), blocks[0].Index())
		assert.Equal(t, uint64(2), blocks[1].Index())
		assert.Equal(t, deleted.Hash(), blocks[1].Previous())

		records, err := s.Records(ctx)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, uint64(0), records[0].Index)
		assert.Equal(t, uint64(2), records[1].Index)
	})

	t.Run("index at chain length is rejected", func(t *testing.T) {
		s := mocks.BaselineStore(t)
		c := sealed(t, s)
		s.DeleteFunc = func(context.Context, uint64) error {
			t.Fatal("store must not be called")
			return nil
		}
		before := c.Blocks()

		err := c.DeleteBlock(ctx, 3)

		assert.ErrorIs(t, err, chain.ErrBlockNotFound)
		assert.Equal(t, before, c.Blocks())
	})

	t.Run("admissible index without matching block", func(t *testing.T) {
		c := sealed(t, testStore(t))
		require.NoError(t, c.DeleteBlock(ctx, 1))

		// The chain now holds indices 0 and 2, so index 1 passes the length check.
		err := c.DeleteBlock(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("index 2 is out of range after a deletion", func(t *testing.T) {
		c := sealed(t, testStore(t))
		require.NoError(t, c.DeleteBlock(ctx, 1))

		err := c.DeleteBlock(ctx, 2)

		assert.ErrorIs(t, err, chain.ErrBlockNotFound)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("store failure leaves chain unchanged", func(t *testing.T) {
		s := mocks.BaselineStore(t)
		c := sealed(t, s)
		s.DeleteFunc = func(context.Context, uint64) error {
			return chain.ErrStoreUnavailable
		}
		before := c.Blocks()

		err := c.DeleteBlock(ctx, 1)

		assert.ErrorIs(t, err, chain.ErrStoreUnavailable)
		assert.Equal(t, before, c.Blocks())
	})

	t.Run("seal after deletion collides with existing index", func(t *testing.T) {
		c := sealed(t, testStore(t))
		require.NoError(t, c.DeleteBlock(ctx, 1))
		tx := transfer(t, "C", "D", 1)
		c.AddTransaction(tx)

		_, err := c.Seal(ctx)

		assert.ErrorIs(t, err, chain.ErrDuplicateIndex)
		assert.Equal(t, 2, c.Len())
		assert.Equal(t, []chain.Transaction{tx}, c.Pending())
	})
}

func TestChain_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip through the store", func(t *testing.T) {
		s := testStore(t)
		sealed := testChain(t, s)
		_, err := sealed.EnsureGenesis(ctx)
		require.NoError(t, err)
		for i := 0; i < 3; i++ {
			sealed.AddTransaction(transfer(t, "A", "B", float64(i)))
			sealed.AddTransaction(chain.Transaction(`{"memo":"x","nested":{"b":1,"a":2}}`))
			_, err = sealed.Seal(ctx)
			require.NoError(t, err)
		}

		reloaded := testChain(t, s)
		report, err := reloaded.Load(ctx)

		require.NoError(t, err)
		assert.Equal(t, 4, report.Loaded)
		assert.Empty(t, report.Corrupted)
		assert.Empty(t, report.Tampered)
		assert.Equal(t, sealed.Blocks(), reloaded.Blocks())
		assert.NoError(t, reloaded.Verify())
	})

	t.Run("corrupt payload loads as empty block", func(t *testing.T) {
		records := mocks.GenericRecords(3)
		records[1].Transactions = `[{"sender":`
		s := mocks.BaselineStore(t)
		s.RecordsFunc = func(context.Context) ([]chain.Record, error) {
			return records, nil
		}
		c := testChain(t, s)

		report, err := c.Load(ctx)

		require.NoError(t, err)
		assert.Equal(t, 3, report.Loaded)
		assert.Equal(t, []uint64{1}, report.Corrupted)

		blocks := c.Blocks()
		require.Len(t, blocks, 3)
		assert.Empty(t, blocks[1].Transactions())
		assert.Equal(t, uint64(2), blocks[2].Index())
		assert.Len(t, blocks[2].Transactions(), 2)
	})

	t.Run("tampered hash is reported", func(t *testing.T) {
		records := mocks.GenericRecords(3)
		records[2].Hash = mocks.GenericHash
		s := mocks.BaselineStore(t)
		s.RecordsFunc = func(context.Context) ([]chain.Record, error) {
			return records, nil
		}
		c := testChain(t, s)

		report, err := c.Load(ctx)

		require.NoError(t, err)
		assert.Equal(t, []uint64{2}, report.Tampered)
		assert.Equal(t, 3, c.Len())
		assert.NotEqual(t, mocks.GenericHash, c.Blocks()[2].Hash())
	})

	t.Run("empty store", func(t *testing.T) {
		c := testChain(t, testStore(t))

		report, err := c.Load(ctx)

		require.NoError(t, err)
		assert.Equal(t, 0, report.Loaded)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("store failure leaves chain unchanged", func(t *testing.T) {
		s := mocks.BaselineStore(t)
		c := testChain(t, s)
		_, err := c.Load(ctx)
		require.NoError(t, err)
		before := c.Blocks()

		s.RecordsFunc = func(context.Context) ([]chain.Record, error) {
			return nil, chain.ErrStoreUnavailable
		}
		_, err = c.Load(ctx)

		assert.ErrorIs(t, err, chain.ErrStoreUnavailable)
		assert.Equal(t, before, c.Blocks())
	})
}

func TestChain_Bootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store gets a genesis block", func(t *testing.T) {
		s := testStore(t)
		c := testChain(t, s)

		_, err := c.Bootstrap(ctx)

		require.NoError(t, err)
		require.Equal(t, 1, c.Len())
		assert.True(t, c.Blocks()[0].Genesis())
	})

	t.Run("restart does not duplicate genesis", func(t *testing.T) {
		s := testStore(t)
		first := testChain(t, s)
		_, err := first.Bootstrap(ctx)
		require.NoError(t, err)
		_, err = first.Seal(ctx)
		require.NoError(t, err)

		second := testChain(t, s)
		report, err := second.Bootstrap(ctx)

		require.NoError(t, err)
		assert.Equal(t, 2, report.Loaded)
		assert.Equal(t, first.Blocks(), second.Blocks())
	})
}

func TestChain_Block(t *testing.T) {
	c := testChain(t, mocks.BaselineStore(t))
	_, err := c.Load(context.Background())
	require.NoError(t, err)

	got, err := c.Block(2)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.Index())

	_, err = c.Block(7)
	assert.ErrorIs(t, err, chain.ErrBlockNotFound)
}

func TestChain_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("intact chain", func(t *testing.T) {
		c := testChain(t, mocks.BaselineStore(t))
		_, err := c.Load(ctx)
		require.NoError(t, err)

		assert.NoError(t, c.Verify())
	})

	t.Run("interior deletion", func(t *testing.T) {
		c := testChain(t, mocks.BaselineStore(t))
		_, err := c.Load(ctx)
		require.NoError(t, err)
		require.NoError(t, c.DeleteBlock(ctx, 1))

		err = c.Verify()

		assert.ErrorIs(t, err, chain.ErrDanglingLink)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("missing genesis", func(t *testing.T) {
		c := testChain(t, mocks.BaselineStore(t))
		_, err := c.Load(ctx)
		require.NoError(t, err)
		require.NoError(t, c.DeleteBlock(ctx, 0))

		err = c.Verify()

		assert.ErrorIs(t, err, chain.ErrIntegrity)
	})
}
