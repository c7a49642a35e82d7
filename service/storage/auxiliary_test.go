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

package storage_test

import (
	"errors"
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"

	"github.com/optakt/hashchain/service/storage"
	"github.com/optakt/hashchain/testing/helpers"
)

func TestCombine(t *testing.T) {
	db := helpers.InMemoryDB(t)
	defer db.Close()
	txn := db.NewTransaction(false)
	defer txn.Discard()

	noCallFn := func(*badger.Txn) error {
		t.Log("unexpected function call")
		t.FailNow()
		return nil
	}
	successFn := func(*badger.Txn) error {
		return nil
	}
	failErr := errors.New("fail")
	failFn := func(*badger.Txn) error {
		return failErr
	}

	t.Run("should not error if all ops succeed", func(t *testing.T) {
		err := storage.Combine(successFn, successFn, successFn)(txn)

		assert.NoError(t, err)
	})

	t.Run("should stop at first failure", func(t *testing.T) {
		err := storage.Combine(successFn, failFn, noCallFn)(txn)

		assert.ErrorIs(t, err, failErr)
	})
}
