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

package chain

import (
	"context"
)

// Store is the persistence contract the chain depends on. Implementations
// acquire and release their underlying resources within each call.
type Store interface {
	// Append inserts one record. It fails on a duplicate index, an invalid
	// record or when the backend cannot be reached.
	Append(ctx context.Context, record Record) error

	// Delete removes all records with the given index. Deleting an index that
	// does not exist is a no-op.
	Delete(ctx context.Context, index uint64) error

	// Records returns all records in ascending index order.
	Records(ctx context.Context) ([]Record, error)
}

// Codec encodes records for key-value backends.
type Codec interface {
	Encode(value interface{}) ([]byte, error)
	Compress(data []byte) ([]byte, error)

	Decode(data []byte, value interface{}) error
	Decompress(compressed []byte) ([]byte, error)

	Marshal(value interface{}) ([]byte, error)
	Unmarshal(compressed []byte, value interface{}) error
}
