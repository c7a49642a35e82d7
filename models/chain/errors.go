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
	"errors"
)

var (
	ErrIndexOutOfRange  = errors.New("transaction index out of range")
	ErrBlockNotFound    = errors.New("block not found")
	ErrSerialization    = errors.New("transaction not serializable")
	ErrPayloadCorrupt   = errors.New("transaction payload corrupt")
	ErrIntegrity        = errors.New("chain integrity warning")
	ErrDanglingLink     = errors.New("dangling previous hash link")
	ErrEmptyChain       = errors.New("chain has no blocks")
	ErrDuplicateIndex   = errors.New("duplicate block index")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrStoreWrite       = errors.New("store write failed")
)
