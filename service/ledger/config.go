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

package ledger

import (
	"time"

	"github.com/optakt/hashchain/models/chain"
)

// DefaultConfig is the default configuration of a chain.
var DefaultConfig = Config{
	Clock:  time.Now,
	Layout: chain.TimestampLayout,
}

// Config is the configuration of a chain.
type Config struct {
	Clock  func() time.Time
	Layout string
}

// Option is a functional option for a chain.
type Option func(*Config)

// WithClock sets the clock used to timestamp new blocks.
func WithClock(clock func() time.Time) Option {
	return func(cfg *Config) {
		cfg.Clock = clock
	}
}

// WithLayout sets the layout used to render block timestamps.
func WithLayout(layout string) Option {
	return func(cfg *Config) {
		cfg.Layout = layout
	}
}
