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

package store

// DefaultConfig is the default configuration for the chain stores.
var DefaultConfig = Config{
	Table:   "blocks",
	Dialect: MySQL,
}

// Config is the configuration of a chain store. Table names the relational
// table or the bolt bucket holding the block records.
type Config struct {
	Table   string
	Dialect Dialect
}

// Option is a functional option for the chain stores.
type Option func(*Config)

// WithTable sets the table (or bucket) that holds the block records.
func WithTable(table string) Option {
	return func(cfg *Config) {
		cfg.Table = table
	}
}

// WithDialect sets the SQL dialect used by the relational store.
func WithDialect(dialect Dialect) Option {
	return func(cfg *Config) {
		cfg.Dialect = dialect
	}
}
