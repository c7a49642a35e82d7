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

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// Dialect captures the differences between the SQL engines the relational
// store can run on.
type Dialect struct {
	Name      string
	Driver    string
	Create    string
	Duplicate func(err error) bool

	placeholder func(n int) string
}

var (
	MySQL = Dialect{
		Name:   "mysql",
		Driver: "mysql",
		Create: `CREATE TABLE IF NOT EXISTS %s (
	block_index BIGINT UNSIGNED NOT NULL PRIMARY KEY,
	timestamp VARCHAR(64) NOT NULL,
	previous_hash VARCHAR(64) NOT NULL,
	hash CHAR(64) NOT NULL,
	transactions LONGTEXT NOT NULL
)`,
		Duplicate: func(err error) bool {
			var merr *mysql.MySQLError
			return errors.As(err, &merr) && merr.Number == 1062
		},
		placeholder: func(int) string {
			return "?"
		},
	}

	Postgres = Dialect{
		Name:   "postgres",
		Driver: "postgres",
		Create: `CREATE TABLE IF NOT EXISTS %s (
	block_index BIGINT NOT NULL PRIMARY KEY,
	timestamp VARCHAR(64) NOT NULL,
	previous_hash VARCHAR(64) NOT NULL,
	hash CHAR(64) NOT NULL,
	transactions TEXT NOT NULL
)`,
		Duplicate: func(err error) bool {
			var perr *pq.Error
			return errors.As(err, &perr) && perr.Code == "23505"
		},
		placeholder: func(n int) string {
			return fmt.Sprintf("$%d", n)
		},
	}
)

// DialectByName returns the dialect with the given name.
func DialectByName(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case MySQL.Name:
		return MySQL, nil
	case Postgres.Name, "postgresql":
		return Postgres, nil
	default:
		return Dialect{}, fmt.Errorf("unknown SQL dialect (%s)", name)
	}
}

// Placeholders returns the bind parameters for a statement with the given
// number of arguments.
func (d Dialect) Placeholders(count int) string {
	params := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		params = append(params, d.placeholder(i))
	}
	return strings.Join(params, ", ")
}
