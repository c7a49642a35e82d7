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

package metrics

import (
	"fmt"

	_ "github.com/dgraph-io/badger/v2/y"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// RegisterBadgerMetrics exposes the expvar statistics published by badger
// under the hashchain namespace.
func RegisterBadgerMetrics(reg prometheus.Registerer) error {
	expvarCol := collectors.NewExpvarCollector(map[string]*prometheus.Desc{
		"badger_v2_disk_reads_total":  prometheus.NewDesc("hashchain_badger_disk_reads_total", "cumulative number of reads", nil, nil),
		"badger_v2_disk_writes_total": prometheus.NewDesc("hashchain_badger_disk_writes_total", "cumulative number of writes", nil, nil),
		"badger_v2_read_bytes":        prometheus.NewDesc("hashchain_badger_read_bytes", "cumulative number of bytes read", nil, nil),
		"badger_v2_written_bytes":     prometheus.NewDesc("hashchain_badger_written_bytes", "cumulative number of bytes written", nil, nil),
		"badger_v2_gets_total":        prometheus.NewDesc("hashchain_badger_gets_total", "number of gets", nil, nil),
		"badger_v2_puts_total":        prometheus.NewDesc("hashchain_badger_puts_total", "number of puts", nil, nil),
		"badger_v2_lsm_size_bytes":    prometheus.NewDesc("hashchain_badger_lsm_size_bytes", "size of the LSM in bytes", []string{"path"}, nil),
		"badger_v2_vlog_size_bytes":   prometheus.NewDesc("hashchain_badger_vlog_size_bytes", "size of the value log in bytes", []string{"path"}, nil),
	})

	err := reg.Register(expvarCol)
	if err != nil {
		return fmt.Errorf("could not register badger metrics: %w", err)
	}

	return nil
}
