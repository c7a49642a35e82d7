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
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/optakt/hashchain/api/console"
	"github.com/optakt/hashchain/api/rest"
	"github.com/optakt/hashchain/engine"
	"github.com/optakt/hashchain/service/ledger"
	"github.com/optakt/hashchain/service/metrics"
)

const (
	success = 0
	failure = 1
)

func main() {
	os.Exit(run())
}

func run() int {

	// Signal catching for clean shutdown.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)

	// Command line parameter initialization.
	var (
		flagAPI     string
		flagConfig  string
		flagData    string
		flagDSN     string
		flagLevel   string
		flagMetrics string
		flagStore   string
		flagTable   string
	)

	pflag.StringVarP(&flagAPI, "api", "a", "", "address to serve the read-only chain explorer on (disabled if empty)")
	pflag.StringVarP(&flagConfig, "config", "c", "", "path to a YAML configuration file")
	pflag.StringVarP(&flagData, "data", "d", "data", "directory for the embedded store engines")
	pflag.StringVar(&flagDSN, "dsn", "", "data source name for the SQL store engines")
	pflag.StringVarP(&flagLevel, "level", "l", "info", "log output level")
	pflag.StringVarP(&flagMetrics, "metrics", "m", "", "address to serve prometheus metrics on (disabled if empty)")
	pflag.StringVarP(&flagStore, "store", "s", kindBadger, "store engine to persist the chain with (badger, bolt, mysql, postgres)")
	pflag.StringVarP(&flagTable, "table", "t", "blocks", "table or bucket holding the block records")

	pflag.Parse()

	// Logger initialization.
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	log := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.DebugLevel)

	// Values from the configuration file only fill in flags that were not
	// given on the command line.
	if flagConfig != "" {
		file, err := readFile(flagConfig)
		if err != nil {
			log.Error().Str("config", flagConfig).Err(err).Msg("could not read configuration")
			return failure
		}
		err = file.apply(pflag.CommandLine)
		if err != nil {
			log.Error().Str("config", flagConfig).Err(err).Msg("could not apply configuration")
			return failure
		}
	}

	level, err := zerolog.ParseLevel(flagLevel)
	if err != nil {
		log.Error().Str("level", flagLevel).Err(err).Msg("could not parse log level")
		return failure
	}
	log = log.Level(level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the store and wrap it so that its activity is measured.
	reg := prometheus.NewRegistry()
	raw, closer, err := openStore(ctx, log, flagStore, flagData, flagDSN, flagTable, reg)
	if err != nil {
		log.Error().Str("store", flagStore).Err(err).Msg("could not open store")
		return failure
	}
	defer func() {
		err := closer.Close()
		if err != nil {
			log.Error().Err(err).Msg("could not close store")
		}
	}()
	store := metrics.NewStore(raw, reg)

	// Rebuild the chain from the store, creating the genesis block on first use.
	chain := ledger.New(log, store)
	report, err := chain.Bootstrap(ctx)
	if err != nil {
		log.Error().Err(err).Msg("could not bootstrap chain")
		return failure
	}
	if len(report.Corrupted) > 0 || len(report.Tampered) > 0 {
		log.Warn().
			Uints64("corrupted", report.Corrupted).
			Uints64("tampered", report.Tampered).
			Msg("chain loaded with integrity warnings")
	}
	log.Info().Int("loaded", report.Loaded).Int("length", chain.Len()).Msg("chain ready")

	// The console is the main component; quitting it shuts the engine down.
	cli := console.New(log, chain, os.Stdin, os.Stdout)
	e := engine.New(log, "hashchain").
		Component("console", cli.Run, cli.Stop)

	if flagAPI != "" {
		api := rest.NewServer(log, flagAPI, rest.NewController(chain))
		e.Component("api", api.Start, func() {
			shutdown(log, api.Stop)
		})
	}

	if flagMetrics != "" {
		server := metrics.NewServer(log, flagMetrics, reg)
		e.Component("metrics", server.Start, func() {
			shutdown(log, server.Stop)
		})
	}

	go func() {
		<-sig
		log.Info().Msg("hashchain stopping")
		cancel()
		<-sig
		log.Warn().Msg("forcing exit")
		os.Exit(1)
	}()

	err = e.Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("hashchain aborted")
		return failure
	}

	return success
}

// shutdown stops a server within the allocated shutdown time.
func shutdown(log zerolog.Logger, stop func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := stop(ctx)
	if err != nil {
		log.Error().Err(err).Msg("could not stop server")
	}
}
