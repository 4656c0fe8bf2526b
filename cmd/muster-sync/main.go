// Copyright 2023 Mustersig Labs
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
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/mustersig/muster/codec/zbor"
	"github.com/mustersig/muster/engine"
	"github.com/mustersig/muster/models/muster"
	"github.com/mustersig/muster/service/hasher"
	"github.com/mustersig/muster/service/index"
	"github.com/mustersig/muster/service/relay"
	"github.com/mustersig/muster/service/sigstore"
	"github.com/mustersig/muster/service/storage"
	"github.com/mustersig/muster/service/synchronizer"
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
		flagChain    uint64
		flagData     string
		flagInterval time.Duration
		flagLevel    string
		flagOnce     bool
		flagRelay    string
		flagWorkers  uint
	)

	pflag.Uint64VarP(&flagChain, "chain", "c", 1, "chain ID of the accounts to synchronize")
	pflag.StringVarP(&flagData, "data", "d", "data", "database directory for the transaction repository")
	pflag.DurationVarP(&flagInterval, "interval", "i", 30*time.Second, "delay between synchronization rounds")
	pflag.StringVarP(&flagLevel, "level", "l", "info", "log output level")
	pflag.BoolVarP(&flagOnce, "once", "o", false, "run a single synchronization round and exit")
	pflag.StringVarP(&flagRelay, "relay", "r", "http://127.0.0.1:8580", "base URL of the coordination relay")
	pflag.UintVarP(&flagWorkers, "workers", "w", 4, "maximum number of accounts to synchronize concurrently")

	pflag.Parse()

	// Logger initialization.
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	log := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	level, err := zerolog.ParseLevel(flagLevel)
	if err != nil {
		log.Error().Str("level", flagLevel).Err(err).Msg("could not parse log level")
		return failure
	}
	log = log.Level(level)

	if flagWorkers == 0 {
		log.Error().Msg("number of workers must be positive")
		return failure
	}

	// Open the transaction repository.
	db, err := badger.Open(muster.DefaultOptions(flagData))
	if err != nil {
		log.Error().Str("data", flagData).Err(err).Msg("could not open repository DB")
		return failure
	}
	defer db.Close()

	// Initialize the repository reader and writer on top of the database.
	codec := zbor.NewCodec()
	library := storage.New(codec)
	read := index.NewReader(db, library)
	write := index.NewWriter(db, library)

	// Initialize the relay client and the synchronizer.
	rly, err := relay.NewClient(log, flagRelay)
	if err != nil {
		log.Error().Str("relay", flagRelay).Err(err).Msg("could not create relay client")
		return failure
	}
	signatures := sigstore.New(log, read, write)
	hash := hasher.New()
	synchronize := synchronizer.New(log, hash, signatures, read, write, rly)

	// pull reconciles every local account of the configured chain with the
	// relay; accounts that fail to pull are reported without stopping the
	// round for the others.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pull := func() error {
		accounts, err := read.Accounts(flagChain)
		if err != nil {
			return fmt.Errorf("could not list accounts (chain: %d): %w", flagChain, err)
		}

		result, err := synchronize.PullAll(ctx, accounts, flagWorkers)
		if result != nil {
			log.Info().
				Int("accounts", len(accounts)).
				Uint("imported", result.Imported).
				Uint("updated", result.Updated).
				Uint("skipped", result.Skipped).
				Int("failed", len(result.Failures)).
				Msg("synchronization round finished")
		}

		return err
	}

	// In daemon mode a failed round is only logged, so a relay outage does
	// not kill the process; in one-shot mode it fails the run.
	run := engine.New(log, "sync", sig)
	run.Component("synchronizer",
		func() error {
			ticker := time.NewTicker(flagInterval)
			defer ticker.Stop()
			for {
				err := pull()
				if err != nil && flagOnce {
					return err
				}
				if err != nil {
					log.Warn().Err(err).Msg("synchronization round failed")
				}
				if flagOnce {
					return nil
				}
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
				}
			}
		},
		cancel,
	)

	log.Info().Uint64("chain", flagChain).Str("relay", flagRelay).Msg("synchronization daemon starting")
	run.Run().Stop()
	log.Info().Msg("synchronization daemon stopped")

	if run.Aborted() {
		return failure
	}

	return success
}
