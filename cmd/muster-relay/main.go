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
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/ziflex/lecho/v2"

	"github.com/mustersig/muster/api/rest"
	"github.com/mustersig/muster/codec/zbor"
	"github.com/mustersig/muster/engine"
	"github.com/mustersig/muster/models/muster"
	"github.com/mustersig/muster/service/hasher"
	"github.com/mustersig/muster/service/index"
	"github.com/mustersig/muster/service/metrics"
	"github.com/mustersig/muster/service/sigstore"
	"github.com/mustersig/muster/service/storage"
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
		flagData    string
		flagLevel   string
		flagMetrics string
		flagPort    uint16
	)

	pflag.StringVarP(&flagData, "data", "d", "data", "database directory for the transaction repository")
	pflag.StringVarP(&flagLevel, "level", "l", "info", "log output level")
	pflag.StringVarP(&flagMetrics, "metrics", "m", "", "address on which to expose metrics (empty disables metrics)")
	pflag.Uint16VarP(&flagPort, "port", "p", 8580, "port to serve the coordination API on")

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
	elog := lecho.From(log)

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
	var write muster.Writer
	write = index.NewWriter(db, library)
	if flagMetrics != "" {
		write = metrics.NewWriter(write)
	}

	// Initialize the coordination API controller.
	signatures := sigstore.New(log, read, write)
	hash := hasher.New()
	ctrl := rest.NewController(log, read, write, signatures, hash)

	server := echo.New()
	server.HideBanner = true
	server.HidePort = true
	server.Logger = elog
	server.Use(lecho.Middleware(lecho.Config{Logger: elog}))
	ctrl.Register(server)

	// Run the API server and the optional metrics server until a signal
	// arrives or one of them fails.
	run := engine.New(log, "relay", sig)
	run.Component("coordination_api",
		func() error {
			err := server.Start(fmt.Sprint(":", flagPort))
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("could not serve coordination API: %w", err)
			}
			return nil
		},
		func() {
			err := server.Close()
			if err != nil {
				log.Error().Err(err).Msg("could not close coordination API")
			}
		},
	)
	if flagMetrics != "" {
		msvr := metrics.NewServer(log, flagMetrics)
		run.Component("metrics",
			func() error {
				err := msvr.Start()
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("could not serve metrics: %w", err)
				}
				return nil
			},
			msvr.Stop,
		)
	}

	log.Info().Uint16("port", flagPort).Msg("coordination relay starting")
	run.Run().Stop()
	log.Info().Msg("coordination relay stopped")

	if run.Aborted() {
		return failure
	}

	return success
}
