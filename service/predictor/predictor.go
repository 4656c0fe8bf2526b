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

// Package predictor searches for a free deployment address for an account
// that has not been deployed yet.
package predictor

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/mustersig/muster/failure"
	"github.com/mustersig/muster/models/muster"
)

// Predictor runs the collision-avoidance search over salt nonces: it derives
// the deterministic deployment address for each salt in turn and returns the
// first one that has no contract code on-chain.
type Predictor struct {
	log    zerolog.Logger
	derive muster.AddressDeriver
	chain  muster.ChainClient
	cfg    Config
}

// New creates a new address predictor using the given deriver for address
// derivation and the given chain client for deployment checks.
func New(log zerolog.Logger, derive muster.AddressDeriver, chain muster.ChainClient, options ...Option) *Predictor {

	cfg := DefaultConfig
	for _, option := range options {
		option(&cfg)
	}

	p := Predictor{
		log:    log.With().Str("component", "address_predictor").Logger(),
		derive: derive,
		chain:  chain,
		cfg:    cfg,
	}

	return &p
}

// Search returns the first free deployment address for the given account
// configuration, along with the salt nonce that produces it. Salt nonces are
// tried in ascending order from zero, up to the configured attempt ceiling;
// exhausting the ceiling fails the search terminally.
//
// A transient error while checking a candidate's deployment status counts
// as "not deployed" and the candidate is returned as free. This prefers
// availability over caution: a false positive surfaces later, when the
// deployment transaction reverts on the occupied address, while aborting
// the search would block account creation on every chain hiccup.
func (p *Predictor) Search(ctx context.Context, config muster.DeploymentConfig) (common.Address, uint64, error) {

	for saltNonce := uint64(0); saltNonce < p.cfg.MaxAttempts; saltNonce++ {

		select {
		case <-ctx.Done():
			return common.Address{}, 0, fmt.Errorf("search interrupted (salt nonce: %d): %w", saltNonce, ctx.Err())
		default:
		}

		predicted, err := p.derive.PredictAddress(ctx, config, saltNonce)
		if err != nil {
			return common.Address{}, 0, fmt.Errorf("could not derive address (salt nonce: %d): %w", saltNonce, err)
		}

		code, err := p.chain.Code(ctx, predicted)
		if err != nil {
			p.log.Warn().
				Uint64("salt_nonce", saltNonce).
				Hex("address", predicted[:]).
				Err(err).
				Msg("deployment check failed, assuming address is free")
			return predicted, saltNonce, nil
		}

		if len(code) == 0 {
			p.log.Debug().
				Uint64("salt_nonce", saltNonce).
				Hex("address", predicted[:]).
				Msg("found free deployment address")
			return predicted, saltNonce, nil
		}

		p.log.Debug().
			Uint64("salt_nonce", saltNonce).
			Hex("address", predicted[:]).
			Msg("address already deployed, trying next salt nonce")
	}

	return common.Address{}, 0, failure.AddressExhausted{
		Description: failure.NewDescription("all candidate addresses already deployed"),
		Attempts:    p.cfg.MaxAttempts,
	}
}
