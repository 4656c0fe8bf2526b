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

// Package deriver computes the deterministic deployment address of a
// multisig account contract. Accounts are deployed as proxies through a
// factory contract using counterfactual deployment, so the address only
// depends on the factory, the proxy creation code, the initializer call and
// the salt nonce.
package deriver

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"

	"github.com/mustersig/muster/models/muster"
)

// BytecodeSource represents something that can fetch the proxy creation
// code published by an account factory contract.
type BytecodeSource interface {
	ProxyCreationCode(ctx context.Context, factory common.Address) ([]byte, error)
}

var (
	setupSelector  []byte
	setupArguments abi.Arguments
)

func init() {

	// The ABI types are static, so a failure to construct them can only be a
	// programming mistake; panicking here keeps the derivation signatures
	// clean.
	newType := func(t string) abi.Type {
		typ, err := abi.NewType(t, "", nil)
		if err != nil {
			panic(err)
		}
		return typ
	}

	setupSelector = crypto.Keccak256([]byte("setup(address[],uint256,address,bytes,address,address,uint256,address)"))[:4]
	setupArguments = abi.Arguments{
		{Type: newType("address[]")}, // owners
		{Type: newType("uint256")},   // threshold
		{Type: newType("address")},   // optional delegate call target
		{Type: newType("bytes")},     // optional delegate call data
		{Type: newType("address")},   // fallback handler
		{Type: newType("address")},   // payment token
		{Type: newType("uint256")},   // payment
		{Type: newType("address")},   // payment receiver
	}
}

// Deriver implements deterministic address derivation for account
// deployments. The proxy creation code of each factory is fetched once and
// cached, since factories are immutable contracts.
type Deriver struct {
	log    zerolog.Logger
	source BytecodeSource

	mu    sync.Mutex
	codes map[common.Address][]byte
}

// New creates a new address deriver fetching proxy creation code from the
// given source.
func New(log zerolog.Logger, source BytecodeSource) *Deriver {

	d := Deriver{
		log:    log.With().Str("component", "address_deriver").Logger(),
		source: source,
		codes:  make(map[common.Address][]byte),
	}

	return &d
}

// PredictAddress computes the address the account with the given
// configuration would be deployed at for the given salt nonce, without
// deploying anything.
func (d *Deriver) PredictAddress(ctx context.Context, config muster.DeploymentConfig, saltNonce uint64) (common.Address, error) {

	params, ok := muster.ParamsForVersion(config.Version)
	if !ok {
		return common.Address{}, fmt.Errorf("unsupported account version (version: %s)", config.Version)
	}

	initializer, err := encodeSetup(config.Owners, config.Threshold, params.FallbackHandler)
	if err != nil {
		return common.Address{}, fmt.Errorf("could not encode initializer: %w", err)
	}

	creationCode, err := d.creationCode(ctx, params.Factory)
	if err != nil {
		return common.Address{}, fmt.Errorf("could not get proxy creation code: %w", err)
	}

	// The factory mixes the initializer hash with the salt nonce, so the
	// same owner configuration can occupy multiple distinct addresses.
	var salt [32]byte
	copy(salt[:], crypto.Keccak256(
		crypto.Keccak256(initializer),
		common.BigToHash(new(big.Int).SetUint64(saltNonce)).Bytes(),
	))

	deployment := make([]byte, 0, len(creationCode)+common.HashLength)
	deployment = append(deployment, creationCode...)
	deployment = append(deployment, common.LeftPadBytes(params.Singleton.Bytes(), common.HashLength)...)

	address := crypto.CreateAddress2(params.Factory, salt, crypto.Keccak256(deployment))

	return address, nil
}

func (d *Deriver) creationCode(ctx context.Context, factory common.Address) ([]byte, error) {

	d.mu.Lock()
	code, ok := d.codes[factory]
	d.mu.Unlock()
	if ok {
		return code, nil
	}

	code, err := d.source.ProxyCreationCode(ctx, factory)
	if err != nil {
		return nil, err
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("factory returned empty proxy creation code (factory: %x)", factory)
	}

	d.log.Debug().
		Hex("factory", factory[:]).
		Int("size", len(code)).
		Msg("caching proxy creation code")

	d.mu.Lock()
	d.codes[factory] = code
	d.mu.Unlock()

	return code, nil
}

func encodeSetup(owners []common.Address, threshold uint64, fallbackHandler common.Address) ([]byte, error) {

	packed, err := setupArguments.Pack(
		owners,
		new(big.Int).SetUint64(threshold),
		common.Address{},
		[]byte{},
		fallbackHandler,
		common.Address{},
		new(big.Int),
		common.Address{},
	)
	if err != nil {
		return nil, fmt.Errorf("could not pack setup arguments: %w", err)
	}

	return append(append([]byte{}, setupSelector...), packed...), nil
}
