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

// Package vault holds already-unlocked signing keys in memory and signs
// transaction digests with them. Encrypted storage and unlocking are
// deliberately outside this engine; callers hand over unlocked keys and the
// vault never exposes them again.
package vault

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/mustersig/muster/models/muster"
)

// Vault signs digests on behalf of the owner addresses whose unlocked keys
// it holds.
type Vault struct {
	keys map[common.Address]*ecdsa.PrivateKey
}

// New creates a new vault holding the given unlocked keys.
func New(keys ...*ecdsa.PrivateKey) *Vault {

	v := Vault{
		keys: make(map[common.Address]*ecdsa.PrivateKey, len(keys)),
	}
	for _, key := range keys {
		v.keys[crypto.PubkeyToAddress(key.PublicKey)] = key
	}

	return &v
}

// Sign signs the given digest with the key of the given signer. The
// recovery byte carries the legacy offset the account contracts verify.
func (v *Vault) Sign(_ context.Context, signer common.Address, digest common.Hash) (muster.Signature, error) {

	key, ok := v.keys[signer]
	if !ok {
		return muster.Signature{}, fmt.Errorf("no unlocked key for signer (signer: %x)", signer)
	}

	data, err := crypto.Sign(digest[:], key)
	if err != nil {
		return muster.Signature{}, fmt.Errorf("could not sign digest: %w", err)
	}
	data[64] += 27

	signature := muster.Signature{
		Signer: signer,
		Data:   data,
	}

	return signature, nil
}

// Signers returns the addresses the vault can sign for, in ascending order.
func (v *Vault) Signers() []common.Address {
	signers := make([]common.Address, 0, len(v.keys))
	for signer := range v.keys {
		signers = append(signers, signer)
	}
	sort.Slice(signers, func(i int, j int) bool {
		return bytes.Compare(signers[i][:], signers[j][:]) < 0
	})
	return signers
}
