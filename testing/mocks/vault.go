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

package mocks

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mustersig/muster/models/muster"
)

type KeyVault struct {
	SignFunc    func(ctx context.Context, signer common.Address, digest common.Hash) (muster.Signature, error)
	SignersFunc func() []common.Address
}

func BaselineKeyVault(t *testing.T) *KeyVault {
	t.Helper()

	v := KeyVault{
		SignFunc: func(_ context.Context, signer common.Address, _ common.Hash) (muster.Signature, error) {
			return muster.Signature{Signer: signer, Data: GenericSignature(1).Data}, nil
		},
		SignersFunc: func() []common.Address {
			return []common.Address{GenericAddress(1)}
		},
	}

	return &v
}

func (v *KeyVault) Sign(ctx context.Context, signer common.Address, digest common.Hash) (muster.Signature, error) {
	return v.SignFunc(ctx, signer, digest)
}

func (v *KeyVault) Signers() []common.Address {
	return v.SignersFunc()
}
