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

package vault_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mustersig/muster/service/vault"
	"github.com/mustersig/muster/testing/mocks"
)

func TestVault_Sign(t *testing.T) {
	t.Run("signature recovers to the signer", func(t *testing.T) {
		t.Parallel()

		key, err := crypto.GenerateKey()
		require.NoError(t, err)
		signer := crypto.PubkeyToAddress(key.PublicKey)

		v := vault.New(key)

		digest := mocks.GenericHash(0)
		signature, err := v.Sign(context.Background(), signer, digest)

		require.NoError(t, err)
		assert.Equal(t, signer, signature.Signer)
		require.Len(t, signature.Data, 65)

		// The recovery byte carries the legacy offset.
		assert.GreaterOrEqual(t, signature.Data[64], byte(27))

		recoverable := append([]byte{}, signature.Data...)
		recoverable[64] -= 27
		pubkey, err := crypto.SigToPub(digest[:], recoverable)
		require.NoError(t, err)
		assert.Equal(t, signer, crypto.PubkeyToAddress(*pubkey))
	})

	t.Run("handles unknown signer", func(t *testing.T) {
		t.Parallel()

		key, err := crypto.GenerateKey()
		require.NoError(t, err)

		v := vault.New(key)

		_, err = v.Sign(context.Background(), mocks.GenericAddress(1), mocks.GenericHash(0))

		assert.Error(t, err)
	})
}

func TestVault_Signers(t *testing.T) {
	t.Run("signers come back in ascending order", func(t *testing.T) {
		t.Parallel()

		first, err := crypto.GenerateKey()
		require.NoError(t, err)
		second, err := crypto.GenerateKey()
		require.NoError(t, err)

		v := vault.New(first, second)

		signers := v.Signers()

		require.Len(t, signers, 2)
		assert.True(t, bytes.Compare(signers[0][:], signers[1][:]) < 0)
	})

	t.Run("empty vault has no signers", func(t *testing.T) {
		t.Parallel()

		v := vault.New()

		assert.Empty(t, v.Signers())
	})
}
