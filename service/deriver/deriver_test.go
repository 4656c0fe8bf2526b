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

package deriver_test

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mustersig/muster/models/muster"
	"github.com/mustersig/muster/service/deriver"
	"github.com/mustersig/muster/testing/mocks"
)

type bytecodeSource struct {
	calls int
	code  []byte
	err   error
}

func (b *bytecodeSource) ProxyCreationCode(context.Context, common.Address) ([]byte, error) {
	b.calls++
	return b.code, b.err
}

func genericConfig() muster.DeploymentConfig {
	return muster.DeploymentConfig{
		ChainID:   mocks.GenericChainID,
		Version:   muster.LatestVersion,
		Owners:    mocks.GenericAccount().Owners,
		Threshold: 2,
	}
}

func TestDeriver_PredictAddress(t *testing.T) {
	t.Run("derivation is deterministic", func(t *testing.T) {
		t.Parallel()

		derive := deriver.New(mocks.NoopLogger, &bytecodeSource{code: mocks.GenericBytes})

		first, err := derive.PredictAddress(context.Background(), genericConfig(), 0)
		require.NoError(t, err)

		second, err := derive.PredictAddress(context.Background(), genericConfig(), 0)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.NotEqual(t, common.Address{}, first)
	})

	t.Run("salt nonce changes the address", func(t *testing.T) {
		t.Parallel()

		derive := deriver.New(mocks.NoopLogger, &bytecodeSource{code: mocks.GenericBytes})

		first, err := derive.PredictAddress(context.Background(), genericConfig(), 0)
		require.NoError(t, err)

		second, err := derive.PredictAddress(context.Background(), genericConfig(), 1)
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	t.Run("owner set changes the address", func(t *testing.T) {
		t.Parallel()

		derive := deriver.New(mocks.NoopLogger, &bytecodeSource{code: mocks.GenericBytes})

		first, err := derive.PredictAddress(context.Background(), genericConfig(), 0)
		require.NoError(t, err)

		other := genericConfig()
		other.Owners = []common.Address{mocks.GenericAddress(8), mocks.GenericAddress(9)}
		second, err := derive.PredictAddress(context.Background(), other, 0)
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	t.Run("creation code is fetched once per factory", func(t *testing.T) {
		t.Parallel()

		source := &bytecodeSource{code: mocks.GenericBytes}
		derive := deriver.New(mocks.NoopLogger, source)

		_, err := derive.PredictAddress(context.Background(), genericConfig(), 0)
		require.NoError(t, err)

		_, err = derive.PredictAddress(context.Background(), genericConfig(), 1)
		require.NoError(t, err)

		assert.Equal(t, 1, source.calls)
	})

	t.Run("handles unsupported version", func(t *testing.T) {
		t.Parallel()

		derive := deriver.New(mocks.NoopLogger, &bytecodeSource{code: mocks.GenericBytes})

		config := genericConfig()
		config.Version = "99.0.0"

		_, err := derive.PredictAddress(context.Background(), config, 0)

		assert.Error(t, err)
	})

	t.Run("handles bytecode source failure", func(t *testing.T) {
		t.Parallel()

		derive := deriver.New(mocks.NoopLogger, &bytecodeSource{err: mocks.GenericError})

		_, err := derive.PredictAddress(context.Background(), genericConfig(), 0)

		assert.Error(t, err)
	})

	t.Run("handles empty creation code", func(t *testing.T) {
		t.Parallel()

		derive := deriver.New(mocks.NoopLogger, &bytecodeSource{})

		_, err := derive.PredictAddress(context.Background(), genericConfig(), 0)

		assert.Error(t, err)
	})
}
