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

type ChainClient struct {
	CodeFunc          func(ctx context.Context, address common.Address) ([]byte, error)
	CurrentNonceFunc  func(ctx context.Context, account common.Address) (uint64, error)
	LiveThresholdFunc func(ctx context.Context, account common.Address) (uint64, error)
	LiveOwnersFunc    func(ctx context.Context, account common.Address) ([]common.Address, error)
	ExecuteFunc       func(ctx context.Context, account common.Address, tx muster.Transaction, signatures []byte) (common.Hash, error)
	WaitConfirmedFunc func(ctx context.Context, executionTxHash common.Hash) error
}

func BaselineChainClient(t *testing.T) *ChainClient {
	t.Helper()

	c := ChainClient{
		CodeFunc: func(context.Context, common.Address) ([]byte, error) {
			return nil, nil
		},
		CurrentNonceFunc: func(context.Context, common.Address) (uint64, error) {
			return GenericNonce, nil
		},
		LiveThresholdFunc: func(context.Context, common.Address) (uint64, error) {
			return 2, nil
		},
		LiveOwnersFunc: func(context.Context, common.Address) ([]common.Address, error) {
			return GenericAccount().Owners, nil
		},
		ExecuteFunc: func(context.Context, common.Address, muster.Transaction, []byte) (common.Hash, error) {
			return GenericHash(9), nil
		},
		WaitConfirmedFunc: func(context.Context, common.Hash) error {
			return nil
		},
	}

	return &c
}

func (c *ChainClient) Code(ctx context.Context, address common.Address) ([]byte, error) {
	return c.CodeFunc(ctx, address)
}

func (c *ChainClient) CurrentNonce(ctx context.Context, account common.Address) (uint64, error) {
	return c.CurrentNonceFunc(ctx, account)
}

func (c *ChainClient) LiveThreshold(ctx context.Context, account common.Address) (uint64, error) {
	return c.LiveThresholdFunc(ctx, account)
}

func (c *ChainClient) LiveOwners(ctx context.Context, account common.Address) ([]common.Address, error) {
	return c.LiveOwnersFunc(ctx, account)
}

func (c *ChainClient) Execute(ctx context.Context, account common.Address, tx muster.Transaction, signatures []byte) (common.Hash, error) {
	return c.ExecuteFunc(ctx, account, tx, signatures)
}

func (c *ChainClient) WaitConfirmed(ctx context.Context, executionTxHash common.Hash) error {
	return c.WaitConfirmedFunc(ctx, executionTxHash)
}
