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

package muster

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// ChainClient represents something that can read multisig account state from
// an EVM network and submit execution transactions to it. All calls are
// bounded by the given context.
type ChainClient interface {
	Code(ctx context.Context, address common.Address) ([]byte, error)

	CurrentNonce(ctx context.Context, account common.Address) (uint64, error)
	LiveThreshold(ctx context.Context, account common.Address) (uint64, error)
	LiveOwners(ctx context.Context, account common.Address) ([]common.Address, error)

	Execute(ctx context.Context, account common.Address, tx Transaction, signatures []byte) (common.Hash, error)
	WaitConfirmed(ctx context.Context, executionTxHash common.Hash) error
}
