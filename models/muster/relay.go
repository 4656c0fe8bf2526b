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

// Relay represents a remote coordination service that multiple parties use
// to exchange pending transactions and signatures for shared accounts.
// Proposing the same transaction hash twice is idempotent on the remote
// side.
type Relay interface {
	Propose(ctx context.Context, account Account, record TransactionRecord, proposer common.Address) error
	AddSignature(ctx context.Context, txHash common.Hash, signature Signature) error

	ListPending(ctx context.Context, account Account) ([]RemoteTransaction, error)
	GetByHash(ctx context.Context, txHash common.Hash) (*RemoteTransaction, error)
}
