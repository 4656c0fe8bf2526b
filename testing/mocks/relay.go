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

type Relay struct {
	ProposeFunc      func(ctx context.Context, account muster.Account, record muster.TransactionRecord, proposer common.Address) error
	AddSignatureFunc func(ctx context.Context, txHash common.Hash, signature muster.Signature) error
	ListPendingFunc  func(ctx context.Context, account muster.Account) ([]muster.RemoteTransaction, error)
	GetByHashFunc    func(ctx context.Context, txHash common.Hash) (*muster.RemoteTransaction, error)
}

func BaselineRelay(t *testing.T) *Relay {
	t.Helper()

	r := Relay{
		ProposeFunc: func(context.Context, muster.Account, muster.TransactionRecord, common.Address) error {
			return nil
		},
		AddSignatureFunc: func(context.Context, common.Hash, muster.Signature) error {
			return nil
		},
		ListPendingFunc: func(context.Context, muster.Account) ([]muster.RemoteTransaction, error) {
			return []muster.RemoteTransaction{GenericRemoteTransaction(GenericHash(0))}, nil
		},
		GetByHashFunc: func(_ context.Context, txHash common.Hash) (*muster.RemoteTransaction, error) {
			remote := GenericRemoteTransaction(txHash)
			return &remote, nil
		},
	}

	return &r
}

func (r *Relay) Propose(ctx context.Context, account muster.Account, record muster.TransactionRecord, proposer common.Address) error {
	return r.ProposeFunc(ctx, account, record, proposer)
}

func (r *Relay) AddSignature(ctx context.Context, txHash common.Hash, signature muster.Signature) error {
	return r.AddSignatureFunc(ctx, txHash, signature)
}

func (r *Relay) ListPending(ctx context.Context, account muster.Account) ([]muster.RemoteTransaction, error) {
	return r.ListPendingFunc(ctx, account)
}

func (r *Relay) GetByHash(ctx context.Context, txHash common.Hash) (*muster.RemoteTransaction, error) {
	return r.GetByHashFunc(ctx, txHash)
}
