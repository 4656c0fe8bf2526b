//go:build integration
// +build integration

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

package executor_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mustersig/muster/codec/zbor"
	"github.com/mustersig/muster/failure"
	"github.com/mustersig/muster/models/muster"
	"github.com/mustersig/muster/service/executor"
	"github.com/mustersig/muster/service/hasher"
	"github.com/mustersig/muster/service/index"
	"github.com/mustersig/muster/service/sigstore"
	"github.com/mustersig/muster/service/storage"
	"github.com/mustersig/muster/service/synchronizer"
	"github.com/mustersig/muster/testing/helpers"
	"github.com/mustersig/muster/testing/mocks"
)

// TestTransactionLifecycle walks one transaction of a threshold-2 account
// through its full lifecycle on a real repository: one local signature moves
// it to signed but not ready, the second signature arrives through a pull
// from the relay, and execution settles the record as executed with the
// chain transaction hash.
func TestTransactionLifecycle(t *testing.T) {

	db := helpers.InMemoryDB(t)
	defer db.Close()

	lib := storage.New(zbor.NewCodec())
	read := index.NewReader(db, lib)
	write := index.NewWriter(db, lib)

	hash := hasher.New()
	signatures := sigstore.New(mocks.NoopLogger, read, write)
	chain := mocks.BaselineChainClient(t)
	execute := executor.New(mocks.NoopLogger, read, write, chain)

	account := mocks.GenericAccount()
	tx := mocks.GenericTransaction()

	txHash, err := hash.Hash(account, tx)
	require.NoError(t, err)

	relay := mocks.BaselineRelay(t)
	relay.ListPendingFunc = func(context.Context, muster.Account) ([]muster.RemoteTransaction, error) {
		return []muster.RemoteTransaction{{
			TxHash:        txHash,
			ChainID:       account.ChainID,
			Account:       account.Address,
			Tx:            tx,
			Confirmations: []muster.Signature{mocks.GenericSignature(2)},
			Threshold:     account.Threshold,
			Proposer:      mocks.GenericAddress(1),
		}}, nil
	}
	synchronize := synchronizer.New(mocks.NoopLogger, hash, signatures, read, write, relay)

	require.NoError(t, write.SaveAccount(&account))
	require.NoError(t, write.SaveRecord(&muster.TransactionRecord{
		TxHash:     txHash,
		ChainID:    account.ChainID,
		Account:    account.Address,
		Tx:         tx,
		Signatures: muster.SignatureSet{},
		Status:     muster.StatusPending,
		CreatedBy:  mocks.GenericAddress(1),
		CreatedAt:  time.Now().UTC(),
	}))

	// The first owner signs locally; one of two signatures moves the record
	// to signed, but it cannot execute yet.
	added, err := signatures.Add(txHash, mocks.GenericSignature(1))
	require.NoError(t, err)
	assert.True(t, added)

	record, err := read.Record(txHash)
	require.NoError(t, err)
	assert.Equal(t, muster.StatusSigned, record.Status)
	assert.Len(t, record.Signatures, 1)

	_, err = execute.Execute(context.Background(), account, txHash)
	var notReady failure.NotReady
	require.ErrorAs(t, err, &notReady)
	assert.Equal(t, uint64(1), notReady.Have)
	assert.Equal(t, uint64(2), notReady.Want)

	// The second owner's signature arrives through a pull from the relay.
	result, err := synchronize.Pull(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, uint(1), result.Updated)
	assert.Empty(t, result.Failures)

	record, err = read.Record(txHash)
	require.NoError(t, err)
	assert.Len(t, record.Signatures, 2)

	// With the threshold met, execution settles the record.
	execHash, err := execute.Execute(context.Background(), account, txHash)
	require.NoError(t, err)
	assert.Equal(t, mocks.GenericHash(9), execHash)

	record, err = read.Record(txHash)
	require.NoError(t, err)
	assert.Equal(t, muster.StatusExecuted, record.Status)
	require.NotNil(t, record.ExecutionTxHash)
	assert.Equal(t, execHash, *record.ExecutionTxHash)
	require.NotNil(t, record.ExecutedAt)
}
