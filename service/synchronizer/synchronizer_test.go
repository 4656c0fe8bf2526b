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

package synchronizer_test

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mustersig/muster/failure"
	"github.com/mustersig/muster/models/muster"
	"github.com/mustersig/muster/service/sigstore"
	"github.com/mustersig/muster/service/synchronizer"
	"github.com/mustersig/muster/testing/mocks"
)

func TestSynchronizer_Push(t *testing.T) {
	t.Run("nominal case forwards remaining signatures", func(t *testing.T) {
		t.Parallel()

		record := signedRecord(1, 2)

		var proposed bool
		var forwarded []common.Address
		relay := mocks.BaselineRelay(t)
		relay.ProposeFunc = func(_ context.Context, _ muster.Account, got muster.TransactionRecord, proposer common.Address) error {
			proposed = true
			assert.Equal(t, record.TxHash, got.TxHash)
			assert.Equal(t, mocks.GenericAddress(1), proposer)
			return nil
		}
		relay.AddSignatureFunc = func(_ context.Context, _ common.Hash, signature muster.Signature) error {
			forwarded = append(forwarded, signature.Signer)
			return nil
		}

		sync := baselineSynchronizer(t, relay)

		err := sync.Push(context.Background(), mocks.GenericAccount(), *record, mocks.GenericAddress(1))

		require.NoError(t, err)
		assert.True(t, proposed)
		assert.Equal(t, []common.Address{mocks.GenericAddress(2)}, forwarded)
	})

	t.Run("draft without nonce is refused", func(t *testing.T) {
		t.Parallel()

		record := signedRecord(1)
		record.Tx.Nonce = nil

		sync := baselineSynchronizer(t, mocks.BaselineRelay(t))

		err := sync.Push(context.Background(), mocks.GenericAccount(), *record, mocks.GenericAddress(1))

		assert.ErrorAs(t, err, &failure.MissingNonce{})
	})

	t.Run("submitter without a signature is refused", func(t *testing.T) {
		t.Parallel()

		record := signedRecord(2)

		sync := baselineSynchronizer(t, mocks.BaselineRelay(t))

		err := sync.Push(context.Background(), mocks.GenericAccount(), *record, mocks.GenericAddress(1))

		assert.Error(t, err)
	})

	t.Run("corrupted record hash never propagates", func(t *testing.T) {
		t.Parallel()

		record := signedRecord(1)
		record.TxHash = mocks.GenericHash(5)

		relay := mocks.BaselineRelay(t)
		relay.ProposeFunc = func(context.Context, muster.Account, muster.TransactionRecord, common.Address) error {
			t.Fatal("corrupted record should not be proposed")
			return nil
		}

		sync := baselineSynchronizer(t, relay)

		err := sync.Push(context.Background(), mocks.GenericAccount(), *record, mocks.GenericAddress(1))

		assert.ErrorAs(t, err, &failure.InvalidTransaction{})
	})

	t.Run("handles proposal failure", func(t *testing.T) {
		t.Parallel()

		relay := mocks.BaselineRelay(t)
		relay.ProposeFunc = func(context.Context, muster.Account, muster.TransactionRecord, common.Address) error {
			return mocks.GenericError
		}

		sync := baselineSynchronizer(t, relay)

		err := sync.Push(context.Background(), mocks.GenericAccount(), *signedRecord(1), mocks.GenericAddress(1))

		assert.Error(t, err)
	})

	t.Run("failed signature forwarding does not fail the push", func(t *testing.T) {
		t.Parallel()

		relay := mocks.BaselineRelay(t)
		relay.AddSignatureFunc = func(context.Context, common.Hash, muster.Signature) error {
			return mocks.GenericError
		}

		sync := baselineSynchronizer(t, relay)

		err := sync.Push(context.Background(), mocks.GenericAccount(), *signedRecord(1, 2), mocks.GenericAddress(1))

		assert.NoError(t, err)
	})
}

func TestSynchronizer_Pull(t *testing.T) {
	t.Run("unknown transaction is imported", func(t *testing.T) {
		t.Parallel()

		relay := mocks.BaselineRelay(t)
		relay.ListPendingFunc = func(context.Context, muster.Account) ([]muster.RemoteTransaction, error) {
			return []muster.RemoteTransaction{
				mocks.GenericRemoteTransaction(mocks.GenericHash(0), mocks.GenericSignature(2)),
			}, nil
		}

		read := mocks.BaselineReader(t)
		read.RecordFunc = func(common.Hash) (*muster.TransactionRecord, error) {
			return nil, muster.ErrNotFound
		}

		var saved *muster.TransactionRecord
		write := mocks.BaselineWriter(t)
		write.SaveRecordFunc = func(record *muster.TransactionRecord) error {
			saved = record
			return nil
		}

		sync := synchronizer.New(mocks.NoopLogger, mocks.BaselineHasher(t), mocks.BaselineSignatureStore(t), read, write, relay)

		result, err := sync.Pull(context.Background(), mocks.GenericAccount())

		require.NoError(t, err)
		assert.Equal(t, uint(1), result.Imported)
		assert.Zero(t, result.Updated)
		assert.Empty(t, result.Failures)

		require.NotNil(t, saved)
		assert.Equal(t, mocks.GenericHash(0), saved.TxHash)
		assert.Equal(t, muster.StatusSigned, saved.Status)
		assert.Len(t, saved.Signatures, 1)
		assert.Equal(t, mocks.GenericAddress(1), saved.CreatedBy)
	})

	t.Run("known transaction gets its signatures merged", func(t *testing.T) {
		t.Parallel()

		relay := mocks.BaselineRelay(t)
		relay.ListPendingFunc = func(context.Context, muster.Account) ([]muster.RemoteTransaction, error) {
			return []muster.RemoteTransaction{
				mocks.GenericRemoteTransaction(mocks.GenericHash(0), mocks.GenericSignature(2)),
			}, nil
		}

		sync := baselineSynchronizer(t, relay)

		result, err := sync.Pull(context.Background(), mocks.GenericAccount())

		require.NoError(t, err)
		assert.Equal(t, uint(1), result.Updated)
		assert.Zero(t, result.Imported)
	})

	t.Run("merge without new signatures counts as skipped", func(t *testing.T) {
		t.Parallel()

		relay := mocks.BaselineRelay(t)
		relay.ListPendingFunc = func(context.Context, muster.Account) ([]muster.RemoteTransaction, error) {
			return []muster.RemoteTransaction{
				mocks.GenericRemoteTransaction(mocks.GenericHash(0), mocks.GenericSignature(2)),
			}, nil
		}

		signatures := mocks.BaselineSignatureStore(t)
		signatures.MergeFunc = func(_ common.Hash, incoming []muster.Signature) (sigstore.MergeResult, error) {
			return sigstore.MergeResult{Skipped: incoming}, nil
		}

		sync := synchronizer.New(mocks.NoopLogger, mocks.BaselineHasher(t), signatures, mocks.BaselineReader(t), mocks.BaselineWriter(t), relay)

		result, err := sync.Pull(context.Background(), mocks.GenericAccount())

		require.NoError(t, err)
		assert.Equal(t, uint(1), result.Skipped)
	})

	t.Run("one bad entry never aborts the others", func(t *testing.T) {
		t.Parallel()

		bad := mocks.GenericRemoteTransaction(mocks.GenericHash(1))
		relay := mocks.BaselineRelay(t)
		relay.ListPendingFunc = func(context.Context, muster.Account) ([]muster.RemoteTransaction, error) {
			return []muster.RemoteTransaction{
				mocks.GenericRemoteTransaction(mocks.GenericHash(0), mocks.GenericSignature(2)),
				bad,
				mocks.GenericRemoteTransaction(mocks.GenericHash(0), mocks.GenericSignature(3)),
			}, nil
		}

		sync := baselineSynchronizer(t, relay)

		result, err := sync.Pull(context.Background(), mocks.GenericAccount())

		require.NoError(t, err)
		assert.Equal(t, uint(2), result.Updated)
		require.Len(t, result.Failures, 1)
		assert.Equal(t, mocks.GenericHash(1), result.Failures[0].TxHash)
		assert.ErrorAs(t, result.Failures[0].Err, &failure.InvalidTransaction{})
	})

	t.Run("handles relay listing failure", func(t *testing.T) {
		t.Parallel()

		relay := mocks.BaselineRelay(t)
		relay.ListPendingFunc = func(context.Context, muster.Account) ([]muster.RemoteTransaction, error) {
			return nil, mocks.GenericError
		}

		sync := baselineSynchronizer(t, relay)

		_, err := sync.Pull(context.Background(), mocks.GenericAccount())

		assert.Error(t, err)
	})
}

func TestSynchronizer_PullAll(t *testing.T) {
	t.Run("results are aggregated across accounts", func(t *testing.T) {
		t.Parallel()

		relay := mocks.BaselineRelay(t)
		relay.ListPendingFunc = func(context.Context, muster.Account) ([]muster.RemoteTransaction, error) {
			return []muster.RemoteTransaction{
				mocks.GenericRemoteTransaction(mocks.GenericHash(0), mocks.GenericSignature(2)),
			}, nil
		}

		first := mocks.GenericAccount()
		second := mocks.GenericAccount()
		second.Address = mocks.GenericAddress(5)

		sync := baselineSynchronizer(t, relay)

		result, err := sync.PullAll(context.Background(), []*muster.Account{&first, &second}, 2)

		require.NoError(t, err)
		assert.Equal(t, uint(2), result.Updated)
		assert.Empty(t, result.Failures)
	})

	t.Run("one failing account does not stop the round", func(t *testing.T) {
		t.Parallel()

		broken := mocks.GenericAddress(5)

		relay := mocks.BaselineRelay(t)
		relay.ListPendingFunc = func(_ context.Context, account muster.Account) ([]muster.RemoteTransaction, error) {
			if account.Address == broken {
				return nil, mocks.GenericError
			}
			return []muster.RemoteTransaction{
				mocks.GenericRemoteTransaction(mocks.GenericHash(0), mocks.GenericSignature(2)),
			}, nil
		}

		first := mocks.GenericAccount()
		second := mocks.GenericAccount()
		second.Address = broken
		third := mocks.GenericAccount()
		third.Address = mocks.GenericAddress(6)

		sync := baselineSynchronizer(t, relay)

		result, err := sync.PullAll(context.Background(), []*muster.Account{&first, &second, &third}, 2)

		assert.Error(t, err)
		require.NotNil(t, result)
		assert.Equal(t, uint(2), result.Updated)
	})

	t.Run("zero workers are refused", func(t *testing.T) {
		t.Parallel()

		sync := baselineSynchronizer(t, mocks.BaselineRelay(t))

		_, err := sync.PullAll(context.Background(), nil, 0)

		assert.Error(t, err)
	})
}

func baselineSynchronizer(t *testing.T, relay *mocks.Relay) *synchronizer.Synchronizer {
	t.Helper()

	return synchronizer.New(
		mocks.NoopLogger,
		mocks.BaselineHasher(t),
		mocks.BaselineSignatureStore(t),
		mocks.BaselineReader(t),
		mocks.BaselineWriter(t),
		relay,
	)
}

// signedRecord returns the generic record with a nonce and signatures from
// the owners with the given indices.
func signedRecord(indices ...int) *muster.TransactionRecord {
	record := mocks.GenericRecord()
	for _, index := range indices {
		signature := mocks.GenericSignature(index)
		record.Signatures[signature.Signer] = signature
	}
	return record
}
