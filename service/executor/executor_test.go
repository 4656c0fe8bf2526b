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

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mustersig/muster/failure"
	"github.com/mustersig/muster/models/muster"
	"github.com/mustersig/muster/service/executor"
	"github.com/mustersig/muster/testing/mocks"
)

func TestExecutor_Execute(t *testing.T) {
	t.Run("nominal case", func(t *testing.T) {
		t.Parallel()

		record := readyRecord()
		read := mocks.BaselineReader(t)
		read.RecordFunc = func(common.Hash) (*muster.TransactionRecord, error) {
			return record, nil
		}

		write := mocks.BaselineWriter(t)
		write.MutateRecordFunc = func(_ common.Hash, mutate func(*muster.TransactionRecord) error) error {
			return mutate(record)
		}

		var blob []byte
		chain := mocks.BaselineChainClient(t)
		chain.ExecuteFunc = func(_ context.Context, _ common.Address, _ muster.Transaction, signatures []byte) (common.Hash, error) {
			blob = signatures
			return mocks.GenericHash(9), nil
		}

		exec := executor.New(mocks.NoopLogger, read, write, chain)

		execHash, err := exec.Execute(context.Background(), mocks.GenericAccount(), mocks.GenericHash(0))

		require.NoError(t, err)
		assert.Equal(t, mocks.GenericHash(9), execHash)

		// The blob concatenates the signatures in ascending signer order.
		want := append([]byte{}, mocks.GenericSignature(1).Data...)
		want = append(want, mocks.GenericSignature(2).Data...)
		assert.Equal(t, want, blob)

		assert.Equal(t, muster.StatusExecuted, record.Status)
		require.NotNil(t, record.ExecutionTxHash)
		assert.Equal(t, mocks.GenericHash(9), *record.ExecutionTxHash)
		assert.NotNil(t, record.ExecutedAt)
	})

	t.Run("terminal record is refused", func(t *testing.T) {
		t.Parallel()

		record := readyRecord()
		record.Status = muster.StatusExecuted
		read := mocks.BaselineReader(t)
		read.RecordFunc = func(common.Hash) (*muster.TransactionRecord, error) {
			return record, nil
		}

		exec := executor.New(mocks.NoopLogger, read, mocks.BaselineWriter(t), mocks.BaselineChainClient(t))

		_, err := exec.Execute(context.Background(), mocks.GenericAccount(), mocks.GenericHash(0))

		assert.Error(t, err)
	})

	t.Run("signature from outside the live owner set is refused", func(t *testing.T) {
		t.Parallel()

		record := readyRecord()
		outsider := mocks.GenericSignature(9)
		record.Signatures[outsider.Signer] = outsider

		read := mocks.BaselineReader(t)
		read.RecordFunc = func(common.Hash) (*muster.TransactionRecord, error) {
			return record, nil
		}

		exec := executor.New(mocks.NoopLogger, read, mocks.BaselineWriter(t), mocks.BaselineChainClient(t))

		_, err := exec.Execute(context.Background(), mocks.GenericAccount(), mocks.GenericHash(0))

		var notOwner failure.NotAnOwner
		require.ErrorAs(t, err, &notOwner)
		assert.Equal(t, outsider.Signer, notOwner.Signer)
	})

	t.Run("consumed nonce fails as stale", func(t *testing.T) {
		t.Parallel()

		record := readyRecord()
		read := mocks.BaselineReader(t)
		read.RecordFunc = func(common.Hash) (*muster.TransactionRecord, error) {
			return record, nil
		}

		chain := mocks.BaselineChainClient(t)
		chain.CurrentNonceFunc = func(context.Context, common.Address) (uint64, error) {
			return mocks.GenericNonce + 1, nil
		}

		exec := executor.New(mocks.NoopLogger, read, mocks.BaselineWriter(t), chain)

		_, err := exec.Execute(context.Background(), mocks.GenericAccount(), mocks.GenericHash(0))

		var stale failure.StaleTransaction
		require.ErrorAs(t, err, &stale)
		assert.Equal(t, mocks.GenericNonce, stale.TxNonce)
		assert.Equal(t, mocks.GenericNonce+1, stale.ChainNonce)
	})

	t.Run("missing signatures fail as not ready", func(t *testing.T) {
		t.Parallel()

		record := readyRecord()
		delete(record.Signatures, mocks.GenericAddress(2))

		read := mocks.BaselineReader(t)
		read.RecordFunc = func(common.Hash) (*muster.TransactionRecord, error) {
			return record, nil
		}

		exec := executor.New(mocks.NoopLogger, read, mocks.BaselineWriter(t), mocks.BaselineChainClient(t))

		_, err := exec.Execute(context.Background(), mocks.GenericAccount(), mocks.GenericHash(0))

		var notReady failure.NotReady
		require.ErrorAs(t, err, &notReady)
		assert.Equal(t, uint64(1), notReady.Have)
		assert.Equal(t, uint64(2), notReady.Want)
	})

	t.Run("handles submission failure", func(t *testing.T) {
		t.Parallel()

		record := readyRecord()
		read := mocks.BaselineReader(t)
		read.RecordFunc = func(common.Hash) (*muster.TransactionRecord, error) {
			return record, nil
		}

		chain := mocks.BaselineChainClient(t)
		chain.ExecuteFunc = func(context.Context, common.Address, muster.Transaction, []byte) (common.Hash, error) {
			return common.Hash{}, mocks.GenericError
		}

		exec := executor.New(mocks.NoopLogger, read, mocks.BaselineWriter(t), chain)

		_, err := exec.Execute(context.Background(), mocks.GenericAccount(), mocks.GenericHash(0))

		assert.Error(t, err)
		assert.Equal(t, muster.StatusSigned, record.Status)
	})

	t.Run("handles confirmation failure", func(t *testing.T) {
		t.Parallel()

		record := readyRecord()
		read := mocks.BaselineReader(t)
		read.RecordFunc = func(common.Hash) (*muster.TransactionRecord, error) {
			return record, nil
		}

		chain := mocks.BaselineChainClient(t)
		chain.WaitConfirmedFunc = func(context.Context, common.Hash) error {
			return mocks.GenericError
		}

		exec := executor.New(mocks.NoopLogger, read, mocks.BaselineWriter(t), chain)

		_, err := exec.Execute(context.Background(), mocks.GenericAccount(), mocks.GenericHash(0))

		assert.Error(t, err)
	})
}

func TestExecutor_Reject(t *testing.T) {
	t.Run("nominal case", func(t *testing.T) {
		t.Parallel()

		record := mocks.GenericRecord()
		write := mocks.BaselineWriter(t)
		write.MutateRecordFunc = func(_ common.Hash, mutate func(*muster.TransactionRecord) error) error {
			return mutate(record)
		}

		exec := executor.New(mocks.NoopLogger, mocks.BaselineReader(t), write, mocks.BaselineChainClient(t))

		err := exec.Reject(mocks.GenericHash(0))

		require.NoError(t, err)
		assert.Equal(t, muster.StatusRejected, record.Status)
	})

	t.Run("terminal record is refused", func(t *testing.T) {
		t.Parallel()

		record := mocks.GenericRecord()
		record.Status = muster.StatusExecuted
		write := mocks.BaselineWriter(t)
		write.MutateRecordFunc = func(_ common.Hash, mutate func(*muster.TransactionRecord) error) error {
			return mutate(record)
		}

		exec := executor.New(mocks.NoopLogger, mocks.BaselineReader(t), write, mocks.BaselineChainClient(t))

		err := exec.Reject(mocks.GenericHash(0))

		assert.Error(t, err)
		assert.Equal(t, muster.StatusExecuted, record.Status)
	})
}

// readyRecord returns a signed record that meets the baseline chain state:
// two owner signatures and the current nonce.
func readyRecord() *muster.TransactionRecord {
	record := mocks.GenericRecord()
	record.Status = muster.StatusSigned
	for _, index := range []int{1, 2} {
		signature := mocks.GenericSignature(index)
		record.Signatures[signature.Signer] = signature
	}
	return record
}
