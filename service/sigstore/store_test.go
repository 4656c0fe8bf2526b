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

package sigstore_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mustersig/muster/models/muster"
	"github.com/mustersig/muster/service/sigstore"
	"github.com/mustersig/muster/testing/mocks"
)

func TestStore_Add(t *testing.T) {
	t.Run("new signer is added and advances the record", func(t *testing.T) {
		t.Parallel()

		record := mocks.GenericRecord()
		write := mocks.BaselineWriter(t)
		write.MutateRecordFunc = func(_ common.Hash, mutate func(*muster.TransactionRecord) error) error {
			return mutate(record)
		}

		store := sigstore.New(mocks.NoopLogger, mocks.BaselineReader(t), write)

		added, err := store.Add(mocks.GenericHash(0), mocks.GenericSignature(1))

		require.NoError(t, err)
		assert.True(t, added)
		assert.Len(t, record.Signatures, 1)
		assert.Equal(t, muster.StatusSigned, record.Status)
	})

	t.Run("known signer is replaced, not duplicated", func(t *testing.T) {
		t.Parallel()

		record := mocks.GenericRecord()
		signature := mocks.GenericSignature(1)
		record.Signatures[signature.Signer] = signature

		write := mocks.BaselineWriter(t)
		write.MutateRecordFunc = func(_ common.Hash, mutate func(*muster.TransactionRecord) error) error {
			return mutate(record)
		}

		store := sigstore.New(mocks.NoopLogger, mocks.BaselineReader(t), write)

		added, err := store.Add(mocks.GenericHash(0), signature)

		require.NoError(t, err)
		assert.False(t, added)
		assert.Len(t, record.Signatures, 1)
	})

	t.Run("handles writer failure", func(t *testing.T) {
		t.Parallel()

		write := mocks.BaselineWriter(t)
		write.MutateRecordFunc = func(common.Hash, func(*muster.TransactionRecord) error) error {
			return mocks.GenericError
		}

		store := sigstore.New(mocks.NoopLogger, mocks.BaselineReader(t), write)

		_, err := store.Add(mocks.GenericHash(0), mocks.GenericSignature(1))

		assert.Error(t, err)
	})
}

func TestStore_Merge(t *testing.T) {
	t.Run("mixed known and new signers", func(t *testing.T) {
		t.Parallel()

		record := mocks.GenericRecord()
		known := mocks.GenericSignature(1)
		record.Signatures[known.Signer] = known

		write := mocks.BaselineWriter(t)
		write.MutateRecordFunc = func(_ common.Hash, mutate func(*muster.TransactionRecord) error) error {
			return mutate(record)
		}

		store := sigstore.New(mocks.NoopLogger, mocks.BaselineReader(t), write)

		result, err := store.Merge(mocks.GenericHash(0), []muster.Signature{known, mocks.GenericSignature(2)})

		require.NoError(t, err)
		assert.Len(t, result.Added, 1)
		assert.Len(t, result.Skipped, 1)
		assert.Len(t, record.Signatures, 2)
	})

	t.Run("merging the same set twice adds nothing", func(t *testing.T) {
		t.Parallel()

		record := mocks.GenericRecord()
		write := mocks.BaselineWriter(t)
		write.MutateRecordFunc = func(_ common.Hash, mutate func(*muster.TransactionRecord) error) error {
			return mutate(record)
		}

		store := sigstore.New(mocks.NoopLogger, mocks.BaselineReader(t), write)

		incoming := []muster.Signature{mocks.GenericSignature(1), mocks.GenericSignature(2)}

		first, err := store.Merge(mocks.GenericHash(0), incoming)
		require.NoError(t, err)
		assert.Len(t, first.Added, 2)

		second, err := store.Merge(mocks.GenericHash(0), incoming)
		require.NoError(t, err)
		assert.Empty(t, second.Added)
		assert.Len(t, second.Skipped, 2)
		assert.Len(t, record.Signatures, 2)
	})

	t.Run("conflicting bytes for a known signer keep the existing signature", func(t *testing.T) {
		t.Parallel()

		record := mocks.GenericRecord()
		existing := mocks.GenericSignature(1)
		record.Signatures[existing.Signer] = existing

		write := mocks.BaselineWriter(t)
		write.MutateRecordFunc = func(_ common.Hash, mutate func(*muster.TransactionRecord) error) error {
			return mutate(record)
		}

		store := sigstore.New(mocks.NoopLogger, mocks.BaselineReader(t), write)

		conflicting := muster.Signature{
			Signer: existing.Signer,
			Data:   []byte{0xff, 0xff},
		}

		result, err := store.Merge(mocks.GenericHash(0), []muster.Signature{conflicting})

		require.NoError(t, err)
		assert.Empty(t, result.Added)
		assert.Len(t, result.Skipped, 1)
		assert.Equal(t, existing.Data, record.Signatures[existing.Signer].Data)
	})
}

func TestStore_List(t *testing.T) {
	t.Run("signatures come back ordered by signer", func(t *testing.T) {
		t.Parallel()

		record := mocks.GenericRecord()
		for _, index := range []int{3, 1, 2} {
			signature := mocks.GenericSignature(index)
			record.Signatures[signature.Signer] = signature
		}

		read := mocks.BaselineReader(t)
		read.RecordFunc = func(common.Hash) (*muster.TransactionRecord, error) {
			return record, nil
		}

		store := sigstore.New(mocks.NoopLogger, read, mocks.BaselineWriter(t))

		signatures, err := store.List(mocks.GenericHash(0))

		require.NoError(t, err)
		require.Len(t, signatures, 3)
		assert.Equal(t, mocks.GenericAddress(1), signatures[0].Signer)
		assert.Equal(t, mocks.GenericAddress(2), signatures[1].Signer)
		assert.Equal(t, mocks.GenericAddress(3), signatures[2].Signer)
	})

	t.Run("handles reader failure", func(t *testing.T) {
		t.Parallel()

		read := mocks.BaselineReader(t)
		read.RecordFunc = func(common.Hash) (*muster.TransactionRecord, error) {
			return nil, mocks.GenericError
		}

		store := sigstore.New(mocks.NoopLogger, read, mocks.BaselineWriter(t))

		_, err := store.List(mocks.GenericHash(0))

		assert.Error(t, err)
	})
}
