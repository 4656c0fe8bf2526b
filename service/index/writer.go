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

package index

import (
	"errors"
	"fmt"
	"sync"

	"github.com/OneOfOne/xxhash"
	"github.com/dgraph-io/badger/v2"
	"github.com/ethereum/go-ethereum/common"

	"github.com/mustersig/muster/models/muster"
	"github.com/mustersig/muster/service/storage"
)

// Writer writes accounts and transaction records to the local record
// repository. Mutations of the same transaction record are serialized
// through a set of striped locks, selected by hashing the transaction hash,
// so concurrent read-modify-write cycles never lose updates.
type Writer struct {
	db      *badger.DB
	lib     *storage.Library
	stripes []sync.Mutex
}

// NewWriter creates a new index writer on the given database, using the
// given storage library.
func NewWriter(db *badger.DB, lib *storage.Library, options ...Option) *Writer {

	cfg := DefaultConfig
	for _, option := range options {
		option(&cfg)
	}

	w := Writer{
		db:      db,
		lib:     lib,
		stripes: make([]sync.Mutex, cfg.LockStripes),
	}

	return &w
}

// SaveAccount persists the given account.
func (w *Writer) SaveAccount(account *muster.Account) error {
	return w.db.Update(w.lib.SaveAccount(account))
}

// SaveRecord persists the given transaction record and indexes it under its
// account.
func (w *Writer) SaveRecord(record *muster.TransactionRecord) error {
	return w.db.Update(storage.Combine(
		w.lib.SaveRecord(record),
		w.lib.IndexRecordForAccount(record.ChainID, record.Account, record.TxHash),
	))
}

// MutateRecord runs the given mutation on the record with the given hash as
// a serialized read-modify-write cycle. Mutations of the same hash never run
// concurrently. A mutation that tries to move a record out of a terminal
// status is refused and nothing is written.
func (w *Writer) MutateRecord(txHash common.Hash, mutate func(*muster.TransactionRecord) error) error {

	stripe := xxhash.Checksum64(txHash[:]) % uint64(len(w.stripes))
	w.stripes[stripe].Lock()
	defer w.stripes[stripe].Unlock()

	return w.db.Update(func(tx *badger.Txn) error {

		var record muster.TransactionRecord
		err := w.lib.RetrieveRecord(txHash, &record)(tx)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return muster.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("could not retrieve record: %w", err)
		}

		before := record.Status
		err = mutate(&record)
		if err != nil {
			return err
		}

		if before.Terminal() && record.Status != before {
			return fmt.Errorf("invalid status transition (from: %s, to: %s)", before, record.Status)
		}

		err = w.lib.SaveRecord(&record)(tx)
		if err != nil {
			return fmt.Errorf("could not save record: %w", err)
		}

		return nil
	})
}
