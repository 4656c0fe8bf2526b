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

	"github.com/dgraph-io/badger/v2"
	"github.com/ethereum/go-ethereum/common"

	"github.com/mustersig/muster/models/muster"
	"github.com/mustersig/muster/service/storage"
)

// Reader reads accounts and transaction records from the local record
// repository.
type Reader struct {
	db  *badger.DB
	lib *storage.Library
}

// NewReader creates a new index reader on the given database, using the
// given storage library.
func NewReader(db *badger.DB, lib *storage.Library) *Reader {

	r := Reader{
		db:  db,
		lib: lib,
	}

	return &r
}

// Account returns the account with the given chain and address.
func (r *Reader) Account(chainID uint64, address common.Address) (*muster.Account, error) {
	var account muster.Account
	err := r.db.View(r.lib.RetrieveAccount(chainID, address, &account))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, muster.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Accounts returns all accounts stored for the given chain.
func (r *Reader) Accounts(chainID uint64) ([]*muster.Account, error) {
	var accounts []*muster.Account
	err := r.db.View(r.lib.IterateAccounts(chainID, func(account *muster.Account) error {
		accounts = append(accounts, account)
		return nil
	}))
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// Record returns the transaction record with the given hash.
func (r *Reader) Record(txHash common.Hash) (*muster.TransactionRecord, error) {
	var record muster.TransactionRecord
	err := r.db.View(r.lib.RetrieveRecord(txHash, &record))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, muster.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Records returns all transaction records stored for the given account.
func (r *Reader) Records(chainID uint64, account common.Address) ([]*muster.TransactionRecord, error) {
	var records []*muster.TransactionRecord
	err := r.db.View(func(tx *badger.Txn) error {
		var txHashes []common.Hash
		err := r.lib.LookupRecordsForAccount(chainID, account, &txHashes)(tx)
		if err != nil {
			return fmt.Errorf("could not look up records for account: %w", err)
		}
		for _, txHash := range txHashes {
			var record muster.TransactionRecord
			err := r.lib.RetrieveRecord(txHash, &record)(tx)
			if err != nil {
				return fmt.Errorf("could not retrieve record (hash: %x): %w", txHash, err)
			}
			records = append(records, &record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Pending returns the transaction records of the given account that are
// still live, meaning neither executed nor rejected.
func (r *Reader) Pending(chainID uint64, account common.Address) ([]*muster.TransactionRecord, error) {
	records, err := r.Records(chainID, account)
	if err != nil {
		return nil, err
	}
	pending := make([]*muster.TransactionRecord, 0, len(records))
	for _, record := range records {
		if record.Status.Terminal() {
			continue
		}
		pending = append(pending, record)
	}
	return pending, nil
}
