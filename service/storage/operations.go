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

package storage

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"
	"github.com/ethereum/go-ethereum/common"

	"github.com/mustersig/muster/models/muster"
)

// SaveAccount is an operation that writes the given account, keyed by its
// chain and address.
func (l *Library) SaveAccount(account *muster.Account) func(*badger.Txn) error {
	return l.save(EncodeKey(PrefixAccount, account.ChainID, account.Address), account)
}

// SaveRecord is an operation that writes the given transaction record, keyed
// by its canonical transaction hash.
func (l *Library) SaveRecord(record *muster.TransactionRecord) func(*badger.Txn) error {
	return l.save(EncodeKey(PrefixRecord, record.TxHash), record)
}

// IndexRecordForAccount is an operation that indexes the given transaction
// hash under the account it belongs to, so that all records of one account
// can be listed.
func (l *Library) IndexRecordForAccount(chainID uint64, account common.Address, txHash common.Hash) func(*badger.Txn) error {
	return l.save(EncodeKey(PrefixRecordsForAccount, chainID, account, txHash), txHash)
}

// RetrieveAccount retrieves the account with the given chain and address.
func (l *Library) RetrieveAccount(chainID uint64, address common.Address, account *muster.Account) func(*badger.Txn) error {
	return l.retrieve(EncodeKey(PrefixAccount, chainID, address), account)
}

// RetrieveRecord retrieves the transaction record with the given hash.
func (l *Library) RetrieveRecord(txHash common.Hash, record *muster.TransactionRecord) func(*badger.Txn) error {
	return l.retrieve(EncodeKey(PrefixRecord, txHash), record)
}

// IterateAccounts steps through all accounts stored for the given chain and
// calls the given callback for each of them.
func (l *Library) IterateAccounts(chainID uint64, process func(*muster.Account) error) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {

		prefix := EncodeKey(PrefixAccount, chainID)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			// The account value has to be allocated inside the loop so that
			// each callback sees its own independent memory location.
			var account muster.Account
			err := it.Item().Value(func(val []byte) error {
				return l.codec.Unmarshal(val, &account)
			})
			if err != nil {
				return fmt.Errorf("could not unmarshal account: %w", err)
			}

			err = process(&account)
			if err != nil {
				return fmt.Errorf("could not process account (address: %x): %w", account.Address, err)
			}
		}

		return nil
	}
}

// LookupRecordsForAccount retrieves the hashes of all transaction records
// indexed for the given account.
func (l *Library) LookupRecordsForAccount(chainID uint64, account common.Address, txHashes *[]common.Hash) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {

		prefix := EncodeKey(PrefixRecordsForAccount, chainID, account)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var txHash common.Hash
			err := it.Item().Value(func(val []byte) error {
				return l.codec.Unmarshal(val, &txHash)
			})
			if err != nil {
				return fmt.Errorf("could not unmarshal transaction hash: %w", err)
			}

			*txHashes = append(*txHashes, txHash)
		}

		return nil
	}
}
