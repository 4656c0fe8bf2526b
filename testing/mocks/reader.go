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
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mustersig/muster/models/muster"
)

type Reader struct {
	AccountFunc  func(chainID uint64, address common.Address) (*muster.Account, error)
	AccountsFunc func(chainID uint64) ([]*muster.Account, error)
	RecordFunc   func(txHash common.Hash) (*muster.TransactionRecord, error)
	RecordsFunc  func(chainID uint64, account common.Address) ([]*muster.TransactionRecord, error)
	PendingFunc  func(chainID uint64, account common.Address) ([]*muster.TransactionRecord, error)
}

func BaselineReader(t *testing.T) *Reader {
	t.Helper()

	r := Reader{
		AccountFunc: func(uint64, common.Address) (*muster.Account, error) {
			account := GenericAccount()
			return &account, nil
		},
		AccountsFunc: func(uint64) ([]*muster.Account, error) {
			account := GenericAccount()
			return []*muster.Account{&account}, nil
		},
		RecordFunc: func(common.Hash) (*muster.TransactionRecord, error) {
			return GenericRecord(), nil
		},
		RecordsFunc: func(uint64, common.Address) ([]*muster.TransactionRecord, error) {
			return []*muster.TransactionRecord{GenericRecord()}, nil
		},
		PendingFunc: func(uint64, common.Address) ([]*muster.TransactionRecord, error) {
			return []*muster.TransactionRecord{GenericRecord()}, nil
		},
	}

	return &r
}

func (r *Reader) Account(chainID uint64, address common.Address) (*muster.Account, error) {
	return r.AccountFunc(chainID, address)
}

func (r *Reader) Accounts(chainID uint64) ([]*muster.Account, error) {
	return r.AccountsFunc(chainID)
}

func (r *Reader) Record(txHash common.Hash) (*muster.TransactionRecord, error) {
	return r.RecordFunc(txHash)
}

func (r *Reader) Records(chainID uint64, account common.Address) ([]*muster.TransactionRecord, error) {
	return r.RecordsFunc(chainID, account)
}

func (r *Reader) Pending(chainID uint64, account common.Address) ([]*muster.TransactionRecord, error) {
	return r.PendingFunc(chainID, account)
}
