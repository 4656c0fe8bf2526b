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

type Writer struct {
	SaveAccountFunc  func(account *muster.Account) error
	SaveRecordFunc   func(record *muster.TransactionRecord) error
	MutateRecordFunc func(txHash common.Hash, mutate func(*muster.TransactionRecord) error) error
}

func BaselineWriter(t *testing.T) *Writer {
	t.Helper()

	w := Writer{
		SaveAccountFunc: func(*muster.Account) error {
			return nil
		},
		SaveRecordFunc: func(*muster.TransactionRecord) error {
			return nil
		},
		MutateRecordFunc: func(_ common.Hash, mutate func(*muster.TransactionRecord) error) error {
			return mutate(GenericRecord())
		},
	}

	return &w
}

func (w *Writer) SaveAccount(account *muster.Account) error {
	return w.SaveAccountFunc(account)
}

func (w *Writer) SaveRecord(record *muster.TransactionRecord) error {
	return w.SaveRecordFunc(record)
}

func (w *Writer) MutateRecord(txHash common.Hash, mutate func(*muster.TransactionRecord) error) error {
	return w.MutateRecordFunc(txHash, mutate)
}
