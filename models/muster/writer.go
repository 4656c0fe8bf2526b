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

package muster

import (
	"github.com/ethereum/go-ethereum/common"
)

// Writer represents something that can write to the local record repository.
// MutateRecord serializes concurrent read-modify-write cycles on the same
// transaction hash, so collaborating components never clobber each other's
// signature updates.
type Writer interface {
	SaveAccount(account *Account) error
	SaveRecord(record *TransactionRecord) error

	MutateRecord(txHash common.Hash, mutate func(*TransactionRecord) error) error
}
