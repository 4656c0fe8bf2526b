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

// Reader represents something that can read from the local record repository.
type Reader interface {
	Account(chainID uint64, address common.Address) (*Account, error)
	Accounts(chainID uint64) ([]*Account, error)

	Record(txHash common.Hash) (*TransactionRecord, error)
	Records(chainID uint64, account common.Address) ([]*TransactionRecord, error)
	Pending(chainID uint64, account common.Address) ([]*TransactionRecord, error)
}
