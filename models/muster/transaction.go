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
	"bytes"
	"math/big"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Operation selects how the account contract dispatches the inner call.
type Operation uint8

// Supported call operations.
const (
	OperationCall         Operation = 0
	OperationDelegateCall Operation = 1
)

// Transaction describes one transaction to be executed by a multisig
// account. The nonce is a pointer because a transaction can exist as a draft
// before its execution order is fixed; computing the canonical hash requires
// the nonce to be set.
type Transaction struct {
	To             common.Address `json:"to"`
	Value          *big.Int       `json:"value"`
	Data           []byte         `json:"data"`
	Operation      Operation      `json:"operation"`
	SafeTxGas      *big.Int       `json:"safeTxGas"`
	BaseGas        *big.Int       `json:"baseGas"`
	GasPrice       *big.Int       `json:"gasPrice"`
	GasToken       common.Address `json:"gasToken"`
	RefundReceiver common.Address `json:"refundReceiver"`
	Nonce          *uint64        `json:"nonce"`
}

// Signature is one owner's approval of a transaction hash. The data is the
// 65-byte r || s || v encoding the account contract verifies.
type Signature struct {
	Signer common.Address `json:"signer"`
	Data   []byte         `json:"data"`
}

// SignatureSet holds at most one signature per signer.
type SignatureSet map[common.Address]Signature

// Sorted returns the signatures ordered by ascending signer address, which
// is both the deterministic iteration order and the order the account
// contract requires for verification.
func (s SignatureSet) Sorted() []Signature {
	signatures := make([]Signature, 0, len(s))
	for _, signature := range s {
		signatures = append(signatures, signature)
	}
	sort.Slice(signatures, func(i int, j int) bool {
		return bytes.Compare(signatures[i].Signer[:], signatures[j].Signer[:]) < 0
	})
	return signatures
}

// Status tracks the local lifecycle of a transaction record.
type Status string

// Transaction record statuses. Pending and signed are live states; executed
// and rejected are terminal.
const (
	StatusPending  Status = "pending"
	StatusSigned   Status = "signed"
	StatusExecuted Status = "executed"
	StatusRejected Status = "rejected"
)

// Terminal checks whether the status permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusExecuted || s == StatusRejected
}

// TransactionRecord is the unit of local persistence: a transaction, the
// signatures collected for it so far and its lifecycle metadata, keyed by
// the canonical transaction hash.
type TransactionRecord struct {
	TxHash          common.Hash    `json:"txHash"`
	ChainID         uint64         `json:"chainId"`
	Account         common.Address `json:"account"`
	Tx              Transaction    `json:"tx"`
	Signatures      SignatureSet   `json:"signatures"`
	Status          Status         `json:"status"`
	CreatedBy       common.Address `json:"createdBy"`
	CreatedAt       time.Time      `json:"createdAt"`
	ExecutedAt      *time.Time     `json:"executedAt,omitempty"`
	ExecutionTxHash *common.Hash   `json:"executionTxHash,omitempty"`
}

// RemoteTransaction is the validated, typed form of a pending transaction
// entry as served by a coordination relay.
type RemoteTransaction struct {
	TxHash        common.Hash
	ChainID       uint64
	Account       common.Address
	Tx            Transaction
	Confirmations []Signature
	Threshold     uint64
	Proposer      common.Address
	Executed      bool
}
