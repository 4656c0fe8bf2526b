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

package relay

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-playground/validator/v10"

	"github.com/mustersig/muster/failure"
	"github.com/mustersig/muster/models/muster"
)

// The JSON wire format of the coordination relay. Numbers that can exceed
// 64 bits are string-encoded; byte strings are hex-encoded with a 0x
// prefix. The same types back both the client in this package and the
// self-hosted relay API, so the two cannot drift apart.

// ProposalRequest proposes a transaction with the proposer's signature.
type ProposalRequest struct {
	ChainID     string          `json:"chainId" validate:"required,number"`
	Account     string          `json:"account" validate:"required"`
	TxHash      string          `json:"txHash" validate:"required"`
	Proposer    string          `json:"proposer" validate:"required"`
	Threshold   uint64          `json:"threshold"`
	Transaction WireTransaction `json:"transaction" validate:"required"`
	Signature   WireSignature   `json:"signature" validate:"required"`
}

// SignatureRequest adds one signature to a known transaction.
type SignatureRequest struct {
	Signature WireSignature `json:"signature" validate:"required"`
}

// PendingResponse is one page of pending transactions for an account.
type PendingResponse struct {
	Count   uint               `json:"count"`
	Next    string             `json:"next"`
	Results []TransactionEntry `json:"results"`
}

// TransactionEntry is one transaction as stored by the relay, with all
// signatures collected so far.
type TransactionEntry struct {
	TxHash        string          `json:"txHash" validate:"required"`
	ChainID       string          `json:"chainId" validate:"required,number"`
	Account       string          `json:"account" validate:"required"`
	Proposer      string          `json:"proposer" validate:"required"`
	Threshold     uint64          `json:"threshold"`
	Executed      bool            `json:"executed"`
	Transaction   WireTransaction `json:"transaction" validate:"required"`
	Confirmations []WireSignature `json:"confirmations" validate:"dive"`
}

// WireTransaction is the wire form of the canonical transaction fields.
type WireTransaction struct {
	To             string `json:"to" validate:"required"`
	Value          string `json:"value"`
	Data           string `json:"data"`
	Operation      uint8  `json:"operation"`
	SafeTxGas      string `json:"safeTxGas"`
	BaseGas        string `json:"baseGas"`
	GasPrice       string `json:"gasPrice"`
	GasToken       string `json:"gasToken"`
	RefundReceiver string `json:"refundReceiver"`
	Nonce          string `json:"nonce" validate:"required,number"`
}

// WireSignature is the wire form of one signer's signature.
type WireSignature struct {
	Signer string `json:"signer" validate:"required"`
	Data   string `json:"data" validate:"required"`
}

// ToWireTransaction converts a canonical transaction into its wire form.
// The transaction needs a nonce; drafts are never put on the wire.
func ToWireTransaction(tx muster.Transaction) WireTransaction {
	nonce := ""
	if tx.Nonce != nil {
		nonce = strconv.FormatUint(*tx.Nonce, 10)
	}
	return WireTransaction{
		To:             tx.To.Hex(),
		Value:          bigString(tx.Value),
		Data:           hexutil.Encode(tx.Data),
		Operation:      uint8(tx.Operation),
		SafeTxGas:      bigString(tx.SafeTxGas),
		BaseGas:        bigString(tx.BaseGas),
		GasPrice:       bigString(tx.GasPrice),
		GasToken:       tx.GasToken.Hex(),
		RefundReceiver: tx.RefundReceiver.Hex(),
		Nonce:          nonce,
	}
}

// ToWireSignature converts a signature into its wire form.
func ToWireSignature(signature muster.Signature) WireSignature {
	return WireSignature{
		Signer: signature.Signer.Hex(),
		Data:   hexutil.Encode(signature.Data),
	}
}

// ToWireEntry converts a local transaction record into the wire form a
// relay serves, with the given threshold advertised alongside it.
func ToWireEntry(record muster.TransactionRecord, threshold uint64) TransactionEntry {
	confirmations := make([]WireSignature, 0, len(record.Signatures))
	for _, signature := range record.Signatures.Sorted() {
		confirmations = append(confirmations, ToWireSignature(signature))
	}
	return TransactionEntry{
		TxHash:        record.TxHash.Hex(),
		ChainID:       strconv.FormatUint(record.ChainID, 10),
		Account:       record.Account.Hex(),
		Proposer:      record.CreatedBy.Hex(),
		Threshold:     threshold,
		Executed:      record.Status == muster.StatusExecuted,
		Transaction:   ToWireTransaction(record.Tx),
		Confirmations: confirmations,
	}
}

// FromWireTransaction parses and validates the wire form of a transaction.
// Nothing unvalidated ever reaches engine logic; any malformed field fails
// the conversion.
func FromWireTransaction(wire WireTransaction) (*muster.Transaction, error) {

	if !common.IsHexAddress(wire.To) {
		return nil, fmt.Errorf("malformed target address (to: %s)", wire.To)
	}
	if wire.GasToken != "" && !common.IsHexAddress(wire.GasToken) {
		return nil, fmt.Errorf("malformed gas token address (gas token: %s)", wire.GasToken)
	}
	if wire.RefundReceiver != "" && !common.IsHexAddress(wire.RefundReceiver) {
		return nil, fmt.Errorf("malformed refund receiver address (refund receiver: %s)", wire.RefundReceiver)
	}
	if wire.Operation != uint8(muster.OperationCall) && wire.Operation != uint8(muster.OperationDelegateCall) {
		return nil, fmt.Errorf("unknown operation (operation: %d)", wire.Operation)
	}

	value, err := bigValue("value", wire.Value)
	if err != nil {
		return nil, err
	}
	safeTxGas, err := bigValue("safeTxGas", wire.SafeTxGas)
	if err != nil {
		return nil, err
	}
	baseGas, err := bigValue("baseGas", wire.BaseGas)
	if err != nil {
		return nil, err
	}
	gasPrice, err := bigValue("gasPrice", wire.GasPrice)
	if err != nil {
		return nil, err
	}

	var data []byte
	if wire.Data != "" && wire.Data != "0x" {
		data, err = hexutil.Decode(wire.Data)
		if err != nil {
			return nil, fmt.Errorf("malformed call data: %w", err)
		}
	}

	nonce, err := strconv.ParseUint(wire.Nonce, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed nonce (nonce: %s): %w", wire.Nonce, err)
	}

	tx := muster.Transaction{
		To:             common.HexToAddress(wire.To),
		Value:          value,
		Data:           data,
		Operation:      muster.Operation(wire.Operation),
		SafeTxGas:      safeTxGas,
		BaseGas:        baseGas,
		GasPrice:       gasPrice,
		GasToken:       common.HexToAddress(wire.GasToken),
		RefundReceiver: common.HexToAddress(wire.RefundReceiver),
		Nonce:          &nonce,
	}

	return &tx, nil
}

// FromWireEntry parses and validates one relay transaction entry into its
// typed form.
func FromWireEntry(validate *validator.Validate, entry TransactionEntry) (*muster.RemoteTransaction, error) {

	err := validate.Struct(entry)
	if err != nil {
		return nil, failure.InvalidTransaction{
			Description: failure.NewDescription("invalid relay entry",
				failure.WithErr(err),
			),
		}
	}

	chainID, err := strconv.ParseUint(entry.ChainID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed chain identifier (chain: %s): %w", entry.ChainID, err)
	}
	if !common.IsHexAddress(entry.Account) {
		return nil, fmt.Errorf("malformed account address (account: %s)", entry.Account)
	}
	if !common.IsHexAddress(entry.Proposer) {
		return nil, fmt.Errorf("malformed proposer address (proposer: %s)", entry.Proposer)
	}

	tx, err := FromWireTransaction(entry.Transaction)
	if err != nil {
		return nil, failure.InvalidTransaction{
			Description: failure.NewDescription("invalid relay transaction",
				failure.WithErr(err),
			),
			ChainID: chainID,
			Account: common.HexToAddress(entry.Account),
		}
	}

	confirmations := make([]muster.Signature, 0, len(entry.Confirmations))
	for _, confirmation := range entry.Confirmations {
		if !common.IsHexAddress(confirmation.Signer) {
			return nil, fmt.Errorf("malformed signer address (signer: %s)", confirmation.Signer)
		}
		data, err := hexutil.Decode(confirmation.Data)
		if err != nil {
			return nil, fmt.Errorf("malformed signature data (signer: %s): %w", confirmation.Signer, err)
		}
		confirmations = append(confirmations, muster.Signature{
			Signer: common.HexToAddress(confirmation.Signer),
			Data:   data,
		})
	}

	remote := muster.RemoteTransaction{
		TxHash:        common.HexToHash(entry.TxHash),
		ChainID:       chainID,
		Account:       common.HexToAddress(entry.Account),
		Tx:            *tx,
		Confirmations: confirmations,
		Threshold:     entry.Threshold,
		Proposer:      common.HexToAddress(entry.Proposer),
		Executed:      entry.Executed,
	}

	return &remote, nil
}

func bigString(value *big.Int) string {
	if value == nil {
		return "0"
	}
	return value.String()
}

func bigValue(name string, raw string) (*big.Int, error) {
	if raw == "" {
		return new(big.Int), nil
	}
	value, ok := new(big.Int).SetString(raw, 10)
	if !ok || value.Sign() < 0 {
		return nil, fmt.Errorf("malformed numeric field (field: %s, value: %s)", name, raw)
	}
	return value, nil
}
