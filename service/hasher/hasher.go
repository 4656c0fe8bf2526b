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

// Package hasher derives the canonical identity hash of a multisig account
// transaction. The encoding follows the typed structured data scheme the
// account contracts verify on-chain, so the hash computed here is exactly
// the digest owners sign and the contract checks signatures against.
package hasher

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/mustersig/muster/failure"
	"github.com/mustersig/muster/models/muster"
)

// Type hashes of the structured data scheme, computed from the literal type
// strings. Account contract versions before 1.3.0 use a signing domain
// without the chain identifier.
var (
	domainTypeHash       = crypto.Keccak256Hash([]byte("EIP712Domain(uint256 chainId,address verifyingContract)"))
	legacyDomainTypeHash = crypto.Keccak256Hash([]byte("EIP712Domain(address verifyingContract)"))
	txTypeHash           = crypto.Keccak256Hash([]byte("SafeTx(address to,uint256 value,bytes data,uint8 operation,uint256 safeTxGas,uint256 baseGas,uint256 gasPrice,address gasToken,address refundReceiver,uint256 nonce)"))
)

// Hasher produces the canonical, domain-separated encoding of a transaction
// scoped to its chain and account, and derives the identity hash from it.
// Both operations are pure: identical inputs always yield identical outputs.
type Hasher struct{}

// New creates a new transaction hasher.
func New() *Hasher {
	h := Hasher{}
	return &h
}

// Encode returns the canonical encoding of the given transaction for the
// given account, as verified by the account contract: the two-byte typed
// data preamble, followed by the domain separator and the hash of the
// transaction struct.
func (h *Hasher) Encode(account muster.Account, tx muster.Transaction) ([]byte, error) {

	if tx.Nonce == nil {
		return nil, failure.InvalidTransaction{
			Description: failure.NewDescription("transaction nonce not set"),
			ChainID:     account.ChainID,
			Account:     account.Address,
		}
	}
	numerics := []struct {
		name  string
		value *big.Int
	}{
		{"value", tx.Value},
		{"safeTxGas", tx.SafeTxGas},
		{"baseGas", tx.BaseGas},
		{"gasPrice", tx.GasPrice},
	}
	for _, numeric := range numerics {
		if numeric.value != nil && numeric.value.Sign() < 0 {
			return nil, failure.InvalidTransaction{
				Description: failure.NewDescription("negative numeric field",
					failure.WithString("field", numeric.name),
					failure.WithString("value", numeric.value.String()),
				),
				ChainID: account.ChainID,
				Account: account.Address,
			}
		}
	}
	if tx.Operation != muster.OperationCall && tx.Operation != muster.OperationDelegateCall {
		return nil, failure.InvalidTransaction{
			Description: failure.NewDescription("unknown operation",
				failure.WithInt("operation", int(tx.Operation)),
			),
			ChainID: account.ChainID,
			Account: account.Address,
		}
	}

	structHash := crypto.Keccak256(
		txTypeHash[:],
		padAddress(tx.To),
		padBig(tx.Value),
		crypto.Keccak256(tx.Data),
		padBig(big.NewInt(int64(tx.Operation))),
		padBig(tx.SafeTxGas),
		padBig(tx.BaseGas),
		padBig(tx.GasPrice),
		padAddress(tx.GasToken),
		padAddress(tx.RefundReceiver),
		padBig(new(big.Int).SetUint64(*tx.Nonce)),
	)

	domainSeparator := h.domainSeparator(account)

	encoding := make([]byte, 0, 2+2*common.HashLength)
	encoding = append(encoding, 0x19, 0x01)
	encoding = append(encoding, domainSeparator...)
	encoding = append(encoding, structHash...)

	return encoding, nil
}

// Hash returns the canonical identity hash of the given transaction for the
// given account. Any change to any transaction field, the account address or
// the chain changes the hash.
func (h *Hasher) Hash(account muster.Account, tx muster.Transaction) (common.Hash, error) {
	encoding, err := h.Encode(account, tx)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(encoding), nil
}

func (h *Hasher) domainSeparator(account muster.Account) []byte {

	// Versions with a legacy domain bind the hash to the account address
	// only. Unknown versions get the current domain, which includes the
	// chain identifier.
	params, ok := muster.ParamsForVersion(account.Version)
	if ok && params.LegacyDomain {
		return crypto.Keccak256(
			legacyDomainTypeHash[:],
			padAddress(account.Address),
		)
	}

	return crypto.Keccak256(
		domainTypeHash[:],
		padBig(new(big.Int).SetUint64(account.ChainID)),
		padAddress(account.Address),
	)
}

func padAddress(address common.Address) []byte {
	return common.LeftPadBytes(address.Bytes(), common.HashLength)
}

func padBig(value *big.Int) []byte {
	if value == nil {
		return make([]byte, common.HashLength)
	}
	return common.BigToHash(value).Bytes()
}
