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
	"encoding/binary"
	"errors"
	"io"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/mustersig/muster/models/muster"
)

// Global variables that can be used for testing. They are non-nil valid
// values for the types commonly needed to test engine components.
var (
	NoopLogger = zerolog.New(io.Discard)

	GenericError = errors.New("dummy error")

	GenericChainID = uint64(5)

	GenericNonce = uint64(7)

	GenericBytes = []byte(`test`)
)

// GenericAddress returns a distinct valid address for each index.
func GenericAddress(index int) common.Address {
	var address common.Address
	address[0] = 0x42
	binary.BigEndian.PutUint64(address[12:], uint64(index+1))
	return address
}

// GenericHash returns a distinct valid hash for each index.
func GenericHash(index int) common.Hash {
	var hash common.Hash
	hash[0] = 0x2a
	binary.BigEndian.PutUint64(hash[24:], uint64(index+1))
	return hash
}

// GenericSignature returns a distinct valid signature for each index, with
// the signer matching GenericAddress of the same index.
func GenericSignature(index int) muster.Signature {
	data := make([]byte, 65)
	for i := range data {
		data[i] = byte(index + 1)
	}
	return muster.Signature{
		Signer: GenericAddress(index),
		Data:   data,
	}
}

// GenericAccount returns a valid deployed account with three owners and a
// threshold of two.
func GenericAccount() muster.Account {
	return muster.Account{
		ChainID: GenericChainID,
		Address: GenericAddress(0),
		Version: muster.LatestVersion,
		Owners: []common.Address{
			GenericAddress(1),
			GenericAddress(2),
			GenericAddress(3),
		},
		Threshold: 2,
		Deployed:  true,
	}
}

// GenericTransaction returns a valid transaction with a fixed nonce.
func GenericTransaction() muster.Transaction {
	nonce := GenericNonce
	return muster.Transaction{
		To:        GenericAddress(4),
		Value:     big.NewInt(1_000_000),
		Data:      []byte{0xde, 0xad, 0xbe, 0xef},
		Operation: muster.OperationCall,
		Nonce:     &nonce,
	}
}

// GenericRecord returns a valid pending transaction record without any
// signatures.
func GenericRecord() *muster.TransactionRecord {
	return &muster.TransactionRecord{
		TxHash:     GenericHash(0),
		ChainID:    GenericChainID,
		Account:    GenericAddress(0),
		Tx:         GenericTransaction(),
		Signatures: muster.SignatureSet{},
		Status:     muster.StatusPending,
		CreatedBy:  GenericAddress(1),
		CreatedAt:  time.Date(1972, 11, 12, 13, 14, 15, 16, time.UTC),
	}
}

// GenericRemoteTransaction returns a valid relay entry for the generic
// account and transaction, carrying the given signatures.
func GenericRemoteTransaction(txHash common.Hash, signatures ...muster.Signature) muster.RemoteTransaction {
	return muster.RemoteTransaction{
		TxHash:        txHash,
		ChainID:       GenericChainID,
		Account:       GenericAddress(0),
		Tx:            GenericTransaction(),
		Confirmations: signatures,
		Threshold:     2,
		Proposer:      GenericAddress(1),
	}
}
