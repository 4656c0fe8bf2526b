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

// Account describes a smart-contract multisignature account on an EVM
// network. The address is the predicted deployment address until the account
// contract has been deployed on-chain. Owners and threshold are local copies
// of the contract state and can go stale; operations that depend on them for
// correctness re-validate against live chain state.
type Account struct {
	ChainID   uint64           `json:"chainId"`
	Address   common.Address   `json:"address"`
	Version   string           `json:"version"`
	Owners    []common.Address `json:"owners"`
	Threshold uint64           `json:"threshold"`
	Deployed  bool             `json:"deployed"`
	SaltNonce uint64           `json:"saltNonce"`
}

// HasOwner checks whether the given address is part of the account's local
// owner set.
func (a Account) HasOwner(address common.Address) bool {
	for _, owner := range a.Owners {
		if owner == address {
			return true
		}
	}
	return false
}

// DeploymentConfig describes the constructor state of a multisig account
// contract, which is everything address derivation depends on besides the
// salt nonce.
type DeploymentConfig struct {
	ChainID   uint64
	Version   string
	Owners    []common.Address
	Threshold uint64
}
