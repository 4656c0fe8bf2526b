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

package failure

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// StaleTransaction is the error for a transaction whose nonce has already
// been consumed on-chain. The transaction can never execute, no matter how
// many signatures it gathers.
type StaleTransaction struct {
	Description Description
	TxHash      common.Hash
	TxNonce     uint64
	ChainNonce  uint64
}

// Error implements the error interface.
func (s StaleTransaction) Error() string {
	return fmt.Sprintf("transaction nonce already used (hash: %s, transaction nonce: %d, chain nonce: %d): %s", s.TxHash.Hex(), s.TxNonce, s.ChainNonce, s.Description)
}
