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

// MissingNonce is the error for an operation that requires a transaction
// with a fixed execution order, such as hashing or sharing it, while the
// transaction is still a draft without a nonce.
type MissingNonce struct {
	Description Description
	Account     common.Address
}

// Error implements the error interface.
func (m MissingNonce) Error() string {
	return fmt.Sprintf("transaction nonce not set (account: %s): %s", m.Account.Hex(), m.Description)
}
