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

// InvalidTransaction is the error for a transaction whose contents fail
// validation, such as negative numeric fields or a mismatched canonical
// hash. It is never resolved by retrying.
type InvalidTransaction struct {
	Description Description
	ChainID     uint64
	Account     common.Address
}

// Error implements the error interface.
func (i InvalidTransaction) Error() string {
	return fmt.Sprintf("invalid transaction (chain: %d, account: %s): %s", i.ChainID, i.Account.Hex(), i.Description)
}
