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

// NotAnOwner is the error for a signature whose signer is not part of the
// account's live owner set at validation time.
type NotAnOwner struct {
	Description Description
	Signer      common.Address
	Account     common.Address
}

// Error implements the error interface.
func (n NotAnOwner) Error() string {
	return fmt.Sprintf("signer is not an account owner (signer: %s, account: %s): %s", n.Signer.Hex(), n.Account.Hex(), n.Description)
}
