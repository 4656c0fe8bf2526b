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

// NotReady is the error for an execution attempt on a transaction that has
// not collected enough valid signatures for the account's live threshold.
type NotReady struct {
	Description Description
	TxHash      common.Hash
	Have        uint64
	Want        uint64
}

// Error implements the error interface.
func (n NotReady) Error() string {
	return fmt.Sprintf("not enough signatures (hash: %s, have: %d, want: %d): %s", n.TxHash.Hex(), n.Have, n.Want, n.Description)
}
