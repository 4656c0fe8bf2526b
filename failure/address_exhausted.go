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
)

// AddressExhausted is the error for an address search that found no free
// deployment address within its attempt ceiling. It is terminal for the
// given account configuration.
type AddressExhausted struct {
	Description Description
	Attempts    uint64
}

// Error implements the error interface.
func (a AddressExhausted) Error() string {
	return fmt.Sprintf("no free deployment address (attempts: %d): %s", a.Attempts, a.Description)
}
