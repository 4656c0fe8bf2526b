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

// BatchUnconfirmed is the error for a batch file with multiple calls when
// the caller has not confirmed importing them as independent transactions.
// Atomic multi-call execution is not supported, so the caller has to opt in
// to the changed semantics explicitly.
type BatchUnconfirmed struct {
	Description Description
	Calls       int
}

// Error implements the error interface.
func (b BatchUnconfirmed) Error() string {
	return fmt.Sprintf("multi-call batch needs explicit confirmation (calls: %d): %s", b.Calls, b.Description)
}
