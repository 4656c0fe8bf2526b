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

// MissingCallData is the error for an imported call that carries neither
// explicit call data nor a contract method from which call data could be
// encoded.
type MissingCallData struct {
	Description Description
	Index       int
}

// Error implements the error interface.
func (m MissingCallData) Error() string {
	return fmt.Sprintf("call data missing (call index: %d): %s", m.Index, m.Description)
}
