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

// MissingArgument is the error for a contract method call that lacks the
// value of one of its declared parameters.
type MissingArgument struct {
	Description Description
	Method      string
	Param       string
}

// Error implements the error interface.
func (m MissingArgument) Error() string {
	return fmt.Sprintf("method argument missing (method: %s, param: %s): %s", m.Method, m.Param, m.Description)
}
