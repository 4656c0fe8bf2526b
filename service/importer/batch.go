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

package importer

// Batch is the external batch file format: a list of calls against one
// account on one chain. Numeric values are string-encoded in the file.
type Batch struct {
	Version      string      `json:"version" validate:"required"`
	ChainID      string      `json:"chainId" validate:"required,number"`
	Transactions []BatchCall `json:"transactions" validate:"required,min=1,dive"`
}

// BatchCall is one call of a batch file. It carries either explicit call
// data or a contract method with its argument values.
type BatchCall struct {
	To                   string            `json:"to" validate:"required"`
	Value                string            `json:"value"`
	Data                 *string           `json:"data"`
	ContractMethod       *BatchMethod      `json:"contractMethod"`
	ContractInputsValues map[string]string `json:"contractInputsValues"`
}

// BatchMethod describes the contract method of a batch call.
type BatchMethod struct {
	Name   string       `json:"name" validate:"required"`
	Inputs []BatchParam `json:"inputs" validate:"dive"`
}

// BatchParam is one declared parameter of a batch method.
type BatchParam struct {
	Name string `json:"name" validate:"required"`
	Type string `json:"type" validate:"required"`
}
