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

package muster

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// AddressDeriver represents something that can compute the deterministic
// deployment address a multisig account contract would get for a given
// configuration and salt nonce, without deploying anything.
type AddressDeriver interface {
	PredictAddress(ctx context.Context, config DeploymentConfig, saltNonce uint64) (common.Address, error)
}

// Method describes an external contract method for call data encoding.
type Method struct {
	Name   string
	Inputs []Parameter
}

// Parameter is one named, typed input of a contract method.
type Parameter struct {
	Name string
	Type string
}

// CallCodec represents something that can encode a contract method call with
// its argument values into transaction call data.
type CallCodec interface {
	EncodeCall(method Method, values map[string]string) ([]byte, error)
}
