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

package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// The subset of the account contract interface the adapter calls, plus the
// factory view that publishes the proxy creation code.
const (
	accountJSON = `[
		{"type":"function","name":"nonce","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
		{"type":"function","name":"getThreshold","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
		{"type":"function","name":"getOwners","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address[]"}]},
		{"type":"function","name":"execTransaction","stateMutability":"payable","inputs":[
			{"name":"to","type":"address"},
			{"name":"value","type":"uint256"},
			{"name":"data","type":"bytes"},
			{"name":"operation","type":"uint8"},
			{"name":"safeTxGas","type":"uint256"},
			{"name":"baseGas","type":"uint256"},
			{"name":"gasPrice","type":"uint256"},
			{"name":"gasToken","type":"address"},
			{"name":"refundReceiver","type":"address"},
			{"name":"signatures","type":"bytes"}
		],"outputs":[{"name":"success","type":"bool"}]}
	]`
	factoryJSON = `[
		{"type":"function","name":"proxyCreationCode","stateMutability":"pure","inputs":[],"outputs":[{"name":"","type":"bytes"}]}
	]`
)

var (
	accountABI abi.ABI
	factoryABI abi.ABI
)

func init() {

	// The ABI definitions are constants, so failing to parse them can only
	// be a programming mistake.
	var err error
	accountABI, err = abi.JSON(strings.NewReader(accountJSON))
	if err != nil {
		panic(err)
	}
	factoryABI, err = abi.JSON(strings.NewReader(factoryJSON))
	if err != nil {
		panic(err)
	}
}
