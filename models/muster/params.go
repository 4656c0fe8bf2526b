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
	"github.com/ethereum/go-ethereum/common"
)

// LatestVersion is the account contract version new deployments default to.
const LatestVersion = "1.3.0"

// Params captures the canonical contract artifacts of one account contract
// version. The deployment addresses are the same on every network because
// the contracts are deployed deterministically. LegacyDomain marks versions
// whose signing domain does not include the chain identifier.
type Params struct {
	Version         string
	Factory         common.Address
	Singleton       common.Address
	FallbackHandler common.Address
	LegacyDomain    bool
}

// VersionParams holds the contract parameters of all supported account
// contract versions.
var VersionParams = make(map[string]Params)

func init() {

	VersionParams["1.1.1"] = Params{
		Version:         "1.1.1",
		Factory:         common.HexToAddress("0x76E2cFc1F5Fa8F6a5b3fC4c8F4788F0116861F9B"),
		Singleton:       common.HexToAddress("0x34CfAC646f301356fAa8B21e94227e3583Fe3F5F"),
		FallbackHandler: common.HexToAddress("0xd5D82B6aDDc9027B22dCA772Aa68D5d74cdBdF44"),
		LegacyDomain:    true,
	}

	VersionParams["1.3.0"] = Params{
		Version:         "1.3.0",
		Factory:         common.HexToAddress("0xa6B71E26C5e0845f74c812102Ca7114b6a896AB2"),
		Singleton:       common.HexToAddress("0xd9Db270c1B5E3Bd161E8c8503c55cEABeE709552"),
		FallbackHandler: common.HexToAddress("0xf48f2B2d2a534e402487b3ee7C18c33Aec0Fe5e4"),
		LegacyDomain:    false,
	}
}

// ParamsForVersion looks up the contract parameters for the given account
// contract version.
func ParamsForVersion(version string) (Params, bool) {
	params, ok := VersionParams[version]
	return params, ok
}
