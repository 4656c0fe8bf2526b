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

// KeyVault represents something that can sign digests on behalf of owner
// addresses without exposing key material. How keys are stored and unlocked
// is up to the implementation.
type KeyVault interface {
	Sign(ctx context.Context, signer common.Address, digest common.Hash) (Signature, error)
	Signers() []common.Address
}
