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

package mocks

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mustersig/muster/models/muster"
)

type Hasher struct {
	HashFunc func(account muster.Account, tx muster.Transaction) (common.Hash, error)
}

func BaselineHasher(t *testing.T) *Hasher {
	t.Helper()

	h := Hasher{
		HashFunc: func(muster.Account, muster.Transaction) (common.Hash, error) {
			return GenericHash(0), nil
		},
	}

	return &h
}

func (h *Hasher) Hash(account muster.Account, tx muster.Transaction) (common.Hash, error) {
	return h.HashFunc(account, tx)
}
