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
	"github.com/mustersig/muster/service/sigstore"
)

type SignatureStore struct {
	AddFunc   func(txHash common.Hash, signature muster.Signature) (bool, error)
	MergeFunc func(txHash common.Hash, incoming []muster.Signature) (sigstore.MergeResult, error)
	ListFunc  func(txHash common.Hash) ([]muster.Signature, error)
}

func BaselineSignatureStore(t *testing.T) *SignatureStore {
	t.Helper()

	s := SignatureStore{
		AddFunc: func(common.Hash, muster.Signature) (bool, error) {
			return true, nil
		},
		MergeFunc: func(_ common.Hash, incoming []muster.Signature) (sigstore.MergeResult, error) {
			return sigstore.MergeResult{Added: incoming}, nil
		},
		ListFunc: func(common.Hash) ([]muster.Signature, error) {
			return []muster.Signature{GenericSignature(1), GenericSignature(2)}, nil
		},
	}

	return &s
}

func (s *SignatureStore) Add(txHash common.Hash, signature muster.Signature) (bool, error) {
	return s.AddFunc(txHash, signature)
}

func (s *SignatureStore) Merge(txHash common.Hash, incoming []muster.Signature) (sigstore.MergeResult, error) {
	return s.MergeFunc(txHash, incoming)
}

func (s *SignatureStore) List(txHash common.Hash) ([]muster.Signature, error) {
	return s.ListFunc(txHash)
}
