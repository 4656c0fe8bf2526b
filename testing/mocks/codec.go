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

	"github.com/mustersig/muster/models/muster"
)

type CallCodec struct {
	EncodeCallFunc func(method muster.Method, values map[string]string) ([]byte, error)
}

func BaselineCallCodec(t *testing.T) *CallCodec {
	t.Helper()

	c := CallCodec{
		EncodeCallFunc: func(muster.Method, map[string]string) ([]byte, error) {
			return GenericBytes, nil
		},
	}

	return &c
}

func (c *CallCodec) EncodeCall(method muster.Method, values map[string]string) ([]byte, error) {
	return c.EncodeCallFunc(method, values)
}
