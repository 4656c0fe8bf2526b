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
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mustersig/muster/models/muster"
)

type AddressDeriver struct {
	PredictAddressFunc func(ctx context.Context, config muster.DeploymentConfig, saltNonce uint64) (common.Address, error)
}

func BaselineAddressDeriver(t *testing.T) *AddressDeriver {
	t.Helper()

	d := AddressDeriver{
		PredictAddressFunc: func(context.Context, muster.DeploymentConfig, uint64) (common.Address, error) {
			return GenericAddress(0), nil
		},
	}

	return &d
}

func (d *AddressDeriver) PredictAddress(ctx context.Context, config muster.DeploymentConfig, saltNonce uint64) (common.Address, error) {
	return d.PredictAddressFunc(ctx, config, saltNonce)
}
