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

package calldata_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mustersig/muster/failure"
	"github.com/mustersig/muster/models/muster"
	"github.com/mustersig/muster/service/calldata"
)

func TestEncoder_EncodeCall(t *testing.T) {
	t.Run("token transfer call", func(t *testing.T) {
		t.Parallel()

		encode := calldata.New()

		method := muster.Method{
			Name: "transfer",
			Inputs: []muster.Parameter{
				{Name: "to", Type: "address"},
				{Name: "amount", Type: "uint256"},
			},
		}
		values := map[string]string{
			"to":     "0x4200000000000000000000000000000000000001",
			"amount": "1000",
		}

		data, err := encode.EncodeCall(method, values)

		require.NoError(t, err)
		require.Len(t, data, 4+2*32)

		// The well-known ERC-20 transfer selector.
		assert.Equal(t, []byte{0xa9, 0x05, 0x9c, 0xbb}, data[:4])
		assert.Equal(t,
			common.HexToAddress("0x4200000000000000000000000000000000000001"),
			common.BytesToAddress(data[4:36]),
		)
		assert.Equal(t, int64(1000), new(big.Int).SetBytes(data[36:68]).Int64())
	})

	t.Run("parameter-free method encodes selector only", func(t *testing.T) {
		t.Parallel()

		encode := calldata.New()

		data, err := encode.EncodeCall(muster.Method{Name: "pause"}, nil)

		require.NoError(t, err)
		assert.Len(t, data, 4)
	})

	t.Run("supported scalar types round-trip through packing", func(t *testing.T) {
		t.Parallel()

		encode := calldata.New()

		method := muster.Method{
			Name: "configure",
			Inputs: []muster.Parameter{
				{Name: "flag", Type: "bool"},
				{Name: "small", Type: "uint8"},
				{Name: "offset", Type: "int64"},
				{Name: "label", Type: "string"},
				{Name: "payload", Type: "bytes"},
				{Name: "digest", Type: "bytes32"},
			},
		}
		values := map[string]string{
			"flag":    "true",
			"small":   "7",
			"offset":  "-12",
			"label":   "hello",
			"payload": "0xdeadbeef",
			"digest":  "0x2a00000000000000000000000000000000000000000000000000000000000001",
		}

		data, err := encode.EncodeCall(method, values)

		require.NoError(t, err)
		assert.NotEmpty(t, data)
	})

	t.Run("missing argument value names the parameter", func(t *testing.T) {
		t.Parallel()

		encode := calldata.New()

		method := muster.Method{
			Name: "transfer",
			Inputs: []muster.Parameter{
				{Name: "to", Type: "address"},
				{Name: "amount", Type: "uint256"},
			},
		}
		values := map[string]string{
			"to": "0x4200000000000000000000000000000000000001",
		}

		_, err := encode.EncodeCall(method, values)

		var missing failure.MissingArgument
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "transfer", missing.Method)
		assert.Equal(t, "amount", missing.Param)
	})

	t.Run("handles invalid parameter type", func(t *testing.T) {
		t.Parallel()

		encode := calldata.New()

		method := muster.Method{
			Name:   "broken",
			Inputs: []muster.Parameter{{Name: "x", Type: "not a type"}},
		}

		_, err := encode.EncodeCall(method, map[string]string{"x": "1"})

		assert.Error(t, err)
	})

	t.Run("handles malformed argument value", func(t *testing.T) {
		t.Parallel()

		encode := calldata.New()

		method := muster.Method{
			Name:   "transfer",
			Inputs: []muster.Parameter{{Name: "to", Type: "address"}},
		}

		_, err := encode.EncodeCall(method, map[string]string{"to": "not an address"})

		assert.Error(t, err)
	})

	t.Run("handles wrong fixed bytes length", func(t *testing.T) {
		t.Parallel()

		encode := calldata.New()

		method := muster.Method{
			Name:   "anchor",
			Inputs: []muster.Parameter{{Name: "digest", Type: "bytes32"}},
		}

		_, err := encode.EncodeCall(method, map[string]string{"digest": "0xdeadbeef"})

		assert.Error(t, err)
	})
}
