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

// Package calldata encodes named contract method calls with typed argument
// values into transaction call data. Selector and argument encoding follow
// the standard contract ABI.
package calldata

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/mustersig/muster/failure"
	"github.com/mustersig/muster/models/muster"
)

// Encoder encodes contract method calls into call data.
type Encoder struct{}

// New creates a new call data encoder.
func New() *Encoder {
	e := Encoder{}
	return &e
}

// EncodeCall encodes a call to the given method with the given argument
// values, keyed by parameter name. Every declared parameter needs a value;
// a missing one fails the encoding with the parameter's name.
func (e *Encoder) EncodeCall(method muster.Method, values map[string]string) ([]byte, error) {

	types := make([]string, 0, len(method.Inputs))
	arguments := make(abi.Arguments, 0, len(method.Inputs))
	packable := make([]interface{}, 0, len(method.Inputs))

	for _, param := range method.Inputs {

		typ, err := abi.NewType(param.Type, "", nil)
		if err != nil {
			return nil, fmt.Errorf("invalid parameter type (param: %s, type: %s): %w", param.Name, param.Type, err)
		}

		raw, ok := values[param.Name]
		if !ok {
			return nil, failure.MissingArgument{
				Description: failure.NewDescription("no value given for method parameter"),
				Method:      method.Name,
				Param:       param.Name,
			}
		}

		value, err := parseValue(typ, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid argument value (param: %s, type: %s): %w", param.Name, param.Type, err)
		}

		types = append(types, typ.String())
		arguments = append(arguments, abi.Argument{Name: param.Name, Type: typ})
		packable = append(packable, value)
	}

	packed, err := arguments.Pack(packable...)
	if err != nil {
		return nil, fmt.Errorf("could not pack arguments (method: %s): %w", method.Name, err)
	}

	signature := fmt.Sprintf("%s(%s)", method.Name, strings.Join(types, ","))
	selector := crypto.Keccak256([]byte(signature))[:4]

	return append(append([]byte{}, selector...), packed...), nil
}

func parseValue(typ abi.Type, raw string) (interface{}, error) {
	switch typ.T {

	case abi.AddressTy:
		if !common.IsHexAddress(raw) {
			return nil, fmt.Errorf("malformed address (value: %s)", raw)
		}
		return common.HexToAddress(raw), nil

	case abi.UintTy:
		value, ok := new(big.Int).SetString(raw, 0)
		if !ok {
			return nil, fmt.Errorf("malformed unsigned integer (value: %s)", raw)
		}
		if value.Sign() < 0 {
			return nil, fmt.Errorf("negative value for unsigned integer (value: %s)", raw)
		}
		switch typ.Size {
		case 8:
			return uint8(value.Uint64()), nil
		case 16:
			return uint16(value.Uint64()), nil
		case 32:
			return uint32(value.Uint64()), nil
		case 64:
			return value.Uint64(), nil
		default:
			return value, nil
		}

	case abi.IntTy:
		value, ok := new(big.Int).SetString(raw, 0)
		if !ok {
			return nil, fmt.Errorf("malformed integer (value: %s)", raw)
		}
		switch typ.Size {
		case 8:
			return int8(value.Int64()), nil
		case 16:
			return int16(value.Int64()), nil
		case 32:
			return int32(value.Int64()), nil
		case 64:
			return value.Int64(), nil
		default:
			return value, nil
		}

	case abi.BoolTy:
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("malformed boolean (value: %s): %w", raw, err)
		}
		return value, nil

	case abi.StringTy:
		return raw, nil

	case abi.BytesTy:
		data, err := hexutil.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("malformed bytes (value: %s): %w", raw, err)
		}
		return data, nil

	case abi.FixedBytesTy:
		data, err := hexutil.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("malformed fixed bytes (value: %s): %w", raw, err)
		}
		if len(data) != typ.Size {
			return nil, fmt.Errorf("wrong fixed bytes length (have: %d, want: %d)", len(data), typ.Size)
		}
		array := reflect.New(typ.GetType()).Elem()
		reflect.Copy(array, reflect.ValueOf(data))
		return array.Interface(), nil

	default:
		return nil, fmt.Errorf("unsupported parameter type (type: %s)", typ.String())
	}
}
