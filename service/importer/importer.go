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

// Package importer translates externally authored batch files into canonical
// transactions. A batch file describes one or more calls against one
// account, each given either as raw call data or as a named contract method
// with typed argument values.
package importer

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/mustersig/muster/failure"
	"github.com/mustersig/muster/models/muster"
)

// Translator converts batch files into canonical transactions, delegating
// call data encoding to the given call codec.
type Translator struct {
	log      zerolog.Logger
	codec    muster.CallCodec
	validate *validator.Validate
}

// Translation is the outcome of translating one batch file: the chain the
// batch targets and one canonical transaction per call, with sequentially
// assigned nonces.
type Translation struct {
	ChainID      uint64
	Transactions []muster.Transaction
}

// New creates a new batch translator using the given call codec.
func New(log zerolog.Logger, codec muster.CallCodec) *Translator {

	t := Translator{
		log:      log.With().Str("component", "batch_translator").Logger(),
		codec:    codec,
		validate: validator.New(),
	}

	return &t
}

// Translate converts the given batch file into canonical transactions,
// assigning nonces sequentially from the given start nonce.
//
// Each call in the batch becomes its own independent transaction with its
// own nonce and its own signature cycle; the calls are not combined into
// one atomic operation. For batches with more than one call, the caller has
// to acknowledge these semantics by setting confirmIndependent, otherwise
// the translation is refused.
func (t *Translator) Translate(data []byte, startNonce uint64, confirmIndependent bool) (*Translation, error) {

	var batch Batch
	err := json.Unmarshal(data, &batch)
	if err != nil {
		return nil, failure.InvalidTransaction{
			Description: failure.NewDescription("malformed batch file",
				failure.WithErr(err),
			),
		}
	}

	err = t.validate.Struct(batch)
	if err != nil {
		return nil, failure.InvalidTransaction{
			Description: failure.NewDescription("invalid batch file",
				failure.WithErr(err),
			),
		}
	}

	if len(batch.Transactions) > 1 && !confirmIndependent {
		return nil, failure.BatchUnconfirmed{
			Description: failure.NewDescription("batch calls import as independent transactions, not one atomic operation"),
			Calls:       len(batch.Transactions),
		}
	}

	chainID, err := strconv.ParseUint(batch.ChainID, 10, 64)
	if err != nil {
		return nil, failure.InvalidTransaction{
			Description: failure.NewDescription("malformed chain identifier",
				failure.WithString("chain_id", batch.ChainID),
				failure.WithErr(err),
			),
		}
	}

	transactions := make([]muster.Transaction, 0, len(batch.Transactions))
	for index, call := range batch.Transactions {

		tx, err := t.translateCall(index, call)
		if err != nil {
			return nil, err
		}

		nonce := startNonce + uint64(index)
		tx.Nonce = &nonce

		transactions = append(transactions, *tx)
	}

	t.log.Info().
		Uint64("chain", chainID).
		Int("calls", len(transactions)).
		Uint64("start_nonce", startNonce).
		Msg("batch file translated")

	translation := Translation{
		ChainID:      chainID,
		Transactions: transactions,
	}

	return &translation, nil
}

func (t *Translator) translateCall(index int, call BatchCall) (*muster.Transaction, error) {

	if !common.IsHexAddress(call.To) {
		return nil, failure.InvalidTransaction{
			Description: failure.NewDescription("malformed call target address",
				failure.WithInt("call_index", index),
				failure.WithString("to", call.To),
			),
		}
	}

	value := new(big.Int)
	if call.Value != "" {
		parsed, ok := new(big.Int).SetString(call.Value, 10)
		if !ok || parsed.Sign() < 0 {
			return nil, failure.InvalidTransaction{
				Description: failure.NewDescription("malformed call value",
					failure.WithInt("call_index", index),
					failure.WithString("value", call.Value),
				),
			}
		}
		value = parsed
	}

	data, err := t.callData(index, call)
	if err != nil {
		return nil, err
	}

	tx := muster.Transaction{
		To:        common.HexToAddress(call.To),
		Value:     value,
		Data:      data,
		Operation: muster.OperationCall,
	}

	return &tx, nil
}

// callData resolves the call data of one batch call: explicit data wins,
// otherwise the named method with its argument values is encoded through
// the call codec.
func (t *Translator) callData(index int, call BatchCall) ([]byte, error) {

	if call.Data != nil && *call.Data != "" && *call.Data != "0x" {
		data, err := hexutil.Decode(*call.Data)
		if err != nil {
			return nil, failure.InvalidTransaction{
				Description: failure.NewDescription("malformed call data",
					failure.WithInt("call_index", index),
					failure.WithErr(err),
				),
			}
		}
		return data, nil
	}

	if call.ContractMethod == nil {
		return nil, failure.MissingCallData{
			Description: failure.NewDescription("call has neither explicit data nor a contract method"),
			Index:       index,
		}
	}

	inputs := make([]muster.Parameter, 0, len(call.ContractMethod.Inputs))
	for _, input := range call.ContractMethod.Inputs {
		inputs = append(inputs, muster.Parameter{
			Name: input.Name,
			Type: input.Type,
		})
	}
	method := muster.Method{
		Name:   call.ContractMethod.Name,
		Inputs: inputs,
	}

	values := call.ContractInputsValues
	if values == nil {
		values = map[string]string{}
	}

	data, err := t.codec.EncodeCall(method, values)
	if err != nil {
		return nil, fmt.Errorf("could not encode call (call_index: %d, method: %s): %w", index, method.Name, err)
	}

	return data, nil
}
