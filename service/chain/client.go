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

// Package chain adapts an Ethereum JSON-RPC backend to the chain client
// capabilities the engine consumes: reading live account contract state,
// submitting executions and waiting for their confirmation.
package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"

	"github.com/mustersig/muster/failure"
	"github.com/mustersig/muster/models/muster"
)

// Backend is the part of an Ethereum JSON-RPC client the adapter needs.
// It is implemented by *ethclient.Client.
type Backend interface {
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// SendFunc submits a prepared contract call as a signed chain transaction
// and returns its hash. Key custody for the submitting externally owned
// account stays with whoever provides the function.
type SendFunc func(ctx context.Context, to common.Address, data []byte) (common.Hash, error)

// Client implements the engine's chain client on top of an Ethereum
// backend. Every call derives a bounded context from the caller's, so no
// operation can block indefinitely; an expired deadline surfaces as a
// timeout failure naming the operation.
type Client struct {
	log     zerolog.Logger
	backend Backend
	send    SendFunc
	cfg     Config
}

// New creates a new chain client on the given backend, submitting execution
// transactions through the given send function.
func New(log zerolog.Logger, backend Backend, send SendFunc, options ...Option) *Client {

	cfg := DefaultConfig
	for _, option := range options {
		option(&cfg)
	}

	c := Client{
		log:     log.With().Str("component", "chain_client").Logger(),
		backend: backend,
		send:    send,
		cfg:     cfg,
	}

	return &c
}

// Code returns the contract code deployed at the given address, if any.
func (c *Client) Code(ctx context.Context, address common.Address) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	code, err := c.backend.CodeAt(ctx, address, nil)
	if err != nil {
		return nil, timeoutOr("get_code", err)
	}

	return code, nil
}

// CurrentNonce returns the account contract's current transaction nonce.
func (c *Client) CurrentNonce(ctx context.Context, account common.Address) (uint64, error) {
	var nonce *big.Int
	err := c.view(ctx, account, "nonce", &nonce)
	if err != nil {
		return 0, err
	}
	return nonce.Uint64(), nil
}

// LiveThreshold returns the account contract's current signature threshold.
func (c *Client) LiveThreshold(ctx context.Context, account common.Address) (uint64, error) {
	var threshold *big.Int
	err := c.view(ctx, account, "getThreshold", &threshold)
	if err != nil {
		return 0, err
	}
	return threshold.Uint64(), nil
}

// LiveOwners returns the account contract's current owner set.
func (c *Client) LiveOwners(ctx context.Context, account common.Address) ([]common.Address, error) {
	var owners []common.Address
	err := c.view(ctx, account, "getOwners", &owners)
	if err != nil {
		return nil, err
	}
	return owners, nil
}

// ProxyCreationCode returns the proxy creation code published by the given
// account factory contract.
func (c *Client) ProxyCreationCode(ctx context.Context, factory common.Address) ([]byte, error) {

	data, err := factoryABI.Pack("proxyCreationCode")
	if err != nil {
		return nil, fmt.Errorf("could not pack call: %w", err)
	}

	output, err := c.callContract(ctx, factory, data)
	if err != nil {
		return nil, err
	}

	var code []byte
	err = factoryABI.UnpackIntoInterface(&code, "proxyCreationCode", output)
	if err != nil {
		return nil, fmt.Errorf("could not unpack creation code: %w", err)
	}

	return code, nil
}

// Execute submits the given transaction with the given signature blob to
// the account contract for execution and returns the hash of the submitted
// chain transaction.
func (c *Client) Execute(ctx context.Context, account common.Address, tx muster.Transaction, signatures []byte) (common.Hash, error) {

	if tx.Nonce == nil {
		return common.Hash{}, failure.MissingNonce{
			Description: failure.NewDescription("cannot execute a draft transaction"),
			Account:     account,
		}
	}

	data, err := accountABI.Pack("execTransaction",
		tx.To,
		orZero(tx.Value),
		tx.Data,
		uint8(tx.Operation),
		orZero(tx.SafeTxGas),
		orZero(tx.BaseGas),
		orZero(tx.GasPrice),
		tx.GasToken,
		tx.RefundReceiver,
		signatures,
	)
	if err != nil {
		return common.Hash{}, fmt.Errorf("could not pack execution call: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	execHash, err := c.send(ctx, account, data)
	if err != nil {
		return common.Hash{}, timeoutOr("send_execution", err)
	}

	return execHash, nil
}

// WaitConfirmed polls for the receipt of the given chain transaction until
// it is mined or the caller's context expires. A mined execution that
// reverted is reported as an error.
func (c *Client) WaitConfirmed(ctx context.Context, execHash common.Hash) error {

	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.receipt(ctx, execHash)
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			return err
		}
		if receipt != nil {
			if receipt.Status != types.ReceiptStatusSuccessful {
				return fmt.Errorf("execution reverted (exec hash: %x)", execHash)
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return failure.Timeout{
				Description: failure.NewDescription("transaction not confirmed before deadline",
					failure.WithHash("exec_hash", execHash),
				),
				Operation: "wait_confirmed",
			}
		case <-ticker.C:
		}
	}
}

func (c *Client) receipt(ctx context.Context, execHash common.Hash) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	return c.backend.TransactionReceipt(ctx, execHash)
}

// view performs a read-only call of the given account contract method and
// unpacks its single return value into the given variable.
func (c *Client) view(ctx context.Context, account common.Address, method string, value interface{}) error {

	data, err := accountABI.Pack(method)
	if err != nil {
		return fmt.Errorf("could not pack call (method: %s): %w", method, err)
	}

	output, err := c.callContract(ctx, account, data)
	if err != nil {
		return fmt.Errorf("could not call contract (method: %s): %w", method, err)
	}

	err = accountABI.UnpackIntoInterface(value, method, output)
	if err != nil {
		return fmt.Errorf("could not unpack output (method: %s): %w", method, err)
	}

	return nil
}

func (c *Client) callContract(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	call := ethereum.CallMsg{
		To:   &to,
		Data: data,
	}
	output, err := c.backend.CallContract(ctx, call, nil)
	if err != nil {
		return nil, timeoutOr("call_contract", err)
	}

	return output, nil
}

func timeoutOr(operation string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return failure.Timeout{
			Description: failure.NewDescription("chain call deadline exceeded"),
			Operation:   operation,
		}
	}
	return err
}

func orZero(value *big.Int) *big.Int {
	if value == nil {
		return new(big.Int)
	}
	return value
}
