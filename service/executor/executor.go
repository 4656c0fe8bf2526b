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

// Package executor submits fully signed transaction records to the chain
// and settles their local lifecycle.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/mustersig/muster/failure"
	"github.com/mustersig/muster/models/muster"
	"github.com/mustersig/muster/service/readiness"
)

// Executor executes transaction records through the chain client. The local
// account copy is never trusted for authorization decisions; threshold,
// owner set and nonce are always read live from the chain before an
// execution attempt.
type Executor struct {
	log   zerolog.Logger
	read  muster.Reader
	write muster.Writer
	chain muster.ChainClient
}

// New creates a new executor using the given chain client.
func New(log zerolog.Logger, read muster.Reader, write muster.Writer, chain muster.ChainClient) *Executor {

	e := Executor{
		log:   log.With().Str("component", "executor").Logger(),
		read:  read,
		write: write,
		chain: chain,
	}

	return &e
}

// Execute submits the record with the given hash for execution by the given
// account, waits for its confirmation and marks the record executed. It
// fails without submitting anything when the record's nonce is already
// consumed on-chain, when the live threshold is not met, or when any
// collected signature belongs to a signer outside the account's live owner
// set. Waiting for confirmation is bounded by the given context.
func (e *Executor) Execute(ctx context.Context, account muster.Account, txHash common.Hash) (common.Hash, error) {

	record, err := e.read.Record(txHash)
	if err != nil {
		return common.Hash{}, fmt.Errorf("could not load record: %w", err)
	}
	if record.Status.Terminal() {
		return common.Hash{}, fmt.Errorf("record can no longer execute (status: %s)", record.Status)
	}

	threshold, err := e.chain.LiveThreshold(ctx, account.Address)
	if err != nil {
		return common.Hash{}, fmt.Errorf("could not get live threshold: %w", err)
	}
	owners, err := e.chain.LiveOwners(ctx, account.Address)
	if err != nil {
		return common.Hash{}, fmt.Errorf("could not get live owners: %w", err)
	}
	nonce, err := e.chain.CurrentNonce(ctx, account.Address)
	if err != nil {
		return common.Hash{}, fmt.Errorf("could not get current nonce: %w", err)
	}

	// Ownership is validated against the live owner set at execution time,
	// since the local copy can predate on-chain owner changes.
	ownerSet := make(map[common.Address]struct{}, len(owners))
	for _, owner := range owners {
		ownerSet[owner] = struct{}{}
	}
	for signer := range record.Signatures {
		_, ok := ownerSet[signer]
		if !ok {
			return common.Hash{}, failure.NotAnOwner{
				Description: failure.NewDescription("collected signature from non-owner"),
				Signer:      signer,
				Account:     account.Address,
			}
		}
	}

	assessment := readiness.Evaluate(record, threshold, nonce)
	if assessment.Stale {
		return common.Hash{}, failure.StaleTransaction{
			Description: failure.NewDescription("account nonce has advanced past the transaction"),
			TxHash:      txHash,
			TxNonce:     *record.Tx.Nonce,
			ChainNonce:  nonce,
		}
	}
	if !assessment.Ready {
		return common.Hash{}, failure.NotReady{
			Description: failure.NewDescription("transaction cannot execute yet",
				failure.WithUint64("missing", assessment.Missing),
			),
			TxHash: txHash,
			Have:   uint64(len(record.Signatures)),
			Want:   threshold,
		}
	}

	// The account contract verifies the signature blob in ascending signer
	// order.
	var blob []byte
	for _, signature := range record.Signatures.Sorted() {
		blob = append(blob, signature.Data...)
	}

	execHash, err := e.chain.Execute(ctx, account.Address, record.Tx, blob)
	if err != nil {
		return common.Hash{}, fmt.Errorf("could not submit execution: %w", err)
	}

	e.log.Info().
		Hex("tx_hash", txHash[:]).
		Hex("exec_hash", execHash[:]).
		Msg("execution submitted, waiting for confirmation")

	err = e.chain.WaitConfirmed(ctx, execHash)
	if err != nil {
		return common.Hash{}, fmt.Errorf("could not confirm execution (exec hash: %x): %w", execHash, err)
	}

	now := time.Now().UTC()
	err = e.write.MutateRecord(txHash, func(record *muster.TransactionRecord) error {
		record.Status = muster.StatusExecuted
		record.ExecutedAt = &now
		record.ExecutionTxHash = &execHash
		return nil
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("could not mark record executed: %w", err)
	}

	return execHash, nil
}

// Reject marks the record with the given hash as rejected. Rejection is an
// explicit caller decision and is terminal; executed or already rejected
// records are refused.
func (e *Executor) Reject(txHash common.Hash) error {

	err := e.write.MutateRecord(txHash, func(record *muster.TransactionRecord) error {
		if record.Status.Terminal() {
			return fmt.Errorf("record can no longer be rejected (status: %s)", record.Status)
		}
		record.Status = muster.StatusRejected
		return nil
	})
	if err != nil {
		return fmt.Errorf("could not mark record rejected: %w", err)
	}

	e.log.Info().
		Hex("tx_hash", txHash[:]).
		Msg("record rejected")

	return nil
}
