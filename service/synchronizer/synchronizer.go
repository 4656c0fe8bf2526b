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

// Package synchronizer reconciles the local transaction records of an
// account with a remote coordination relay, so signers on different
// machines can contribute signatures asynchronously.
package synchronizer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gammazero/deque"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mustersig/muster/failure"
	"github.com/mustersig/muster/models/muster"
	"github.com/mustersig/muster/service/sigstore"
)

// Hasher represents something that can compute the canonical identity hash
// of a transaction for an account.
type Hasher interface {
	Hash(account muster.Account, tx muster.Transaction) (common.Hash, error)
}

// SignatureStore represents something that can merge incoming signatures
// into a local transaction record.
type SignatureStore interface {
	Merge(txHash common.Hash, incoming []muster.Signature) (sigstore.MergeResult, error)
}

// Synchronizer pushes local transaction records to a coordination relay and
// pulls remote pending transactions back into the local repository.
type Synchronizer struct {
	log        zerolog.Logger
	hash       Hasher
	signatures SignatureStore
	read       muster.Reader
	write      muster.Writer
	relay      muster.Relay
}

// New creates a new synchronizer against the given relay, merging pulled
// signatures through the given signature store.
func New(log zerolog.Logger, hash Hasher, signatures SignatureStore, read muster.Reader, write muster.Writer, relay muster.Relay) *Synchronizer {

	s := Synchronizer{
		log:        log.With().Str("component", "synchronizer").Logger(),
		hash:       hash,
		signatures: signatures,
		read:       read,
		write:      write,
		relay:      relay,
	}

	return &s
}

// Push publishes the given record to the relay, proposing it with the
// submitter's own signature. The record needs a nonce and a signature from
// the submitter. Proposing a hash the relay already knows succeeds, so
// pushing is idempotent from the caller's perspective; any other remaining
// local signatures are relayed best-effort afterwards, without failing the
// push.
func (s *Synchronizer) Push(ctx context.Context, account muster.Account, record muster.TransactionRecord, submitter common.Address) error {

	if record.Tx.Nonce == nil {
		return failure.MissingNonce{
			Description: failure.NewDescription("cannot share a draft transaction"),
			Account:     account.Address,
		}
	}

	_, signed := record.Signatures[submitter]
	if !signed {
		return fmt.Errorf("submitter has not signed the transaction (submitter: %x)", submitter)
	}

	// The advertised hash is recomputed locally so a corrupted record can
	// never propagate to other signers.
	computed, err := s.hash.Hash(account, record.Tx)
	if err != nil {
		return fmt.Errorf("could not compute canonical hash: %w", err)
	}
	if computed != record.TxHash {
		return failure.InvalidTransaction{
			Description: failure.NewDescription("record hash does not match canonical hash",
				failure.WithHash("record_hash", record.TxHash),
				failure.WithHash("canonical_hash", computed),
			),
			ChainID: account.ChainID,
			Account: account.Address,
		}
	}

	err = s.relay.Propose(ctx, account, record, submitter)
	if err != nil {
		return fmt.Errorf("could not propose transaction (hash: %x): %w", record.TxHash, err)
	}

	// Additional local signatures are forwarded best-effort; the proposal
	// itself already succeeded and the other signers can still pull what is
	// missing later.
	var errs error
	for _, signature := range record.Signatures.Sorted() {
		if signature.Signer == submitter {
			continue
		}
		err := s.relay.AddSignature(ctx, record.TxHash, signature)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("could not add signature (signer: %x): %w", signature.Signer, err))
		}
	}
	if errs != nil {
		s.log.Warn().
			Hex("tx_hash", record.TxHash[:]).
			Err(errs).
			Msg("could not forward all local signatures")
	}

	s.log.Info().
		Hex("tx_hash", record.TxHash[:]).
		Hex("submitter", submitter[:]).
		Msg("transaction pushed to relay")

	return nil
}

// Pull reconciles the relay's pending transactions for the given account
// into the local repository. Unknown transactions are imported as new
// records; known ones have their signatures merged. A failure on one remote
// entry never aborts the processing of the others, and local records absent
// from the relay are never touched.
func (s *Synchronizer) Pull(ctx context.Context, account muster.Account) (*PullResult, error) {

	remotes, err := s.relay.ListPending(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("could not list pending transactions: %w", err)
	}

	var result PullResult
	for _, remote := range remotes {
		outcome, err := s.pullOne(account, remote)
		if err != nil {
			result.Failures = append(result.Failures, PullFailure{
				TxHash: remote.TxHash,
				Err:    err,
			})
			continue
		}
		switch outcome {
		case outcomeImported:
			result.Imported++
		case outcomeUpdated:
			result.Updated++
		case outcomeSkipped:
			result.Skipped++
		}
	}

	s.log.Info().
		Hex("account", account.Address[:]).
		Uint("imported", result.Imported).
		Uint("updated", result.Updated).
		Uint("skipped", result.Skipped).
		Int("failed", len(result.Failures)).
		Msg("pull from relay finished")

	return &result, nil
}

// PullAll reconciles every given account with the relay in one round.
// Accounts are queued up and handed out to a bounded set of workers, so one
// slow account never holds up the whole round. A failing account is reported
// in the aggregate error without stopping the pulls of the other accounts;
// the combined result covers every account that did pull.
func (s *Synchronizer) PullAll(ctx context.Context, accounts []*muster.Account, workers uint) (*PullResult, error) {

	if workers == 0 {
		return nil, fmt.Errorf("number of workers must be positive")
	}

	queue := deque.New(len(accounts))
	for _, account := range accounts {
		queue.PushBack(account)
	}

	var mutex sync.Mutex
	next := func() (*muster.Account, bool) {
		mutex.Lock()
		defer mutex.Unlock()
		if queue.Len() == 0 {
			return nil, false
		}
		return queue.PopFront().(*muster.Account), true
	}

	var total PullResult
	var errs error
	g, gctx := errgroup.WithContext(ctx)
	for i := uint(0); i < workers; i++ {
		g.Go(func() error {
			for {
				account, ok := next()
				if !ok {
					return nil
				}
				result, err := s.Pull(gctx, *account)
				mutex.Lock()
				if err != nil {
					errs = multierror.Append(errs, fmt.Errorf("could not pull account (address: %x): %w", account.Address, err))
				} else {
					total.Imported += result.Imported
					total.Updated += result.Updated
					total.Skipped += result.Skipped
					total.Failures = append(total.Failures, result.Failures...)
				}
				mutex.Unlock()
			}
		})
	}
	err := g.Wait()
	if err != nil {
		return nil, err
	}

	return &total, errs
}

type outcome uint8

const (
	outcomeImported outcome = iota + 1
	outcomeUpdated
	outcomeSkipped
)

func (s *Synchronizer) pullOne(account muster.Account, remote muster.RemoteTransaction) (outcome, error) {

	// Cross-check the advertised hash against the locally computed one, so
	// a lying or corrupted relay entry fails individually instead of
	// planting a record under the wrong identity.
	computed, err := s.hash.Hash(account, remote.Tx)
	if err != nil {
		return 0, fmt.Errorf("could not compute canonical hash: %w", err)
	}
	if computed != remote.TxHash {
		return 0, failure.InvalidTransaction{
			Description: failure.NewDescription("remote hash does not match canonical hash",
				failure.WithHash("remote_hash", remote.TxHash),
				failure.WithHash("canonical_hash", computed),
			),
			ChainID: account.ChainID,
			Account: account.Address,
		}
	}

	_, err = s.read.Record(remote.TxHash)
	if err == nil {
		merged, err := s.signatures.Merge(remote.TxHash, remote.Confirmations)
		if err != nil {
			return 0, fmt.Errorf("could not merge signatures: %w", err)
		}
		if len(merged.Added) == 0 {
			return outcomeSkipped, nil
		}
		return outcomeUpdated, nil
	}
	if !errors.Is(err, muster.ErrNotFound) {
		return 0, fmt.Errorf("could not look up record: %w", err)
	}

	signatures := muster.SignatureSet{}
	for _, signature := range remote.Confirmations {
		signatures[signature.Signer] = signature
	}

	status := muster.StatusPending
	if len(signatures) > 0 {
		status = muster.StatusSigned
	}

	record := muster.TransactionRecord{
		TxHash:     remote.TxHash,
		ChainID:    account.ChainID,
		Account:    account.Address,
		Tx:         remote.Tx,
		Signatures: signatures,
		Status:     status,
		CreatedBy:  remote.Proposer,
		CreatedAt:  time.Now().UTC(),
	}
	err = s.write.SaveRecord(&record)
	if err != nil {
		return 0, fmt.Errorf("could not save imported record: %w", err)
	}

	return outcomeImported, nil
}
