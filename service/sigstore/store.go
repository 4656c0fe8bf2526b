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

// Package sigstore maintains the deduplicated set of signatures collected
// for each transaction record, regardless of which channel a signature
// arrived through.
package sigstore

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/mustersig/muster/models/muster"
)

// Store adds and merges signatures on transaction records. All mutations of
// one record go through the writer's serialized mutation path, so merges
// from different channels never lose signatures. Signers are compared by
// their canonical address form, so two differently cased encodings of the
// same address count as one signer.
type Store struct {
	log   zerolog.Logger
	read  muster.Reader
	write muster.Writer
}

// MergeResult reports the outcome of merging a set of incoming signatures:
// signatures from new signers that were added, and signatures from already
// known signers that were skipped.
type MergeResult struct {
	Added   []muster.Signature
	Skipped []muster.Signature
}

// New creates a new signature store on top of the given repository reader
// and writer.
func New(log zerolog.Logger, read muster.Reader, write muster.Writer) *Store {

	s := Store{
		log:   log.With().Str("component", "signature_store").Logger(),
		read:  read,
		write: write,
	}

	return &s
}

// Add inserts the given signature into the record with the given hash,
// replacing any previous signature from the same signer. It reports whether
// the signer was new to the record.
func (s *Store) Add(txHash common.Hash, signature muster.Signature) (bool, error) {

	var added bool
	err := s.write.MutateRecord(txHash, func(record *muster.TransactionRecord) error {
		if record.Signatures == nil {
			record.Signatures = muster.SignatureSet{}
		}

		_, known := record.Signatures[signature.Signer]
		added = !known
		record.Signatures[signature.Signer] = signature

		advance(record)

		return nil
	})
	if err != nil {
		return false, err
	}

	return added, nil
}

// Merge folds the given incoming signatures into the record with the given
// hash. Signatures from signers already present are skipped, even when the
// signature bytes differ; a byte-level mismatch for a known signer is logged
// as a warning, since a deterministic signer should always produce the same
// signature for the same hash. Merging the same set twice adds nothing the
// second time.
func (s *Store) Merge(txHash common.Hash, incoming []muster.Signature) (MergeResult, error) {

	var result MergeResult
	err := s.write.MutateRecord(txHash, func(record *muster.TransactionRecord) error {
		if record.Signatures == nil {
			record.Signatures = muster.SignatureSet{}
		}

		// The result has to be rebuilt on each attempt so a retried mutation
		// does not double-count signatures.
		result = MergeResult{}

		for _, signature := range incoming {
			existing, known := record.Signatures[signature.Signer]
			if known {
				if !bytes.Equal(existing.Data, signature.Data) {
					s.log.Warn().
						Hex("tx_hash", txHash[:]).
						Hex("signer", signature.Signer[:]).
						Hex("existing", existing.Data).
						Hex("incoming", signature.Data).
						Msg("conflicting signature bytes for known signer, keeping existing")
				}
				result.Skipped = append(result.Skipped, signature)
				continue
			}

			record.Signatures[signature.Signer] = signature
			result.Added = append(result.Added, signature)
		}

		advance(record)

		return nil
	})
	if err != nil {
		return MergeResult{}, err
	}

	return result, nil
}

// List returns the signatures collected for the record with the given hash,
// ordered by ascending signer address. The order carries no information
// about when each signature was collected.
func (s *Store) List(txHash common.Hash) ([]muster.Signature, error) {
	record, err := s.read.Record(txHash)
	if err != nil {
		return nil, err
	}
	return record.Signatures.Sorted(), nil
}

// advance moves a pending record to signed once it holds at least one
// signature. Terminal records keep their status.
func advance(record *muster.TransactionRecord) {
	if record.Status == muster.StatusPending && len(record.Signatures) > 0 {
		record.Status = muster.StatusSigned
	}
}
