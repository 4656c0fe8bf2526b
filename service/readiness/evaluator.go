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

// Package readiness determines whether a transaction record can execute,
// given the live state of the account on-chain. The evaluation is pure; it
// reads nothing and mutates nothing.
package readiness

import (
	"github.com/mustersig/muster/models/muster"
)

// Assessment is the outcome of evaluating one transaction record against
// the account's live threshold and nonce.
//
// Stale marks a transaction whose nonce the account has already consumed;
// no amount of additional signatures makes it executable again. Future
// marks a transaction that has to wait for lower-nonce transactions to
// execute first. Missing counts the signatures still needed to reach the
// threshold.
type Assessment struct {
	Status  muster.Status
	Ready   bool
	Stale   bool
	Future  bool
	Missing uint64
}

// Evaluate assesses the given record against the account's live threshold
// and current on-chain nonce. The local record's account data is never
// consulted, since it can be stale.
func Evaluate(record *muster.TransactionRecord, currentThreshold uint64, currentNonce uint64) Assessment {

	have := uint64(len(record.Signatures))

	assessment := Assessment{
		Status: record.Status,
	}
	if have < currentThreshold {
		assessment.Missing = currentThreshold - have
	}

	// Terminal records stay terminal and are never executable again.
	if record.Status.Terminal() {
		return assessment
	}

	if record.Status == muster.StatusPending && have > 0 {
		assessment.Status = muster.StatusSigned
	}

	// A draft without a nonce has no position in the account's execution
	// order yet, so it can be neither ready, stale nor future.
	if record.Tx.Nonce == nil {
		return assessment
	}

	switch nonce := *record.Tx.Nonce; {

	// Staleness takes precedence over everything else; a fully signed
	// transaction with a consumed nonce is still permanently unexecutable.
	case nonce < currentNonce:
		assessment.Stale = true

	case nonce > currentNonce:
		assessment.Future = true

	default:
		assessment.Ready = have >= currentThreshold
	}

	return assessment
}
