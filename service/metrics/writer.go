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

// Package metrics instruments the local record repository and serves the
// scrape endpoint.
package metrics

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mustersig/muster/models/muster"
)

// Writer decorates an index writer with counters for everything written to
// the repository.
type Writer struct {
	write muster.Writer

	accounts  prometheus.Counter
	records   prometheus.Counter
	mutations prometheus.Counter
}

// NewWriter creates a new metrics writer wrapping the given index writer.
func NewWriter(write muster.Writer) *Writer {

	w := Writer{
		write: write,

		accounts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "muster_accounts_saved_total",
			Help: "number of account writes to the local repository",
		}),
		records: promauto.NewCounter(prometheus.CounterOpts{
			Name: "muster_records_saved_total",
			Help: "number of transaction record writes to the local repository",
		}),
		mutations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "muster_record_mutations_total",
			Help: "number of serialized record mutations applied",
		}),
	}

	return &w
}

// SaveAccount persists the given account.
func (w *Writer) SaveAccount(account *muster.Account) error {
	err := w.write.SaveAccount(account)
	if err != nil {
		return err
	}
	w.accounts.Inc()
	return nil
}

// SaveRecord persists the given transaction record.
func (w *Writer) SaveRecord(record *muster.TransactionRecord) error {
	err := w.write.SaveRecord(record)
	if err != nil {
		return err
	}
	w.records.Inc()
	return nil
}

// MutateRecord applies the given serialized mutation to the record with the
// given hash.
func (w *Writer) MutateRecord(txHash common.Hash, mutate func(*muster.TransactionRecord) error) error {
	err := w.write.MutateRecord(txHash, mutate)
	if err != nil {
		return err
	}
	w.mutations.Inc()
	return nil
}
