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

// Package relay implements the HTTP client for the remote coordination
// service, along with the JSON wire format it speaks.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dgraph-io/ristretto"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gammazero/deque"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/mustersig/muster/failure"
	"github.com/mustersig/muster/models/muster"
)

// Client talks to a coordination relay over HTTP. Calls inherit the
// caller's context and are never retried by the client itself; connection
// errors and expired deadlines surface as typed failures with enough
// context for the caller to retry manually.
type Client struct {
	log      zerolog.Logger
	base     string
	client   *http.Client
	validate *validator.Validate
	cache    *ristretto.Cache
	cfg      Config
}

// NewClient creates a new relay client against the given base URL.
func NewClient(log zerolog.Logger, base string, options ...Option) (*Client, error) {

	cfg := DefaultConfig
	for _, option := range options {
		option(&cfg)
	}

	// Transaction details are keyed by their identity hash, which binds all
	// fields, so cached entries can never go stale.
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     16 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create detail cache: %w", err)
	}

	c := Client{
		log:      log.With().Str("component", "relay_client").Logger(),
		base:     strings.TrimSuffix(base, "/"),
		client:   &http.Client{},
		validate: validator.New(),
		cache:    cache,
		cfg:      cfg,
	}

	return &c, nil
}

// Propose publishes the given record to the relay with the proposer's own
// signature. The relay accumulates signatures per transaction hash, so
// proposing a hash it already knows succeeds.
func (c *Client) Propose(ctx context.Context, account muster.Account, record muster.TransactionRecord, proposer common.Address) error {

	signature, ok := record.Signatures[proposer]
	if !ok {
		return fmt.Errorf("record carries no signature from proposer (proposer: %x)", proposer)
	}

	request := ProposalRequest{
		ChainID:     fmt.Sprintf("%d", account.ChainID),
		Account:     account.Address.Hex(),
		TxHash:      record.TxHash.Hex(),
		Proposer:    proposer.Hex(),
		Threshold:   account.Threshold,
		Transaction: ToWireTransaction(record.Tx),
		Signature:   ToWireSignature(signature),
	}

	url := c.base + "/v1/transactions"
	return c.post(ctx, url, request)
}

// AddSignature adds one signature to a transaction the relay already knows.
func (c *Client) AddSignature(ctx context.Context, txHash common.Hash, signature muster.Signature) error {

	request := SignatureRequest{
		Signature: ToWireSignature(signature),
	}

	url := fmt.Sprintf("%s/v1/transactions/%s/signatures", c.base, txHash.Hex())
	return c.post(ctx, url, request)
}

// ListPending fetches all pending transactions the relay stores for the
// given account, following pagination up to the configured page budget.
func (c *Client) ListPending(ctx context.Context, account muster.Account) ([]muster.RemoteTransaction, error) {

	first := fmt.Sprintf("%s/v1/chains/%d/accounts/%s/transactions?executed=false",
		c.base, account.ChainID, account.Address.Hex())

	pages := deque.New()
	pages.PushBack(first)

	var remotes []muster.RemoteTransaction
	for budget := c.cfg.PageBudget; pages.Len() > 0 && budget > 0; budget-- {

		url := pages.PopFront().(string)

		var page PendingResponse
		err := c.get(ctx, url, &page)
		if err != nil {
			return nil, fmt.Errorf("could not fetch page (url: %s): %w", url, err)
		}

		// A malformed entry only loses itself; failing the listing would
		// block synchronization of every other transaction on the account
		// until the relay fixes that one entry.
		for _, entry := range page.Results {
			remote, err := FromWireEntry(c.validate, entry)
			if err != nil {
				c.log.Warn().
					Str("tx_hash", entry.TxHash).
					Err(err).
					Msg("skipping malformed relay entry")
				continue
			}
			remotes = append(remotes, *remote)
		}

		// The next link comes back as a path relative to the relay host.
		if page.Next != "" {
			next := page.Next
			if strings.HasPrefix(next, "/") {
				next = c.base + next
			}
			pages.PushBack(next)
		}
	}

	if pages.Len() > 0 {
		c.log.Warn().
			Uint("page_budget", c.cfg.PageBudget).
			Msg("page budget exhausted, pending list may be incomplete")
	}

	return remotes, nil
}

// GetByHash fetches the transaction with the given hash from the relay.
// Details are cached locally, since the hash binds all fields.
func (c *Client) GetByHash(ctx context.Context, txHash common.Hash) (*muster.RemoteTransaction, error) {

	cached, ok := c.cache.Get(txHash.Hex())
	if ok {
		remote := cached.(muster.RemoteTransaction)
		return &remote, nil
	}

	url := fmt.Sprintf("%s/v1/transactions/%s", c.base, txHash.Hex())

	var entry TransactionEntry
	err := c.get(ctx, url, &entry)
	if err != nil {
		return nil, err
	}

	remote, err := FromWireEntry(c.validate, entry)
	if err != nil {
		return nil, fmt.Errorf("could not parse relay entry (hash: %s): %w", entry.TxHash, err)
	}

	c.cache.Set(txHash.Hex(), *remote, 1)

	return remote, nil
}

func (c *Client) post(ctx context.Context, url string, payload interface{}) error {

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("could not encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return c.transportFailure(url, err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return statusFailure(url, res)
	}

	return nil
}

func (c *Client) get(ctx context.Context, url string, value interface{}) error {

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return c.transportFailure(url, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return muster.ErrNotFound
	}
	if res.StatusCode != http.StatusOK {
		return statusFailure(url, res)
	}

	err = json.NewDecoder(res.Body).Decode(value)
	if err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}

	return nil
}

func (c *Client) transportFailure(url string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return failure.Timeout{
			Description: failure.NewDescription("relay call deadline exceeded",
				failure.WithString("url", url),
			),
			Operation: "relay_request",
		}
	}
	return failure.RemoteUnavailable{
		Description: failure.NewDescription("could not reach relay",
			failure.WithErr(err),
		),
		URL: url,
	}
}

func statusFailure(url string, res *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	if res.StatusCode >= http.StatusInternalServerError {
		return failure.RemoteUnavailable{
			Description: failure.NewDescription("relay returned server error",
				failure.WithInt("status", res.StatusCode),
				failure.WithString("body", string(body)),
			),
			URL: url,
		}
	}
	return fmt.Errorf("relay refused request (url: %s, status: %d, body: %s)", url, res.StatusCode, body)
}
