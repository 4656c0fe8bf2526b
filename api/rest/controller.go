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

// Package rest implements the coordination relay wire API on top of the
// local record repository, so a team can self-host its own coordination
// point instead of depending on a third-party relay.
package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mustersig/muster/models/muster"
	"github.com/mustersig/muster/service/relay"
	"github.com/mustersig/muster/service/sigstore"
)

// defaultPageSize bounds how many transactions one listing page carries.
const defaultPageSize = 50

// Hasher represents something that can compute the canonical identity hash
// of a transaction for an account.
type Hasher interface {
	Hash(account muster.Account, tx muster.Transaction) (common.Hash, error)
}

// SignatureStore represents something that can fold signatures into stored
// transaction records.
type SignatureStore interface {
	Add(txHash common.Hash, signature muster.Signature) (bool, error)
	Merge(txHash common.Hash, incoming []muster.Signature) (sigstore.MergeResult, error)
}

// Controller handles the relay API endpoints. Proposals are cross-checked
// against the locally computed canonical hash, so a client advertising a
// wrong hash is refused instead of planting a record under a false
// identity.
type Controller struct {
	log        zerolog.Logger
	read       muster.Reader
	write      muster.Writer
	signatures SignatureStore
	hash       Hasher
	validate   *validator.Validate
}

// NewController creates a new relay API controller on top of the given
// repository.
func NewController(log zerolog.Logger, read muster.Reader, write muster.Writer, signatures SignatureStore, hash Hasher) *Controller {

	c := Controller{
		log:        log.With().Str("component", "rest_api").Logger(),
		read:       read,
		write:      write,
		signatures: signatures,
		hash:       hash,
		validate:   validator.New(),
	}

	return &c
}

// Register mounts the relay endpoints on the given echo instance.
func (c *Controller) Register(e *echo.Echo) {
	e.POST("/v1/transactions", c.Propose)
	e.POST("/v1/transactions/:hash/signatures", c.AddSignature)
	e.GET("/v1/transactions/:hash", c.GetByHash)
	e.GET("/v1/chains/:chain/accounts/:address/transactions", c.ListTransactions)
}

// Propose stores a newly proposed transaction with its proposer's
// signature. Proposing a hash that is already stored folds the signature
// into the existing record, so repeated proposals of the same transaction
// succeed.
func (c *Controller) Propose(ctx echo.Context) error {

	var req relay.ProposalRequest
	err := ctx.Bind(&req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("could not decode request: %s", err))
	}
	err = c.validate.Struct(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid request: %s", err))
	}

	chainID, err := strconv.ParseUint(req.ChainID, 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("malformed chain identifier: %s", err))
	}
	if !common.IsHexAddress(req.Account) {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed account address")
	}
	if !common.IsHexAddress(req.Proposer) {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed proposer address")
	}
	txHash, err := parseHash(req.TxHash)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tx, err := relay.FromWireTransaction(req.Transaction)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid transaction: %s", err))
	}

	signer, data, err := parseSignature(req.Signature)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account := c.account(chainID, common.HexToAddress(req.Account), req.Threshold)

	computed, err := c.hash.Hash(account, *tx)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("could not compute canonical hash: %s", err))
	}
	if computed != txHash {
		return echo.NewHTTPError(http.StatusConflict, fmt.Sprintf("advertised hash does not match canonical hash (advertised: %s, canonical: %s)", txHash.Hex(), computed.Hex()))
	}

	signature := muster.Signature{Signer: signer, Data: data}

	_, err = c.read.Record(txHash)
	if err == nil {
		_, err = c.signatures.Add(txHash, signature)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return ctx.NoContent(http.StatusOK)
	}
	if !errors.Is(err, muster.ErrNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	record := muster.TransactionRecord{
		TxHash:  txHash,
		ChainID: chainID,
		Account: common.HexToAddress(req.Account),
		Tx:      *tx,
		Signatures: muster.SignatureSet{
			signer: signature,
		},
		Status:    muster.StatusSigned,
		CreatedBy: common.HexToAddress(req.Proposer),
		CreatedAt: time.Now().UTC(),
	}
	err = c.write.SaveRecord(&record)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	c.log.Info().
		Hex("tx_hash", txHash[:]).
		Hex("proposer", record.CreatedBy[:]).
		Msg("transaction proposed")

	return ctx.NoContent(http.StatusCreated)
}

// AddSignature folds one signature into an already proposed transaction.
func (c *Controller) AddSignature(ctx echo.Context) error {

	txHash, err := parseHash(ctx.Param("hash"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req relay.SignatureRequest
	err = ctx.Bind(&req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("could not decode request: %s", err))
	}
	err = c.validate.Struct(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid request: %s", err))
	}

	signer, data, err := parseSignature(req.Signature)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	_, err = c.signatures.Merge(txHash, []muster.Signature{{Signer: signer, Data: data}})
	if errors.Is(err, muster.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "unknown transaction hash")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return ctx.NoContent(http.StatusOK)
}

// GetByHash returns the stored transaction with the given hash.
func (c *Controller) GetByHash(ctx echo.Context) error {

	txHash, err := parseHash(ctx.Param("hash"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	record, err := c.read.Record(txHash)
	if errors.Is(err, muster.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "unknown transaction hash")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	entry := relay.ToWireEntry(*record, c.threshold(record.ChainID, record.Account))

	return ctx.JSON(http.StatusOK, entry)
}

// ListTransactions returns a page of the transactions stored for an
// account. By default only live transactions are listed; executed and
// rejected ones are included with ?executed=true.
func (c *Controller) ListTransactions(ctx echo.Context) error {

	chainID, err := strconv.ParseUint(ctx.Param("chain"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("malformed chain identifier: %s", err))
	}
	if !common.IsHexAddress(ctx.Param("address")) {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed account address")
	}
	address := common.HexToAddress(ctx.Param("address"))

	includeExecuted := ctx.QueryParam("executed") == "true"

	offset := uint64(0)
	if raw := ctx.QueryParam("offset"); raw != "" {
		offset, err = strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("malformed offset: %s", err))
		}
	}

	var records []*muster.TransactionRecord
	if includeExecuted {
		records, err = c.read.Records(chainID, address)
	} else {
		records, err = c.read.Pending(chainID, address)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	threshold := c.threshold(chainID, address)

	total := uint64(len(records))
	if offset > total {
		offset = total
	}
	end := offset + defaultPageSize
	if end > total {
		end = total
	}

	results := make([]relay.TransactionEntry, 0, end-offset)
	for _, record := range records[offset:end] {
		results = append(results, relay.ToWireEntry(*record, threshold))
	}

	next := ""
	if end < total {
		next = fmt.Sprintf("/v1/chains/%d/accounts/%s/transactions?executed=%t&offset=%d",
			chainID, address.Hex(), includeExecuted, end)
	}

	response := relay.PendingResponse{
		Count:   uint(total),
		Next:    next,
		Results: results,
	}

	return ctx.JSON(http.StatusOK, response)
}

// account returns the locally stored account when it is known, or a
// synthetic one carrying just the request data otherwise. The synthetic
// account uses the latest contract version, which determines the signing
// domain of the canonical hash.
func (c *Controller) account(chainID uint64, address common.Address, threshold uint64) muster.Account {
	account, err := c.read.Account(chainID, address)
	if err == nil {
		return *account
	}
	return muster.Account{
		ChainID:   chainID,
		Address:   address,
		Version:   muster.LatestVersion,
		Threshold: threshold,
	}
}

func (c *Controller) threshold(chainID uint64, address common.Address) uint64 {
	account, err := c.read.Account(chainID, address)
	if err != nil {
		return 0
	}
	return account.Threshold
}

func parseHash(raw string) (common.Hash, error) {
	data, err := hexutil.Decode(raw)
	if err != nil {
		return common.Hash{}, fmt.Errorf("malformed transaction hash: %w", err)
	}
	if len(data) != common.HashLength {
		return common.Hash{}, fmt.Errorf("wrong transaction hash length (have: %d, want: %d)", len(data), common.HashLength)
	}
	return common.BytesToHash(data), nil
}

func parseSignature(wire relay.WireSignature) (common.Address, []byte, error) {
	if !common.IsHexAddress(wire.Signer) {
		return common.Address{}, nil, fmt.Errorf("malformed signer address")
	}
	data, err := hexutil.Decode(wire.Data)
	if err != nil {
		return common.Address{}, nil, fmt.Errorf("malformed signature data: %w", err)
	}
	return common.HexToAddress(wire.Signer), data, nil
}
