package synchronizer

import (
	"github.com/ethereum/go-ethereum/common"
)

// PullResult summarizes one pull from the relay: how many remote entries
// were imported as new records, how many updated existing records with new
// signatures and how many brought nothing new. Failures carry the error of
// each remote entry that could not be processed; they never abort the rest
// of the pull.
type PullResult struct {
	Imported uint
	Updated  uint
	Skipped  uint
	Failures []PullFailure
}

// PullFailure is the error encountered while processing one remote entry.
type PullFailure struct {
	TxHash common.Hash
	Err    error
}
