package muster

import (
	"errors"
)

// Sentinel errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
)
