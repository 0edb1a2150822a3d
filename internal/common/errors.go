// Package common defines sentinel errors shared by the CabinKeeper layers.
// Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors.
	ErrPersist = errors.New("persist failed")
	ErrInvalid = errors.New("invalid value")
)
