// Package common defines shared sentinel errors and small random helpers
// used by the ingestion and inbox services. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Request-level errors.
	ErrorInvalidRequest = errors.New("invalid request")
)
