package domain

import "errors"

// Domain errors represent error conditions in txnload.
// They are wrapped with context by the returning layer; check with errors.Is.
var (
	// ErrFileNotFound is returned when the input file does not exist.
	ErrFileNotFound = errors.New("txnload: input file not found")

	// ErrParse is returned when the input file is not a JSON array of objects.
	ErrParse = errors.New("txnload: parse error")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("txnload: invalid configuration")

	// ErrRetriesExhausted is returned when unprocessed items remain after the
	// retry policy gave up.
	ErrRetriesExhausted = errors.New("txnload: retries exhausted")
)
