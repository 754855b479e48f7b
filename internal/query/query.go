// Package query executes model-generated read queries and serializes their
// result sets into a prompt-safe text form.
package query

import (
	"context"
	"time"
)

// Outcome discriminates a legitimately empty result set from an execution
// failure. Keeping them apart lets callers log and count them separately
// even when they route to the same user-facing reply.
type Outcome string

const (
	OutcomeRows   Outcome = "rows"
	OutcomeEmpty  Outcome = "empty"
	OutcomeFailed Outcome = "failed"
)

// Result carries the serialized rows of one execution. Payload is a JSON
// array of field-name to rendered-value objects; it is empty exactly when
// Outcome is OutcomeFailed.
type Result struct {
	Outcome  Outcome
	Payload  string
	RowCount int
	Duration time.Duration
}

// Runner executes one read query. Execution failures are reported through
// OutcomeFailed, never as an error value.
type Runner interface {
	Run(ctx context.Context, sqlText string) Result
}
