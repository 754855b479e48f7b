// Package catalog exposes live structural metadata of the grounded database:
// table listings with comments, column definitions, and one representative
// sample row per table. Nothing is cached; every call reflects the schema and
// data at the moment of the request.
package catalog

import (
	"context"
	"errors"
)

// ErrNoSample reports that a sample row could not be produced for a table.
// Callers must treat it as "absent", never as a pipeline failure.
var ErrNoSample = errors.New("catalog: no sample row")

type Table struct {
	Name        string
	Description string
}

type Column struct {
	Name     string
	DataType string
}

type Reader interface {
	HealthCheck(ctx context.Context) error
	ListTables(ctx context.Context) ([]Table, error)
	ListColumns(ctx context.Context, table string) ([]Column, error)
	// SampleRow returns one row of the named table with values already
	// serialized for prompt embedding, or ErrNoSample when the table has no
	// rows, the name is unknown, or the lookup fails.
	SampleRow(ctx context.Context, table string) (map[string]string, error)
}
