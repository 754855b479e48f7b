package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/askbase/askbase/internal/catalog"
	"github.com/askbase/askbase/internal/query"
)

const listTablesQuery = `
SELECT c.relname, COALESCE(obj_description(c.oid, 'pg_class'), '')
FROM pg_class c
JOIN pg_namespace n ON n.oid = c.relnamespace
WHERE n.nspname = $1 AND c.relkind = 'r'
ORDER BY c.relname ASC`

const listColumnsQuery = `
SELECT column_name, data_type
FROM information_schema.columns
WHERE table_schema = $1 AND table_name = $2
ORDER BY ordinal_position ASC`

// Reader introspects one schema of a live Postgres database. Table and
// column listings are parameterized on the schema name; the sample-row query
// interpolates a table name, so it only ever accepts names the listing
// itself returned.
type Reader struct {
	db     *sql.DB
	schema string
}

func NewReader(db *sql.DB, schema string) *Reader {
	return &Reader{db: db, schema: schema}
}

func (r *Reader) HealthCheck(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

func (r *Reader) ListTables(ctx context.Context) ([]catalog.Table, error) {
	rows, err := r.db.QueryContext(ctx, listTablesQuery, r.schema)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tables := make([]catalog.Table, 0)
	for rows.Next() {
		var table catalog.Table
		if err := rows.Scan(&table.Name, &table.Description); err != nil {
			return nil, fmt.Errorf("scan table row: %w", err)
		}
		tables = append(tables, table)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate table rows: %w", err)
	}
	return tables, nil
}

func (r *Reader) ListColumns(ctx context.Context, table string) ([]catalog.Column, error) {
	rows, err := r.db.QueryContext(ctx, listColumnsQuery, r.schema, table)
	if err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns := make([]catalog.Column, 0)
	for rows.Next() {
		var column catalog.Column
		if err := rows.Scan(&column.Name, &column.DataType); err != nil {
			return nil, fmt.Errorf("scan column row: %w", err)
		}
		columns = append(columns, column)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate column rows: %w", err)
	}
	return columns, nil
}

// SampleRow previews one row of the named table. The name is checked against
// the catalog's own listing before it is interpolated as a quoted identifier;
// any failure on the way degrades to ErrNoSample so schema assembly can carry
// on without the sample.
func (r *Reader) SampleRow(ctx context.Context, table string) (map[string]string, error) {
	known, err := r.ListTables(ctx)
	if err != nil {
		return nil, catalog.ErrNoSample
	}
	if !containsTable(known, table) {
		return nil, catalog.ErrNoSample
	}

	rows, err := r.db.QueryContext(ctx, "SELECT * FROM "+quoteIdent(r.schema)+"."+quoteIdent(table)+" LIMIT 1")
	if err != nil {
		return nil, catalog.ErrNoSample
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, catalog.ErrNoSample
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, catalog.ErrNoSample
	}
	if !rows.Next() {
		return nil, catalog.ErrNoSample
	}

	values := make([]any, len(columns))
	targets := make([]any, len(columns))
	for i := range values {
		targets[i] = &values[i]
	}
	if err := rows.Scan(targets...); err != nil {
		return nil, catalog.ErrNoSample
	}

	sample := make(map[string]string, len(columns))
	for i, name := range columns {
		sample[name] = query.RenderValue(values[i], types[i].DatabaseTypeName())
	}
	return sample, nil
}

func containsTable(tables []catalog.Table, name string) bool {
	for _, table := range tables {
		if table.Name == name {
			return true
		}
	}
	return false
}

func quoteIdent(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}
