package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/askbase/askbase/internal/catalog"
)

func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func assertSQLMock(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}

func expectListTables(mock sqlmock.Sqlmock, schema string) *sqlmock.ExpectedQuery {
	return mock.ExpectQuery(regexp.QuoteMeta(listTablesQuery)).WithArgs(schema)
}

func TestListTables(t *testing.T) {
	db, mock := newSQLMock(t)
	expectListTables(mock, "public").WillReturnRows(
		sqlmock.NewRows([]string{"relname", "description"}).
			AddRow("invoices", "Customer invoices").
			AddRow("payments", ""),
	)

	reader := NewReader(db, "public")
	tables, err := reader.ListTables(context.Background())
	if err != nil {
		t.Fatalf("ListTables() error = %v", err)
	}
	if len(tables) != 2 {
		t.Fatalf("ListTables() returned %d tables, want 2", len(tables))
	}
	if tables[0].Name != "invoices" || tables[0].Description != "Customer invoices" {
		t.Fatalf("unexpected first table: %+v", tables[0])
	}
	if tables[1].Name != "payments" || tables[1].Description != "" {
		t.Fatalf("unexpected second table: %+v", tables[1])
	}
	assertSQLMock(t, mock)
}

func TestListTablesQueryError(t *testing.T) {
	db, mock := newSQLMock(t)
	expectListTables(mock, "public").WillReturnError(errors.New("boom"))

	reader := NewReader(db, "public")
	if _, err := reader.ListTables(context.Background()); err == nil {
		t.Fatal("ListTables() expected error")
	}
	assertSQLMock(t, mock)
}

func TestListColumns(t *testing.T) {
	db, mock := newSQLMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(listColumnsQuery)).
		WithArgs("public", "invoices").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type"}).
			AddRow("id", "integer").
			AddRow("amount", "numeric").
			AddRow("created_at", "timestamp with time zone"))

	reader := NewReader(db, "public")
	columns, err := reader.ListColumns(context.Background(), "invoices")
	if err != nil {
		t.Fatalf("ListColumns() error = %v", err)
	}
	if len(columns) != 3 {
		t.Fatalf("ListColumns() returned %d columns, want 3", len(columns))
	}
	if columns[1].Name != "amount" || columns[1].DataType != "numeric" {
		t.Fatalf("unexpected column: %+v", columns[1])
	}
	assertSQLMock(t, mock)
}

func TestSampleRow(t *testing.T) {
	db, mock := newSQLMock(t)
	expectListTables(mock, "public").WillReturnRows(
		sqlmock.NewRows([]string{"relname", "description"}).AddRow("invoices", ""),
	)
	created := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "public"."invoices" LIMIT 1`)).
		WillReturnRows(sqlmock.NewRowsWithColumnDefinition(
			sqlmock.NewColumn("id").OfType("INT8", int64(0)),
			sqlmock.NewColumn("amount").OfType("NUMERIC", float64(0)),
			sqlmock.NewColumn("created_at").OfType("TIMESTAMPTZ", time.Time{}),
		).AddRow(int64(7), float64(123456), created))

	reader := NewReader(db, "public")
	sample, err := reader.SampleRow(context.Background(), "invoices")
	if err != nil {
		t.Fatalf("SampleRow() error = %v", err)
	}
	if sample["id"] != "7" {
		t.Fatalf("sample id = %q", sample["id"])
	}
	if sample["amount"] != "1.23L" {
		t.Fatalf("sample amount = %q", sample["amount"])
	}
	if sample["created_at"] != "2026-03-15T09:30:00Z" {
		t.Fatalf("sample created_at = %q", sample["created_at"])
	}
	assertSQLMock(t, mock)
}

func TestSampleRowUnknownTable(t *testing.T) {
	db, mock := newSQLMock(t)
	expectListTables(mock, "public").WillReturnRows(
		sqlmock.NewRows([]string{"relname", "description"}).AddRow("invoices", ""),
	)

	reader := NewReader(db, "public")
	if _, err := reader.SampleRow(context.Background(), "secrets; DROP TABLE invoices"); !errors.Is(err, catalog.ErrNoSample) {
		t.Fatalf("SampleRow() error = %v, want ErrNoSample", err)
	}
	assertSQLMock(t, mock)
}

func TestSampleRowEmptyTable(t *testing.T) {
	db, mock := newSQLMock(t)
	expectListTables(mock, "public").WillReturnRows(
		sqlmock.NewRows([]string{"relname", "description"}).AddRow("invoices", ""),
	)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "public"."invoices" LIMIT 1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	reader := NewReader(db, "public")
	if _, err := reader.SampleRow(context.Background(), "invoices"); !errors.Is(err, catalog.ErrNoSample) {
		t.Fatalf("SampleRow() error = %v, want ErrNoSample", err)
	}
	assertSQLMock(t, mock)
}

func TestSampleRowQueryErrorDegrades(t *testing.T) {
	db, mock := newSQLMock(t)
	expectListTables(mock, "public").WillReturnRows(
		sqlmock.NewRows([]string{"relname", "description"}).AddRow("invoices", ""),
	)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "public"."invoices" LIMIT 1`)).
		WillReturnError(errors.New("permission denied"))

	reader := NewReader(db, "public")
	if _, err := reader.SampleRow(context.Background(), "invoices"); !errors.Is(err, catalog.ErrNoSample) {
		t.Fatalf("SampleRow() error = %v, want ErrNoSample", err)
	}
	assertSQLMock(t, mock)
}
