package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/askbase/askbase/internal/catalog"
)

func TestBuildGrounding(t *testing.T) {
	reader := &fakeCatalog{
		listColumnsFn: func(_ context.Context, table string) ([]catalog.Column, error) {
			if table != "invoices" {
				t.Fatalf("unexpected table %q", table)
			}
			return []catalog.Column{
				{Name: "id", DataType: "integer"},
				{Name: "amount", DataType: "numeric"},
			}, nil
		},
		sampleRowFn: func(context.Context, string) (map[string]string, error) {
			return map[string]string{"id": "1", "amount": "1.23K"}, nil
		},
	}

	grounding, err := buildGrounding(context.Background(), reader, []string{"invoices"})
	if err != nil {
		t.Fatalf("buildGrounding() error = %v", err)
	}
	want := "Table: invoices\nColumns:\n  - id (integer)\n  - amount (numeric)\nSample Row:\n  - id: 1\n  - amount: 1.23K"
	if grounding != want {
		t.Fatalf("buildGrounding() =\n%s\nwant:\n%s", grounding, want)
	}
}

func TestBuildGroundingOmitsSampleOnError(t *testing.T) {
	reader := &fakeCatalog{
		listColumnsFn: func(context.Context, string) ([]catalog.Column, error) {
			return []catalog.Column{{Name: "id", DataType: "integer"}}, nil
		},
		sampleRowFn: func(context.Context, string) (map[string]string, error) {
			return nil, catalog.ErrNoSample
		},
	}

	grounding, err := buildGrounding(context.Background(), reader, []string{"invoices"})
	if err != nil {
		t.Fatalf("buildGrounding() error = %v", err)
	}
	if strings.Contains(grounding, "Sample Row") {
		t.Fatalf("grounding should omit sample section:\n%s", grounding)
	}
	if !strings.Contains(grounding, "Table: invoices") {
		t.Fatalf("grounding missing table block:\n%s", grounding)
	}
}

func TestBuildGroundingSkipsEmptyTables(t *testing.T) {
	reader := &fakeCatalog{
		listColumnsFn: func(_ context.Context, table string) ([]catalog.Column, error) {
			if table == "ghost" {
				return nil, nil
			}
			return []catalog.Column{{Name: "id", DataType: "integer"}}, nil
		},
	}

	grounding, err := buildGrounding(context.Background(), reader, []string{"ghost", "invoices"})
	if err != nil {
		t.Fatalf("buildGrounding() error = %v", err)
	}
	if strings.Contains(grounding, "ghost") {
		t.Fatalf("grounding should skip zero-column tables:\n%s", grounding)
	}
}

func TestBuildGroundingSurvivesOneFailedSample(t *testing.T) {
	reader := &fakeCatalog{
		listColumnsFn: func(context.Context, string) ([]catalog.Column, error) {
			return []catalog.Column{{Name: "id", DataType: "integer"}}, nil
		},
		sampleRowFn: func(_ context.Context, table string) (map[string]string, error) {
			if table == "payments" {
				return nil, catalog.ErrNoSample
			}
			return map[string]string{"id": "1"}, nil
		},
	}

	grounding, err := buildGrounding(context.Background(), reader, []string{"invoices", "payments"})
	if err != nil {
		t.Fatalf("buildGrounding() error = %v", err)
	}
	if !strings.Contains(grounding, "Table: invoices") || !strings.Contains(grounding, "Table: payments") {
		t.Fatalf("grounding missing a table block:\n%s", grounding)
	}
	if strings.Count(grounding, "Sample Row:") != 1 {
		t.Fatalf("expected exactly one sample section:\n%s", grounding)
	}
}

func TestBuildGroundingColumnsError(t *testing.T) {
	reader := &fakeCatalog{
		listColumnsFn: func(context.Context, string) ([]catalog.Column, error) {
			return nil, errors.New("connection reset")
		},
	}
	if _, err := buildGrounding(context.Background(), reader, []string{"invoices"}); err == nil {
		t.Fatal("buildGrounding() expected error")
	}
}

func TestBuildGroundingJoinsBlocks(t *testing.T) {
	reader := &fakeCatalog{
		listColumnsFn: func(context.Context, string) ([]catalog.Column, error) {
			return []catalog.Column{{Name: "id", DataType: "integer"}}, nil
		},
	}

	grounding, err := buildGrounding(context.Background(), reader, []string{"a", "b"})
	if err != nil {
		t.Fatalf("buildGrounding() error = %v", err)
	}
	if !strings.Contains(grounding, "\n\nTable: b") {
		t.Fatalf("blocks not joined by blank line:\n%s", grounding)
	}
}
