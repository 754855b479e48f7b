package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/askbase/askbase/internal/catalog"
)

// buildGrounding renders the narrowed tables into the descriptive text block
// that steers the SQL tool call. Column listings are required; a missing
// sample row only omits the Sample Row section of its table, never the
// assembly of the others.
func buildGrounding(ctx context.Context, reader catalog.Reader, tables []string) (string, error) {
	blocks := make([]string, 0, len(tables))
	for _, table := range tables {
		columns, err := reader.ListColumns(ctx, table)
		if err != nil {
			return "", fmt.Errorf("columns for %s: %w", table, err)
		}
		if len(columns) == 0 {
			continue
		}

		var block strings.Builder
		fmt.Fprintf(&block, "Table: %s\n", table)
		block.WriteString("Columns:\n")
		for _, column := range columns {
			fmt.Fprintf(&block, "  - %s (%s)\n", column.Name, column.DataType)
		}

		sample, err := reader.SampleRow(ctx, table)
		if err == nil && len(sample) > 0 {
			block.WriteString("Sample Row:\n")
			for _, column := range columns {
				value, ok := sample[column.Name]
				if !ok {
					continue
				}
				fmt.Fprintf(&block, "  - %s: %s\n", column.Name, value)
			}
		}

		blocks = append(blocks, strings.TrimRight(block.String(), "\n"))
	}
	return strings.Join(blocks, "\n\n"), nil
}
