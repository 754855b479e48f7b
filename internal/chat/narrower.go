package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/askbase/askbase/internal/catalog"
	"github.com/askbase/askbase/internal/llm"
)

// Narrower reduces the full table listing to the subset relevant for the
// current query, so the grounding string stays small on wide schemas.
type Narrower struct {
	LLM llm.Client
}

// RelevantTables asks the model for a comma-separated list of table names
// and filters the reply against the catalog listing: a name the catalog
// never returned is dropped, whatever the model claims.
func (n *Narrower) RelevantTables(ctx context.Context, turn Turn, tables []catalog.Table) ([]string, error) {
	var listing strings.Builder
	for _, table := range tables {
		description := table.Description
		if description == "" {
			description = "no description"
		}
		fmt.Fprintf(&listing, "- %s: %s\n", table.Name, description)
	}

	content, err := n.LLM.Complete(ctx, []llm.Message{
		{Role: RoleUser, Content: narrowingPrompt(turn, strings.TrimRight(listing.String(), "\n"))},
	})
	if err != nil {
		return nil, fmt.Errorf("narrow tables: %w", err)
	}

	return filterTableNames(content, tables), nil
}

func filterTableNames(reply string, tables []catalog.Table) []string {
	byLower := make(map[string]string, len(tables))
	for _, table := range tables {
		byLower[strings.ToLower(table.Name)] = table.Name
	}

	names := make([]string, 0)
	seen := make(map[string]bool)
	for _, field := range strings.FieldsFunc(reply, func(r rune) bool { return r == ',' || r == '\n' }) {
		candidate := strings.ToLower(strings.Trim(strings.TrimSpace(field), "`'\". "))
		name, ok := byLower[candidate]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
