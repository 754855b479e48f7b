package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/askbase/askbase/internal/llm"
)

const sqlToolName = "ask_database"

// sqlToolSpec builds the single-function contract handed to the tool-calling
// completion. The parameter description is the steering channel: it embeds
// the live grounding text, the user-scoping hint, and the current date, so
// the spec must be rebuilt for every request and never shared.
func sqlToolSpec(grounding, userID string, today time.Time) llm.ToolDefinition {
	var description strings.Builder
	description.WriteString("SQL query extracting info to answer the user's question.\n")
	fmt.Fprintf(&description, "- Strictly use column names and table names explicitly defined in this database information: %s\n", grounding)
	description.WriteString("- Never reference or assume any columns or tables outside of this information.\n")
	if userID != "" {
		fmt.Fprintf(&description, "- If the question pertains to user-specific data, include `WHERE user_id = %s` in the query.\n", userID)
	}
	fmt.Fprintf(&description, "- Today's date is: %s\n", today.Format("2006-01-02"))
	description.WriteString("- The query should be returned in plain text, not in JSON.")

	return llm.NewToolDefinition(
		sqlToolName,
		"Use this function to answer user questions about production data. Input should be a fully formed SQL query.",
		map[string]llm.ParameterProperty{
			"query": {
				Type:        "string",
				Description: description.String(),
			},
		},
		[]string{"query"},
	)
}
