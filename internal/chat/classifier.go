package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/askbase/askbase/internal/llm"
	"github.com/askbase/askbase/internal/observability"
)

// Classifier decides whether a turn needs a database lookup at all. Any
// failure on the way degrades to "no": a broken classifier must never take
// the pipeline down, and not touching the database is the safe direction.
type Classifier struct {
	LLM    llm.Client
	Logger *slog.Logger
}

func (c *Classifier) NeedsDatabase(ctx context.Context, turn Turn) bool {
	content, err := c.LLM.CompleteJSON(ctx, []llm.Message{
		{Role: RoleUser, Content: decisionPrompt(turn)},
	})
	if err != nil {
		c.fallback(ctx, "completion_failed", err)
		return false
	}

	var decision struct {
		NeedsDatabase string `json:"needsDatabase"`
	}
	if err := json.Unmarshal([]byte(stripFences(content)), &decision); err != nil {
		c.fallback(ctx, "parse_failed", err)
		return false
	}
	return strings.EqualFold(strings.TrimSpace(decision.NeedsDatabase), "yes")
}

func (c *Classifier) fallback(ctx context.Context, reason string, err error) {
	observability.IncrementClassifierFallback()
	if c.Logger != nil {
		c.Logger.WarnContext(ctx, "classifier_fallback",
			slog.String("reason", reason),
			slog.Any("error", err),
		)
	}
}

// stripFences removes a markdown code fence that some models wrap around
// json_object responses.
func stripFences(value string) string {
	trimmed := strings.TrimSpace(value)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}
