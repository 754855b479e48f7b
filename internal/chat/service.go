package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/askbase/askbase/internal/catalog"
	"github.com/askbase/askbase/internal/llm"
	"github.com/askbase/askbase/internal/observability"
	"github.com/askbase/askbase/internal/query"
)

const (
	routeDatabase = "database"
	routeChat     = "chat"
)

// Service orchestrates one chat turn end to end. All dependencies are
// injected and shared safely across concurrent turns; the service itself
// holds no per-request state.
type Service struct {
	Catalog      catalog.Reader
	Runner       query.Runner
	LLM          llm.Client
	Fallback     llm.Completer
	Logger       *slog.Logger
	ErrorMessage string
	Now          func() time.Time
}

// Respond produces the assistant reply for one turn. It never returns an
// error: every unrecovered failure collapses into the configured generic
// error message.
func (s *Service) Respond(ctx context.Context, turn Turn) string {
	logger := s.logger().With(
		slog.String("turn_id", uuid.NewString()),
		slog.String("trace_id", observability.TraceIDFromContext(ctx)),
	)
	logger.InfoContext(ctx, "turn_received",
		slog.String("query", turn.Query),
		slog.Int("history_len", len(turn.Messages)),
		slog.Bool("has_user_id", turn.UserID != ""),
	)

	classifier := &Classifier{LLM: s.LLM, Logger: logger}
	if !classifier.NeedsDatabase(ctx, turn) {
		observability.ObserveChatTurn(routeChat)
		return s.converse(ctx, logger, turn)
	}
	observability.ObserveChatTurn(routeDatabase)
	return s.answerFromDatabase(ctx, logger, turn)
}

func (s *Service) answerFromDatabase(ctx context.Context, logger *slog.Logger, turn Turn) string {
	tables, err := s.Catalog.ListTables(ctx)
	if err != nil {
		logger.WarnContext(ctx, "list_tables_failed", slog.Any("error", err))
		return s.clarify(ctx, logger, turn)
	}

	narrower := &Narrower{LLM: s.LLM}
	names, err := narrower.RelevantTables(ctx, turn, tables)
	if err != nil {
		logger.WarnContext(ctx, "narrowing_failed", slog.Any("error", err))
		names = nil
	}
	if len(names) == 0 {
		logger.InfoContext(ctx, "no_relevant_tables")
		return s.clarify(ctx, logger, turn)
	}

	grounding, err := buildGrounding(ctx, s.Catalog, names)
	if err != nil || grounding == "" {
		logger.WarnContext(ctx, "grounding_failed", slog.Any("error", err))
		return s.clarify(ctx, logger, turn)
	}

	tool := sqlToolSpec(grounding, turn.UserID, s.now())
	messages := make([]llm.Message, 0, len(turn.Messages)+1)
	messages = append(messages, llm.Message{Role: RoleSystem, Content: analystSystemContent})
	messages = append(messages, toLLMMessages(turn.Messages)...)

	completion, err := s.LLM.CompleteWithTools(ctx, messages, []llm.ToolDefinition{tool})
	if err != nil {
		logger.ErrorContext(ctx, "tool_completion_failed", slog.Any("error", err))
		return s.ErrorMessage
	}
	if strings.TrimSpace(completion.Content) != "" {
		return completion.Content
	}

	sqlText, ok := extractQuery(completion)
	if !ok {
		logger.WarnContext(ctx, "no_usable_tool_call")
		return s.ErrorMessage
	}
	logger.InfoContext(ctx, "generated_sql", slog.String("sql", sqlText))

	result := s.Runner.Run(ctx, sqlText)
	if result.Outcome == query.OutcomeRows {
		return s.synthesize(ctx, logger, turn, result.Payload)
	}
	logger.InfoContext(ctx, "query_without_rows", slog.String("outcome", string(result.Outcome)))
	return s.clarify(ctx, logger, turn)
}

func (s *Service) synthesize(ctx context.Context, logger *slog.Logger, turn Turn, payload string) string {
	answer, err := s.LLM.Complete(ctx, resultMessages(payload, turn.Query))
	if err != nil {
		logger.ErrorContext(ctx, "synthesis_failed", slog.Any("error", err))
		return s.ErrorMessage
	}
	return answer
}

func (s *Service) clarify(ctx context.Context, logger *slog.Logger, turn Turn) string {
	answer, err := s.LLM.Complete(ctx, []llm.Message{
		{Role: RoleUser, Content: clarificationPrompt(turn)},
	})
	if err != nil {
		logger.ErrorContext(ctx, "clarification_failed", slog.Any("error", err))
		return s.ErrorMessage
	}
	return answer
}

func (s *Service) converse(ctx context.Context, logger *slog.Logger, turn Turn) string {
	completer := s.Fallback
	if completer == nil {
		completer = s.LLM
	}
	answer, err := completer.Complete(ctx, toLLMMessages(turn.Messages))
	if err != nil {
		logger.ErrorContext(ctx, "conversation_failed", slog.Any("error", err))
		return s.ErrorMessage
	}
	return answer
}

// extractQuery pulls the SQL string out of the first ask_database tool call.
func extractQuery(completion llm.Completion) (string, bool) {
	for _, call := range completion.ToolCalls {
		if call.Name != sqlToolName {
			continue
		}
		var args struct {
			Query string `json:"query"`
		}
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return "", false
		}
		sqlText := strings.TrimSpace(args.Query)
		if sqlText == "" {
			return "", false
		}
		return sqlText, true
	}
	return "", false
}

func toLLMMessages(messages []Message) []llm.Message {
	converted := make([]llm.Message, 0, len(messages))
	for _, message := range messages {
		converted = append(converted, llm.Message{Role: message.Role, Content: message.Content})
	}
	return converted
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
