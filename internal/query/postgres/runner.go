package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/askbase/askbase/internal/observability"
	"github.com/askbase/askbase/internal/query"
)

// Runner executes model-generated SQL against the live database through the
// shared connection pool. It never surfaces an error: execution problems
// become OutcomeFailed results so a bad query degrades the chat turn instead
// of aborting it.
type Runner struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewRunner(db *sql.DB, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{db: db, logger: logger}
}

func (r *Runner) Run(ctx context.Context, sqlText string) query.Result {
	start := time.Now()
	result := r.run(ctx, sqlText)
	result.Duration = time.Since(start)
	observability.ObserveSQLExecution(string(result.Outcome), result.Duration)
	if result.Outcome == query.OutcomeFailed {
		r.logger.WarnContext(ctx, "sql_execution_failed",
			slog.String("trace_id", observability.TraceIDFromContext(ctx)),
			slog.String("sql", sqlText),
		)
	}
	return result
}

func (r *Runner) run(ctx context.Context, sqlText string) query.Result {
	rows, err := r.db.QueryContext(ctx, sqlText)
	if err != nil {
		return query.Result{Outcome: query.OutcomeFailed}
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return query.Result{Outcome: query.OutcomeFailed}
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return query.Result{Outcome: query.OutcomeFailed}
	}

	records := make([]map[string]string, 0)
	values := make([]any, len(columns))
	targets := make([]any, len(columns))
	for i := range values {
		targets[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(targets...); err != nil {
			return query.Result{Outcome: query.OutcomeFailed}
		}
		record := make(map[string]string, len(columns))
		for i, name := range columns {
			record[name] = query.RenderValue(values[i], types[i].DatabaseTypeName())
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return query.Result{Outcome: query.OutcomeFailed}
	}

	payload, err := json.Marshal(records)
	if err != nil {
		return query.Result{Outcome: query.OutcomeFailed}
	}

	outcome := query.OutcomeRows
	if len(records) == 0 {
		outcome = query.OutcomeEmpty
	}
	return query.Result{
		Outcome:  outcome,
		Payload:  string(payload),
		RowCount: len(records),
	}
}
