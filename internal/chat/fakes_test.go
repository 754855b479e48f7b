package chat

import (
	"context"
	"errors"

	"github.com/askbase/askbase/internal/catalog"
	"github.com/askbase/askbase/internal/llm"
	"github.com/askbase/askbase/internal/query"
)

type fakeLLM struct {
	completeFn          func(ctx context.Context, messages []llm.Message) (string, error)
	completeJSONFn      func(ctx context.Context, messages []llm.Message) (string, error)
	completeWithToolsFn func(ctx context.Context, messages []llm.Message, tools []llm.ToolDefinition) (llm.Completion, error)
}

func (f *fakeLLM) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	if f.completeFn == nil {
		return "", errors.New("unexpected Complete call")
	}
	return f.completeFn(ctx, messages)
}

func (f *fakeLLM) CompleteJSON(ctx context.Context, messages []llm.Message) (string, error) {
	if f.completeJSONFn == nil {
		return "", errors.New("unexpected CompleteJSON call")
	}
	return f.completeJSONFn(ctx, messages)
}

func (f *fakeLLM) CompleteWithTools(ctx context.Context, messages []llm.Message, tools []llm.ToolDefinition) (llm.Completion, error) {
	if f.completeWithToolsFn == nil {
		return llm.Completion{}, errors.New("unexpected CompleteWithTools call")
	}
	return f.completeWithToolsFn(ctx, messages, tools)
}

type fakeCatalog struct {
	listTablesFn  func(ctx context.Context) ([]catalog.Table, error)
	listColumnsFn func(ctx context.Context, table string) ([]catalog.Column, error)
	sampleRowFn   func(ctx context.Context, table string) (map[string]string, error)
	calls         int
}

func (f *fakeCatalog) HealthCheck(context.Context) error { return nil }

func (f *fakeCatalog) ListTables(ctx context.Context) ([]catalog.Table, error) {
	f.calls++
	if f.listTablesFn == nil {
		return nil, errors.New("unexpected ListTables call")
	}
	return f.listTablesFn(ctx)
}

func (f *fakeCatalog) ListColumns(ctx context.Context, table string) ([]catalog.Column, error) {
	f.calls++
	if f.listColumnsFn == nil {
		return nil, errors.New("unexpected ListColumns call")
	}
	return f.listColumnsFn(ctx, table)
}

func (f *fakeCatalog) SampleRow(ctx context.Context, table string) (map[string]string, error) {
	f.calls++
	if f.sampleRowFn == nil {
		return nil, catalog.ErrNoSample
	}
	return f.sampleRowFn(ctx, table)
}

type fakeRunner struct {
	runFn func(ctx context.Context, sqlText string) query.Result
	calls int
}

func (f *fakeRunner) Run(ctx context.Context, sqlText string) query.Result {
	f.calls++
	if f.runFn == nil {
		return query.Result{Outcome: query.OutcomeFailed}
	}
	return f.runFn(ctx, sqlText)
}

type fakeFallback struct {
	completeFn func(ctx context.Context, messages []llm.Message) (string, error)
	calls      int
}

func (f *fakeFallback) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	f.calls++
	if f.completeFn == nil {
		return "", errors.New("unexpected fallback Complete call")
	}
	return f.completeFn(ctx, messages)
}
