// Package llm wraps an OpenAI-compatible chat-completion endpoint with the
// three invocation modes the chat pipeline needs: plain completions,
// json_object-constrained completions, and tool-calling completions.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/askbase/askbase/internal/observability"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ToolCall struct {
	Name      string
	Arguments string
}

// Completion is the model's answer to a tool-calling request: either
// free-text content, or one or more structured tool invocations.
type Completion struct {
	Content   string
	ToolCalls []ToolCall
}

type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

type Client interface {
	Completer
	CompleteJSON(ctx context.Context, messages []Message) (string, error)
	CompleteWithTools(ctx context.Context, messages []Message, tools []ToolDefinition) (Completion, error)
}

type OpenAIConfig struct {
	BaseURL     string
	APIKey      string
	ToolModel   string
	ChatModel   string
	Temperature float64
	Timeout     time.Duration
}

type OpenAIClient struct {
	baseURL     string
	apiKey      string
	toolModel   string
	chatModel   string
	temperature float64
	client      *http.Client
}

func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}
	toolModel := strings.TrimSpace(cfg.ToolModel)
	if toolModel == "" {
		toolModel = "gpt-5"
	}
	chatModel := strings.TrimSpace(cfg.ChatModel)
	if chatModel == "" {
		chatModel = toolModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenAIClient{
		baseURL:     strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:      strings.TrimSpace(cfg.APIKey),
		toolModel:   toolModel,
		chatModel:   chatModel,
		temperature: cfg.Temperature,
		client:      &http.Client{Timeout: timeout},
	}, nil
}

func (c *OpenAIClient) Complete(ctx context.Context, messages []Message) (string, error) {
	message, err := c.post(ctx, "chat", map[string]any{
		"model":       c.chatModel,
		"messages":    messages,
		"temperature": c.temperature,
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(message.Content) == "" {
		return "", fmt.Errorf("model returned empty content")
	}
	return message.Content, nil
}

func (c *OpenAIClient) CompleteJSON(ctx context.Context, messages []Message) (string, error) {
	message, err := c.post(ctx, "json", map[string]any{
		"model":           c.toolModel,
		"messages":        messages,
		"temperature":     c.temperature,
		"response_format": map[string]string{"type": "json_object"},
	})
	if err != nil {
		return "", err
	}
	return message.Content, nil
}

func (c *OpenAIClient) CompleteWithTools(ctx context.Context, messages []Message, tools []ToolDefinition) (Completion, error) {
	wrapped := make([]map[string]any, 0, len(tools))
	for _, tool := range tools {
		wrapped = append(wrapped, map[string]any{
			"type":     "function",
			"function": tool,
		})
	}
	message, err := c.post(ctx, "tools", map[string]any{
		"model":       c.toolModel,
		"messages":    messages,
		"temperature": c.temperature,
		"tools":       wrapped,
	})
	if err != nil {
		return Completion{}, err
	}

	completion := Completion{Content: message.Content}
	for _, call := range message.ToolCalls {
		completion.ToolCalls = append(completion.ToolCalls, ToolCall{
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}
	return completion, nil
}

type wireMessage struct {
	Content   string `json:"content"`
	ToolCalls []struct {
		Function struct {
			Name      string `json:"name"`
			Arguments string `json:"arguments"`
		} `json:"function"`
	} `json:"tool_calls"`
}

func (c *OpenAIClient) post(ctx context.Context, mode string, payload map[string]any) (wireMessage, error) {
	start := time.Now()
	defer func() { observability.ObserveCompletionRequest(mode, time.Since(start)) }()

	body, err := json.Marshal(payload)
	if err != nil {
		return wireMessage{}, fmt.Errorf("marshal chat payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return wireMessage{}, fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return wireMessage{}, fmt.Errorf("request chat completion: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	rawRespBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return wireMessage{}, fmt.Errorf("read chat response body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return wireMessage{}, fmt.Errorf("chat completion failed status=%d body=%s", resp.StatusCode, string(rawRespBody))
	}

	var parsed struct {
		Choices []struct {
			Message wireMessage `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(rawRespBody, &parsed); err != nil {
		return wireMessage{}, fmt.Errorf("decode chat completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return wireMessage{}, fmt.Errorf("empty chat completion choices")
	}
	return parsed.Choices[0].Message, nil
}
