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

type KnowledgeConfig struct {
	BaseURL      string
	APIKey       string
	Model        string
	CollectionID string
	Timeout      time.Duration
}

// KnowledgeClient talks to a secondary Open WebUI-style completion endpoint
// that answers conversational turns from an attached knowledge collection.
// It serves the no-database branch of the chat pipeline.
type KnowledgeClient struct {
	baseURL      string
	apiKey       string
	model        string
	collectionID string
	client       *http.Client
}

func NewKnowledgeClient(cfg KnowledgeConfig) (*KnowledgeClient, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &KnowledgeClient{
		baseURL:      strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:       strings.TrimSpace(cfg.APIKey),
		model:        strings.TrimSpace(cfg.Model),
		collectionID: strings.TrimSpace(cfg.CollectionID),
		client:       &http.Client{Timeout: timeout},
	}, nil
}

func (c *KnowledgeClient) Complete(ctx context.Context, messages []Message) (string, error) {
	start := time.Now()
	defer func() { observability.ObserveCompletionRequest("knowledge", time.Since(start)) }()

	payload := map[string]any{
		"model":    c.model,
		"messages": messages,
	}
	if c.collectionID != "" {
		payload["files"] = []map[string]string{
			{"type": "collection", "id": c.collectionID},
		}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal knowledge payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build knowledge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request knowledge completion: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	rawRespBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read knowledge response body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("knowledge completion failed status=%d body=%s", resp.StatusCode, string(rawRespBody))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(rawRespBody, &parsed); err != nil {
		return "", fmt.Errorf("decode knowledge completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty knowledge completion choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
