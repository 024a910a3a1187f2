package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"brew-backend/internal/llm"
	"brew-backend/internal/shared/telemetry"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"
)

// Client implements llm.Client using the Anthropic Messages API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Messages    []message `json:"messages"`
	System      string    `json:"system,omitempty"`
	Temperature float64   `json:"temperature"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
	Usage      *struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type errorResponse struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient builds a client. An empty baseURL targets the public API.
// The HTTP timeout is only a backstop; callers bound each call with ctx.
func NewClient(apiKey, baseURL, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for Anthropic")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// Complete sends one Messages request and returns its content blocks.
func (c *Client) Complete(ctx context.Context, in llm.Request) (llm.Response, error) {
	reqBody := messagesRequest{
		Model:       c.model,
		MaxTokens:   in.MaxTokens,
		System:      in.System,
		Temperature: in.Temperature,
		Messages: []message{
			{Role: "user", Content: in.Prompt},
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return llm.Response{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return llm.Response{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-Key", c.apiKey)
	httpReq.Header.Set("Anthropic-Version", apiVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return llm.Response{}, fmt.Errorf("anthropic request timeout: %w", err)
		}
		return llm.Response{}, fmt.Errorf("anthropic request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := llm.ReadBody(resp.Body)
	if err != nil {
		return llm.Response{}, err
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
			return llm.Response{}, fmt.Errorf("anthropic http status %d: %s", resp.StatusCode, errResp.Error.Message)
		}
		return llm.Response{}, fmt.Errorf("anthropic http status %d", resp.StatusCode)
	}

	var parsed messagesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return llm.Response{}, fmt.Errorf("parse response: %w", err)
	}

	out := llm.Response{Model: parsed.Model}
	for _, block := range parsed.Content {
		out.Content = append(out.Content, llm.ContentBlock{Type: block.Type, Text: block.Text})
	}
	if parsed.Usage != nil {
		out.Usage = &llm.Usage{
			InputTokens:  parsed.Usage.InputTokens,
			OutputTokens: parsed.Usage.OutputTokens,
		}
	}

	fields := map[string]any{
		"provider":    "anthropic",
		"model":       c.model,
		"stop_reason": parsed.StopReason,
		"blocks":      len(out.Content),
	}
	if out.Usage != nil {
		fields["input_tokens"] = out.Usage.InputTokens
		fields["output_tokens"] = out.Usage.OutputTokens
	}
	telemetry.Info("llm.response", fields)
	return out, nil
}

var _ llm.Client = (*Client)(nil)
