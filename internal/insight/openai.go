// Package insight extracts marketing keywords from collected content titles
// through an OpenAI-compatible chat-completions API. The whole package is
// best-effort: callers treat any failure as an empty result.
package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"trendwatch/internal/config"
)

const systemPrompt = "You are a trend analysis and marketing expert."

const promptTemplate = `The following are titles of currently popular contents.
Analyze them and extract core keywords usable for marketing and content production.

Requirements:
1. Extract single words or short phrases
2. Prioritize keywords with high marketing value
3. Remove duplicates
4. At most %d keywords
5. Separate keywords with commas
6. Respond with the keyword list only, no explanations

Content titles:
%s

Marketing keywords:`

// Client calls an OpenAI-compatible chat-completions endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
	model      string
	apiKey     string
	logger     *slog.Logger
}

func NewClient(cfg config.OpenAIConfig, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   cfg.Endpoint,
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		logger:     logger.With("component", "insight"),
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// ExtractMarketingKeywords asks the model for up to maxCount keywords over
// the given titles. Returns nil with no error when there is nothing to do.
func (c *Client) ExtractMarketingKeywords(ctx context.Context, titles []string, maxCount int) ([]string, error) {
	if len(titles) == 0 {
		return nil, nil
	}
	if c.apiKey == "" {
		return nil, fmt.Errorf("openai client misconfigured: missing api key")
	}

	prompt := fmt.Sprintf(promptTemplate, maxCount, strings.Join(titles, "\n"))

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.3,
		MaxTokens:   200,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("chat completion %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var completion chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("empty completion")
	}

	keywords := splitKeywords(completion.Choices[0].Message.Content, maxCount)
	c.logger.Debug("extracted marketing keywords", "count", len(keywords))
	return keywords, nil
}

func splitKeywords(content string, maxCount int) []string {
	parts := strings.Split(content, ",")
	keywords := make([]string, 0, len(parts))
	for _, part := range parts {
		kw := strings.TrimSpace(part)
		if kw == "" {
			continue
		}
		keywords = append(keywords, kw)
		if len(keywords) == maxCount {
			break
		}
	}
	return keywords
}
