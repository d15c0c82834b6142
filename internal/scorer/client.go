// Package scorer sends description batches to an OpenAI compatible chat
// completions endpoint and parses the per-description criterion scores.
package scorer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/douremember/internal/contract"
	"github.com/huangsam/douremember/schema"
)

// maxErrorBody caps how much of a failed response is kept in APIError.
const maxErrorBody = 512

// APIError is a non-2xx response from the completions endpoint.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("scorer API error %d: %s", e.StatusCode, e.Body)
}

// Options configures a Client.
type Options struct {
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	Temperature float64
	HTTPClient  *http.Client // overrides Timeout when set
}

// Client is an OpenAI compatible chat completions scorer.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	httpClient  *http.Client
}

var _ contract.Scorer = &Client{} // Compile-time check

// NewClient creates a Client, filling defaults for empty options.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = contract.DefaultScorerBaseURL
	}
	if opts.Model == "" {
		opts.Model = contract.DefaultScorerModel
	}
	if opts.Timeout <= 0 {
		opts.Timeout = contract.DefaultScorerTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		apiKey:      opts.APIKey,
		model:       opts.Model,
		temperature: opts.Temperature,
		httpClient:  httpClient,
	}
}

// NewClientFromConfig creates a Client from the application config.
func NewClientFromConfig(cfg *contract.Config) *Client {
	return NewClient(Options{
		BaseURL:     cfg.ScorerBaseURL,
		APIKey:      cfg.ScorerAPIKey,
		Model:       cfg.ScorerModel,
		Timeout:     cfg.ScorerTimeout,
		Temperature: cfg.ScorerTemperature,
	})
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Store       bool          `json:"store"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Score evaluates every pair with a single completion request.
func (c *Client) Score(ctx context.Context, pairs []schema.DescriptionPair) ([]schema.CriterionScores, error) {
	if len(pairs) == 0 {
		return nil, errors.New("no descriptions to score")
	}
	userPrompt, err := UserPrompt(pairs)
	if err != nil {
		return nil, err
	}

	text, err := c.complete(ctx, SystemPrompt(), userPrompt)
	if err != nil {
		return nil, err
	}
	return ParseScores(text, len(pairs))
}

// complete sends one chat completion and returns the first choice's text.
func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	requestID := uuid.NewString()
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: c.temperature,
		Store:       false,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	slog.Debug("scorer request", "request_id", requestID, "url", endpoint, "model", c.model)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("scorer request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	slog.Debug("scorer response", "request_id", requestID, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := string(respBody)
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return "", &APIError{StatusCode: resp.StatusCode, Body: snippet}
	}

	var cr chatResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if cr.Error != nil {
		return "", fmt.Errorf("scorer returned error: %s", cr.Error.Message)
	}
	if len(cr.Choices) == 0 {
		return "", errors.New("scorer returned no choices")
	}
	return cr.Choices[0].Message.Content, nil
}
