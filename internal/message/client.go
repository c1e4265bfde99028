// Package message drafts personalized outreach messages through a
// chat-completions endpoint.
package message

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/outflo/outreach-service/internal/config"
	"github.com/outflo/outreach-service/internal/metrics"
	"github.com/outflo/outreach-service/internal/outreach"
)

const promptTemplate = `
OutFlo is a next-gen outreach automation tool designed for sales teams and lead-gen agencies to scale their outbound workflows, starting with LinkedIn.

- Book 10x more meetings on autopilot while ensuring no follow-ups or replies are missed.
- Save 95%% of your time by automating chaotic, manual outreach across multiple accounts.
- Cut down costs with our flat-fee pricing, no matter how many LinkedIn accounts you manage.

Get early access at https://www.outflo.in/

Create a personalized outreach message for %s, who is a %s at %s located in %s. Their profile summary: %s.

Example Response: Hey John, I see you are working as a Software Engineer at TechCorp. Outflo can help automate your outreach to increase meetings & sales. Let's connect!

Reply with only personalized outreach message.
Response:`

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

// Client calls a chat-completions API to draft one outreach message per
// profile.
type Client struct {
	cfg    config.LLMConfig
	http   *http.Client
	logger *zap.Logger
}

// NewClient builds a drafting client from config. The HTTP client timeout
// comes from cfg.
func NewClient(cfg config.LLMConfig, logger *zap.Logger) *Client {
	metrics.Init()
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout()},
		logger: logger,
	}
}

// Draft generates a personalized message for the given profile facts. Any
// upstream failure is logged with detail and surfaced to the caller as a
// generic MessageGenerationError.
func (c *Client) Draft(ctx context.Context, facts outreach.ProfileFacts) (string, error) {
	msg, err := c.draft(ctx, facts)
	if err != nil {
		c.logger.Error("message drafting failed",
			zap.String("endpoint", c.cfg.Endpoint),
			zap.String("model", c.cfg.Model),
			zap.Error(err))
		metrics.ObserveLLMRequest("error")
		return "", &outreach.MessageGenerationError{Err: err}
	}
	metrics.ObserveLLMRequest("success")
	return msg, nil
}

func (c *Client) draft(ctx context.Context, facts outreach.ProfileFacts) (string, error) {
	prompt := fmt.Sprintf(promptTemplate,
		facts.Name, facts.JobTitle, facts.Company, facts.Location, facts.Summary)

	body, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("call completions endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("completions endpoint returned %d: %s", resp.StatusCode, string(snippet))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completions response has no choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
