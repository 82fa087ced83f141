package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/buildsense/buildsense/pkg/building"
	"github.com/buildsense/buildsense/pkg/slo"
)

const (
	defaultModel   = "gemini-2.0-flash"
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
	defaultTimeout = 30 * time.Second

	// Shared request budget across all agents. Coordination rounds fan out
	// to six agents, so a small per-minute cap throttles bursts hard.
	defaultRequestsPerMinute = 5
)

// Config holds the chat backend settings. An empty APIKey disables the
// client; agents then run on rule-based fallbacks.
type Config struct {
	APIKey            string
	BaseURL           string
	Model             string
	Timeout           time.Duration
	RequestsPerMinute int
}

// ConfigFromEnv reads the backend settings from the environment.
func ConfigFromEnv() Config {
	cfg := Config{
		APIKey:  os.Getenv("LLM_API_KEY"),
		BaseURL: os.Getenv("LLM_BASE_URL"),
		Model:   os.Getenv("LLM_MODEL"),
	}
	if v := os.Getenv("LLM_MAX_REQUESTS_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RequestsPerMinute = n
		}
	}
	return cfg
}

// Client talks to an OpenAI-compatible chat completions endpoint. All
// requests pass through a shared token-bucket limiter so the whole process
// stays under the provider quota regardless of how many agents are active.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient builds a Client from cfg, filling unset fields with defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	n := cfg.RequestsPerMinute
	if n <= 0 {
		n = defaultRequestsPerMinute
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), n),
	}
}

// Available reports whether the client has credentials to call the backend.
func (c *Client) Available() bool {
	return c != nil && c.cfg.APIKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Propose sends the agent prompt plus formatted room context and parses the
// response. Unparseable model output degrades to the safe fallback proposal
// instead of failing the coordination round.
func (c *Client) Propose(ctx context.Context, prompt string, snap building.Snapshot, slos []slo.SLO) (Proposal, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Proposal{}, fmt.Errorf("llm: rate limiter: %w", err)
	}

	payload, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: buildPrompt(prompt, snap, slos)}},
		Temperature: 0.2,
	})
	if err != nil {
		return Proposal{}, fmt.Errorf("llm: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return Proposal{}, fmt.Errorf("llm: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return Proposal{}, fmt.Errorf("llm: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Proposal{}, fmt.Errorf("llm: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Proposal{}, fmt.Errorf("llm: backend returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Proposal{}, fmt.Errorf("llm: decode response envelope: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return Proposal{}, fmt.Errorf("llm: response contained no choices")
	}

	proposal, err := ParseProposal(parsed.Choices[0].Message.Content)
	if err != nil {
		log.Warn().Err(err).Str("model", c.cfg.Model).Msg("LLM response unparseable, using safe fallback proposal")
		return Fallback(), nil
	}
	return proposal, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
