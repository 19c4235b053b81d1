package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the resolved chat-completions endpoint configuration. Zero
// values fall back to the defaults in NewClient.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature *float64
	MaxTokens   int
	Timeout     time.Duration
}

// ConfigFromEnv resolves the endpoint from the environment. OPENAI_* keys
// win; OPENROUTER_* keys are the fallback so either provider works with the
// same binary.
func ConfigFromEnv() Config {
	cfg := Config{
		APIKey:  firstEnv("OPENAI_API_KEY", "OPENROUTER_API_KEY"),
		Model:   firstEnv("OPENAI_MODEL", "OPENROUTER_MODEL"),
		BaseURL: firstEnv("OPENAI_BASE_URL", "OPENAI_API_BASE", "OPENROUTER_BASE_URL"),
	}
	if cfg.BaseURL == "" && strings.TrimSpace(os.Getenv("OPENAI_API_KEY")) == "" &&
		strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY")) != "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}
	if v := firstEnv("OPENAI_TEMPERATURE", "OPENROUTER_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Temperature = &f
		}
	}
	if v := firstEnv("OPENAI_MAX_OUTPUT_TOKENS", "OPENROUTER_MAX_OUTPUT_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxTokens = n
		}
	}
	return cfg
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

// Client is a minimal chat-completions client. One instance is shared by
// every provider in the process.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}
}

// Complete sends one system+user exchange and returns the assistant text,
// requesting JSON object mode. Decision calls all expect JSON back.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	return c.complete(ctx, system, user, true)
}

// CompleteText is Complete without JSON mode, for free-form output.
func (c *Client) CompleteText(ctx context.Context, system, user string) (string, error) {
	return c.complete(ctx, system, user, false)
}

func (c *Client) complete(ctx context.Context, system, user string, jsonMode bool) (string, error) {
	if c.cfg.APIKey == "" {
		return "", errors.New("API key missing: set OPENAI_API_KEY or OPENROUTER_API_KEY")
	}
	if c.cfg.Model == "" {
		return "", errors.New("model missing: set OPENAI_MODEL or OPENROUTER_MODEL")
	}

	payload := map[string]any{
		"model": c.cfg.Model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
	}
	if jsonMode {
		payload["response_format"] = map[string]any{"type": "json_object"}
	}
	if c.cfg.MaxTokens > 0 {
		payload["max_tokens"] = c.cfg.MaxTokens
	}
	if c.cfg.Temperature != nil {
		payload["temperature"] = *c.cfg.Temperature
	}

	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	body := buf.Bytes()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("llm http %d: %s", resp.StatusCode, truncate(string(body), 800))
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &cc); err != nil {
		return "", err
	}
	if len(cc.Choices) == 0 {
		return "", errors.New("no choices returned")
	}
	return cc.Choices[0].Message.Content, nil
}

// parseDecision unmarshals model output into v, which the caller has
// pre-filled with defaults so absent keys keep their documented values.
// Code fences and surrounding prose are stripped first.
func parseDecision(text string, v any) error {
	cleaned := stripFences(text)
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		obj := extractJSONObject(cleaned)
		if obj == "" {
			return err
		}
		return json.Unmarshal([]byte(obj), v)
	}
	return nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	var kept []string
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	if start < 0 {
		return ""
	}
	end := strings.LastIndex(s, "}")
	if end < start {
		return ""
	}
	return strings.TrimSpace(s[start : end+1])
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
