package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/valpere/lingoval/internal/logger"
	"github.com/valpere/lingoval/internal/placeholder"
	"github.com/valpere/lingoval/internal/postprocess"
	"github.com/valpere/lingoval/internal/splitter"
)

const anthropicVersion = "2023-06-01"

// Anthropic translates through the Anthropic Messages API.
type Anthropic struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewAnthropic creates an Anthropic provider. Model defaults to
// claude-3-5-sonnet-20240620.
func NewAnthropic(cfg Config) *Anthropic {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	model := cfg.Model
	if model == "" {
		model = "claude-3-5-sonnet-20240620"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Anthropic{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

func (a *Anthropic) Name() string {
	return "anthropic"
}

func (a *Anthropic) ModelID() string {
	return a.model
}

func (a *Anthropic) IsAvailable(ctx context.Context) error {
	if a.apiKey == "" {
		return errors.New("anthropic API key not configured")
	}
	return nil
}

func (a *Anthropic) Translate(ctx context.Context, req Request) (*Result, error) {
	result := &Result{Provider: a.Name(), ModelID: a.model}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	if a.apiKey == "" {
		return result, &Error{ModelID: a.model, Cause: errors.New("anthropic API key required")}
	}
	if strings.TrimSpace(req.Text) == "" {
		return result, &Error{ModelID: a.model, Cause: errors.New("empty source text")}
	}

	protected, originals := placeholder.Protect(req.Text)
	system := systemPrompt(req.Target)

	var parts []string
	for _, chunk := range splitter.Chunk(protected, maxChunkChars) {
		content, err := a.complete(ctx, system, chunk)
		if err != nil {
			return result, &Error{ModelID: a.model, Cause: err}
		}
		parts = append(parts, postprocess.Clean(content))
	}

	translated := placeholder.Restore(strings.TrimSpace(strings.Join(parts, " ")), originals)
	if translated == "" {
		return result, &Error{ModelID: a.model, Cause: errors.New("empty translation returned")}
	}

	_, _, preserved := placeholder.Verify(req.Text, translated)
	if !preserved {
		logger.Warn("placeholders not preserved by provider",
			"provider", a.Name(), "model", a.model, "language", req.Target.Name)
	}

	result.TranslatedText = translated
	result.PlaceholdersPreserved = preserved
	result.Metadata = map[string]string{"model": a.model}
	return result, nil
}

func (a *Anthropic) complete(ctx context.Context, system, user string) (string, error) {
	msgReq := map[string]interface{}{
		"model":      a.model,
		"max_tokens": 1024,
		"system":     system,
		"messages": []map[string]string{
			{"role": "user", "content": user},
		},
	}

	jsonData, err := json.Marshal(msgReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/v1/messages", a.baseURL), bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", a.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		return "", fmt.Errorf("API returned status %d: %v", resp.StatusCode, errResp)
	}

	var msgResp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&msgResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	var sb strings.Builder
	for _, block := range msgResp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("empty response from API")
	}
	return sb.String(), nil
}
