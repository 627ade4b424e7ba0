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

	"github.com/valpere/lingoval/internal/lang"
	"github.com/valpere/lingoval/internal/logger"
	"github.com/valpere/lingoval/internal/placeholder"
	"github.com/valpere/lingoval/internal/postprocess"
	"github.com/valpere/lingoval/internal/splitter"
)

// maxChunkChars bounds the text sent in a single completion request.
const maxChunkChars = 8000

const defaultTimeout = 120 * time.Second

// chatClient talks to an OpenAI-compatible chat-completions endpoint.
// OpenAI and DeepSeek differ only in base URL and default model.
type chatClient struct {
	name    string
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func newChatClient(name, defaultBaseURL, defaultModel string, cfg Config) *chatClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &chatClient{
		name:    name,
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *chatClient) Name() string {
	return c.name
}

func (c *chatClient) ModelID() string {
	return c.model
}

func (c *chatClient) IsAvailable(ctx context.Context) error {
	if c.apiKey == "" {
		return fmt.Errorf("%s API key not configured", c.name)
	}
	return nil
}

func (c *chatClient) Translate(ctx context.Context, req Request) (*Result, error) {
	result := &Result{Provider: c.name, ModelID: c.model}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	if c.apiKey == "" {
		return result, &Error{ModelID: c.model, Cause: fmt.Errorf("%s API key required", c.name)}
	}
	if strings.TrimSpace(req.Text) == "" {
		return result, &Error{ModelID: c.model, Cause: errors.New("empty source text")}
	}

	protected, originals := placeholder.Protect(req.Text)
	system := systemPrompt(req.Target)

	var parts []string
	usage := map[string]string{"model": c.model}
	for _, chunk := range splitter.Chunk(protected, maxChunkChars) {
		content, promptTokens, completionTokens, err := c.complete(ctx, system, chunk)
		if err != nil {
			return result, &Error{ModelID: c.model, Cause: err}
		}
		parts = append(parts, postprocess.Clean(content))
		usage["prompt_tokens"] = addTokens(usage["prompt_tokens"], promptTokens)
		usage["completion_tokens"] = addTokens(usage["completion_tokens"], completionTokens)
	}

	translated := placeholder.Restore(strings.TrimSpace(strings.Join(parts, " ")), originals)
	if translated == "" {
		return result, &Error{ModelID: c.model, Cause: errors.New("empty translation returned")}
	}

	_, _, preserved := placeholder.Verify(req.Text, translated)
	if !preserved {
		logger.Warn("placeholders not preserved by provider",
			"provider", c.name, "model", c.model, "language", req.Target.Name)
	}

	result.TranslatedText = translated
	result.PlaceholdersPreserved = preserved
	result.Metadata = usage
	return result, nil
}

func (c *chatClient) complete(ctx context.Context, system, user string) (content string, promptTokens, completionTokens int, err error) {
	chatReq := map[string]interface{}{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"max_tokens": 4096,
	}

	jsonData, err := json.Marshal(chatReq)
	if err != nil {
		return "", 0, 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/chat/completions", c.baseURL), bytes.NewBuffer(jsonData))
	if err != nil {
		return "", 0, 0, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", 0, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		return "", 0, 0, fmt.Errorf("API returned status %d: %v", resp.StatusCode, errResp)
	}

	var chatResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
		} `json:"usage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", 0, 0, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", 0, 0, errors.New("empty response from API")
	}

	return chatResp.Choices[0].Message.Content,
		chatResp.Usage.PromptTokens, chatResp.Usage.CompletionTokens, nil
}

// systemPrompt builds the translation instruction shared by all providers.
func systemPrompt(target lang.Language) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are a professional translator. Translate the user's text from English to %s.\n", target.Name))
	sb.WriteString("Only respond with the translation, nothing else. No explanations, no quotes, just the translation.\n")
	sb.WriteString(placeholder.InstructionHint())
	return sb.String()
}

func addTokens(current string, n int) string {
	total := n
	if current != "" {
		fmt.Sscanf(current, "%d", &total)
		total += n
	}
	return fmt.Sprintf("%d", total)
}
