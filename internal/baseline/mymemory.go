package baseline

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/valpere/lingoval/internal/lang"
	"github.com/valpere/lingoval/internal/splitter"
)

// myMemoryMaxChars is the per-request text limit of the MyMemory API.
const myMemoryMaxChars = 500

// MyMemory translates through the free MyMemory API. Long texts are chunked
// to respect the per-request limit.
type MyMemory struct {
	email   string
	baseURL string
	client  *http.Client
}

// NewMyMemory creates a MyMemory baseline service. Providing an email
// address raises the daily quota.
func NewMyMemory(email string) *MyMemory {
	return &MyMemory{
		email:   email,
		baseURL: "https://api.mymemory.translated.net",
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *MyMemory) Name() string {
	return "mymemory"
}

func (s *MyMemory) Translate(ctx context.Context, text string, target lang.Language) (string, error) {
	chunks := splitter.Chunk(text, myMemoryMaxChars)

	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		translated, err := s.translateChunk(ctx, chunk, target)
		if err != nil {
			return "", err
		}
		parts = append(parts, translated)
	}

	result := strings.TrimSpace(strings.Join(parts, " "))
	if result == "" {
		return "", fmt.Errorf("%w: empty translation returned", ErrUnavailable)
	}
	return result, nil
}

func (s *MyMemory) translateChunk(ctx context.Context, text string, target lang.Language) (string, error) {
	langPair := fmt.Sprintf("en|%s", target.Code)

	apiURL := fmt.Sprintf("%s/get?q=%s&langpair=%s",
		s.baseURL,
		url.QueryEscape(text),
		url.QueryEscape(langPair))
	if s.email != "" {
		apiURL += fmt.Sprintf("&de=%s", url.QueryEscape(s.email))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrUnavailable, err)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: request failed: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var mymemResp struct {
		ResponseData struct {
			TranslatedText string `json:"translatedText"`
		} `json:"responseData"`
		ResponseStatus  int    `json:"responseStatus"`
		ResponseDetails string `json:"responseDetails"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&mymemResp); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrUnavailable, err)
	}

	if mymemResp.ResponseStatus != http.StatusOK {
		return "", fmt.Errorf("%w: API error: %s (%d)", ErrUnavailable, mymemResp.ResponseDetails, mymemResp.ResponseStatus)
	}

	return mymemResp.ResponseData.TranslatedText, nil
}

func (s *MyMemory) IsAvailable(ctx context.Context) error {
	return nil
}
