package baseline

import (
	"context"
	"fmt"
	"strings"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"

	"github.com/valpere/lingoval/internal/lang"
	"github.com/valpere/lingoval/internal/splitter"
)

// Google translates through the Google Cloud Translation API. The source
// text is split into sentences and translated sentence by sentence, then
// rejoined with single spaces.
type Google struct {
	client *translate.Client
}

// NewGoogle creates a Google baseline service. credentialsFile may be empty
// when GOOGLE_APPLICATION_CREDENTIALS is set in the environment.
func NewGoogle(ctx context.Context, credentialsFile string) (*Google, error) {
	opts := []option.ClientOption{}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create translate client: %w", err)
	}
	return &Google{client: client}, nil
}

func (g *Google) Name() string {
	return "google"
}

func (g *Google) Translate(ctx context.Context, text string, target lang.Language) (string, error) {
	targetTag, err := language.Parse(target.Code)
	if err != nil {
		return "", fmt.Errorf("%w: invalid target language %q: %v", ErrUnavailable, target.Code, err)
	}

	sentences := splitter.Sentences(text)
	if len(sentences) == 0 {
		return "", fmt.Errorf("%w: no translatable text", ErrUnavailable)
	}

	translations, err := g.client.Translate(ctx, sentences, targetTag, &translate.Options{
		Source: language.English,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(translations) != len(sentences) {
		return "", fmt.Errorf("%w: got %d translations for %d sentences", ErrUnavailable, len(translations), len(sentences))
	}

	parts := make([]string, 0, len(translations))
	for _, t := range translations {
		if s := strings.TrimSpace(t.Text); s != "" {
			parts = append(parts, s)
		}
	}
	result := strings.Join(parts, " ")
	if result == "" {
		return "", fmt.Errorf("%w: empty translation returned", ErrUnavailable)
	}
	return result, nil
}

func (g *Google) IsAvailable(ctx context.Context) error {
	return nil
}

// Close releases the underlying API client.
func (g *Google) Close() error {
	return g.client.Close()
}
