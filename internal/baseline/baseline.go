// Package baseline produces reference translations that candidate
// translations are scored against. Google Cloud Translate is the primary
// service; MyMemory is a free alternative.
package baseline

import (
	"context"
	"errors"

	"github.com/valpere/lingoval/internal/lang"
)

// ErrUnavailable is wrapped by every baseline failure: upstream errors,
// timeouts, and empty responses. Callers treat it as a per-row failure,
// never as a batch abort.
var ErrUnavailable = errors.New("baseline translation unavailable")

// Service turns an English source text into a reference translation in the
// target language. A single attempt per call; retries are the caller's
// concern.
type Service interface {
	Name() string
	Translate(ctx context.Context, text string, target lang.Language) (string, error)
	IsAvailable(ctx context.Context) error
}
