// Package evaluator runs the per-row evaluation pipeline: validate the row,
// obtain a baseline translation, compute the quality metrics. Rows are
// processed sequentially and failures never abort the batch.
package evaluator

import (
	"context"
	"fmt"
	"strings"

	"github.com/valpere/lingoval/internal"
	"github.com/valpere/lingoval/internal/baseline"
	"github.com/valpere/lingoval/internal/lang"
	"github.com/valpere/lingoval/internal/logger"
	"github.com/valpere/lingoval/internal/metrics"
	"github.com/valpere/lingoval/internal/provider"
)

// Status is the per-row pipeline state.
type Status string

const (
	StatusPending         Status = "Pending"
	StatusBaselineFetched Status = "BaselineFetched"
	StatusMetricsComputed Status = "MetricsComputed"
	StatusDone            Status = "Done"
	StatusFailed          Status = "Failed"
)

// Reason classifies why a row failed.
type Reason string

const (
	ReasonMissingField        Reason = "MissingField"
	ReasonBaselineUnavailable Reason = "BaselineUnavailable"
	ReasonProviderError       Reason = "ProviderError"
)

// RowResult pairs an input row with its final state: metrics for Done rows,
// a reason and detail for Failed ones.
type RowResult struct {
	Row     internal.EvaluationRow
	Status  Status
	Reason  Reason
	Detail  string
	Metrics *internal.MetricRecord
}

// BaselineCache stores baseline translations between runs so repeated rows
// do not hit the baseline API twice.
type BaselineCache interface {
	GetBaseline(ctx context.Context, sourceText, targetLang string) (string, bool)
	SaveBaseline(ctx context.Context, sourceText, targetLang, translation string) error
}

// CandidateCache stores provider translations between runs.
type CandidateCache interface {
	GetCandidate(ctx context.Context, sourceText, targetLang, modelID string) (string, bool)
	SaveCandidate(ctx context.Context, sourceText, targetLang, modelID, candidate string) error
}

// Evaluator drives the row state machine against one baseline service.
type Evaluator struct {
	baseline  baseline.Service
	cache     BaselineCache
	providers map[string]provider.Provider
	candCache CandidateCache
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithCache routes baseline lookups through a cache before the service.
func WithCache(c BaselineCache) Option {
	return func(e *Evaluator) { e.cache = c }
}

// WithProviders lets the evaluator fill in a missing candidate cell by
// calling the provider registered under the row's model_id. Without this a
// missing candidate fails the row as a missing field.
func WithProviders(providers map[string]provider.Provider) Option {
	return func(e *Evaluator) { e.providers = providers }
}

// WithCandidateCache routes generated candidates through a cache.
func WithCandidateCache(c CandidateCache) Option {
	return func(e *Evaluator) { e.candCache = c }
}

// New creates an Evaluator. svc may be nil when every row supplies its own
// baseline_text; rows needing a fetch then fail as BaselineUnavailable.
func New(svc baseline.Service, opts ...Option) *Evaluator {
	e := &Evaluator{baseline: svc}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run evaluates every row in order. The result slice has exactly one entry
// per input row, in input order. Row failures are recorded, not returned.
func (e *Evaluator) Run(ctx context.Context, rows []internal.EvaluationRow) []RowResult {
	results := make([]RowResult, 0, len(rows))
	for i, row := range rows {
		result := e.evaluateRow(ctx, row)
		if result.Status == StatusFailed {
			logger.Warn("row failed",
				"row", i+1, "reason", string(result.Reason), "detail", result.Detail)
		}
		results = append(results, result)
	}
	return results
}

func (e *Evaluator) evaluateRow(ctx context.Context, row internal.EvaluationRow) RowResult {
	result := RowResult{Row: row, Status: StatusPending}

	_, canGenerate := e.providers[row.ModelID]
	if reason, detail := validate(row, canGenerate); reason != "" {
		result.Status = StatusFailed
		result.Reason = reason
		result.Detail = detail
		return result
	}
	target, err := lang.Parse(row.TargetLanguage)
	if err != nil {
		result.Status = StatusFailed
		result.Reason = ReasonMissingField
		result.Detail = err.Error()
		return result
	}

	if !row.CandidatePresent {
		candidate, err := e.fetchCandidate(ctx, row, target)
		if err != nil {
			result.Status = StatusFailed
			result.Reason = ReasonProviderError
			result.Detail = err.Error()
			return result
		}
		row.CandidateText = candidate
		row.CandidatePresent = true
		result.Row = row
	}

	if row.BaselineText == "" {
		baselineText, err := e.fetchBaseline(ctx, row.SourceText, target)
		if err != nil {
			result.Status = StatusFailed
			result.Reason = ReasonBaselineUnavailable
			result.Detail = err.Error()
			return result
		}
		row.BaselineText = baselineText
		result.Row = row
	}
	result.Status = StatusBaselineFetched

	record := internal.MetricRecord{
		BLEU:         metrics.BLEU(row.CandidateText, row.BaselineText),
		METEOR:       metrics.METEOR(row.CandidateText, row.BaselineText),
		Fluency:      metrics.Fluency(row.CandidateText, row.BaselineText),
		WordMatchPct: metrics.WordMatch(row.CandidateText, row.BaselineText),
	}
	result.Status = StatusMetricsComputed

	result.Metrics = &record
	result.Status = StatusDone
	return result
}

// validate checks the required text fields. An empty but present
// candidate_text passes; it scores all zeros downstream. A physically
// absent candidate cell fails here unless a provider can fill it.
func validate(row internal.EvaluationRow, canGenerate bool) (Reason, string) {
	var missing []string
	if strings.TrimSpace(row.SourceText) == "" {
		missing = append(missing, "source_text")
	}
	if strings.TrimSpace(row.TargetLanguage) == "" {
		missing = append(missing, "target_language")
	}
	if strings.TrimSpace(row.ModelID) == "" {
		missing = append(missing, "model_id")
	}
	if !row.CandidatePresent && !canGenerate {
		missing = append(missing, "candidate_text")
	}
	if len(missing) > 0 {
		return ReasonMissingField, fmt.Sprintf("missing: %s", strings.Join(missing, ", "))
	}
	return "", ""
}

// fetchCandidate generates the candidate translation through the provider
// registered for the row's model.
func (e *Evaluator) fetchCandidate(ctx context.Context, row internal.EvaluationRow, target lang.Language) (string, error) {
	if e.candCache != nil {
		if cached, ok := e.candCache.GetCandidate(ctx, row.SourceText, target.Code, row.ModelID); ok {
			return cached, nil
		}
	}

	p := e.providers[row.ModelID]
	res, err := p.Translate(ctx, provider.Request{Text: row.SourceText, Target: target})
	if err != nil {
		return "", err
	}
	if e.candCache != nil {
		if err := e.candCache.SaveCandidate(ctx, row.SourceText, target.Code, row.ModelID, res.TranslatedText); err != nil {
			logger.Warn("failed to cache candidate translation", "error", err)
		}
	}
	return res.TranslatedText, nil
}

func (e *Evaluator) fetchBaseline(ctx context.Context, sourceText string, target lang.Language) (string, error) {
	if e.cache != nil {
		if cached, ok := e.cache.GetBaseline(ctx, sourceText, target.Code); ok {
			return cached, nil
		}
	}
	if e.baseline == nil {
		return "", fmt.Errorf("%w: no baseline service configured", baseline.ErrUnavailable)
	}

	translated, err := e.baseline.Translate(ctx, sourceText, target)
	if err != nil {
		return "", err
	}
	if e.cache != nil {
		if err := e.cache.SaveBaseline(ctx, sourceText, target.Code, translated); err != nil {
			logger.Warn("failed to cache baseline translation", "error", err)
		}
	}
	return translated, nil
}
