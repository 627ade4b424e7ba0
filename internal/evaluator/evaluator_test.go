package evaluator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/valpere/lingoval/internal"
	"github.com/valpere/lingoval/internal/baseline"
	"github.com/valpere/lingoval/internal/lang"
	"github.com/valpere/lingoval/internal/provider"
)

type mockBaseline struct {
	translation string
	err         error
	calls       int
}

func (m *mockBaseline) Name() string { return "mock" }

func (m *mockBaseline) Translate(ctx context.Context, text string, target lang.Language) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.translation, nil
}

func (m *mockBaseline) IsAvailable(ctx context.Context) error { return nil }

type mapCache struct {
	entries map[string]string
	saves   int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]string)}
}

func (c *mapCache) GetBaseline(ctx context.Context, sourceText, targetLang string) (string, bool) {
	v, ok := c.entries[sourceText+"|"+targetLang]
	return v, ok
}

func (c *mapCache) SaveBaseline(ctx context.Context, sourceText, targetLang, translation string) error {
	c.saves++
	c.entries[sourceText+"|"+targetLang] = translation
	return nil
}

type mockProvider struct {
	modelID string
	text    string
	err     error
	calls   int
}

func (m *mockProvider) Name() string    { return "mock" }
func (m *mockProvider) ModelID() string { return m.modelID }

func (m *mockProvider) Translate(ctx context.Context, req provider.Request) (*provider.Result, error) {
	m.calls++
	if m.err != nil {
		return nil, &provider.Error{ModelID: m.modelID, Cause: m.err}
	}
	return &provider.Result{Provider: "mock", ModelID: m.modelID, TranslatedText: m.text}, nil
}

func (m *mockProvider) IsAvailable(ctx context.Context) error { return nil }

type candidateMapCache struct {
	entries map[string]string
	saves   int
}

func newCandidateMapCache() *candidateMapCache {
	return &candidateMapCache{entries: make(map[string]string)}
}

func (c *candidateMapCache) GetCandidate(ctx context.Context, sourceText, targetLang, modelID string) (string, bool) {
	v, ok := c.entries[sourceText+"|"+targetLang+"|"+modelID]
	return v, ok
}

func (c *candidateMapCache) SaveCandidate(ctx context.Context, sourceText, targetLang, modelID, candidate string) error {
	c.saves++
	c.entries[sourceText+"|"+targetLang+"|"+modelID] = candidate
	return nil
}

func row(source, language, model, candidate string) internal.EvaluationRow {
	return internal.EvaluationRow{
		SourceText:       source,
		TargetLanguage:   language,
		ModelID:          model,
		CandidateText:    candidate,
		CandidatePresent: true,
	}
}

func TestRun_DoneRow(t *testing.T) {
	svc := &mockBaseline{translation: "el zorro marrón rápido"}
	e := New(svc)

	results := e.Run(context.Background(), []internal.EvaluationRow{
		row("the quick brown fox", "Spanish", "gpt-4o", "el zorro marrón rápido"),
	})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if r.Status != StatusDone {
		t.Fatalf("expected Done, got %s (%s: %s)", r.Status, r.Reason, r.Detail)
	}
	if r.Metrics == nil {
		t.Fatal("expected metrics on Done row")
	}
	if r.Metrics.BLEU != 1.0 || r.Metrics.WordMatchPct != 100.0 || r.Metrics.Fluency != 1.0 {
		t.Errorf("expected perfect scores for identical texts, got %+v", r.Metrics)
	}
	if r.Row.BaselineText != "el zorro marrón rápido" {
		t.Errorf("expected fetched baseline attached to row, got %q", r.Row.BaselineText)
	}
}

func TestRun_SuppliedBaselineSkipsService(t *testing.T) {
	svc := &mockBaseline{translation: "unused"}
	e := New(svc)

	r := row("hello world", "French", "gpt-4o", "bonjour le monde")
	r.BaselineText = "bonjour le monde"
	results := e.Run(context.Background(), []internal.EvaluationRow{r})

	if svc.calls != 0 {
		t.Errorf("expected no baseline calls, got %d", svc.calls)
	}
	if results[0].Status != StatusDone {
		t.Errorf("expected Done, got %s", results[0].Status)
	}
}

func TestRun_MissingFields(t *testing.T) {
	e := New(&mockBaseline{translation: "x"})

	tests := []struct {
		name string
		row  internal.EvaluationRow
	}{
		{"blank source", row("", "Spanish", "gpt-4o", "hola")},
		{"blank language", row("hello", "", "gpt-4o", "hola")},
		{"blank model", row("hello", "Spanish", "", "hola")},
		{"unknown language", row("hello", "Klingon", "gpt-4o", "hola")},
		{"absent candidate cell", internal.EvaluationRow{
			SourceText: "hello", TargetLanguage: "Spanish", ModelID: "gpt-4o",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := e.Run(context.Background(), []internal.EvaluationRow{tt.row})
			r := results[0]
			if r.Status != StatusFailed {
				t.Fatalf("expected Failed, got %s", r.Status)
			}
			if r.Reason != ReasonMissingField {
				t.Errorf("expected MissingField, got %s", r.Reason)
			}
			if r.Metrics != nil {
				t.Error("expected no metrics on failed row")
			}
		})
	}
}

func TestRun_EmptyCandidateScoresZero(t *testing.T) {
	e := New(&mockBaseline{translation: "hola mundo"})

	results := e.Run(context.Background(), []internal.EvaluationRow{
		row("hello world", "Spanish", "gpt-4o", ""),
	})

	r := results[0]
	if r.Status != StatusDone {
		t.Fatalf("expected Done for empty-but-present candidate, got %s (%s)", r.Status, r.Reason)
	}
	if r.Metrics.BLEU != 0 || r.Metrics.METEOR != 0 || r.Metrics.Fluency != 0 || r.Metrics.WordMatchPct != 0 {
		t.Errorf("expected all-zero metrics, got %+v", r.Metrics)
	}
}

func TestRun_BaselineUnavailable(t *testing.T) {
	svc := &mockBaseline{err: fmt.Errorf("%w: quota exceeded", baseline.ErrUnavailable)}
	e := New(svc)

	results := e.Run(context.Background(), []internal.EvaluationRow{
		row("hello world", "Spanish", "gpt-4o", "hola mundo"),
	})

	r := results[0]
	if r.Status != StatusFailed {
		t.Fatalf("expected Failed, got %s", r.Status)
	}
	if r.Reason != ReasonBaselineUnavailable {
		t.Errorf("expected BaselineUnavailable, got %s", r.Reason)
	}
}

func TestRun_NoBaselineService(t *testing.T) {
	e := New(nil)

	results := e.Run(context.Background(), []internal.EvaluationRow{
		row("hello world", "Spanish", "gpt-4o", "hola mundo"),
	})

	if results[0].Reason != ReasonBaselineUnavailable {
		t.Errorf("expected BaselineUnavailable without a service, got %s", results[0].Reason)
	}
}

func TestRun_FailureDoesNotAbortBatch(t *testing.T) {
	e := New(&mockBaseline{translation: "hola mundo"})

	results := e.Run(context.Background(), []internal.EvaluationRow{
		row("hello world", "Spanish", "gpt-4o", "hola mundo"),
		row("", "Spanish", "gpt-4o", "hola"),
		row("hello world", "Spanish", "deepseek-reasoner", "hola mundo"),
	})

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Status != StatusDone || results[2].Status != StatusDone {
		t.Error("expected surrounding rows to complete")
	}
	if results[1].Status != StatusFailed {
		t.Error("expected middle row to fail")
	}
}

func TestRun_OrderPreserved(t *testing.T) {
	e := New(&mockBaseline{translation: "x"})

	rows := make([]internal.EvaluationRow, 5)
	for i := range rows {
		rows[i] = row(fmt.Sprintf("text %d", i), "Spanish", "gpt-4o", "x")
	}
	results := e.Run(context.Background(), rows)

	for i, r := range results {
		if r.Row.SourceText != fmt.Sprintf("text %d", i) {
			t.Errorf("result %d out of order: %q", i, r.Row.SourceText)
		}
	}
}

func TestRun_CacheHitSkipsService(t *testing.T) {
	svc := &mockBaseline{translation: "hola mundo"}
	cache := newMapCache()
	e := New(svc, WithCache(cache))

	rows := []internal.EvaluationRow{
		row("hello world", "Spanish", "gpt-4o", "hola mundo"),
		row("hello world", "Spanish", "deepseek-reasoner", "hola mundo"),
	}
	results := e.Run(context.Background(), rows)

	if svc.calls != 1 {
		t.Errorf("expected 1 service call with cache, got %d", svc.calls)
	}
	if cache.saves != 1 {
		t.Errorf("expected 1 cache save, got %d", cache.saves)
	}
	for _, r := range results {
		if r.Status != StatusDone {
			t.Errorf("expected Done, got %s", r.Status)
		}
	}
}

func TestRun_CacheErrorIsNotFatal(t *testing.T) {
	svc := &mockBaseline{err: errors.New("hard down")}
	cache := newMapCache()
	cache.entries["hello world|es"] = "hola mundo"
	e := New(svc, WithCache(cache))

	results := e.Run(context.Background(), []internal.EvaluationRow{
		row("hello world", "Spanish", "gpt-4o", "hola mundo"),
	})

	if results[0].Status != StatusDone {
		t.Errorf("expected cache hit to bypass failing service, got %s", results[0].Status)
	}
	if svc.calls != 0 {
		t.Errorf("expected no service call on cache hit, got %d", svc.calls)
	}
}

func TestRun_GeneratesMissingCandidate(t *testing.T) {
	p := &mockProvider{modelID: "gpt-4o", text: "hola mundo"}
	e := New(&mockBaseline{translation: "hola mundo"},
		WithProviders(map[string]provider.Provider{"gpt-4o": p}))

	results := e.Run(context.Background(), []internal.EvaluationRow{
		{SourceText: "hello world", TargetLanguage: "Spanish", ModelID: "gpt-4o"},
	})

	r := results[0]
	if r.Status != StatusDone {
		t.Fatalf("expected Done, got %s (%s: %s)", r.Status, r.Reason, r.Detail)
	}
	if p.calls != 1 {
		t.Errorf("expected 1 provider call, got %d", p.calls)
	}
	if r.Row.CandidateText != "hola mundo" {
		t.Errorf("expected generated candidate on row, got %q", r.Row.CandidateText)
	}
	if r.Metrics.BLEU != 1.0 {
		t.Errorf("expected BLEU 1.0, got %v", r.Metrics.BLEU)
	}
}

func TestRun_ProviderError(t *testing.T) {
	p := &mockProvider{modelID: "gpt-4o", err: errors.New("rate limited")}
	e := New(&mockBaseline{translation: "hola mundo"},
		WithProviders(map[string]provider.Provider{"gpt-4o": p}))

	results := e.Run(context.Background(), []internal.EvaluationRow{
		{SourceText: "hello world", TargetLanguage: "Spanish", ModelID: "gpt-4o"},
	})

	r := results[0]
	if r.Status != StatusFailed {
		t.Fatalf("expected Failed, got %s", r.Status)
	}
	if r.Reason != ReasonProviderError {
		t.Errorf("expected ProviderError, got %s", r.Reason)
	}
}

func TestRun_UnregisteredModelStaysMissingField(t *testing.T) {
	p := &mockProvider{modelID: "gpt-4o", text: "hola"}
	e := New(&mockBaseline{translation: "hola"},
		WithProviders(map[string]provider.Provider{"gpt-4o": p}))

	results := e.Run(context.Background(), []internal.EvaluationRow{
		{SourceText: "hello", TargetLanguage: "Spanish", ModelID: "deepseek-reasoner"},
	})

	if results[0].Reason != ReasonMissingField {
		t.Errorf("expected MissingField for unregistered model, got %s", results[0].Reason)
	}
}

func TestRun_GeneratedCandidateUsesCache(t *testing.T) {
	p := &mockProvider{modelID: "gpt-4o", text: "hola mundo"}
	cache := newCandidateMapCache()
	cache.entries["hello world|es|gpt-4o"] = "hola mundo"
	e := New(&mockBaseline{translation: "hola mundo"},
		WithProviders(map[string]provider.Provider{"gpt-4o": p}),
		WithCandidateCache(cache))

	results := e.Run(context.Background(), []internal.EvaluationRow{
		{SourceText: "hello world", TargetLanguage: "Spanish", ModelID: "gpt-4o"},
	})

	if results[0].Status != StatusDone {
		t.Fatalf("expected Done, got %s", results[0].Status)
	}
	if p.calls != 0 {
		t.Errorf("expected cache to bypass provider, got %d calls", p.calls)
	}
}

func TestSummarize(t *testing.T) {
	results := []RowResult{
		{
			Row:     row("a", "Spanish", "gpt-4o", "x"),
			Status:  StatusDone,
			Metrics: &internal.MetricRecord{BLEU: 0.8, METEOR: 0.9, Fluency: 1.0, WordMatchPct: 80},
		},
		{
			Row:     row("b", "Spanish", "gpt-4o", "y"),
			Status:  StatusDone,
			Metrics: &internal.MetricRecord{BLEU: 0.4, METEOR: 0.5, Fluency: 0.6, WordMatchPct: 40},
		},
		{
			Row:    row("c", "Spanish", "gpt-4o", "z"),
			Status: StatusFailed,
			Reason: ReasonBaselineUnavailable,
		},
		{
			Row:     row("a", "French", "deepseek-reasoner", "x"),
			Status:  StatusDone,
			Metrics: &internal.MetricRecord{BLEU: 0.5, METEOR: 0.5, Fluency: 0.5, WordMatchPct: 50},
		},
	}

	summaries := Summarize(results)

	if len(summaries) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(summaries))
	}
	// Sorted by model: deepseek-reasoner first.
	if summaries[0].ModelID != "deepseek-reasoner" || summaries[1].ModelID != "gpt-4o" {
		t.Errorf("unexpected group order: %q, %q", summaries[0].ModelID, summaries[1].ModelID)
	}

	g := summaries[1]
	if g.Done != 2 || g.Failed != 1 {
		t.Errorf("expected 2 done and 1 failed, got %d/%d", g.Done, g.Failed)
	}
	if math.Abs(g.AvgBLEU-0.6) > 1e-9 {
		t.Errorf("expected avg BLEU 0.6, got %v", g.AvgBLEU)
	}
	if math.Abs(g.AvgWordMatch-60) > 1e-9 {
		t.Errorf("expected avg word match 60, got %v", g.AvgWordMatch)
	}
}
