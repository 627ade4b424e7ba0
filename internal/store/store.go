// Package store caches upstream API responses in a local sqlite database so
// repeated runs do not re-translate identical texts. It caches calls, not
// evaluation results; scores leave the process only through the CSV export.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"

	"github.com/valpere/lingoval/internal/logger"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS baseline_memory (
		id TEXT PRIMARY KEY,
		source_text TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		baseline_text TEXT NOT NULL,
		usage_count INTEGER DEFAULT 1,
		last_used TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(source_text, target_lang)
	);

	CREATE TABLE IF NOT EXISTS candidate_memory (
		id TEXT PRIMARY KEY,
		source_text TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		model_id TEXT NOT NULL,
		candidate_text TEXT NOT NULL,
		usage_count INTEGER DEFAULT 1,
		last_used TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(source_text, target_lang, model_id)
	);

	CREATE TABLE IF NOT EXISTS eval_runs (
		id TEXT PRIMARY KEY,
		input_file TEXT NOT NULL,
		output_file TEXT NOT NULL,
		total_rows INTEGER DEFAULT 0,
		done_rows INTEGER DEFAULT 0,
		failed_rows INTEGER DEFAULT 0,
		status TEXT DEFAULT 'running',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// GetBaseline returns a cached baseline translation. Lookup errors are
// logged and reported as a miss so a broken cache never fails a run.
func (s *Store) GetBaseline(ctx context.Context, sourceText, targetLang string) (string, bool) {
	var baselineText string

	err := s.db.QueryRowContext(ctx,
		`SELECT baseline_text FROM baseline_memory WHERE source_text = ? AND target_lang = ?`,
		normalizeText(sourceText), targetLang).Scan(&baselineText)

	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		logger.Warn("baseline cache lookup failed", "error", err)
		return "", false
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE baseline_memory SET usage_count = usage_count + 1, last_used = ? WHERE source_text = ? AND target_lang = ?`,
		time.Now(), normalizeText(sourceText), targetLang)
	if err != nil {
		logger.Warn("baseline cache usage update failed", "error", err)
	}

	return baselineText, true
}

func (s *Store) SaveBaseline(ctx context.Context, sourceText, targetLang, translation string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO baseline_memory (id, source_text, target_lang, baseline_text, usage_count, last_used, created_at) VALUES (?, ?, ?, ?, 1, ?, ?)`,
		uuid.New().String(), normalizeText(sourceText), targetLang, translation, time.Now(), time.Now())
	return err
}

// GetCandidate returns a cached candidate translation for a model.
func (s *Store) GetCandidate(ctx context.Context, sourceText, targetLang, modelID string) (string, bool) {
	var candidateText string

	err := s.db.QueryRowContext(ctx,
		`SELECT candidate_text FROM candidate_memory WHERE source_text = ? AND target_lang = ? AND model_id = ?`,
		normalizeText(sourceText), targetLang, modelID).Scan(&candidateText)

	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		logger.Warn("candidate cache lookup failed", "error", err)
		return "", false
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE candidate_memory SET usage_count = usage_count + 1, last_used = ? WHERE source_text = ? AND target_lang = ? AND model_id = ?`,
		time.Now(), normalizeText(sourceText), targetLang, modelID)
	if err != nil {
		logger.Warn("candidate cache usage update failed", "error", err)
	}

	return candidateText, true
}

func (s *Store) SaveCandidate(ctx context.Context, sourceText, targetLang, modelID, candidate string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO candidate_memory (id, source_text, target_lang, model_id, candidate_text, usage_count, last_used, created_at) VALUES (?, ?, ?, ?, ?, 1, ?, ?)`,
		uuid.New().String(), normalizeText(sourceText), targetLang, modelID, candidate, time.Now(), time.Now())
	return err
}

// CreateRun records the start of an evaluation batch and returns its ID.
func (s *Store) CreateRun(ctx context.Context, inputFile, outputFile string) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO eval_runs (id, input_file, output_file) VALUES (?, ?, ?)`,
		id, inputFile, outputFile)
	return id, err
}

// CompleteRun records the final row counts of an evaluation batch.
func (s *Store) CompleteRun(ctx context.Context, runID string, totalRows, doneRows, failedRows int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE eval_runs SET total_rows = ?, done_rows = ?, failed_rows = ?, status = 'completed', updated_at = ? WHERE id = ?`,
		totalRows, doneRows, failedRows, time.Now(), runID)
	return err
}

// BaselineEntry is a row from the baseline_memory table.
type BaselineEntry struct {
	ID           string
	SourceText   string
	TargetLang   string
	BaselineText string
	UsageCount   int
	LastUsed     time.Time
}

// CandidateEntry is a row from the candidate_memory table.
type CandidateEntry struct {
	ID            string
	SourceText    string
	TargetLang    string
	ModelID       string
	CandidateText string
	UsageCount    int
	LastUsed      time.Time
}

// CacheStats summarises cache usage across both memories.
type CacheStats struct {
	BaselineEntries  int
	CandidateEntries int
	TotalUsage       int
	CompletedRuns    int
}

// ListBaseline returns all cached baseline translations, most recently used
// first.
func (s *Store) ListBaseline(ctx context.Context) ([]BaselineEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_text, target_lang, baseline_text, usage_count, last_used FROM baseline_memory ORDER BY last_used DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []BaselineEntry
	for rows.Next() {
		var e BaselineEntry
		if err := rows.Scan(&e.ID, &e.SourceText, &e.TargetLang, &e.BaselineText, &e.UsageCount, &e.LastUsed); err != nil {
			return nil, err
		}
		results = append(results, e)
	}

	return results, rows.Err()
}

// ListCandidates returns all cached candidate translations, most recently
// used first.
func (s *Store) ListCandidates(ctx context.Context) ([]CandidateEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_text, target_lang, model_id, candidate_text, usage_count, last_used FROM candidate_memory ORDER BY last_used DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []CandidateEntry
	for rows.Next() {
		var e CandidateEntry
		if err := rows.Scan(&e.ID, &e.SourceText, &e.TargetLang, &e.ModelID, &e.CandidateText, &e.UsageCount, &e.LastUsed); err != nil {
			return nil, err
		}
		results = append(results, e)
	}

	return results, rows.Err()
}

// Stats returns summary statistics for both caches.
func (s *Store) Stats(ctx context.Context) (*CacheStats, error) {
	stats := &CacheStats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM baseline_memory),
			(SELECT COUNT(*) FROM candidate_memory),
			(SELECT COALESCE(SUM(usage_count), 0) FROM baseline_memory) +
			(SELECT COALESCE(SUM(usage_count), 0) FROM candidate_memory),
			(SELECT COUNT(*) FROM eval_runs WHERE status = 'completed')`).Scan(
		&stats.BaselineEntries,
		&stats.CandidateEntries,
		&stats.TotalUsage,
		&stats.CompletedRuns,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Clear removes all cached translations from both memories and returns the
// number of deleted entries. Run history is kept.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	var total int64

	res, err := s.db.ExecContext(ctx, `DELETE FROM baseline_memory`)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	total += n

	res, err = s.db.ExecContext(ctx, `DELETE FROM candidate_memory`)
	if err != nil {
		return total, err
	}
	n, err = res.RowsAffected()
	if err != nil {
		return total, err
	}
	total += n

	return total, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}
