// Package dataset reads and writes the CSV layouts of an evaluation batch.
// Two input layouts are accepted: the long form with one candidate per row,
// and the wide form that the translate command produces with one column per
// model/language pair. Output is always the long form plus score columns.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/valpere/lingoval/internal"
	"github.com/valpere/lingoval/internal/evaluator"
)

// ErrSchema marks a malformed header. It is a batch-fatal error raised
// before any row is processed.
var ErrSchema = errors.New("unrecognized dataset schema")

const utf8BOM = "\ufeff"

// wideColumnSep separates model and language in a wide column name.
const wideColumnSep = " - "

var longHeader = []string{"source_text", "target_language", "model_id", "candidate_text", "baseline_text"}

var scoreHeader = []string{"status", "reason", "bleu", "meteor", "fluency", "word_match_pct"}

// Read parses an input dataset, detecting the layout from the header row.
func Read(r io.Reader) ([]internal.EvaluationRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrSchema)
	}

	header := records[0]
	header[0] = strings.TrimPrefix(header[0], utf8BOM)

	switch {
	case isLongHeader(header):
		return readLong(records[1:]), nil
	case isWideHeader(header):
		return readWide(header, records[1:])
	default:
		return nil, fmt.Errorf("%w: header %q", ErrSchema, strings.Join(header, ","))
	}
}

// isLongHeader accepts any header starting with the long columns. Extra
// trailing columns are ignored so an evaluated output re-uploads as input.
func isLongHeader(header []string) bool {
	if len(header) < 4 {
		return false
	}
	for i, name := range header {
		if i >= len(longHeader) {
			break
		}
		if !strings.EqualFold(strings.TrimSpace(name), longHeader[i]) {
			return false
		}
	}
	return true
}

func isWideHeader(header []string) bool {
	if len(header) < 2 || !strings.EqualFold(strings.TrimSpace(header[0]), "Original Text") {
		return false
	}
	for _, name := range header[1:] {
		if !strings.Contains(name, wideColumnSep) {
			return false
		}
	}
	return true
}

// readLong tolerates ragged rows: a physically absent candidate cell is
// carried as CandidatePresent=false and fails later as a missing field.
func readLong(records [][]string) []internal.EvaluationRow {
	rows := make([]internal.EvaluationRow, 0, len(records))
	for _, rec := range records {
		var row internal.EvaluationRow
		if len(rec) > 0 {
			row.SourceText = rec[0]
		}
		if len(rec) > 1 {
			row.TargetLanguage = rec[1]
		}
		if len(rec) > 2 {
			row.ModelID = rec[2]
		}
		if len(rec) > 3 {
			row.CandidateText = rec[3]
			row.CandidatePresent = true
		}
		if len(rec) > 4 {
			row.BaselineText = rec[4]
		}
		rows = append(rows, row)
	}
	return rows
}

// readWide flattens a translate-command table into long rows, one per
// candidate column, preserving column order within each source row.
func readWide(header []string, records [][]string) ([]internal.EvaluationRow, error) {
	type column struct {
		model    string
		language string
	}
	columns := make([]column, 0, len(header)-1)
	for _, name := range header[1:] {
		model, language, ok := strings.Cut(name, wideColumnSep)
		if !ok || strings.TrimSpace(model) == "" || strings.TrimSpace(language) == "" {
			return nil, fmt.Errorf("%w: wide column %q", ErrSchema, name)
		}
		columns = append(columns, column{strings.TrimSpace(model), strings.TrimSpace(language)})
	}

	var rows []internal.EvaluationRow
	for _, rec := range records {
		source := ""
		if len(rec) > 0 {
			source = rec[0]
		}
		for i, col := range columns {
			row := internal.EvaluationRow{
				SourceText:     source,
				TargetLanguage: col.language,
				ModelID:        col.model,
			}
			if len(rec) > i+1 {
				row.CandidateText = rec[i+1]
				row.CandidatePresent = true
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// WriteEvaluated writes results in the long layout followed by the score
// columns. The first five columns re-parse as a long input dataset.
func WriteEvaluated(w io.Writer, results []evaluator.RowResult, withBOM bool) error {
	if withBOM {
		if _, err := io.WriteString(w, utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(append(append([]string{}, longHeader...), scoreHeader...)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, r := range results {
		rec := []string{
			r.Row.SourceText,
			r.Row.TargetLanguage,
			r.Row.ModelID,
			r.Row.CandidateText,
			r.Row.BaselineText,
			string(r.Status),
		}
		if r.Status == evaluator.StatusDone && r.Metrics != nil {
			rec = append(rec, "",
				formatScore(r.Metrics.BLEU),
				formatScore(r.Metrics.METEOR),
				formatScore(r.Metrics.Fluency),
				formatPct(r.Metrics.WordMatchPct))
		} else {
			rec = append(rec, string(r.Reason), "", "", "", "")
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WideRow is one source text with its candidate translations keyed by wide
// column name.
type WideRow struct {
	SourceText string
	Candidates map[string]string
}

// WideColumn builds the column name for a model/language pair.
func WideColumn(modelID, language string) string {
	return modelID + wideColumnSep + language
}

// WriteWide writes the translate-command table: Original Text plus one
// column per model/language pair.
func WriteWide(w io.Writer, columns []string, rows []WideRow, withBOM bool) error {
	if withBOM {
		if _, err := io.WriteString(w, utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"Original Text"}, columns...)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, row := range rows {
		rec := make([]string, 0, len(columns)+1)
		rec = append(rec, row.SourceText)
		for _, col := range columns {
			rec = append(rec, row.Candidates[col])
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func formatPct(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
