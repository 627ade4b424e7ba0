/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/lingoval/internal/config"
	"github.com/valpere/lingoval/internal/dataset"
	"github.com/valpere/lingoval/internal/evaluator"
	"github.com/valpere/lingoval/internal/provider"
	"github.com/valpere/lingoval/internal/store"
)

var (
	evaluateInput     string
	evaluateOutput    string
	evaluateBaseline  string
	evaluateDBPath    string
	evaluateNoCache   bool
	evaluateBOM       bool
	evaluateGenerate  bool
	evaluateProviders []string
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score candidate translations against a baseline",
	Long: `Read a CSV of candidate translations, obtain a baseline translation for
every row, and score each candidate with BLEU, METEOR, a length-ratio
fluency heuristic, and word-overlap percentage.

The input is either the long layout
(source_text,target_language,model_id,candidate_text[,baseline_text])
or the wide layout produced by "lingoval translate". Rows with missing
fields or an unavailable baseline are reported as Failed with a reason;
a failed row never aborts the batch. With --generate, rows lacking a
candidate cell are translated live by the provider matching their model_id.

Baseline services:
  - google      Google Cloud Translation (GOOGLE_APPLICATION_CREDENTIALS)
  - mymemory    MyMemory free API`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if evaluateInput == evaluateOutput {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		in, err := os.Open(evaluateInput)
		if err != nil {
			return fmt.Errorf("failed to open input file: %w", err)
		}
		rows, err := dataset.Read(in)
		in.Close()
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return fmt.Errorf("input dataset has no rows")
		}

		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if evaluateDBPath != "" {
			cfg.DBPath = evaluateDBPath
		}

		ctx := context.Background()

		svc, closeBaseline, err := buildBaseline(ctx, cfg, evaluateBaseline)
		if err != nil {
			return err
		}
		defer closeBaseline()

		var opts []evaluator.Option
		if evaluateGenerate {
			providers, err := buildProviders(ctx, cfg, evaluateProviders)
			if err != nil {
				return err
			}
			byModel := make(map[string]provider.Provider, len(providers))
			for _, p := range providers {
				byModel[p.ModelID()] = p
			}
			opts = append(opts, evaluator.WithProviders(byModel))
		}

		var db *store.Store
		if !evaluateNoCache && !cfg.NoCache {
			if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
				return fmt.Errorf("failed to create database directory: %w", err)
			}
			db, err = store.New(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()
			opts = append(opts, evaluator.WithCache(db))
			if evaluateGenerate {
				opts = append(opts, evaluator.WithCandidateCache(db))
			}
		}

		var runID string
		if db != nil {
			if runID, err = db.CreateRun(ctx, evaluateInput, evaluateOutput); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to record run: %v\n", err)
			}
		}

		results := evaluator.New(svc, opts...).Run(ctx, rows)

		done, failed := 0, 0
		for _, r := range results {
			if r.Status == evaluator.StatusDone {
				done++
			} else {
				failed++
			}
		}

		if db != nil && runID != "" {
			if err := db.CompleteRun(ctx, runID, len(results), done, failed); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to complete run record: %v\n", err)
			}
		}

		if err := os.MkdirAll(filepath.Dir(evaluateOutput), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		out, err := os.Create(evaluateOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer out.Close()

		if err := dataset.WriteEvaluated(out, results, evaluateBOM); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}

		fmt.Printf("Evaluated %d rows: %d done, %d failed\n", len(results), done, failed)
		fmt.Printf("Output written to %s\n\n", evaluateOutput)
		printSummary(results)
		return nil
	},
}

func printSummary(results []evaluator.RowResult) {
	summaries := evaluator.Summarize(results)
	if len(summaries) == 0 {
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tLANGUAGE\tDONE\tFAILED\tBLEU\tMETEOR\tFLUENCY\tWORD MATCH")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.4f\t%.4f\t%.4f\t%.2f%%\n",
			s.ModelID, s.TargetLanguage, s.Done, s.Failed,
			s.AvgBLEU, s.AvgMETEOR, s.AvgFluency, s.AvgWordMatch)
	}
	w.Flush()
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVarP(&evaluateInput, "input", "i", "", "Input CSV file (required)")
	evaluateCmd.Flags().StringVarP(&evaluateOutput, "output", "o", "evaluation.csv", "Output CSV file")
	evaluateCmd.Flags().StringVarP(&evaluateBaseline, "baseline", "b", "google", "Baseline service (google, mymemory)")
	evaluateCmd.Flags().StringVar(&evaluateDBPath, "db", "", "Database path (overrides config)")
	evaluateCmd.Flags().BoolVar(&evaluateNoCache, "no-cache", false, "Skip the baseline translation cache")
	evaluateCmd.Flags().BoolVar(&evaluateBOM, "bom", false, "Write a UTF-8 BOM for spreadsheet compatibility")
	evaluateCmd.Flags().BoolVar(&evaluateGenerate, "generate", false, "Generate missing candidate cells with the configured providers")
	evaluateCmd.Flags().StringSliceVar(&evaluateProviders, "providers", []string{"openai", "deepseek", "anthropic"}, "Providers usable with --generate")

	evaluateCmd.MarkFlagRequired("input")
}
