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
	"strings"

	"github.com/spf13/cobra"

	"github.com/valpere/lingoval/internal/config"
	"github.com/valpere/lingoval/internal/dataset"
	"github.com/valpere/lingoval/internal/lang"
	"github.com/valpere/lingoval/internal/provider"
	"github.com/valpere/lingoval/internal/store"
	"github.com/valpere/lingoval/internal/validator"
)

var (
	translateText      string
	translateInput     string
	translateOutput    string
	translateLanguages []string
	translateProviders []string
	translateDBPath    string
	translateNoCache   bool
	translateBOM       bool
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate a text with multiple LLM providers",
	Long: `Translate a text into the selected target languages with each of the
selected LLM providers and write a wide CSV (one column per model/language
pair). The output feeds directly into "lingoval evaluate".

Available providers:
  - openai      OpenAI chat completions (OPENAI_API_KEY)
  - deepseek    DeepSeek (DEEPSEEK_API_KEY)
  - anthropic   Anthropic messages API (ANTHROPIC_API_KEY)

Bracket placeholders like [brokerName] are preserved verbatim.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if (translateText == "") == (translateInput == "") {
			return fmt.Errorf("exactly one of --text or --input is required")
		}

		text := translateText
		if translateInput != "" {
			data, err := os.ReadFile(translateInput)
			if err != nil {
				return fmt.Errorf("failed to read input file: %w", err)
			}
			text = strings.TrimSpace(string(data))
		}
		if text == "" {
			return fmt.Errorf("no text to translate")
		}

		languages, err := parseLanguages(translateLanguages)
		if err != nil {
			return err
		}

		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if translateDBPath != "" {
			cfg.DBPath = translateDBPath
		}

		ctx := context.Background()

		providers, err := buildProviders(ctx, cfg, translateProviders)
		if err != nil {
			return err
		}

		var db *store.Store
		if !translateNoCache && !cfg.NoCache {
			if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
				return fmt.Errorf("failed to create database directory: %w", err)
			}
			db, err = store.New(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()
		}

		val := validator.New()

		row := dataset.WideRow{SourceText: text, Candidates: make(map[string]string)}
		columns := make([]string, 0, len(providers)*len(languages))
		failed := 0

		for _, p := range providers {
			for _, target := range languages {
				column := dataset.WideColumn(p.ModelID(), target.Name)
				columns = append(columns, column)

				candidate, ok := lookupCandidate(ctx, db, text, target, p.ModelID())
				if !ok {
					candidate, err = runProvider(ctx, p, text, target)
					if err != nil {
						fmt.Fprintf(os.Stderr, "%v\n", err)
						failed++
						continue
					}
					if db != nil {
						if err := db.SaveCandidate(ctx, text, target.Code, p.ModelID(), candidate); err != nil {
							fmt.Fprintf(os.Stderr, "Failed to cache candidate: %v\n", err)
						}
					}
				}

				if ok, err := val.IsValid(candidate, target); !ok {
					fmt.Fprintf(os.Stderr, "Validation warning for %s: %v\n", column, err)
				}
				row.Candidates[column] = candidate
			}
		}

		if err := os.MkdirAll(filepath.Dir(translateOutput), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		out, err := os.Create(translateOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer out.Close()

		if err := dataset.WriteWide(out, columns, []dataset.WideRow{row}, translateBOM); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}

		fmt.Printf("Translated into %d model/language pairs (%d failed)\n", len(columns)-failed, failed)
		fmt.Printf("Output written to %s\n", translateOutput)
		return nil
	},
}

func lookupCandidate(ctx context.Context, db *store.Store, text string, target lang.Language, modelID string) (string, bool) {
	if db == nil {
		return "", false
	}
	candidate, ok := db.GetCandidate(ctx, text, target.Code, modelID)
	if ok {
		fmt.Fprintf(os.Stderr, "Using cached candidate for %s/%s\n", modelID, target.Name)
	}
	return candidate, ok
}

func runProvider(ctx context.Context, p provider.Provider, text string, target lang.Language) (string, error) {
	result, err := p.Translate(ctx, provider.Request{Text: text, Target: target})
	if err != nil {
		return "", fmt.Errorf("translation failed for %s/%s: %w", p.ModelID(), target.Name, err)
	}
	if !result.PlaceholdersPreserved {
		fmt.Fprintf(os.Stderr, "Placeholders altered by %s/%s\n", p.ModelID(), target.Name)
	}
	return result.TranslatedText, nil
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVar(&translateText, "text", "", "Text to translate (inline)")
	translateCmd.Flags().StringVarP(&translateInput, "input", "i", "", "File containing the text to translate")
	translateCmd.Flags().StringVarP(&translateOutput, "output", "o", "translations.csv", "Output CSV file")
	translateCmd.Flags().StringSliceVarP(&translateLanguages, "languages", "l", lang.Names(), "Target languages (names or ISO codes)")
	translateCmd.Flags().StringSliceVarP(&translateProviders, "providers", "p", []string{"openai", "deepseek", "anthropic"}, "Providers to use")
	translateCmd.Flags().StringVar(&translateDBPath, "db", "", "Database path (overrides config)")
	translateCmd.Flags().BoolVar(&translateNoCache, "no-cache", false, "Skip the candidate translation cache")
	translateCmd.Flags().BoolVar(&translateBOM, "bom", false, "Write a UTF-8 BOM for spreadsheet compatibility")
}
