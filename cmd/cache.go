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
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/lingoval/internal/store"
)

var cacheDBPath string

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the translation cache",
	Long:  `List, inspect, and clear the SQLite cache of baseline and candidate translations.`,
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all cached translations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(cacheDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		ctx := context.Background()

		baselines, err := db.ListBaseline(ctx)
		if err != nil {
			return fmt.Errorf("failed to list baseline entries: %w", err)
		}
		candidates, err := db.ListCandidates(ctx)
		if err != nil {
			return fmt.Errorf("failed to list candidate entries: %w", err)
		}

		if len(baselines) == 0 && len(candidates) == 0 {
			fmt.Println("Cache is empty.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KIND\tLANG\tMODEL\tUSED\tLAST USED\tTEXT")
		for _, e := range baselines {
			fmt.Fprintf(w, "baseline\t%s\t-\t%d\t%s\t%s\n",
				e.TargetLang, e.UsageCount, e.LastUsed.Format("2006-01-02 15:04"), snippet(e.SourceText))
		}
		for _, e := range candidates {
			fmt.Fprintf(w, "candidate\t%s\t%s\t%d\t%s\t%s\n",
				e.TargetLang, e.ModelID, e.UsageCount, e.LastUsed.Format("2006-01-02 15:04"), snippet(e.SourceText))
		}
		return w.Flush()
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(cacheDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		stats, err := db.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		fmt.Printf("Baseline entries:  %d\n", stats.BaselineEntries)
		fmt.Printf("Candidate entries: %d\n", stats.CandidateEntries)
		fmt.Printf("Total usage:       %d\n", stats.TotalUsage)
		fmt.Printf("Completed runs:    %d\n", stats.CompletedRuns)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached translations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(cacheDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		n, err := db.Clear(context.Background())
		if err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Printf("Cleared %d entries from the cache.\n", n)
		return nil
	},
}

func snippet(text string) string {
	if len(text) > 40 {
		return text[:37] + "..."
	}
	return text
}

func init() {
	rootCmd.AddCommand(cacheCmd)

	cacheCmd.PersistentFlags().StringVar(&cacheDBPath, "db", "./data/lingoval.db", "Database path")

	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
