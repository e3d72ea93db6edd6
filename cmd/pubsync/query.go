// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubsync/internal/store"
)

var queryCmd = &cobra.Command{
	Use:   "query [terms...]",
	Short: "Search the archived publication set",
	Long: `Query searches the latest archived run with FTS5 full-text search over
titles and abstracts, optionally filtered by category, year, or source.
Without search terms it lists publications newest first.`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().String("category", "", "filter by primary category label")
	queryCmd.Flags().Int("year", 0, "filter by publication year")
	queryCmd.Flags().String("source", "", "filter by contributing source (ads, openalex, google_scholar)")
	queryCmd.Flags().Int("limit", 0, "maximum results (0 = use default, negative = all)")
	queryCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig(cmd)
	if err != nil {
		return err
	}

	s, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	category, _ := cmd.Flags().GetString("category")
	year, _ := cmd.Flags().GetInt("year")
	source, _ := cmd.Flags().GetString("source")
	limit, _ := cmd.Flags().GetInt("limit")

	results, err := s.Retrieve(cmd.Context(), store.QueryOptions{
		Query:      strings.Join(args, " "),
		Category:   category,
		Year:       year,
		Source:     source,
		MaxResults: limit,
	})
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	for _, r := range results {
		year := "----"
		if r.Year != nil {
			year = fmt.Sprintf("%d", *r.Year)
		}
		fmt.Printf("%s  %6d  %s\n", year, r.CitationCount, r.Title)
		if r.Journal != "" || r.Category != "" {
			fmt.Printf("                %s", r.Journal)
			if r.Category != "" {
				fmt.Printf("  [%s]", r.Category)
			}
			fmt.Println()
		}
	}
	fmt.Printf("\n%d results\n", len(results))
	return nil
}
