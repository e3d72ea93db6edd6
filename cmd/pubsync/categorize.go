// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubsync/internal/category"
	"github.com/pdiddy/pubsync/pkg/types"
)

var categorizeCmd = &cobra.Command{
	Use:   "categorize [file]",
	Short: "Rescore an existing publications file in place",
	Long: `Categorize reruns topic classification over a publications JSON file,
rewriting the category and probability fields of every record in place.
Without an argument it rescores the configured export file. Use --lexicon
to score with a custom keyword lexicon.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCategorize,
}

func init() {
	categorizeCmd.Flags().String("lexicon", "", "YAML keyword lexicon overriding the built-in tables")

	rootCmd.AddCommand(categorizeCmd)
}

func runCategorize(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig(cmd)
	if err != nil {
		return err
	}
	if lexicon, _ := cmd.Flags().GetString("lexicon"); lexicon != "" {
		cfg.Category.LexiconPath = lexicon
	}

	path := cfg.Store.ExportFile
	if path == "" {
		path = filepath.Join(cfg.Store.DataDir, "publications_data.json")
	}
	if len(args) == 1 {
		path = args[0]
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading publications file: %w", err)
	}

	// The file may be a bare dataset or a full export document; both carry
	// the publications under the same key, so decode into a loose map and
	// only rewrite that member.
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	var records []types.Record
	if err := json.Unmarshal(doc["publications"], &records); err != nil {
		return fmt.Errorf("decoding publications: %w", err)
	}

	scorer, err := category.NewScorer(cfg.Category)
	if err != nil {
		return err
	}
	scorer.Apply(records)

	updated, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding publications: %w", err)
	}
	doc["publications"] = updated

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(out, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Fprintf(os.Stderr, "rescored %d publications in %s\n", len(records), path)
	return nil
}
