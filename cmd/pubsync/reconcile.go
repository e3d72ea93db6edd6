// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run the offline pipeline over cached source files",
	Long: `Reconcile runs every pipeline stage except fetching, reading the raw
per-source JSON files a previous fetch left in the data cache. Useful for
re-running matching or classification with new settings without touching
the catalog APIs.`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().Float64("threshold", 0, "title similarity match threshold (0 = use config)")

	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig(cmd)
	if err != nil {
		return err
	}
	if threshold, _ := cmd.Flags().GetFloat64("threshold"); threshold > 0 {
		cfg.Reconcile.MatchThreshold = threshold
	}

	out, err := readCache(cfg.Store.DataDir)
	if err != nil {
		return err
	}
	return runPipeline(cmd.Context(), cfg, out)
}
