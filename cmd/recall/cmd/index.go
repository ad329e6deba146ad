package cmd

import (
	"encoding/json"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/recallkit/recall/internal/config"
	"github.com/recallkit/recall/internal/indexer"
	"github.com/recallkit/recall/internal/output"
	"github.com/recallkit/recall/internal/store"
)

func newIndexCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Rebuild the search index from the memory directory",
		Long: `Rebuild the full-text index from every markdown file in the memory
directory. The index is cleared and repopulated from scratch, so
deleted files disappear and edits are picked up. Files that cannot
be read are skipped with a warning.

Run this after adding, editing, or removing memory files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIndex(cmd, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the rebuild report as JSON")

	return cmd
}

func runIndex(cmd *cobra.Command, jsonOutput bool) error {
	dir, cfg, err := resolveEnv()
	if err != nil {
		return err
	}

	slog.Info("index_started", slog.String("root", dir), slog.String("backend", cfg.Search.Backend))

	idx, err := store.Open(config.IndexBasePath(dir), storeConfig(cfg), cfg.Search.Backend)
	if err != nil {
		return err
	}
	defer func() { _ = idx.Close() }()

	report, err := indexer.New(dir, idx, nil).Rebuild(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]int{
			"indexed":  report.Indexed,
			"warnings": report.Warnings,
		})
	}

	out := output.New(cmd.OutOrStdout())
	out.Successf("Indexed %d memory files in %s", report.Indexed, dir)
	if report.Warnings > 0 {
		output.New(cmd.ErrOrStderr()).Warningf("Skipped %d unreadable files (see log for paths)", report.Warnings)
	}
	return nil
}
