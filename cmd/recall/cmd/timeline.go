package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/recallkit/recall/internal/output"
	"github.com/recallkit/recall/internal/timeline"
)

func newTimelineCmd() *cobra.Command {
	var (
		limit      int
		date       string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "List memory files in chronological order",
		Long: `List memory files ordered by the date in their filename, oldest
first. Files without a date in the filename sort last as "unknown".

The listing reads the filesystem directly, so it reflects the
current directory contents even when the index is stale.

Examples:
  recall timeline
  recall timeline --limit 0
  recall timeline --date 2026-08-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTimeline(cmd, limit, date, jsonOutput)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Show only the most recent N entries (0 for all)")
	cmd.Flags().StringVar(&date, "date", "", "Show only entries dated exactly YYYY-MM-DD")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output entries as JSON")

	return cmd
}

func runTimeline(cmd *cobra.Command, limit int, date string, jsonOutput bool) error {
	dir, _, err := resolveEnv()
	if err != nil {
		return err
	}

	entries, err := timeline.New(dir).List(cmd.Context(), timeline.Options{Date: date})
	if err != nil {
		return err
	}

	// Keep the tail: the most recent entries of the ascending listing
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	out := output.New(cmd.OutOrStdout())
	if len(entries) == 0 {
		out.Line("No memory files found")
		return nil
	}
	for _, e := range entries {
		out.Linef("%s - %s", e.Date, e.File)
	}
	return nil
}
