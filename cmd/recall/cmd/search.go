package cmd

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/recallkit/recall/internal/output"
	"github.com/recallkit/recall/internal/search"
)

// snippetDisplayRunes clips snippets in text output; full snippets are
// available via --json.
const snippetDisplayRunes = 80

func newSearchCmd() *cobra.Command {
	var (
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search memory files for matching snippets",
		Long: `Search the indexed memory files and print ranked, highlighted
snippets. Multiple words must all appear in a matching file.

Examples:
  recall search "database migration"
  recall search deadline --limit 10
  recall search "review notes" --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, strings.Join(args, " "), limit, jsonOutput)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of results (default from config)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")

	return cmd
}

func runSearch(cmd *cobra.Command, query string, limit int, jsonOutput bool) error {
	dir, cfg, err := resolveEnv()
	if err != nil {
		return err
	}

	slog.Info("search_started", slog.String("query", query), slog.Int("limit", limit))

	idx, err := openExistingStore(dir, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = idx.Close() }()

	engine := search.NewEngine(idx, cfg.Search.DefaultLimit)
	results, err := engine.Search(cmd.Context(), query, limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	out := output.New(cmd.OutOrStdout())
	if len(results) == 0 {
		out.Linef("No results for %q", query)
		return nil
	}
	for _, r := range results {
		out.Linef("%s (%s): %s", r.File, r.Date, clipRunes(r.Snippet, snippetDisplayRunes))
	}
	return nil
}

// clipRunes truncates s to at most max runes, appending an ellipsis when
// anything was cut.
func clipRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
