package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/recallkit/recall/internal/content"
	"github.com/recallkit/recall/internal/output"
)

func newGetCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "get <file>...",
		Short: "Print the raw content of memory files",
		Long: `Print the full raw content of one or more memory files, looked up
by filename anywhere under the memory directory. A name that cannot
be found is reported on stderr without suppressing the others.

Examples:
  recall get 2026-08-01-standup.md
  recall get notes.md decisions.md --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd, args, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output content keyed by filename as JSON")

	return cmd
}

func runGet(cmd *cobra.Command, names []string, jsonOutput bool) error {
	dir, _, err := resolveEnv()
	if err != nil {
		return err
	}

	fetcher, err := content.New(dir)
	if err != nil {
		return err
	}

	res, err := fetcher.Fetch(cmd.Context(), names)
	if err != nil {
		return err
	}

	errOut := output.New(cmd.ErrOrStderr())

	if jsonOutput {
		// Failures stay on stderr; the JSON payload is results only
		for name, ferr := range res.Failures {
			errOut.Errorf("%s: %v", name, ferr)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(res.Content); err != nil {
			return err
		}
	} else {
		out := output.New(cmd.OutOrStdout())
		// Preserve the requested order
		for _, name := range names {
			if body, ok := res.Content[name]; ok {
				if len(names) > 1 {
					out.Linef("=== %s ===", name)
				}
				out.Line(body)
				continue
			}
			errOut.Errorf("%s: %v", name, res.Failures[name])
		}
	}

	if len(res.Content) == 0 && len(res.Failures) > 0 {
		return fmt.Errorf("no memory file matched")
	}
	return nil
}
