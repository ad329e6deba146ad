// Package cmd provides the CLI commands for recall.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/recallkit/recall/internal/config"
	"github.com/recallkit/recall/internal/logging"
	"github.com/recallkit/recall/internal/store"
	"github.com/recallkit/recall/pkg/version"
)

var (
	memoryDirFlag  string
	debugMode      bool
	loggingCleanup func()
)

// NewRootCmd creates the root command for the recall CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recall",
		Short: "Progressive search over a directory of memory files",
		Long: `Recall indexes a directory of markdown memory files and serves them
back in three layers of detail: ranked snippets (search), a
chronological listing (timeline), and full raw content (get).

The memory directory is resolved from --memory-dir, then ./memory,
then ~/.openclaw/workspace/memory, then the working directory.`,
		Version: version.Version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.SetVersionTemplate("recall version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&memoryDirFlag, "memory-dir", "", "Memory directory (overrides automatic resolution)")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.recall/logs/")

	cmd.PersistentPreRun = startLogging
	cmd.PersistentPostRun = stopLogging

	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newTimelineCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startLogging sets up file logging. Logging failures never block the
// command itself.
func startLogging(_ *cobra.Command, _ []string) {
	logCfg := logging.DefaultConfig()
	if debugMode {
		logCfg = logging.DebugConfig()
		logCfg.WriteToStderr = true
	}

	logger, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return
	}
	slog.SetDefault(logger)
	loggingCleanup = cleanup
}

// stopLogging closes the log file if one was opened.
func stopLogging(_ *cobra.Command, _ []string) {
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
}

// resolveEnv resolves the memory root and loads its configuration.
func resolveEnv() (string, *config.Config, error) {
	dir, err := config.ResolveMemoryDir(memoryDirFlag, config.DefaultCandidates())
	if err != nil {
		return "", nil, err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return "", nil, err
	}
	return dir, cfg, nil
}

// storeConfig maps search configuration onto the store.
func storeConfig(cfg *config.Config) store.Config {
	return store.Config{
		SnippetTokens:  cfg.Search.SnippetTokens,
		HighlightOpen:  cfg.Search.HighlightOpen,
		HighlightClose: cfg.Search.HighlightClose,
		Ellipsis:       cfg.Search.Ellipsis,
	}
}

// openExistingStore opens the store for reading. A directory that was
// never indexed is an error pointing at the index command. When an
// artifact from a different backend than the configured one is present,
// the artifact wins, so switching config does not silently read an
// empty store.
func openExistingStore(dir string, cfg *config.Config) (store.FTSIndex, error) {
	basePath := config.IndexBasePath(dir)
	backend := cfg.Search.Backend
	if detected := store.DetectBackend(basePath); detected != "" {
		backend = string(detected)
	} else {
		return nil, fmt.Errorf("no index found in %s. Run 'recall index' first", dir)
	}
	return store.Open(basePath, storeConfig(cfg), backend)
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
