// Package cmd provides the toolrouter CLI commands.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aman-router/toolrouter/internal/config"
	"github.com/aman-router/toolrouter/internal/logging"
)

var (
	configPath string
	debugMode  bool
	noColor    bool
	logCleanup func()
)

// NewRootCmd creates the root command. Its positional argument is the
// test-group index (1, 2, 3); running it evaluates that group's query
// set against the persisted indexes and writes
// evaluation_results_G<n>.json.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toolrouter <test-group>",
		Short: "Hybrid BM25 + vector retrieval engine for MCP tool routing",
		Long: `toolrouter evaluates hierarchical hybrid retrieval (BM25 + dense vectors,
fused by Reciprocal Rank Fusion and neural-reranked) against a tool-bench
query set.

Run 'toolrouter 1' (or 2, 3) to evaluate the corresponding test group
against the indexes under the configured index directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd, args[0])
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupDebugLogging()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			teardownDebugLogging()
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (default: built-in defaults)")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging to ~/.toolrouter/logs/")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable styled output")

	cmd.AddCommand(newBuildIndexCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// Execute runs the root command and returns its error, if any.
func Execute() error {
	return NewRootCmd().Execute()
}

// setupDebugLogging opens the rotating debug log file for the lifetime
// of the command's RunE, so it captures the actual build/search/evaluate
// work rather than just the arg-parsing that precedes it. Runs in
// PersistentPreRunE so every subcommand (build-index, search, config,
// plus the root evaluate) shares it; teardownDebugLogging closes it in
// PersistentPostRun once RunE has returned.
func setupDebugLogging() error {
	if !debugMode {
		return nil
	}
	logger, cleanup, err := logging.Setup(logging.DebugConfig())
	if err != nil {
		return nil
	}
	slog.SetDefault(logger)
	logCleanup = cleanup
	return nil
}

func teardownDebugLogging() {
	if logCleanup != nil {
		logCleanup()
		logCleanup = nil
	}
}

func loadConfig() (config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}
