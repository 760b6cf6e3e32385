package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aman-router/toolrouter/internal/catalog"
)

// newBuildIndexCmd builds and persists the three granularity bundles
// (type_service, type_service_tool, tool) from a tool catalog JSON file.
func newBuildIndexCmd() *cobra.Command {
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "build-index",
		Short: "Build and persist the lexical and vector indexes from a tool catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			data, err := os.ReadFile(catalogPath)
			if err != nil {
				return fmt.Errorf("read catalog %s: %w", catalogPath, err)
			}

			rows, err := catalog.LoadRows(data)
			if err != nil {
				return err
			}

			if err := buildAndSaveIndex(cfg, rows); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "built %d-row index under %s\n", len(rows), cfg.IndexDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "path to the tool catalog JSON file")
	_ = cmd.MarkFlagRequired("catalog")

	return cmd
}
