package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aman-router/toolrouter/internal/catalog"
	"github.com/aman-router/toolrouter/internal/ui"
	"github.com/aman-router/toolrouter/pkg/retriever"
)

// searchOptions holds the flags for the search subcommand.
type searchOptions struct {
	limit       int
	method      string // bm25, vector, hybrid, hybrid_rerank, hierarchical
	granularity string
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run an ad hoc query against a persisted index bundle",
		Long: `Runs a single query through one of the retrieval methods
(bm25, vector, hybrid, hybrid_rerank, hierarchical) over an already-built
index bundle and prints the ranked results.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return runSearch(cmd, query, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 10, "number of results to return")
	cmd.Flags().StringVarP(&opts.method, "method", "m", "hybrid", "bm25, vector, hybrid, hybrid_rerank, or hierarchical")
	cmd.Flags().StringVarP(&opts.granularity, "granularity", "g", "type_service_tool", "type_service, type_service_tool, or tool")

	return cmd
}

func runSearch(cmd *cobra.Command, query string, opts searchOptions) error {
	styles := ui.GetStyles(noColor || !ui.IsTTY(cmd.OutOrStdout()))

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sys, err := loadSystem(cfg)
	if err != nil {
		return err
	}

	granularity := catalog.Granularity(opts.granularity)
	hybrid, ok := sys.hybrid[granularity]
	if !ok {
		return fmt.Errorf("unknown granularity %q", opts.granularity)
	}
	corpus := sys.corpus[granularity]

	out := cmd.OutOrStdout()

	if opts.method == "hierarchical" {
		result, err := sys.hier.Retrieve(cmd.Context(), query)
		if err != nil {
			return err
		}
		if result.Degraded {
			fmt.Fprintln(out, styles.Warning.Render("stage 2 filter returned no candidates; degraded to unfiltered rerank"))
		}
		printRanking(out, styles, sys.corpus[catalog.TypeServiceTool], result.Ranking, opts.limit)
		return nil
	}

	if opts.method == "hybrid_rerank" {
		result, err := hybrid.HybridRerank(cmd.Context(), query, opts.limit)
		if err != nil {
			return err
		}
		if result.Degraded {
			fmt.Fprintln(out, styles.Warning.Render("reranker unavailable; showing hybrid order"))
		}
		printRanking(out, styles, corpus, result.Ranking, opts.limit)
		return nil
	}

	var ranking retriever.Ranking
	switch opts.method {
	case "bm25":
		ranking, err = hybrid.BM25(cmd.Context(), query, opts.limit)
	case "vector":
		ranking, err = hybrid.Vector(cmd.Context(), query, opts.limit)
	case "hybrid":
		ranking, err = hybrid.Hybrid(cmd.Context(), query, opts.limit)
	default:
		return fmt.Errorf("unknown method %q", opts.method)
	}
	if err != nil {
		return err
	}

	printRanking(out, styles, corpus, ranking, opts.limit)
	return nil
}
