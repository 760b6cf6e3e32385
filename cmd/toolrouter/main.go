// Command toolrouter evaluates hierarchical hybrid retrieval (BM25 +
// vector, RRF fusion, neural rerank) against tool-bench query sets, and
// provides build-index/search subcommands for ad hoc use.
package main

import (
	"fmt"
	"os"

	"github.com/aman-router/toolrouter/cmd/toolrouter/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
