package cmd

import (
	"fmt"
	"io"

	"github.com/aman-router/toolrouter/internal/catalog"
	"github.com/aman-router/toolrouter/internal/ui"
	"github.com/aman-router/toolrouter/pkg/retriever"
)

// printRanking writes a ranked result list, one line per entry, styled
// when out is a terminal.
func printRanking(out io.Writer, styles ui.Styles, corpus catalog.Corpus, ranking retriever.Ranking, limit int) {
	if limit > 0 && len(ranking) > limit {
		ranking = ranking[:limit]
	}
	if len(ranking) == 0 {
		fmt.Fprintln(out, styles.Label.Render("no results"))
		return
	}

	for i, r := range ranking {
		content := r.ID
		if r.Position >= 0 && r.Position < len(corpus) {
			content = corpus[r.Position].Content
		}
		fmt.Fprintf(out, "%s %s  %s\n",
			styles.Label.Render(fmt.Sprintf("%2d.", i+1)),
			styles.Score.Render(fmt.Sprintf("%.4f", r.Score)),
			content,
		)
	}
}
