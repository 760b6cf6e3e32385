package eval

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aman-router/toolrouter/internal/apperr"
)

// QueryCase is one entry of a test-group query set: a natural-language
// query and the ground-truth set of relevant service names.
type QueryCase struct {
	Query            string   `json:"query"`
	RelevantServices []string `json:"relevant APIs"`
}

// LoadQueries parses a query-set JSON array.
func LoadQueries(data []byte) ([]QueryCase, error) {
	var cases []QueryCase
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, apperr.Wrap(apperr.CorpusInvalid, fmt.Errorf("parse query set: %w", err))
	}
	return cases, nil
}

// PredictFunc resolves a query to a ranked list of service names (the
// retrieval result's documents, already mapped to their
// metadata.service field).
type PredictFunc func(ctx context.Context, query string) ([]string, error)

// Report is the evaluation_results_G<n>.json shape.
type Report struct {
	NDCG1         float64   `json:"ndcg@1"`
	NDCG3         float64   `json:"ndcg@3"`
	NDCG5         float64   `json:"ndcg@5"`
	NumQueries    int       `json:"num_queries"`
	DetailedNDCG1 []float64 `json:"detailed_ndcg@1"`
	DetailedNDCG3 []float64 `json:"detailed_ndcg@3"`
	DetailedNDCG5 []float64 `json:"detailed_ndcg@5"`
}

// Evaluate runs predict over every query case and aggregates NDCG@{1,3,5}.
// A failed prediction (remote-service outage) aborts only that query:
// it is scored as NDCG=0 at every depth rather than failing the run.
func Evaluate(ctx context.Context, cases []QueryCase, predict PredictFunc) Report {
	ndcg1 := make([]float64, len(cases))
	ndcg3 := make([]float64, len(cases))
	ndcg5 := make([]float64, len(cases))

	for i, c := range cases {
		predicted, err := predict(ctx, c.Query)
		if err != nil {
			predicted = nil
		}
		ndcg1[i] = NDCG(predicted, c.RelevantServices, 1)
		ndcg3[i] = NDCG(predicted, c.RelevantServices, 3)
		ndcg5[i] = NDCG(predicted, c.RelevantServices, 5)
	}

	return Report{
		NDCG1:         mean(ndcg1),
		NDCG3:         mean(ndcg3),
		NDCG5:         mean(ndcg5),
		NumQueries:    len(cases),
		DetailedNDCG1: ndcg1,
		DetailedNDCG3: ndcg3,
		DetailedNDCG5: ndcg5,
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Save writes the report as indented JSON to path (e.g.
// "evaluation_results_G2.json").
func (r Report) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return apperr.Wrap(apperr.IoError, fmt.Errorf("marshal report: %w", err))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperr.Wrap(apperr.IoError, fmt.Errorf("write report %s: %w", path, err))
	}
	return nil
}
