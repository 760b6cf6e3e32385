// Package eval computes NDCG@k retrieval quality against a query set
// with binary per-service relevance, and serializes the result to the
// evaluation_results_G<n>.json report format.
package eval

import "math"

// Depths are the cutoffs the Evaluator reports.
var Depths = []int{1, 3, 5}

// dcg computes Discounted Cumulative Gain over relevance at depth k:
// Σ_{i=0..k-1} rel_i / log2(i+2).
func dcg(relevance []float64, k int) float64 {
	if k > len(relevance) {
		k = len(relevance)
	}
	var sum float64
	for i := 0; i < k; i++ {
		sum += relevance[i] / math.Log2(float64(i)+2)
	}
	return sum
}

// NDCG computes NDCG@k for a ranked list of predicted services against
// a ground-truth relevant set, using binary relevance: a predicted
// service is relevant iff it appears in relevantServices.
//
// IDCG is the DCG of min(k, |relevantServices|) ones followed by
// zeros. Returns 0 when IDCG is 0 (no relevant services to find).
func NDCG(predictedServices []string, relevantServices []string, k int) float64 {
	relevant := make(map[string]struct{}, len(relevantServices))
	for _, s := range relevantServices {
		relevant[s] = struct{}{}
	}

	depth := k
	if depth > len(predictedServices) {
		depth = len(predictedServices)
	}

	relevance := make([]float64, depth)
	for i := 0; i < depth; i++ {
		if _, ok := relevant[predictedServices[i]]; ok {
			relevance[i] = 1.0
		}
	}

	idealCount := len(relevantServices)
	if idealCount > k {
		idealCount = k
	}
	ideal := make([]float64, k)
	for i := 0; i < idealCount; i++ {
		ideal[i] = 1.0
	}

	idcg := dcg(ideal, k)
	if idcg == 0 {
		return 0
	}
	return dcg(relevance, k) / idcg
}
