package retriever

// WeightedRanking pairs a ranking with its fusion weight.
type WeightedRanking struct {
	Ranking Ranking
	Weight  float64
}

// FuseRRF combines ranked lists by Reciprocal Rank Fusion:
//
//	score(d) = Σ_i  w_i / (k + rank_i(d) + 1)
//
// where rank_i(d) is the zero-based rank of d in list i, and the term
// is dropped for lists d is absent from. Equal ids across lists
// collapse to one output entry. Output is sorted by fused score
// descending; ties are broken by the higher minimum rank achieved
// across contributing lists, then by corpus position ascending.
func FuseRRF(lists []WeightedRanking, k int) Ranking {
	type accumulator struct {
		position int
		id       string
		score    float64
		minRank  int
	}

	order := make([]string, 0)
	docs := make(map[string]*accumulator)

	for _, wl := range lists {
		for rank, r := range wl.Ranking {
			a, ok := docs[r.ID]
			if !ok {
				a = &accumulator{position: r.Position, id: r.ID, minRank: rank}
				docs[r.ID] = a
				order = append(order, r.ID)
			} else if rank < a.minRank {
				a.minRank = rank
			}
			a.score += wl.Weight / float64(k+rank+1)
		}
	}

	fused := make(Ranking, 0, len(order))
	minRanks := make(map[string]int, len(order))
	for _, id := range order {
		a := docs[id]
		fused = append(fused, Ranked{Position: a.position, ID: a.id, Score: a.score})
		minRanks[id] = a.minRank
	}

	for i := 1; i < len(fused); i++ {
		j := i
		for j > 0 && fuseLess(fused[j], fused[j-1], minRanks) {
			fused[j], fused[j-1] = fused[j-1], fused[j]
			j--
		}
	}

	return fused
}

func fuseLess(a, b Ranked, minRanks map[string]int) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if minRanks[a.ID] != minRanks[b.ID] {
		return minRanks[a.ID] > minRanks[b.ID]
	}
	return a.Position < b.Position
}
