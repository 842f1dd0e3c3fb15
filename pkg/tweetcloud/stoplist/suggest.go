package stoplist

import "sort"

// Stats holds per-token document statistics across a subject's results
type Stats struct {
	Token string
	// DF is the number of results the token appears in.
	DF        int
	DFPercent float64
	// Count is the token's summed frequency.
	Count int
}

// Candidate is a suggested stopword
type Candidate struct {
	Token     string
	DFPercent float64
	Count     int
	Score     float64 // confidence score
}

// Thresholds defines criteria for stopword identification
type Thresholds struct {
	DFPercent float64 // e.g., 80% - appears in 80% of results
	MinDocs   int     // below this many results DF is meaningless
	MinCount  int
}

// DefaultThresholds returns sensible default thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DFPercent: 80.0,
		MinDocs:   3,
		MinCount:  5,
	}
}

// SuggestCandidates suggests tokens that should be stopwords: words that
// show up in nearly every result say nothing about any one of them.
// Existing stopwords are skipped. Output is ordered by score, then token.
func (m *Manager) SuggestCandidates(stats []Stats, docs int, thresholds Thresholds) []Candidate {
	if docs < thresholds.MinDocs {
		return nil
	}

	var candidates []Candidate
	for _, s := range stats {
		if m.IsStop(s.Token) {
			continue // already a stopword
		}
		if s.DFPercent < thresholds.DFPercent || s.Count < thresholds.MinCount {
			continue
		}

		// favour tokens that are both everywhere and frequent
		perDoc := float64(s.Count) / float64(docs)
		score := s.DFPercent / 100.0
		if perDoc > 1 {
			score += 1 - 1/perDoc
		}
		candidates = append(candidates, Candidate{
			Token:     s.Token,
			DFPercent: s.DFPercent,
			Count:     s.Count,
			Score:     score / 2,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Token < candidates[j].Token
	})
	return candidates
}
