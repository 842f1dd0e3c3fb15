// Package autotune suggests stoplist additions from stored results.
package autotune

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/cognicore/tweetcloud/pkg/tweetcloud/stoplist"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/store"
)

// StatsProvider exposes the aggregated metrics required for stopword tuning.
type StatsProvider interface {
	// StopwordStats returns per-token stats and the number of results
	// they were computed over.
	StopwordStats(ctx context.Context) ([]stoplist.Stats, int, error)
}

// Reviewer optionally performs an extra approval step.
type Reviewer interface {
	Approve(ctx context.Context, cand stoplist.Candidate) (bool, error)
}

// AutoTuner produces ranked stopword suggestions from result statistics.
type AutoTuner struct {
	Provider   StatsProvider
	Manager    *stoplist.Manager
	Thresholds stoplist.Thresholds
	Reviewer   Reviewer // optional
}

// Run collects stats, produces candidates, optionally routes them through the reviewer,
// and returns approved suggestions.
func (t *AutoTuner) Run(ctx context.Context) ([]stoplist.Candidate, error) {
	if t.Provider == nil {
		return nil, errors.New("stopwords autotune: nil stats provider")
	}
	if t.Manager == nil {
		return nil, errors.New("stopwords autotune: nil manager")
	}

	stats, docs, err := t.Provider.StopwordStats(ctx)
	if err != nil {
		return nil, err
	}

	candidates := t.Manager.SuggestCandidates(stats, docs, t.thresholdsOrDefault())
	if len(candidates) == 0 || t.Reviewer == nil {
		return candidates, nil
	}

	var approved []stoplist.Candidate
	for _, cand := range candidates {
		ok, err := t.Reviewer.Approve(ctx, cand)
		if err != nil {
			return nil, err
		}
		if ok {
			approved = append(approved, cand)
		}
	}
	return approved, nil
}

func (t *AutoTuner) thresholdsOrDefault() stoplist.Thresholds {
	if t.Thresholds == (stoplist.Thresholds{}) {
		return stoplist.DefaultThresholds()
	}
	return t.Thresholds
}

// SubjectStats computes document frequencies over every stored result of
// one subject.
type SubjectStats struct {
	Store   store.Store
	Subject string
}

// StopwordStats implements StatsProvider.
func (s SubjectStats) StopwordStats(ctx context.Context) ([]stoplist.Stats, int, error) {
	sums, err := s.Store.List(ctx, s.Subject)
	if err != nil {
		return nil, 0, fmt.Errorf("list results: %w", err)
	}

	df := make(map[string]int)
	counts := make(map[string]int)
	for _, sum := range sums {
		rec, err := s.Store.Load(ctx, sum.Handle)
		if err != nil {
			return nil, 0, fmt.Errorf("load %s: %w", sum.Handle, err)
		}
		for w, c := range rec.Words {
			df[w]++
			counts[w] += c
		}
	}

	docs := len(sums)
	stats := make([]stoplist.Stats, 0, len(df))
	for w, n := range df {
		stats = append(stats, stoplist.Stats{
			Token:     w,
			DF:        n,
			DFPercent: 100 * float64(n) / float64(docs),
			Count:     counts[w],
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Token < stats[j].Token })
	return stats, docs, nil
}
