// Package freq folds extracted word lists into word -> count maps.
package freq

import (
	"sort"

	"github.com/cognicore/tweetcloud/pkg/tweetcloud/ingest"
)

// Map counts word occurrences. Counts only ever grow.
type Map map[string]int

// Entry is one word with its count.
type Entry struct {
	Word  string
	Count int
}

// Aggregate counts every word of every track of every item. The result does
// not depend on item order and is a fresh map on each call.
func Aggregate(batch []ingest.Extraction) Map {
	m := make(Map)
	for _, ex := range batch {
		for _, tr := range ex {
			m.Add(tr.Words...)
		}
	}
	return m
}

// Add counts each word once.
func (m Map) Add(words ...string) {
	for _, w := range words {
		m[w]++
	}
}

// Merge sums maps into a new map.
func Merge(maps ...Map) Map {
	out := make(Map)
	for _, m := range maps {
		for w, c := range m {
			out[w] += c
		}
	}
	return out
}

// Total returns the number of counted occurrences.
func (m Map) Total() int {
	n := 0
	for _, c := range m {
		n += c
	}
	return n
}

// Clone returns an independent copy.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for w, c := range m {
		out[w] = c
	}
	return out
}

// Equal reports whether both maps hold the same counts.
func (m Map) Equal(o Map) bool {
	if len(m) != len(o) {
		return false
	}
	for w, c := range m {
		if oc, ok := o[w]; !ok || oc != c {
			return false
		}
	}
	return true
}

// Top returns the k most frequent words, count descending then word
// ascending. k <= 0 returns every entry.
func (m Map) Top(k int) []Entry {
	entries := make([]Entry, 0, len(m))
	for w, c := range m {
		entries = append(entries, Entry{Word: w, Count: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Word < entries[j].Word
	})
	if k > 0 && k < len(entries) {
		entries = entries[:k]
	}
	return entries
}
