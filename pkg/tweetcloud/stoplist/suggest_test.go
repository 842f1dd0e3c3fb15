package stoplist

import "testing"

func TestSuggestCandidates(t *testing.T) {
	mgr := NewManager([]string{"the"})
	stats := []Stats{
		{Token: "the", DF: 10, DFPercent: 100, Count: 90},  // already a stopword
		{Token: "rt", DF: 10, DFPercent: 100, Count: 40},   // everywhere, frequent
		{Token: "today", DF: 9, DFPercent: 90, Count: 9},   // everywhere, once each
		{Token: "concert", DF: 3, DFPercent: 30, Count: 12}, // topical
		{Token: "hi", DF: 9, DFPercent: 90, Count: 2},      // below MinCount
	}

	cands := mgr.SuggestCandidates(stats, 10, DefaultThresholds())
	if len(cands) != 2 {
		t.Fatalf("Expected 2 candidates, got %+v", cands)
	}
	if cands[0].Token != "rt" || cands[1].Token != "today" {
		t.Errorf("Unexpected order: %+v", cands)
	}
	if cands[0].Score <= cands[1].Score {
		t.Errorf("rt should outscore today: %+v", cands)
	}
}

func TestSuggestCandidatesTooFewDocs(t *testing.T) {
	mgr := NewManager(nil)
	stats := []Stats{{Token: "rt", DF: 2, DFPercent: 100, Count: 50}}
	if cands := mgr.SuggestCandidates(stats, 2, DefaultThresholds()); len(cands) != 0 {
		t.Errorf("Expected no candidates below MinDocs, got %+v", cands)
	}
}
