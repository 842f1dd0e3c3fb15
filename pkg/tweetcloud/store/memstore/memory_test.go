package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/cognicore/tweetcloud/pkg/tweetcloud/freq"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/internalerr"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()

	words := freq.Map{"사랑": 2, "love": 1}
	h, err := s.Persist(ctx, "subj", words)
	if err != nil {
		t.Fatal(err)
	}

	words["mutated"] = 9
	rec, err := s.Load(ctx, h)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := rec.Words["mutated"]; ok {
		t.Error("stored record should not alias the caller's map")
	}
	if rec.Subject != "subj" || rec.Words["사랑"] != 2 {
		t.Errorf("record = %+v", rec)
	}
}

func TestMemoryListOrderAndFilter(t *testing.T) {
	ctx := context.Background()
	s := New()

	first, _ := s.Persist(ctx, "a", freq.Map{"x": 1})
	s.Persist(ctx, "b", freq.Map{"y": 1})
	last, _ := s.Persist(ctx, "a", freq.Map{"x": 2, "z": 1})

	list, err := s.List(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Handle != last || list[1].Handle != first {
		t.Errorf("List(a) = %+v", list)
	}

	top, _ := s.TopWords(ctx, "a", 1)
	if len(top) != 1 || top[0].Word != "x" || top[0].Count != 3 {
		t.Errorf("TopWords = %v", top)
	}
}

func TestMemoryFailWith(t *testing.T) {
	s := New()
	s.FailWith = internalerr.ErrStoreUnavailable
	if _, err := s.Persist(context.Background(), "a", freq.Map{}); !errors.Is(err, internalerr.ErrStoreUnavailable) {
		t.Errorf("err = %v", err)
	}
	if s.Len() != 0 {
		t.Error("failed persist should store nothing")
	}
}

func TestMemoryLoadMissing(t *testing.T) {
	if _, err := New().Load(context.Background(), "nope"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryTopWords(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.Persist(ctx, "alice", freq.Map{"cat": 2, "sun": 4})
	s.Persist(ctx, "bob", freq.Map{"dog": 5, "cat": 2})

	alice, err := s.TopWords(ctx, "alice", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(alice) != 2 || alice[0] != (freq.Entry{Word: "sun", Count: 4}) {
		t.Errorf("TopWords(alice) = %v", alice)
	}

	// empty subject sums every record, as List does
	everyone, err := s.TopWords(ctx, "", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(everyone) != 1 || everyone[0] != (freq.Entry{Word: "dog", Count: 5}) {
		t.Errorf("TopWords(all) = %v", everyone)
	}
	if all, _ := s.TopWords(ctx, "", 0); len(all) != 3 {
		t.Errorf("TopWords(all, 0) = %v", all)
	}
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	s := New()
	h, _ := s.Persist(ctx, "gone", freq.Map{"a": 1})

	if err := s.Delete(ctx, h); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d after delete", s.Len())
	}
	if err := s.Delete(ctx, h); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("second Delete err = %v, want ErrNotFound", err)
	}
}
