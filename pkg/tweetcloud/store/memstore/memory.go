package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cognicore/tweetcloud/pkg/tweetcloud/freq"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/internalerr"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu      sync.RWMutex
	records map[store.Handle]store.Record
	ids     *store.IDSource
	now     func() time.Time

	// FailWith, when set, makes Persist fail with this error.
	FailWith error
}

var (
	_ store.Store   = (*Store)(nil)
	_ store.Deleter = (*Store)(nil)
)

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		records: make(map[store.Handle]store.Record),
		ids:     store.NewIDSource(),
		now:     time.Now,
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// Persist implements store.Store. The word map is copied.
func (s *Store) Persist(ctx context.Context, subject string, words freq.Map) (store.Handle, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return "", s.FailWith
	}

	now := s.now().Truncate(time.Second)
	id, err := s.ids.New(now)
	if err != nil {
		return "", err
	}
	h := store.Handle(id.String())
	s.records[h] = store.Record{
		ID:        id.String(),
		Subject:   subject,
		CreatedAt: now,
		Words:     words.Clone(),
	}
	return h, nil
}

// Load implements store.Store.
func (s *Store) Load(ctx context.Context, h store.Handle) (store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[h]
	if !ok {
		return store.Record{}, fmt.Errorf("%w: result %s", internalerr.ErrNotFound, h)
	}
	rec.Words = rec.Words.Clone()
	return rec, nil
}

// List implements store.Store.
func (s *Store) List(ctx context.Context, subject string) ([]store.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.Summary
	for h, rec := range s.records {
		if subject != "" && rec.Subject != subject {
			continue
		}
		out = append(out, store.Summarize(h, rec))
	}
	// ULIDs sort by time.
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// TopWords implements store.Store.
func (s *Store) TopWords(ctx context.Context, subject string, k int) ([]freq.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := freq.Map{}
	for _, rec := range s.records {
		if subject == "" || rec.Subject == subject {
			total = freq.Merge(total, rec.Words)
		}
	}
	return total.Top(k), nil
}

// Delete implements store.Deleter.
func (s *Store) Delete(ctx context.Context, h store.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[h]; !ok {
		return fmt.Errorf("%w: result %s", internalerr.ErrNotFound, h)
	}
	delete(s.records, h)
	return nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
