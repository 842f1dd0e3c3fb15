package tweetcloud

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cognicore/tweetcloud/pkg/tweetcloud/freq"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/ingest"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/internalerr"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/store"
)

// Engine turns a subject's raw posts into a persisted word-frequency record
type Engine struct {
	extractor *ingest.Extractor
	store     store.Store
	log       *slog.Logger
	observers []Observer
}

// Options configures an Engine instance
type Options struct {
	Extractor *ingest.Extractor
	Store     store.Store
	Logger    *slog.Logger
	// Observers receive every outcome of every invocation, after the
	// log observer.
	Observers []Observer
}

// New creates an Engine with the given dependencies
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	observers := append([]Observer{LogObserver{Logger: logger}}, opts.Observers...)
	return &Engine{
		extractor: opts.Extractor,
		store:     opts.Store,
		log:       logger,
		observers: observers,
	}
}

// Close cleanly shuts down the engine's store
func (e *Engine) Close() error {
	return e.store.Close()
}

// Store returns the engine's result store
func (e *Engine) Store() store.Store {
	return e.store
}

// Result is the output of one invocation
type Result struct {
	Subject  string
	Handle   store.Handle
	Words    freq.Map
	Outcomes []Outcome
}

// Count returns how many outcomes have status s
func (r Result) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Process cleans, extracts and counts items, then persists the counts for
// subject. Item-level problems never fail the call; they are reported in
// Result.Outcomes and to observers (including any passed here). An empty
// frequency map is persisted like any other.
func (e *Engine) Process(ctx context.Context, subject string, items []string, observers ...Observer) (Result, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return Result{}, fmt.Errorf("%w: subject is required", internalerr.ErrInvalidInput)
	}

	res := Result{Subject: subject, Outcomes: make([]Outcome, 0, len(items))}
	batch := make([]ingest.Extraction, 0, len(items))

	for i, raw := range items {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		ex, out := e.ProcessItem(i+1, raw)
		res.Outcomes = append(res.Outcomes, out)
		if out.Status == StatusAccepted {
			batch = append(batch, ex)
		}

		for _, o := range e.observers {
			o.Observe(subject, out)
		}
		for _, o := range observers {
			o.Observe(subject, out)
		}
	}

	res.Words = freq.Aggregate(batch)

	h, err := e.store.Persist(ctx, subject, res.Words)
	if err != nil {
		e.log.Error("persist failed", "subject", subject, "words", len(res.Words), "err", err)
		return res, fmt.Errorf("persist result for %q: %w", subject, err)
	}
	res.Handle = h

	e.log.Info("processed posts",
		"subject", subject,
		"handle", h,
		"items", len(items),
		"skipped", res.Count(StatusFailed),
		"no_words", res.Count(StatusNoWords)+res.Count(StatusEmpty),
		"words", len(res.Words),
	)
	return res, nil
}

// ProcessItem runs one raw item through cleaning and extraction. index is
// 1-based and only used for reporting.
func (e *Engine) ProcessItem(index int, raw string) (ingest.Extraction, Outcome) {
	out := Outcome{Index: index}

	cleaned := ingest.Clean(raw)
	if cleaned == "" {
		out.Status, out.Reason = StatusEmpty, ReasonEmpty
		return nil, out
	}

	ex, err := e.extractor.Extract(cleaned)
	if err != nil {
		out.Status, out.Reason, out.Err = StatusFailed, ReasonAnalyzerError, err
		out.Preview = preview(raw)
		return nil, out
	}

	out.Words = ex.Total()
	switch {
	case out.Words > 0:
		out.Status = StatusAccepted
	case ex.Candidates() > 0:
		out.Status, out.Reason = StatusNoWords, ReasonAllStopwords
	default:
		out.Status, out.Reason = StatusNoWords, ReasonNoTokens
	}
	if out.Status != StatusAccepted {
		out.Preview = preview(raw)
	}
	return ex, out
}
