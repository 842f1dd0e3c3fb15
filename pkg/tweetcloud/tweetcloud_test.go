package tweetcloud

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/cognicore/tweetcloud/pkg/tweetcloud/freq"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/ingest"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/internalerr"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/stoplist"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/store/memstore"
)

// fixtureSegmenter splits on spaces and fails on the word "boom".
var fixtureSegmenter = ingest.SegmenterFunc(func(text string) ([]string, error) {
	fields := strings.Fields(text)
	for _, f := range fields {
		if f == "boom" {
			return nil, errors.New("segmenter exploded")
		}
	}
	return fields, nil
})

type fixtureLemmas map[string]string

func (f fixtureLemmas) Lemma(w string) string {
	if l, ok := f[w]; ok {
		return l
	}
	return w
}

type fixtureAnalyzer map[string]ingest.Morpheme

func (f fixtureAnalyzer) Analyze(text string) ([]ingest.Morpheme, error) {
	var out []ingest.Morpheme
	for _, w := range strings.Fields(text) {
		if m, ok := f[w]; ok {
			out = append(out, m)
		} else {
			out = append(out, ingest.Morpheme{Surface: w, Class: ingest.ClassOther})
		}
	}
	return out, nil
}

func fixtureExtractor() *ingest.Extractor {
	lemmas := fixtureLemmas{"songs": "song", "loved": "love", "singing": "sing"}
	ko := fixtureAnalyzer{
		"노래":  {Surface: "노래", Class: ingest.ClassNoun},
		"좋아요": {Surface: "좋다", Class: ingest.ClassAdjective},
		"것":   {Surface: "것", Class: ingest.ClassNoun},
		"이":   {Surface: "이", Class: ingest.ClassNoun},
		"사랑":  {Surface: "사랑", Class: ingest.ClassNoun},
	}
	return ingest.NewExtractor(
		ingest.NewEnglishTrack(fixtureSegmenter, lemmas, stoplist.English(), nil),
		ingest.NewKoreanTrack(ko, stoplist.Korean(), nil),
	)
}

func newTestEngine(logs io.Writer) (*Engine, *memstore.Store) {
	if logs == nil {
		logs = io.Discard
	}
	st := memstore.New()
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(Options{Extractor: fixtureExtractor(), Store: st, Logger: logger}), st
}

func TestProcessEndToEnd(t *testing.T) {
	ctx := context.Background()
	eng, st := newTestEngine(nil)

	items := []string{
		"I loved these songs https://t.co/xyz 노래 좋아요!",
		"Singing songs 🎤 노래 노래",
	}
	res, err := eng.Process(ctx, "  iu_official ", items)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	want := freq.Map{"love": 1, "song": 2, "sing": 1, "노래": 3, "좋다": 1}
	if !res.Words.Equal(want) {
		t.Errorf("Words = %v, want %v", res.Words, want)
	}
	if res.Subject != "iu_official" {
		t.Errorf("Subject = %q", res.Subject)
	}

	rec, err := st.Load(ctx, res.Handle)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rec.Subject != "iu_official" || !rec.Words.Equal(want) {
		t.Errorf("persisted record = %+v", rec)
	}
}

func TestProcessStopwordsNeverCounted(t *testing.T) {
	eng, _ := newTestEngine(nil)

	items := []string{
		"the the the THE the music",
		"것 것 것 이 이 노래",
		"is are was the and of",
	}
	res, err := eng.Process(context.Background(), "s", items)
	if err != nil {
		t.Fatal(err)
	}

	for _, stop := range append(stoplist.English().All(), stoplist.Korean().All()...) {
		if _, ok := res.Words[stop]; ok {
			t.Errorf("stopword %q counted", stop)
		}
	}
	if res.Words["music"] != 1 || res.Words["노래"] != 1 {
		t.Errorf("Words = %v", res.Words)
	}
}

func TestProcessOneBadItemOfTen(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	eng, _ := newTestEngine(&logs)

	items := make([]string, 10)
	for i := range items {
		items[i] = fmt.Sprintf("song%c 사랑", 'a'+i)
	}
	items[6] = "this will go boom 사랑"

	res, err := eng.Process(ctx, "batch", items)
	if err != nil {
		t.Fatalf("Process should not fail on a bad item: %v", err)
	}

	good := append(append([]string(nil), items[:6]...), items[7:]...)
	ref, _ := newTestEngine(nil)
	want, err := ref.Process(ctx, "batch", good)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Words.Equal(want.Words) {
		t.Errorf("Words = %v, want aggregate of the other 9: %v", res.Words, want.Words)
	}

	failed := res.Outcomes[6]
	if failed.Index != 7 || failed.Status != StatusFailed || failed.Reason != ReasonAnalyzerError {
		t.Errorf("outcome = %+v", failed)
	}
	if !errors.Is(failed.Err, internalerr.ErrAnalyzer) {
		t.Errorf("outcome err = %v, want ErrAnalyzer", failed.Err)
	}
	if res.Count(StatusFailed) != 1 || res.Count(StatusAccepted) != 9 {
		t.Errorf("counts: failed=%d accepted=%d", res.Count(StatusFailed), res.Count(StatusAccepted))
	}

	out := logs.String()
	if !strings.Contains(out, "level=ERROR") || !strings.Contains(out, "item=7") || !strings.Contains(out, "subject=batch") {
		t.Errorf("failure log missing context:\n%s", out)
	}
}

func TestProcessNoWordReasons(t *testing.T) {
	var logs bytes.Buffer
	eng, _ := newTestEngine(&logs)

	items := []string{
		"!!! 123 😀",     // empty after cleaning
		"the and of",      // only stopwords
		"를 에서",           // Korean text nothing qualifies
		"good 노래",         // accepted
	}
	res, err := eng.Process(context.Background(), "reasons", items)
	if err != nil {
		t.Fatal(err)
	}

	want := []struct {
		status Status
		reason Reason
	}{
		{StatusEmpty, ReasonEmpty},
		{StatusNoWords, ReasonAllStopwords},
		{StatusNoWords, ReasonNoTokens},
		{StatusAccepted, ReasonNone},
	}
	for i, w := range want {
		o := res.Outcomes[i]
		if o.Status != w.status || o.Reason != w.reason {
			t.Errorf("item %d: status=%s reason=%q, want %s %q", i+1, o.Status, o.Reason, w.status, w.reason)
		}
		if o.Index != i+1 {
			t.Errorf("item %d: Index = %d", i+1, o.Index)
		}
	}

	if !strings.Contains(logs.String(), "level=WARN") || !strings.Contains(logs.String(), "reason=all_stopwords") {
		t.Errorf("zero-extraction warning missing:\n%s", logs.String())
	}
}

func TestProcessEmptyBatchPersists(t *testing.T) {
	eng, st := newTestEngine(nil)

	res, err := eng.Process(context.Background(), "nobody", nil)
	if err != nil {
		t.Fatalf("empty batch should not be an error: %v", err)
	}
	if len(res.Words) != 0 {
		t.Errorf("Words = %v", res.Words)
	}
	if st.Len() != 1 {
		t.Errorf("stored %d records, want 1", st.Len())
	}
}

func TestProcessPersistFailure(t *testing.T) {
	var logs bytes.Buffer
	eng, st := newTestEngine(&logs)
	st.FailWith = errors.New("disk full")

	_, err := eng.Process(context.Background(), "unlucky", []string{"music"})
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("err = %v, want disk full", err)
	}
	if !strings.Contains(logs.String(), "persist failed") || !strings.Contains(logs.String(), "subject=unlucky") {
		t.Errorf("persist failure not logged:\n%s", logs.String())
	}
}

func TestProcessRequiresSubject(t *testing.T) {
	eng, _ := newTestEngine(nil)
	if _, err := eng.Process(context.Background(), "  ", []string{"x"}); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestProcessCancelledWritesNothing(t *testing.T) {
	eng, st := newTestEngine(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := eng.Process(ctx, "late", []string{"music"}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if st.Len() != 0 {
		t.Error("cancelled invocation persisted a record")
	}
}

func TestProcessCallObservers(t *testing.T) {
	var seen []int
	obs := ObserverFunc(func(subject string, o Outcome) {
		if subject != "obs" {
			t.Errorf("subject = %q", subject)
		}
		seen = append(seen, o.Index)
	})

	eng, _ := newTestEngine(nil)
	if _, err := eng.Process(context.Background(), "obs", []string{"a", "b", "c"}, obs); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 3 || seen[0] != 1 || seen[2] != 3 {
		t.Errorf("observer saw %v", seen)
	}
}

func TestPreviewTruncates(t *testing.T) {
	long := strings.Repeat("가", 200)
	p := preview(long)
	if got := len([]rune(p)); got != previewRunes+1 {
		t.Errorf("preview has %d runes, want %d", got, previewRunes+1)
	}
}
