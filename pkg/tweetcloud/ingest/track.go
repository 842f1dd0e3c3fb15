package ingest

import (
	"fmt"

	"golang.org/x/text/language"

	"github.com/cognicore/tweetcloud/pkg/tweetcloud/internalerr"
)

// Track extracts the salient words of one language from cleaned text.
type Track interface {
	Language() language.Tag
	Extract(cleaned string) (TrackResult, error)
}

// TrackResult is one track's output for one item.
type TrackResult struct {
	Lang  language.Tag
	Words []string
	// Candidates counts tokens of an accepted class before stopword
	// filtering. Candidates > 0 with no Words means everything was a
	// stopword.
	Candidates int
}

// Extraction holds the per-track results for one item, in track order.
type Extraction []TrackResult

// Words returns the word list for lang, or nil when no such track ran.
func (e Extraction) Words(lang language.Tag) []string {
	for _, r := range e {
		if r.Lang == lang {
			return r.Words
		}
	}
	return nil
}

// English returns the English track's words.
func (e Extraction) English() []string { return e.Words(language.English) }

// Korean returns the Korean track's words.
func (e Extraction) Korean() []string { return e.Words(language.Korean) }

// Total returns the number of words across all tracks.
func (e Extraction) Total() int {
	n := 0
	for _, r := range e {
		n += len(r.Words)
	}
	return n
}

// Candidates returns the number of pre-stopword candidates across all tracks.
func (e Extraction) Candidates() int {
	n := 0
	for _, r := range e {
		n += r.Candidates
	}
	return n
}

// Extractor runs every configured track over the same cleaned text.
type Extractor struct {
	tracks []Track
}

// NewExtractor creates an extractor over the given tracks
func NewExtractor(tracks ...Track) *Extractor {
	return &Extractor{tracks: tracks}
}

// Tracks returns the configured tracks
func (x *Extractor) Tracks() []Track {
	return x.tracks
}

// Extract runs all tracks. A failing or panicking track fails the whole
// item; the error wraps internalerr.ErrAnalyzer.
func (x *Extractor) Extract(cleaned string) (Extraction, error) {
	out := make(Extraction, 0, len(x.tracks))
	for _, tr := range x.tracks {
		res, err := runTrack(tr, cleaned)
		if err != nil {
			return nil, err
		}
		res.Lang = tr.Language()
		out = append(out, res)
	}
	return out, nil
}

func runTrack(tr Track, cleaned string) (res TrackResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s track panicked: %v", internalerr.ErrAnalyzer, tr.Language(), r)
		}
	}()

	res, err = tr.Extract(cleaned)
	if err != nil {
		return TrackResult{}, fmt.Errorf("%w: %s track: %v", internalerr.ErrAnalyzer, tr.Language(), err)
	}
	return res, nil
}
