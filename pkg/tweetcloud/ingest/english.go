package ingest

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/cognicore/tweetcloud/pkg/tweetcloud/lexicon"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/stoplist"
)

// Segmenter splits text into word tokens.
type Segmenter interface {
	Segment(text string) ([]string, error)
}

// SegmenterFunc adapts a function to Segmenter.
type SegmenterFunc func(text string) ([]string, error)

// Segment implements Segmenter.
func (f SegmenterFunc) Segment(text string) ([]string, error) { return f(text) }

// Lemmatizer reduces a word to its dictionary form.
type Lemmatizer interface {
	Lemma(word string) string
}

// EnglishTrack keeps alphabetic English tokens, lemmatized, minus stopwords.
type EnglishTrack struct {
	seg     Segmenter
	lem     Lemmatizer
	stops   *stoplist.Manager
	lexicon *lexicon.Lexicon
}

// NewEnglishTrack creates the English track. lem and lex may be nil.
func NewEnglishTrack(seg Segmenter, lem Lemmatizer, stops *stoplist.Manager, lex *lexicon.Lexicon) *EnglishTrack {
	return &EnglishTrack{seg: seg, lem: lem, stops: stops, lexicon: lex}
}

// Language implements Track.
func (t *EnglishTrack) Language() language.Tag { return language.English }

// Extract implements Track.
func (t *EnglishTrack) Extract(cleaned string) (TrackResult, error) {
	if cleaned == "" {
		return TrackResult{}, nil
	}

	tokens, err := t.seg.Segment(cleaned)
	if err != nil {
		return TrackResult{}, err
	}

	var res TrackResult
	for _, tok := range tokens {
		tok = strings.ToLower(tok)
		if !isASCIIWord(tok) {
			continue
		}
		res.Candidates++

		if t.stops.IsStop(tok) {
			continue
		}

		word := tok
		if t.lem != nil {
			if lemma := strings.ToLower(t.lem.Lemma(tok)); isASCIIWord(lemma) {
				word = lemma
			}
		}
		word = t.lexicon.Normalize(word)

		// "being" -> "be": the lemma can be a stopword even when the
		// surface form is not listed.
		if t.stops.IsStop(word) {
			continue
		}
		res.Words = append(res.Words, word)
	}

	return res, nil
}
