package ingest

import (
	"golang.org/x/text/language"

	"github.com/cognicore/tweetcloud/pkg/tweetcloud/lexicon"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/stoplist"
)

// Class is a coarse part of speech.
type Class string

const (
	ClassNoun      Class = "Noun"
	ClassVerb      Class = "Verb"
	ClassAdjective Class = "Adjective"
	ClassOther     Class = "Other"
)

// Morpheme is one analyzed unit. Verbs and adjectives carry their stemmed
// dictionary form in Surface.
type Morpheme struct {
	Surface string
	Class   Class
}

// MorphAnalyzer decomposes text into morphemes with stemming applied.
type MorphAnalyzer interface {
	Analyze(text string) ([]Morpheme, error)
}

// KoreanTrack keeps nouns, verbs and adjectives minus Korean stopwords.
type KoreanTrack struct {
	analyzer MorphAnalyzer
	stops    *stoplist.Manager
	lexicon  *lexicon.Lexicon
}

// NewKoreanTrack creates the Korean track. lex may be nil.
func NewKoreanTrack(analyzer MorphAnalyzer, stops *stoplist.Manager, lex *lexicon.Lexicon) *KoreanTrack {
	return &KoreanTrack{analyzer: analyzer, stops: stops, lexicon: lex}
}

// Language implements Track.
func (t *KoreanTrack) Language() language.Tag { return language.Korean }

// Extract implements Track.
func (t *KoreanTrack) Extract(cleaned string) (TrackResult, error) {
	if cleaned == "" {
		return TrackResult{}, nil
	}

	morphs, err := t.analyzer.Analyze(cleaned)
	if err != nil {
		return TrackResult{}, err
	}

	var res TrackResult
	for _, m := range morphs {
		switch m.Class {
		case ClassNoun, ClassVerb, ClassAdjective:
		default:
			continue
		}
		if m.Surface == "" {
			continue
		}
		res.Candidates++

		word := t.lexicon.Normalize(m.Surface)
		if t.stops.IsStop(m.Surface) || t.stops.IsStop(word) {
			continue
		}
		res.Words = append(res.Words, word)
	}

	return res, nil
}
