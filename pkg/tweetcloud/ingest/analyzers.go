package ingest

import (
	"fmt"
	"strings"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	ko "github.com/ikawaha/kagome-dict-ko"
	"github.com/ikawaha/kagome/v2/tokenizer"
	"github.com/jdkato/prose/v2"

	"github.com/cognicore/tweetcloud/pkg/tweetcloud/lexicon"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/stoplist"
)

// ProseSegmenter tokenizes English with prose's rule-based tokenizer.
// Tagging, segmentation and entity extraction are switched off.
type ProseSegmenter struct{}

// Segment implements Segmenter.
func (ProseSegmenter) Segment(text string) ([]string, error) {
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, err
	}

	toks := doc.Tokens()
	out := make([]string, 0, len(toks))
	for _, tok := range toks {
		out = append(out, tok.Text)
	}
	return out, nil
}

// GolemLemmatizer looks lemmas up in golem's English dictionary.
type GolemLemmatizer struct {
	l *golem.Lemmatizer
}

// NewGolemLemmatizer loads the English dictionary.
func NewGolemLemmatizer() (*GolemLemmatizer, error) {
	l, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("load english lemma dictionary: %w", err)
	}
	return &GolemLemmatizer{l: l}, nil
}

// Lemma implements Lemmatizer.
func (g *GolemLemmatizer) Lemma(word string) string {
	return g.l.Lemma(word)
}

// KagomeAnalyzer runs kagome over the mecab-ko dictionary.
type KagomeAnalyzer struct {
	t *tokenizer.Tokenizer
}

// NewKagomeAnalyzer loads the Korean dictionary.
func NewKagomeAnalyzer() (*KagomeAnalyzer, error) {
	t, err := tokenizer.New(ko.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("load korean dictionary: %w", err)
	}
	return &KagomeAnalyzer{t: t}, nil
}

// Analyze implements MorphAnalyzer.
func (k *KagomeAnalyzer) Analyze(text string) ([]Morpheme, error) {
	toks := k.t.Tokenize(text)
	out := make([]Morpheme, 0, len(toks))
	for _, tok := range toks {
		if tok.Class == tokenizer.DUMMY {
			continue
		}
		out = append(out, morphemeFromFeatures(tok.Surface, tok.Features()))
	}
	return out, nil
}

// mecab-ko-dic feature columns
const (
	featTag        = 0
	featType       = 4
	featExpression = 7
)

// sejongClasses maps Sejong tags onto the coarse classes we keep.
var sejongClasses = map[string]Class{
	"NNG": ClassNoun, "NNP": ClassNoun, "NNB": ClassNoun, "NNBC": ClassNoun,
	"NR": ClassNoun, "NP": ClassNoun,
	"VV": ClassVerb, "VX": ClassVerb, "XSV": ClassVerb,
	"VA": ClassAdjective, "VCN": ClassAdjective, "XSA": ClassAdjective,
}

// morphemeFromFeatures classifies one token and stems verbs and adjectives
// to their dictionary form (stem + "다").
func morphemeFromFeatures(surface string, feats []string) Morpheme {
	if len(feats) <= featTag {
		return Morpheme{Surface: surface, Class: ClassOther}
	}

	// Inflected entries carry compound tags such as "VV+EP".
	tag, _, _ := strings.Cut(feats[featTag], "+")
	class, ok := sejongClasses[tag]
	if !ok {
		return Morpheme{Surface: surface, Class: ClassOther}
	}
	if class == ClassNoun {
		return Morpheme{Surface: surface, Class: class}
	}

	stem := surface
	if len(feats) > featExpression && feats[featType] == "Inflect" && feats[featExpression] != "*" {
		// "먹/VV/*+었/EP/*" -> "먹"
		first, _, _ := strings.Cut(feats[featExpression], "+")
		if s, _, _ := strings.Cut(first, "/"); s != "" {
			stem = s
		}
	}
	return Morpheme{Surface: stem + "다", Class: class}
}

// NewDefaultExtractor wires the English and Korean tracks to their default
// analyzers. Loading the dictionaries is the expensive part; build one
// extractor per process and share it.
func NewDefaultExtractor(enStops, koStops *stoplist.Manager, lex *lexicon.Lexicon) (*Extractor, error) {
	lem, err := NewGolemLemmatizer()
	if err != nil {
		return nil, err
	}
	analyzer, err := NewKagomeAnalyzer()
	if err != nil {
		return nil, err
	}

	return NewExtractor(
		NewEnglishTrack(ProseSegmenter{}, lem, enStops, lex),
		NewKoreanTrack(analyzer, koStops, lex),
	), nil
}
