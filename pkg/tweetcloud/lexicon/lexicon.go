package lexicon

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicon folds word variants onto one canonical form after lemmatization
// or stemming, so that counts for "k-pop", "kpop" and "케이팝" land on the
// same key when the operator asks for it.
type Lexicon struct {
	// canonical -> all variants (canonical first)
	groups map[string][]string

	// variant -> canonical
	reverseIndex map[string]string
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{
		groups:       make(map[string][]string),
		reverseIndex: make(map[string]string),
	}
}

// LoadFromYAML loads variant groups from a YAML file.
//
// Expected format:
//
//	synonyms:
//	  - canonical: kpop
//	    variants: [k-pop, 케이팝]
//	  - canonical: tweet
//	    variants: [tweets, tweeted, retweet]
func LoadFromYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config struct {
		Synonyms []struct {
			Canonical string   `yaml:"canonical"`
			Variants  []string `yaml:"variants"`
		} `yaml:"synonyms"`
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	lex := New()
	for _, entry := range config.Synonyms {
		if strings.TrimSpace(entry.Canonical) == "" {
			continue
		}
		lex.AddGroup(entry.Canonical, entry.Variants)
	}

	return lex, nil
}

// AddGroup registers variants for canonical. Re-adding a canonical replaces
// its previous group.
func (l *Lexicon) AddGroup(canonical string, variants []string) {
	canonical = strings.ToLower(strings.TrimSpace(canonical))

	if old, exists := l.groups[canonical]; exists {
		for _, v := range old {
			delete(l.reverseIndex, v)
		}
	}

	normalized := make([]string, 0, len(variants)+1)
	seen := map[string]bool{canonical: true}
	normalized = append(normalized, canonical)

	for _, v := range variants {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || seen[v] {
			continue
		}
		normalized = append(normalized, v)
		seen[v] = true
	}

	l.groups[canonical] = normalized
	for _, v := range normalized {
		l.reverseIndex[v] = canonical
	}
}

// Normalize returns the canonical form of word, or word itself when it is
// not in the lexicon. A nil lexicon is a no-op.
func (l *Lexicon) Normalize(word string) string {
	if l == nil {
		return word
	}
	if canonical, ok := l.reverseIndex[strings.ToLower(word)]; ok {
		return canonical
	}
	return word
}

// Variants returns every known form of word (canonical first).
func (l *Lexicon) Variants(word string) []string {
	word = strings.ToLower(word)
	if canonical, ok := l.reverseIndex[word]; ok {
		return l.groups[canonical]
	}
	return []string{word}
}

// Len returns the number of groups.
func (l *Lexicon) Len() int {
	if l == nil {
		return 0
	}
	return len(l.groups)
}
