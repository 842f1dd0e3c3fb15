package ingest

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// urlPattern matches a URL wherever it starts, including one glued to
// punctuation or a preceding word. It runs to the next whitespace.
var urlPattern = regexp.MustCompile(`(?i)(?:https?://|www\.)\S+`)

// Clean strips URLs and everything that is not an English letter, a Hangul
// syllable or whitespace, then lower-cases and collapses whitespace.
//
//	Clean("Check http://x.com NOW 안녕!") == "check now 안녕"
//
// Input is NFC-normalized first so decomposed jamo sequences compose into
// syllables instead of being dropped.
func Clean(raw string) string {
	s := norm.NFC.String(raw)
	s = urlPattern.ReplaceAllString(s, " ")

	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false

	for _, r := range s {
		switch {
		case isLatinLetter(r) || isHangulSyllable(r):
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r):
			// Leading whitespace is never emitted.
			if b.Len() > 0 {
				pendingSpace = true
			}
		}
	}

	return b.String()
}

func isLatinLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isHangulSyllable(r rune) bool {
	return r >= 0xAC00 && r <= 0xD7A3
}

// isASCIIWord reports whether s is a non-empty run of ASCII letters.
func isASCIIWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isLatinLetter(r) {
			return false
		}
	}
	return true
}
