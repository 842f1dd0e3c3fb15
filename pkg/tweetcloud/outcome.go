package tweetcloud

import (
	"log/slog"
	"unicode/utf8"
)

// Status is what happened to one raw item.
type Status int

const (
	// StatusAccepted: at least one word was counted.
	StatusAccepted Status = iota
	// StatusEmpty: nothing survived cleaning.
	StatusEmpty
	// StatusNoWords: cleaned text was non-empty but no word qualified.
	StatusNoWords
	// StatusFailed: an analyzer failed; the item was skipped.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusAccepted:
		return "accepted"
	case StatusEmpty:
		return "empty"
	case StatusNoWords:
		return "no_words"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Reason refines a non-accepted status.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonEmpty         Reason = "empty_after_cleaning"
	ReasonNoTokens      Reason = "no_tokens"
	ReasonAllStopwords  Reason = "all_stopwords"
	ReasonAnalyzerError Reason = "analyzer_error"
)

// Outcome reports the processing of one item.
type Outcome struct {
	// Index is 1-based, in input order.
	Index  int
	Status Status
	Reason Reason
	// Words is the number of words the item contributed.
	Words int
	Err   error
	// Preview is the start of the raw item, for diagnostics.
	Preview string
}

// Observer subscribes to per-item outcomes.
type Observer interface {
	Observe(subject string, o Outcome)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(subject string, o Outcome)

// Observe implements Observer.
func (f ObserverFunc) Observe(subject string, o Outcome) { f(subject, o) }

// LogObserver writes outcomes to a structured logger: failures at ERROR,
// items yielding no words at WARN, the rest at DEBUG.
type LogObserver struct {
	Logger *slog.Logger
}

// Observe implements Observer.
func (l LogObserver) Observe(subject string, o Outcome) {
	switch o.Status {
	case StatusFailed:
		l.Logger.Error("item skipped", "subject", subject, "item", o.Index, "reason", o.Reason, "text", o.Preview, "err", o.Err)
	case StatusNoWords:
		l.Logger.Warn("no words extracted", "subject", subject, "item", o.Index, "reason", o.Reason, "text", o.Preview)
	case StatusEmpty:
		l.Logger.Debug("item empty after cleaning", "subject", subject, "item", o.Index)
	default:
		l.Logger.Debug("item processed", "subject", subject, "item", o.Index, "words", o.Words)
	}
}

const previewRunes = 80

func preview(s string) string {
	if utf8.RuneCountInString(s) <= previewRunes {
		return s
	}
	r := []rune(s)
	return string(r[:previewRunes]) + "…"
}
