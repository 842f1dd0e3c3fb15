package store

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/oklog/ulid/v2"

	"github.com/cognicore/tweetcloud/pkg/tweetcloud/freq"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/internalerr"
)

// Store persists one frequency snapshot per pipeline invocation
type Store interface {
	Close() error

	// Persist writes subject and words as a new immutable record and
	// returns its handle. Nothing is left behind when it fails.
	Persist(ctx context.Context, subject string, words freq.Map) (Handle, error)
	Load(ctx context.Context, h Handle) (Record, error)

	// List returns record summaries, newest first. An empty subject lists
	// every record.
	List(ctx context.Context, subject string) ([]Summary, error)

	// TopWords sums counts over all of subject's records. An empty subject,
	// as with List, sums every record. k <= 0 returns every word.
	TopWords(ctx context.Context, subject string, k int) ([]freq.Entry, error)
}

// Deleter is implemented by stores that can remove a record. Deleting an
// unknown handle returns internalerr.ErrNotFound.
type Deleter interface {
	Delete(ctx context.Context, h Handle) error
}

// Handle identifies a persisted record. File-backed stores use the artifact
// path; database-backed stores use the record ID.
type Handle string

// Record is one persisted frequency snapshot
type Record struct {
	ID        string
	Subject   string
	CreatedAt time.Time
	Words     freq.Map
}

// Summary describes a record without its word map
type Summary struct {
	Handle    Handle
	ID        string
	Subject   string
	CreatedAt time.Time
	Distinct  int
	Total     int
}

// Summarize builds the summary of r
func Summarize(h Handle, r Record) Summary {
	return Summary{
		Handle:    h,
		ID:        r.ID,
		Subject:   r.Subject,
		CreatedAt: r.CreatedAt,
		Distinct:  len(r.Words),
		Total:     r.Words.Total(),
	}
}

// TimeLayout is the human-readable timestamp written into artifacts
const TimeLayout = "2006-01-02 15:04:05"

// document is the artifact body. Field order is the on-disk order.
type document struct {
	Timestamp string         `json:"timestamp"`
	Subject   string         `json:"subject"`
	Words     map[string]int `json:"words"`
}

// codec sorts keys for byte-stable output and leaves non-ASCII text as is.
var codec = sonic.Config{
	SortMapKeys:    true,
	EscapeHTML:     false,
	ValidateString: true,
}.Froze()

// Encode serializes r into the artifact format
func Encode(r Record) ([]byte, error) {
	words := map[string]int(r.Words)
	if words == nil {
		words = map[string]int{}
	}
	data, err := codec.MarshalIndent(document{
		Timestamp: r.CreatedAt.Format(TimeLayout),
		Subject:   r.Subject,
		Words:     words,
	}, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses an artifact. Timestamps are read in the local zone, the
// zone they were written in.
func Decode(data []byte) (Record, error) {
	var doc document
	if err := codec.Unmarshal(data, &doc); err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}

	created, err := time.ParseInLocation(TimeLayout, doc.Timestamp, time.Local)
	if err != nil {
		return Record{}, fmt.Errorf("decode record timestamp %q: %w", doc.Timestamp, err)
	}

	words := freq.Map(doc.Words)
	if words == nil {
		words = freq.Map{}
	}
	return Record{Subject: doc.Subject, CreatedAt: created, Words: words}, nil
}

// ImageName derives the companion image file name for a handle:
// "tweets/tweets_2025-01-02_03-04-05_abcd1234.json" -> "tweets_2025-01-02_03-04-05_abcd1234.png"
func ImageName(h Handle) string {
	base := filepath.Base(string(h))
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".png"
}

// LoadWords loads the word map behind h for rendering. An empty map is
// reported as internalerr.ErrNoWords; the renderer decides what that means.
func LoadWords(ctx context.Context, s Store, h Handle) (freq.Map, error) {
	rec, err := s.Load(ctx, h)
	if err != nil {
		return nil, err
	}
	if len(rec.Words) == 0 {
		return nil, fmt.Errorf("%w: %s", internalerr.ErrNoWords, h)
	}
	return rec.Words, nil
}

// IsNotFound reports whether err means the handle does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, internalerr.ErrNotFound)
}

// IDSource mints ULIDs. Safe for concurrent use; IDs minted within the
// same millisecond are strictly increasing.
type IDSource struct {
	entropy io.Reader
}

// NewIDSource creates an ID source backed by crypto/rand
func NewIDSource() *IDSource {
	return &IDSource{
		entropy: &ulid.LockedMonotonicReader{MonotonicReader: ulid.Monotonic(rand.Reader, 0)},
	}
}

// New mints an ID for t
func (s *IDSource) New(t time.Time) (ulid.ULID, error) {
	return ulid.New(ulid.Timestamp(t), s.entropy)
}
