package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cognicore/tweetcloud/pkg/tweetcloud/freq"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/internalerr"
)

func TestEncodeFormat(t *testing.T) {
	created := time.Date(2025, 3, 1, 14, 5, 9, 0, time.Local)
	data, err := Encode(Record{
		Subject:   "bts_twt",
		CreatedAt: created,
		Words:     freq.Map{"사랑": 3, "army": 1},
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	want := `{
    "timestamp": "2025-03-01 14:05:09",
    "subject": "bts_twt",
    "words": {
        "army": 1,
        "사랑": 3
    }
}
`
	if string(data) != want {
		t.Errorf("Encode =\n%s\nwant\n%s", data, want)
	}
	if strings.Contains(string(data), `\u`) {
		t.Error("non-ASCII text should not be escaped")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := Record{
		Subject:   "아이유 <IU> & co",
		CreatedAt: time.Date(2025, 3, 1, 14, 5, 9, 0, time.Local),
		Words:     freq.Map{"노래": 5, "love": 2, "좋다": 1},
	}

	data, err := Encode(in)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if out.Subject != in.Subject {
		t.Errorf("Subject = %q, want %q", out.Subject, in.Subject)
	}
	if !out.CreatedAt.Equal(in.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", out.CreatedAt, in.CreatedAt)
	}
	if !out.Words.Equal(in.Words) {
		t.Errorf("Words = %v, want %v", out.Words, in.Words)
	}
}

func TestEncodeEmptyWords(t *testing.T) {
	data, err := Encode(Record{Subject: "x", CreatedAt: time.Now()})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"words": {}`) {
		t.Errorf("empty words should encode as an object: %s", data)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("{not json")); err == nil {
		t.Error("Decode should fail on malformed input")
	}
	if _, err := Decode([]byte(`{"timestamp":"yesterday","subject":"a","words":{}}`)); err == nil {
		t.Error("Decode should fail on a malformed timestamp")
	}
}

func TestImageName(t *testing.T) {
	cases := map[Handle]string{
		"tweets/tweets_2025-01-02_03-04-05_abcd1234.json": "tweets_2025-01-02_03-04-05_abcd1234.png",
		"01HV6Z8J5M3Q4W6E7R8T9Y0U1I":                      "01HV6Z8J5M3Q4W6E7R8T9Y0U1I.png",
	}
	for h, want := range cases {
		if got := ImageName(h); got != want {
			t.Errorf("ImageName(%q) = %q, want %q", h, got, want)
		}
	}
}

func TestIDSourceUniqueWithinInstant(t *testing.T) {
	ids := NewIDSource()
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id, err := ids.New(now)
		if err != nil {
			t.Fatal(err)
		}
		if seen[id.String()] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id.String()] = true
	}
}

type stubStore struct {
	Store
	rec Record
	err error
}

func (s stubStore) Load(context.Context, Handle) (Record, error) { return s.rec, s.err }

func TestLoadWords(t *testing.T) {
	ctx := context.Background()

	words, err := LoadWords(ctx, stubStore{rec: Record{Words: freq.Map{"a": 1}}}, "h")
	if err != nil || words["a"] != 1 {
		t.Errorf("LoadWords = %v, %v", words, err)
	}

	_, err = LoadWords(ctx, stubStore{rec: Record{Words: freq.Map{}}}, "h")
	if !errors.Is(err, internalerr.ErrNoWords) {
		t.Errorf("err = %v, want ErrNoWords", err)
	}

	_, err = LoadWords(ctx, stubStore{err: internalerr.ErrNotFound}, "h")
	if !IsNotFound(err) {
		t.Errorf("err = %v, want not found", err)
	}
}
