// Package source reads raw posts from the files a collector leaves behind:
// JSONL dumps, saved timeline HTML, and plain text with one post per line.
package source

import (
	"bufio"
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/cognicore/tweetcloud/pkg/tweetcloud/internalerr"
)

// Post is one collected post
type Post struct {
	Subject  string    `json:"subject"`
	Text     string    `json:"text"`
	URL      string    `json:"url,omitempty"`
	PostedAt time.Time `json:"posted_at,omitempty"`
}

// LoadJSONL loads posts from a JSONL file. Malformed lines are skipped with
// a warning.
func LoadJSONL(path string, log *slog.Logger) ([]Post, error) {
	if log == nil {
		log = slog.Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var posts []Post
	lines := strings.Split(string(data), "\n")

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var p Post
		if err := sonic.UnmarshalString(line, &p); err != nil {
			log.Warn("skipping malformed JSON line", "path", path, "line", i+1, "err", err)
			continue
		}
		posts = append(posts, p)
	}

	if len(posts) == 0 {
		return nil, fmt.Errorf("%w: no valid posts found in %s", internalerr.ErrInvalidInput, path)
	}

	return posts, nil
}

// Texts returns the text of every post. A non-empty subject keeps only
// posts with that subject (case-insensitive); posts without one always
// match.
func Texts(posts []Post, subject string) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		if subject != "" && p.Subject != "" && !strings.EqualFold(p.Subject, subject) {
			continue
		}
		out = append(out, p.Text)
	}
	return out
}

// LoadLines reads one raw item per non-empty line
func LoadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var items []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			items = append(items, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return items, nil
}

// LoadFile picks a reader by extension: .jsonl/.json for post dumps,
// .html/.htm for saved pages, anything else as plain lines.
func LoadFile(path, subject string, log *slog.Logger) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".json":
		posts, err := LoadJSONL(path, log)
		if err != nil {
			return nil, err
		}
		return Texts(posts, subject), nil
	case ".html", ".htm":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		return ExtractHTML(f)
	default:
		return LoadLines(path)
	}
}
