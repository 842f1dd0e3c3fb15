package filestore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/tweetcloud/pkg/tweetcloud/freq"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/internalerr"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/store"
)

// NameLayout is the sortable timestamp embedded in artifact names
const NameLayout = "2006-01-02_15-04-05"

// Options configures a file-backed store
type Options struct {
	// Dir holds the artifacts; created on first write.
	Dir string
	// Prefix starts every artifact name. Defaults to "tweets".
	Prefix string

	PermFile os.FileMode
	PermDir  os.FileMode

	Logger *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Store writes one self-contained JSON artifact per record
type Store struct {
	dir    string
	prefix string
	permF  os.FileMode
	permD  os.FileMode
	log    *slog.Logger
	now    func() time.Time
	ids    *store.IDSource
}

var (
	_ store.Store   = (*Store)(nil)
	_ store.Deleter = (*Store)(nil)
)

// New creates a file store. The directory is not touched until Persist.
func New(opts Options) (*Store, error) {
	if strings.TrimSpace(opts.Dir) == "" {
		return nil, fmt.Errorf("%w: filestore dir is required", internalerr.ErrInvalidConfig)
	}
	s := &Store{
		dir:    filepath.Clean(opts.Dir),
		prefix: opts.Prefix,
		permF:  opts.PermFile,
		permD:  opts.PermDir,
		log:    opts.Logger,
		now:    opts.Now,
		ids:    store.NewIDSource(),
	}
	if s.prefix == "" {
		s.prefix = "tweets"
	}
	if s.permF == 0 {
		s.permF = 0o644
	}
	if s.permD == 0 {
		s.permD = 0o755
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// Dir returns the artifact directory
func (s *Store) Dir() string { return s.dir }

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// ArtifactName builds "<prefix>_<YYYY-MM-DD_HH-MM-SS>_<8 random chars>.json".
// The suffix is the low end of the ULID's random part, so two names minted
// in the same second differ.
func ArtifactName(prefix string, t time.Time, id ulid.ULID) string {
	s := id.String()
	return fmt.Sprintf("%s_%s_%s.json", prefix, t.Format(NameLayout), strings.ToLower(s[len(s)-8:]))
}

// Persist implements store.Store.
func (s *Store) Persist(ctx context.Context, subject string, words freq.Map) (store.Handle, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	now := s.now().Truncate(time.Second)
	id, err := s.ids.New(now)
	if err != nil {
		return "", fmt.Errorf("mint record id: %w", err)
	}
	path := filepath.Join(s.dir, ArtifactName(s.prefix, now, id))

	data, err := store.Encode(store.Record{Subject: subject, CreatedAt: now, Words: words})
	if err != nil {
		s.log.Error("encode result failed", "subject", subject, "err", err)
		return "", err
	}

	// MkdirAll tolerates a concurrent creator.
	if err := os.MkdirAll(s.dir, s.permD); err != nil {
		s.log.Error("create result dir failed", "subject", subject, "path", s.dir, "err", err)
		return "", fmt.Errorf("create result dir %s: %w", s.dir, err)
	}

	if err := writeAtomic(ctx, path, data, s.permF); err != nil {
		s.log.Error("write result failed", "subject", subject, "path", path, "err", err)
		return "", fmt.Errorf("write result %s: %w", path, err)
	}

	s.log.Info("result saved", "subject", subject, "path", path, "words", len(words))
	return store.Handle(path), nil
}

// resolve maps a handle (full path or bare artifact name) into the store
// directory. Anything that does not look like one of our artifacts is
// rejected, so handles coming from requests cannot escape the directory.
func (s *Store) resolve(h store.Handle) (string, error) {
	name := filepath.Base(filepath.Clean(string(h)))
	if !strings.HasPrefix(name, s.prefix+"_") || filepath.Ext(name) != ".json" {
		return "", fmt.Errorf("%w: %q is not a result artifact", internalerr.ErrNotFound, h)
	}
	return filepath.Join(s.dir, name), nil
}

// Load implements store.Store.
func (s *Store) Load(ctx context.Context, h store.Handle) (store.Record, error) {
	path, err := s.resolve(h)
	if err != nil {
		return store.Record{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return store.Record{}, fmt.Errorf("%w: %s", internalerr.ErrNotFound, path)
		}
		return store.Record{}, fmt.Errorf("read result %s: %w", path, err)
	}

	rec, err := store.Decode(data)
	if err != nil {
		return store.Record{}, fmt.Errorf("%s: %w", path, err)
	}
	rec.ID = strings.TrimSuffix(filepath.Base(path), ".json")
	return rec, nil
}

// List implements store.Store. Unreadable artifacts are logged and skipped.
func (s *Store) List(ctx context.Context, subject string) ([]store.Summary, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, s.prefix+"_*.json"))
	if err != nil {
		return nil, err
	}
	// Names embed a sortable timestamp.
	sort.Sort(sort.Reverse(sort.StringSlice(paths)))

	var out []store.Summary
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		h := store.Handle(p)
		rec, err := s.Load(ctx, h)
		if err != nil {
			s.log.Warn("skipping unreadable result", "path", p, "err", err)
			continue
		}
		if subject != "" && rec.Subject != subject {
			continue
		}
		out = append(out, store.Summarize(h, rec))
	}
	return out, nil
}

// TopWords implements store.Store by merging every matching artifact.
func (s *Store) TopWords(ctx context.Context, subject string, k int) ([]freq.Entry, error) {
	summaries, err := s.List(ctx, subject)
	if err != nil {
		return nil, err
	}

	total := freq.Map{}
	for _, sum := range summaries {
		rec, err := s.Load(ctx, sum.Handle)
		if err != nil {
			return nil, err
		}
		total = freq.Merge(total, rec.Words)
	}
	return total.Top(k), nil
}

// Delete implements store.Deleter by removing the artifact.
func (s *Store) Delete(ctx context.Context, h store.Handle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.resolve(h)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", internalerr.ErrNotFound, path)
		}
		return fmt.Errorf("delete result %s: %w", path, err)
	}
	s.log.Info("result deleted", "path", path)
	syncDir(s.dir)
	return nil
}
