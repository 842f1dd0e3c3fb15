package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cognicore/tweetcloud/internal/logging"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/ingest"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/lexicon"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/stoplist"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/store"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/store/filestore"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/store/sqlite"
)

// ExtractorFunc builds the extractor from the loaded stoplists and lexicon
type ExtractorFunc func(en, ko *stoplist.Manager, lex *lexicon.Lexicon) (*ingest.Extractor, error)

// Loader loads all configured files and constructs components
type Loader struct {
	Config Config
	// LogOutput receives log records. Defaults to os.Stderr.
	LogOutput io.Writer
	// BuildExtractor defaults to ingest.NewDefaultExtractor.
	BuildExtractor ExtractorFunc
}

// Components holds everything an Engine needs
type Components struct {
	Extractor *ingest.Extractor
	Store     store.Store
	Logger    *slog.Logger

	EnglishStops *stoplist.Manager
	KoreanStops  *stoplist.Manager
	Lexicon      *lexicon.Lexicon
}

// Close releases the store
func (c *Components) Close() error {
	if c.Store == nil {
		return nil
	}
	return c.Store.Close()
}

// Load reads all configured files and returns initialized components
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	if err := l.Config.Validate(); err != nil {
		return nil, err
	}

	out := l.LogOutput
	if out == nil {
		out = os.Stderr
	}
	comp := &Components{
		Logger: logging.New(logging.Options{Level: l.Config.Log.Level, Format: l.Config.Log.Format}, out),
	}

	// Load stoplists
	var err error
	comp.EnglishStops, err = loadStops(l.Config.Stoplists.English, stoplist.English)
	if err != nil {
		return nil, fmt.Errorf("load english stoplist: %w", err)
	}
	comp.KoreanStops, err = loadStops(l.Config.Stoplists.Korean, stoplist.Korean)
	if err != nil {
		return nil, fmt.Errorf("load korean stoplist: %w", err)
	}
	for _, term := range l.Config.Stoplists.Extra {
		comp.EnglishStops.Add(term, stoplist.SourceExtra)
		comp.KoreanStops.Add(term, stoplist.SourceExtra)
	}

	// Load lexicon
	if l.Config.Lexicon != "" {
		comp.Lexicon, err = lexicon.LoadFromYAML(l.Config.Lexicon)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
	} else {
		comp.Lexicon = lexicon.New()
	}

	build := l.BuildExtractor
	if build == nil {
		build = ingest.NewDefaultExtractor
	}
	comp.Extractor, err = build(comp.EnglishStops, comp.KoreanStops, comp.Lexicon)
	if err != nil {
		return nil, fmt.Errorf("build extractor: %w", err)
	}

	comp.Store, err = l.openStore(ctx, comp.Logger)
	if err != nil {
		return nil, err
	}

	comp.Logger.Debug("configuration loaded",
		"backend", l.Config.Store.Backend,
		"english_stops", comp.EnglishStops.Len(),
		"korean_stops", comp.KoreanStops.Len(),
		"lexicon_groups", comp.Lexicon.Len(),
	)
	return comp, nil
}

func (l *Loader) openStore(ctx context.Context, logger *slog.Logger) (store.Store, error) {
	sc := l.Config.Store
	switch sc.Backend {
	case BackendSQLite:
		if dir := filepath.Dir(sc.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database dir: %w", err)
			}
		}
		st, err := sqlite.OpenSQLite(ctx, sc.DBPath, sqlite.Options{Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return st, nil
	default:
		st, err := filestore.New(filestore.Options{Dir: sc.Dir, Prefix: sc.Prefix, Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		return st, nil
	}
}

func loadStops(path string, builtin func() *stoplist.Manager) (*stoplist.Manager, error) {
	if path == "" {
		return builtin(), nil
	}
	return stoplist.FromFile(path)
}
