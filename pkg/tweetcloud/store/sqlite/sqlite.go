package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/tweetcloud/pkg/tweetcloud/freq"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/internalerr"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/store"
)

// Options configures the SQLite store
type Options struct {
	Logger *slog.Logger
	Now    func() time.Time
}

// Store keeps result records in SQLite. Handles are record IDs.
type Store struct {
	db  *sql.DB
	ids *store.IDSource
	log *slog.Logger
	now func() time.Time
}

var _ store.Store = (*Store)(nil)

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string, opts ...Options) (*Store, error) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Now == nil {
		o.Now = time.Now
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}
	// PRAGMAs are per connection; one connection keeps them in force and
	// serializes concurrent writers instead of failing with SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:  db,
		ids: store.NewIDSource(),
		log: o.Logger,
		now: o.Now,
	}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS results (
	id TEXT PRIMARY KEY,
	subject TEXT NOT NULL,
	created_at TEXT NOT NULL,
	distinct_words INTEGER NOT NULL,
	total INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_results_subject ON results(subject, created_at);

CREATE TABLE IF NOT EXISTS result_words (
	result_id TEXT NOT NULL,
	word TEXT NOT NULL,
	count INTEGER NOT NULL CHECK (count >= 0),
	PRIMARY KEY(result_id, word),
	FOREIGN KEY(result_id) REFERENCES results(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// Persist inserts the record and its words in one transaction
func (s *Store) Persist(ctx context.Context, subject string, words freq.Map) (store.Handle, error) {
	h, err := s.persist(ctx, subject, words)
	if err != nil {
		s.log.Error("write result failed", "subject", subject, "err", err)
		return "", err
	}
	s.log.Info("result saved", "subject", subject, "handle", h, "words", len(words))
	return h, nil
}

func (s *Store) persist(ctx context.Context, subject string, words freq.Map) (store.Handle, error) {
	now := s.now().Truncate(time.Second)
	id, err := s.ids.New(now)
	if err != nil {
		return "", fmt.Errorf("mint record id: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO results (id, subject, created_at, distinct_words, total) VALUES (?, ?, ?, ?, ?)`,
		id.String(), subject, now.UTC().Format(time.RFC3339), len(words), words.Total(),
	)
	if err != nil {
		return "", fmt.Errorf("insert result: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO result_words (result_id, word, count) VALUES (?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	keys := make([]string, 0, len(words))
	for w := range words {
		keys = append(keys, w)
	}
	sort.Strings(keys)
	for _, w := range keys {
		if _, err := stmt.ExecContext(ctx, id.String(), w, words[w]); err != nil {
			return "", fmt.Errorf("insert word %q: %w", w, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return store.Handle(id.String()), nil
}

// Load reads a record and its words
func (s *Store) Load(ctx context.Context, h store.Handle) (store.Record, error) {
	var (
		rec     store.Record
		created string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, subject, created_at FROM results WHERE id = ?`, string(h),
	).Scan(&rec.ID, &rec.Subject, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Record{}, fmt.Errorf("%w: result %s", internalerr.ErrNotFound, h)
	}
	if err != nil {
		return store.Record{}, err
	}
	if rec.CreatedAt, err = parseTime(created); err != nil {
		return store.Record{}, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT word, count FROM result_words WHERE result_id = ?`, rec.ID)
	if err != nil {
		return store.Record{}, err
	}
	defer rows.Close()

	rec.Words = freq.Map{}
	for rows.Next() {
		var (
			word  string
			count int
		)
		if err := rows.Scan(&word, &count); err != nil {
			return store.Record{}, err
		}
		rec.Words[word] = count
	}
	return rec, rows.Err()
}

// List returns summaries, newest first
func (s *Store) List(ctx context.Context, subject string) ([]store.Summary, error) {
	query := `SELECT id, subject, created_at, distinct_words, total FROM results`
	var args []interface{}
	if subject != "" {
		query += ` WHERE subject = ?`
		args = append(args, subject)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Summary
	for rows.Next() {
		var (
			sum     store.Summary
			created string
		)
		if err := rows.Scan(&sum.ID, &sum.Subject, &created, &sum.Distinct, &sum.Total); err != nil {
			return nil, err
		}
		if sum.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		sum.Handle = store.Handle(sum.ID)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// TopWords sums counts across a subject's records, or all records when
// subject is empty
func (s *Store) TopWords(ctx context.Context, subject string, k int) ([]freq.Entry, error) {
	if k <= 0 {
		k = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT w.word, SUM(w.count) AS c
FROM result_words w
JOIN results r ON r.id = w.result_id
WHERE ? = '' OR r.subject = ?
GROUP BY w.word
ORDER BY c DESC, w.word ASC
LIMIT ?`, subject, subject, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []freq.Entry
	for rows.Next() {
		var e freq.Entry
		if err := rows.Scan(&e.Word, &e.Count); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

var _ store.Deleter = (*Store)(nil)

// Delete removes a record; its words cascade
func (s *Store) Delete(ctx context.Context, h store.Handle) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM results WHERE id = ?`, string(h))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: result %s", internalerr.ErrNotFound, h)
	}
	return nil
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse created_at %q: %w", s, err)
	}
	return t.Local(), nil
}
