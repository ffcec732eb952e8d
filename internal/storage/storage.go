package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"tododay/internal/tracker"
)

const driverName = "sqlite"

// Store is the SQLite backed persistent store.
type Store struct {
	db *sqlx.DB
}

var _ tracker.Store = (*Store)(nil)

// Open opens (or creates) the database at dbPath and ensures the schema.
// ":memory:" opens a private in-memory database.
func Open(dbPath string) (*Store, error) {
	s, err := open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", tracker.ErrStorageUnavailable, err)
	}
	return s, nil
}

func open(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, errors.New("db path is empty")
	}
	if dbPath != ":memory:" && !strings.HasPrefix(dbPath, "file:") {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, err
		}
	}
	db, err := sqlx.Open(driverName, sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS days (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	date TEXT NOT NULL UNIQUE,
	notes TEXT NOT NULL DEFAULT '',
	count_todos INTEGER NOT NULL DEFAULT 0,
	done_todos INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS todos (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	day_id INTEGER REFERENCES days(id) ON DELETE CASCADE,
	position INTEGER NOT NULL DEFAULT 0,
	text TEXT NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS daily_todos (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	position INTEGER NOT NULL DEFAULT 0,
	text TEXT NOT NULL
);`
	if _, err := s.db.Exec(ddl); err != nil {
		return err
	}
	if err := s.ensureTodoColumns(); err != nil {
		return err
	}
	_, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_todos_day_position ON todos(day_id, position);`)
	return err
}

// ensureTodoColumns upgrades todo tables written before todos were grouped
// by day. Rows migrated that way keep a NULL day and stay hidden.
func (s *Store) ensureTodoColumns() error {
	required := map[string]string{
		"day_id":   "ALTER TABLE todos ADD COLUMN day_id INTEGER REFERENCES days(id) ON DELETE CASCADE;",
		"position": "ALTER TABLE todos ADD COLUMN position INTEGER NOT NULL DEFAULT 0;",
	}
	existing := map[string]struct{}{}
	rows, err := s.db.Query(`PRAGMA table_info(todos);`)
	if err != nil {
		return err
	}
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			rows.Close()
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for _, col := range []string{"day_id", "position"} {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := s.db.Exec(required[col]); err != nil {
			return fmt.Errorf("add todos.%s: %w", col, err)
		}
	}
	return nil
}

func sqliteDSN(path string) string {
	if path == ":memory:" {
		return "file::memory:?_pragma=foreign_keys(1)"
	}
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "foreign_keys(1)")
	u.RawQuery = q.Encode()
	return u.String()
}

// withTx runs fn in a transaction, committing only when fn succeeds.
func (s *Store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// affected maps a zero row count to tracker.ErrNotFound.
func affected(res sql.Result, what string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, tracker.ErrNotFound)
	}
	return nil
}

// notFound maps sql.ErrNoRows to tracker.ErrNotFound.
func notFound(err error, what string, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", what, id, tracker.ErrNotFound)
	}
	return fmt.Errorf("%s %d: %w", what, id, err)
}
