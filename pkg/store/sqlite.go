package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS trees (
	id         TEXT PRIMARY KEY,
	profile    TEXT NOT NULL,
	input_hash TEXT NOT NULL,
	nodes      INTEGER NOT NULL,
	marker     TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	tree       BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS trees_created_at ON trees (created_at DESC);
`

// SQLiteStore keeps documents in a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed creates) the database at path.
// ":memory:" gives a private in-memory database.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Put(ctx context.Context, doc *Document) error {
	prepare(doc)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO trees (id, profile, input_hash, nodes, marker, created_at, tree) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Profile, doc.InputHash, doc.Nodes, doc.Marker, doc.CreatedAt.UnixMilli(), doc.Tree)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrExists
		}
		return fmt.Errorf("insert tree: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, profile, input_hash, nodes, marker, created_at, tree FROM trees WHERE id = ?`, id)

	var doc Document
	var created int64
	if err := row.Scan(&doc.ID, &doc.Profile, &doc.InputHash, &doc.Nodes, &doc.Marker, &created, &doc.Tree); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query tree: %w", err)
	}
	doc.CreatedAt = time.UnixMilli(created).UTC()
	return &doc, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM trees WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete tree: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, limit int) ([]*Document, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, profile, input_hash, nodes, marker, created_at FROM trees ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list trees: %w", err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		var doc Document
		var created int64
		if err := rows.Scan(&doc.ID, &doc.Profile, &doc.InputHash, &doc.Nodes, &doc.Marker, &created); err != nil {
			return nil, fmt.Errorf("scan tree: %w", err)
		}
		doc.CreatedAt = time.UnixMilli(created).UTC()
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
