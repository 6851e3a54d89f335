// Package storage provides the SQLite-backed document store. Documents are
// whole JSON values addressed by path; change subscription is an in-process
// hub notified after each successful write.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB

	subMu   sync.Mutex
	nextSub int
	subs    map[string]map[int]func(json.RawMessage)
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{
		db:   db,
		subs: make(map[string]map[int]func(json.RawMessage)),
	}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns the document at path, or nil when absent.
func (s *SQLiteStore) Get(ctx context.Context, path string) (json.RawMessage, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE path = ?`, path).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", path, err)
	}
	return json.RawMessage(body), nil
}

// Put stores the document at path, replacing any previous version
// (last writer wins), then notifies in-process subscribers.
func (s *SQLiteStore) Put(ctx context.Context, path string, doc json.RawMessage) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (path, body, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		path, []byte(doc), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("put document %s: %w", path, err)
	}

	slog.DebugContext(ctx, "Document stored", "path", path, "size", len(doc))
	s.notify(path, doc)
	return nil
}

// Delete removes the document at path. Deleting an absent path succeeds.
func (s *SQLiteStore) Delete(ctx context.Context, path string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE path = ?`, path)
	if err != nil {
		return fmt.Errorf("delete document %s: %w", path, err)
	}
	s.notify(path, nil)
	return nil
}

// List returns the sorted paths of all documents under prefix.
func (s *SQLiteStore) List(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path FROM documents WHERE path LIKE ? || '%' ORDER BY path`, prefix)
	if err != nil {
		return nil, fmt.Errorf("list documents under %s: %w", prefix, err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan path: %w", err)
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate paths: %w", err)
	}
	return paths, nil
}

func (s *SQLiteStore) Subscribe(path string, fn func(doc json.RawMessage)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	if s.subs[path] == nil {
		s.subs[path] = make(map[int]func(json.RawMessage))
	}
	s.subs[path][id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs[path], id)
	}
}

func (s *SQLiteStore) notify(path string, doc json.RawMessage) {
	s.subMu.Lock()
	fns := make([]func(json.RawMessage), 0, len(s.subs[path]))
	for _, fn := range s.subs[path] {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(doc)
	}
}
