package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"budgetbook/internal/retry"

	_ "modernc.org/sqlite"
)

// collection name -> table name. Collections are fixed at migration
// time; rejecting unknown names keeps table names out of caller hands.
var tables = map[string]string{
	"transactions": "transactions",
	"budgets":      "budgets",
}

// SQLite is the production Driver. Documents are JSON blobs in one
// table per collection, with generated columns feeding the secondary
// indexes used for filtering. The connection opens lazily on first use
// and runs schema migrations once, retried because another process can
// transiently hold the database file.
type SQLite struct {
	path string

	once    sync.Once
	db      *sql.DB
	openErr error
}

func NewSQLite(path string) *SQLite {
	return &SQLite{path: path}
}

func (s *SQLite) conn(ctx context.Context) (*sql.DB, error) {
	s.once.Do(func() {
		s.db, s.openErr = s.open(ctx)
	})
	return s.db, s.openErr
}

func (s *SQLite) open(ctx context.Context) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := retry.Do(ctx, retry.Schema, func() error {
		return RunMigrations(s.path)
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	slog.InfoContext(ctx, "SQLite store ready", "path", s.path)
	return db, nil
}

func (s *SQLite) Insert(ctx context.Context, collection, id string, doc []byte) error {
	table, err := tableFor(collection)
	if err != nil {
		return err
	}
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (id, doc) VALUES (?, ?)", table), id, string(doc))
	if err != nil {
		return fmt.Errorf("insert into %s: %w", collection, err)
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, collection, id string) ([]byte, bool, error) {
	table, err := tableFor(collection)
	if err != nil {
		return nil, false, err
	}
	db, err := s.conn(ctx)
	if err != nil {
		return nil, false, err
	}

	var doc string
	err = db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT doc FROM %s WHERE id = ?", table), id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select from %s: %w", collection, err)
	}
	return []byte(doc), true, nil
}

func (s *SQLite) List(ctx context.Context, collection string) ([][]byte, error) {
	table, err := tableFor(collection)
	if err != nil {
		return nil, err
	}
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT doc FROM %s", table))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	var docs [][]byte
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", collection, err)
		}
		docs = append(docs, []byte(doc))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", collection, err)
	}
	return docs, nil
}

func (s *SQLite) Put(ctx context.Context, collection, id string, doc []byte) error {
	table, err := tableFor(collection)
	if err != nil {
		return err
	}
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (id, doc) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET doc = excluded.doc", table),
		id, string(doc))
	if err != nil {
		return fmt.Errorf("put into %s: %w", collection, err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, collection, id string) error {
	table, err := tableFor(collection)
	if err != nil {
		return err
	}
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id); err != nil {
		return fmt.Errorf("delete from %s: %w", collection, err)
	}
	return nil
}

func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func tableFor(collection string) (string, error) {
	table, ok := tables[collection]
	if !ok {
		return "", fmt.Errorf("unknown collection: %s", collection)
	}
	return table, nil
}
