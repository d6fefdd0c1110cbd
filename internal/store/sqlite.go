package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS documents (
		id            TEXT PRIMARY KEY,
		slug          TEXT NOT NULL UNIQUE,
		title         TEXT NOT NULL,
		filename      TEXT NOT NULL,
		content_hash  TEXT NOT NULL,
		article_count INTEGER NOT NULL,
		warning_count INTEGER NOT NULL,
		created_at    TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_documents_content_hash ON documents(content_hash)`,
	`CREATE TABLE IF NOT EXISTS articles (
		id          TEXT PRIMARY KEY,
		document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
		slug        TEXT NOT NULL UNIQUE,
		number      TEXT NOT NULL,
		title       TEXT NOT NULL DEFAULT '',
		text        TEXT NOT NULL,
		order_index INTEGER NOT NULL,
		confidence  REAL NOT NULL,
		UNIQUE (document_id, order_index)
	)`,
}

// SQLiteStore is a Store backed by a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path. Use ":memory:"
// for a throwaway database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		dsn += "&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveDocument(ctx context.Context, doc *Document) error {
	if doc.ID == "" || doc.Slug == "" {
		return fmt.Errorf("save document: id and slug are required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM documents WHERE content_hash = ?`, doc.ContentHash).Scan(&n); err != nil {
		return fmt.Errorf("check content hash: %w", err)
	}
	if n > 0 {
		return ErrDuplicateContent
	}
	if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM documents WHERE slug = ?`, doc.Slug).Scan(&n); err != nil {
		return fmt.Errorf("check slug: %w", err)
	}
	if n > 0 {
		return ErrSlugTaken
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, slug, title, filename, content_hash, article_count, warning_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Slug, doc.Title, doc.Filename, doc.ContentHash,
		len(doc.Articles), doc.WarningCount, doc.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO articles (id, document_id, slug, number, title, text, order_index, confidence)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare article insert: %w", err)
	}
	defer stmt.Close()

	for i := range doc.Articles {
		a := &doc.Articles[i]
		a.DocumentID = doc.ID
		if _, err := stmt.ExecContext(ctx, a.ID, a.DocumentID, a.Slug, a.Number, a.Title, a.Text, a.OrderIndex, a.Confidence); err != nil {
			return fmt.Errorf("insert article %s: %w", a.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	doc.ArticleCount = len(doc.Articles)
	return nil
}

const documentColumns = `id, slug, title, filename, content_hash, article_count, warning_count, created_at`

func (s *SQLiteStore) GetDocument(ctx context.Context, slug string) (*Document, error) {
	doc, err := scanDocument(s.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE slug = ?`, slug))
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, document_id, slug, number, title, text, order_index, confidence
		 FROM articles WHERE document_id = ? ORDER BY order_index`, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	doc.Articles = make([]Article, 0, doc.ArticleCount)
	for rows.Next() {
		var a Article
		if err := rows.Scan(&a.ID, &a.DocumentID, &a.Slug, &a.Number, &a.Title, &a.Text, &a.OrderIndex, &a.Confidence); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		doc.Articles = append(doc.Articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate articles: %w", err)
	}
	return doc, nil
}

func (s *SQLiteStore) ListDocuments(ctx context.Context, limit int) ([]Document, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+documentColumns+` FROM documents ORDER BY created_at DESC, slug LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	docs := make([]Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

func (s *SQLiteStore) DeleteDocument(ctx context.Context, slug string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM articles WHERE document_id IN (SELECT id FROM documents WHERE slug = ?)`, slug); err != nil {
		return fmt.Errorf("delete articles: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE slug = ?`, slug)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func (s *SQLiteStore) FindByContentHash(ctx context.Context, hash string) (*Document, error) {
	return scanDocument(s.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE content_hash = ? LIMIT 1`, hash))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*Document, error) {
	var doc Document
	var created string
	err := row.Scan(&doc.ID, &doc.Slug, &doc.Title, &doc.Filename, &doc.ContentHash,
		&doc.ArticleCount, &doc.WarningCount, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan document: %w", err)
	}
	if doc.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	return &doc, nil
}
