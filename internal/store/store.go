// Package store persists accepted legal documents and their articles.
package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("document not found")
	ErrDuplicateContent = errors.New("a document with identical content already exists")
	ErrSlugTaken        = errors.New("document slug already in use")
)

// Document is an accepted legal document.
type Document struct {
	ID           string    `json:"id"`
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Filename     string    `json:"filename"`
	ContentHash  string    `json:"content_hash"`
	ArticleCount int       `json:"article_count"`
	WarningCount int       `json:"warning_count"`
	CreatedAt    time.Time `json:"created_at"`
	Articles     []Article `json:"articles,omitempty"`
}

// Article is one persisted article of a Document.
type Article struct {
	ID         string  `json:"id"`
	DocumentID string  `json:"document_id"`
	Slug       string  `json:"slug"`
	Number     string  `json:"number"`
	Title      string  `json:"title,omitempty"`
	Text       string  `json:"text"`
	OrderIndex int     `json:"order_index"`
	Confidence float64 `json:"confidence"`
}

// Store is implemented by every persistence backend.
type Store interface {
	// SaveDocument stores doc and its articles atomically. It returns
	// ErrDuplicateContent or ErrSlugTaken when doc conflicts with an
	// existing document.
	SaveDocument(ctx context.Context, doc *Document) error
	// GetDocument returns the document with its articles in order.
	GetDocument(ctx context.Context, slug string) (*Document, error)
	// ListDocuments returns documents newest first, without articles.
	ListDocuments(ctx context.Context, limit int) ([]Document, error)
	DeleteDocument(ctx context.Context, slug string) error
	// FindByContentHash returns the document (without articles) whose
	// extracted text hashes to hash, or ErrNotFound.
	FindByContentHash(ctx context.Context, hash string) (*Document, error)
	Close() error
}
