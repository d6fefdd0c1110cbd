package pathstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dgallion1/mevzuat/internal/store"
)

const (
	documentsRoot = "legal/documents"
	hashRoot      = "legal/by_hash"
	indexRoot     = "legal/index"
	scanLimit     = 10000
)

// DocumentStore implements store.Store on a pathstore service:
//
//	legal/documents/{slug}/meta              document metadata
//	legal/documents/{slug}/articles/{order}  one node per article
//	legal/by_hash/{hash}                     {"slug": ...} dedup index
//	legal/index/{slug}                       copy of meta, one node per document
//
// Listing scans legal/index so article nodes never count against the scan limit.
type DocumentStore struct {
	client *Client
}

var _ store.Store = (*DocumentStore)(nil)

func NewDocumentStore(client *Client) *DocumentStore {
	return &DocumentStore{client: client}
}

type hashEntry struct {
	Slug string `json:"slug"`
}

func documentKey(slug string) string { return documentsRoot + "/" + slug }
func metaKey(slug string) string     { return documentKey(slug) + "/meta" }
func hashKey(hash string) string     { return hashRoot + "/" + hash }
func indexKey(slug string) string    { return indexRoot + "/" + slug }

func articleKey(slug string, order int) string {
	return fmt.Sprintf("%s/articles/%04d", documentKey(slug), order)
}

// normalizeKey accepts both slash- and dot-separated key paths.
func normalizeKey(k string) string {
	return strings.ReplaceAll(k, ".", "/")
}

func (s *DocumentStore) exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.GetNode(ctx, key)
	if errors.Is(err, ErrNodeNotFound) {
		return false, nil
	}
	return err == nil, err
}

// SaveDocument writes articles first and metadata last, so a document only
// becomes visible once all of its articles are stored.
func (s *DocumentStore) SaveDocument(ctx context.Context, doc *store.Document) error {
	if doc.ID == "" || doc.Slug == "" {
		return fmt.Errorf("save document: id and slug are required")
	}

	dup, err := s.exists(ctx, hashKey(doc.ContentHash))
	if err != nil {
		return err
	}
	if dup {
		return store.ErrDuplicateContent
	}
	taken, err := s.exists(ctx, metaKey(doc.Slug))
	if err != nil {
		return err
	}
	if taken {
		return store.ErrSlugTaken
	}

	for i := range doc.Articles {
		a := &doc.Articles[i]
		a.DocumentID = doc.ID
		if err := s.client.PutNode(ctx, articleKey(doc.Slug, a.OrderIndex), NodeRequest{Value: a, Source: "mevzuat"}); err != nil {
			s.cleanup(doc.Slug)
			return err
		}
	}

	meta := *doc
	meta.Articles = nil
	meta.ArticleCount = len(doc.Articles)
	if err := s.client.PutNode(ctx, metaKey(doc.Slug), NodeRequest{Value: meta, Source: "mevzuat"}); err != nil {
		s.cleanup(doc.Slug)
		return err
	}
	if err := s.client.PutNode(ctx, indexKey(doc.Slug), NodeRequest{Value: meta, Source: "mevzuat"}); err != nil {
		s.cleanup(doc.Slug)
		return err
	}
	if err := s.client.PutNode(ctx, hashKey(doc.ContentHash), NodeRequest{Value: hashEntry{Slug: doc.Slug}}); err != nil {
		s.cleanup(doc.Slug)
		return err
	}
	doc.ArticleCount = meta.ArticleCount
	return nil
}

// cleanup removes a partially written document. It runs on a fresh context
// because the caller's may already be cancelled.
func (s *DocumentStore) cleanup(slug string) {
	_ = s.client.DeleteNode(context.Background(), indexKey(slug), false)
	_ = s.client.DeleteNode(context.Background(), documentKey(slug), true)
}

func (s *DocumentStore) getMeta(ctx context.Context, slug string) (*store.Document, error) {
	node, err := s.client.GetNode(ctx, metaKey(slug))
	if errors.Is(err, ErrNodeNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var doc store.Document
	if err := node.Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *DocumentStore) GetDocument(ctx context.Context, slug string) (*store.Document, error) {
	doc, err := s.getMeta(ctx, slug)
	if err != nil {
		return nil, err
	}

	nodes, err := s.client.ListChildren(ctx, documentKey(slug)+"/articles", scanLimit)
	if err != nil {
		return nil, err
	}
	doc.Articles = make([]store.Article, 0, len(nodes))
	for i := range nodes {
		var a store.Article
		if err := nodes[i].Decode(&a); err != nil {
			return nil, err
		}
		doc.Articles = append(doc.Articles, a)
	}
	sort.Slice(doc.Articles, func(i, j int) bool {
		return doc.Articles[i].OrderIndex < doc.Articles[j].OrderIndex
	})
	return doc, nil
}

func (s *DocumentStore) ListDocuments(ctx context.Context, limit int) ([]store.Document, error) {
	if limit <= 0 {
		limit = 100
	}
	nodes, err := s.client.ListChildren(ctx, indexRoot, scanLimit)
	if err != nil {
		return nil, err
	}

	docs := make([]store.Document, 0, len(nodes))
	for i := range nodes {
		if strings.Contains(strings.TrimPrefix(normalizeKey(nodes[i].Key), indexRoot+"/"), "/") {
			continue
		}
		var doc store.Document
		if err := nodes[i].Decode(&doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].CreatedAt.After(docs[j].CreatedAt)
		}
		return docs[i].Slug < docs[j].Slug
	})
	if len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

func (s *DocumentStore) DeleteDocument(ctx context.Context, slug string) error {
	doc, err := s.getMeta(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.client.DeleteNode(ctx, hashKey(doc.ContentHash), false); err != nil && !errors.Is(err, ErrNodeNotFound) {
		return err
	}
	if err := s.client.DeleteNode(ctx, indexKey(slug), false); err != nil && !errors.Is(err, ErrNodeNotFound) {
		return err
	}
	return s.client.DeleteNode(ctx, documentKey(slug), true)
}

func (s *DocumentStore) FindByContentHash(ctx context.Context, hash string) (*store.Document, error) {
	node, err := s.client.GetNode(ctx, hashKey(hash))
	if errors.Is(err, ErrNodeNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var entry hashEntry
	if err := node.Decode(&entry); err != nil {
		return nil, err
	}
	return s.getMeta(ctx, entry.Slug)
}

func (s *DocumentStore) Close() error {
	s.client.Close()
	return nil
}
