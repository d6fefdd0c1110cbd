package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "mevzuat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleDocument(slug, hash string, created time.Time) *Document {
	return &Document{
		ID:          "doc-" + slug,
		Slug:        slug,
		Title:       "Tüketici Kanunu",
		Filename:    slug + ".txt",
		ContentHash: hash,
		CreatedAt:   created,
		Articles: []Article{
			{ID: slug + "-a1", Slug: slug + "-madde-1", Number: "1", Title: "Amaç", Text: "Bu Kanunun amacı tüketiciyi korumaktır.", OrderIndex: 0, Confidence: 0.92},
			{ID: slug + "-a2", Slug: slug + "-madde-2", Number: "2", Text: "Bu Kanun tüm işlemleri kapsar.", OrderIndex: 1, Confidence: 0.87},
		},
	}
}

func TestSQLiteSaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	doc := sampleDocument("tuketici-kanunu", "h1", created)
	require.NoError(t, s.SaveDocument(ctx, doc))
	assert.Equal(t, 2, doc.ArticleCount)

	got, err := s.GetDocument(ctx, "tuketici-kanunu")
	require.NoError(t, err)
	assert.Equal(t, "Tüketici Kanunu", got.Title)
	assert.Equal(t, 2, got.ArticleCount)
	assert.True(t, created.Equal(got.CreatedAt))
	require.Len(t, got.Articles, 2)
	assert.Equal(t, "1", got.Articles[0].Number)
	assert.Equal(t, "Amaç", got.Articles[0].Title)
	assert.Equal(t, "2", got.Articles[1].Number)
	assert.Equal(t, "doc-tuketici-kanunu", got.Articles[1].DocumentID)
	assert.InDelta(t, 0.87, got.Articles[1].Confidence, 1e-9)
}

func TestSQLiteGetMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetDocument(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteDuplicateContent(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.SaveDocument(ctx, sampleDocument("a", "same", time.Now())))
	err := s.SaveDocument(ctx, sampleDocument("b", "same", time.Now()))
	assert.ErrorIs(t, err, ErrDuplicateContent)

	found, err := s.FindByContentHash(ctx, "same")
	require.NoError(t, err)
	assert.Equal(t, "a", found.Slug)
	assert.Empty(t, found.Articles)

	_, err = s.FindByContentHash(ctx, "other")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteSlugTaken(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.SaveDocument(ctx, sampleDocument("a", "h1", time.Now())))
	doc := sampleDocument("a", "h2", time.Now())
	doc.ID = "doc-other"
	assert.ErrorIs(t, s.SaveDocument(ctx, doc), ErrSlugTaken)
}

func TestSQLiteSaveRollsBackOnArticleConflict(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	doc := sampleDocument("a", "h1", time.Now())
	doc.Articles[1].OrderIndex = 0 // violates UNIQUE(document_id, order_index)
	require.Error(t, s.SaveDocument(ctx, doc))

	_, err := s.GetDocument(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		slug := fmt.Sprintf("doc-%d", i)
		require.NoError(t, s.SaveDocument(ctx, sampleDocument(slug, slug, base.Add(time.Duration(i)*time.Hour))))
	}

	docs, err := s.ListDocuments(ctx, 2)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "doc-2", docs[0].Slug)
	assert.Equal(t, "doc-1", docs[1].Slug)
}

func TestSQLiteListEmpty(t *testing.T) {
	docs, err := openTestStore(t).ListDocuments(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestSQLiteDelete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.SaveDocument(ctx, sampleDocument("a", "h1", time.Now())))
	require.NoError(t, s.DeleteDocument(ctx, "a"))

	_, err := s.GetDocument(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteDocument(ctx, "a"), ErrNotFound)

	// Article slugs are free again after deletion.
	require.NoError(t, s.SaveDocument(ctx, sampleDocument("a", "h1", time.Now())))
}

func TestSQLiteMemory(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveDocument(ctx, sampleDocument("a", "h1", time.Now())))
	got, err := s.GetDocument(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, got.Articles, 2)
}

func TestSQLiteRequiresIDAndSlug(t *testing.T) {
	s := openTestStore(t)
	err := s.SaveDocument(context.Background(), &Document{Slug: "x"})
	assert.Error(t, err)
}
