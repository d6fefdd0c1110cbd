package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/mevzuat/internal/config"
	"github.com/dgallion1/mevzuat/internal/legal"
	"github.com/dgallion1/mevzuat/internal/parser"
	"github.com/dgallion1/mevzuat/internal/store"
)

var (
	// ErrExtraction wraps any failure to turn an upload into text.
	ErrExtraction = errors.New("text extraction failed")
	// ErrTextTooLarge is returned when extracted text exceeds MAX_TEXT_BYTES.
	ErrTextTooLarge = errors.New("extracted text exceeds size limit")
)

// Upload is one document handed to the service.
type Upload struct {
	Filename string
	Title    string // optional; falls back to document metadata, then filename
	Data     []byte
}

// Outcome is the result of Ingest. Exactly one of Rejected, Duplicate or a
// freshly stored Document describes what happened.
type Outcome struct {
	Result      legal.Result
	Document    *store.Document
	ContentHash string
	Rejected    bool
	Duplicate   bool
}

// Service runs extraction, legal parsing and persistence for one upload.
type Service struct {
	store        store.Store
	stats        *ParseStats
	log          *slog.Logger
	parserOpts   parser.Options
	maxTextBytes int64
	now          func() time.Time
}

func NewService(cfg config.Config, st store.Store, stats *ParseStats, log *slog.Logger) *Service {
	return &Service{
		store:        st,
		stats:        stats,
		log:          log,
		parserOpts:   parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext},
		maxTextBytes: cfg.MaxTextBytes,
		now:          time.Now,
	}
}

// Store returns the backing document store for read-only handlers.
func (s *Service) Store() store.Store {
	return s.store
}

// Stats returns the parse statistics collector.
func (s *Service) Stats() *ParseStats {
	return s.stats
}

// extracted is the plain text of an upload plus its best-known title.
type extracted struct {
	text  string
	title string
}

func (s *Service) extract(up Upload) (extracted, error) {
	p, err := parser.ForFile(up.Filename, s.parserOpts)
	if err != nil {
		return extracted{}, fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	tree, err := p.Parse(bytes.NewReader(up.Data), up.Filename)
	if err != nil {
		return extracted{}, fmt.Errorf("%w: %s: %w", ErrExtraction, up.Filename, err)
	}

	text := tree.PlainText()
	if s.maxTextBytes > 0 && int64(len(text)) > s.maxTextBytes {
		return extracted{}, fmt.Errorf("%w: %d > %d bytes", ErrTextTooLarge, len(text), s.maxTextBytes)
	}

	title := strings.TrimSpace(up.Title)
	if title == "" {
		title = strings.TrimSpace(tree.Title)
	}
	if title == "" {
		base := filepath.Base(up.Filename)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return extracted{text: text, title: title}, nil
}

func (s *Service) parse(text string) legal.Result {
	start := time.Now()
	res := legal.Parse(text)
	if s.stats != nil {
		s.stats.Record(time.Since(start), len(res.Articles), res.HasErrors())
	}
	return res
}

// Preview extracts and parses an upload without storing anything.
func (s *Service) Preview(ctx context.Context, up Upload) (legal.Result, error) {
	if err := ctx.Err(); err != nil {
		return legal.Result{}, err
	}
	ex, err := s.extract(up)
	if err != nil {
		return legal.Result{}, err
	}
	return s.parse(ex.text), nil
}

// ParseText parses already-extracted text.
func (s *Service) ParseText(text string) (legal.Result, error) {
	if s.maxTextBytes > 0 && int64(len(text)) > s.maxTextBytes {
		return legal.Result{}, fmt.Errorf("%w: %d > %d bytes", ErrTextTooLarge, len(text), s.maxTextBytes)
	}
	return s.parse(text), nil
}

// Ingest parses an upload and, if the result has no errors and the content
// is new, stores it as a document.
func (s *Service) Ingest(ctx context.Context, up Upload) (*Outcome, error) {
	return s.ingest(ctx, up, nil)
}

// ingest reports phase changes to job when it is non-nil.
func (s *Service) ingest(ctx context.Context, up Upload, job *Job) (*Outcome, error) {
	log := s.log.With("filename", up.Filename)
	if job != nil {
		log = log.With("job_id", job.ID)
	}
	phase := func(status JobStatus) {
		if job != nil {
			job.SetStatus(status, string(status))
		}
	}

	phase(StatusExtracting)
	ex, err := s.extract(up)
	if err != nil {
		return nil, err
	}
	hash := ContentHashHex([]byte(ex.text))

	phase(StatusParsing)
	res := s.parse(ex.text)
	if job != nil {
		job.SetParseCounts(len(res.Articles), len(res.Warnings))
	}
	out := &Outcome{Result: res, ContentHash: hash}
	if res.HasErrors() {
		log.Info("document rejected", "errors", len(res.Errors), "warnings", len(res.Warnings))
		out.Rejected = true
		return out, nil
	}

	existing, err := s.store.FindByContentHash(ctx, hash)
	switch {
	case err == nil:
		log.Info("duplicate document, skipping", "existing_slug", existing.Slug)
		out.Duplicate = true
		out.Document = existing
		return out, nil
	case !errors.Is(err, store.ErrNotFound):
		log.Warn("dedup check failed, proceeding", "error", err)
	}

	phase(StatusStoring)
	doc := s.buildDocument(up, ex, hash, res)
	if err := s.save(ctx, doc, log); err != nil {
		if errors.Is(err, store.ErrDuplicateContent) {
			out.Duplicate = true
			if existing, ferr := s.store.FindByContentHash(ctx, hash); ferr == nil {
				out.Document = existing
			}
			return out, nil
		}
		return nil, err
	}

	log.Info("document stored", "slug", doc.Slug, "articles", doc.ArticleCount, "warnings", doc.WarningCount)
	out.Document = doc
	return out, nil
}

func (s *Service) buildDocument(up Upload, ex extracted, hash string, res legal.Result) *store.Document {
	id := NewID()
	slug := legal.GenerateSlug(ex.title)
	if slug == "" {
		slug = "belge-" + strings.ToLower(id)
	}

	doc := &store.Document{
		ID:           id,
		Slug:         slug,
		Title:        ex.title,
		Filename:     filepath.Base(up.Filename),
		ContentHash:  hash,
		ArticleCount: len(res.Articles),
		WarningCount: len(res.Warnings),
		CreatedAt:    s.now().UTC(),
		Articles:     make([]store.Article, 0, len(res.Articles)),
	}

	// Numbers are unique after validation, but "5A" and "5a" share a slug.
	seen := make(map[string]bool, len(res.Articles))
	for _, a := range res.Articles {
		articleSlug := legal.ArticleSlug(slug, a.Number)
		if seen[articleSlug] {
			articleSlug = fmt.Sprintf("%s-%d", articleSlug, a.OrderIndex+1)
		}
		seen[articleSlug] = true
		doc.Articles = append(doc.Articles, store.Article{
			ID:         NewID(),
			DocumentID: id,
			Slug:       articleSlug,
			Number:     a.Number,
			Title:      a.Title,
			Text:       a.Text,
			OrderIndex: a.OrderIndex,
			Confidence: a.Confidence,
		})
	}
	return doc
}

// save retries transient backend failures with backoff.
func (s *Service) save(ctx context.Context, doc *store.Document, log *slog.Logger) error {
	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		lastErr = s.store.SaveDocument(ctx, doc)
		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		log.Warn("retryable store error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if lastErr != nil {
		return fmt.Errorf("save document %s: %w", doc.Slug, lastErr)
	}
	return nil
}
