package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/mevzuat/internal/store"
)

// handleCreateDocument parses and stores an upload synchronously.
func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if err != nil {
		s.writeUploadError(w, err)
		return
	}

	out, err := s.svc.Ingest(r.Context(), up)
	if errors.Is(err, store.ErrSlugTaken) {
		jsonError(w, "a document with this title already exists", http.StatusConflict)
		return
	}
	if err != nil {
		s.writeUploadError(w, err)
		return
	}

	switch {
	case out.Rejected:
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"errors":   out.Result.Errors,
			"warnings": out.Result.Warnings,
		})
	case out.Duplicate:
		resp := map[string]any{"error": "duplicate content"}
		if out.Document != nil {
			resp["existing_slug"] = out.Document.Slug
		}
		writeJSON(w, http.StatusConflict, resp)
	default:
		writeJSON(w, http.StatusCreated, map[string]any{
			"document":      out.Document,
			"article_count": out.Document.ArticleCount,
			"warnings":      out.Result.Warnings,
		})
	}
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			jsonError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, 1000)
	}

	docs, err := s.svc.Store().ListDocuments(r.Context(), limit)
	if err != nil {
		s.log.Error("list documents failed", "error", err)
		jsonError(w, "failed to list documents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.svc.Store().GetDocument(r.Context(), chi.URLParam(r, "slug"))
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("get document failed", "error", err)
		jsonError(w, "failed to load document: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	err := s.svc.Store().DeleteDocument(r.Context(), slug)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("delete document failed", "slug", slug, "error", err)
		jsonError(w, "failed to delete document: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": slug})
}
