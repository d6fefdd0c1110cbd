package api

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/mevzuat/internal/parser"
	"github.com/dgallion1/mevzuat/internal/pipeline"
)

func pollURL(jobID string) string {
	return fmt.Sprintf("/api/ingest/%s/status", jobID)
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if err != nil {
		s.writeUploadError(w, err)
		return
	}

	job := pipeline.NewJob(up.Filename, up.Title, up.Data)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   job.ID,
		"status":   pipeline.StatusQueued,
		"poll_url": pollURL(job.ID),
	})
}

func (s *Server) handleIngestStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

func (s *Server) handleBatchIngest(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r, s.cfg.MaxUploadBytes*10+10*1024*1024); err != nil {
		s.writeUploadError(w, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	results := make([]map[string]any, 0, len(files))
	for _, fh := range files {
		filename := sanitizeFilename(fh.Filename)
		fail := func(msg string) {
			results = append(results, map[string]any{"filename": filename, "error": msg})
		}
		if !parser.IsSupportedExtension(filename) {
			fail(fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)))
			continue
		}

		f, err := fh.Open()
		if err != nil {
			fail("failed to open file")
			continue
		}
		data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
		f.Close()
		if err != nil || int64(len(data)) > s.cfg.MaxUploadBytes {
			fail("file too large or read error")
			continue
		}

		// Batch uploads take their titles from document metadata or filenames.
		job := pipeline.NewJob(filename, "", data)
		if err := s.orchestrator.Submit(job); err != nil {
			fail(err.Error())
			continue
		}
		results = append(results, map[string]any{
			"filename": filename,
			"job_id":   job.ID,
			"status":   pipeline.StatusQueued,
			"poll_url": pollURL(job.ID),
		})
	}

	writeJSON(w, http.StatusAccepted, map[string]any{"jobs": results})
}
