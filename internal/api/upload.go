package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/mevzuat/internal/parser"
	"github.com/dgallion1/mevzuat/internal/pipeline"
)

// uploadError carries the HTTP status to report for a bad upload.
type uploadError struct {
	code int
	msg  string
}

func (e *uploadError) Error() string { return e.msg }

// parseForm limits the body to maxBytes and parses it as multipart.
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return &uploadError{http.StatusRequestEntityTooLarge, "request body too large"}
		}
		return &uploadError{http.StatusBadRequest, "invalid multipart form: " + err.Error()}
	}
	return nil
}

// readFormFile reads the "file" field of an already-parsed multipart form.
func (s *Server) readFormFile(r *http.Request) (pipeline.Upload, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return pipeline.Upload{}, &uploadError{http.StatusBadRequest, "file is required: " + err.Error()}
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		return pipeline.Upload{}, &uploadError{http.StatusBadRequest, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename))}
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return pipeline.Upload{}, &uploadError{http.StatusInternalServerError, "failed to read file"}
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return pipeline.Upload{}, &uploadError{http.StatusRequestEntityTooLarge, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes)}
	}

	return pipeline.Upload{
		Filename: filename,
		Title:    strings.TrimSpace(r.FormValue("title")),
		Data:     data,
	}, nil
}

// readUpload parses a single-file multipart request.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (pipeline.Upload, error) {
	// Extra 1MB for form overhead.
	if err := s.parseForm(w, r, s.cfg.MaxUploadBytes+1024*1024); err != nil {
		return pipeline.Upload{}, err
	}
	defer r.MultipartForm.RemoveAll()
	return s.readFormFile(r)
}

// writeUploadError reports upload and ingest errors with a matching status.
func (s *Server) writeUploadError(w http.ResponseWriter, err error) {
	var ue *uploadError
	switch {
	case errors.As(err, &ue):
		jsonError(w, ue.msg, ue.code)
	case errors.Is(err, pipeline.ErrTextTooLarge):
		jsonError(w, err.Error(), http.StatusRequestEntityTooLarge)
	case errors.Is(err, pipeline.ErrExtraction):
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		s.log.Error("request failed", "error", err)
		jsonError(w, "internal error: "+err.Error(), http.StatusInternalServerError)
	}
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
