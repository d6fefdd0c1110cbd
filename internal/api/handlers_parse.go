package api

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/dgallion1/mevzuat/internal/legal"
	"github.com/dgallion1/mevzuat/internal/parser"
)

// handleParse previews how a document splits into articles. It accepts a
// multipart "file" upload or a raw text body; nothing is stored.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var (
		res legal.Result
		err error
	)
	if mediaType == "multipart/form-data" {
		up, uerr := s.readUpload(w, r)
		if uerr != nil {
			s.writeUploadError(w, uerr)
			return
		}
		res, err = s.svc.Preview(r.Context(), up)
	} else {
		res, err = s.parseRawBody(w, r)
	}
	if err != nil {
		s.writeUploadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) parseRawBody(w http.ResponseWriter, r *http.Request) (legal.Result, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxTextBytes))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return legal.Result{}, &uploadError{http.StatusRequestEntityTooLarge, "text body too large"}
		}
		return legal.Result{}, &uploadError{http.StatusBadRequest, "failed to read body"}
	}
	text, err := parser.DecodeText(body)
	if err != nil {
		return legal.Result{}, &uploadError{http.StatusBadRequest, "undecodable text: " + err.Error()}
	}
	return s.svc.ParseText(text)
}
