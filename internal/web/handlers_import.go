package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/bizdir/internal/core"
	"github.com/JonMunkholm/bizdir/internal/logging"
	"github.com/JonMunkholm/bizdir/internal/web/templates"
)

// multipartOverhead is the form allowance on top of the file size limit.
const multipartOverhead = 1 << 20

// handleImport imports a spreadsheet. Form fields: file, owner.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	kind := core.EntityKind(chi.URLParam(r, "kind"))

	fileName, data, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	result, err := s.service.Import(ctx, kind, r.FormValue("owner"), fileName, data)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusCreated)
		if err := templates.ImportSummary(result).Render(r.Context(), w); err != nil {
			logging.FromContext(r.Context()).Error("render import summary",
				"import_id", result.ImportID,
				"error", err,
			)
		}
		return
	}
	writeJSON(w, r, http.StatusCreated, result)
}

// handlePreview validates a spreadsheet without importing it.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	kind := core.EntityKind(chi.URLParam(r, "kind"))

	fileName, data, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	preview, err := s.service.Preview(r.Context(), kind, fileName, data)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, preview)
}

// readUpload reads the "file" form field within the configured size limit.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", nil, fmt.Errorf("%w: limit is %d bytes", core.ErrFileTooLarge, maxSize)
		}
		return "", nil, fmt.Errorf("%w: %v", core.ErrNoFile, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", core.ErrNoFile, err)
	}
	defer file.Close()

	if header.Size > maxSize {
		return "", nil, fmt.Errorf("%w: limit is %d bytes", core.ErrFileTooLarge, maxSize)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, fmt.Errorf("read upload: %w", err)
	}
	return header.Filename, data, nil
}
