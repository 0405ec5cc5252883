package web

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/bizdir/internal/core"
)

// healthTimeout bounds the dependency check of /healthz.
const healthTimeout = 2 * time.Second

// columnInfo describes one template column to API clients.
type columnInfo struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Required  bool   `json:"required"`
	MaxLength int    `json:"maxLength,omitempty"`
	Format    string `json:"format,omitempty"`
}

// schemaInfo describes an importable entity to API clients.
type schemaInfo struct {
	Kind          core.EntityKind `json:"kind"`
	Label         string          `json:"label"`
	Sheet         string          `json:"sheet"`
	OwnerRequired bool            `json:"ownerRequired"`
	Columns       []columnInfo    `json:"columns"`
}

func newSchemaInfo(schema core.ColumnSchema) schemaInfo {
	info := schemaInfo{
		Kind:          schema.Kind,
		Label:         schema.Label,
		Sheet:         schema.Sheet,
		OwnerRequired: schema.OwnerRequired,
		Columns:       make([]columnInfo, len(schema.Columns)),
	}
	for i, c := range schema.Columns {
		info.Columns[i] = columnInfo{
			Name:      c.Name,
			Type:      c.Type.String(),
			Required:  c.Required,
			MaxLength: c.MaxLength,
			Format:    c.Format,
		}
	}
	return info
}

// handleHealth reports liveness, and database reachability when configured.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":  "ok",
		"imports": s.service.ImportLimiterStatus(),
	}

	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := s.health.Ping(ctx); err != nil {
			status["status"] = "unavailable"
			status["database"] = err.Error()
			writeJSON(w, r, http.StatusServiceUnavailable, status)
			return
		}
		status["database"] = "ok"
	}

	writeJSON(w, r, http.StatusOK, status)
}

// handleListSchemas returns the registered import schemas.
func (s *Server) handleListSchemas(w http.ResponseWriter, r *http.Request) {
	schemas := s.service.ListSchemas()
	out := make([]schemaInfo, len(schemas))
	for i, schema := range schemas {
		out[i] = newSchemaInfo(schema)
	}
	writeJSON(w, r, http.StatusOK, out)
}

// handleDownloadTemplate serves a header-only spreadsheet for a kind.
func (s *Server) handleDownloadTemplate(w http.ResponseWriter, r *http.Request) {
	schema, err := core.Lookup(core.EntityKind(chi.URLParam(r, "kind")))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	data, err := core.GenerateTemplate(schema)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+core.TemplateFileName(schema)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// handleSearch returns companies matching ?city= and ?q=.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	records, err := s.service.Search(r.Context(), core.SearchIntent{
		City:  q.Get("city"),
		Query: q.Get("q"),
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, records)
}

// handleListCategories returns the directory categories.
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.service.ListCategories(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, categories)
}

// handleBrowseCategory returns the companies of a category.
func (s *Server) handleBrowseCategory(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.BrowseCategory(r.Context(), chi.URLParam(r, "categoryID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, records)
}

// handleListProducts returns the products of a company.
func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.ListProducts(r.Context(), chi.URLParam(r, "companyID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, records)
}

// handleListImports returns recent imports, newest first. ?limit= overrides the default.
func (s *Server) handleListImports(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", s.cfg.Upload.HistoryLimit)
	imports, err := s.service.ListImports(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, imports)
}

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}
