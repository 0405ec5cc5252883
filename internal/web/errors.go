package web

// errors.go turns service errors into HTTP responses.
//
// The technical error is logged with the request ID. The client receives the
// user message from core.MapError, as JSON or, for HTMX requests, as an HTML
// fragment. Rejected rows travel with no-valid-records errors so the uploader
// can fix the sheet.

import (
	"context"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/bizdir/internal/core"
	"github.com/JonMunkholm/bizdir/internal/logging"
	"github.com/JonMunkholm/bizdir/internal/web/templates"
)

// pgUniqueViolation is the SQLSTATE for unique constraint failures.
const pgUniqueViolation = "23505"

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error    string             `json:"error"`
	Message  string             `json:"message"`
	Action   string             `json:"action,omitempty"`
	Code     string             `json:"code"`
	Rejected []core.RejectedRow `json:"rejectedRows,omitempty"`
}

// statusFor maps a service error to an HTTP status.
func statusFor(err error) int {
	var pgErr *pgconn.PgError

	switch {
	case errors.Is(err, core.ErrUnknownKind):
		return http.StatusNotFound
	case errors.Is(err, core.ErrUnsupportedFormat),
		errors.Is(err, core.ErrInvalidOwner),
		errors.Is(err, core.ErrNoFile):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrMalformedFile),
		errors.Is(err, core.ErrHeaderMismatch),
		errors.Is(err, core.ErrNoValidRecords):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrTooManyImports):
		return http.StatusServiceUnavailable
	case errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation:
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes the user-facing error response.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	args := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"code", msg.Code,
		"error", err.Error(),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request error", args...)
	} else {
		logger.Warn("request error", args...)
	}

	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "30")
	}

	if isHTMX(r) {
		renderErrorPartial(w, r, msg, status, err)
		return
	}

	resp := ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	}
	var noValid *core.NoValidRecordsError
	if errors.As(err, &noValid) {
		resp.Rejected = noValid.Rejected
	}
	writeJSON(w, r, status, resp)
}

// renderErrorPartial writes an HTMX error fragment.
func renderErrorPartial(w http.ResponseWriter, r *http.Request, msg core.UserMessage, status int, err error) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if rerr := templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w); rerr != nil {
		logging.FromContext(r.Context()).Error("render error partial", "error", rerr)
		return
	}

	var noValid *core.NoValidRecordsError
	if errors.As(err, &noValid) {
		if rerr := templates.RejectedRows(noValid.Rejected).Render(r.Context(), w); rerr != nil {
			logging.FromContext(r.Context()).Error("render rejected rows", "error", rerr)
		}
	}
}

// isHTMX checks if the request was issued by HTMX.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
