package httpapp

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/alphabot-ai/quill/internal/auth"
	"github.com/alphabot-ai/quill/internal/store"
	"github.com/alphabot-ai/quill/internal/upload"
)

const (
	kindNotFound          = "not_found"
	kindUnauthenticated   = "unauthenticated"
	kindInvalidCredential = "invalid_credential"
	kindForbidden         = "forbidden"
	kindConflict          = "conflict"
	kindValidation        = "validation_error"
	kindRateLimited       = "rate_limited"
	kindMethodNotAllowed  = "method_not_allowed"
	kindInternal          = "internal"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func validationErrorf(format string, args ...any) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Kind: kind})
}

// classify maps known errors to a status, kind and client-safe message.
func classify(err error) (status int, kind, msg string, ok bool) {
	var verr *validationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, kindValidation, verr.msg, true
	case errors.Is(err, upload.ErrExtensionNotAllowed), errors.Is(err, upload.ErrInvalidFilename):
		return http.StatusBadRequest, kindValidation, err.Error(), true
	case errors.Is(err, auth.ErrPasswordTooLong):
		return http.StatusBadRequest, kindValidation, "password must be at most 72 bytes", true
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized, kindUnauthenticated, "invalid or expired token", true
	case errors.Is(err, auth.ErrInvalidCredential):
		return http.StatusUnauthorized, kindInvalidCredential, "invalid password", true
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden, kindForbidden, "admin role required", true
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, kindNotFound, err.Error(), true
	case errors.Is(err, store.ErrDuplicateEmail),
		errors.Is(err, store.ErrDuplicateName),
		errors.Is(err, store.ErrImageAttached):
		return http.StatusConflict, kindConflict, err.Error(), true
	}
	return 0, "", "", false
}

// fail reports err for a read. Unknown errors become 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status, kind, msg, ok := classify(err); ok {
		writeError(w, status, kind, msg)
		return
	}
	s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, kindInternal, "internal error")
}

// failMutation reports err for a write. The store has rolled back, so
// unknown errors are reported as a conflict.
func (s *Server) failMutation(w http.ResponseWriter, r *http.Request, err error) {
	if status, kind, msg, ok := classify(err); ok {
		writeError(w, status, kind, msg)
		return
	}
	s.logger.Error("mutation failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusConflict, kindConflict, "the change could not be saved")
}
