package httpapp

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag"

	_ "github.com/alphabot-ai/quill/docs" // swagger docs
	"github.com/alphabot-ai/quill/internal/auth"
	"github.com/alphabot-ai/quill/internal/config"
	"github.com/alphabot-ai/quill/internal/model"
	"github.com/alphabot-ai/quill/internal/rate"
	"github.com/alphabot-ai/quill/internal/store"
	"github.com/alphabot-ai/quill/internal/upload"
	"github.com/alphabot-ai/quill/internal/view"
)

type Server struct {
	store    store.Store
	auth     *auth.Service
	photos   *upload.Storage
	limiter  rate.Limiter
	markdown *view.Markdown
	validate *validator.Validate
	cfg      config.Config
	logger   *slog.Logger
}

func NewServer(st store.Store, authSvc *auth.Service, photos *upload.Storage, limiter rate.Limiter, cfg config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:    st,
		auth:     authSvc,
		photos:   photos,
		limiter:  limiter,
		markdown: view.NewMarkdown(),
		validate: newValidator(),
		cfg:      cfg,
		logger:   logger.With("component", "http"),
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := uuid.NewString()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	rec.Header().Set("X-Request-Id", requestID)

	defer func() {
		if p := recover(); p != nil {
			s.logger.Error("panic serving request", "request_id", requestID, "panic", p)
			if !rec.wroteHeader {
				writeError(rec, http.StatusInternalServerError, kindInternal, "internal error")
			}
		}
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"request_id", requestID,
		)
	}()

	s.route(rec, r)
}

func (s *Server) route(w http.ResponseWriter, r *http.Request) {
	segments := splitPath(r.URL.Path)
	if len(segments) > 0 && segments[0] == "swagger" {
		httpSwagger.WrapHandler.ServeHTTP(w, r)
		return
	}

	switch {
	case len(segments) == 1 && segments[0] == "sessions":
		switch r.Method {
		case http.MethodPost:
			s.handleLogin(w, r)
			return
		case http.MethodDelete:
			s.handleLogout(w, r)
			return
		}
	case len(segments) == 1 && segments[0] == "users":
		switch r.Method {
		case http.MethodPost:
			s.handleRegister(w, r)
			return
		case http.MethodGet:
			s.handleListUsers(w, r)
			return
		}
	case len(segments) == 1 && segments[0] == "posts":
		switch r.Method {
		case http.MethodGet:
			s.handleListPosts(w, r)
			return
		case http.MethodPost:
			s.handleCreatePost(w, r)
			return
		}
	case len(segments) == 2 && segments[0] == "posts":
		switch r.Method {
		case http.MethodGet:
			s.handleGetPost(w, r, segments[1])
			return
		case http.MethodPut:
			s.handleUpdatePost(w, r, segments[1])
			return
		case http.MethodDelete:
			s.handleDeletePost(w, r, segments[1])
			return
		}
	case len(segments) == 2 && segments[0] == "comments":
		switch r.Method {
		case http.MethodGet:
			s.handleListComments(w, r, segments[1])
			return
		case http.MethodPost:
			s.handleAddComment(w, r, segments[1])
			return
		}
	case len(segments) == 1 && segments[0] == "photos":
		if r.Method == http.MethodPost {
			s.handleUploadPhoto(w, r)
			return
		}
	case len(segments) == 2 && segments[0] == "photos":
		switch r.Method {
		case http.MethodGet, http.MethodHead:
			s.handleGetPhoto(w, r, segments[1])
			return
		case http.MethodDelete:
			s.handleDeletePhoto(w, r, segments[1])
			return
		}
	case len(segments) == 1 && segments[0] == "archive":
		if r.Method == http.MethodGet {
			s.handleArchiveMonths(w, r)
			return
		}
	case len(segments) == 3 && segments[0] == "archives":
		if r.Method == http.MethodGet {
			s.handleArchivePosts(w, r, segments[1], segments[2])
			return
		}
	case len(segments) == 1 && segments[0] == "categories":
		if r.Method == http.MethodGet {
			s.handleListCategories(w, r)
			return
		}
	case len(segments) == 1 && segments[0] == "version":
		if r.Method == http.MethodGet {
			s.handleVersion(w, r)
			return
		}
	case len(segments) == 1 && segments[0] == "openapi.json":
		if r.Method == http.MethodGet {
			s.serveOpenAPIJSON(w, r)
			return
		}
	default:
		notFound(w)
		return
	}

	methodNotAllowed(w)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	version := s.cfg.Version
	if version == "" {
		version = "dev"
	}
	writeJSON(w, http.StatusOK, map[string]string{"version": version})
}

func (s *Server) serveOpenAPIJSON(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write([]byte(doc))
}

func (s *Server) allowRateLimit(w http.ResponseWriter, r *http.Request, action string, limit int) bool {
	if limit <= 0 {
		return true
	}
	key := fmt.Sprintf("%s:ip:%s", action, s.clientIP(r))
	if ok, retry := s.limiter.Allow(key, limit, time.Minute); !ok {
		writeRateLimit(w, retry)
		return false
	}
	return true
}

// bearerToken accepts "Bearer <token>" and, for older clients, a bare token.
func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) >= 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return h
}

func (s *Server) requireAuth(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, kindUnauthenticated, "missing bearer token")
		return auth.Principal{}, false
	}
	p, err := s.auth.Authenticate(r.Context(), token)
	if err != nil {
		s.fail(w, r, err)
		return auth.Principal{}, false
	}
	return p, true
}

func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	p, ok := s.requireAuth(w, r)
	if !ok {
		return auth.Principal{}, false
	}
	if err := s.auth.RequireRole(p, model.RoleAdmin); err != nil {
		s.fail(w, r, err)
		return auth.Principal{}, false
	}
	return p, true
}

// clientIP is the peer address, or the first X-Forwarded-For entry when the
// server is configured to trust its proxy.
func (s *Server) clientIP(r *http.Request) string {
	if s.cfg.TrustProxy {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			parts := strings.Split(forwarded, ",")
			return strings.TrimSpace(parts[0])
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func readJSON(body io.ReadCloser, dest any) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dest)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeRateLimit(w http.ResponseWriter, retry time.Duration) {
	seconds := int(retry.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(seconds))
	writeJSON(w, http.StatusTooManyRequests, map[string]any{
		"error":       "rate limit exceeded",
		"kind":        kindRateLimited,
		"retry_after": seconds,
	})
}

func notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, kindNotFound, "not found")
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, kindMethodNotAllowed, "method not allowed")
}

func parseID(value, what string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, validationErrorf("invalid %s id %q", what, value)
	}
	return id, nil
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
