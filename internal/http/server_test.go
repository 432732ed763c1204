package httpapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphabot-ai/quill/internal/auth"
	"github.com/alphabot-ai/quill/internal/config"
	"github.com/alphabot-ai/quill/internal/model"
	"github.com/alphabot-ai/quill/internal/rate"
	"github.com/alphabot-ai/quill/internal/store/sqlite"
	"github.com/alphabot-ai/quill/internal/upload"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "admin-password"
)

type allowAllLimiter struct{}

func (a allowAllLimiter) Allow(key string, limit int, window time.Duration) (bool, time.Duration) {
	return true, 0
}

type testEnv struct {
	t          *testing.T
	server     *httptest.Server
	store      *sqlite.Store
	auth       *auth.Service
	uploadDir  string
	adminToken string
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWith(t, allowAllLimiter{}, nil)
}

func newTestEnvWith(t *testing.T, limiter rate.Limiter, configure func(*config.Config)) *testEnv {
	t.Helper()
	ctx := context.Background()

	name := strings.NewReplacer("/", "_").Replace(t.Name())
	st, err := sqlite.Open(fmt.Sprintf("file:http_%s?mode=memory&cache=shared", name))
	require.NoError(t, err, "open store")
	t.Cleanup(func() { _ = st.Close() })

	cfg := config.Default()
	cfg.UploadDir = t.TempDir()
	if configure != nil {
		configure(&cfg)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	authSvc := auth.NewService(st, []byte("test-secret"), time.Hour, logger)
	photos, err := upload.NewStorage(cfg.UploadDir, cfg.AllowedExtensions)
	require.NoError(t, err)

	ts := httptest.NewServer(NewServer(st, authSvc, photos, limiter, cfg, logger))
	t.Cleanup(ts.Close)

	_, err = authSvc.EnsureSuperuser(ctx, "admin", adminEmail, adminPassword)
	require.NoError(t, err, "create superuser")
	login, err := authSvc.Login(ctx, adminEmail, adminPassword, "")
	require.NoError(t, err, "admin login")

	return &testEnv{
		t:          t,
		server:     ts,
		store:      st,
		auth:       authSvc,
		uploadDir:  cfg.UploadDir,
		adminToken: login.Token,
	}
}

func (e *testEnv) send(req *http.Request) (int, []byte) {
	e.t.Helper()
	resp, err := e.server.Client().Do(req)
	require.NoError(e.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	return resp.StatusCode, body
}

// do sends body as JSON (when non-nil) with an optional bearer token.
func (e *testEnv) do(method, path, token string, body any) (int, []byte) {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(e.t, err)
			raw = string(b)
		}
		reader = strings.NewReader(raw)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(e.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.send(req)
}

// doJSON is do plus decoding of a successful response into out.
func (e *testEnv) doJSON(method, path, token string, body, out any) int {
	e.t.Helper()
	status, raw := e.do(method, path, token, body)
	if out != nil && status >= 200 && status < 300 {
		require.NoError(e.t, json.Unmarshal(raw, out), "decode %s", raw)
	}
	return status
}

func (e *testEnv) upload(token, filename, content string) (int, []byte) {
	e.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(e.t, err)
	_, err = io.WriteString(part, content)
	require.NoError(e.t, err)
	require.NoError(e.t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, e.server.URL+"/photos", &buf)
	require.NoError(e.t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.send(req)
}

// readerToken registers a non-admin user through the API and logs it in.
func (e *testEnv) readerToken(name string) string {
	e.t.Helper()
	email := name + "@example.com"
	status, body := e.do(http.MethodPost, "/users", "", map[string]string{"name": name, "email": email, "password": "pw-" + name})
	require.Equal(e.t, http.StatusOK, status, "register: %s", body)

	var sess struct {
		Token string `json:"token"`
	}
	status = e.doJSON(http.MethodPost, "/sessions", "", map[string]string{"email": email, "password": "pw-" + name}, &sess)
	require.Equal(e.t, http.StatusOK, status)
	return sess.Token
}

func errorKind(t *testing.T, body []byte) string {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(body, &resp), "error body %s", body)
	assert.NotEmpty(t, resp.Error)
	return resp.Kind
}

func TestRouting(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, kindNotFound, errorKind(t, body))

	status, body = env.do(http.MethodPatch, "/posts", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, status)
	assert.Equal(t, kindMethodNotAllowed, errorKind(t, body))

	status, body = env.do(http.MethodGet, "/posts/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, kindValidation, errorKind(t, body))
}

func TestRequestIDHeader(t *testing.T) {
	env := newTestEnv(t)
	resp, err := env.server.Client().Get(env.server.URL + "/posts")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, resp.Header.Get("X-Request-Id"), 36)
}

func TestVersionAndOpenAPI(t *testing.T) {
	env := newTestEnv(t)

	var version map[string]string
	require.Equal(t, http.StatusOK, env.doJSON(http.MethodGet, "/version", "", nil, &version))
	assert.Equal(t, "dev", version["version"])

	status, body := env.do(http.MethodGet, "/openapi.json", "", nil)
	require.Equal(t, http.StatusOK, status)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.Equal(t, "2.0", doc["swagger"])
	assert.Contains(t, doc["paths"], "/posts/{id}")
}

func TestBearerTokenForms(t *testing.T) {
	env := newTestEnv(t)

	req, err := http.NewRequest(http.MethodGet, env.server.URL+"/users", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", env.adminToken)
	status, _ := env.send(req)
	assert.Equal(t, http.StatusOK, status, "bare token")

	req.Header.Set("Authorization", "bearer "+env.adminToken)
	status, _ = env.send(req)
	assert.Equal(t, http.StatusOK, status, "lower-case scheme")

	req.Header.Set("Authorization", "Bearer garbage")
	status, body := env.send(req)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, kindUnauthenticated, errorKind(t, body))
}

func TestRateLimit(t *testing.T) {
	env := newTestEnvWith(t, rate.NewMemory(), func(cfg *config.Config) {
		cfg.RateLimits.LoginPerMinute = 2
	})
	creds := map[string]string{"email": adminEmail, "password": "wrong"}

	for i := 0; i < 2; i++ {
		status, _ := env.do(http.MethodPost, "/sessions", "", creds)
		assert.Equal(t, http.StatusUnauthorized, status)
	}

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/sessions", strings.NewReader(`{"email":"admin@example.com","password":"wrong"}`))
	require.NoError(t, err)
	resp, err := env.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestRateLimitIgnoresForwardedFor(t *testing.T) {
	env := newTestEnvWith(t, rate.NewMemory(), func(cfg *config.Config) {
		cfg.RateLimits.LoginPerMinute = 2
	})

	login := func(forwardedFor string) int {
		req, err := http.NewRequest(http.MethodPost, env.server.URL+"/sessions", strings.NewReader(`{"email":"admin@example.com","password":"wrong"}`))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", forwardedFor)
		status, _ := env.send(req)
		return status
	}

	assert.Equal(t, http.StatusUnauthorized, login("203.0.113.1"))
	assert.Equal(t, http.StatusUnauthorized, login("203.0.113.2"))
	assert.Equal(t, http.StatusTooManyRequests, login("203.0.113.3"))
}

func TestRateLimitTrustedProxy(t *testing.T) {
	env := newTestEnvWith(t, rate.NewMemory(), func(cfg *config.Config) {
		cfg.RateLimits.LoginPerMinute = 1
		cfg.TrustProxy = true
	})

	for _, ip := range []string{"203.0.113.1", "203.0.113.2", "203.0.113.3"} {
		req, err := http.NewRequest(http.MethodPost, env.server.URL+"/sessions", strings.NewReader(`{"email":"admin@example.com","password":"wrong"}`))
		require.NoError(t, err)
		req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		status, _ := env.send(req)
		assert.Equal(t, http.StatusUnauthorized, status, ip)
	}
}

func TestValidation(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(http.MethodPost, "/posts", env.adminToken, map[string]string{"body": "b", "category": "c"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, kindValidation, errorKind(t, body))
	assert.Contains(t, string(body), "title is required")

	status, body = env.do(http.MethodPost, "/posts", env.adminToken, `{"title":"t","body":"b","category":"c","extra":1}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, kindValidation, errorKind(t, body))

	status, body = env.do(http.MethodPost, "/users", "", map[string]string{"name": "x", "email": "not-an-email", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "email must be a valid email address")

	status, _ = env.do(http.MethodPost, "/sessions", "", "{not json")
	assert.Equal(t, http.StatusBadRequest, status)

	// 40 runes, 80 bytes: over the bcrypt input limit.
	status, body = env.do(http.MethodPost, "/users", "", map[string]string{
		"name": "accent", "email": "accent@example.com", "password": strings.Repeat("é", 40),
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, kindValidation, errorKind(t, body))
	assert.Contains(t, string(body), "password must be at most 72 bytes")
}

func TestValidationRejectsBlankFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input map[string]string
		want  string
	}{
		{"blank title", map[string]string{"title": "  ", "body": "b", "category": "c"}, "title is required"},
		{"blank body", map[string]string{"title": "t", "body": "\n\t", "category": "c"}, "body is required"},
		{"blank category", map[string]string{"title": "t", "body": "b", "category": "   "}, "category is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := env.do(http.MethodPost, "/posts", env.adminToken, tc.input)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, kindValidation, errorKind(t, body))
			assert.Contains(t, string(body), tc.want)
		})
	}

	categories, err := env.store.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, categories, "blank category must not be created")

	status, body := env.do(http.MethodPost, "/users", "", map[string]string{"name": " ", "email": "blank@example.com", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "name is required")

	var post struct {
		ID int64 `json:"id"`
	}
	status = env.doJSON(http.MethodPost, "/posts", env.adminToken, map[string]string{"title": "t", "body": "b", "category": "c"}, &post)
	require.Equal(t, http.StatusOK, status)
	status, body = env.do(http.MethodPost, "/comments/"+strconv.FormatInt(post.ID, 10), env.readerToken("commenter"), map[string]string{"body": "   "})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "body is required")
}

// lookupDownStore fails every email lookup with a storage error.
type lookupDownStore struct {
	*sqlite.Store
}

func (s lookupDownStore) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return model.User{}, errors.New("database is locked")
}

func TestLoginLookupFailureIsInternal(t *testing.T) {
	st, err := sqlite.Open("file:http_lookup_down?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	cfg := config.Default()
	cfg.UploadDir = t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	photos, err := upload.NewStorage(cfg.UploadDir, cfg.AllowedExtensions)
	require.NoError(t, err)
	authSvc := auth.NewService(lookupDownStore{st}, []byte("test-secret"), time.Hour, logger)
	ts := httptest.NewServer(NewServer(st, authSvc, photos, allowAllLimiter{}, cfg, logger))
	t.Cleanup(ts.Close)

	env := &testEnv{t: t, server: ts, store: st, auth: authSvc, uploadDir: cfg.UploadDir}
	status, body := env.do(http.MethodPost, "/sessions", "", map[string]string{"email": adminEmail, "password": adminPassword})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, kindInternal, errorKind(t, body))
	assert.NotContains(t, string(body), "database is locked")
}
