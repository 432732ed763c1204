package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphabot-ai/quill/internal/view"
)

func TestLoginKeepsToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/sessions":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "admin@example.com", body["email"])
			_ = json.NewEncoder(w).Encode(view.SessionView{ID: 1, Name: "admin", IsAdmin: true, Token: "tok"})
		case r.Method == http.MethodGet && r.URL.Path == "/users":
			gotAuth = r.Header.Get("Authorization")
			_ = json.NewEncoder(w).Encode(view.UserListView{Count: 0, Users: []view.UserView{}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	sess, err := c.Login(context.Background(), "admin@example.com", "pw")
	require.NoError(t, err)
	assert.True(t, sess.IsAdmin)
	assert.Equal(t, "tok", c.Token)

	_, err = c.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", gotAuth)
}

func TestErrorsCarryKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"article 9: not found","kind":"not_found"}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).GetPost(context.Background(), 9)
	require.Error(t, err)
	assert.Equal(t, "not_found", Kind(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "article 9: not found", apiErr.Message)
}

func TestNonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := New(srv.URL).DeletePost(context.Background(), 1)
	assert.Equal(t, "unknown", Kind(err))
	assert.Equal(t, "", Kind(io.EOF))
}

func TestUploadPhotoSendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "cat.png", header.Filename)
		assert.Equal(t, "png-bytes", string(data))
		_ = json.NewEncoder(w).Encode(view.ImageView{ID: 1, URL: "/photos/cat.png", Filename: "cat.png"})
	}))
	defer srv.Close()

	img, err := New(srv.URL).UploadPhoto(context.Background(), "cat.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/photos/cat.png", img.URL)
}
