// Package client provides a Go client for the Quill API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/alphabot-ai/quill/internal/view"
)

// Client is a Quill API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      string
}

// APIError is a failed response decoded from the server's error body.
type APIError struct {
	StatusCode int
	Kind       string `json:"kind"`
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Kind, e.StatusCode, e.Message)
}

// Kind reports the machine-readable kind of err, or "" if err did not come
// from the server.
func Kind(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// PostInput is the body of create and update post requests.
type PostInput struct {
	Title       string `json:"title"`
	Description string `json:"desc,omitempty"`
	Body        string `json:"body"`
	Category    string `json:"category"`
	ImageID     *int64 `json:"img_id,omitempty"`
}

// New creates a new Quill client.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Login starts a session and keeps its token for later requests.
func (c *Client) Login(ctx context.Context, email, password string) (view.SessionView, error) {
	var out view.SessionView
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/sessions", body, &out); err != nil {
		return view.SessionView{}, err
	}
	c.Token = out.Token
	return out, nil
}

// Logout ends the current session and forgets its token.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, "/sessions", nil, nil); err != nil {
		return err
	}
	c.Token = ""
	return nil
}

// Register creates a reader account. It does not log in.
func (c *Client) Register(ctx context.Context, name, email, password string) (view.RegisteredView, error) {
	var out view.RegisteredView
	body := map[string]string{"name": name, "email": email, "password": password}
	err := c.do(ctx, http.MethodPost, "/users", body, &out)
	return out, err
}

// ListUsers lists every account. Requires the admin role.
func (c *Client) ListUsers(ctx context.Context) (view.UserListView, error) {
	var out view.UserListView
	err := c.do(ctx, http.MethodGet, "/users", nil, &out)
	return out, err
}

// ListPosts fetches all posts, newest first.
func (c *Client) ListPosts(ctx context.Context) (view.PostListView, error) {
	var out view.PostListView
	err := c.do(ctx, http.MethodGet, "/posts", nil, &out)
	return out, err
}

// GetPost fetches a single post.
func (c *Client) GetPost(ctx context.Context, id int64) (view.PostView, error) {
	var out view.PostView
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/posts/%d", id), nil, &out)
	return out, err
}

// CreatePost publishes a post. Requires the admin role.
func (c *Client) CreatePost(ctx context.Context, in PostInput) (view.PostView, error) {
	var out view.PostView
	err := c.do(ctx, http.MethodPost, "/posts", in, &out)
	return out, err
}

// UpdatePost replaces a post. Requires the admin role.
func (c *Client) UpdatePost(ctx context.Context, id int64, in PostInput) (view.PostView, error) {
	var out view.PostView
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/posts/%d", id), in, &out)
	return out, err
}

// DeletePost deletes a post with its comments and photo.
func (c *Client) DeletePost(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/posts/%d", id), nil, nil)
}

// ListComments fetches the comments on a post, oldest first.
func (c *Client) ListComments(ctx context.Context, postID int64) ([]view.CommentView, error) {
	var out []view.CommentView
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/comments/%d", postID), nil, &out)
	return out, err
}

// AddComment comments on a post as the logged-in user.
func (c *Client) AddComment(ctx context.Context, postID int64, body string) (view.CommentView, error) {
	var out view.CommentView
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/comments/%d", postID), map[string]string{"body": body}, &out)
	return out, err
}

// UploadPhoto sends r as a multipart file named filename.
func (c *Client) UploadPhoto(ctx context.Context, filename string, r io.Reader) (view.ImageView, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return view.ImageView{}, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return view.ImageView{}, err
	}
	if err := mw.Close(); err != nil {
		return view.ImageView{}, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/photos", &buf)
	if err != nil {
		return view.ImageView{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out view.ImageView
	err = c.send(req, &out)
	return out, err
}

// GetPhoto downloads a stored photo.
func (c *Client) GetPhoto(ctx context.Context, filename string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/photos/"+url.PathEscape(filename), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}
	return io.ReadAll(resp.Body)
}

// DeletePhoto removes a photo and its stored file.
func (c *Client) DeletePhoto(ctx context.Context, filename string) error {
	return c.do(ctx, http.MethodDelete, "/photos/"+url.PathEscape(filename), nil, nil)
}

// ArchiveMonths fetches post counts per month, latest first.
func (c *Client) ArchiveMonths(ctx context.Context) ([]view.ArchiveMonthView, error) {
	var out []view.ArchiveMonthView
	err := c.do(ctx, http.MethodGet, "/archive", nil, &out)
	return out, err
}

// ArchivePosts fetches the posts created in one month.
func (c *Client) ArchivePosts(ctx context.Context, year, month int) ([]view.ArchivePostView, error) {
	var out []view.ArchivePostView
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/archives/%d/%d", year, month), nil, &out)
	return out, err
}

// ListCategories fetches every category with its post count.
func (c *Client) ListCategories(ctx context.Context) ([]view.CategoryView, error) {
	var out []view.CategoryView
	err := c.do(ctx, http.MethodGet, "/categories", nil, &out)
	return out, err
}

// do sends a JSON request and decodes a JSON response into out. A nil out
// discards the body.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}
	req, err := c.newRequest(ctx, method, path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	return req, nil
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Kind == "" {
		apiErr.Kind = "unknown"
		apiErr.Message = string(body)
	}
	return apiErr
}

// TestHelper provides utilities for creating authenticated clients in tests.
type TestHelper struct {
	BaseURL string
}

// NewTestHelper creates a new test helper for the given base URL.
func NewTestHelper(baseURL string) *TestHelper {
	return &TestHelper{BaseURL: baseURL}
}

// CreateAuthenticatedClient registers a reader called name and returns a
// client logged in as that reader.
func (h *TestHelper) CreateAuthenticatedClient(ctx context.Context, name string) (*Client, error) {
	email := name + "@example.test"
	password := "password-" + name
	c := New(h.BaseURL)
	if _, err := c.Register(ctx, name, email, password); err != nil && Kind(err) != "conflict" {
		return nil, fmt.Errorf("register: %w", err)
	}
	if _, err := c.Login(ctx, email, password); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return c, nil
}

// LoginClient returns a client logged in with existing credentials.
func (h *TestHelper) LoginClient(ctx context.Context, email, password string) (*Client, error) {
	c := New(h.BaseURL)
	if _, err := c.Login(ctx, email, password); err != nil {
		return nil, err
	}
	return c, nil
}
