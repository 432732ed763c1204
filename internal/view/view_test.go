package view

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphabot-ai/quill/internal/auth"
	"github.com/alphabot-ai/quill/internal/model"
)

func TestMarkdownExtensions(t *testing.T) {
	md := NewMarkdown()

	out, err := md.Render("| a | b |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>1</td>")

	out, err = md.Render("```go\nfmt.Println(1)\n```\n")
	require.NoError(t, err)
	assert.Contains(t, out, `<code class="language-go">`)

	out, err = md.Render("## Getting Started\n")
	require.NoError(t, err)
	assert.Contains(t, out, `<h2 id="getting-started">Getting Started</h2>`)
}

func TestMarkdownTOC(t *testing.T) {
	md := NewMarkdown()
	src := "[TOC]\n\n# Intro\n\n## Setup\n\n## Usage\n\n# Outro\n"
	out, err := md.Render(src)
	require.NoError(t, err)

	assert.NotContains(t, out, "[TOC]")
	assert.Contains(t, out, `<ul class="toc">`)
	assert.Contains(t, out, `<a href="#intro">Intro</a>`)
	assert.Contains(t, out, `<a href="#setup">Setup</a>`)
	assert.Contains(t, out, `<a href="#outro">Outro</a>`)
	// Setup is nested under Intro.
	assert.Less(t, strings.Index(out, "#intro"), strings.Index(out, "#setup"))
	assert.Equal(t, 2, strings.Count(out, `<ul class="toc">`))
}

func TestMarkdownTOCWithoutHeadings(t *testing.T) {
	out, err := NewMarkdown().Render("[TOC]\n\njust text\n")
	require.NoError(t, err)
	assert.NotContains(t, out, "TOC")
	assert.Contains(t, out, "<p>just text</p>")
}

func TestMarkdownOmitsRawHTML(t *testing.T) {
	out, err := NewMarkdown().Render("<script>alert(1)</script>\n\n[x](javascript:alert(1))\n")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "javascript:")
}

func TestNewPost(t *testing.T) {
	created := time.Date(2023, 5, 3, 10, 4, 5, 0, time.UTC)
	post := model.Post{
		ID:           7,
		Title:        "Hello",
		Body:         "**bold**",
		Description:  "desc",
		CreatedAt:    created,
		AuthorName:   "admin",
		AuthorEmail:  "admin@example.com",
		CategoryName: "go",
		Image:        &model.Image{ID: 3, URL: "/photos/a.png", Filename: "a.png"},
	}
	v, err := NewPost(post, NewMarkdown())
	require.NoError(t, err)
	assert.Equal(t, "<p><strong>bold</strong></p>\n", v.Body)
	assert.Equal(t, "**bold**", v.BodySource)
	assert.Equal(t, "2023-05-03 10:04:05", v.CreatedTime)
	assert.Equal(t, "go", v.Category)
	assert.Equal(t, auth.AvatarURL("admin@example.com", auth.AvatarSize), v.AuthorAvatar)
	require.NotNil(t, v.Image)
	assert.Equal(t, ImageView{ID: 3, URL: "/photos/a.png", Filename: "a.png"}, *v.Image)

	post.Image = nil
	v, err = NewPost(post, NewMarkdown())
	require.NoError(t, err)
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"img":null`)
}

func TestUserListOmitsSensitiveFields(t *testing.T) {
	users := []model.User{{ID: 1, Name: "admin", Email: "admin@example.com", PasswordHash: "secret-hash"}}
	raw, err := json.Marshal(NewUserList(users, 1))
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":1,"users":[{"id":1,"name":"admin"}]}`, string(raw))
}

func TestNewSession(t *testing.T) {
	login := auth.Login{
		Token: "tok",
		Principal: auth.Principal{
			User:  model.User{ID: 2, Name: "admin", Email: "admin@example.com"},
			Roles: []model.Role{{Name: model.RoleAdmin}},
		},
	}
	v := NewSession(login)
	assert.True(t, v.IsAdmin)
	assert.Equal(t, "tok", v.Token)
	assert.Equal(t, auth.AvatarURL("admin@example.com", auth.AvatarSize), v.Avatar)
}
