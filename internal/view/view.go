// Package view shapes entities into the JSON bodies returned by the API.
package view

import (
	"time"

	"github.com/alphabot-ai/quill/internal/auth"
	"github.com/alphabot-ai/quill/internal/model"
)

// TimeLayout is the format of every created_time field.
const TimeLayout = "2006-01-02 15:04:05"

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

type ImageView struct {
	ID       int64  `json:"id"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

type PostView struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Body         string     `json:"body"`
	BodySource   string     `json:"body_source"`
	Category     string     `json:"category"`
	Description  string     `json:"desc"`
	Image        *ImageView `json:"img"`
	CreatedTime  string     `json:"created_time"`
	Author       string     `json:"author"`
	AuthorAvatar string     `json:"author_avatar"`
}

type PostListView struct {
	Count int        `json:"count"`
	Posts []PostView `json:"posts"`
}

type CommentView struct {
	ID           int64  `json:"id"`
	Body         string `json:"body"`
	CreatedTime  string `json:"created_time"`
	AuthorName   string `json:"author_name"`
	Post         string `json:"post"`
	AuthorAvatar string `json:"author_avatar"`
}

type SessionView struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
	Token   string `json:"token"`
	Avatar  string `json:"avatar"`
}

type RegisteredView struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
}

type UserView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type UserListView struct {
	Count int        `json:"count"`
	Users []UserView `json:"users"`
}

type ArchiveMonthView struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Count int `json:"count"`
}

type ArchivePostView struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type CategoryView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func NewImage(img model.Image) ImageView {
	return ImageView{ID: img.ID, URL: img.URL, Filename: img.Filename}
}

func NewPost(p model.Post, md *Markdown) (PostView, error) {
	body, err := md.Render(p.Body)
	if err != nil {
		return PostView{}, err
	}
	v := PostView{
		ID:           p.ID,
		Title:        p.Title,
		Body:         body,
		BodySource:   p.Body,
		Category:     p.CategoryName,
		Description:  p.Description,
		CreatedTime:  FormatTime(p.CreatedAt),
		Author:       p.AuthorName,
		AuthorAvatar: auth.AvatarURL(p.AuthorEmail, auth.AvatarSize),
	}
	if p.Image != nil {
		img := NewImage(*p.Image)
		v.Image = &img
	}
	return v, nil
}

func NewPostList(posts []model.Post, md *Markdown) (PostListView, error) {
	out := PostListView{Count: len(posts), Posts: make([]PostView, 0, len(posts))}
	for _, p := range posts {
		v, err := NewPost(p, md)
		if err != nil {
			return PostListView{}, err
		}
		out.Posts = append(out.Posts, v)
	}
	return out, nil
}

func NewComment(c model.Comment) CommentView {
	return CommentView{
		ID:           c.ID,
		Body:         c.Body,
		CreatedTime:  FormatTime(c.CreatedAt),
		AuthorName:   c.AuthorName,
		Post:         c.PostTitle,
		AuthorAvatar: auth.AvatarURL(c.AuthorEmail, auth.AvatarSize),
	}
}

func NewComments(comments []model.Comment) []CommentView {
	out := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		out = append(out, NewComment(c))
	}
	return out
}

func NewSession(login auth.Login) SessionView {
	u := login.Principal.User
	return SessionView{
		ID:      u.ID,
		Name:    u.Name,
		IsAdmin: login.Principal.IsAdmin(),
		Token:   login.Token,
		Avatar:  auth.AvatarURL(u.Email, auth.AvatarSize),
	}
}

func NewRegistered(p auth.Principal) RegisteredView {
	return RegisteredView{ID: p.User.ID, Name: p.User.Name, IsAdmin: p.IsAdmin()}
}

func NewUserList(users []model.User, total int) UserListView {
	out := UserListView{Count: total, Users: make([]UserView, 0, len(users))}
	for _, u := range users {
		out.Users = append(out.Users, UserView{ID: u.ID, Name: u.Name})
	}
	return out
}

func NewArchiveMonths(months []model.ArchiveMonth) []ArchiveMonthView {
	out := make([]ArchiveMonthView, 0, len(months))
	for _, m := range months {
		out = append(out, ArchiveMonthView{Year: m.Year, Month: m.Month, Count: m.Count})
	}
	return out
}

func NewArchivePosts(posts []model.PostSummary) []ArchivePostView {
	out := make([]ArchivePostView, 0, len(posts))
	for _, p := range posts {
		out = append(out, ArchivePostView{ID: p.ID, Title: p.Title})
	}
	return out
}

func NewCategories(categories []model.Category) []CategoryView {
	out := make([]CategoryView, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryView{ID: c.ID, Name: c.Name, Count: c.PostCount})
	}
	return out
}
