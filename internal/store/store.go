package store

import (
	"context"
	"errors"
	"time"

	"github.com/alphabot-ai/quill/internal/model"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email is already registered")
	ErrDuplicateName  = errors.New("duplicate name")
	ErrImageAttached  = errors.New("image is attached to another post")
)

// PostInput carries the writable fields of a post. CategoryName is resolved
// to an existing category or a new one inside the same transaction.
type PostInput struct {
	Title        string
	Body         string
	Description  string
	CategoryName string
	AuthorID     int64
	ImageID      *int64
	CreatedAt    time.Time
}

type Store interface {
	UserStore
	RoleStore
	SessionStore
	CategoryStore
	PostStore
	CommentStore
	ImageStore
	ArchiveStore
	Close() error
}

type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) (int64, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, int, error)
}

type RoleStore interface {
	EnsureRole(ctx context.Context, name, description string) (model.Role, error)
	AddRoleToUser(ctx context.Context, userID, roleID int64) error
	ListUserRoles(ctx context.Context, userID int64) ([]model.Role, error)
}

type SessionStore interface {
	// StartSession records the login on the user row, drops expired
	// sessions and stores the new one.
	StartSession(ctx context.Context, session model.Session) error
	GetSession(ctx context.Context, id string) (model.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

type CategoryStore interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
}

type PostStore interface {
	CreatePost(ctx context.Context, in PostInput) (int64, error)
	UpdatePost(ctx context.Context, id int64, in PostInput) error
	GetPost(ctx context.Context, id int64) (model.Post, error)
	ListPosts(ctx context.Context) ([]model.Post, error)
	// DeletePost removes the post, its comments and its image row. The
	// returned image (nil if none) still has a file to clean up.
	DeletePost(ctx context.Context, id int64) (*model.Image, error)
}

type CommentStore interface {
	CreateComment(ctx context.Context, comment *model.Comment) (int64, error)
	GetComment(ctx context.Context, id int64) (model.Comment, error)
	ListCommentsByPost(ctx context.Context, postID int64) ([]model.Comment, error)
}

type ImageStore interface {
	CreateImage(ctx context.Context, image *model.Image) (int64, error)
	GetImage(ctx context.Context, id int64) (model.Image, error)
	GetImageByFilename(ctx context.Context, filename string) (model.Image, error)
	DeleteImage(ctx context.Context, id int64) error
}

type ArchiveStore interface {
	ListArchiveMonths(ctx context.Context) ([]model.ArchiveMonth, error)
	ListPostsInMonth(ctx context.Context, year, month int) ([]model.PostSummary, error)
}
