package sqlite

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphabot-ai/quill/internal/model"
	"github.com/alphabot-ai/quill/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_").Replace(t.Name())
	st, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err, "open store")
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func createUser(t *testing.T, st *Store, email string) int64 {
	t.Helper()
	id, err := st.CreateUser(context.Background(), &model.User{
		Name:         strings.Split(email, "@")[0],
		Email:        email,
		PasswordHash: "hash",
		Active:       true,
		CreatedAt:    time.Now(),
	})
	require.NoError(t, err, "create user")
	return id
}

func countCategories(t *testing.T, st *Store) int {
	t.Helper()
	categories, err := st.ListCategories(context.Background())
	require.NoError(t, err)
	return len(categories)
}

func TestDuplicateEmail(t *testing.T) {
	st := newTestStore(t)
	createUser(t, st, "test@example.com")

	_, err := st.CreateUser(context.Background(), &model.User{
		Name:         "other",
		Email:        "TEST@example.com",
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
	})
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)
}

func TestGetUserNotFound(t *testing.T) {
	st := newTestStore(t)
	_, err := st.GetUserByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRoles(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	userID := createUser(t, st, "admin@example.com")

	role, err := st.EnsureRole(ctx, model.RoleAdmin, "administrators")
	require.NoError(t, err)
	again, err := st.EnsureRole(ctx, model.RoleAdmin, "")
	require.NoError(t, err)
	assert.Equal(t, role.ID, again.ID, "EnsureRole should be idempotent")

	require.NoError(t, st.AddRoleToUser(ctx, userID, role.ID))
	require.NoError(t, st.AddRoleToUser(ctx, userID, role.ID), "adding twice should not fail")

	roles, err := st.ListUserRoles(ctx, userID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, model.RoleAdmin, roles[0].Name)
	assert.Equal(t, "administrators", roles[0].Description)

	assert.ErrorIs(t, st.AddRoleToUser(ctx, 999, role.ID), store.ErrNotFound)
}

func TestSessionLifecycle(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	userID := createUser(t, st, "reader@example.com")

	sess := model.Session{
		ID:        "session-1",
		UserID:    userID,
		IP:        "10.0.0.1",
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, st.StartSession(ctx, sess))

	got, err := st.GetSession(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, "10.0.0.1", got.IP)

	user, err := st.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, user.LoginCount)
	assert.Equal(t, "10.0.0.1", user.CurrentLoginIP)
	require.NotNil(t, user.CurrentLoginAt)

	require.NoError(t, st.DeleteSession(ctx, "session-1"))
	assert.ErrorIs(t, st.DeleteSession(ctx, "session-1"), store.ErrNotFound)
	_, err = st.GetSession(ctx, "session-1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = st.StartSession(ctx, model.Session{ID: "orphan", UserID: 999, ExpiresAt: time.Now().Add(time.Hour)})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStartSessionPurgesExpired(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	userID := createUser(t, st, "reader@example.com")
	past := time.Now().Add(-2 * time.Hour)

	require.NoError(t, st.StartSession(ctx, model.Session{
		ID:        "stale",
		UserID:    userID,
		CreatedAt: past,
		ExpiresAt: past.Add(time.Hour),
	}))
	require.NoError(t, st.StartSession(ctx, model.Session{
		ID:        "fresh",
		UserID:    userID,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	_, err := st.GetSession(ctx, "stale")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.GetSession(ctx, "fresh")
	assert.NoError(t, err)
}

func TestCreatePostResolvesCategory(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	authorID := createUser(t, st, "author@example.com")

	before := countCategories(t, st)
	id, err := st.CreatePost(ctx, store.PostInput{
		Title:        "First",
		Body:         "# Hello",
		Description:  "intro",
		CategoryName: "python",
		AuthorID:     authorID,
		CreatedAt:    time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, before+1, countCategories(t, st), "new category should be created")

	_, err = st.CreatePost(ctx, store.PostInput{
		Title:        "Second",
		Body:         "body",
		CategoryName: "python",
		AuthorID:     authorID,
		CreatedAt:    time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, before+1, countCategories(t, st), "existing category should be reused")

	post, err := st.GetPost(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "First", post.Title)
	assert.Equal(t, "python", post.CategoryName)
	assert.Equal(t, "author", post.AuthorName)
	assert.Equal(t, "author@example.com", post.AuthorEmail)
	assert.Equal(t, "intro", post.Description)
	assert.Nil(t, post.Image)
}

func TestCreatePostRollsBackOnMissingImage(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	authorID := createUser(t, st, "author@example.com")

	missing := int64(42)
	_, err := st.CreatePost(ctx, store.PostInput{
		Title:        "Broken",
		Body:         "body",
		CategoryName: "go",
		AuthorID:     authorID,
		ImageID:      &missing,
	})
	require.ErrorIs(t, err, store.ErrNotFound)

	posts, err := st.ListPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts, "post insert should be rolled back")
	assert.Equal(t, 0, countCategories(t, st), "category insert should be rolled back")
}

func TestImageAttachment(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	authorID := createUser(t, st, "author@example.com")

	imageID, err := st.CreateImage(ctx, &model.Image{URL: "/photos/a.png", Filename: "a.png", CreatedAt: time.Now()})
	require.NoError(t, err)

	first, err := st.CreatePost(ctx, store.PostInput{Title: "One", Body: "b", CategoryName: "c", AuthorID: authorID, ImageID: &imageID})
	require.NoError(t, err)
	post, err := st.GetPost(ctx, first)
	require.NoError(t, err)
	require.NotNil(t, post.Image)
	assert.Equal(t, "a.png", post.Image.Filename)

	_, err = st.CreatePost(ctx, store.PostInput{Title: "Two", Body: "b", CategoryName: "c", AuthorID: authorID, ImageID: &imageID})
	assert.ErrorIs(t, err, store.ErrImageAttached)

	// Updating without an image detaches the current one.
	require.NoError(t, st.UpdatePost(ctx, first, store.PostInput{Title: "One", Body: "b", CategoryName: "c"}))
	post, err = st.GetPost(ctx, first)
	require.NoError(t, err)
	assert.Nil(t, post.Image)

	img, err := st.GetImage(ctx, imageID)
	require.NoError(t, err)
	assert.Nil(t, img.PostID)

	_, err = st.CreateImage(ctx, &model.Image{URL: "/photos/a.png", Filename: "a.png"})
	assert.ErrorIs(t, err, store.ErrDuplicateName)
}

func TestDeleteImage(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	authorID := createUser(t, st, "author@example.com")

	imageID, err := st.CreateImage(ctx, &model.Image{URL: "/photos/b.png", Filename: "b.png"})
	require.NoError(t, err)
	postID, err := st.CreatePost(ctx, store.PostInput{Title: "Kept", Body: "b", CategoryName: "c", AuthorID: authorID, ImageID: &imageID})
	require.NoError(t, err)

	img, err := st.GetImageByFilename(ctx, "b.png")
	require.NoError(t, err)
	require.NoError(t, st.DeleteImage(ctx, img.ID))

	post, err := st.GetPost(ctx, postID)
	require.NoError(t, err, "the post outlives its image")
	assert.Nil(t, post.Image)

	_, err = st.GetImageByFilename(ctx, "b.png")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, st.DeleteImage(ctx, img.ID), store.ErrNotFound)
}

func TestUpdatePostNotFound(t *testing.T) {
	st := newTestStore(t)
	err := st.UpdatePost(context.Background(), 404, store.PostInput{Title: "t", Body: "b", CategoryName: "c"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeletePostCascades(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	authorID := createUser(t, st, "author@example.com")

	imageID, err := st.CreateImage(ctx, &model.Image{URL: "/photos/cover.png", Filename: "cover.png"})
	require.NoError(t, err)
	postID, err := st.CreatePost(ctx, store.PostInput{Title: "Doomed", Body: "b", CategoryName: "c", AuthorID: authorID, ImageID: &imageID})
	require.NoError(t, err)
	commentID, err := st.CreateComment(ctx, &model.Comment{Body: "nice", AuthorID: authorID, PostID: postID})
	require.NoError(t, err)

	image, err := st.DeletePost(ctx, postID)
	require.NoError(t, err)
	require.NotNil(t, image)
	assert.Equal(t, "cover.png", image.Filename)

	_, err = st.GetPost(ctx, postID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.GetImage(ctx, imageID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.GetComment(ctx, commentID)
	assert.ErrorIs(t, err, store.ErrNotFound, "comments are deleted with their post")

	_, err = st.DeletePost(ctx, postID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestComments(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	authorID := createUser(t, st, "author@example.com")
	postID, err := st.CreatePost(ctx, store.PostInput{Title: "Talk", Body: "b", CategoryName: "c", AuthorID: authorID})
	require.NoError(t, err)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, body := range []string{"first", "second"} {
		_, err := st.CreateComment(ctx, &model.Comment{Body: body, AuthorID: authorID, PostID: postID, CreatedAt: base.Add(time.Duration(i) * time.Minute)})
		require.NoError(t, err)
	}

	comments, err := st.ListCommentsByPost(ctx, postID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Body)
	assert.Equal(t, "Talk", comments[0].PostTitle)
	assert.Equal(t, "author", comments[0].AuthorName)

	_, err = st.CreateComment(ctx, &model.Comment{Body: "lost", AuthorID: authorID, PostID: 999})
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.ListCommentsByPost(ctx, 999)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestArchive(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	authorID := createUser(t, st, "author@example.com")

	dates := []time.Time{
		time.Date(2023, 5, 3, 10, 0, 0, 0, time.UTC),
		time.Date(2023, 5, 28, 10, 0, 0, 0, time.UTC),
		time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	for i, d := range dates {
		_, err := st.CreatePost(ctx, store.PostInput{
			Title:        fmt.Sprintf("post %d", i),
			Body:         "b",
			CategoryName: "c",
			AuthorID:     authorID,
			CreatedAt:    d,
		})
		require.NoError(t, err)
	}

	months, err := st.ListArchiveMonths(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.ArchiveMonth{
		{Year: 2023, Month: 6, Count: 1},
		{Year: 2023, Month: 5, Count: 2},
	}, months)

	may, err := st.ListPostsInMonth(ctx, 2023, 5)
	require.NoError(t, err)
	require.Len(t, may, 2)
	assert.Equal(t, "post 1", may[0].Title)
	assert.Equal(t, "post 0", may[1].Title)

	empty, err := st.ListPostsInMonth(ctx, 2022, 1)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = st.ListPostsInMonth(ctx, 2023, 13)
	assert.Error(t, err)
}
