package httpapp

import (
	"context"
	"net/http"
	"time"

	"github.com/alphabot-ai/quill/internal/store"
	"github.com/alphabot-ai/quill/internal/view"
)

// handleListPosts godoc
//
//	@Summary		List posts
//	@Description	All posts, newest first, with bodies rendered to HTML.
//	@Tags			Posts
//	@Produce		json
//	@Success		200	{object}	view.PostListView
//	@Router			/posts [get]
func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.ListPosts(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := view.NewPostList(posts, s.markdown)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleGetPost godoc
//
//	@Summary		Get a post
//	@Tags			Posts
//	@Produce		json
//	@Param			id	path		int	true	"Post ID"
//	@Success		200	{object}	view.PostView
//	@Failure		404	{object}	errorResponse	"Post not found"
//	@Router			/posts/{id} [get]
func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request, idStr string) {
	id, err := parseID(idStr, "post")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writePost(w, r, id)
}

// handleCreatePost godoc
//
//	@Summary		Create a post
//	@Description	The category is created if no category has that name yet. img_id attaches a previously uploaded photo.
//	@Tags			Posts
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			post	body		postRequest	true	"Post"
//	@Success		200		{object}	view.PostView
//	@Failure		400		{object}	errorResponse	"Missing or malformed field"
//	@Failure		401		{object}	errorResponse
//	@Failure		403		{object}	errorResponse	"Admin role required"
//	@Failure		404		{object}	errorResponse	"Image not found"
//	@Failure		409		{object}	errorResponse	"Image attached to another post"
//	@Router			/posts [post]
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requireAdmin(w, r)
	if !ok {
		return
	}
	var req postRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	in := req.input()
	in.AuthorID = p.User.ID
	in.CreatedAt = time.Now()

	id, err := s.store.CreatePost(r.Context(), in)
	if err != nil {
		s.failMutation(w, r, err)
		return
	}
	s.logger.Info("post created", "post_id", id, "author_id", p.User.ID)
	s.writePost(w, r, id)
}

// handleUpdatePost godoc
//
//	@Summary		Update a post
//	@Description	Replaces every field. Leaving out img_id detaches the current photo.
//	@Tags			Posts
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int			true	"Post ID"
//	@Param			post	body		postRequest	true	"Post"
//	@Success		200		{object}	view.PostView
//	@Failure		400		{object}	errorResponse
//	@Failure		401		{object}	errorResponse
//	@Failure		403		{object}	errorResponse
//	@Failure		404		{object}	errorResponse	"Post or image not found"
//	@Failure		409		{object}	errorResponse
//	@Router			/posts/{id} [put]
func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request, idStr string) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}
	id, err := parseID(idStr, "post")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req postRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.UpdatePost(r.Context(), id, req.input()); err != nil {
		s.failMutation(w, r, err)
		return
	}
	s.writePost(w, r, id)
}

// handleDeletePost godoc
//
//	@Summary		Delete a post
//	@Description	Deletes the post with its comments and its photo, including the stored file.
//	@Tags			Posts
//	@Security		BearerAuth
//	@Param			id	path	int	true	"Post ID"
//	@Success		204
//	@Failure		401	{object}	errorResponse
//	@Failure		403	{object}	errorResponse
//	@Failure		404	{object}	errorResponse	"Post not found"
//	@Router			/posts/{id} [delete]
func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request, idStr string) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}
	id, err := parseID(idStr, "post")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	image, err := s.store.DeletePost(r.Context(), id)
	if err != nil {
		s.failMutation(w, r, err)
		return
	}
	if image != nil {
		s.removePhotoFile(r.Context(), image.Filename)
	}
	s.logger.Info("post deleted", "post_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writePost(w http.ResponseWriter, r *http.Request, id int64) {
	post, err := s.store.GetPost(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := view.NewPost(post, s.markdown)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// removePhotoFile deletes a stored file whose row is already gone. The row
// is authoritative, so a failure here is only logged.
func (s *Server) removePhotoFile(ctx context.Context, filename string) {
	if err := s.photos.Remove(filename); err != nil {
		s.logger.WarnContext(ctx, "photo file not removed", "filename", filename, "error", err)
	}
}

func (req postRequest) input() store.PostInput {
	return store.PostInput{
		Title:        req.Title,
		Body:         req.Body,
		Description:  req.Description,
		CategoryName: req.Category,
		ImageID:      req.ImageID,
	}
}
