package httpapp

import (
	"net/http"
	"time"

	"github.com/alphabot-ai/quill/internal/model"
	"github.com/alphabot-ai/quill/internal/view"
)

// handleListComments godoc
//
//	@Summary		List comments
//	@Description	Comments on a post, oldest first.
//	@Tags			Comments
//	@Produce		json
//	@Param			postId	path		int	true	"Post ID"
//	@Success		200		{array}		view.CommentView
//	@Failure		404		{object}	errorResponse	"Post not found"
//	@Router			/comments/{postId} [get]
func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request, postIDStr string) {
	postID, err := parseID(postIDStr, "post")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	comments, err := s.store.ListCommentsByPost(r.Context(), postID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view.NewComments(comments))
}

// handleAddComment godoc
//
//	@Summary		Add a comment
//	@Description	Any signed-in user can comment. The caller is the author.
//	@Tags			Comments
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			postId	path		int				true	"Post ID"
//	@Param			comment	body		commentRequest	true	"Comment"
//	@Success		200		{object}	view.CommentView
//	@Failure		400		{object}	errorResponse
//	@Failure		401		{object}	errorResponse
//	@Failure		404		{object}	errorResponse	"Post not found"
//	@Failure		429		{object}	errorResponse
//	@Router			/comments/{postId} [post]
func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request, postIDStr string) {
	p, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	if !s.allowRateLimit(w, r, "comment", s.cfg.RateLimits.CommentPerMinute) {
		return
	}
	postID, err := parseID(postIDStr, "post")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req commentRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	id, err := s.store.CreateComment(r.Context(), &model.Comment{
		Body:      req.Body,
		AuthorID:  p.User.ID,
		PostID:    postID,
		CreatedAt: time.Now(),
	})
	if err != nil {
		s.failMutation(w, r, err)
		return
	}
	comment, err := s.store.GetComment(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view.NewComment(comment))
}
