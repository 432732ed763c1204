package httpapp

import (
	"net/http"

	"github.com/alphabot-ai/quill/internal/view"
)

// handleRegister godoc
//
//	@Summary		Register
//	@Description	Create a reader account. Emails are unique, compared case-insensitively.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			user	body		registerRequest	true	"New account"
//	@Success		200		{object}	view.RegisteredView
//	@Failure		400		{object}	errorResponse	"Missing or malformed field"
//	@Failure		409		{object}	errorResponse	"Email already registered"
//	@Router			/users [post]
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !s.allowRateLimit(w, r, "register", s.cfg.RateLimits.RegisterPerMinute) {
		return
	}
	var req registerRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.failMutation(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view.NewRegistered(p))
}

// handleListUsers godoc
//
//	@Summary		List users
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	view.UserListView
//	@Failure		401	{object}	errorResponse
//	@Failure		403	{object}	errorResponse	"Admin role required"
//	@Router			/users [get]
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}
	users, total, err := s.store.ListUsers(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view.NewUserList(users, total))
}
