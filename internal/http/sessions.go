package httpapp

import (
	"errors"
	"net/http"

	"github.com/alphabot-ai/quill/internal/auth"
	"github.com/alphabot-ai/quill/internal/view"
)

// handleLogin godoc
//
//	@Summary		Log in
//	@Description	Check an email and password and start a session. The returned token goes in the Authorization header of later requests.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		loginRequest		true	"Email and password"
//	@Success		200			{object}	view.SessionView
//	@Failure		400			{object}	errorResponse	"Missing or malformed field"
//	@Failure		401			{object}	errorResponse	"Wrong password"
//	@Failure		404			{object}	errorResponse	"Unknown email"
//	@Failure		429			{object}	errorResponse	"Too many attempts"
//	@Router			/sessions [post]
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.allowRateLimit(w, r, "login", s.cfg.RateLimits.LoginPerMinute) {
		return
	}
	var req loginRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	login, err := s.auth.Login(r.Context(), req.Email, req.Password, s.clientIP(r))
	if err != nil {
		if errors.Is(err, auth.ErrSessionNotStarted) {
			s.failMutation(w, r, err)
			return
		}
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view.NewSession(login))
}

// handleLogout godoc
//
//	@Summary		Log out
//	@Description	End the session behind the bearer token. The token stops working immediately.
//	@Tags			Sessions
//	@Security		BearerAuth
//	@Success		204
//	@Failure		401	{object}	errorResponse	"Missing or invalid token"
//	@Router			/sessions [delete]
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, kindUnauthenticated, "missing bearer token")
		return
	}
	if err := s.auth.Logout(r.Context(), token); err != nil {
		s.failMutation(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
