package httpapp

import (
	"net/http"
	"strconv"

	"github.com/alphabot-ai/quill/internal/view"
)

// handleArchiveMonths godoc
//
//	@Summary		Archive months
//	@Description	Post counts per month of creation, latest month first.
//	@Tags			Archive
//	@Produce		json
//	@Success		200	{array}	view.ArchiveMonthView
//	@Router			/archive [get]
func (s *Server) handleArchiveMonths(w http.ResponseWriter, r *http.Request) {
	months, err := s.store.ListArchiveMonths(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view.NewArchiveMonths(months))
}

// handleArchivePosts godoc
//
//	@Summary		Posts in a month
//	@Tags			Archive
//	@Produce		json
//	@Param			year	path		int	true	"Year"
//	@Param			month	path		int	true	"Month (1-12)"
//	@Success		200		{array}		view.ArchivePostView
//	@Failure		400		{object}	errorResponse	"Invalid year or month"
//	@Router			/archives/{year}/{month} [get]
func (s *Server) handleArchivePosts(w http.ResponseWriter, r *http.Request, yearStr, monthStr string) {
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 1 || year > 9999 {
		s.fail(w, r, validationErrorf("invalid year %q", yearStr))
		return
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		s.fail(w, r, validationErrorf("invalid month %q", monthStr))
		return
	}
	posts, err := s.store.ListPostsInMonth(r.Context(), year, month)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view.NewArchivePosts(posts))
}
