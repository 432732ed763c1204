package httpapp

import (
	"net/http"

	"github.com/alphabot-ai/quill/internal/view"
)

// handleListCategories godoc
//
//	@Summary		List categories
//	@Description	Every category with the number of posts filed under it.
//	@Tags			Posts
//	@Produce		json
//	@Success		200	{array}	view.CategoryView
//	@Router			/categories [get]
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view.NewCategories(categories))
}
