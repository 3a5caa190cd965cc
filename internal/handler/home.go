package handler

import (
	"log/slog"
	"net/http"

	"github.com/msomdec/blogpost/internal/service"
	"github.com/msomdec/blogpost/internal/view"
)

const homePageSize = 10

// HomeHandler serves the public landing page.
type HomeHandler struct {
	posts *service.PostService
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(posts *service.PostService) *HomeHandler {
	return &HomeHandler{posts: posts}
}

// HandleHome renders the latest posts, orphaned ones included.
func (h *HomeHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	page, err := h.posts.ListPublic(r.Context(), queryInt(r, "page", 1), homePageSize)
	if err != nil {
		slog.Error("list public posts", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view.HomePage(UserFromContext(r.Context()), page).Render(r.Context(), w)
}
