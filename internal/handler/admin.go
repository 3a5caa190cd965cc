package handler

import (
	"net/http"

	"github.com/msomdec/blogpost/internal/service"
	"github.com/msomdec/blogpost/internal/view"
	"github.com/starfederation/datastar-go/datastar"
)

// AdminHandler serves user and post management for administrators.
type AdminHandler struct {
	admin *service.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// HandleUsers lists every account.
// GET /admin/users
func (h *AdminHandler) HandleUsers(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	users, err := h.admin.ListUsers(r.Context(), user)
	if err != nil {
		renderError(w, r, err, "list users")
		return
	}

	view.AdminUsersPage(user, users, popFlash(w, r)).Render(r.Context(), w)
}

// HandleDeleteUser deletes an account; its posts remain without an owner.
// Datastar requests get the table row removed over SSE.
// DELETE /admin/users/{id}
func (h *AdminHandler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.admin.DeleteUser(r.Context(), UserFromContext(r.Context()), id); err != nil {
		renderError(w, r, err, "delete user")
		return
	}

	if isDatastarRequest(r) {
		sse := datastar.NewSSE(w, r)
		sse.RemoveElementByID("user-row-" + itoa(id))
		return
	}
	setFlash(w, "User deleted successfully.")
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

// HandlePosts lists every post with its author.
// GET /admin/posts
func (h *AdminHandler) HandlePosts(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	posts, err := h.admin.ListPosts(r.Context(), user)
	if err != nil {
		renderError(w, r, err, "list posts")
		return
	}

	view.AdminPostsPage(user, posts, popFlash(w, r)).Render(r.Context(), w)
}

// HandleDeletePost deletes any post regardless of owner.
// DELETE /admin/posts/{id}
func (h *AdminHandler) HandleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.admin.DeletePost(r.Context(), UserFromContext(r.Context()), id); err != nil {
		renderError(w, r, err, "delete post")
		return
	}

	if isDatastarRequest(r) {
		sse := datastar.NewSSE(w, r)
		sse.RemoveElementByID("post-row-" + itoa(id))
		return
	}
	setFlash(w, "Post deleted successfully.")
	http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
}
