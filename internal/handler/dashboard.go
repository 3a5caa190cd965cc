package handler

import (
	"log/slog"
	"net/http"

	"github.com/msomdec/blogpost/internal/service"
	"github.com/msomdec/blogpost/internal/view"
	"github.com/starfederation/datastar-go/datastar"
)

// DashboardHandler serves the user and admin dashboards.
type DashboardHandler struct {
	posts *service.PostService
	admin *service.AdminService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(posts *service.PostService, admin *service.AdminService) *DashboardHandler {
	return &DashboardHandler{posts: posts, admin: admin}
}

// HandleDashboard renders the signed-in user's dashboard with their post count.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	count, err := h.posts.CountByUser(r.Context(), user.ID)
	if err != nil {
		slog.Error("count posts for dashboard", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view.DashboardPage(user, count).Render(r.Context(), w)
}

// HandleAdminDashboard renders the admin dashboard with site totals.
func (h *DashboardHandler) HandleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	stats, err := h.admin.Stats(r.Context(), user)
	if err != nil {
		renderError(w, r, err, "load admin stats")
		return
	}

	view.AdminDashboardPage(user, stats.TotalUsers, stats.TotalPosts).Render(r.Context(), w)
}

// HandleAdminStats streams fresh totals into the dashboard via SSE.
func (h *DashboardHandler) HandleAdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Stats(r.Context(), UserFromContext(r.Context()))
	if err != nil {
		renderError(w, r, err, "load admin stats")
		return
	}

	sse := datastar.NewSSE(w, r)
	sse.PatchElementTempl(view.StatsFragment(stats.TotalUsers, stats.TotalPosts))
}
