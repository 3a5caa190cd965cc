package handler

import (
	"net/http"

	"github.com/msomdec/blogpost/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(
	mux *http.ServeMux,
	auth *service.AuthService,
	posts *service.PostService,
	profiles *service.ProfileService,
	admin *service.AdminService,
	limiter *service.TokenBucket,
	db Pinger,
	cookieSecure bool,
) {
	authHandler := NewAuthHandler(auth, cookieSecure)
	apiAuthHandler := NewAPIAuthHandler(auth)
	homeHandler := NewHomeHandler(posts)
	dashboardHandler := NewDashboardHandler(posts, admin)
	postHandler := NewPostHandler(posts)
	apiPostHandler := NewAPIPostHandler(posts)
	profileHandler := NewProfileHandler(profiles, "/profile", "/profile/edit")
	adminProfileHandler := NewProfileHandler(profiles, "/admin/profile", "/admin/profile")
	adminHandler := NewAdminHandler(admin)

	optional := func(h http.HandlerFunc) http.Handler { return OptionalAuth(auth, h) }
	user := func(h http.HandlerFunc) http.Handler { return RequireAuth(auth, h) }
	adminOnly := func(h http.HandlerFunc) http.Handler { return RequireAdmin(auth, h) }
	token := func(h http.HandlerFunc) http.Handler { return RequireToken(auth, h) }
	limited := func(h http.HandlerFunc) http.Handler { return RateLimit(limiter, h) }

	mux.HandleFunc("GET /healthz", NewHealthHandler(db).HandleHealthz)
	mux.Handle("GET /{$}", optional(homeHandler.HandleHome))

	// Authentication.
	mux.Handle("GET /login", optional(authHandler.HandleLoginPage))
	mux.Handle("POST /login", limited(authHandler.HandleLogin))
	mux.Handle("GET /register", optional(authHandler.HandleRegisterPage))
	mux.Handle("POST /register", limited(authHandler.HandleRegister))
	mux.HandleFunc("POST /logout", authHandler.HandleLogout)

	// User area.
	mux.Handle("GET /dashboard", user(dashboardHandler.HandleDashboard))
	mux.Handle("GET /posts", user(postHandler.HandleList))
	mux.Handle("POST /posts", user(postHandler.HandleCreate))
	mux.Handle("GET /posts/create", user(postHandler.HandleNew))
	mux.Handle("GET /posts/{id}", user(postHandler.HandleShow))
	mux.Handle("GET /posts/{id}/edit", user(postHandler.HandleEdit))
	mux.Handle("PUT /posts/{id}", user(postHandler.HandleUpdate))
	mux.Handle("DELETE /posts/{id}", user(postHandler.HandleDelete))
	mux.Handle("GET /profile/edit", user(profileHandler.HandleEdit))
	mux.Handle("PUT /profile", user(profileHandler.HandleUpdate))
	mux.Handle("PUT /profile/password", user(profileHandler.HandleUpdatePassword))

	// Admin area.
	mux.Handle("GET /admin/dashboard", adminOnly(dashboardHandler.HandleAdminDashboard))
	mux.Handle("GET /admin/dashboard/stats", adminOnly(dashboardHandler.HandleAdminStats))
	mux.Handle("GET /admin/users", adminOnly(adminHandler.HandleUsers))
	mux.Handle("DELETE /admin/users/{id}", adminOnly(adminHandler.HandleDeleteUser))
	mux.Handle("GET /admin/posts", adminOnly(adminHandler.HandlePosts))
	mux.Handle("DELETE /admin/posts/{id}", adminOnly(adminHandler.HandleDeletePost))
	mux.Handle("GET /admin/profile", adminOnly(adminProfileHandler.HandleEdit))
	mux.Handle("PUT /admin/profile", adminOnly(adminProfileHandler.HandleUpdate))
	mux.Handle("PUT /admin/profile/password", adminOnly(adminProfileHandler.HandleUpdatePassword))

	// JSON API.
	mux.HandleFunc("GET /api/public/posts", apiPostHandler.HandlePublicList)
	mux.HandleFunc("GET /api/public/posts/{id}", apiPostHandler.HandlePublicShow)
	mux.Handle("POST /api/register", limited(apiAuthHandler.HandleRegister))
	mux.Handle("POST /api/login", limited(apiAuthHandler.HandleLogin))
	mux.Handle("GET /api/user", token(apiAuthHandler.HandleUser))
	mux.Handle("POST /api/logout", token(apiAuthHandler.HandleLogout))
	mux.Handle("GET /api/posts", token(apiPostHandler.HandleList))
	mux.Handle("POST /api/posts", token(apiPostHandler.HandleCreate))
	mux.Handle("GET /api/posts/{id}", token(apiPostHandler.HandleShow))
	mux.Handle("PUT /api/posts/{id}", token(apiPostHandler.HandleUpdate))
	mux.Handle("DELETE /api/posts/{id}", token(apiPostHandler.HandleDelete))
}

// NewRouter wraps the mux with the middleware every request passes
// through: security headers, cross-origin write protection and the
// _method override for HTML forms.
func NewRouter(mux *http.ServeMux) http.Handler {
	return SecurityHeaders(http.NewCrossOriginProtection().Handler(MethodOverride(mux)))
}
