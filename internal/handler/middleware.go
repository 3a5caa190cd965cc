package handler

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/msomdec/blogpost/internal/domain"
	"github.com/msomdec/blogpost/internal/policy"
	"github.com/msomdec/blogpost/internal/service"
	"github.com/msomdec/blogpost/internal/view"
	"github.com/starfederation/datastar-go/datastar"
)

type contextKey string

const (
	userContextKey     contextKey = "user"
	apiTokenContextKey contextKey = "api_token"

	authCookieName = "auth_token"
)

// UserFromContext extracts the authenticated user from the request context.
// Returns nil if no user is authenticated.
func UserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userContextKey).(*domain.User)
	return user
}

func apiTokenIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(apiTokenContextKey).(string)
	return id
}

// RequireAuth protects browser routes. It reads the auth_token cookie,
// validates the JWT, loads the user and injects it into the request
// context. Guests are sent to the login page.
func RequireAuth(auth *service.AuthService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := authenticateRequest(r, auth)
		if err != nil {
			redirectToLogin(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin is RequireAuth plus the admin role check. Authenticated
// non-admins get 403, never a redirect.
func RequireAdmin(auth *service.AuthService, next http.Handler) http.Handler {
	return RequireAuth(auth, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := policy.AuthorizeAdmin(UserFromContext(r.Context())); err != nil {
			slog.Warn("admin area denied", "path", r.URL.Path, "error", err)
			renderError(w, r, err, "")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// OptionalAuth is middleware that attempts to authenticate but does not block
// unauthenticated requests. If a valid token is present, the user is injected
// into context; otherwise the request proceeds without a user.
func OptionalAuth(auth *service.AuthService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := authenticateRequest(r, auth)
		if err == nil && user != nil {
			ctx := context.WithValue(r.Context(), userContextKey, user)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireToken protects JSON API routes with an "Authorization: Bearer"
// token. Failures get a 401 JSON body.
func RequireToken(auth *service.AuthService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeMessage(w, http.StatusUnauthorized, false, "Unauthenticated.")
			return
		}

		user, tokenID, err := auth.AuthenticateAPIToken(r.Context(), token)
		if err != nil {
			if !errors.Is(err, domain.ErrUnauthorized) {
				slog.Error("authenticate api token", "error", err)
			}
			writeMessage(w, http.StatusUnauthorized, false, "Unauthenticated.")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		ctx = context.WithValue(ctx, apiTokenContextKey, tokenID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func authenticateRequest(r *http.Request, auth *service.AuthService) (*domain.User, error) {
	cookie, err := r.Cookie(authCookieName)
	if err != nil {
		return nil, err
	}

	userID, err := auth.ValidateToken(cookie.Value)
	if err != nil {
		return nil, err
	}

	user, err := auth.GetUserByID(r.Context(), userID)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	if isDatastarRequest(r) {
		sse := datastar.NewSSE(w, r)
		sse.Redirect("/login")
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

func isDatastarRequest(r *http.Request) bool {
	return r.Header.Get("Datastar-Request") == "true"
}

// MethodOverride lets HTML forms reach PUT and DELETE routes by posting a
// "_method" field. Only urlencoded bodies are inspected.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
			r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
			if err := r.ParseForm(); err == nil {
				switch m := strings.ToUpper(r.PostForm.Get("_method")); m {
				case http.MethodPut, http.MethodPatch, http.MethodDelete:
					r.Method = m
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

// SecurityHeaders sets conservative browser security headers on every
// response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy",
			"default-src 'self'; script-src 'self' 'unsafe-eval' https://cdn.jsdelivr.net; style-src 'self' 'unsafe-inline'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

// RateLimit throttles requests per client IP with a token bucket and
// answers 429 with a Retry-After header when the bucket is empty.
func RateLimit(limiter *service.TokenBucket, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r)
		if limiter.Allow(key) {
			next.ServeHTTP(w, r)
			return
		}

		wait := max(int(math.Ceil(limiter.RetryAfter(key).Seconds())), 1)
		w.Header().Set("Retry-After", strconv.Itoa(wait))
		slog.Warn("rate limited", "path", r.URL.Path, "ip", key)

		if isAPIRequest(r) {
			writeMessage(w, http.StatusTooManyRequests, false, "Too many attempts. Please try again later.")
			return
		}
		w.WriteHeader(http.StatusTooManyRequests)
		view.ErrorPage(http.StatusTooManyRequests, "Too Many Requests", "Too many attempts. Please try again later.").Render(r.Context(), w)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func isAPIRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}
