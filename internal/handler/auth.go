package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/blogpost/internal/domain"
	"github.com/msomdec/blogpost/internal/service"
	"github.com/msomdec/blogpost/internal/view"
)

// AuthHandler serves the browser login, registration and logout flows.
type AuthHandler struct {
	auth         *service.AuthService
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: auth, cookieSecure: cookieSecure}
}

// HandleLoginPage renders the login form. Signed-in users go straight to
// their dashboard.
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if user := UserFromContext(r.Context()); user != nil {
		http.Redirect(w, r, dashboardPath(user), http.StatusSeeOther)
		return
	}
	view.LoginPage("", "", popFlash(w, r)).Render(r.Context(), w)
}

// HandleLogin verifies the form credentials and sets the session cookie.
// POST /login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	email := r.PostFormValue("email")

	user, token, err := h.auth.Login(r.Context(), email, r.PostFormValue("password"))
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			w.WriteHeader(http.StatusUnauthorized)
			view.LoginPage(email, "These credentials do not match our records.", "").Render(r.Context(), w)
			return
		}
		slog.Error("login user", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400, // 24 hours
	})
	slog.Info("user logged in", "user_id", user.ID)

	http.Redirect(w, r, dashboardPath(user), http.StatusSeeOther)
}

// HandleRegisterPage renders the registration form.
func (h *AuthHandler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	if user := UserFromContext(r.Context()); user != nil {
		http.Redirect(w, r, dashboardPath(user), http.StatusSeeOther)
		return
	}
	view.RegisterPage(view.RegisterForm{}, nil).Render(r.Context(), w)
}

// HandleRegister creates an account and sends the user to the login page.
// POST /register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	in := service.RegisterInput{
		Name:                 r.PostFormValue("name"),
		Email:                r.PostFormValue("email"),
		Password:             r.PostFormValue("password"),
		PasswordConfirmation: r.PostFormValue("password_confirmation"),
	}

	user, err := h.auth.Register(r.Context(), in)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			view.RegisterPage(view.RegisterForm{Name: in.Name, Email: in.Email}, verr.Fields).Render(r.Context(), w)
			return
		}
		slog.Error("register user", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	slog.Info("user registered", "user_id", user.ID)

	setFlash(w, "Registration successful! Please log in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// HandleLogout clears the session cookie.
// POST /logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func dashboardPath(user *domain.User) string {
	if user.IsAdmin() {
		return "/admin/dashboard"
	}
	return "/dashboard"
}
