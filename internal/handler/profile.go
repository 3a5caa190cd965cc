package handler

import (
	"errors"
	"net/http"

	"github.com/msomdec/blogpost/internal/domain"
	"github.com/msomdec/blogpost/internal/service"
	"github.com/msomdec/blogpost/internal/view"
)

// ProfileHandler serves the profile pages. The same handler backs the user
// area (/profile) and the admin area (/admin/profile).
type ProfileHandler struct {
	profiles *service.ProfileService
	basePath string // form targets live here
	editPath string // where to land after a successful update
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles *service.ProfileService, basePath, editPath string) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, basePath: basePath, editPath: editPath}
}

// HandleEdit renders the profile and password forms.
func (h *ProfileHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	form := view.ProfileForm{Name: user.Name, Email: user.Email}
	view.ProfilePage(user, h.basePath, form, nil, popFlash(w, r)).Render(r.Context(), w)
}

// HandleUpdate saves the name and email.
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	in := service.ProfileInput{Name: r.PostFormValue("name"), Email: r.PostFormValue("email")}

	if _, err := h.profiles.UpdateProfile(r.Context(), user, in); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			view.ProfilePage(user, h.basePath, view.ProfileForm{Name: in.Name, Email: in.Email}, verr.Fields, "").Render(r.Context(), w)
			return
		}
		renderError(w, r, err, "update profile")
		return
	}

	setFlash(w, "Profile updated successfully!")
	http.Redirect(w, r, h.editPath, http.StatusSeeOther)
}

// HandleUpdatePassword changes the password after checking the current one.
func (h *ProfileHandler) HandleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	in := service.PasswordInput{
		Current:      r.PostFormValue("current_password"),
		New:          r.PostFormValue("password"),
		Confirmation: r.PostFormValue("password_confirmation"),
	}

	if err := h.profiles.UpdatePassword(r.Context(), user, in); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			view.ProfilePage(user, h.basePath, view.ProfileForm{Name: user.Name, Email: user.Email}, verr.Fields, "").Render(r.Context(), w)
			return
		}
		renderError(w, r, err, "update password")
		return
	}

	setFlash(w, "Password updated successfully!")
	http.Redirect(w, r, h.editPath, http.StatusSeeOther)
}
