package view

import (
	"strconv"
	"strings"
	"time"

	"github.com/msomdec/blogpost/internal/domain"
)

const (
	// Home page cards.
	excerptLength  = 200
	cardDateFormat = "Jan 02, 2006"
	// Tables in the dashboards and admin area.
	tableDateFormat = "2006-01-02 15:04"
	listDateFormat  = "Jan 2, 2006 15:04"
	longDateFormat  = "January 2, 2006"
	showDateFormat  = "January 2, 2006 at 15:04"
)

// Page carries what every layout needs: the title, the signed-in user (nil
// for guests) and a one-shot flash message.
type Page struct {
	Title string
	User  *domain.User
	Flash string
}

// RegisterForm holds the values echoed back after a failed registration.
type RegisterForm struct {
	Name  string
	Email string
}

// PostForm holds the values shown in the create and edit forms.
type PostForm struct {
	Title string
	Body  string
}

// ProfileForm holds the values shown in the profile form.
type ProfileForm struct {
	Name  string
	Email string
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func formatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}

// excerpt shortens s to n runes, appending an ellipsis when cut.
func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func bodyLines(body string) []string {
	return strings.Split(body, "\n")
}

func pageURL(base string, page int) string {
	return base + "?page=" + strconv.Itoa(page)
}

// deleteAction asks for confirmation, then sends the DELETE through datastar.
func deleteAction(action string) string {
	return "confirm('Are you sure?') && @delete('" + action + "')"
}

func dashboardPath(user *domain.User) string {
	if user.IsAdmin() {
		return "/admin/dashboard"
	}
	return "/dashboard"
}

func postFormTitle(post *domain.Post) string {
	if post != nil {
		return "Edit Post"
	}
	return "Create New Post"
}

func postFormAction(post *domain.Post) string {
	if post != nil {
		return "/posts/" + itoa(post.ID)
	}
	return "/posts"
}

func postFormSubmit(post *domain.Post) string {
	if post != nil {
		return "Update Post"
	}
	return "Create Post"
}
