package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/msomdec/blogpost/internal/domain"
	"github.com/msomdec/blogpost/internal/policy"
	"github.com/msomdec/blogpost/internal/service"
	"github.com/msomdec/blogpost/internal/view"
	"github.com/starfederation/datastar-go/datastar"
)

// PostHandler serves the browser pages for a user's own posts.
type PostHandler struct {
	posts *service.PostService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(posts *service.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// HandleList renders the signed-in user's posts.
// GET /posts
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	page, err := h.posts.ListForUser(r.Context(), user.ID, queryInt(r, "page", 1), service.DefaultPerPage)
	if err != nil {
		renderError(w, r, err, "list posts")
		return
	}

	view.PostListPage(user, page, popFlash(w, r)).Render(r.Context(), w)
}

// HandleNew renders the post creation form.
// GET /posts/create
func (h *PostHandler) HandleNew(w http.ResponseWriter, r *http.Request) {
	view.PostFormPage(UserFromContext(r.Context()), nil, view.PostForm{}, nil).Render(r.Context(), w)
}

// HandleCreate stores a post owned by the signed-in user.
// POST /posts
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	in := service.PostInput{Title: r.PostFormValue("title"), Body: r.PostFormValue("body")}

	if _, err := h.posts.Create(r.Context(), user, in); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			view.PostFormPage(user, nil, view.PostForm{Title: in.Title, Body: in.Body}, verr.Fields).Render(r.Context(), w)
			return
		}
		renderError(w, r, err, "create post")
		return
	}

	setFlash(w, "Post created successfully!")
	http.Redirect(w, r, "/posts", http.StatusSeeOther)
}

// HandleShow renders a single post.
// GET /posts/{id}
func (h *PostHandler) HandleShow(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	post, err := h.posts.GetAuthorized(r.Context(), user, id, policy.ActionView)
	if err != nil {
		renderError(w, r, err, "get post")
		return
	}

	canEdit := policy.CanPost(user, policy.ActionUpdate, post)
	view.PostShowPage(user, post, canEdit, popFlash(w, r)).Render(r.Context(), w)
}

// HandleEdit renders the edit form for a post the user owns.
// GET /posts/{id}/edit
func (h *PostHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	post, err := h.posts.GetAuthorized(r.Context(), user, id, policy.ActionUpdate)
	if err != nil {
		renderError(w, r, err, "get post for edit")
		return
	}

	view.PostFormPage(user, post, view.PostForm{Title: post.Title, Body: post.Body}, nil).Render(r.Context(), w)
}

// HandleUpdate applies the submitted fields. A field missing from the form
// keeps its value; a submitted empty field fails validation.
// PUT /posts/{id}
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	patch := formPatch(r)

	post, err := h.posts.UpdateOwned(r.Context(), user, id, patch)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			h.renderEditWithErrors(w, r, user, id, patch, verr)
			return
		}
		renderError(w, r, err, "update post")
		return
	}

	setFlash(w, "Post updated successfully!")
	http.Redirect(w, r, "/posts/"+itoa(post.ID), http.StatusSeeOther)
}

// HandleDelete removes a post the user owns. Datastar requests are
// redirected over SSE.
// DELETE /posts/{id}
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.posts.DeleteOwned(r.Context(), user, id); err != nil {
		renderError(w, r, err, "delete post")
		return
	}

	setFlash(w, "Post deleted successfully!")
	if isDatastarRequest(r) {
		sse := datastar.NewSSE(w, r)
		sse.Redirect("/posts")
		return
	}
	http.Redirect(w, r, "/posts", http.StatusSeeOther)
}

func (h *PostHandler) renderEditWithErrors(w http.ResponseWriter, r *http.Request, user *domain.User, id int64, patch domain.PostPatch, verr *domain.ValidationError) {
	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		renderError(w, r, err, "get post for edit")
		return
	}

	form := view.PostForm{Title: post.Title, Body: post.Body}
	if patch.Title != nil {
		form.Title = *patch.Title
	}
	if patch.Body != nil {
		form.Body = *patch.Body
	}
	w.WriteHeader(http.StatusUnprocessableEntity)
	view.PostFormPage(user, post, form, verr.Fields).Render(r.Context(), w)
}

// formPatch builds a patch from the fields present in the parsed form.
func formPatch(r *http.Request) domain.PostPatch {
	var patch domain.PostPatch
	if v, ok := r.PostForm["title"]; ok && len(v) > 0 {
		patch.Title = &v[0]
	}
	if v, ok := r.PostForm["body"]; ok && len(v) > 0 {
		patch.Body = &v[0]
	}
	return patch
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
