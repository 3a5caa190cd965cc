package handler

import (
	"net/http"

	"github.com/msomdec/blogpost/internal/domain"
	"github.com/msomdec/blogpost/internal/policy"
	"github.com/msomdec/blogpost/internal/service"
)

// APIPostHandler serves posts over the JSON API.
type APIPostHandler struct {
	posts *service.PostService
}

// NewAPIPostHandler creates a new APIPostHandler.
func NewAPIPostHandler(posts *service.PostService) *APIPostHandler {
	return &APIPostHandler{posts: posts}
}

// postRequest distinguishes an omitted field (nil) from an empty one.
type postRequest struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

// HandlePublicList returns one page of every post.
// GET /api/public/posts?page=&per_page=
func (h *APIPostHandler) HandlePublicList(w http.ResponseWriter, r *http.Request) {
	page, err := h.posts.ListPublic(r.Context(), queryInt(r, "page", 1), queryInt(r, "per_page", service.DefaultPerPage))
	if err != nil {
		apiError(w, err, "api list public posts")
		return
	}
	writeData(w, http.StatusOK, toPostPageDTO(page))
}

// HandlePublicShow returns any post with its author name.
// GET /api/public/posts/{id}
func (h *APIPostHandler) HandlePublicShow(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		apiError(w, err, "api get public post")
		return
	}
	writeData(w, http.StatusOK, toPostDTO(post))
}

// HandleList returns one page of the caller's posts.
// GET /api/posts?page=&per_page=
func (h *APIPostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	page, err := h.posts.ListForUser(r.Context(), user.ID, queryInt(r, "page", 1), queryInt(r, "per_page", service.DefaultPerPage))
	if err != nil {
		apiError(w, err, "api list posts")
		return
	}
	writeData(w, http.StatusOK, toPostPageDTO(page))
}

// HandleCreate stores a post owned by the caller.
// POST /api/posts
// Request:  {"title":"...","body":"..."}
// Response: 201 {"success":true,"data":{...}}
func (h *APIPostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := readJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Invalid request body.")
		return
	}

	var in service.PostInput
	if req.Title != nil {
		in.Title = *req.Title
	}
	if req.Body != nil {
		in.Body = *req.Body
	}

	post, err := h.posts.Create(r.Context(), UserFromContext(r.Context()), in)
	if err != nil {
		apiError(w, err, "api create post")
		return
	}
	writeData(w, http.StatusCreated, toPostDTO(post))
}

// HandleShow returns a post the caller may view.
// GET /api/posts/{id}
func (h *APIPostHandler) HandleShow(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	post, err := h.posts.GetAuthorized(r.Context(), UserFromContext(r.Context()), id, policy.ActionView)
	if err != nil {
		apiError(w, err, "api get post")
		return
	}
	writeData(w, http.StatusOK, toPostDTO(post))
}

// HandleUpdate applies a partial update to a post the caller owns.
// PUT /api/posts/{id}
// Request:  {"title":"..."} and/or {"body":"..."}; omitted or null fields are kept
func (h *APIPostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req postRequest
	if err := readJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Invalid request body.")
		return
	}

	post, err := h.posts.UpdateOwned(r.Context(), UserFromContext(r.Context()), id, domain.PostPatch{Title: req.Title, Body: req.Body})
	if err != nil {
		apiError(w, err, "api update post")
		return
	}
	writeData(w, http.StatusOK, toPostDTO(post))
}

// HandleDelete removes a post the caller owns.
// DELETE /api/posts/{id}
func (h *APIPostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.posts.DeleteOwned(r.Context(), UserFromContext(r.Context()), id); err != nil {
		apiError(w, err, "api delete post")
		return
	}
	writeMessage(w, http.StatusOK, true, "Post deleted successfully")
}
