package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"testing"
)

type postData struct {
	ID     int64  `json:"id"`
	UserID *int64 `json:"userId"`
	Author string `json:"author"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

func decodeData(t *testing.T, env apiEnvelope, dst any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func TestAPI_RegisterLoginLogout(t *testing.T) {
	app := newTestApp(t)

	resp, env := app.doJSON(t, http.MethodPost, "/api/register", "", map[string]string{
		"name":                  "Api User",
		"email":                 "api@example.com",
		"password":              "password123",
		"password_confirmation": "password123",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", resp.StatusCode)
	}
	var auth struct {
		User struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
		Token string `json:"token"`
	}
	decodeData(t, env, &auth)
	if !env.Success || auth.Token == "" || auth.User.Email != "api@example.com" || auth.User.Role != "user" {
		t.Fatalf("unexpected register payload: %+v", auth)
	}

	token := app.apiToken(t, "api@example.com")

	resp, env = app.doJSON(t, http.MethodGet, "/api/user", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("user: expected 200, got %d", resp.StatusCode)
	}
	var me struct {
		Name string `json:"name"`
	}
	decodeData(t, env, &me)
	if me.Name != "Api User" {
		t.Fatalf("expected name Api User, got %q", me.Name)
	}

	resp, env = app.doJSON(t, http.MethodPost, "/api/logout", token, nil)
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("logout: expected 200, got %d %+v", resp.StatusCode, env)
	}

	resp, env = app.doJSON(t, http.MethodGet, "/api/user", token, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("revoked token: expected 401, got %d", resp.StatusCode)
	}
	if env.Success || env.Message != "Unauthenticated." {
		t.Fatalf("unexpected envelope: %+v", env)
	}

	// The token from registration is still live.
	resp, _ = app.doJSON(t, http.MethodGet, "/api/user", auth.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register token: expected 200, got %d", resp.StatusCode)
	}
}

func TestAPI_RegisterValidation(t *testing.T) {
	app := newTestApp(t)

	resp, env := app.doJSON(t, http.MethodPost, "/api/register", "", map[string]string{
		"name":  "",
		"email": "not-an-email",
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if env.Success || env.Message != "The given data was invalid." {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	for _, field := range []string{"name", "email", "password"} {
		if env.Errors[field] == "" {
			t.Errorf("expected an error for %s", field)
		}
	}
}

func TestAPI_RegisterPasswordTooLong(t *testing.T) {
	app := newTestApp(t)
	pw := strings.Repeat("a", 80)

	resp, env := app.doJSON(t, http.MethodPost, "/api/register", "", map[string]string{
		"name": "Long", "email": "long@example.com", "password": pw, "password_confirmation": pw,
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if env.Errors["password"] != "The password field must not be greater than 72 bytes." {
		t.Fatalf("unexpected password error %q", env.Errors["password"])
	}
}

func TestAPI_LoginInvalidCredentials(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "Alice", "alice@example.com")

	resp, env := app.doJSON(t, http.MethodPost, "/api/login", "", map[string]string{
		"email": "alice@example.com", "password": "nope",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if env.Message != "Invalid credentials." {
		t.Fatalf("unexpected message %q", env.Message)
	}
}

func TestAPI_PublicPostsPagination(t *testing.T) {
	app := newTestApp(t)
	alice := app.createUser(t, "Alice", "alice@example.com")
	for i := range 5 {
		app.createPost(t, alice, "Post "+strconv.Itoa(i))
	}

	resp, env := app.doJSON(t, http.MethodGet, "/api/public/posts?page=2&per_page=2", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var page struct {
		CurrentPage int        `json:"currentPage"`
		PerPage     int        `json:"perPage"`
		Total       int        `json:"total"`
		LastPage    int        `json:"lastPage"`
		Data        []postData `json:"data"`
	}
	decodeData(t, env, &page)
	if page.CurrentPage != 2 || page.PerPage != 2 || page.Total != 5 || page.LastPage != 3 {
		t.Fatalf("unexpected page meta: %+v", page)
	}
	if len(page.Data) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(page.Data))
	}
	if page.Data[0].Author != "Alice" {
		t.Fatalf("expected author Alice, got %q", page.Data[0].Author)
	}

	resp, env = app.doJSON(t, http.MethodGet, "/api/public/posts/"+strconv.FormatInt(page.Data[0].ID, 10), "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("public show: expected 200, got %d", resp.StatusCode)
	}

	resp, env = app.doJSON(t, http.MethodGet, "/api/public/posts/9999", "", nil)
	if resp.StatusCode != http.StatusNotFound || env.Message != "Resource not found." {
		t.Fatalf("missing post: expected 404, got %d %+v", resp.StatusCode, env)
	}
}

func TestAPI_PostCRUD(t *testing.T) {
	app := newTestApp(t)
	alice := app.createUser(t, "Alice", "alice@example.com")
	token := app.apiToken(t, "alice@example.com")

	resp, env := app.doJSON(t, http.MethodPost, "/api/posts", token, map[string]string{"title": "", "body": ""})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("empty create: expected 422, got %d", resp.StatusCode)
	}
	if env.Errors["title"] == "" || env.Errors["body"] == "" {
		t.Fatalf("expected title and body errors, got %+v", env.Errors)
	}

	resp, env = app.doJSON(t, http.MethodPost, "/api/posts", token, map[string]string{"title": "API post", "body": "Original body"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", resp.StatusCode)
	}
	var created postData
	decodeData(t, env, &created)
	if created.UserID == nil || *created.UserID != alice.ID {
		t.Fatalf("expected owner %d, got %v", alice.ID, created.UserID)
	}
	path := "/api/posts/" + strconv.FormatInt(created.ID, 10)

	// Only the title is sent; the body is kept.
	resp, env = app.doJSON(t, http.MethodPut, path, token, map[string]string{"title": "Renamed"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", resp.StatusCode)
	}
	var updated postData
	decodeData(t, env, &updated)
	if updated.Title != "Renamed" || updated.Body != "Original body" {
		t.Fatalf("unexpected post after update: %+v", updated)
	}

	// An empty object changes nothing.
	resp, env = app.doJSON(t, http.MethodPut, path, token, map[string]string{})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("empty update: expected 200, got %d", resp.StatusCode)
	}
	decodeData(t, env, &updated)
	if updated.Title != "Renamed" || updated.Body != "Original body" {
		t.Fatalf("empty update changed the post: %+v", updated)
	}

	resp, _ = app.doJSON(t, http.MethodPut, path, token, map[string]string{"title": ""})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("blank title: expected 422, got %d", resp.StatusCode)
	}

	resp, env = app.doJSON(t, http.MethodGet, "/api/posts", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", resp.StatusCode)
	}
	var list struct {
		Total int `json:"total"`
	}
	decodeData(t, env, &list)
	if list.Total != 1 {
		t.Fatalf("expected 1 post, got %d", list.Total)
	}

	resp, env = app.doJSON(t, http.MethodDelete, path, token, nil)
	if resp.StatusCode != http.StatusOK || env.Message != "Post deleted successfully" {
		t.Fatalf("delete: expected 200, got %d %+v", resp.StatusCode, env)
	}

	resp, _ = app.doJSON(t, http.MethodGet, path, token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("deleted post: expected 404, got %d", resp.StatusCode)
	}
}

func TestAPI_NonOwnerCannotModify(t *testing.T) {
	app := newTestApp(t)
	alice := app.createUser(t, "Alice", "alice@example.com")
	app.createUser(t, "Bob", "bob@example.com")
	post := app.createPost(t, alice, "Alice's post")
	bobToken := app.apiToken(t, "bob@example.com")
	path := "/api/posts/" + strconv.FormatInt(post.ID, 10)

	resp, env := app.doJSON(t, http.MethodPut, path, bobToken, map[string]string{"title": "Hacked!"})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("update: expected 403, got %d", resp.StatusCode)
	}
	if env.Success {
		t.Fatal("expected success=false")
	}

	resp, _ = app.doJSON(t, http.MethodDelete, path, bobToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("delete: expected 403, got %d", resp.StatusCode)
	}

	got, err := app.posts.Get(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("post should still exist: %v", err)
	}
	if got.Title != "Alice's post" {
		t.Fatalf("title changed to %q", got.Title)
	}

	// Bob's list does not include Alice's post.
	_, env = app.doJSON(t, http.MethodGet, "/api/posts", bobToken, nil)
	var list struct {
		Total int `json:"total"`
	}
	decodeData(t, env, &list)
	if list.Total != 0 {
		t.Fatalf("expected empty list for bob, got %d", list.Total)
	}
}

func TestAPI_WebSessionTokenRejected(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "Alice", "alice@example.com")

	_, session, err := app.auth.Login(context.Background(), "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	resp, _ := app.doJSON(t, http.MethodGet, "/api/user", session, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a browser session token, got %d", resp.StatusCode)
	}
}
