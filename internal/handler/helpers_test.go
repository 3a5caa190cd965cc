package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/msomdec/blogpost/internal/domain"
	"github.com/msomdec/blogpost/internal/handler"
	"github.com/msomdec/blogpost/internal/repository/sqlite"
	"github.com/msomdec/blogpost/internal/service"
)

const testJWTSecret = "test-secret-for-handler-tests-0123456789"

type testApp struct {
	srv      *httptest.Server
	db       *sqlite.DB
	auth     *service.AuthService
	posts    *service.PostService
	profiles *service.ProfileService
	admin    *service.AdminService
}

func newTestServices(t *testing.T) *testApp {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	hasher := service.NewBcryptHasher(4)
	return &testApp{
		db:       db,
		auth:     service.NewAuthService(db.Users(), db.Tokens(), hasher, testJWTSecret),
		posts:    service.NewPostService(db.Posts()),
		profiles: service.NewProfileService(db.Users(), hasher),
		admin:    service.NewAdminService(db.Users(), db.Posts()),
	}
}

// newTestApp starts an httptest server with the full router.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	app := newTestServices(t)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, app.auth, app.posts, app.profiles, app.admin,
		service.NewTokenBucket(100, 100), app.db.SqlDB, false)

	app.srv = httptest.NewServer(handler.NewRouter(mux))
	t.Cleanup(app.srv.Close)
	return app
}

// newClient returns a client with its own cookie jar that does not follow
// redirects.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("create cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse // don't follow redirects automatically
		},
	}
}

func (a *testApp) createUser(t *testing.T, name, email string) *domain.User {
	t.Helper()
	u, err := a.auth.Register(context.Background(), service.RegisterInput{
		Name: name, Email: email, Password: "password123", PasswordConfirmation: "password123",
	})
	if err != nil {
		t.Fatalf("Register %s: %v", email, err)
	}
	return u
}

func (a *testApp) createAdmin(t *testing.T) *domain.User {
	t.Helper()
	ctx := context.Background()
	if err := a.auth.EnsureAdmin(ctx, "Admin", "admin@example.com", "password123"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	u, err := a.db.Users().GetByEmail(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("get admin: %v", err)
	}
	return u
}

func (a *testApp) createPost(t *testing.T, owner *domain.User, title string) *domain.Post {
	t.Helper()
	p, err := a.posts.Create(context.Background(), owner, service.PostInput{Title: title, Body: title + " body"})
	if err != nil {
		t.Fatalf("Create post: %v", err)
	}
	return p
}

// loginAs signs client in through the login form.
func (a *testApp) loginAs(t *testing.T, client *http.Client, email string) {
	t.Helper()
	resp, err := client.PostForm(a.srv.URL+"/login", url.Values{
		"email":    {email},
		"password": {"password123"},
	})
	if err != nil {
		t.Fatalf("POST /login: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("login %s: expected 303, got %d", email, resp.StatusCode)
	}
}

// apiToken issues a bearer token for email through the JSON API.
func (a *testApp) apiToken(t *testing.T, email string) string {
	t.Helper()
	resp, env := a.doJSON(t, http.MethodPost, "/api/login", "", map[string]string{"email": email, "password": "password123"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("api login: expected 200, got %d", resp.StatusCode)
	}
	var data struct {
		Token     string `json:"token"`
		TokenType string `json:"tokenType"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode token: %v", err)
	}
	if data.Token == "" || data.TokenType != "Bearer" {
		t.Fatalf("unexpected token payload: %+v", data)
	}
	return data.Token
}

// methodForm posts values with a _method override, as the HTML forms do.
func methodForm(client *http.Client, target, method string, values url.Values) (*http.Response, error) {
	if values == nil {
		values = url.Values{}
	}
	values.Set("_method", method)
	return client.PostForm(target, values)
}

type apiEnvelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func (a *testApp) doJSON(t *testing.T, method, path, token string, body any) (*http.Response, apiEnvelope) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, a.srv.URL+path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decode body: %v", method, path, err)
	}
	return resp, env
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func get(t *testing.T, client *http.Client, target string) *http.Response {
	t.Helper()
	resp, err := client.Get(target)
	if err != nil {
		t.Fatalf("GET %s: %v", target, err)
	}
	return resp
}

func mustContain(t *testing.T, body string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(body, w) {
			t.Fatalf("expected body to contain %q", w)
		}
	}
}
