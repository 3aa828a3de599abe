package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"login-api/config"
	"login-api/internal/handler"
	"login-api/internal/metrics"
	"login-api/internal/repository"
	"login-api/internal/services"
	"login-api/pkg/logger"
)

func newTestServer(t *testing.T) (*Server, *repository.MemoryUserRepository) {
	t.Helper()

	cfg := &config.Config{AppPort: "0", AppMode: TestMode, CORSOrigins: []string{"*"}}
	m := metrics.New()
	repo := repository.NewMemoryUserRepository()
	users := services.NewUserService(repo)
	tokens := services.NewTokenService()
	srv := New(cfg, logger.NewNop(), m)
	srv.SetupRoutes(&Handlers{
		Auth:   handler.NewAuthHandler(users, tokens, m, logger.NewNop()),
		User:   handler.NewUserHandler(m),
		Health: handler.NewHealthHandler(time.Now().Add(-time.Minute)),
		Docs:   handler.NewDocsHandler(),
	}, tokens)
	return srv, repo
}

type response struct {
	Code int
	Body map[string]interface{}
	Raw  string
}

func do(t *testing.T, srv *Server, method, path, body string, headers map[string]string) response {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)

	res := response{Code: rec.Code, Raw: rec.Body.String()}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &res.Body); err != nil {
			t.Fatalf("decode %s %s body %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return res
}

func userLogin(t *testing.T, body map[string]interface{}) string {
	t.Helper()
	u, ok := body["user"].(map[string]interface{})
	if !ok {
		t.Fatalf("body has no user object: %v", body)
	}
	login, _ := u["login"].(string)
	return login
}

func TestRegisterLoginScenario(t *testing.T) {
	srv, repo := newTestServer(t)

	res := do(t, srv, http.MethodPost, "/register", `{"login":"alice","senha":"s1"}`, nil)
	if res.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", res.Code, res.Raw)
	}
	if res.Body["message"] != "Usuário registrado com sucesso" {
		t.Errorf("register message = %v", res.Body["message"])
	}
	if userLogin(t, res.Body) != "alice" {
		t.Errorf("register user.login = %q", userLogin(t, res.Body))
	}
	if token, _ := res.Body["token"].(string); !strings.HasPrefix(token, "token_alice_") {
		t.Errorf("register token = %q", token)
	}
	if strings.Contains(res.Raw, "senha") || strings.Contains(res.Raw, "s1") {
		t.Errorf("register response leaks the password: %s", res.Raw)
	}

	res = do(t, srv, http.MethodPost, "/register", `{"login":"alice","senha":"s2"}`, nil)
	if res.Code != http.StatusBadRequest || res.Body["error"] != "Usuário já existe" {
		t.Fatalf("duplicate register = %d %v", res.Code, res.Body)
	}
	if n, _ := repo.Count(t.Context()); n != 1 {
		t.Fatalf("store size = %d, want 1", n)
	}

	res = do(t, srv, http.MethodPost, "/login", `{"login":"alice","senha":"s1"}`, nil)
	if res.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", res.Code, res.Raw)
	}
	if res.Body["message"] != "Login realizado com sucesso" || userLogin(t, res.Body) != "alice" {
		t.Errorf("login body = %v", res.Body)
	}

	res = do(t, srv, http.MethodPost, "/login", `{"login":"alice","senha":"wrong"}`, nil)
	if res.Code != http.StatusUnauthorized || res.Body["error"] != "Login ou senha inválidos" {
		t.Fatalf("wrong login = %d %v", res.Code, res.Body)
	}
}

func TestTokensDifferPerCall(t *testing.T) {
	srv, _ := newTestServer(t)
	do(t, srv, http.MethodPost, "/register", `{"login":"bob","senha":"x"}`, nil)

	first := do(t, srv, http.MethodPost, "/login", `{"login":"bob","senha":"x"}`, nil)
	second := do(t, srv, http.MethodPost, "/login", `{"login":"bob","senha":"x"}`, nil)
	if first.Body["token"] == second.Body["token"] {
		t.Fatalf("two logins returned the same token %v", first.Body["token"])
	}
}

func TestProfile(t *testing.T) {
	srv, _ := newTestServer(t)
	reg := do(t, srv, http.MethodPost, "/register", `{"login":"carol","senha":"x"}`, nil)
	token, _ := reg.Body["token"].(string)

	tests := []struct {
		name      string
		header    string
		wantCode  int
		wantError string
	}{
		{"no header", "", http.StatusUnauthorized, "Token de acesso necessário"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "Token de acesso necessário"},
		{"garbage token", "Bearer garbage", http.StatusUnauthorized, "Token inválido"},
		{"issued token", "Bearer " + token, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			res := do(t, srv, http.MethodGet, "/profile", "", headers)
			if res.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (%s)", res.Code, tt.wantCode, res.Raw)
			}
			if tt.wantError != "" {
				if res.Body["error"] != tt.wantError {
					t.Fatalf("error = %v, want %q", res.Body["error"], tt.wantError)
				}
				return
			}
			if res.Body["message"] != "Perfil acessado com sucesso" || userLogin(t, res.Body) != "carol" {
				t.Fatalf("profile body = %v", res.Body)
			}
			ts, _ := res.Body["timestamp"].(string)
			if _, err := time.Parse(time.RFC3339, ts); err != nil {
				t.Fatalf("timestamp %q: %v", ts, err)
			}
		})
	}
}

func TestProfileUnderscoreLoginIsTruncated(t *testing.T) {
	srv, _ := newTestServer(t)
	reg := do(t, srv, http.MethodPost, "/register", `{"login":"user_1","senha":"x"}`, nil)
	token, _ := reg.Body["token"].(string)

	res := do(t, srv, http.MethodGet, "/profile", "", map[string]string{"Authorization": "Bearer " + token})
	if res.Code != http.StatusOK || userLogin(t, res.Body) != "user" {
		t.Fatalf("profile = %d %v", res.Code, res.Body)
	}
}

func TestMalformedAndEmptyBodies(t *testing.T) {
	srv, repo := newTestServer(t)

	res := do(t, srv, http.MethodPost, "/register", `{"login":`, nil)
	if res.Code != http.StatusBadRequest || res.Body["error"] != "Requisição inválida" {
		t.Fatalf("malformed body = %d %v", res.Code, res.Body)
	}

	// Missing fields are accepted and register an empty login.
	res = do(t, srv, http.MethodPost, "/register", "", nil)
	if res.Code != http.StatusCreated {
		t.Fatalf("empty body = %d %s", res.Code, res.Raw)
	}
	res = do(t, srv, http.MethodPost, "/register", `{}`, nil)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("second empty registration = %d %s", res.Code, res.Raw)
	}
	if n, _ := repo.Count(t.Context()); n != 1 {
		t.Fatalf("store size = %d, want 1", n)
	}
}

// Only string credentials are accepted; other JSON types are rejected before
// reaching the store.
func TestNonStringCredentialsAreRejected(t *testing.T) {
	srv, repo := newTestServer(t)

	for _, body := range []string{
		`{"login":123,"senha":"x"}`,
		`{"login":"a","senha":true}`,
		`{"login":["a"],"senha":"x"}`,
		`[]`,
	} {
		for _, path := range []string{"/register", "/login"} {
			res := do(t, srv, http.MethodPost, path, body, nil)
			if res.Code != http.StatusBadRequest || res.Body["error"] != "Requisição inválida" {
				t.Errorf("%s %s = %d %v", path, body, res.Code, res.Body)
			}
		}
	}
	if n, _ := repo.Count(t.Context()); n != 0 {
		t.Fatalf("store size = %d, want 0", n)
	}
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	res := do(t, srv, http.MethodGet, "/health", "", nil)
	if res.Code != http.StatusOK {
		t.Fatalf("health status = %d", res.Code)
	}
	if res.Body["status"] != "OK" || res.Body["message"] != "API is running" {
		t.Fatalf("health body = %v", res.Body)
	}
	if uptime, _ := res.Body["uptime"].(float64); uptime < 59 {
		t.Fatalf("uptime = %v, want >= 59", res.Body["uptime"])
	}
}

func TestDocsAndMetrics(t *testing.T) {
	srv, _ := newTestServer(t)

	res := do(t, srv, http.MethodGet, "/docs", "", nil)
	if res.Code != http.StatusFound {
		t.Fatalf("docs = %d", res.Code)
	}

	res = do(t, srv, http.MethodGet, "/docs/index.html", "", nil)
	if res.Code != http.StatusOK || !strings.Contains(res.Raw, "swagger-ui") {
		t.Fatalf("docs/index.html = %d", res.Code)
	}
	if strings.Contains(res.Raw, "unpkg.com") {
		t.Error("swagger ui loads assets from a CDN")
	}

	res = do(t, srv, http.MethodGet, "/docs/doc.json", "", nil)
	if res.Code != http.StatusOK {
		t.Fatalf("doc.json = %d", res.Code)
	}
	var doc struct {
		Paths map[string]map[string]interface{} `json:"paths"`
	}
	if err := json.Unmarshal([]byte(res.Raw), &doc); err != nil {
		t.Fatalf("decode doc.json: %v", err)
	}
	for path, method := range map[string]string{"/register": "post", "/login": "post", "/profile": "get", "/health": "get"} {
		if _, ok := doc.Paths[path][method]; !ok {
			t.Errorf("generated document misses %s %s", method, path)
		}
	}

	do(t, srv, http.MethodPost, "/register", `{"login":"m","senha":"x"}`, nil)
	res = do(t, srv, http.MethodGet, "/metrics", "", nil)
	if res.Code != http.StatusOK || !strings.Contains(res.Raw, "login_api_tokens_issued_total 1") {
		t.Fatalf("metrics = %d\n%s", res.Code, res.Raw)
	}
	if !strings.Contains(res.Raw, `route="/register"`) {
		t.Fatalf("metrics missing route label:\n%s", res.Raw)
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	if id := rec.Header().Get("X-Request-Id"); len(id) != 32 {
		t.Fatalf("generated request id = %q", id)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", "abc")
	rec = httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	if id := rec.Header().Get("X-Request-Id"); id != "abc" {
		t.Fatalf("request id = %q, want abc", id)
	}
}
