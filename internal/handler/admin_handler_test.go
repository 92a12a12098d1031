package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/auth"
)

func TestLoginIssuesTokenForValidCredentials(t *testing.T) {
	env := setupTestAPI(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = newJSONRequest(t, http.MethodPost, "/api/admin/login", map[string]string{"username": "admin", "password": "s3cret"})

	env.api.Login(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody[struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	}](t, w)

	identity, err := env.tokens.Verify(body.Token)
	if err != nil {
		t.Fatalf("expected issued token to verify, got %v", err)
	}
	if identity.Username != "admin" {
		t.Fatalf("expected token to carry username, got %+v", identity)
	}
	if body.ExpiresAt.Before(time.Now().Add(50 * time.Minute)) {
		t.Fatalf("expected roughly one hour of validity, got %s", body.ExpiresAt)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := setupTestAPI(t)

	tests := []struct {
		name    string
		payload map[string]string
		status  int
	}{
		{name: "wrong password", payload: map[string]string{"username": "admin", "password": "nope"}, status: http.StatusUnauthorized},
		{name: "unknown user", payload: map[string]string{"username": "ghost", "password": "s3cret"}, status: http.StatusUnauthorized},
		{name: "missing password", payload: map[string]string{"username": "admin"}, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = newJSONRequest(t, http.MethodPost, "/api/admin/login", tt.payload)

			env.api.Login(c)

			if w.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, w.Code)
			}
			if strings.Contains(w.Body.String(), "token") {
				t.Fatalf("expected no token in body, got %s", w.Body.String())
			}
		})
	}

	unknown := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(unknown)
	c.Request = newJSONRequest(t, http.MethodPost, "/api/admin/login", map[string]string{"username": "ghost", "password": "x"})
	env.api.Login(c)
	wrong := httptest.NewRecorder()
	c, _ = gin.CreateTestContext(wrong)
	c.Request = newJSONRequest(t, http.MethodPost, "/api/admin/login", map[string]string{"username": "admin", "password": "x"})
	env.api.Login(c)
	if unknown.Body.String() != wrong.Body.String() {
		t.Fatalf("expected identical bodies, got %q and %q", unknown.Body.String(), wrong.Body.String())
	}
}

func TestRequireAdminStatusCodes(t *testing.T) {
	env := setupTestAPI(t)
	r := gin.New()
	r.GET("/api/admin/session", env.api.RequireAdmin(), env.api.Session)

	expired, _, err := auth.NewTokens("handler-test-secret", time.Hour).
		WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }).
		Issue(auth.Identity{ID: 1, Username: "admin"})
	if err != nil {
		t.Fatalf("issue expired token: %v", err)
	}

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "no header", header: "", status: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer abc.def.ghi", status: http.StatusForbidden},
		{name: "wrong scheme", header: "Basic YWRtaW46czNjcmV0", status: http.StatusForbidden},
		{name: "expired token", header: "Bearer " + expired, status: http.StatusForbidden},
		{name: "valid token", header: "Bearer " + env.adminToken(t), status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/session", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := serve(r, req)
			if w.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, w.Code)
			}
		})
	}
}

func TestSessionReturnsIdentity(t *testing.T) {
	env := setupTestAPI(t)
	r := gin.New()
	r.GET("/api/admin/session", env.api.RequireAdmin(), env.api.Session)

	w := serve(r, withBearer(httptest.NewRequest(http.MethodGet, "/api/admin/session", nil), env.adminToken(t)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := decodeBody[map[string]any](t, w)
	if body["username"] != "admin" || body["is_admin"] != true {
		t.Fatalf("unexpected session body: %v", body)
	}
}

func TestPasswordReset(t *testing.T) {
	env := setupTestAPI(t)

	tests := []struct {
		name     string
		payload  map[string]string
		status   int
		contains string
	}{
		{name: "known admin", payload: map[string]string{"username": "admin"}, status: http.StatusOK, contains: "would be sent to admin@example.com"},
		{name: "unknown admin", payload: map[string]string{"username": "ghost"}, status: http.StatusNotFound, contains: "No admin found"},
		{name: "missing username", payload: map[string]string{}, status: http.StatusBadRequest, contains: "Username is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = newJSONRequest(t, http.MethodPost, "/api/admin/password-reset", tt.payload)

			env.api.PasswordReset(c)

			if w.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, w.Code)
			}
			if !strings.Contains(w.Body.String(), tt.contains) {
				t.Fatalf("expected body to contain %q, got %s", tt.contains, w.Body.String())
			}
		})
	}
}

func TestRequestIDReusesValidHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, requestIDFrom(c)) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "3f1c2a52-8a0e-4a43-9b7a-3d1f0f6b8e11")
	w := serve(r, req)
	if w.Body.String() != "3f1c2a52-8a0e-4a43-9b7a-3d1f0f6b8e11" {
		t.Fatalf("expected incoming id to be kept, got %q", w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	w = serve(r, req)
	if w.Body.String() == "" || strings.Contains(w.Body.String(), "not-a-uuid") {
		t.Fatalf("expected a fresh id, got %q", w.Body.String())
	}
	if w.Header().Get(RequestIDHeader) != w.Body.String() {
		t.Fatalf("expected response header to echo the id")
	}
}
