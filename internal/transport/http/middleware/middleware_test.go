package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"bloglist/internal/core/apperr"
	"bloglist/internal/core/auth"
	"bloglist/internal/domain"
)

func init() { gin.SetMode(gin.TestMode) }

type stubAccounts map[string]*domain.Account

func (s stubAccounts) Resolve(_ context.Context, id string) (*domain.Account, error) {
	if a, ok := s[id]; ok {
		return a, nil
	}
	return nil, apperr.Authentication("account not found")
}

func newAuthEngine(j *auth.JWTer, accounts stubAccounts) *gin.Engine {
	r := gin.New()
	r.Use(TokenExtractor())
	r.GET("/public", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"token": c.GetString(KeyToken)})
	})
	r.POST("/protected", AccountResolver(j, accounts), func(c *gin.Context) {
		a, _ := CurrentAccount(c)
		c.JSON(http.StatusOK, gin.H{"username": a.Username})
	})
	return r
}

func do(r http.Handler, method, path, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return body.Error
}

func TestTokenExtractor(t *testing.T) {
	r := newAuthEngine(&auth.JWTer{Secret: []byte("s")}, nil)

	w := do(r, http.MethodGet, "/public", "Bearer abc.def")
	if w.Code != http.StatusOK || !json.Valid(w.Body.Bytes()) {
		t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
	}
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["token"] != "abc.def" {
		t.Fatalf("token not extracted: %v", body)
	}

	w = do(r, http.MethodGet, "/public", "Basic Zm9vOmJhcg==")
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if w.Code != http.StatusOK || body["token"] != "" {
		t.Fatalf("non-bearer header should leave token absent: %d %v", w.Code, body)
	}
}

func TestAccountResolverStates(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("s"), Issuer: "bloglist"}
	accounts := stubAccounts{"acc-1": {ID: "acc-1", Username: "testuser"}}
	r := newAuthEngine(j, accounts)

	good, _ := j.Issue("acc-1", "testuser")
	vanished, _ := j.Issue("acc-2", "gone")
	expiredIssuer := &auth.JWTer{Secret: []byte("s"), Issuer: "bloglist", Now: func() time.Time { return time.Now().Add(-2 * time.Hour) }}
	expired, _ := expiredIssuer.Issue("acc-1", "testuser")

	cases := []struct {
		name   string
		authz  string
		status int
		msg    string
	}{
		{"missing", "", http.StatusUnauthorized, "token missing"},
		{"garbage", "Bearer nope", http.StatusUnauthorized, "invalid token"},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, "token expired"},
		{"vanished account", "Bearer " + vanished, http.StatusUnauthorized, "account not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/protected", tc.authz)
			if w.Code != tc.status {
				t.Fatalf("want %d, got %d (%s)", tc.status, w.Code, w.Body.String())
			}
			if msg := errorOf(t, w); msg != tc.msg {
				t.Fatalf("want %q, got %q", tc.msg, msg)
			}
		})
	}

	w := do(r, http.MethodPost, "/protected", "Bearer "+good)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestRateLimitPerIP(t *testing.T) {
	r := gin.New()
	r.GET("/x", RateLimitPerIP(0.0001, 1), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	if w := do(r, http.MethodGet, "/x", ""); w.Code != http.StatusNoContent {
		t.Fatalf("first request should pass, got %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/x", ""); w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request should be limited, got %d", w.Code)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(KeyRequestID)) })

	w := do(r, http.MethodGet, "/x", "")
	if w.Header().Get(KeyRequestID) == "" || w.Body.String() != w.Header().Get(KeyRequestID) {
		t.Fatalf("request id not propagated: header=%q body=%q", w.Header().Get(KeyRequestID), w.Body.String())
	}
}

func TestRequestIDRejectsUntrustedHeader(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, in := range []string{"abc-123", "bad id with spaces", strings.Repeat("a", 65)} {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(KeyRequestID, in)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		got := w.Header().Get(KeyRequestID)
		if (in == "abc-123") != (got == in) {
			t.Fatalf("header %q: unexpected request id %q", in, got)
		}
	}
}
