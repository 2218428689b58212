package auth

import (
	"strings"
	"testing"
	"time"

	"bloglist/internal/core/apperr"
)

func newJWTer() *JWTer {
	return &JWTer{Secret: []byte("test-secret"), Issuer: "bloglist"}
}

func TestIssueAndParse(t *testing.T) {
	j := newJWTer()
	tok, err := j.Issue("acc-1", "testuser")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	c, err := j.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.ID != "acc-1" || c.Username != "testuser" {
		t.Fatalf("unexpected claims: %+v", c)
	}
	if got := c.ExpiresAt.Sub(c.IssuedAt.Time); got != time.Hour {
		t.Fatalf("expected 1h lifetime, got %s", got)
	}
}

func TestParseExpired(t *testing.T) {
	j := newJWTer()
	j.Now = func() time.Time { return time.Now().Add(-61 * time.Minute) }
	tok, err := j.Issue("acc-1", "testuser")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = newJWTer().Parse(tok)
	if apperr.KindOf(err) != apperr.KindExpiredToken {
		t.Fatalf("expected expired token error, got %v", err)
	}
}

func TestParseInvalidSignature(t *testing.T) {
	tok, err := newJWTer().Issue("acc-1", "testuser")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	other := &JWTer{Secret: []byte("another-secret"), Issuer: "bloglist"}
	if _, err := other.Parse(tok); apperr.KindOf(err) != apperr.KindInvalidToken {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

func TestParseMalformed(t *testing.T) {
	j := newJWTer()
	for _, tok := range []string{"", "abc", "a.b.c", strings.Repeat("x", 64)} {
		if _, err := j.Parse(tok); apperr.KindOf(err) != apperr.KindInvalidToken {
			t.Fatalf("token %q: expected invalid token error, got %v", tok, err)
		}
	}
}

func TestParseWrongIssuer(t *testing.T) {
	tok, _ := (&JWTer{Secret: []byte("test-secret"), Issuer: "someone-else"}).Issue("acc-1", "u")
	if _, err := newJWTer().Parse(tok); apperr.KindOf(err) != apperr.KindInvalidToken {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}
