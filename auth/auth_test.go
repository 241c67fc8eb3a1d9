package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIssueAndParse(t *testing.T) {
	iss := NewIssuer("test-secret", time.Hour)
	tok, exp, err := iss.Issue("user-1", "ana@sig.com.mx", "Ana", "seller")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expected future expiry, got %v", exp)
	}
	claims, err := iss.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID() != "user-1" || claims.Email != "ana@sig.com.mx" || claims.Role != RoleAuthenticated {
		t.Fatalf("unexpected claims: %#v", claims)
	}
	if claims.UserRole != "seller" || claims.Name != "Ana" {
		t.Fatalf("profile claims not carried: %#v", claims)
	}
}

func TestParseRejectsForeignSignature(t *testing.T) {
	tok, _, _ := NewIssuer("one", time.Hour).Issue("u", "a@b", "", "")
	if _, err := NewIssuer("two", time.Hour).Parse(tok); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestParseRejectsExpired(t *testing.T) {
	iss := NewIssuer("s", time.Minute)
	iss.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, _, _ := iss.Issue("u", "a@b", "", "")
	if _, err := NewIssuer("s", time.Minute).Parse(tok); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer abc")
	if got := TokenFromRequest(r); got != "abc" {
		t.Fatalf("header token = %q", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "cookie-tok"})
	if got := TokenFromRequest(r); got != "cookie-tok" {
		t.Fatalf("cookie token = %q", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Basic xyz")
	if got := TokenFromRequest(r); got != "" {
		t.Fatalf("expected no token for basic auth, got %q", got)
	}
}

func TestRequireAuth(t *testing.T) {
	iss := NewIssuer("s", time.Hour)
	called := false
	h := iss.Middleware(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		c, _ := ClaimsFromContext(r.Context())
		if c.UserID() != "u-9" {
			t.Errorf("claims not propagated: %#v", c)
		}
		if TokenFromContext(r.Context()) == "" {
			t.Error("raw token not propagated")
		}
		w.WriteHeader(http.StatusNoContent)
	})))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/clients", nil))
	if w.Code != http.StatusUnauthorized || called {
		t.Fatalf("expected 401 without token, got %d (called=%v)", w.Code, called)
	}

	w = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/clients", nil)
	r.Header.Set("Authorization", "Bearer not-a-jwt")
	h.ServeHTTP(w, r)
	if w.Code != http.StatusUnauthorized || called {
		t.Fatalf("expected 401 with garbage token, got %d", w.Code)
	}

	tok, _, _ := iss.Issue("u-9", "x@y", "", "")
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/clients", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	h.ServeHTTP(w, r)
	if w.Code != http.StatusNoContent || !called {
		t.Fatalf("expected pass-through, got %d", w.Code)
	}
}
