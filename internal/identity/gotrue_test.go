package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const userID = "9b2f6c1e-4a7d-4c3b-8e15-2d0f7a6b3c41"

func fakeGoTrue(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var calls []string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/v1/signup", func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "signup")
		if r.Header.Get("apikey") != "anon" {
			t.Errorf("missing apikey header")
		}
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["email"] == "taken@sig.com.mx" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"code":422,"error_code":"user_already_exists","msg":"User already registered"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"11111111-2222-3333-4444-555555555555","email":"` + in["email"] + `"}`))
	})
	mux.HandleFunc("POST /auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "token:"+r.URL.Query().Get("grant_type"))
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["password"] != "right-pass" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"user-token","user":{"id":"` + userID + `","email":"` + in["email"] + `"}}`))
	})
	mux.HandleFunc("PUT /auth/v1/user", func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "update:"+r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":"` + userID + `"}`))
	})
	mux.HandleFunc("DELETE /auth/v1/admin/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "delete:"+r.PathValue("id")+":"+r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestGoTrueSignUp(t *testing.T) {
	srv, _ := fakeGoTrue(t)
	p := NewGoTrueProvider(srv.URL+"/", "anon", "service", srv.Client())
	id, err := p.SignUp(context.Background(), "New@sig.com.mx", "secret123")
	if err != nil || id != "11111111-2222-3333-4444-555555555555" {
		t.Fatalf("signup: id=%q err=%v", id, err)
	}
	if _, err := p.SignUp(context.Background(), "taken@sig.com.mx", "secret123"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestGoTrueSignIn(t *testing.T) {
	srv, calls := fakeGoTrue(t)
	p := NewGoTrueProvider(srv.URL, "anon", "service", srv.Client())
	s, err := p.SignIn(context.Background(), "a@sig.com.mx", "right-pass")
	if err != nil {
		t.Fatalf("signin: %v", err)
	}
	if s.UserID != userID || s.Email != "a@sig.com.mx" {
		t.Fatalf("session = %#v", s)
	}
	if _, err := p.SignIn(context.Background(), "a@sig.com.mx", "nope"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if (*calls)[0] != "token:password" {
		t.Fatalf("calls = %v", *calls)
	}
}

func TestGoTrueUpdatePasswordAndDelete(t *testing.T) {
	srv, calls := fakeGoTrue(t)
	p := NewGoTrueProvider(srv.URL, "anon", "service", srv.Client())
	if err := p.UpdatePassword(context.Background(), "a@sig.com.mx", "right-pass", "new-secret"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := p.DeleteIdentity(context.Background(), userID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	want := []string{"token:password", "update:Bearer user-token", "delete:" + userID + ":Bearer service"}
	if len(*calls) != len(want) {
		t.Fatalf("calls = %v", *calls)
	}
	for i := range want {
		if (*calls)[i] != want[i] {
			t.Fatalf("call %d = %q want %q", i, (*calls)[i], want[i])
		}
	}
}

func TestGoTrueUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message":"maintenance"}`))
	}))
	defer srv.Close()
	p := NewGoTrueProvider(srv.URL, "anon", "service", srv.Client())
	_, err := p.SignUp(context.Background(), "a@sig.com.mx", "secret123")
	var pe *ProviderError
	if !errors.As(err, &pe) || pe.Status != http.StatusServiceUnavailable || pe.Message != "maintenance" {
		t.Fatalf("expected ProviderError 503, got %#v", err)
	}
}

func TestGoTrueHonoursCancelledContext(t *testing.T) {
	srv, calls := fakeGoTrue(t)
	p := NewGoTrueProvider(srv.URL, "anon", "service", srv.Client())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.SignIn(ctx, "a@sig.com.mx", "right-pass"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(*calls) != 0 {
		t.Fatalf("calls = %v", *calls)
	}
}

func TestGoTrueDeleteUnknownID(t *testing.T) {
	srv, calls := fakeGoTrue(t)
	p := NewGoTrueProvider(srv.URL, "anon", "service", srv.Client())
	if err := p.DeleteIdentity(context.Background(), "not-a-uuid"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(*calls) != 0 {
		t.Fatalf("calls = %v", *calls)
	}
}

func TestGoTrueTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	p := NewGoTrueProvider(url, "anon", "service", nil)
	_, err := p.SignUp(context.Background(), "a@sig.com.mx", "secret123")
	var pe *ProviderError
	if err == nil || errors.As(err, &pe) || errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected wrapped transport error, got %#v", err)
	}
}
