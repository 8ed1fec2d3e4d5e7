// ABOUTME: Tests for the authentication and enforcement middleware
// ABOUTME: Covers anonymous fallthrough, principal resolution, and store outage handling

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/workhardslave/memberd/internal/store"
)

type middlewareFixture struct {
	tokens   *TokenService
	users    *store.MockStore
	resolver *Resolver
}

func newMiddlewareFixture(t *testing.T) *middlewareFixture {
	t.Helper()
	tokens, err := NewTokenService(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	users := store.NewMockStore()
	return &middlewareFixture{
		tokens:   tokens,
		users:    users,
		resolver: NewResolver(users),
	}
}

func (f *middlewareFixture) addUser(t *testing.T, loginID string, roles ...string) *store.User {
	t.Helper()
	user := &store.User{LoginID: loginID, Name: loginID, Roles: roles}
	if err := f.users.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func failOnServerError(t *testing.T) ServerErrorHandler {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		t.Errorf("unexpected server error: %v", err)
	}
}

func TestMiddleware_NoHeader_Anonymous(t *testing.T) {
	f := newMiddlewareFixture(t)
	mw := Middleware(f.tokens, f.resolver, nil, nil, failOnServerError(t))

	var sawPrincipal *Principal
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawPrincipal = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/users/1", nil)
	rec := httptest.NewRecorder()
	mw(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 (interceptor never rejects)", rec.Code)
	}
	if sawPrincipal != nil {
		t.Errorf("principal = %v, want nil (anonymous)", sawPrincipal)
	}
}

func TestMiddleware_InvalidToken_Anonymous(t *testing.T) {
	f := newMiddlewareFixture(t)
	mw := Middleware(f.tokens, f.resolver, nil, nil, failOnServerError(t))

	var sawPrincipal *Principal
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawPrincipal = FromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/users/1", nil)
	req.Header.Set(TokenHeader, "garbage-token")
	rec := httptest.NewRecorder()
	mw(handler).ServeHTTP(rec, req)

	if sawPrincipal != nil {
		t.Errorf("invalid token should continue anonymous, got %v", sawPrincipal)
	}
}

func TestMiddleware_ExpiredToken_Anonymous(t *testing.T) {
	f := newMiddlewareFixture(t)
	f.addUser(t, "alice", "ROLE_USER")

	expired, err := issueExpired(testSecret, "1", []string{"ROLE_USER"})
	if err != nil {
		t.Fatalf("issuing expired token: %v", err)
	}

	mw := Middleware(f.tokens, f.resolver, nil, nil, failOnServerError(t))

	var sawPrincipal *Principal
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawPrincipal = FromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/users/1", nil)
	req.Header.Set(TokenHeader, expired)
	rec := httptest.NewRecorder()
	mw(handler).ServeHTTP(rec, req)

	if sawPrincipal != nil {
		t.Errorf("expired token should continue anonymous, got %v", sawPrincipal)
	}
}

func TestMiddleware_ValidToken_PrincipalAttached(t *testing.T) {
	f := newMiddlewareFixture(t)
	user := f.addUser(t, "alice", "ROLE_USER", "ROLE_ADMIN")

	token, err := f.tokens.Issue("1", user.Roles)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	mw := Middleware(f.tokens, f.resolver, nil, nil, failOnServerError(t))

	var sawPrincipal *Principal
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawPrincipal = FromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/users/1", nil)
	req.Header.Set(TokenHeader, token)
	rec := httptest.NewRecorder()
	mw(handler).ServeHTTP(rec, req)

	if sawPrincipal == nil {
		t.Fatal("expected principal in context")
	}
	if sawPrincipal.ID != "1" {
		t.Errorf("principal ID = %q, want %q", sawPrincipal.ID, "1")
	}
	if !sawPrincipal.HasRole("ROLE_ADMIN") {
		t.Errorf("principal roles = %v, want ROLE_ADMIN present", sawPrincipal.Roles)
	}
}

func TestMiddleware_DeletedSubject_Anonymous(t *testing.T) {
	f := newMiddlewareFixture(t)
	user := f.addUser(t, "alice", "ROLE_USER")

	token, _ := f.tokens.Issue("1", user.Roles)

	// Delete the user after issuance: the token now dangles
	if err := f.users.DeleteUser(context.Background(), user.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}

	mw := Middleware(f.tokens, f.resolver, nil, nil, failOnServerError(t))

	var sawPrincipal *Principal
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawPrincipal = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/users/1", nil)
	req.Header.Set(TokenHeader, token)
	rec := httptest.NewRecorder()
	mw(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 (dangling token is not an error here)", rec.Code)
	}
	if sawPrincipal != nil {
		t.Errorf("dangling token should continue anonymous, got %v", sawPrincipal)
	}
}

func TestMiddleware_StoreFailure_Aborts(t *testing.T) {
	f := newMiddlewareFixture(t)
	user := f.addUser(t, "alice", "ROLE_USER")
	token, _ := f.tokens.Issue("1", user.Roles)

	f.users.ForcedErr = errors.New("store unreachable")

	var gotErr error
	onError := func(w http.ResponseWriter, r *http.Request, err error) {
		gotErr = err
		w.WriteHeader(http.StatusInternalServerError)
	}

	mw := Middleware(f.tokens, f.resolver, nil, nil, onError)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run when the store is down")
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/users/1", nil)
	req.Header.Set(TokenHeader, token)
	rec := httptest.NewRecorder()
	mw(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if gotErr == nil {
		t.Error("expected the store failure to reach the error handler")
	}
}

func TestEnforce_DenialVariants(t *testing.T) {
	policy := NewPolicy(Role("ROLE_USER"),
		Rule{Pattern: "/public/**", Require: Public()},
		Rule{Pattern: "/admin/**", Require: Role("ROLE_ADMIN")},
	)

	var gotDecision Decision
	onDeny := func(w http.ResponseWriter, r *http.Request, d Decision) {
		gotDecision = d
		w.WriteHeader(http.StatusUnauthorized)
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	enforce := Enforce(policy, nil, onDeny)(next)

	t.Run("anonymous on protected route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/things", nil)
		rec := httptest.NewRecorder()
		enforce.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized || gotDecision != DenyUnauthenticated {
			t.Errorf("got status %d decision %v, want 401 DenyUnauthenticated", rec.Code, gotDecision)
		}
	})

	t.Run("wrong role on admin route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/panel", nil)
		req = req.WithContext(WithPrincipal(req.Context(), &Principal{ID: "42", Roles: []string{"ROLE_USER"}}))
		rec := httptest.NewRecorder()
		enforce.ServeHTTP(rec, req)
		if gotDecision != DenyForbidden {
			t.Errorf("decision = %v, want DenyForbidden", gotDecision)
		}
	})

	t.Run("anonymous on public route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/public/info", nil)
		rec := httptest.NewRecorder()
		enforce.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("baseline role on protected route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/things", nil)
		req = req.WithContext(WithPrincipal(req.Context(), &Principal{ID: "42", Roles: []string{"ROLE_USER"}}))
		rec := httptest.NewRecorder()
		enforce.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}
