// ABOUTME: Shared test helpers for server package tests
// ABOUTME: Builds a fully wired server over the in-memory store

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/workhardslave/memberd/internal/auth"
	"github.com/workhardslave/memberd/internal/i18n"
	"github.com/workhardslave/memberd/internal/password"
	"github.com/workhardslave/memberd/internal/store"
)

// testSecret is a 32-byte secret that meets MinSecretLength requirement.
var testSecret = []byte("server-token-test-secret-32bytes")

type testServer struct {
	*Server
	users *store.MockStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	tokens, err := auth.NewTokenService(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	bundle, err := i18n.NewBundle("ko")
	if err != nil {
		t.Fatalf("NewBundle() error = %v", err)
	}

	users := store.NewMockStore()
	srv := New(Options{
		Addr:   "127.0.0.1:0",
		Store:  users,
		Tokens: tokens,
		Bundle: bundle,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return &testServer{Server: srv, users: users}
}

// addUser stores a user with a real bcrypt hash of the given password.
func (ts *testServer) addUser(t *testing.T, uid, plainPassword, name string, roles ...string) *store.User {
	t.Helper()
	hash, err := password.Hash(plainPassword)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	user := &store.User{LoginID: uid, Name: name, PasswordHash: hash, Roles: roles}
	if err := ts.users.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

// do sends a request through the full middleware chain.
func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(auth.TokenHeader, token)
	}

	rec := httptest.NewRecorder()
	ts.Handler().ServeHTTP(rec, req)
	return rec
}

// newRequestWithHeader builds a request and recorder pair with one extra header.
func newRequestWithHeader(method, path, header, value string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set(header, value)
	return req, httptest.NewRecorder()
}

// envelope is the decoded shape of any API response.
type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	List    json.RawMessage `json:"list"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return env
}

// signin exchanges credentials for a token through the real endpoint.
func (ts *testServer) signin(t *testing.T, uid, plainPassword string) string {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/v1/signin", "", SigninRequest{UID: uid, Password: plainPassword})
	if rec.Code != http.StatusOK {
		t.Fatalf("signin status = %d, body %s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	var token string
	if err := json.Unmarshal(env.Data, &token); err != nil {
		t.Fatalf("decoding token: %v", err)
	}
	return token
}
