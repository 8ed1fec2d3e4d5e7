// ABOUTME: Tests for the user resource endpoints
// ABOUTME: Covers role-gated access, lookups, updates, and deletion

package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/workhardslave/memberd/internal/store"
)

func TestListUsers_AdminOnly(t *testing.T) {
	ts := newTestServer(t)
	ts.addUser(t, "admin@example.com", "admin-pass", "Admin", store.RoleUser, store.RoleAdmin)
	ts.addUser(t, "alice@example.com", "alice-pass", "Alice", store.RoleUser)

	adminToken := ts.signin(t, "admin@example.com", "admin-pass")
	userToken := ts.signin(t, "alice@example.com", "alice-pass")

	t.Run("admin sees the collection", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/v1/users", adminToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		env := decodeEnvelope(t, rec)
		var users []store.User
		if err := json.Unmarshal(env.List, &users); err != nil {
			t.Fatalf("decoding list: %v", err)
		}
		assert.Len(t, users, 2)
	})

	t.Run("baseline role is refused", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/v1/users", userToken, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, -1003, env.Code)
	})

	t.Run("anonymous is refused", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/v1/users", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, -1002, env.Code)
	})
}

func TestGetUser(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.addUser(t, "alice@example.com", "alice-pass", "Alice", store.RoleUser)
	token := ts.signin(t, "alice@example.com", "alice-pass")

	rec := ts.do(t, http.MethodGet, "/v1/users/1", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	if strings.Contains(body, alice.PasswordHash) {
		t.Error("response leaks the password hash")
	}

	var env struct {
		Data store.User `json:"data"`
	}
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	assert.Equal(t, "alice@example.com", env.Data.LoginID)
	assert.Equal(t, "Alice", env.Data.Name)
}

func TestGetUser_NotFound(t *testing.T) {
	ts := newTestServer(t)
	ts.addUser(t, "alice@example.com", "alice-pass", "Alice", store.RoleUser)
	token := ts.signin(t, "alice@example.com", "alice-pass")

	rec := ts.do(t, http.MethodGet, "/v1/users/999", token, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, -1000, env.Code)
}

func TestGetUser_NonNumericID(t *testing.T) {
	ts := newTestServer(t)
	ts.addUser(t, "alice@example.com", "alice-pass", "Alice", store.RoleUser)
	token := ts.signin(t, "alice@example.com", "alice-pass")

	rec := ts.do(t, http.MethodGet, "/v1/users/abc", token, nil)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, -1000, env.Code)
}

func TestUpdateUser(t *testing.T) {
	ts := newTestServer(t)
	ts.addUser(t, "alice@example.com", "alice-pass", "Alice", store.RoleUser)
	token := ts.signin(t, "alice@example.com", "alice-pass")

	rec := ts.do(t, http.MethodPut, "/v1/users/1", token, UpdateUserRequest{Name: "Alice Renamed"})
	assert.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data store.User `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	assert.Equal(t, "Alice Renamed", env.Data.Name)
	// Untouched field survives a partial update
	assert.Equal(t, "alice@example.com", env.Data.LoginID)
}

func TestUpdateUser_NotFound(t *testing.T) {
	ts := newTestServer(t)
	ts.addUser(t, "alice@example.com", "alice-pass", "Alice", store.RoleUser)
	token := ts.signin(t, "alice@example.com", "alice-pass")

	rec := ts.do(t, http.MethodPut, "/v1/users/999", token, UpdateUserRequest{Name: "Ghost"})
	env := decodeEnvelope(t, rec)
	assert.Equal(t, -1000, env.Code)
}

func TestDeleteUser(t *testing.T) {
	ts := newTestServer(t)
	ts.addUser(t, "alice@example.com", "alice-pass", "Alice", store.RoleUser)
	ts.addUser(t, "bob@example.com", "bob-pass", "Bob", store.RoleUser)
	token := ts.signin(t, "alice@example.com", "alice-pass")

	rec := ts.do(t, http.MethodDelete, "/v1/users/2", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)

	// The deleted user is gone
	rec = ts.do(t, http.MethodGet, "/v1/users/2", token, nil)
	env = decodeEnvelope(t, rec)
	assert.Equal(t, -1000, env.Code)

	// Deleting again still reports success
	rec = ts.do(t, http.MethodDelete, "/v1/users/2", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
