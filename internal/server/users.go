// ABOUTME: User resource endpoints for lookup, listing, update, and removal
// ABOUTME: The collection route is admin-only; item routes need the baseline role

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/workhardslave/memberd/internal/store"
)

// UpdateUserRequest is the JSON request body for PUT /v1/users/{id}.
// Empty fields leave the stored value unchanged.
type UpdateUserRequest struct {
	UID  string `json:"uid"`
	Name string `json:"name"`
}

// handleListUsers handles GET /v1/users requests.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		s.logger.Error("listing users failed", "error", err)
		s.writeFailure(w, r, failUnknown)
		return
	}
	writeJSON(w, http.StatusOK, ListResult{CommonResult: s.successResult(r), List: users})
}

// handleGetUser handles GET /v1/users/{id} requests.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := s.userID(w, r)
	if !ok {
		return
	}

	user, err := s.store.FindUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeFailure(w, r, failUserNotFound)
			return
		}
		s.logger.Error("user lookup failed", "error", err, "user_id", id)
		s.writeFailure(w, r, failUnknown)
		return
	}
	writeJSON(w, http.StatusOK, SingleResult{CommonResult: s.successResult(r), Data: user})
}

// handleUpdateUser handles PUT /v1/users/{id} requests.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeFailure(w, r, failBadRequest)
		return
	}

	user, err := s.store.FindUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeFailure(w, r, failUserNotFound)
			return
		}
		s.logger.Error("user lookup failed", "error", err, "user_id", id)
		s.writeFailure(w, r, failUnknown)
		return
	}

	if req.UID != "" {
		user.LoginID = req.UID
	}
	if req.Name != "" {
		user.Name = req.Name
	}

	if err := s.store.UpdateUser(r.Context(), user); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			s.writeFailure(w, r, failUserNotFound)
		case errors.Is(err, store.ErrDuplicateLoginID):
			s.writeFailure(w, r, failUnknown)
		default:
			s.logger.Error("user update failed", "error", err, "user_id", id)
			s.writeFailure(w, r, failUnknown)
		}
		return
	}

	s.logger.Info("user updated", "user_id", id)
	writeJSON(w, http.StatusOK, SingleResult{CommonResult: s.successResult(r), Data: user})
}

// handleDeleteUser handles DELETE /v1/users/{id} requests.
// Deleting an absent user still succeeds.
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := s.userID(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteUser(r.Context(), id); err != nil {
		s.logger.Error("user delete failed", "error", err, "user_id", id)
		s.writeFailure(w, r, failUnknown)
		return
	}

	s.logger.Info("user deleted", "user_id", id)
	writeJSON(w, http.StatusOK, s.successResult(r))
}

// userID parses the {id} path segment. A non-numeric id renders the
// user-not-found failure and reports false.
func (s *Server) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeFailure(w, r, failUserNotFound)
		return 0, false
	}
	return id, true
}
