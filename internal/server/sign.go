// ABOUTME: Sign-in and sign-up endpoints for credential-based access
// ABOUTME: Sign-in exchanges a uid/password pair for a signed token

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/workhardslave/memberd/internal/password"
	"github.com/workhardslave/memberd/internal/store"
)

// SigninRequest is the JSON request body for POST /v1/signin.
type SigninRequest struct {
	UID      string `json:"uid"`
	Password string `json:"password"`
}

// SignupRequest is the JSON request body for POST /v1/signup.
type SignupRequest struct {
	UID      string `json:"uid"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// handleSignin handles POST /v1/signin requests.
// On success the data field carries the signed token string.
func (s *Server) handleSignin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UID == "" || req.Password == "" {
		s.writeFailure(w, r, failBadRequest)
		return
	}

	user, err := s.store.FindUserByLoginID(r.Context(), req.UID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn a hash comparison so unknown accounts cost the same
			// as a wrong password
			password.VerifyDummy(req.Password)
			s.writeFailure(w, r, failSigninFailed)
			return
		}
		s.logger.Error("signin lookup failed", "error", err)
		s.writeFailure(w, r, failUnknown)
		return
	}

	if !password.Verify(req.Password, user.PasswordHash) {
		s.writeFailure(w, r, failSigninFailed)
		return
	}

	token, err := s.tokens.Issue(strconv.FormatInt(user.ID, 10), user.Roles)
	if err != nil {
		s.logger.Error("token issuance failed", "error", err, "user_id", user.ID)
		s.writeFailure(w, r, failUnknown)
		return
	}

	s.logger.Info("signin succeeded", "user_id", user.ID)
	writeJSON(w, http.StatusOK, SingleResult{CommonResult: s.successResult(r), Data: token})
}

// handleSignup handles POST /v1/signup requests.
// New accounts always start with the baseline user role.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UID == "" || req.Password == "" || req.Name == "" {
		s.writeFailure(w, r, failBadRequest)
		return
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		s.logger.Error("password hashing failed", "error", err)
		s.writeFailure(w, r, failUnknown)
		return
	}

	user := &store.User{
		LoginID:      req.UID,
		Name:         req.Name,
		PasswordHash: hash,
		Roles:        []string{store.RoleUser},
	}
	if err := s.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicateLoginID) {
			s.writeFailure(w, r, failUnknown)
			return
		}
		s.logger.Error("signup failed", "error", err)
		s.writeFailure(w, r, failUnknown)
		return
	}

	s.logger.Info("signup succeeded", "user_id", user.ID, "uid", user.LoginID)
	writeJSON(w, http.StatusOK, s.successResult(r))
}
