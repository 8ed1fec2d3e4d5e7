// ABOUTME: Maps internal failure conditions onto response codes and HTTP statuses
// ABOUTME: Failure text is resolved against the request locale at render time

package server

import (
	"net/http"

	"github.com/workhardslave/memberd/internal/auth"
	"github.com/workhardslave/memberd/internal/i18n"
)

// failure pairs a message-bundle key with the HTTP status it renders as.
type failure struct {
	key    string
	status int
}

var (
	failUnknown      = failure{i18n.KeyUnknown, http.StatusInternalServerError}
	failBadRequest   = failure{i18n.KeyUnknown, http.StatusBadRequest}
	failUserNotFound = failure{i18n.KeyUserNotFound, http.StatusInternalServerError}
	failSigninFailed = failure{i18n.KeySigninFailed, http.StatusInternalServerError}
	// Both denial variants render 401: the distinct codes tell them apart.
	failEntryPoint   = failure{i18n.KeyEntryPoint, http.StatusUnauthorized}
	failAccessDenied = failure{i18n.KeyAccessDenied, http.StatusUnauthorized}
)

// writeFailure renders a failure envelope in the request's locale.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, f failure) {
	msg := s.bundle.Lookup(s.bundle.LocaleFromRequest(r), f.key)
	writeJSON(w, f.status, CommonResult{Success: false, Code: msg.Code, Message: msg.Message})
}

// successResult builds the success envelope in the request's locale.
func (s *Server) successResult(r *http.Request) CommonResult {
	msg := s.bundle.Lookup(s.bundle.LocaleFromRequest(r), i18n.KeySuccess)
	return CommonResult{Success: true, Code: msg.Code, Message: msg.Message}
}

// handleDenial turns an access-control decision into a failure response.
func (s *Server) handleDenial(w http.ResponseWriter, r *http.Request, d auth.Decision) {
	switch d {
	case auth.DenyForbidden:
		s.writeFailure(w, r, failAccessDenied)
	default:
		s.writeFailure(w, r, failEntryPoint)
	}
}

// handleAuthError reports an authentication-stage infrastructure failure,
// such as the user store being unreachable.
func (s *Server) handleAuthError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("authentication infrastructure failure", "error", err, "path", r.URL.Path)
	s.writeFailure(w, r, failUnknown)
}
