// ABOUTME: Public demonstration endpoints kept for smoke-testing the access rules
// ABOUTME: The exception routes render the two denial responses on demand

package server

import "net/http"

// HelloResponse is the JSON response for GET /helloworld/json.
type HelloResponse struct {
	Message string `json:"message"`
}

// handleHelloString handles GET /helloworld/string requests.
func (s *Server) handleHelloString(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("helloworld"))
}

// handleHelloJSON handles GET /helloworld/json requests.
func (s *Server) handleHelloJSON(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HelloResponse{Message: "helloworld"})
}

// handleExceptionEntryPoint handles GET /exception/entrypoint requests.
// It always renders the unauthenticated failure.
func (s *Server) handleExceptionEntryPoint(w http.ResponseWriter, r *http.Request) {
	s.writeFailure(w, r, failEntryPoint)
}

// handleExceptionAccessDenied handles GET /exception/accessdenied requests.
// It always renders the forbidden failure.
func (s *Server) handleExceptionAccessDenied(w http.ResponseWriter, r *http.Request) {
	s.writeFailure(w, r, failAccessDenied)
}
