// ABOUTME: HTTP middleware establishing request identity from the token header
// ABOUTME: Invalid or absent tokens fall through anonymous; policy enforcement is a later stage

package auth

import (
	"errors"
	"log/slog"
	"net/http"
)

// TokenHeader is the fixed request header carrying the token. There is no
// cookie or query parameter fallback.
const TokenHeader = "X-AUTH-TOKEN"

// DenialHandler renders a policy denial to the client.
type DenialHandler func(w http.ResponseWriter, r *http.Request, d Decision)

// ServerErrorHandler renders an infrastructure failure to the client.
type ServerErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Middleware returns an HTTP middleware that establishes the request
// identity. An absent header, an invalid or expired token, and a subject
// that no longer exists all continue anonymously; only a store failure
// aborts the request, so an outage is never mistaken for public access.
// This middleware never rejects a request on its own.
func Middleware(tokens *TokenService, resolver *Resolver, metrics *Metrics, logger *slog.Logger, onError ServerErrorHandler) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(TokenHeader)
			if raw == "" {
				metrics.observeAuthn(OutcomeAnonymous)
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				logger.Debug("token rejected, continuing anonymous", "error", err)
				metrics.observeAuthn(OutcomeInvalidToken)
				next.ServeHTTP(w, r)
				return
			}

			principal, err := resolver.Resolve(r.Context(), claims)
			if err != nil {
				if errors.Is(err, ErrUnknownSubject) {
					logger.Debug("token subject no longer exists, continuing anonymous", "subject", claims.Subject)
					metrics.observeAuthn(OutcomeUnknownSubject)
					next.ServeHTTP(w, r)
					return
				}
				logger.Error("identity lookup failed", "error", err)
				metrics.observeAuthn(OutcomeStoreError)
				onError(w, r, err)
				return
			}

			metrics.observeAuthn(OutcomeAuthenticated)
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// Enforce returns an HTTP middleware that evaluates the access policy for
// the request and short-circuits denied requests through onDeny. It must run
// after Middleware so the principal is already in the request context.
func Enforce(policy *Policy, metrics *Metrics, onDeny DenialHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := policy.Evaluate(r.Method, r.URL.Path, FromContext(r.Context()))
			metrics.observeDecision(decision)
			if decision != Allow {
				onDeny(w, r, decision)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
