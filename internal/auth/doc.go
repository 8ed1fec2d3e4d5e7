// ABOUTME: Package documentation for the auth package
// ABOUTME: Describes token handling, identity resolution, and access policy

// Package auth provides authentication and authorization for memberd.
//
// # Tokens
//
// API clients authenticate with JWT tokens signed with HS256. The signing
// secret and validity window are injected at construction:
//
//	tokens, err := NewTokenService(secret, time.Hour)
//	token, err := tokens.Issue("42", []string{"ROLE_USER"})
//	claims, err := tokens.Verify(token)
//
// Claims carry the subject (the user's primary key), the role list, and the
// issued-at/expiry timestamps. Validation fails closed: a bad signature, a
// malformed structure, or a past expiry all yield an error.
//
// # Request pipeline
//
// Two middleware stages run before every handler:
//
//  1. Middleware reads the X-AUTH-TOKEN header, verifies the token, and
//     resolves its subject to a Principal through the user store. Absent or
//     invalid tokens are not errors at this stage; the request simply stays
//     anonymous so public routes remain reachable. Only a store failure
//     aborts the request.
//
//  2. Enforce evaluates the declarative access policy against the request
//     path, method, and principal, and short-circuits denied requests with
//     an explicit Decision (DenyUnauthenticated or DenyForbidden) instead
//     of an error value.
//
// The resolved Principal travels in the request context via
// WithPrincipal/FromContext, giving each in-flight request its own isolated
// security context.
//
// # Access rules
//
// Rules map segment patterns ("*" one segment, "**" the rest) plus an
// optional method to a Requirement: Public, Authenticated, or Role(name).
// The most specific match wins; unmatched requests fall through to the
// policy's default requirement.
package auth
