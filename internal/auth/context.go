// ABOUTME: Request-scoped security context carrying the resolved principal
// ABOUTME: Provides WithPrincipal/FromContext for propagation via context

package auth

import (
	"context"
)

// Principal is the resolved identity attached to a request after successful
// authentication. It is immutable once resolved and lives only for the
// duration of one request.
type Principal struct {
	ID    string   // user primary key, stringified
	Roles []string // roles in assignment order
}

// HasRole reports whether the principal was granted the exact role name.
// There is no role hierarchy.
func (p *Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// principalKey is the key type for storing the Principal in context.Context.
type principalKey struct{}

// WithPrincipal returns a new context with the Principal attached.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext retrieves the Principal from the context. A nil result means
// the request is anonymous.
func FromContext(ctx context.Context) *Principal {
	val := ctx.Value(principalKey{})
	if val == nil {
		return nil
	}
	p, ok := val.(*Principal)
	if !ok {
		return nil
	}
	return p
}

// MustFromContext retrieves the Principal from the context, panicking if not
// present. Only for handlers behind a rule that guarantees authentication.
func MustFromContext(ctx context.Context) *Principal {
	p := FromContext(ctx)
	if p == nil {
		panic("auth: Principal not found in context")
	}
	return p
}
