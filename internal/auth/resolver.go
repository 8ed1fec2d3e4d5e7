// ABOUTME: Maps validated token claims to a full principal via the user store
// ABOUTME: Distinguishes dangling subjects from store failures

package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/workhardslave/memberd/internal/store"
)

// ErrUnknownSubject is returned when the token subject no longer exists,
// for example when the user was deleted after the token was issued.
var ErrUnknownSubject = errors.New("unknown subject")

// UserLookup is the narrow store capability the resolver needs. The full
// Store interface satisfies it; tests can pass a fake.
type UserLookup interface {
	FindUserByID(ctx context.Context, id int64) (*store.User, error)
	FindUserByLoginID(ctx context.Context, loginID string) (*store.User, error)
}

// Resolver resolves token subjects to principals.
type Resolver struct {
	users UserLookup
}

// NewResolver creates a resolver backed by the given user lookup.
func NewResolver(users UserLookup) *Resolver {
	return &Resolver{users: users}
}

// Resolve looks up the claims subject and returns the matching principal
// with the roles currently on record. A subject that no longer exists yields
// ErrUnknownSubject; any other store failure is propagated unchanged so
// callers can tell infrastructure problems apart from dangling tokens.
func (r *Resolver) Resolve(ctx context.Context, claims *Claims) (*Principal, error) {
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSubject, claims.Subject)
	}

	user, err := r.users.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnknownSubject
		}
		return nil, fmt.Errorf("looking up subject %q: %w", claims.Subject, err)
	}

	return &Principal{
		ID:    strconv.FormatInt(user.ID, 10),
		Roles: user.Roles,
	}, nil
}
