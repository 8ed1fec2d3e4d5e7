// ABOUTME: Store interface and user entity for memberd persistence
// ABOUTME: Defines the User struct and sentinel errors for database operations

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested user does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicateLoginID is returned when creating a user with a login id that
// is already taken
var ErrDuplicateLoginID = errors.New("login id already exists")

// Role names assigned to users. Every signed-up user gets RoleUser; RoleAdmin
// additionally gates the user-administration endpoints.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// User represents a registered member account.
// PasswordHash is never serialized into API responses.
type User struct {
	ID           int64     `json:"id"`
	LoginID      string    `json:"uid"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Store defines the interface for user persistence
type Store interface {
	// CreateUser inserts a new user and assigns its generated ID.
	// Returns ErrDuplicateLoginID if the login id is taken.
	CreateUser(ctx context.Context, user *User) error

	// FindUserByID returns the user with the given primary key.
	// Returns ErrNotFound if no such user exists.
	FindUserByID(ctx context.Context, id int64) (*User, error)

	// FindUserByLoginID returns the user with the given login id.
	// Returns ErrNotFound if no such user exists.
	FindUserByLoginID(ctx context.Context, loginID string) (*User, error)

	// ListUsers returns all users ordered by ID.
	ListUsers(ctx context.Context) ([]*User, error)

	// UpdateUser updates the login id and name of an existing user.
	// Returns ErrNotFound if the user does not exist.
	UpdateUser(ctx context.Context, user *User) error

	// DeleteUser removes a user. Deleting a non-existent user succeeds
	// silently.
	DeleteUser(ctx context.Context, id int64) error

	// Close releases the underlying database handle.
	Close() error
}
