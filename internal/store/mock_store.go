// ABOUTME: In-memory mock implementation of the Store interface for tests
// ABOUTME: Safe for concurrent use and supports error injection

package store

import (
	"context"
	"sync"
	"time"
)

// MockStore is an in-memory Store for tests. When ForcedErr is set, every
// operation fails with it, which lets tests exercise infrastructure-failure
// paths distinct from ErrNotFound.
type MockStore struct {
	mu        sync.Mutex
	nextID    int64
	users     map[int64]*User
	ForcedErr error
}

// NewMockStore creates an empty in-memory store.
func NewMockStore() *MockStore {
	return &MockStore{
		nextID: 1,
		users:  make(map[int64]*User),
	}
}

// CreateUser inserts a user, assigning the next sequential ID.
func (m *MockStore) CreateUser(ctx context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ForcedErr != nil {
		return m.ForcedErr
	}

	for _, existing := range m.users {
		if existing.LoginID == user.LoginID {
			return ErrDuplicateLoginID
		}
	}

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = cloneUser(user)
	return nil
}

// FindUserByID returns the user with the given ID or ErrNotFound.
func (m *MockStore) FindUserByID(ctx context.Context, id int64) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}

	user, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(user), nil
}

// FindUserByLoginID returns the user with the given login id or ErrNotFound.
func (m *MockStore) FindUserByLoginID(ctx context.Context, loginID string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}

	for _, user := range m.users {
		if user.LoginID == loginID {
			return cloneUser(user), nil
		}
	}
	return nil, ErrNotFound
}

// ListUsers returns all users ordered by ID.
func (m *MockStore) ListUsers(ctx context.Context) ([]*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}

	var users []*User
	for id := int64(1); id < m.nextID; id++ {
		if user, ok := m.users[id]; ok {
			users = append(users, cloneUser(user))
		}
	}
	return users, nil
}

// UpdateUser updates login id and name of an existing user.
func (m *MockStore) UpdateUser(ctx context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ForcedErr != nil {
		return m.ForcedErr
	}

	existing, ok := m.users[user.ID]
	if !ok {
		return ErrNotFound
	}

	existing.LoginID = user.LoginID
	existing.Name = user.Name
	existing.UpdatedAt = time.Now().UTC()
	return nil
}

// DeleteUser removes a user. Deleting a non-existent user succeeds silently.
func (m *MockStore) DeleteUser(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ForcedErr != nil {
		return m.ForcedErr
	}

	delete(m.users, id)
	return nil
}

// Close is a no-op for the mock store.
func (m *MockStore) Close() error {
	return nil
}

func cloneUser(u *User) *User {
	clone := *u
	clone.Roles = append([]string(nil), u.Roles...)
	return &clone
}
