// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Provides user persistence with automatic schema creation

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			login_id      TEXT NOT NULL UNIQUE,
			name          TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at    TEXT NOT NULL,
			updated_at    TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS user_roles (
			user_id  INTEGER NOT NULL,
			position INTEGER NOT NULL,
			role     TEXT NOT NULL,
			PRIMARY KEY (user_id, role),
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_user_roles_user
			ON user_roles(user_id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}

	return nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateUser inserts a new user with its role list and assigns the
// generated ID. Returns ErrDuplicateLoginID when the login id is taken.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *User) error {
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO users (login_id, name, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		user.LoginID,
		user.Name,
		user.PasswordHash,
		user.CreatedAt.Format(time.RFC3339),
		user.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return ErrDuplicateLoginID
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading generated id: %w", err)
	}
	user.ID = id

	if err := insertRoles(ctx, tx, id, user.Roles); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing user: %w", err)
	}

	s.logger.Debug("created user", "id", user.ID, "login_id", user.LoginID)
	return nil
}

// FindUserByID retrieves a user by primary key.
// Returns ErrNotFound if the user doesn't exist.
func (s *SQLiteStore) FindUserByID(ctx context.Context, id int64) (*User, error) {
	return s.findUser(ctx, "id = ?", id)
}

// FindUserByLoginID retrieves a user by login id.
// Returns ErrNotFound if the user doesn't exist.
func (s *SQLiteStore) FindUserByLoginID(ctx context.Context, loginID string) (*User, error) {
	return s.findUser(ctx, "login_id = ?", loginID)
}

func (s *SQLiteStore) findUser(ctx context.Context, where string, arg any) (*User, error) {
	query := `
		SELECT id, login_id, name, password_hash, created_at, updated_at
		FROM users
		WHERE ` + where

	var user User
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.LoginID,
		&user.Name,
		&user.PasswordHash,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	user.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	user.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	roles, err := s.loadRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Roles = roles

	return &user, nil
}

// ListUsers returns all users ordered by ID.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, login_id, name, password_hash, created_at, updated_at
		FROM users
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		var user User
		var createdAt, updatedAt string
		if err := rows.Scan(&user.ID, &user.LoginID, &user.Name, &user.PasswordHash, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		user.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		user.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}

	for _, user := range users {
		roles, err := s.loadRoles(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		user.Roles = roles
	}

	return users, nil
}

// UpdateUser updates the login id and name of an existing user.
// Roles and password hash are left untouched.
func (s *SQLiteStore) UpdateUser(ctx context.Context, user *User) error {
	user.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET login_id = ?, name = ?, updated_at = ?
		WHERE id = ?
	`,
		user.LoginID,
		user.Name,
		user.UpdatedAt.Format(time.RFC3339),
		user.ID,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return ErrDuplicateLoginID
		}
		return fmt.Errorf("updating user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("updated user", "id", user.ID, "login_id", user.LoginID)
	return nil
}

// DeleteUser removes a user and its roles. This operation is idempotent -
// deleting a non-existent user succeeds silently.
func (s *SQLiteStore) DeleteUser(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	s.logger.Debug("deleted user", "id", id)
	return nil
}

// loadRoles returns the role list of a user preserving assignment order.
func (s *SQLiteStore) loadRoles(ctx context.Context, userID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT role FROM user_roles
		WHERE user_id = ?
		ORDER BY position
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing roles: %w", err)
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("scanning role: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating roles: %w", err)
	}

	return roles, nil
}

func insertRoles(ctx context.Context, tx *sql.Tx, userID int64, roles []string) error {
	for i, role := range roles {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO user_roles (user_id, position, role)
			VALUES (?, ?, ?)
		`, userID, i, role); err != nil {
			return fmt.Errorf("inserting role %q: %w", role, err)
		}
	}
	return nil
}

// isConstraintViolation checks if an error is a SQLite constraint violation
func isConstraintViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
