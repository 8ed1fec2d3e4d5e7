// ABOUTME: Package documentation for the store package
// ABOUTME: Describes the user persistence layer and its implementations

// Package store provides user persistence for memberd.
//
// The Store interface covers the full user lifecycle: sign-up inserts a
// user with its ordered role list, the security layer resolves token
// subjects through FindUserByID, and the administration endpoints use the
// list/update/delete operations.
//
// Two implementations exist:
//
//   - SQLiteStore: the production store, backed by modernc.org/sqlite with
//     WAL mode and schema creation on open. Roles live in a separate
//     user_roles table and keep their assignment order.
//
//   - MockStore: an in-memory store for tests. Its ForcedErr field injects
//     infrastructure failures so callers can verify that a broken store is
//     not mistaken for a missing user.
//
// Lookups distinguish ErrNotFound (the user does not exist) from other
// errors (the store itself failed); callers rely on that distinction to
// fail closed without masking outages.
package store
