// Package config provides PostgreSQL connections for the journal integration tests.
//
// All factories connect to the database named by EFFECTS_POSTGRES_DSN, falling back to a
// local test database. Each supported adapter type (pgx.Pool, sql.DB, sqlx.DB) has its own
// factory so the same test suite can run against all of them.
package config
