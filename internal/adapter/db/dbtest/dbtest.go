// Package dbtest opens throwaway SQLite databases with the production schema
// and seeds organisation data for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	dbadapter "github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/db"
)

// New returns a migrated database in the test's temp dir, closed on cleanup.
func New(t testing.TB) *sqlx.DB {
	t.Helper()

	db, err := dbadapter.OpenSQLite(filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	require.NoError(t, dbadapter.Migrate(db))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func SeedUser(t testing.TB, db *sqlx.DB, id, name string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO users (id, name, email, role) VALUES (?, ?, ?, 'EMPLOYEE')`, id, name, id+"@example.com")
	require.NoError(t, err)
}

func SeedGroup(t testing.TB, db *sqlx.DB, id string, members ...string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO user_groups (id, name) VALUES (?, ?)`, id, id)
	require.NoError(t, err)
	for _, m := range members {
		_, err := db.Exec(`INSERT INTO user_group_members (group_id, user_id) VALUES (?, ?)`, id, m)
		require.NoError(t, err)
	}
}

func SeedProject(t testing.TB, db *sqlx.DB, id, name, code string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO projects (id, name, code) VALUES (?, ?, ?)`, id, name, code)
	require.NoError(t, err)
}
