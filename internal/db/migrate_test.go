package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

const ts = "2025-01-01T00:00:00Z"

func insertProject(t *testing.T, db *sql.DB, id, shortID string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO projects (id, short_id, name, status, created_at, updated_at)
		VALUES (?, ?, 'Test', 'active', ?, ?)`, id, shortID, ts, ts)
	require.NoError(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"projects", "project_sequences", "items", "kv_store"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	for _, idx := range []string{"idx_items_project", "idx_items_dates", "idx_projects_short_id"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk, "foreign keys should be enabled")
}

func TestMigrate_ItemColumns(t *testing.T) {
	db := openTestDB(t)

	rows, err := db.Query(`PRAGMA table_info(items)`)
	require.NoError(t, err)
	defer rows.Close()

	cols := map[string]bool{}
	for rows.Next() {
		var cid int
		var name, typ string
		var notNull, pk int
		var dflt sql.NullString
		require.NoError(t, rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk))
		cols[name] = true
	}
	for _, c := range []string{"seq", "lane_hint", "start_date", "end_date", "priority"} {
		assert.True(t, cols[c], "items should have column %s", c)
	}
}

func TestMigrate_ItemsRangeConstraint(t *testing.T) {
	db := openTestDB(t)
	insertProject(t, db, "p1", "TST01")

	_, err := db.Exec(`INSERT INTO items (id, project_id, title, start_date, end_date, created_at, updated_at)
		VALUES ('i1', 'p1', 'Inverted', '2025-06-10', '2025-06-09', ?, ?)`, ts, ts)
	assert.Error(t, err, "end before start should be rejected by CHECK constraint")

	_, err = db.Exec(`INSERT INTO items (id, project_id, title, start_date, end_date, created_at, updated_at)
		VALUES ('i1', 'p1', 'Single day', '2025-06-10', '2025-06-10', ?, ?)`, ts, ts)
	assert.NoError(t, err)
}

func TestMigrate_ItemsEnumAndLaneConstraints(t *testing.T) {
	db := openTestDB(t)
	insertProject(t, db, "p1", "TST01")

	_, err := db.Exec(`INSERT INTO items (id, project_id, title, kind, start_date, end_date, created_at, updated_at)
		VALUES ('i1', 'p1', 'X', 'epic', '2025-06-10', '2025-06-10', ?, ?)`, ts, ts)
	assert.Error(t, err, "unknown kind should be rejected")

	_, err = db.Exec(`INSERT INTO items (id, project_id, title, status, start_date, end_date, created_at, updated_at)
		VALUES ('i1', 'p1', 'X', 'INVALID', '2025-06-10', '2025-06-10', ?, ?)`, ts, ts)
	assert.Error(t, err, "unknown status should be rejected")

	_, err = db.Exec(`INSERT INTO items (id, project_id, title, lane_hint, start_date, end_date, created_at, updated_at)
		VALUES ('i1', 'p1', 'X', -1, '2025-06-10', '2025-06-10', ?, ?)`, ts, ts)
	assert.Error(t, err, "negative lane should be rejected")
}

func TestMigrate_ProjectDeleteCascadesToItems(t *testing.T) {
	db := openTestDB(t)
	insertProject(t, db, "p1", "TST01")
	_, err := db.Exec(`INSERT INTO items (id, project_id, title, start_date, end_date, created_at, updated_at)
		VALUES ('i1', 'p1', 'X', '2025-06-10', '2025-06-11', ?, ?)`, ts, ts)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM projects WHERE id = 'p1'`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestMigrate_ProjectsShortIDPartialUniqueIndex(t *testing.T) {
	db := openTestDB(t)

	// Empty short IDs are allowed repeatedly due to the partial index predicate.
	insertProject(t, db, "p1", "")
	insertProject(t, db, "p2", "")

	insertProject(t, db, "p3", "DUP01")
	_, err := db.Exec(`INSERT INTO projects (id, short_id, name, status, created_at, updated_at)
		VALUES ('p4', 'DUP01', 'Test', 'active', ?, ?)`, ts, ts)
	assert.Error(t, err)
}

func TestMigrate_ProjectsStatusCheckConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO projects (id, short_id, name, status, created_at, updated_at)
		VALUES ('p1', 'TST01', 'Test', 'INVALID', ?, ?)`, ts, ts)
	assert.Error(t, err, "invalid project status should be rejected by CHECK constraint")
}
