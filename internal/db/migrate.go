package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillSeq(db); err != nil {
		return fmt.Errorf("backfilling seq values: %w", err)
	}
	if err := migrateBackfillProjectSequences(db); err != nil {
		return fmt.Errorf("backfilling project sequence allocator state: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT 'active'
		            CHECK(status IN ('active','paused','done','archived')),
		archived_at TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS project_sequences (
		project_id TEXT PRIMARY KEY REFERENCES projects(id) ON DELETE CASCADE,
		next_seq   INTEGER NOT NULL CHECK(next_seq > 0)
	)`,

	`CREATE TABLE IF NOT EXISTS items (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		title       TEXT NOT NULL,
		kind        TEXT NOT NULL DEFAULT 'task'
		            CHECK(kind IN ('task','bug','feature','tracker')),
		status      TEXT NOT NULL DEFAULT 'todo'
		            CHECK(status IN ('todo','in_progress','done','archived')),
		priority    TEXT NOT NULL DEFAULT 'medium'
		            CHECK(priority IN ('low','medium','high','urgent')),
		start_date  TEXT NOT NULL,
		end_date    TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		CHECK(end_date >= start_date)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_items_project ON items(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_items_dates ON items(project_id, start_date, end_date)`,

	`CREATE TABLE IF NOT EXISTS kv_store (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,

	// Add short_id column to projects
	`ALTER TABLE projects ADD COLUMN short_id TEXT NOT NULL DEFAULT ''`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_short_id ON projects(short_id) WHERE short_id != ''`,

	// Project-scoped sequential item numbers
	`ALTER TABLE items ADD COLUMN seq INTEGER NOT NULL DEFAULT 0`,

	// Lane chosen by the last drag; NULL lets layout decide
	`ALTER TABLE items ADD COLUMN lane_hint INTEGER CHECK(lane_hint IS NULL OR lane_hint >= 0)`,
}

// migrateBackfillSeq assigns sequential numbers to existing items that
// don't have one yet (seq = 0), per project in creation order.
// Idempotent: does nothing once every item has seq > 0.
func migrateBackfillSeq(db *sql.DB) error {
	ctx := context.Background()

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items WHERE seq = 0`).Scan(&count); err != nil {
		return fmt.Errorf("checking items seq: %w", err)
	}
	if count == 0 {
		return nil
	}

	projRows, err := db.QueryContext(ctx, `SELECT DISTINCT project_id FROM items WHERE seq = 0 ORDER BY project_id`)
	if err != nil {
		return fmt.Errorf("listing projects for seq backfill: %w", err)
	}
	var projectIDs []string
	for projRows.Next() {
		var pid string
		if err := projRows.Scan(&pid); err != nil {
			projRows.Close()
			return fmt.Errorf("scanning project id: %w", err)
		}
		projectIDs = append(projectIDs, pid)
	}
	projRows.Close()

	for _, pid := range projectIDs {
		if err := backfillProjectSeq(ctx, db, pid); err != nil {
			return fmt.Errorf("backfilling seq for project %s: %w", pid, err)
		}
	}
	return nil
}

func backfillProjectSeq(ctx context.Context, db *sql.DB, projectID string) error {
	var maxSeq int
	if err := db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) FROM items WHERE project_id = ?`, projectID).Scan(&maxSeq); err != nil {
		return fmt.Errorf("reading max seq: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id FROM items WHERE project_id = ? AND seq = 0 ORDER BY created_at, id`, projectID)
	if err != nil {
		return fmt.Errorf("listing items: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		ids = append(ids, id)
	}
	rows.Close()

	seq := maxSeq + 1
	for _, id := range ids {
		if _, err := db.ExecContext(ctx,
			`UPDATE items SET seq = ? WHERE id = ? AND seq = 0`, seq, id); err != nil {
			return fmt.Errorf("updating item seq: %w", err)
		}
		seq++
	}
	return nil
}

func migrateBackfillProjectSequences(db *sql.DB) error {
	ctx := context.Background()

	// Populate (or raise) next_seq for every known project using the current
	// max assigned item seq.
	query := `INSERT INTO project_sequences (project_id, next_seq)
		SELECT p.id, COALESCE(MAX(i.seq), 0) + 1
		FROM projects p
		LEFT JOIN items i ON i.project_id = p.id AND i.seq > 0
		GROUP BY p.id
		ON CONFLICT(project_id) DO UPDATE
		SET next_seq = MAX(project_sequences.next_seq, excluded.next_seq)`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("upserting project sequence rows: %w", err)
	}

	return nil
}
