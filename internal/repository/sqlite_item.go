package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/meridian/internal/db"
	"github.com/alexanderramin/meridian/internal/domain"
)

// itemColumns is the canonical SELECT column list for items.
const itemColumns = `id, project_id, seq, title, kind, status, priority,
		start_date, end_date, lane_hint, created_at, updated_at`

// SQLiteItemRepo implements ItemRepo using a SQLite database.
type SQLiteItemRepo struct {
	db db.DBTX
}

// NewSQLiteItemRepo creates a new SQLiteItemRepo.
func NewSQLiteItemRepo(conn db.DBTX) *SQLiteItemRepo {
	return &SQLiteItemRepo{db: conn}
}

func (r *SQLiteItemRepo) Create(ctx context.Context, w *domain.Item) error {
	query := `INSERT INTO items (` + itemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		w.ID,
		w.ProjectID,
		w.Seq,
		w.Title,
		string(w.Kind),
		string(w.Status),
		string(w.Priority),
		w.StartDate.Format(domain.DateLayout),
		w.EndDate.Format(domain.DateLayout),
		nullableIntToValue(w.LaneHint),
		w.CreatedAt.Format(time.RFC3339),
		w.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting item: %w", err)
	}
	return nil
}

func (r *SQLiteItemRepo) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = ?`
	return r.scanItem(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteItemRepo) GetBySeq(ctx context.Context, projectID string, seq int) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE project_id = ? AND seq = ?`
	return r.scanItem(r.db.QueryRowContext(ctx, query, projectID, seq))
}

func (r *SQLiteItemRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE project_id = ?
		ORDER BY start_date, seq`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing items by project: %w", err)
	}
	defer rows.Close()
	return r.scanItems(rows)
}

// ListInRange returns the project's items whose inclusive range overlaps
// [from, to].
func (r *SQLiteItemRepo) ListInRange(ctx context.Context, projectID string, from, to time.Time) ([]*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items
		WHERE project_id = ? AND start_date <= ? AND end_date >= ?
		ORDER BY start_date, seq`
	rows, err := r.db.QueryContext(ctx, query, projectID,
		to.Format(domain.DateLayout), from.Format(domain.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("listing items in range: %w", err)
	}
	defer rows.Close()
	return r.scanItems(rows)
}

func (r *SQLiteItemRepo) Update(ctx context.Context, w *domain.Item) error {
	query := `UPDATE items SET title = ?, kind = ?, status = ?, priority = ?,
		start_date = ?, end_date = ?, lane_hint = ?, seq = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		w.Title,
		string(w.Kind),
		string(w.Status),
		string(w.Priority),
		w.StartDate.Format(domain.DateLayout),
		w.EndDate.Format(domain.DateLayout),
		nullableIntToValue(w.LaneHint),
		w.Seq,
		w.UpdatedAt.Format(time.RFC3339),
		w.ID,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("updating item %s: %w", w.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteItemRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

func (r *SQLiteItemRepo) scanItem(s scanner) (*domain.Item, error) {
	w, err := r.scanRow(s)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item: %w", ErrNotFound)
	}
	return w, err
}

func (r *SQLiteItemRepo) scanItems(rows *sql.Rows) ([]*domain.Item, error) {
	var items []*domain.Item
	for rows.Next() {
		w, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}
	return items, nil
}

func (r *SQLiteItemRepo) scanRow(s scanner) (*domain.Item, error) {
	var w domain.Item
	var kindStr, statusStr, priorityStr string
	var startStr, endStr, createdAtStr, updatedAtStr string
	var lane sql.NullInt64

	err := s.Scan(
		&w.ID, &w.ProjectID, &w.Seq, &w.Title,
		&kindStr, &statusStr, &priorityStr,
		&startStr, &endStr, &lane,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning item: %w", err)
	}

	w.Kind = domain.ItemKind(kindStr)
	w.Status = domain.ItemStatus(statusStr)
	w.Priority = domain.Priority(priorityStr)
	w.LaneHint = nullableIntFromSQL(lane)

	var parseErr error
	if w.StartDate, parseErr = domain.ParseDate(startStr); parseErr != nil {
		return nil, fmt.Errorf("parsing start_date: %w", parseErr)
	}
	if w.EndDate, parseErr = domain.ParseDate(endStr); parseErr != nil {
		return nil, fmt.Errorf("parsing end_date: %w", parseErr)
	}
	if w.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr); parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	if w.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr); parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &w, nil
}
