package testutil

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/alexanderramin/meridian/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB opens a migrated in-memory database that is closed with the test.
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err, "open in-memory database")
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// NewTestUoW returns the real unit of work over database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

// FailingTableUoW runs transactions through the real unit of work, but
// the first write whose target is Table fails with Err. Tests use it to
// check what a rollback leaves behind.
type FailingTableUoW struct {
	DB    *sql.DB
	Table string
	Err   error

	// Writes counts the statements that reached the database before the
	// failure.
	Writes int
}

func (u *FailingTableUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &tableFailer{DBTX: tx, uow: u})
	})
}

type tableFailer struct {
	db.DBTX
	uow    *FailingTableUoW
	failed bool
}

func (f *tableFailer) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if !f.failed && writeTarget(query) == f.uow.Table {
		f.failed = true
		return nil, f.uow.Err
	}
	f.uow.Writes++
	return f.DBTX.ExecContext(ctx, query, args...)
}

// QueryRowContext covers UPDATE ... RETURNING. A failure there cannot be
// injected through *sql.Row, so such statements only count as writes.
func (f *tableFailer) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	if writeTarget(query) != "" {
		f.uow.Writes++
	}
	return f.DBTX.QueryRowContext(ctx, query, args...)
}

// writeTarget returns the table an INSERT, UPDATE or DELETE writes to, or
// "" for reads.
func writeTarget(query string) string {
	fields := strings.Fields(query)
	if len(fields) < 2 {
		return ""
	}
	next := func(after string) string {
		for i := 1; i < len(fields)-1; i++ {
			if strings.EqualFold(fields[i], after) {
				return strings.TrimSuffix(fields[i+1], "(")
			}
		}
		return ""
	}
	switch strings.ToUpper(fields[0]) {
	case "INSERT":
		return next("INTO")
	case "UPDATE":
		return fields[1]
	case "DELETE":
		return next("FROM")
	}
	return ""
}
