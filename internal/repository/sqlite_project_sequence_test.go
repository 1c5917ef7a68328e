package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/meridian/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectSequenceRepo_NextProjectSeq_EmptyProjectStartsAtOne(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	projectRepo := NewSQLiteProjectRepo(database)
	seqRepo := NewSQLiteProjectSequenceRepo(database)

	proj := testutil.NewTestProject("Seq Project")
	require.NoError(t, projectRepo.Create(ctx, proj))

	seq1, err := seqRepo.NextProjectSeq(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, seq1)

	seq2, err := seqRepo.NextProjectSeq(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, seq2)
}

func TestProjectSequenceRepo_NextProjectSeq_BootstrapsFromExistingRows(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	projectRepo := NewSQLiteProjectRepo(database)
	itemRepo := NewSQLiteItemRepo(database)
	seqRepo := NewSQLiteProjectSequenceRepo(database)

	proj := testutil.NewTestProject("Seq Bootstrap")
	require.NoError(t, projectRepo.Create(ctx, proj))

	item := testutil.NewTestItem(proj.ID, "Task")
	item.Seq = 9
	require.NoError(t, itemRepo.Create(ctx, item))

	next, err := seqRepo.NextProjectSeq(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, next)
}

func TestProjectSequenceRepo_ProjectsAreIndependent(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	projectRepo := NewSQLiteProjectRepo(database)
	seqRepo := NewSQLiteProjectSequenceRepo(database)

	a := testutil.NewTestProject("Alpha")
	b := testutil.NewTestProject("Beta")
	require.NoError(t, projectRepo.Create(ctx, a))
	require.NoError(t, projectRepo.Create(ctx, b))

	_, err := seqRepo.NextProjectSeq(ctx, a.ID)
	require.NoError(t, err)
	_, err = seqRepo.NextProjectSeq(ctx, a.ID)
	require.NoError(t, err)

	next, err := seqRepo.NextProjectSeq(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, next)
}
