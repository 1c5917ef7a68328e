package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupItemRepo(t *testing.T) (*SQLiteItemRepo, *domain.Project) {
	t.Helper()
	db := testutil.NewTestDB(t)
	proj := testutil.NewTestProject("Items")
	require.NoError(t, NewSQLiteProjectRepo(db).Create(context.Background(), proj))
	return NewSQLiteItemRepo(db), proj
}

func TestItemRepo_CreateAndGet(t *testing.T) {
	repo, proj := setupItemRepo(t)
	ctx := context.Background()

	it := testutil.NewTestItem(proj.ID, "Ship login",
		testutil.WithKind(domain.KindFeature),
		testutil.WithPriority(domain.PriorityHigh),
		testutil.WithRange("2025-06-10", "2025-06-12"),
		testutil.WithLaneHint(2),
	)
	it.Seq = 1
	require.NoError(t, repo.Create(ctx, it))

	got, err := repo.GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ship login", got.Title)
	assert.Equal(t, domain.KindFeature, got.Kind)
	assert.Equal(t, domain.PriorityHigh, got.Priority)
	assert.Equal(t, testutil.MustDate("2025-06-10"), got.StartDate)
	assert.Equal(t, testutil.MustDate("2025-06-12"), got.EndDate)
	require.NotNil(t, got.LaneHint)
	assert.Equal(t, 2, *got.LaneHint)

	bySeq, err := repo.GetBySeq(ctx, proj.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, it.ID, bySeq.ID)
}

func TestItemRepo_GetByID_NotFound(t *testing.T) {
	repo, _ := setupItemRepo(t)
	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestItemRepo_RejectsInvertedRange(t *testing.T) {
	repo, proj := setupItemRepo(t)
	it := testutil.NewTestItem(proj.ID, "Backwards", testutil.WithRange("2025-06-12", "2025-06-10"))
	assert.Error(t, repo.Create(context.Background(), it), "the CHECK constraint guards the range")
}

func TestItemRepo_ListByProjectOrdersByStart(t *testing.T) {
	repo, proj := setupItemRepo(t)
	ctx := context.Background()

	late := testutil.NewTestItem(proj.ID, "Late", testutil.WithRange("2025-06-20", "2025-06-21"))
	early := testutil.NewTestItem(proj.ID, "Early", testutil.WithRange("2025-06-01", "2025-06-02"))
	late.Seq, early.Seq = 1, 2
	require.NoError(t, repo.Create(ctx, late))
	require.NoError(t, repo.Create(ctx, early))

	items, err := repo.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Early", items[0].Title)
	assert.Equal(t, "Late", items[1].Title)
}

func TestItemRepo_ListInRange(t *testing.T) {
	repo, proj := setupItemRepo(t)
	ctx := context.Background()

	for i, r := range [][2]string{
		{"2025-06-01", "2025-06-08"}, // ends the day before
		{"2025-06-05", "2025-06-09"}, // touches the first day
		{"2025-06-12", "2025-06-20"}, // starts inside
		{"2025-06-16", "2025-06-18"}, // starts after
	} {
		it := testutil.NewTestItem(proj.ID, r[0], testutil.WithRange(r[0], r[1]))
		it.Seq = i + 1
		require.NoError(t, repo.Create(ctx, it))
	}

	items, err := repo.ListInRange(ctx, proj.ID, testutil.MustDate("2025-06-09"), testutil.MustDate("2025-06-15"))
	require.NoError(t, err)
	var titles []string
	for _, it := range items {
		titles = append(titles, it.Title)
	}
	assert.Equal(t, []string{"2025-06-05", "2025-06-12"}, titles)
}

func TestItemRepo_UpdateAndClearLane(t *testing.T) {
	repo, proj := setupItemRepo(t)
	ctx := context.Background()

	it := testutil.NewTestItem(proj.ID, "Move me", testutil.WithLaneHint(1))
	require.NoError(t, repo.Create(ctx, it))

	it.StartDate = testutil.MustDate("2025-06-16")
	it.EndDate = testutil.MustDate("2025-06-16")
	it.Status = domain.ItemInProgress
	it.LaneHint = nil
	require.NoError(t, repo.Update(ctx, it))

	got, err := repo.GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.DurationDays())
	assert.Equal(t, domain.ItemInProgress, got.Status)
	assert.Nil(t, got.LaneHint)
}

func TestItemRepo_UpdateMissing(t *testing.T) {
	repo, proj := setupItemRepo(t)
	it := testutil.NewTestItem(proj.ID, "Ghost")
	assert.ErrorIs(t, repo.Update(context.Background(), it), ErrNotFound)
}

func TestItemRepo_Delete(t *testing.T) {
	repo, proj := setupItemRepo(t)
	ctx := context.Background()

	it := testutil.NewTestItem(proj.ID, "Temp")
	require.NoError(t, repo.Create(ctx, it))
	require.NoError(t, repo.Delete(ctx, it.ID))

	_, err := repo.GetByID(ctx, it.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
