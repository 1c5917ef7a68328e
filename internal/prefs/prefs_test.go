package prefs_test

import (
	"context"
	"testing"

	"github.com/alexanderramin/meridian/internal/kv"
	"github.com/alexanderramin/meridian/internal/prefs"
	"github.com/alexanderramin/meridian/internal/repository"
	"github.com/alexanderramin/meridian/internal/testutil"
	"github.com/alexanderramin/meridian/internal/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]kv.KV {
	t.Helper()
	return map[string]kv.KV{
		"memory": kv.NewMemoryStore(),
		"disk":   kv.NewDiskStore(t.TempDir()),
		"sqlite": repository.NewSQLiteKVStore(testutil.NewTestDB(t)),
	}
}

func TestStore_DefaultsWhenMissing(t *testing.T) {
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := prefs.NewStore(backend, timeline.Monthly)
			p, err := store.Load(context.Background(), "p1")
			require.NoError(t, err)
			assert.Equal(t, timeline.Monthly, p.Granularity)
			assert.Empty(t, p.LastSelectedItemID)
			assert.False(t, p.IsCollapsed("lane-0"))
		})
	}
}

func TestStore_RoundTripPerProject(t *testing.T) {
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := prefs.NewStore(backend, timeline.Weekly)

			var p prefs.Preferences
			p.Toggle("done")
			p.LastSelectedItemID = "item-7"
			p.Granularity = timeline.Quarterly
			require.NoError(t, store.Save(ctx, "p1", p))

			got, err := store.Load(ctx, "p1")
			require.NoError(t, err)
			assert.True(t, got.IsCollapsed("done"))
			assert.Equal(t, "item-7", got.LastSelectedItemID)
			assert.Equal(t, timeline.Quarterly, got.Granularity)

			other, err := store.Load(ctx, "p2")
			require.NoError(t, err)
			assert.Equal(t, timeline.Weekly, other.Granularity)

			ids, err := store.Projects(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"p1"}, ids)

			require.NoError(t, store.Delete(ctx, "p1"))
			got, err = store.Load(ctx, "p1")
			require.NoError(t, err)
			assert.Equal(t, timeline.Weekly, got.Granularity)
		})
	}
}

func TestStore_UnknownGranularityFallsBack(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryStore()
	require.NoError(t, backend.Set(ctx, "prefs:p1", map[string]string{"granularity": "hourly"}))

	p, err := prefs.NewStore(backend, timeline.Weekly).Load(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, timeline.Weekly, p.Granularity)
}

func TestPreferences_Toggle(t *testing.T) {
	var p prefs.Preferences
	p.Toggle("a")
	assert.True(t, p.IsCollapsed("a"))
	p.Toggle("a")
	assert.False(t, p.IsCollapsed("a"))
	assert.Empty(t, p.Collapsed)
}
