package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/testutil"
	"github.com/alexanderramin/meridian/internal/timeline"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimelineService_Layout(t *testing.T) {
	projects, items, _ := setupRepos(t)
	ctx := context.Background()
	proj := seedProject(t, projects, "Web")

	create := func(title, start, end string, opts ...testutil.ItemOption) *domain.Item {
		it := testutil.NewTestItem(proj.ID, title, append(opts, testutil.WithRange(start, end))...)
		require.NoError(t, items.Create(ctx, it))
		return it
	}
	a := create("A", "2025-06-09", "2025-06-11")
	b := create("B", "2025-06-10", "2025-06-12")
	c := create("C", "2025-06-12", "2025-06-13")
	far := create("Far", "2025-08-01", "2025-08-02")
	create("Gone", "2025-06-09", "2025-06-13", testutil.WithItemStatus(domain.ItemArchived))

	svc := NewTimelineService(projects, items, zerolog.Nop())
	vp := timeline.NewViewport(testutil.MustDate("2025-06-12"), 840, timeline.Weekly, nil)

	view, err := svc.Layout(ctx, proj.ID, vp)
	require.NoError(t, err)

	assert.Equal(t, proj.ID, view.Project.ID)
	assert.Len(t, view.Items, 4, "archived items are not laid out")
	require.Len(t, view.Visible, 3, "the archived item in range is not visible")
	assert.Equal(t, []string{a.ID, b.ID, c.ID},
		[]string{view.Visible[0].ID, view.Visible[1].ID, view.Visible[2].ID})
	assert.Equal(t, 2, view.Layout.LaneCount)
	assert.Equal(t, 0, view.Layout.Lanes[a.ID])
	assert.Equal(t, 1, view.Layout.Lanes[b.ID])
	assert.Equal(t, 0, view.Layout.Lanes[c.ID])
	assert.Equal(t, 0, view.Layout.Lanes[far.ID])
}

func TestTimelineService_ArrangeLogsRejects(t *testing.T) {
	projects, items, _ := setupRepos(t)
	var buf bytes.Buffer
	svc := NewTimelineService(projects, items, zerolog.New(&buf))

	bad := testutil.NewTestItem("p", "Bad")
	bad.EndDate = testutil.MustDate("2025-06-01")
	layout := svc.Arrange([]*domain.Item{bad, testutil.NewTestItem("p", "Good")})

	assert.Equal(t, 1, layout.LaneCount)
	require.Len(t, layout.Rejected, 1)
	assert.Contains(t, buf.String(), "excluding item from layout")
}

func TestTimelineService_UnknownProject(t *testing.T) {
	projects, items, _ := setupRepos(t)
	svc := NewTimelineService(projects, items, zerolog.Nop())

	_, err := svc.Layout(context.Background(), "nope", timeline.NewViewport(testutil.MustDate("2025-06-12"), 840, timeline.Weekly, nil))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
