package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/service"
	"github.com/alexanderramin/meridian/internal/testutil"
	"github.com/alexanderramin/meridian/internal/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Screen geometry of the seeded project at 120x40, weekly zoom on
// 2025-06-12: 12 days from Jun 6, 10 columns per day, lane 0 on row 5.
// Design (Jun 9-11) covers columns 30-59, Build (Jun 16-18) 100-119.
const (
	lane0Row   = 5
	designBody = 40
)

// rejectReschedule fails every reschedule and delegates the rest.
type rejectReschedule struct {
	service.ItemService
}

func (rejectReschedule) Reschedule(context.Context, timeline.Mutation) (*domain.Item, error) {
	return nil, errStoreDown
}

func TestTimelineView_Renders(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)
	d := NewTestDriver(t, app)

	d.OpenTimeline()
	require.Equal(t, ViewTimeline, d.ActiveViewID())

	tv := d.Timeline()
	assert.Equal(t, testutil.MustDate("2025-06-06"), tv.vp.WindowStart())
	assert.Equal(t, 12, tv.vp.VisibleDays)

	out := stripANSI(d.View())
	assert.Contains(t, out, "WEEKLY")
	assert.Contains(t, out, "#1 Design")
	assert.Contains(t, out, "Timeline")
}

func TestTimelineView_DragCommits(t *testing.T) {
	app := testApp(t)
	_, design, _ := seedProject(t, app)
	d := NewTestDriver(t, app)
	d.OpenTimeline()

	// Column 40 is Jun 10, column 60 is Jun 12: two days later.
	d.MouseDown(designBody, lane0Row)
	require.Equal(t, timeline.StateActive, d.Timeline().controller.State())
	assert.Equal(t, 1, d.State().Bus.Listeners())

	d.MouseMove(60, lane0Row)
	s := d.Timeline().controller.Session()
	require.NotNil(t, s)
	assert.True(t, s.IsValid)
	assert.Equal(t, testutil.MustDate("2025-06-11"), s.PreviewRange.Start)
	assert.Contains(t, stripANSI(d.View()), "move Jun 11 → Jun 13 (3d)")

	d.MouseUp(60, lane0Row)
	assert.Equal(t, timeline.StateIdle, d.Timeline().controller.State())
	assert.Zero(t, d.State().Bus.Listeners(), "session must release the bus")

	got := mustGetItem(t, app, design.ID)
	assert.Equal(t, testutil.MustDate("2025-06-11"), got.StartDate)
	assert.Equal(t, testutil.MustDate("2025-06-13"), got.EndDate)

	onBoard, ok := d.State().Board.Item(design.ID)
	require.True(t, ok)
	assert.Equal(t, got.StartDate, onBoard.StartDate)
}

func TestTimelineView_OverlappingDropCancels(t *testing.T) {
	app := testApp(t)
	_, design, _ := seedProject(t, app)
	d := NewTestDriver(t, app)
	d.OpenTimeline()

	// Column 90 is Jun 15: five days later lands on Build.
	d.Drag(designBody, lane0Row, [2]int{90, lane0Row})

	assert.Equal(t, timeline.StateIdle, d.Timeline().controller.State())
	assert.Zero(t, d.State().Bus.Listeners())
	assert.Contains(t, d.Notice(), "Drop cancelled")

	got := mustGetItem(t, app, design.ID)
	assert.Equal(t, testutil.MustDate("2025-06-09"), got.StartDate)
}

func TestTimelineView_ResizeEndByEdge(t *testing.T) {
	app := testApp(t)
	_, design, _ := seedProject(t, app)
	d := NewTestDriver(t, app)
	d.OpenTimeline()

	// Column 59 is the last cell of Design (x 714, 6px from its right
	// edge), so the press grabs the end handle. Column 79 is Jun 13.
	d.Drag(59, lane0Row, [2]int{79, lane0Row})

	got := mustGetItem(t, app, design.ID)
	assert.Equal(t, testutil.MustDate("2025-06-09"), got.StartDate)
	assert.Equal(t, testutil.MustDate("2025-06-13"), got.EndDate)
}

func TestTimelineView_EscCancelsDrag(t *testing.T) {
	app := testApp(t)
	_, design, _ := seedProject(t, app)
	d := NewTestDriver(t, app)
	d.OpenTimeline()

	d.MouseDown(designBody, lane0Row)
	d.MouseMove(60, lane0Row)
	d.PressEsc()

	assert.Equal(t, ViewTimeline, d.ActiveViewID(), "esc cancels the drag, not the view")
	assert.Equal(t, timeline.StateIdle, d.Timeline().controller.State())
	assert.Equal(t, timeline.StateCancelled, d.Timeline().controller.LastSession().State)
	assert.Zero(t, d.State().Bus.Listeners())

	// The release after a cancel is ignored.
	d.MouseUp(60, lane0Row)
	got := mustGetItem(t, app, design.ID)
	assert.Equal(t, testutil.MustDate("2025-06-09"), got.StartDate)

	d.PressEsc()
	assert.Equal(t, ViewItemList, d.ActiveViewID())
}

func TestTimelineView_QuitReleasesActiveDrag(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)
	d := NewTestDriver(t, app)
	d.OpenTimeline()

	d.MouseDown(designBody, lane0Row)
	require.Equal(t, 1, d.State().Bus.Listeners())

	d.PressCtrlC()
	assert.True(t, d.IsQuitting())
	assert.Zero(t, d.State().Bus.Listeners())
}

func TestTimelineView_FailedCommitReverts(t *testing.T) {
	app := testApp(t)
	_, design, _ := seedProject(t, app)
	app.Items = rejectReschedule{ItemService: app.Items}
	d := NewTestDriver(t, app)
	d.OpenTimeline()

	d.Drag(designBody, lane0Row, [2]int{60, lane0Row})

	assert.Contains(t, d.Notice(), "change reverted")
	onBoard, ok := d.State().Board.Item(design.ID)
	require.True(t, ok)
	assert.Equal(t, testutil.MustDate("2025-06-09"), onBoard.StartDate, "bar snaps back")
	assert.Equal(t, testutil.MustDate("2025-06-09"), mustGetItem(t, app, design.ID).StartDate)
}

func TestTimelineView_PressOnEmptySpacePans(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)
	d := NewTestDriver(t, app)
	d.OpenTimeline()

	// Empty cells in lane 0 between the two bars.
	d.Drag(80, lane0Row, [2]int{70, lane0Row})
	assert.Equal(t, timeline.StateIdle, d.Timeline().controller.State())
	assert.Equal(t, testutil.MustDate("2025-06-07"), d.Timeline().vp.WindowStart())
}

func TestTimelineView_Navigation(t *testing.T) {
	app := testApp(t)
	p, _, _ := seedProject(t, app)
	d := NewTestDriver(t, app)
	d.OpenTimeline()

	d.PressKey('l')
	assert.Equal(t, testutil.MustDate("2025-06-13"), d.Timeline().vp.WindowStart())
	d.PressKey('h')
	d.PressKey('h')
	assert.Equal(t, testutil.MustDate("2025-05-30"), d.Timeline().vp.WindowStart())
	d.PressKey('t')
	assert.Equal(t, testutil.MustDate("2025-06-06"), d.Timeline().vp.WindowStart())

	d.PressKey('>')
	assert.Equal(t, testutil.MustDate("2025-06-06"), d.Timeline().vp.WindowStart())
	assert.InDelta(t, 96, d.Timeline().vp.ScrollOffsetPx, 1e-9)

	d.PressKey('g')
	assert.Equal(t, timeline.Monthly, d.Timeline().vp.Granularity)
	saved, err := app.Prefs.Load(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, timeline.Monthly, saved.Granularity)
}

func TestTimelineView_EnterJumpsToSelection(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)
	d := NewTestDriver(t, app)
	d.OpenTimeline()

	d.PressEnter() // nothing selected yet
	assert.Equal(t, testutil.MustDate("2025-06-06"), d.Timeline().vp.WindowStart())

	d.PressTab() // Design, Jun 9
	d.PressKey('l')
	d.PressKey('l')
	d.PressEnter()
	assert.Equal(t, testutil.MustDate("2025-06-03"), d.Timeline().vp.WindowStart())
	assert.Equal(t, ViewTimeline, d.ActiveViewID())
}

func TestTimelineView_TabSelectsAndRemembers(t *testing.T) {
	app := testApp(t)
	p, design, build := seedProject(t, app)
	d := NewTestDriver(t, app)
	d.OpenTimeline()

	d.PressTab()
	assert.Equal(t, design.ID, d.Timeline().selected)
	d.PressTab()
	assert.Equal(t, build.ID, d.Timeline().selected)

	saved, err := app.Prefs.Load(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, build.ID, saved.LastSelectedItemID)

	// Reopening restores the selection.
	d.PressEsc()
	d.PressKey('t')
	assert.Equal(t, build.ID, d.Timeline().selected)
}

func TestTimelineView_SpaceTogglesDone(t *testing.T) {
	app := testApp(t)
	_, design, _ := seedProject(t, app)
	d := NewTestDriver(t, app)
	d.OpenTimeline()

	d.PressTab()
	d.PressKey(' ')
	assert.Equal(t, domain.ItemDone, mustGetItem(t, app, design.ID).Status)
}

var errStoreDown = errors.New("store unavailable")
