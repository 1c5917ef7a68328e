package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemListView_GroupsByKind(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)
	d := NewTestDriver(t, app)

	d.OpenFirstProject()
	require.Equal(t, ViewItemList, d.ActiveViewID())
	assert.Equal(t, 2, d.ViewStackLen())

	out := stripANSI(d.View())
	assert.Contains(t, out, "Website")
	assert.Contains(t, out, "#1")
	assert.Contains(t, out, "Design")
	assert.Contains(t, out, "Build")
	assert.Less(t, strings.Index(out, "Design"), strings.Index(out, "Build"), "features are listed before tasks")
}

func TestItemListView_SpaceTogglesDone(t *testing.T) {
	app := testApp(t)
	_, design, _ := seedProject(t, app)
	d := NewTestDriver(t, app)
	d.OpenFirstProject()

	d.PressDown() // Feature header -> Design
	d.PressKey(' ')
	assert.Equal(t, domain.ItemDone, mustGetItem(t, app, design.ID).Status)

	d.PressKey(' ')
	assert.Equal(t, domain.ItemTodo, mustGetItem(t, app, design.ID).Status)
}

func TestItemListView_CollapseGroupPersists(t *testing.T) {
	app := testApp(t)
	p, _, _ := seedProject(t, app)
	d := NewTestDriver(t, app)
	d.OpenFirstProject()

	d.PressEnter() // cursor starts on the Feature header
	out := stripANSI(d.View())
	assert.NotContains(t, out, "Design")
	assert.Contains(t, out, "Build")

	saved, err := app.Prefs.Load(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, saved.IsCollapsed(string(domain.KindFeature)))

	// A fresh session restores the collapsed group.
	d2 := NewTestDriver(t, app)
	d2.OpenFirstProject()
	assert.NotContains(t, stripANSI(d2.View()), "Design")

	d2.PressEnter()
	assert.Contains(t, stripANSI(d2.View()), "Design")
}

func TestItemListView_DetailAndJump(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)
	d := NewTestDriver(t, app)
	d.OpenFirstProject()

	d.PressDown()
	d.PressKey('i')
	assert.Contains(t, stripANSI(d.LastOutput()), "Design")

	d.PressEsc() // dismisses the output panel first
	assert.Equal(t, ViewItemList, d.ActiveViewID())

	d.PressKey('2')
	d.PressKey('i')
	assert.Contains(t, stripANSI(d.LastOutput()), "Build")
}

func TestItemListView_EnterOpensFocusedTimeline(t *testing.T) {
	app := testApp(t)
	_, _, build := seedProject(t, app)
	d := NewTestDriver(t, app)
	d.OpenFirstProject()

	d.PressKey('2')
	d.PressEnter()
	require.Equal(t, ViewTimeline, d.ActiveViewID())
	assert.Equal(t, build.ID, d.Timeline().selected)
	assert.False(t, d.Timeline().vp.WindowStart().After(build.StartDate))
	assert.False(t, d.Timeline().vp.WindowEnd().Before(build.StartDate))
}

func TestItemListView_CreateItemForm(t *testing.T) {
	app := testApp(t)
	p, _, _ := seedProject(t, app)
	d := NewTestDriver(t, app)
	d.OpenFirstProject()

	d.PressKey('n')
	require.Equal(t, ViewForm, d.ActiveViewID())

	// Group 1: title, kind, priority. Group 2: start, end (both default to today).
	d.Type("Launch")
	d.PressEnter()
	d.PressEnter()
	d.PressEnter()
	d.PressEnter()
	d.PressEnter()

	assert.Equal(t, ViewItemList, d.ActiveViewID())
	assert.Contains(t, d.Notice(), "Created #3 Launch")

	items, err := app.Items.ListByProject(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	var launch *domain.Item
	for _, it := range items {
		if it.Title == "Launch" {
			launch = it
		}
	}
	require.NotNil(t, launch)
	assert.Equal(t, domain.KindTask, launch.Kind)
	assert.Equal(t, domain.Day(testToday), launch.StartDate)
	assert.Equal(t, domain.Day(testToday), launch.EndDate)

	assert.Contains(t, stripANSI(d.View()), "Launch")
}

func TestItemListView_CreateItemEscCancels(t *testing.T) {
	app := testApp(t)
	p, _, _ := seedProject(t, app)
	d := NewTestDriver(t, app)
	d.OpenFirstProject()

	d.PressKey('n')
	d.Type("Never")
	d.PressEsc()

	assert.Equal(t, ViewItemList, d.ActiveViewID())
	assert.Equal(t, "Cancelled.", d.Notice())
	items, err := app.Items.ListByProject(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestItemListView_DeleteNeedsConfirmation(t *testing.T) {
	app := testApp(t)
	_, design, _ := seedProject(t, app)
	d := NewTestDriver(t, app)
	d.OpenFirstProject()

	d.PressDown()
	d.PressKey('x')
	require.Equal(t, ViewForm, d.ActiveViewID())
	d.PressEnter() // default answer is No
	assert.Equal(t, ViewItemList, d.ActiveViewID())
	assert.Equal(t, "Cancelled.", d.Notice())
	mustGetItem(t, app, design.ID)

	d.PressKey('x')
	d.PressKey('y')
	assert.Equal(t, ViewItemList, d.ActiveViewID())
	assert.Contains(t, d.Notice(), "Deleted: Design")
	_, err := app.Items.GetByID(context.Background(), design.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, ok := d.State().Board.Item(design.ID)
	assert.False(t, ok)
}

func TestItemListView_EscReturnsToProjects(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)
	d := NewTestDriver(t, app)
	d.OpenFirstProject()

	d.PressEsc()
	assert.Equal(t, ViewProjectList, d.ActiveViewID())
	assert.Equal(t, 1, d.ViewStackLen())
}
