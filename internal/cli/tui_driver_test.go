package cli

import (
	"regexp"
	"testing"

	"github.com/alexanderramin/meridian/internal/teatest"
)

// TestDriver wraps teatest.Driver with inspection methods for the
// meridian app model: the view stack, shared state and notices.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver creates a TestDriver from a test App.
// It constructs the appModel, sets terminal size, and drains Init()
// (which loads the project list synchronously via in-memory SQLite).
func NewTestDriver(t *testing.T, app *App) *TestDriver {
	t.Helper()

	m := newAppModel(app)
	d := teatest.New(t, m, teatest.WithSize(120, 40))
	d.DrainInit()

	return &TestDriver{Driver: d}
}

// ── High-level helpers ───────────────────────────────────────────────────────

// OpenFirstProject opens the project under the cursor and waits for its
// item list.
func (d *TestDriver) OpenFirstProject() {
	d.T.Helper()
	d.PressEnter()
}

// OpenTimeline goes from the project list to the first project's timeline.
func (d *TestDriver) OpenTimeline() {
	d.T.Helper()
	d.OpenFirstProject()
	d.PressKey('t')
}

// ── inspection ───────────────────────────────────────────────────────────────

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ViewStackLen returns the number of views on the stack.
func (d *TestDriver) ViewStackLen() int {
	return len(d.appModel().viewStack)
}

// State returns the shared state for inspection.
func (d *TestDriver) State() *SharedState {
	return d.appModel().state
}

// Timeline returns the active timeline view, failing the test when the
// top view is something else.
func (d *TestDriver) Timeline() *timelineView {
	d.T.Helper()
	m := d.appModel()
	tv, ok := m.activeView().(*timelineView)
	if !ok {
		d.T.Fatalf("active view is %T, not the timeline", m.activeView())
	}
	return tv
}

// Notice returns the current notice line text.
func (d *TestDriver) Notice() string {
	return d.appModel().notice
}

// IsQuitting returns whether the app has signaled a quit.
// Checks model.quitting (q/Ctrl+C/quitMsg) and the driver's Quitting flag.
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}

// LastOutput returns the output panel text.
func (d *TestDriver) LastOutput() string {
	return d.appModel().lastOutput
}

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// stripANSI removes SGR escape sequences so tests can match plain text.
func stripANSI(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}
