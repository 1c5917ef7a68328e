package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/meridian/internal/cli/formatter"
	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/timeline"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// timelineTitleRows is the number of rows the view draws above the grid.
const timelineTitleRows = 1

// scrollColumns is how far < and > drag-scroll the window.
const scrollColumns = 8

// timelineView draws the active project's board on a scrollable date grid.
// Mouse presses on a bar start a drag session; motion and release are
// published on the shared input bus, which the session listens to only
// while it is active.
type timelineView struct {
	state      *SharedState
	vp         timeline.Viewport
	controller *timeline.Controller
	selected   string

	// pending is the mutation produced by the last pointer-up, picked up
	// by the same Update call that published it.
	pending *timeline.Mutation

	panning bool
	panX    int
}

func newTimelineView(state *SharedState) *timelineView {
	app := state.App
	cfg := app.config()
	v := &timelineView{
		state:    state,
		selected: state.Prefs.LastSelectedItemID,
	}
	g := state.Prefs.Granularity
	if g == "" {
		g = cfg.Granularity()
	}
	v.vp = timeline.NewViewport(app.now(), v.widthPx(), g, cfg.ScaleTable())
	v.controller = timeline.NewController(state.Bus,
		timeline.WithLogger(app.Log.With().Str("cmp", "drag").Logger()),
		timeline.WithObserver(v.observe),
	)
	return v
}

func (v *timelineView) ID() ViewID { return ViewTimeline }
func (v *timelineView) Title() string {
	return "Timeline"
}

func (v *timelineView) ShortHelp() []key.Binding {
	if v.controller.State() == timeline.StateActive {
		return []key.Binding{
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel drag")),
		}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("h", "l"), key.WithHelp("h/l", "prev/next")),
		key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "zoom")),
		key.NewBinding(key.WithKeys("<", ">"), key.WithHelp("</>", "scroll")),
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "select")),
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new item")),
	}
}

func (v *timelineView) Init() tea.Cmd { return nil }

// CapturesInput keeps Esc while a drag is active so it cancels the drag
// instead of leaving the view.
func (v *timelineView) CapturesInput(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyEsc && v.controller.State() == timeline.StateActive
}

// Close ends any live drag and releases its bus subscription.
func (v *timelineView) Close() {
	v.controller.Close()
}

// focus centres the window on it and selects it.
func (v *timelineView) focus(it *domain.Item) {
	v.vp = v.vp.Jump(it.StartDate)
	v.selected = it.ID
}

func (v *timelineView) widthPx() float64 {
	cols := v.state.Width
	if cols <= 0 {
		cols = 80
	}
	return float64(cols) * v.state.App.config().Timeline.CellPx
}

func (v *timelineView) observe(t timeline.Transition) {
	if t.To == timeline.StateCommitted && t.Mutation != nil {
		m := *t.Mutation
		v.pending = &m
	}
}

// frame is the board snapshot the view draws and hit-tests against.
func (v *timelineView) frame() ([]*domain.Item, timeline.Layout) {
	var items []*domain.Item
	if b := v.state.Board; b != nil {
		items = b.Items()
	}
	return items, v.state.App.Timeline.Arrange(items)
}

func (v *timelineView) surface() timeline.Surface {
	cfg := v.state.App.config()
	items, layout := v.frame()
	return timeline.Surface{
		Viewport:     v.vp,
		Geometry:     timeline.LaneGeometry{LaneHeightPx: cfg.Timeline.LaneHeightPx},
		EdgeHitboxPx: cfg.Timeline.EdgeHitboxPx,
		Items:        items,
		Layout:       layout,
	}
}

// pointAt converts a screen cell to timeline pixels, aiming at the
// middle of the cell. Rows above the first lane map to negative y.
func (v *timelineView) pointAt(col, row int) timeline.Point {
	cfg := v.state.App.config()
	top := appHeaderRows + timelineTitleRows + formatter.TimelineHeaderRows
	return timeline.Point{
		X: (float64(col) + 0.5) * cfg.Timeline.CellPx,
		Y: (float64(row-top) + 0.5) * cfg.Timeline.LaneHeightPx,
	}
}

func (v *timelineView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.vp = v.vp.Resize(v.widthPx())
		return v, nil

	case tea.MouseMsg:
		return v, v.handleMouse(msg)

	case boardSyncedMsg:
		if msg.err != nil {
			return v, notifyErr(fmt.Errorf("change reverted: %w", msg.err))
		}
		return v, nil

	case tea.KeyMsg:
		return v, v.handleKey(msg)
	}
	return v, nil
}

func (v *timelineView) handleMouse(msg tea.MouseMsg) tea.Cmd {
	p := v.pointAt(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		s := v.surface()
		hit, err := v.controller.PointerDown(p, s)
		if err != nil {
			return notifyErr(err)
		}
		if hit {
			v.selected = v.controller.Session().ItemID
			return v.rememberSelection()
		}
		if p.Y >= 0 {
			v.panning = true
			v.panX = msg.X
		}

	case tea.MouseActionMotion:
		if v.controller.State() == timeline.StateActive {
			v.state.Bus.Publish(timeline.InputEvent{Kind: timeline.EventPointerMove, Point: p})
			return nil
		}
		if v.panning {
			cols := v.panX - msg.X
			v.panX = msg.X
			v.vp = v.vp.ScrollBy(float64(cols) * v.state.App.config().Timeline.CellPx)
		}

	case tea.MouseActionRelease:
		v.panning = false
		if v.controller.State() != timeline.StateActive {
			return nil
		}
		v.state.Bus.Publish(timeline.InputEvent{Kind: timeline.EventPointerUp, Point: p})
		return v.commitPending()
	}
	return nil
}

// commitPending hands the last committed drag to the board. The board
// applies it at once and reverts if the store rejects it.
func (v *timelineView) commitPending() tea.Cmd {
	m := v.pending
	v.pending = nil
	if m == nil {
		if s := v.controller.LastSession(); s != nil && !s.IsValid {
			return notify("Drop cancelled: the item would overlap another in that lane.")
		}
		return nil
	}
	b := v.state.Board
	return boardCmd(func(ctx context.Context) error {
		return b.Commit(ctx, *m)
	})
}

func (v *timelineView) handleKey(msg tea.KeyMsg) tea.Cmd {
	if v.controller.State() == timeline.StateActive {
		if msg.Type == tea.KeyEsc {
			v.state.Bus.Publish(timeline.InputEvent{Kind: timeline.EventKey, Key: "esc"})
			v.pending = nil
		}
		return nil
	}

	if nav, ok := v.navCommand(msg.String()); ok {
		v.vp = v.vp.Apply(nav)
		return nil
	}

	switch msg.String() {
	case "g":
		v.vp = v.vp.SetGranularity(v.vp.Granularity.Next())
		v.vp = v.vp.Resize(v.widthPx())
		v.state.Prefs.Granularity = v.vp.Granularity
		return v.state.SavePrefs()
	case "<", ",":
		v.vp = v.vp.ScrollBy(-scrollColumns * v.state.App.config().Timeline.CellPx)
	case ">", ".":
		v.vp = v.vp.ScrollBy(scrollColumns * v.state.App.config().Timeline.CellPx)
	case "tab":
		return v.cycleSelection(1)
	case "shift+tab":
		return v.cycleSelection(-1)
	case " ", "space":
		if it, ok := v.selectedItem(); ok {
			return execToggleDone(v.state.Board, it)
		}
	case "n":
		if b := v.state.Board; b != nil {
			return execCreateItem(v.state, b, newItemFormInput(v.vp.Center()))
		}
	}
	return nil
}

// navCommand maps a key to a viewport navigation. Enter jumps to the
// selected item and does nothing without one.
func (v *timelineView) navCommand(key string) (timeline.NavCommand, bool) {
	switch key {
	case "h", "left":
		return timeline.NavCommand{Kind: timeline.NavPrev}, true
	case "l", "right":
		return timeline.NavCommand{Kind: timeline.NavNext}, true
	case "t":
		return timeline.NavCommand{Kind: timeline.NavToday, Date: v.state.App.now()}, true
	case "enter":
		if it, ok := v.selectedItem(); ok {
			return timeline.NavCommand{Kind: timeline.NavJump, Date: it.StartDate}, true
		}
	}
	return timeline.NavCommand{}, false
}

func (v *timelineView) selectedItem() (*domain.Item, bool) {
	if v.selected == "" || v.state.Board == nil {
		return nil, false
	}
	return v.state.Board.Item(v.selected)
}

// cycleSelection moves the selection through the visible items in
// screen order.
func (v *timelineView) cycleSelection(step int) tea.Cmd {
	items, layout := v.frame()
	visible := orderForSelection(v.vp.Visible(items), layout)
	if len(visible) == 0 {
		return nil
	}
	next := 0
	if step < 0 {
		next = len(visible) - 1
	}
	for i, it := range visible {
		if it.ID == v.selected {
			next = (i + step + len(visible)) % len(visible)
			break
		}
	}
	v.selected = visible[next].ID
	return v.rememberSelection()
}

func (v *timelineView) rememberSelection() tea.Cmd {
	if v.state.Prefs.LastSelectedItemID == v.selected {
		return nil
	}
	v.state.Prefs.LastSelectedItemID = v.selected
	return v.state.SavePrefs()
}

func (v *timelineView) View() string {
	items, layout := v.frame()
	cfg := v.state.App.config()

	var b strings.Builder
	b.WriteString(fmt.Sprintf(" %s  %s → %s",
		formatter.StyleHeader.Render(strings.ToUpper(string(v.vp.Granularity))),
		v.vp.WindowStart().Format("Jan 2, 2006"),
		v.vp.WindowEnd().Format("Jan 2, 2006")))
	if s := v.controller.Session(); s != nil {
		status := formatter.StyleYellow.Render(fmt.Sprintf("  %s %s", s.Kind, formatter.FormatRange(s.PreviewRange.Start, s.PreviewRange.End)))
		if !s.IsValid {
			status = formatter.StyleRed.Render(fmt.Sprintf("  %s blocked in lane %d", s.Kind, s.TargetLane))
		}
		b.WriteString(status)
	} else if it, ok := v.selectedItem(); ok {
		b.WriteString("  " + formatter.Dim(fmt.Sprintf("%s %s %s",
			formatter.ItemRef(it.Seq), it.Title, formatter.FormatRange(it.StartDate, it.EndDate))))
	}
	b.WriteString("\n")

	visible := v.vp.Visible(items)
	if len(items) == 0 {
		b.WriteString(formatter.RenderTimeline(formatter.TimelineGrid{
			Viewport: v.vp, CellPx: cfg.Timeline.CellPx, Today: v.state.App.now(),
		}))
		b.WriteString("\n\n  " + formatter.Dim("No items yet. Press n to add one."))
		return b.String()
	}

	b.WriteString(formatter.RenderTimeline(formatter.TimelineGrid{
		Viewport: v.vp,
		Items:    visible,
		Layout:   layout,
		CellPx:   cfg.Timeline.CellPx,
		Today:    v.state.App.now(),
		Selected: v.selected,
		Drag:     v.controller.Session(),
	}))
	if n := len(layout.Rejected); n > 0 {
		b.WriteString("\n\n  " + formatter.StyleRed.Render(fmt.Sprintf("%d item(s) hidden: end date before start", n)))
	}
	return b.String()
}

// orderForSelection sorts items by lane, then start date.
func orderForSelection(items []*domain.Item, layout timeline.Layout) []*domain.Item {
	out := make([]*domain.Item, 0, len(items))
	out = append(out, items...)
	sort.SliceStable(out, func(i, j int) bool {
		li, _ := layout.Lane(out[i].ID)
		lj, _ := layout.Lane(out[j].ID)
		if li != lj {
			return li < lj
		}
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out
}
