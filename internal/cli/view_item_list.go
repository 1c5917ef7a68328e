package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/meridian/internal/cli/formatter"
	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// itemRow is one line of the item list: a kind group header or an item.
type itemRow struct {
	isGroup bool
	kind    domain.ItemKind
	item    *domain.Item

	// Set on group rows.
	collapsed bool
	count     int
}

// jumpTimeoutMsg clears the digit-jump buffer after a pause.
type jumpTimeoutMsg struct{ seq int }

// groupOrder is the order kind groups appear in.
var groupOrder = []domain.ItemKind{domain.KindFeature, domain.KindTask, domain.KindBug, domain.KindTracker}

// itemListView shows the active project's items grouped by kind. It
// reads the project board on every frame, so optimistic writes show up
// before the store confirms them.
type itemListView struct {
	state   *SharedState
	cursor  int
	loading bool
	err     error
	jumpBuf string // accumulated digit keys for jump-to-seq
	jumpSeq int    // incremented per digit press; stale timeouts are ignored
}

func newItemListView(state *SharedState) *itemListView {
	return &itemListView{state: state, loading: true}
}

func (v *itemListView) ID() ViewID { return ViewItemList }
func (v *itemListView) Title() string {
	if p := v.state.Project; p != nil {
		return p.Name
	}
	return "Items"
}

func (v *itemListView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "timeline/collapse")),
		key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "timeline")),
		key.NewBinding(key.WithKeys("space"), key.WithHelp("space", "toggle done")),
		key.NewBinding(key.WithKeys("1"), key.WithHelp("#", "jump to item")),
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new item")),
		key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "details")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	}
}

func (v *itemListView) Init() tea.Cmd {
	return v.load()
}

func (v *itemListView) load() tea.Cmd {
	b := v.state.Board
	if b == nil {
		return nil
	}
	v.loading = true
	return func() tea.Msg {
		return boardSyncedMsg{err: b.Load(context.Background())}
	}
}

func (v *itemListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case boardSyncedMsg:
		v.loading = false
		if msg.err != nil {
			return v, notifyErr(msg.err)
		}
		return v, nil

	case jumpTimeoutMsg:
		if msg.seq == v.jumpSeq {
			v.jumpBuf = ""
		}
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *itemListView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := v.visibleRows()
	b := v.state.Board

	// Digit keys: accumulate and jump to matching seq number.
	if k := msg.String(); len(k) == 1 && k[0] >= '0' && k[0] <= '9' {
		v.jumpBuf += k
		v.jumpSeq++
		if target, err := strconv.Atoi(v.jumpBuf); err == nil {
			for i, row := range visible {
				if !row.isGroup && row.item.Seq == target {
					v.cursor = i
					break
				}
			}
		}
		seq := v.jumpSeq
		return v, tea.Tick(time.Second, func(time.Time) tea.Msg {
			return jumpTimeoutMsg{seq: seq}
		})
	}

	// Any non-digit key clears the jump buffer.
	v.jumpBuf = ""

	var row *itemRow
	if v.cursor < len(visible) {
		row = &visible[v.cursor]
	}

	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(visible)-1 {
			v.cursor++
		}
	case "enter":
		if row == nil {
			break
		}
		if row.isGroup {
			v.state.Prefs.Toggle(string(row.kind))
			return v, v.state.SavePrefs()
		}
		return v, v.openTimeline(row.item)
	case "t":
		return v, v.openTimeline(nil)
	case " ", "space":
		if row != nil && !row.isGroup && b != nil {
			return v, execToggleDone(b, row.item)
		}
	case "n", "a":
		if b != nil {
			return v, execCreateItem(v.state, b, newItemFormInput(v.state.App.now()))
		}
	case "i":
		if row != nil && !row.isGroup {
			return v, outputCmd(formatter.FormatItemDetail(row.item))
		}
	case "x":
		if row != nil && !row.isGroup && b != nil {
			return v, execDeleteItem(v.state, b, row.item)
		}
	case "r":
		return v, v.load()
	}
	return v, nil
}

// openTimeline pushes the timeline, centred on focus when given.
func (v *itemListView) openTimeline(focus *domain.Item) tea.Cmd {
	if v.state.Board == nil {
		return nil
	}
	tv := newTimelineView(v.state)
	if focus != nil {
		tv.focus(focus)
	}
	return pushView(tv)
}

// rows groups the board's items by kind. Within a group items run by
// start date, then sequence number.
func (v *itemListView) rows() []itemRow {
	if v.state.Board == nil {
		return nil
	}
	byKind := make(map[domain.ItemKind][]*domain.Item)
	for _, it := range v.state.Board.Items() {
		byKind[it.Kind] = append(byKind[it.Kind], it)
	}

	var rows []itemRow
	for _, k := range groupOrder {
		items := byKind[k]
		if len(items) == 0 {
			continue
		}
		sort.Slice(items, func(i, j int) bool {
			if !items[i].StartDate.Equal(items[j].StartDate) {
				return items[i].StartDate.Before(items[j].StartDate)
			}
			return items[i].Seq < items[j].Seq
		})
		rows = append(rows, itemRow{isGroup: true, kind: k, count: len(items)})
		for _, it := range items {
			rows = append(rows, itemRow{kind: k, item: it})
		}
	}
	return rows
}

// visibleRows drops the items of collapsed groups.
func (v *itemListView) visibleRows() []itemRow {
	var visible []itemRow
	for _, r := range v.rows() {
		collapsed := v.state.Prefs.IsCollapsed(string(r.kind))
		if r.isGroup {
			r.collapsed = collapsed
			visible = append(visible, r)
			continue
		}
		if !collapsed {
			visible = append(visible, r)
		}
	}
	return visible
}

func (v *itemListView) View() string {
	if v.loading {
		return "\n  " + formatter.Dim("Loading items...")
	}

	visible := v.visibleRows()
	if len(visible) == 0 {
		return "\n  " + formatter.Dim("No items in this project. Press n to add one.")
	}
	if v.cursor >= len(visible) {
		v.cursor = len(visible) - 1
	}

	var b strings.Builder
	if v.jumpBuf != "" {
		b.WriteString("  " + formatter.Dim("jump: #"+v.jumpBuf) + "\n")
	}
	b.WriteString("\n")
	width := v.state.Width
	for i, row := range visible {
		b.WriteString(renderItemRow(row, i == v.cursor, width))
		b.WriteByte('\n')
	}
	return b.String()
}

// renderItemRow renders one row. If width > 0, the output is truncated.
func renderItemRow(row itemRow, isCursor bool, width int) string {
	cursor := "  "
	if isCursor {
		cursor = formatter.StyleGreen.Render("▸ ")
	}

	var line string
	if row.isGroup {
		indicator := "▾ "
		if row.collapsed {
			indicator = "▸ "
		}
		line = fmt.Sprintf("%s%s%s %s",
			cursor,
			formatter.Dim(indicator),
			formatter.KindBadge(row.kind),
			formatter.Dim(fmt.Sprintf("(%d)", row.count)),
		)
	} else {
		it := row.item
		statusIcon := " "
		switch it.Status {
		case domain.ItemDone:
			statusIcon = formatter.StyleGreen.Render("✓")
		case domain.ItemInProgress:
			statusIcon = formatter.StyleYellow.Render("▶")
		case domain.ItemArchived:
			statusIcon = formatter.Dim("—")
		}

		title := it.Title
		if isCursor {
			title = formatter.Bold(title)
		}
		line = fmt.Sprintf("%s  %s %s %s  %s  %s",
			cursor,
			statusIcon,
			formatter.Dim(padRight(formatter.ItemRef(it.Seq), 4)),
			title,
			formatter.Dim(formatter.FormatRange(it.StartDate, it.EndDate)),
			formatter.PriorityBadge(it.Priority),
		)
	}

	if width > 0 {
		line = lipgloss.NewStyle().MaxWidth(width).Render(line)
	}
	return line
}
