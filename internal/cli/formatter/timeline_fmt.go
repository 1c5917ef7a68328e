package formatter

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/timeline"
	"github.com/charmbracelet/lipgloss"
)

// TimelineHeaderRows is the number of scale rows above the first lane.
const TimelineHeaderRows = 2

// TimelineGrid is one frame of the timeline: the viewport, the laid-out
// items and an optional drag preview. CellPx is the pixel width of one
// terminal column.
type TimelineGrid struct {
	Viewport timeline.Viewport
	Items    []*domain.Item
	Layout   timeline.Layout
	CellPx   float64
	Today    time.Time
	Selected string
	Drag     *timeline.Session
}

// Columns is the number of terminal columns the viewport spans.
func (g TimelineGrid) Columns() int {
	if g.CellPx <= 0 {
		return 0
	}
	return int(math.Floor(g.Viewport.Width() / g.CellPx))
}

// Span returns the first and last column covered by the inclusive day
// range, unclamped.
func (g TimelineGrid) Span(r timeline.Range) (int, int) {
	left := g.Viewport.Offset(r.Start) / g.CellPx
	right := (g.Viewport.Offset(r.End) + g.Viewport.PixelsPerDay) / g.CellPx
	lc := int(math.Floor(left))
	rc := int(math.Ceil(right)) - 1
	if rc < lc {
		rc = lc
	}
	return lc, rc
}

type segment struct {
	from, to int
	label    string
	style    lipgloss.Style
}

// RenderTimeline draws the scale rows followed by one row per lane.
func RenderTimeline(g TimelineGrid) string {
	cols := g.Columns()
	if cols <= 0 {
		return ""
	}

	lanes := g.Layout.LaneCount
	rows := make(map[int][]segment)
	for _, it := range g.Items {
		lane, ok := g.Layout.Lane(it.ID)
		if !ok {
			continue
		}
		if g.Drag != nil && g.Drag.ItemID == it.ID && g.Drag.State == timeline.StateActive {
			continue
		}
		style := barStyle(it)
		if it.ID == g.Selected {
			style = style.Bold(true).Underline(true)
		}
		if seg, ok := g.segment(timeline.RangeOf(it), barLabel(it), style); ok {
			rows[lane] = append(rows[lane], seg)
		}
	}

	if d := g.Drag; d != nil && d.State == timeline.StateActive {
		style := lipgloss.NewStyle().Foreground(ColorBg).Background(ColorYellow).Bold(true)
		if !d.IsValid {
			style = style.Background(ColorRed)
		}
		label := dragLabel(g.Items, d)
		if seg, ok := g.segment(d.PreviewRange, label, style); ok {
			rows[d.TargetLane] = append(rows[d.TargetLane], seg)
		}
		if d.TargetLane+1 > lanes {
			lanes = d.TargetLane + 1
		}
	}

	var b strings.Builder
	b.WriteString(g.scaleRow(cols))
	b.WriteString("\n")
	b.WriteString(g.tickRow(cols))
	for lane := 0; lane < lanes; lane++ {
		b.WriteString("\n")
		b.WriteString(renderRow(rows[lane], cols))
	}
	return b.String()
}

func (g TimelineGrid) segment(r timeline.Range, label string, style lipgloss.Style) (segment, bool) {
	lc, rc := g.Span(r)
	cols := g.Columns()
	if rc < 0 || lc >= cols {
		return segment{}, false
	}
	if lc < 0 {
		lc = 0
	}
	if rc >= cols {
		rc = cols - 1
	}
	return segment{from: lc, to: rc, label: label, style: style}, true
}

func renderRow(segs []segment, cols int) string {
	sort.Slice(segs, func(i, j int) bool { return segs[i].from < segs[j].from })
	var b strings.Builder
	pos := 0
	for _, s := range segs {
		from := s.from
		if from < pos {
			from = pos
		}
		if from > s.to {
			continue
		}
		b.WriteString(strings.Repeat(" ", from-pos))
		width := s.to - from + 1
		b.WriteString(s.style.Render(fit(s.label, width)))
		pos = s.to + 1
	}
	if pos < cols {
		b.WriteString(strings.Repeat(" ", cols-pos))
	}
	return b.String()
}

// fit pads or truncates label to exactly width cells.
func fit(label string, width int) string {
	r := []rune(label)
	if len(r) > width {
		if width > 1 {
			return string(r[:width-1]) + "…"
		}
		return string(r[:width])
	}
	return label + strings.Repeat(" ", width-len(r))
}

func barStyle(it *domain.Item) lipgloss.Style {
	s := lipgloss.NewStyle().Foreground(ColorBg).Background(KindColor(it.Kind))
	if it.Status == domain.ItemDone {
		s = s.Background(ColorDim).Strikethrough(true)
	}
	return s
}

func barLabel(it *domain.Item) string {
	if it.Seq > 0 {
		return fmt.Sprintf("#%d %s", it.Seq, it.Title)
	}
	return it.Title
}

func dragLabel(items []*domain.Item, d *timeline.Session) string {
	for _, it := range items {
		if it.ID == d.ItemID {
			return barLabel(it)
		}
	}
	return d.Kind.String()
}

// scaleRow labels days, Mondays or month starts depending on zoom.
func (g TimelineGrid) scaleRow(cols int) string {
	line := []rune(strings.Repeat(" ", cols))
	vp := g.Viewport
	for d := vp.WindowStart(); !d.After(vp.WindowEnd()); d = domain.AddDays(d, 1) {
		label, ok := scaleLabel(vp.Granularity, d)
		if !ok {
			continue
		}
		col, _ := g.Span(timeline.Range{Start: d, End: d})
		if col < 0 || col+len([]rune(label)) > cols {
			continue
		}
		if col > 0 && line[col-1] != ' ' {
			continue
		}
		copy(line[col:], []rune(label))
	}
	return StyleHeader.Render(string(line))
}

func scaleLabel(gr timeline.Granularity, d time.Time) (string, bool) {
	switch gr {
	case timeline.Weekly:
		return d.Format("Mon 2"), true
	case timeline.Monthly:
		if d.Day() == 1 {
			return d.Format("Jan"), true
		}
		if d.Weekday() == time.Monday {
			return d.Format("2"), true
		}
	case timeline.Quarterly:
		if d.Day() == 1 {
			return d.Format("Jan 06"), true
		}
	}
	return "", false
}

// tickRow marks label boundaries and today.
func (g TimelineGrid) tickRow(cols int) string {
	line := []rune(strings.Repeat("─", cols))
	vp := g.Viewport
	for d := vp.WindowStart(); !d.After(vp.WindowEnd()); d = domain.AddDays(d, 1) {
		if _, ok := scaleLabel(vp.Granularity, d); !ok {
			continue
		}
		if col, _ := g.Span(timeline.Range{Start: d, End: d}); col >= 0 && col < cols {
			line[col] = '┬'
		}
	}
	today := -1
	if !g.Today.IsZero() {
		if col, _ := g.Span(timeline.Range{Start: domain.Day(g.Today), End: domain.Day(g.Today)}); col >= 0 && col < cols {
			today = col
		}
	}
	if today < 0 {
		return StyleDim.Render(string(line))
	}
	return StyleDim.Render(string(line[:today])) +
		StyleRed.Render("▼") +
		StyleDim.Render(string(line[today+1:]))
}

// FormatTimelineLegend lists laid-out items lane by lane.
func FormatTimelineLegend(items []*domain.Item, layout timeline.Layout) string {
	byID := make(map[string]*domain.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	headers := []string{"LANE", "ITEM", "TITLE", "KIND", "RANGE"}
	var rows [][]string
	for lane := 0; lane < layout.LaneCount; lane++ {
		for _, id := range layout.ItemsInLane(lane) {
			it, ok := byID[id]
			if !ok {
				continue
			}
			rows = append(rows, []string{
				fmt.Sprintf("%d", lane),
				Dim(ItemRef(it.Seq)),
				it.Title,
				KindBadge(it.Kind),
				FormatRange(it.StartDate, it.EndDate),
			})
		}
	}
	if len(rows) == 0 {
		return Dim("No items in view.")
	}
	return RenderTable(headers, rows)
}
