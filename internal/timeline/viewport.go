package timeline

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/meridian/internal/domain"
)

// Granularity is the timeline zoom level.
type Granularity string

const (
	Weekly    Granularity = "weekly"
	Monthly   Granularity = "monthly"
	Quarterly Granularity = "quarterly"
)

// Granularities lists zoom levels from closest to farthest.
var Granularities = []Granularity{Weekly, Monthly, Quarterly}

// ParseGranularity accepts the full names and the w/m/q shorthands.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "weekly", "week", "w":
		return Weekly, nil
	case "monthly", "month", "m":
		return Monthly, nil
	case "quarterly", "quarter", "q":
		return Quarterly, nil
	}
	return "", fmt.Errorf("invalid granularity %q (want weekly, monthly or quarterly)", s)
}

// Next cycles to the following zoom level, wrapping around.
func (g Granularity) Next() Granularity {
	for i, x := range Granularities {
		if x == g {
			return Granularities[(i+1)%len(Granularities)]
		}
	}
	return Weekly
}

// shift moves t by n granularity units. Month arithmetic clamps to the
// last day of the target month instead of overflowing into the next.
func (g Granularity) shift(t time.Time, n int) time.Time {
	switch g {
	case Monthly:
		return addMonths(t, n)
	case Quarterly:
		return addMonths(t, 3*n)
	default:
		return domain.AddDays(t, 7*n)
	}
}

func addMonths(t time.Time, n int) time.Time {
	y, m, d := domain.Day(t).Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

// ScaleTable is the fixed pixels-per-day per granularity.
type ScaleTable map[Granularity]float64

// DefaultScaleTable returns the stock scales.
func DefaultScaleTable() ScaleTable {
	return ScaleTable{
		Weekly:    120,
		Monthly:   40,
		Quarterly: 12,
	}
}

// PixelsPerDay returns the scale for g, falling back to the default table.
func (t ScaleTable) PixelsPerDay(g Granularity) float64 {
	if ppd, ok := t[g]; ok && ppd > 0 {
		return ppd
	}
	if ppd, ok := DefaultScaleTable()[g]; ok {
		return ppd
	}
	return DefaultScaleTable()[Weekly]
}

// NavKind identifies a navigation command.
type NavKind int

const (
	NavPrev NavKind = iota
	NavNext
	NavToday
	NavJump
)

// NavCommand is a navigation request. Date is used by NavToday (as the
// current time) and NavJump.
type NavCommand struct {
	Kind NavKind
	Date time.Time
}

// Viewport is the visible date window and its pixel mapping. It is a value:
// every command returns a new Viewport. Start is always day-aligned and
// ScrollOffsetPx stays in [0, PixelsPerDay).
type Viewport struct {
	Start          time.Time
	VisibleDays    int
	PixelsPerDay   float64
	ScrollOffsetPx float64
	Granularity    Granularity

	scales ScaleTable
}

// NewViewport builds a viewport of widthPx pixels centred on center.
func NewViewport(center time.Time, widthPx float64, g Granularity, scales ScaleTable) Viewport {
	if scales == nil {
		scales = DefaultScaleTable()
	}
	v := Viewport{Granularity: g, scales: scales}
	v.PixelsPerDay = scales.PixelsPerDay(g)
	v.VisibleDays = visibleDaysFor(widthPx, v.PixelsPerDay)
	return v.centerOn(center)
}

func visibleDaysFor(widthPx, ppd float64) int {
	days := int(math.Floor(widthPx/ppd + floorEpsilon))
	if days < 1 {
		return 1
	}
	return days
}

// Width is the rendered pixel width: VisibleDays × PixelsPerDay.
func (v Viewport) Width() float64 {
	return float64(v.VisibleDays) * v.PixelsPerDay
}

// Center returns the day in the middle of the window.
func (v Viewport) Center() time.Time {
	return domain.AddDays(v.Start, v.VisibleDays/2)
}

func (v Viewport) centerOn(date time.Time) Viewport {
	v.Start = domain.AddDays(date, -(v.VisibleDays / 2))
	v.ScrollOffsetPx = 0
	return v
}

// WindowStart is the first visible day.
func (v Viewport) WindowStart() time.Time {
	return domain.Day(v.Start)
}

// WindowEnd is the last (possibly partially) visible day, inclusive.
func (v Viewport) WindowEnd() time.Time {
	end := domain.AddDays(v.Start, v.VisibleDays-1)
	if v.ScrollOffsetPx > 0 {
		end = domain.AddDays(end, 1)
	}
	return end
}

// Offset maps a date onto the screen, accounting for drag-scroll.
func (v Viewport) Offset(date time.Time) float64 {
	return PixelOffset(date, v.Start, v.PixelsPerDay) - v.ScrollOffsetPx
}

// DateAt maps a screen x coordinate back to the day under it.
func (v Viewport) DateAt(x float64) time.Time {
	return DateFromPixel(x+v.ScrollOffsetPx, v.Start, v.PixelsPerDay)
}

// Prev shifts the window back by one granularity unit.
func (v Viewport) Prev() Viewport {
	v.Start = v.Granularity.shift(v.Start, -1)
	return v
}

// Next shifts the window forward by one granularity unit.
func (v Viewport) Next() Viewport {
	v.Start = v.Granularity.shift(v.Start, 1)
	return v
}

// Today recentres the window on now.
func (v Viewport) Today(now time.Time) Viewport {
	return v.centerOn(now)
}

// Jump recentres the window on date, keeping the granularity.
func (v Viewport) Jump(date time.Time) Viewport {
	return v.centerOn(date)
}

// Apply dispatches a navigation command.
func (v Viewport) Apply(cmd NavCommand) Viewport {
	switch cmd.Kind {
	case NavPrev:
		return v.Prev()
	case NavNext:
		return v.Next()
	case NavToday:
		return v.Today(cmd.Date)
	case NavJump:
		return v.Jump(cmd.Date)
	}
	return v
}

// SetGranularity switches zoom level, recomputing the scale from the table
// and keeping the rendered width and the centre date.
func (v Viewport) SetGranularity(g Granularity) Viewport {
	center := v.Center()
	width := v.Width()
	v.Granularity = g
	v.PixelsPerDay = v.scaleTable().PixelsPerDay(g)
	v.VisibleDays = visibleDaysFor(width, v.PixelsPerDay)
	return v.centerOn(center)
}

// Resize fits the window to a new pixel width, keeping Start.
func (v Viewport) Resize(widthPx float64) Viewport {
	v.VisibleDays = visibleDaysFor(widthPx, v.PixelsPerDay)
	return v
}

// ScrollBy drag-scrolls the window by px (positive moves later in time).
// Whole days roll into Start; the remainder stays in ScrollOffsetPx.
func (v Viewport) ScrollBy(px float64) Viewport {
	total := v.ScrollOffsetPx + px
	days := int(math.Floor(total/v.PixelsPerDay + floorEpsilon))
	v.Start = domain.AddDays(v.Start, days)
	v.ScrollOffsetPx = total - float64(days)*v.PixelsPerDay
	if v.ScrollOffsetPx < floorEpsilon {
		v.ScrollOffsetPx = 0
	}
	return v
}

func (v Viewport) scaleTable() ScaleTable {
	if v.scales == nil {
		return DefaultScaleTable()
	}
	return v.scales
}

// Contains reports whether the inclusive range [start, end] intersects the
// window, including partial overlap at either edge.
func (v Viewport) Contains(start, end time.Time) bool {
	return !domain.Day(start).After(v.WindowEnd()) && !domain.Day(end).Before(v.WindowStart())
}

// Visible returns the items that intersect the window, in input order.
func (v Viewport) Visible(items []*domain.Item) []*domain.Item {
	var out []*domain.Item
	for _, it := range items {
		if it != nil && v.Contains(it.StartDate, it.EndDate) {
			out = append(out, it)
		}
	}
	return out
}
