package timeline

import (
	"math"
	"time"

	"github.com/alexanderramin/meridian/internal/domain"
)

// DefaultEdgeHitboxPx is the width of the resize handles at each end of an item.
const DefaultEdgeHitboxPx = 8

// Point is a pointer position in timeline pixel space.
type Point struct {
	X, Y float64
}

// Range is an inclusive day range.
type Range struct {
	Start time.Time
	End   time.Time
}

// RangeOf returns the day range of an item.
func RangeOf(it *domain.Item) Range {
	return Range{Start: domain.Day(it.StartDate), End: domain.Day(it.EndDate)}
}

// Days returns the inclusive length of r.
func (r Range) Days() int {
	return domain.DaysBetween(r.Start, r.End) + 1
}

// Shift moves both ends by n days.
func (r Range) Shift(n int) Range {
	return Range{Start: domain.AddDays(r.Start, n), End: domain.AddDays(r.End, n)}
}

// Overlaps reports whether two inclusive ranges intersect.
func (r Range) Overlaps(o Range) bool {
	return !r.Start.After(o.End) && !r.End.Before(o.Start)
}

// Equal compares both ends at day precision.
func (r Range) Equal(o Range) bool {
	return r.Start.Equal(o.Start) && r.End.Equal(o.End)
}

// LaneGeometry maps vertical positions to lanes.
type LaneGeometry struct {
	TopPx        float64
	LaneHeightPx float64
}

// LaneAt returns the lane under y, clamped to 0 above the first lane.
func (g LaneGeometry) LaneAt(y float64) int {
	if g.LaneHeightPx <= 0 {
		return 0
	}
	lane := int(math.Floor((y - g.TopPx) / g.LaneHeightPx))
	if lane < 0 {
		return 0
	}
	return lane
}

// Surface is everything a pointer gesture needs to resolve against: the
// current viewport, lane geometry and the laid-out item snapshot.
type Surface struct {
	Viewport     Viewport
	Geometry     LaneGeometry
	EdgeHitboxPx float64
	Items        []*domain.Item
	Layout       Layout
}

// Bounds returns the screen x range [left, right) of an item.
func (s Surface) Bounds(it *domain.Item) (left, right float64) {
	left = s.Viewport.Offset(it.StartDate)
	right = left + SpanWidth(it.StartDate, it.EndDate, s.Viewport.PixelsPerDay)
	return left, right
}

// ItemAt returns the laid-out item under p.
func (s Surface) ItemAt(p Point) (*domain.Item, bool) {
	lane := s.Geometry.LaneAt(p.Y)
	if p.Y < s.Geometry.TopPx {
		return nil, false
	}
	for _, it := range s.Items {
		l, ok := s.Layout.Lane(it.ID)
		if !ok || l != lane {
			continue
		}
		left, right := s.Bounds(it)
		if p.X >= left && p.X < right {
			return it, true
		}
	}
	return nil, false
}

// occupied reports whether any item other than exclude sits in lane and
// overlaps r.
func (s Surface) occupied(lane int, r Range, exclude string) bool {
	for _, it := range s.Items {
		if it.ID == exclude {
			continue
		}
		l, ok := s.Layout.Lane(it.ID)
		if !ok || l != lane {
			continue
		}
		if RangeOf(it).Overlaps(r) {
			return true
		}
	}
	return false
}

func (s Surface) edgeHitbox() float64 {
	if s.EdgeHitboxPx > 0 {
		return s.EdgeHitboxPx
	}
	return DefaultEdgeHitboxPx
}

// HitTest picks the gesture for a press at x on an item spanning
// [left, right). Presses within the edge hitbox resize that edge; the body
// moves. Narrow items split into thirds so the body stays reachable.
func HitTest(left, right, x, edgePx float64) (Kind, bool) {
	if x < left || x >= right {
		return 0, false
	}
	edge := edgePx
	if third := (right - left) / 3; edge > third {
		edge = third
	}
	switch {
	case x-left < edge:
		return KindResizeStart, true
	case right-x <= edge:
		return KindResizeEnd, true
	default:
		return KindMove, true
	}
}
