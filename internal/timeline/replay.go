package timeline

import "github.com/alexanderramin/meridian/internal/domain"

// Replay runs a complete gesture on item without a pointer: press on the
// item's first (or, for resize-end, last) day, move by deltaDays and to
// lane, then release. Resizes ignore lane. The finished session is
// returned together with its mutation, which is nil when it cancelled.
func Replay(surface Surface, item *domain.Item, kind Kind, deltaDays, lane int) (*Session, *Mutation, error) {
	vp := surface.Viewport
	ppd := vp.PixelsPerDay
	g := surface.Geometry

	anchor := item.StartDate
	if kind == KindResizeEnd {
		anchor = item.EndDate
	}
	origLane, _ := surface.Layout.Lane(item.ID)
	laneY := func(l int) float64 { return g.TopPx + (float64(l)+0.5)*g.LaneHeightPx }

	press := Point{X: vp.Offset(anchor) + ppd/2, Y: laneY(origLane)}
	s, err := NewSession(item, kind, press, surface)
	if err != nil {
		return nil, nil, err
	}
	target := Point{X: press.X + float64(deltaDays)*ppd, Y: press.Y}
	if kind == KindMove {
		target.Y = laneY(lane)
	}
	if err := s.Move(target); err != nil {
		return s, nil, err
	}
	m, err := s.Release()
	return s, m, err
}
