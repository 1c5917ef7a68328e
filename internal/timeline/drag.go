package timeline

import (
	"errors"
	"time"

	"github.com/alexanderramin/meridian/internal/domain"
)

// State is the lifecycle of a drag session.
type State int

const (
	StateIdle State = iota
	StateActive
	StateCommitted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateCommitted:
		return "committed"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Kind is the gesture a session performs.
type Kind int

const (
	KindMove Kind = iota
	KindResizeStart
	KindResizeEnd
)

func (k Kind) String() string {
	switch k {
	case KindMove:
		return "move"
	case KindResizeStart:
		return "resize-start"
	case KindResizeEnd:
		return "resize-end"
	}
	return "unknown"
}

// ErrSessionClosed is returned when feeding input to a finished session.
var ErrSessionClosed = errors.New("drag session is not active")

// Mutation is the change a committed session asks the store to apply.
type Mutation struct {
	ItemID string
	Start  time.Time
	End    time.Time
	Lane   int
}

// Session tracks one in-progress move or resize of a single item.
type Session struct {
	ItemID        string
	Kind          Kind
	State         State
	PointerStart  Point
	Pointer       Point
	OriginalRange Range
	PreviewRange  Range
	OriginalLane  int
	TargetLane    int
	IsValid       bool

	surface Surface
}

// NewSession starts an Active session for item. The item must be laid out
// on surface.
func NewSession(item *domain.Item, kind Kind, p Point, surface Surface) (*Session, error) {
	lane, ok := surface.Layout.Lane(item.ID)
	if !ok {
		return nil, errors.New("item is not laid out")
	}
	r := RangeOf(item)
	return &Session{
		ItemID:        item.ID,
		Kind:          kind,
		State:         StateActive,
		PointerStart:  p,
		Pointer:       p,
		OriginalRange: r,
		PreviewRange:  r,
		OriginalLane:  lane,
		TargetLane:    lane,
		IsValid:       true,
		surface:       surface,
	}, nil
}

// Move recomputes the preview for the pointer at p.
func (s *Session) Move(p Point) error {
	if s.State != StateActive {
		return ErrSessionClosed
	}
	s.Pointer = p
	vp := s.surface.Viewport
	delta := domain.DaysBetween(vp.DateAt(s.PointerStart.X), vp.DateAt(p.X))

	orig := s.OriginalRange
	switch s.Kind {
	case KindMove:
		s.PreviewRange = orig.Shift(delta)
		s.TargetLane = s.surface.Geometry.LaneAt(p.Y)
	case KindResizeStart:
		start := domain.AddDays(orig.Start, delta)
		if start.After(orig.End) {
			start = orig.End
		}
		s.PreviewRange = Range{Start: start, End: orig.End}
		s.TargetLane = s.OriginalLane
	case KindResizeEnd:
		end := domain.AddDays(orig.End, delta)
		if end.Before(orig.Start) {
			end = orig.Start
		}
		s.PreviewRange = Range{Start: orig.Start, End: end}
		s.TargetLane = s.OriginalLane
	}
	s.IsValid = s.validate()
	return nil
}

func (s *Session) validate() bool {
	if s.PreviewRange.End.Before(s.PreviewRange.Start) {
		return false
	}
	return !s.surface.occupied(s.TargetLane, s.PreviewRange, s.ItemID)
}

// Changed reports whether the preview differs from the original placement.
func (s *Session) Changed() bool {
	return !s.PreviewRange.Equal(s.OriginalRange) || s.TargetLane != s.OriginalLane
}

// Release ends the gesture. A valid, changed preview commits and yields a
// mutation; anything else cancels.
func (s *Session) Release() (*Mutation, error) {
	if s.State != StateActive {
		return nil, ErrSessionClosed
	}
	if !s.IsValid || !s.Changed() {
		s.State = StateCancelled
		return nil, nil
	}
	s.State = StateCommitted
	return &Mutation{
		ItemID: s.ItemID,
		Start:  s.PreviewRange.Start,
		End:    s.PreviewRange.End,
		Lane:   s.TargetLane,
	}, nil
}

// Cancel discards the gesture.
func (s *Session) Cancel() error {
	if s.State != StateActive {
		return ErrSessionClosed
	}
	s.State = StateCancelled
	s.PreviewRange = s.OriginalRange
	s.TargetLane = s.OriginalLane
	return nil
}

// DisplayRange is where the item should be drawn right now: the preview
// while active, the original range once cancelled.
func (s *Session) DisplayRange() Range {
	if s.State == StateCancelled {
		return s.OriginalRange
	}
	return s.PreviewRange
}
