package timeline

import (
	"errors"

	"github.com/rs/zerolog"
)

// Transition is delivered to observers on every session state change.
// Session is a snapshot taken after the change; Mutation is set only when
// the session committed.
type Transition struct {
	From     State
	To       State
	Session  Session
	Mutation *Mutation
}

// Observer receives drag transitions.
type Observer func(Transition)

// Controller owns at most one drag session. It listens on the InputBus
// only while a session is active and always releases the subscription
// when the session ends, including on Close.
type Controller struct {
	bus       *InputBus
	log       zerolog.Logger
	observers []Observer

	session *Session
	release func()
	last    *Session
}

type ControllerOption func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(log zerolog.Logger) ControllerOption {
	return func(c *Controller) { c.log = log }
}

// WithObserver registers an observer at construction.
func WithObserver(o Observer) ControllerOption {
	return func(c *Controller) { c.observers = append(c.observers, o) }
}

func NewController(bus *InputBus, opts ...ControllerOption) *Controller {
	c := &Controller{bus: bus, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Observe registers an observer.
func (c *Controller) Observe(o Observer) {
	c.observers = append(c.observers, o)
}

// State is Active during a gesture and Idle otherwise.
func (c *Controller) State() State {
	if c.session != nil {
		return StateActive
	}
	return StateIdle
}

// Session returns the active session, or nil.
func (c *Controller) Session() *Session {
	return c.session
}

// LastSession returns the most recently finished session, or nil.
func (c *Controller) LastSession() *Session {
	return c.last
}

// ErrDragActive is returned when a second gesture starts while one is live.
var ErrDragActive = errors.New("a drag is already in progress")

// PointerDown starts a session when p lands on a laid-out item. It returns
// false when nothing was hit.
func (c *Controller) PointerDown(p Point, surface Surface) (bool, error) {
	if c.session != nil {
		return false, ErrDragActive
	}
	item, ok := surface.ItemAt(p)
	if !ok {
		return false, nil
	}
	left, right := surface.Bounds(item)
	kind, ok := HitTest(left, right, p.X, surface.edgeHitbox())
	if !ok {
		return false, nil
	}
	s, err := NewSession(item, kind, p, surface)
	if err != nil {
		return false, err
	}

	c.session = s
	c.release = c.bus.Subscribe(c.handle)
	c.log.Debug().Str("item_id", s.ItemID).Stringer("kind", s.Kind).Msg("drag started")
	c.notify(Transition{From: StateIdle, To: StateActive, Session: *s})
	return true, nil
}

func (c *Controller) handle(e InputEvent) {
	s := c.session
	if s == nil {
		return
	}
	switch e.Kind {
	case EventPointerMove:
		if err := s.Move(e.Point); err == nil {
			c.notify(Transition{From: StateActive, To: StateActive, Session: *s})
		}
	case EventPointerUp:
		_ = s.Move(e.Point)
		c.finish(func() (*Mutation, error) { return s.Release() })
	case EventKey:
		if e.Key == "esc" {
			c.finish(func() (*Mutation, error) { return nil, s.Cancel() })
		}
	}
}

// Cancel aborts the active session, if any.
func (c *Controller) Cancel() {
	if s := c.session; s != nil {
		c.finish(func() (*Mutation, error) { return nil, s.Cancel() })
	}
}

// Close ends any live gesture. Call it when the owning view goes away.
func (c *Controller) Close() {
	c.Cancel()
	if c.release != nil {
		c.release()
		c.release = nil
	}
}

// finish runs the exit transition and releases the bus subscription
// unconditionally, even if an observer panics.
func (c *Controller) finish(exit func() (*Mutation, error)) {
	s := c.session
	release := c.release
	c.session = nil
	c.release = nil
	c.last = s
	defer func() {
		if release != nil {
			release()
		}
	}()

	m, err := exit()
	if err != nil {
		c.log.Warn().Err(err).Str("item_id", s.ItemID).Msg("drag exit failed")
		return
	}
	c.log.Debug().Str("item_id", s.ItemID).Stringer("state", s.State).Msg("drag finished")
	c.notify(Transition{From: StateActive, To: s.State, Session: *s, Mutation: m})
}

func (c *Controller) notify(t Transition) {
	for _, o := range c.observers {
		o(t)
	}
}
