package timeline

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	transitions []Transition
}

func (r *recorder) observe(t Transition) {
	r.transitions = append(r.transitions, t)
}

func (r *recorder) states() []State {
	var out []State
	for _, t := range r.transitions {
		out = append(out, t.To)
	}
	return out
}

func TestController_EscapeCancelsMidDrag(t *testing.T) {
	surface, _ := testSurface(t)
	bus := NewInputBus()
	rec := &recorder{}
	c := NewController(bus, WithObserver(rec.observe))

	hit, err := c.PointerDown(Point{X: 180, Y: 20}, surface)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, StateActive, c.State())
	assert.Equal(t, 1, bus.Listeners())

	bus.Publish(InputEvent{Kind: EventPointerMove, Point: Point{X: 420, Y: 100}})
	require.NotNil(t, c.Session())
	assert.Equal(t, day("2025-06-11"), c.Session().PreviewRange.Start)

	bus.Publish(InputEvent{Kind: EventKey, Key: "esc"})

	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, 0, bus.Listeners(), "listener must be released on exit")
	assert.Equal(t, []State{StateActive, StateActive, StateCancelled}, rec.states())

	last := rec.transitions[len(rec.transitions)-1]
	assert.Nil(t, last.Mutation)
	assert.Equal(t, StateCancelled, c.LastSession().State)
	assert.Equal(t, day("2025-06-09"), c.LastSession().DisplayRange().Start, "item is drawn at its original position")
}

func TestController_PointerUpCommits(t *testing.T) {
	surface, _ := testSurface(t)
	bus := NewInputBus()
	rec := &recorder{}
	c := NewController(bus)
	c.Observe(rec.observe)

	_, err := c.PointerDown(Point{X: 180, Y: 20}, surface)
	require.NoError(t, err)
	bus.Publish(InputEvent{Kind: EventPointerMove, Point: Point{X: 300, Y: 100}})
	bus.Publish(InputEvent{Kind: EventPointerUp, Point: Point{X: 420, Y: 100}})

	require.Len(t, rec.transitions, 3)
	last := rec.transitions[2]
	assert.Equal(t, StateCommitted, last.To)
	require.NotNil(t, last.Mutation)
	assert.Equal(t, "A", last.Mutation.ItemID)
	assert.Equal(t, day("2025-06-11"), last.Mutation.Start)
	assert.Equal(t, 2, last.Mutation.Lane)
	assert.Equal(t, 0, bus.Listeners())
}

func TestController_InvalidDropCancels(t *testing.T) {
	surface, _ := testSurface(t)
	bus := NewInputBus()
	rec := &recorder{}
	c := NewController(bus, WithObserver(rec.observe))

	_, err := c.PointerDown(Point{X: 180, Y: 20}, surface)
	require.NoError(t, err)
	bus.Publish(InputEvent{Kind: EventPointerUp, Point: Point{X: 420, Y: 20}})

	last := rec.transitions[len(rec.transitions)-1]
	assert.Equal(t, StateCancelled, last.To)
	assert.Nil(t, last.Mutation)
}

func TestController_MissDoesNotSubscribe(t *testing.T) {
	surface, _ := testSurface(t)
	bus := NewInputBus()
	c := NewController(bus)

	hit, err := c.PointerDown(Point{X: 50, Y: 60}, surface)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 0, bus.Listeners())
	assert.Equal(t, StateIdle, c.State())
}

func TestController_SecondPressWhileActive(t *testing.T) {
	surface, _ := testSurface(t)
	c := NewController(NewInputBus())

	_, err := c.PointerDown(Point{X: 180, Y: 20}, surface)
	require.NoError(t, err)
	_, err = c.PointerDown(Point{X: 400, Y: 20}, surface)
	assert.ErrorIs(t, err, ErrDragActive)
}

func TestController_CloseReleasesListener(t *testing.T) {
	surface, _ := testSurface(t)
	bus := NewInputBus()
	rec := &recorder{}
	c := NewController(bus, WithObserver(rec.observe))

	_, err := c.PointerDown(Point{X: 180, Y: 20}, surface)
	require.NoError(t, err)
	c.Close()

	assert.Equal(t, 0, bus.Listeners())
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, StateCancelled, rec.transitions[len(rec.transitions)-1].To)

	// Later input is ignored.
	bus.Publish(InputEvent{Kind: EventPointerUp})
	assert.Len(t, rec.transitions, 2)
}

func TestController_ReleasesEvenWhenObserverPanics(t *testing.T) {
	surface, _ := testSurface(t)
	bus := NewInputBus()
	c := NewController(bus, WithObserver(func(tr Transition) {
		if tr.To == StateCommitted {
			panic("observer blew up")
		}
	}))

	_, err := c.PointerDown(Point{X: 180, Y: 20}, surface)
	require.NoError(t, err)

	assert.Panics(t, func() {
		bus.Publish(InputEvent{Kind: EventPointerUp, Point: Point{X: 420, Y: 100}})
	})
	assert.Equal(t, 0, bus.Listeners())
	assert.Equal(t, StateIdle, c.State())
}

func TestController_LogsDragLifecycle(t *testing.T) {
	surface, _ := testSurface(t)
	var buf bytes.Buffer
	bus := NewInputBus()
	c := NewController(bus, WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))

	_, err := c.PointerDown(Point{X: 180, Y: 20}, surface)
	require.NoError(t, err)
	bus.Publish(InputEvent{Kind: EventKey, Key: "esc"})

	assert.Contains(t, buf.String(), "drag started")
	assert.Contains(t, buf.String(), `"state":"cancelled"`)
}

func TestInputBus_ReleaseIsIdempotent(t *testing.T) {
	bus := NewInputBus()
	var got []EventKind
	release := bus.Subscribe(func(e InputEvent) { got = append(got, e.Kind) })

	bus.Publish(InputEvent{Kind: EventPointerMove})
	release()
	release()
	bus.Publish(InputEvent{Kind: EventPointerUp})

	assert.Equal(t, []EventKind{EventPointerMove}, got)
	assert.Equal(t, 0, bus.Listeners())
}
