package timeline

import (
	"sort"
	"sync"
)

// EventKind identifies a process-wide input event.
type EventKind int

const (
	EventPointerMove EventKind = iota
	EventPointerUp
	EventKey
)

// InputEvent is a pointer or key event published on the InputBus.
type InputEvent struct {
	Kind  EventKind
	Point Point
	Key   string // for EventKey, e.g. "esc"
}

// InputBus fans process-wide input out to whoever is listening. Drag
// sessions subscribe to it only while they are active.
type InputBus struct {
	mu       sync.Mutex
	nextID   int
	handlers map[int]func(InputEvent)
}

func NewInputBus() *InputBus {
	return &InputBus{handlers: make(map[int]func(InputEvent))}
}

// Subscribe registers h and returns its release function. Calling release
// more than once is safe.
func (b *InputBus) Subscribe(h func(InputEvent)) (release func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = h
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.handlers, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers e to every current listener in subscription order.
// Handlers may unsubscribe while being called.
func (b *InputBus) Publish(e InputEvent) {
	b.mu.Lock()
	ids := make([]int, 0, len(b.handlers))
	for id := range b.handlers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	hs := make([]func(InputEvent), 0, len(ids))
	for _, id := range ids {
		hs = append(hs, b.handlers[id])
	}
	b.mu.Unlock()

	for _, h := range hs {
		h(e)
	}
}

// Listeners returns the number of registered handlers.
func (b *InputBus) Listeners() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers)
}
