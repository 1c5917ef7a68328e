// Package board keeps an in-memory, per-project copy of the item list that
// the TUI renders from. Writes land locally first and are confirmed by the
// backing store afterwards; a failed write rolls back the item it touched.
package board

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/timeline"
	"github.com/rs/zerolog"
)

// Store is the subset of the item service the board writes through.
type Store interface {
	ListByProject(ctx context.Context, projectID string) ([]*domain.Item, error)
	Create(ctx context.Context, w *domain.Item) error
	Update(ctx context.Context, id string, patch domain.ItemPatch) (*domain.Item, error)
	Reschedule(ctx context.Context, m timeline.Mutation) (*domain.Item, error)
	Delete(ctx context.Context, id string) error
}

// Listener is called with a fresh copy of the list after every change,
// including reverts.
type Listener func(items []*domain.Item)

// Board is the optimistic item list for one project.
type Board struct {
	store     Store
	projectID string
	log       zerolog.Logger

	mu        sync.RWMutex
	items     []*domain.Item
	confirmed []*domain.Item
	listeners map[int]Listener
	nextID    int
}

func New(store Store, projectID string, log zerolog.Logger) *Board {
	return &Board{
		store:     store,
		projectID: projectID,
		log:       log.With().Str("project_id", projectID).Logger(),
		listeners: make(map[int]Listener),
	}
}

// ProjectID returns the project this board tracks.
func (b *Board) ProjectID() string { return b.projectID }

// Load replaces the local copy with the store's list.
func (b *Board) Load(ctx context.Context) error {
	items, err := b.store.ListByProject(ctx, b.projectID)
	if err != nil {
		return fmt.Errorf("loading items: %w", err)
	}
	b.mu.Lock()
	b.items = cloneAll(items)
	b.confirmed = cloneAll(items)
	b.mu.Unlock()
	b.emit()
	return nil
}

// Items returns a copy of the current list.
func (b *Board) Items() []*domain.Item {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return cloneAll(b.items)
}

// Item returns a copy of one item.
func (b *Board) Item(id string) (*domain.Item, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if i := indexOf(b.items, id); i >= 0 {
		return b.items[i].Clone(), true
	}
	return nil, false
}

// Subscribe registers fn and returns the function that removes it.
func (b *Board) Subscribe(fn Listener) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.listeners, id)
			b.mu.Unlock()
		})
	}
}

// Create adds w locally and asks the store to persist it. The store
// assigns the ID and sequence number.
func (b *Board) Create(ctx context.Context, w *domain.Item) error {
	w.ProjectID = b.projectID
	pending := w.Clone()
	b.apply(func(items []*domain.Item) []*domain.Item {
		return append(items, pending)
	})

	if err := b.store.Create(ctx, w); err != nil {
		b.revert("create", err, func(items []*domain.Item) []*domain.Item {
			for i, it := range items {
				if it == pending {
					return append(items[:i:i], items[i+1:]...)
				}
			}
			return items
		})
		return err
	}
	b.confirm(func(items []*domain.Item) []*domain.Item {
		for i, it := range items {
			if it == pending {
				items[i] = w.Clone()
				return items
			}
		}
		return append(items, w.Clone())
	})
	return nil
}

// Update applies patch to the local copy, then to the store.
func (b *Board) Update(ctx context.Context, id string, patch domain.ItemPatch) error {
	if err := b.applyTo(id, func(it *domain.Item) error {
		return patch.Apply(it, it.UpdatedAt)
	}); err != nil {
		return err
	}
	saved, err := b.store.Update(ctx, id, patch)
	if err != nil {
		b.revertItem("update", id, err)
		return err
	}
	b.confirmItem(saved)
	return nil
}

// Commit applies a finished drag.
func (b *Board) Commit(ctx context.Context, m timeline.Mutation) error {
	lane := m.Lane
	if err := b.applyTo(m.ItemID, func(it *domain.Item) error {
		return it.Reschedule(m.Start, m.End, &lane, it.UpdatedAt)
	}); err != nil {
		return err
	}
	saved, err := b.store.Reschedule(ctx, m)
	if err != nil {
		b.revertItem("reschedule", m.ItemID, err)
		return err
	}
	b.confirmItem(saved)
	return nil
}

// Delete removes the item locally, then from the store.
func (b *Board) Delete(ctx context.Context, id string) error {
	b.mu.Lock()
	i := indexOf(b.items, id)
	if i < 0 {
		b.mu.Unlock()
		return fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	b.items = append(b.items[:i:i], b.items[i+1:]...)
	b.mu.Unlock()
	b.emit()

	if err := b.store.Delete(ctx, id); err != nil {
		b.revertItem("delete", id, err)
		return err
	}
	b.confirm(func(items []*domain.Item) []*domain.Item {
		if i := indexOf(items, id); i >= 0 {
			return append(items[:i:i], items[i+1:]...)
		}
		return items
	})
	return nil
}

// applyTo edits a copy of one item and swaps it into the local list.
// The list is untouched when fn fails.
func (b *Board) applyTo(id string, fn func(*domain.Item) error) error {
	b.mu.Lock()
	i := indexOf(b.items, id)
	if i < 0 {
		b.mu.Unlock()
		return fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	next := b.items[i].Clone()
	if err := fn(next); err != nil {
		b.mu.Unlock()
		return err
	}
	items := make([]*domain.Item, len(b.items))
	copy(items, b.items)
	items[i] = next
	b.items = items
	b.mu.Unlock()
	b.emit()
	return nil
}

func (b *Board) apply(fn func([]*domain.Item) []*domain.Item) {
	b.mu.Lock()
	items := make([]*domain.Item, len(b.items), len(b.items)+1)
	copy(items, b.items)
	b.items = fn(items)
	b.mu.Unlock()
	b.emit()
}

// confirm records a successful write in the confirmed snapshot and
// mirrors it into the local list.
func (b *Board) confirm(fn func([]*domain.Item) []*domain.Item) {
	b.mu.Lock()
	b.confirmed = fn(cloneAll(b.confirmed))
	b.items = fn(append([]*domain.Item(nil), b.items...))
	b.mu.Unlock()
	b.emit()
}

func (b *Board) confirmItem(saved *domain.Item) {
	if saved == nil {
		return
	}
	b.confirm(func(items []*domain.Item) []*domain.Item {
		if i := indexOf(items, saved.ID); i >= 0 {
			items[i] = saved.Clone()
		}
		return items
	})
}

// revert undoes one failed write in the local list. Other writes still
// in flight keep their optimistic state.
func (b *Board) revert(op string, cause error, fn func([]*domain.Item) []*domain.Item) {
	b.log.Warn().Err(cause).Str("op", op).Msg("write failed, reverting")
	b.mu.Lock()
	b.items = fn(append([]*domain.Item(nil), b.items...))
	b.mu.Unlock()
	b.emit()
}

// revertItem puts the last confirmed version of id back in its confirmed
// position, or drops it when it was never confirmed.
func (b *Board) revertItem(op, id string, cause error) {
	b.mu.RLock()
	ci := indexOf(b.confirmed, id)
	var saved *domain.Item
	if ci >= 0 {
		saved = b.confirmed[ci].Clone()
	}
	b.mu.RUnlock()

	b.revert(op, cause, func(items []*domain.Item) []*domain.Item {
		i := indexOf(items, id)
		switch {
		case saved == nil && i >= 0:
			return append(items[:i:i], items[i+1:]...)
		case saved == nil:
			return items
		case i >= 0:
			items[i] = saved
			return items
		}
		if ci > len(items) {
			ci = len(items)
		}
		return append(items[:ci:ci], append([]*domain.Item{saved}, items[ci:]...)...)
	})
}

func (b *Board) emit() {
	b.mu.RLock()
	snapshot := cloneAll(b.items)
	ids := make([]int, 0, len(b.listeners))
	for id := range b.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]Listener, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, b.listeners[id])
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(cloneAll(snapshot))
	}
}

func indexOf(items []*domain.Item, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(items []*domain.Item) []*domain.Item {
	out := make([]*domain.Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}
