// Package prefs stores per-project view preferences. The TUI receives a
// Store at construction and reads and writes through it; nothing about the
// view is held in package state.
package prefs

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/meridian/internal/kv"
	"github.com/alexanderramin/meridian/internal/timeline"
)

const namespace = "prefs"

// Preferences is the saved view state for one project.
type Preferences struct {
	Collapsed          map[string]bool      `json:"collapsed,omitempty"`
	LastSelectedItemID string               `json:"last_selected_item_id,omitempty"`
	Granularity        timeline.Granularity `json:"granularity,omitempty"`
}

// IsCollapsed reports whether the group key is collapsed.
func (p Preferences) IsCollapsed(key string) bool {
	return p.Collapsed[key]
}

// Toggle flips the collapsed state of key.
func (p *Preferences) Toggle(key string) {
	if p.Collapsed == nil {
		p.Collapsed = make(map[string]bool)
	}
	if p.Collapsed[key] {
		delete(p.Collapsed, key)
		return
	}
	p.Collapsed[key] = true
}

// Store reads and writes Preferences keyed by project ID.
type Store struct {
	kv       *kv.TypedKV[Preferences]
	defaults Preferences
}

// NewStore wraps store. Projects with nothing saved get defaultGranularity.
func NewStore(store kv.KV, defaultGranularity timeline.Granularity) *Store {
	return &Store{
		kv:       kv.Scoped[Preferences](store, namespace),
		defaults: Preferences{Granularity: defaultGranularity},
	}
}

// Load returns the saved preferences, or the defaults when none exist.
func (s *Store) Load(ctx context.Context, projectID string) (Preferences, error) {
	p, err := s.kv.Get(ctx, projectID)
	if errors.Is(err, kv.ErrNotFound) {
		return s.defaults, nil
	}
	if err != nil {
		return s.defaults, fmt.Errorf("loading preferences for %s: %w", projectID, err)
	}
	if _, perr := timeline.ParseGranularity(string(p.Granularity)); perr != nil {
		p.Granularity = s.defaults.Granularity
	}
	return p, nil
}

func (s *Store) Save(ctx context.Context, projectID string, p Preferences) error {
	if err := s.kv.Set(ctx, projectID, p); err != nil {
		return fmt.Errorf("saving preferences for %s: %w", projectID, err)
	}
	return nil
}

// Delete drops a project's preferences. Used when the project is removed.
func (s *Store) Delete(ctx context.Context, projectID string) error {
	return s.kv.Delete(ctx, projectID)
}

// Projects lists the project IDs that have saved preferences.
func (s *Store) Projects(ctx context.Context) ([]string, error) {
	return s.kv.Keys(ctx)
}
