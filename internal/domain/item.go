package domain

import (
	"fmt"
	"time"
)

// Item is a dated unit of work shown on the timeline: a task, bug,
// feature or tracker. StartDate and EndDate are inclusive calendar days.
type Item struct {
	ID        string
	ProjectID string
	Seq       int
	Title     string
	Kind      ItemKind
	Status    ItemStatus
	Priority  Priority

	StartDate time.Time
	EndDate   time.Time

	// LaneHint records the lane an item was last dropped into.
	// Layout honours it only while that lane is free.
	LaneHint *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the range invariant and enum fields.
func (w *Item) Validate() error {
	if w.Title == "" {
		return fmt.Errorf("title is required")
	}
	if w.EndDate.Before(w.StartDate) {
		return fmt.Errorf("item %q: %w", w.Title, ErrInvalidRange)
	}
	if w.Kind != "" && !ValidItemKinds[string(w.Kind)] {
		return fmt.Errorf("invalid kind %q", w.Kind)
	}
	if w.Status != "" && !ValidItemStatuses[string(w.Status)] {
		return fmt.Errorf("invalid status %q", w.Status)
	}
	if w.Priority != "" && !ValidPriorities[string(w.Priority)] {
		return fmt.Errorf("invalid priority %q", w.Priority)
	}
	return nil
}

// DurationDays returns the inclusive length of the item in days.
func (w *Item) DurationDays() int {
	return DaysBetween(w.StartDate, w.EndDate) + 1
}

// Overlaps reports whether the inclusive ranges of w and o intersect.
func (w *Item) Overlaps(o *Item) bool {
	return !w.StartDate.After(o.EndDate) && !w.EndDate.Before(o.StartDate)
}

// IsTerminal reports whether the item no longer accepts work.
func (w *Item) IsTerminal() bool {
	return w.Status == ItemDone || w.Status == ItemArchived
}

func (w *Item) MarkInProgress(now time.Time) error {
	switch w.Status {
	case ItemArchived:
		return ErrArchived
	case ItemDone:
		return fmt.Errorf("cannot start item in status done (reopen it first)")
	}
	w.Status = ItemInProgress
	w.UpdatedAt = now
	return nil
}

func (w *Item) MarkDone(now time.Time) error {
	if w.Status == ItemArchived {
		return ErrArchived
	}
	w.Status = ItemDone
	w.UpdatedAt = now
	return nil
}

func (w *Item) Reopen(now time.Time) error {
	if w.Status == ItemArchived {
		return ErrArchived
	}
	w.Status = ItemTodo
	w.UpdatedAt = now
	return nil
}

// Reschedule moves the item to [start, end] and records the lane it was
// placed in. The range invariant is checked before anything changes.
func (w *Item) Reschedule(start, end time.Time, lane *int, now time.Time) error {
	if w.Status == ItemArchived {
		return ErrArchived
	}
	start, end = Day(start), Day(end)
	if end.Before(start) {
		return fmt.Errorf("item %q: %w", w.Title, ErrInvalidRange)
	}
	w.StartDate = start
	w.EndDate = end
	w.LaneHint = lane
	w.UpdatedAt = now
	return nil
}

// Clone returns a deep copy of the item.
func (w *Item) Clone() *Item {
	c := *w
	if w.LaneHint != nil {
		lane := *w.LaneHint
		c.LaneHint = &lane
	}
	return &c
}
