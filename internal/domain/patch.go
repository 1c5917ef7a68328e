package domain

import (
	"fmt"
	"time"
)

// ItemPatch is a partial update. Nil fields are left unchanged.
type ItemPatch struct {
	Title     *string
	Status    *ItemStatus
	Priority  *Priority
	StartDate *time.Time
	EndDate   *time.Time
	LaneHint  *int

	// ClearLaneHint drops a stored lane hint; LaneHint is ignored when set.
	ClearLaneHint bool
}

// Empty reports whether the patch changes nothing.
func (p ItemPatch) Empty() bool {
	return p.Title == nil && p.Status == nil && p.Priority == nil &&
		p.StartDate == nil && p.EndDate == nil && p.LaneHint == nil && !p.ClearLaneHint
}

// Apply writes the patch onto w after validating the resulting item.
// On error w is left untouched.
func (p ItemPatch) Apply(w *Item, now time.Time) error {
	next := w.Clone()
	if p.Title != nil {
		next.Title = *p.Title
	}
	if p.Status != nil {
		next.Status = *p.Status
	}
	if p.Priority != nil {
		next.Priority = *p.Priority
	}
	if p.StartDate != nil {
		next.StartDate = Day(*p.StartDate)
	}
	if p.EndDate != nil {
		next.EndDate = Day(*p.EndDate)
	}
	switch {
	case p.ClearLaneHint:
		next.LaneHint = nil
	case p.LaneHint != nil:
		if *p.LaneHint < 0 {
			return fmt.Errorf("lane must be >= 0, got %d", *p.LaneHint)
		}
		lane := *p.LaneHint
		next.LaneHint = &lane
	}
	if err := next.Validate(); err != nil {
		return err
	}
	next.UpdatedAt = now
	*w = *next
	return nil
}
