package timeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/rs/zerolog"
)

// RejectedItem is an item excluded from layout because its data is invalid.
type RejectedItem struct {
	ItemID string
	Err    error
}

// Layout maps item IDs to lane indexes. It is derived data, recomputed
// whenever the item set changes and never persisted.
type Layout struct {
	Lanes     map[string]int
	LaneCount int
	Order     []string // item IDs in placement order
	Rejected  []RejectedItem
}

// Lane returns the lane of an item and whether it was placed.
func (l Layout) Lane(itemID string) (int, bool) {
	lane, ok := l.Lanes[itemID]
	return lane, ok
}

// ItemsInLane returns the placed item IDs in lane, in start order.
func (l Layout) ItemsInLane(lane int) []string {
	var ids []string
	for _, id := range l.Order {
		if l.Lanes[id] == lane {
			ids = append(ids, id)
		}
	}
	return ids
}

// LaneAssigner places items into the lowest free lane.
type LaneAssigner struct {
	log zerolog.Logger
}

// NewLaneAssigner creates an assigner that reports rejected items to log.
func NewLaneAssigner(log zerolog.Logger) *LaneAssigner {
	return &LaneAssigner{log: log}
}

// AssignLanes runs the assigner without logging.
func AssignLanes(items []*domain.Item) Layout {
	return NewLaneAssigner(zerolog.Nop()).Assign(items)
}

// Assign sorts items by start date, ties broken by ID, and places each one
// in the lowest lane whose last item ends strictly before it starts. An
// item's LaneHint wins only when that lane already exists and is free, so
// hints never open lanes. Items with an inverted range are rejected and
// logged; they never affect other lanes.
func (a *LaneAssigner) Assign(items []*domain.Item) Layout {
	layout := Layout{Lanes: make(map[string]int, len(items))}

	valid := make([]*domain.Item, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		var err error
		switch {
		case domain.Day(it.EndDate).Before(domain.Day(it.StartDate)):
			err = domain.ErrInvalidRange
		case seen[it.ID]:
			err = fmt.Errorf("duplicate item id")
		}
		if err != nil {
			a.log.Warn().
				Str("item_id", it.ID).
				Str("start", it.StartDate.Format(domain.DateLayout)).
				Str("end", it.EndDate.Format(domain.DateLayout)).
				Err(err).
				Msg("excluding item from layout")
			layout.Rejected = append(layout.Rejected, RejectedItem{ItemID: it.ID, Err: err})
			continue
		}
		seen[it.ID] = true
		valid = append(valid, it)
	}

	sort.SliceStable(valid, func(i, j int) bool {
		si, sj := domain.Day(valid[i].StartDate), domain.Day(valid[j].StartDate)
		if !si.Equal(sj) {
			return si.Before(sj)
		}
		return valid[i].ID < valid[j].ID
	})

	var laneEnds []time.Time
	for _, it := range valid {
		start, end := domain.Day(it.StartDate), domain.Day(it.EndDate)

		lane := firstFreeLane(laneEnds, start)
		if h := it.LaneHint; h != nil && *h >= 0 && *h < len(laneEnds) && laneEnds[*h].Before(start) {
			lane = *h
		}

		if lane == len(laneEnds) {
			laneEnds = append(laneEnds, end)
		} else {
			laneEnds[lane] = end
		}
		layout.Lanes[it.ID] = lane
		layout.Order = append(layout.Order, it.ID)
	}
	layout.LaneCount = len(laneEnds)
	return layout
}

// firstFreeLane returns the lowest lane whose last end is strictly before
// start, or len(laneEnds) when a new lane is needed.
func firstFreeLane(laneEnds []time.Time, start time.Time) int {
	for i, end := range laneEnds {
		if end.Before(start) {
			return i
		}
	}
	return len(laneEnds)
}
