package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func day(s string) time.Time {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestItemValidate_InvertedRange(t *testing.T) {
	w := &Item{Title: "Backwards", StartDate: day("2025-06-10"), EndDate: day("2025-06-09")}
	err := w.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRange))
}

func TestItemValidate_SingleDay(t *testing.T) {
	w := &Item{Title: "One day", StartDate: day("2025-06-10"), EndDate: day("2025-06-10")}
	require.NoError(t, w.Validate())
	assert.Equal(t, 1, w.DurationDays())
}

func TestItemValidate_BadEnums(t *testing.T) {
	w := &Item{Title: "x", Kind: "epic", StartDate: testNow, EndDate: testNow}
	assert.ErrorContains(t, w.Validate(), "kind")

	w = &Item{Title: "x", Priority: "p0", StartDate: testNow, EndDate: testNow}
	assert.ErrorContains(t, w.Validate(), "priority")
}

func TestItemOverlaps_InclusiveEnds(t *testing.T) {
	a := &Item{StartDate: day("2025-06-09"), EndDate: day("2025-06-11")}
	b := &Item{StartDate: day("2025-06-11"), EndDate: day("2025-06-12")}
	c := &Item{StartDate: day("2025-06-12"), EndDate: day("2025-06-13")}

	assert.True(t, a.Overlaps(b), "sharing the end day is an overlap")
	assert.True(t, b.Overlaps(a))
	assert.False(t, a.Overlaps(c))
}

func TestIsTerminal(t *testing.T) {
	cases := []struct {
		status   ItemStatus
		terminal bool
	}{
		{ItemTodo, false},
		{ItemInProgress, false},
		{ItemDone, true},
		{ItemArchived, true},
	}
	for _, tc := range cases {
		w := &Item{Status: tc.status}
		assert.Equal(t, tc.terminal, w.IsTerminal(), "status=%s", tc.status)
	}
}

func TestMarkDone_FromArchived(t *testing.T) {
	w := &Item{Status: ItemArchived}
	err := w.MarkDone(testNow)
	require.ErrorIs(t, err, ErrArchived)
	assert.Equal(t, ItemArchived, w.Status, "status should not change")
}

func TestMarkInProgress_FromDone(t *testing.T) {
	w := &Item{Status: ItemDone}
	err := w.MarkInProgress(testNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "done")
	assert.Equal(t, ItemDone, w.Status)
}

func TestReopen(t *testing.T) {
	w := &Item{Status: ItemDone}
	require.NoError(t, w.Reopen(testNow))
	assert.Equal(t, ItemTodo, w.Status)
	assert.Equal(t, testNow, w.UpdatedAt)
}

func TestReschedule_RejectsInvertedRange(t *testing.T) {
	w := &Item{Title: "Fix login", StartDate: day("2025-06-09"), EndDate: day("2025-06-10")}
	err := w.Reschedule(day("2025-06-12"), day("2025-06-11"), nil, testNow)
	require.ErrorIs(t, err, ErrInvalidRange)
	assert.Equal(t, day("2025-06-09"), w.StartDate, "dates should not change")
}

func TestReschedule_TruncatesToDay(t *testing.T) {
	w := &Item{Title: "Fix login"}
	lane := 2
	require.NoError(t, w.Reschedule(testNow, testNow.Add(30*time.Hour), &lane, testNow))
	assert.Equal(t, day("2025-06-15"), w.StartDate)
	assert.Equal(t, day("2025-06-16"), w.EndDate)
	require.NotNil(t, w.LaneHint)
	assert.Equal(t, 2, *w.LaneHint)
}

func TestClone_CopiesLaneHint(t *testing.T) {
	lane := 1
	w := &Item{ID: "a", LaneHint: &lane}
	c := w.Clone()
	*c.LaneHint = 5
	assert.Equal(t, 1, *w.LaneHint)
}

func TestItemPatch_Apply(t *testing.T) {
	w := &Item{Title: "Old", StartDate: day("2025-06-09"), EndDate: day("2025-06-10")}
	title := "New"
	end := day("2025-06-14")
	require.NoError(t, ItemPatch{Title: &title, EndDate: &end}.Apply(w, testNow))
	assert.Equal(t, "New", w.Title)
	assert.Equal(t, end, w.EndDate)
	assert.Equal(t, testNow, w.UpdatedAt)
}

func TestItemPatch_Apply_InvalidLeavesItemUntouched(t *testing.T) {
	w := &Item{Title: "Keep", StartDate: day("2025-06-09"), EndDate: day("2025-06-10")}
	end := day("2025-06-01")
	err := ItemPatch{EndDate: &end}.Apply(w, testNow)
	require.ErrorIs(t, err, ErrInvalidRange)
	assert.Equal(t, day("2025-06-10"), w.EndDate)
}

func TestItemPatch_Empty(t *testing.T) {
	assert.True(t, ItemPatch{}.Empty())
	assert.False(t, ItemPatch{ClearLaneHint: true}.Empty())
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 2, DaysBetween(day("2025-06-09"), day("2025-06-11")))
	assert.Equal(t, -3, DaysBetween(day("2025-06-09"), day("2025-06-06")))
	assert.Equal(t, 0, DaysBetween(testNow, day("2025-06-15")))
}
