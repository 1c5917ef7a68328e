package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/google/uuid"
)

var testShortIDCounter atomic.Int64

// Project options
type ProjectOption func(*domain.Project)

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithShortID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ShortID = id
	}
}

func WithDescription(d string) ProjectOption {
	return func(p *domain.Project) {
		p.Description = d
	}
}

func defaultShortID(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testShortIDCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n)
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Project{
		ID:        uuid.New().String(),
		ShortID:   defaultShortID(name),
		Name:      name,
		Status:    domain.ProjectActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Item options
type ItemOption func(*domain.Item)

// WithRange sets inclusive start and end days given as YYYY-MM-DD.
func WithRange(start, end string) ItemOption {
	return func(w *domain.Item) {
		w.StartDate = MustDate(start)
		w.EndDate = MustDate(end)
	}
}

func WithKind(k domain.ItemKind) ItemOption {
	return func(w *domain.Item) {
		w.Kind = k
	}
}

func WithItemStatus(s domain.ItemStatus) ItemOption {
	return func(w *domain.Item) {
		w.Status = s
	}
}

func WithPriority(p domain.Priority) ItemOption {
	return func(w *domain.Item) {
		w.Priority = p
	}
}

func WithLaneHint(lane int) ItemOption {
	return func(w *domain.Item) {
		w.LaneHint = &lane
	}
}

func WithItemID(id string) ItemOption {
	return func(w *domain.Item) {
		w.ID = id
	}
}

// NewTestItem builds a one-week todo task starting 2025-06-09.
func NewTestItem(projectID, title string, opts ...ItemOption) *domain.Item {
	now := time.Now().UTC().Truncate(time.Second)
	w := &domain.Item{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Title:     title,
		Kind:      domain.KindTask,
		Status:    domain.ItemTodo,
		Priority:  domain.PriorityMedium,
		StartDate: MustDate("2025-06-09"),
		EndDate:   MustDate("2025-06-13"),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// MustDate parses YYYY-MM-DD or panics.
func MustDate(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}
