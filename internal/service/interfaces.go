package service

import (
	"context"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/timeline"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	// Resolve accepts a short ID (case-insensitive) or a full UUID.
	Resolve(ctx context.Context, ref string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Archive(ctx context.Context, id string) error
	Unarchive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string, force bool) error
}

type ItemService interface {
	Create(ctx context.Context, w *domain.Item) error
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	// Resolve accepts a project sequence number ("3" or "#3") or a UUID.
	Resolve(ctx context.Context, projectID, ref string) (*domain.Item, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Item, error)
	Update(ctx context.Context, id string, patch domain.ItemPatch) (*domain.Item, error)
	Reschedule(ctx context.Context, m timeline.Mutation) (*domain.Item, error)
	MarkDone(ctx context.Context, id string) (*domain.Item, error)
	Delete(ctx context.Context, id string) error
}

// TimelineView is a laid-out project: lanes are assigned over every live
// item so they stay put while the viewport scrolls.
type TimelineView struct {
	Project  *domain.Project
	Viewport timeline.Viewport
	Items    []*domain.Item
	Visible  []*domain.Item
	Layout   timeline.Layout
}

type TimelineService interface {
	Layout(ctx context.Context, projectID string, vp timeline.Viewport) (*TimelineView, error)
	// Arrange lays out an item snapshot that is already in memory.
	Arrange(items []*domain.Item) timeline.Layout
}
