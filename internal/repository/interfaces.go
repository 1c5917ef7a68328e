package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/meridian/internal/domain"
)

// ErrNotFound is wrapped by every Get* method when the row is missing.
var ErrNotFound = domain.ErrNotFound

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Archive(ctx context.Context, id string) error
	Unarchive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type ItemRepo interface {
	Create(ctx context.Context, w *domain.Item) error
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	GetBySeq(ctx context.Context, projectID string, seq int) (*domain.Item, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Item, error)
	ListInRange(ctx context.Context, projectID string, from, to time.Time) ([]*domain.Item, error)
	Update(ctx context.Context, w *domain.Item) error
	Delete(ctx context.Context, id string) error
}

type ProjectSequenceRepo interface {
	NextProjectSeq(ctx context.Context, projectID string) (int, error)
}
