package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/meridian/internal/db"
	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/repository"
	"github.com/alexanderramin/meridian/internal/timeline"
	"github.com/google/uuid"
)

type itemService struct {
	items    repository.ItemRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
	now      func() time.Time
}

func NewItemService(items repository.ItemRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ItemService {
	return &itemService{
		items:    items,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
}

// Create allocates the item's project sequence number and inserts it in one
// transaction.
func (s *itemService) Create(ctx context.Context, w *domain.Item) (err error) {
	defer observe(ctx, s.observer, "create-item", time.Now(), map[string]any{"project_id": w.ProjectID}, &err)

	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	if w.Kind == "" {
		w.Kind = domain.KindTask
	}
	if w.Status == "" {
		w.Status = domain.ItemTodo
	}
	if w.Priority == "" {
		w.Priority = domain.PriorityMedium
	}
	w.StartDate = domain.Day(w.StartDate)
	w.EndDate = domain.Day(w.EndDate)
	if err = w.Validate(); err != nil {
		return err
	}
	now := s.now()
	w.CreatedAt = now
	w.UpdatedAt = now

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		seq, err := repository.NewSQLiteProjectSequenceRepo(tx).NextProjectSeq(ctx, w.ProjectID)
		if err != nil {
			return err
		}
		w.Seq = seq
		return repository.NewSQLiteItemRepo(tx).Create(ctx, w)
	})
}

func (s *itemService) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	return s.items.GetByID(ctx, id)
}

func (s *itemService) Resolve(ctx context.Context, projectID, ref string) (*domain.Item, error) {
	if n, convErr := strconv.Atoi(strings.TrimPrefix(ref, "#")); convErr == nil {
		w, err := s.items.GetBySeq(ctx, projectID, n)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("item #%d: %w", n, domain.ErrNotFound)
		}
		return w, err
	}
	w, err := s.items.GetByID(ctx, ref)
	if err != nil {
		return nil, err
	}
	if w.ProjectID != projectID {
		return nil, fmt.Errorf("item %q: %w", ref, domain.ErrNotFound)
	}
	return w, nil
}

func (s *itemService) ListByProject(ctx context.Context, projectID string) ([]*domain.Item, error) {
	return s.items.ListByProject(ctx, projectID)
}

func (s *itemService) Update(ctx context.Context, id string, patch domain.ItemPatch) (w *domain.Item, err error) {
	defer observe(ctx, s.observer, "update-item", time.Now(), map[string]any{"item_id": id}, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteItemRepo(tx)
		cur, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := patch.Apply(cur, s.now()); err != nil {
			return err
		}
		if err := repo.Update(ctx, cur); err != nil {
			return err
		}
		w = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Reschedule applies a committed drag: new range plus the lane it was
// dropped in.
func (s *itemService) Reschedule(ctx context.Context, m timeline.Mutation) (w *domain.Item, err error) {
	fields := map[string]any{
		"item_id": m.ItemID,
		"start":   m.Start.Format(domain.DateLayout),
		"end":     m.End.Format(domain.DateLayout),
		"lane":    m.Lane,
	}
	defer observe(ctx, s.observer, "reschedule-item", time.Now(), fields, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteItemRepo(tx)
		cur, err := repo.GetByID(ctx, m.ItemID)
		if err != nil {
			return err
		}
		lane := m.Lane
		if err := cur.Reschedule(m.Start, m.End, &lane, s.now()); err != nil {
			return err
		}
		if err := repo.Update(ctx, cur); err != nil {
			return err
		}
		w = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (s *itemService) MarkDone(ctx context.Context, id string) (*domain.Item, error) {
	done := domain.ItemDone
	return s.Update(ctx, id, domain.ItemPatch{Status: &done})
}

func (s *itemService) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "delete-item", time.Now(), map[string]any{"item_id": id}, &err)
	return s.items.Delete(ctx, id)
}
