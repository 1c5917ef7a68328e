package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/repository"
	"github.com/alexanderramin/meridian/internal/timeline"
	"github.com/rs/zerolog"
)

type timelineService struct {
	projects repository.ProjectRepo
	items    repository.ItemRepo
	lanes    *timeline.LaneAssigner
}

func NewTimelineService(projects repository.ProjectRepo, items repository.ItemRepo, log zerolog.Logger) TimelineService {
	return &timelineService{
		projects: projects,
		items:    items,
		lanes:    timeline.NewLaneAssigner(log),
	}
}

func (s *timelineService) Layout(ctx context.Context, projectID string, vp timeline.Viewport) (*TimelineView, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	all, err := s.items.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading items: %w", err)
	}
	visible, err := s.items.ListInRange(ctx, projectID, vp.WindowStart(), vp.WindowEnd())
	if err != nil {
		return nil, fmt.Errorf("loading visible items: %w", err)
	}
	live := liveItems(all)
	return &TimelineView{
		Project:  p,
		Viewport: vp,
		Items:    live,
		Visible:  liveItems(visible),
		Layout:   s.lanes.Assign(live),
	}, nil
}

func (s *timelineService) Arrange(items []*domain.Item) timeline.Layout {
	return s.lanes.Assign(liveItems(items))
}

// liveItems drops archived items; they never take up a lane.
func liveItems(items []*domain.Item) []*domain.Item {
	out := make([]*domain.Item, 0, len(items))
	for _, it := range items {
		if it.Status != domain.ItemArchived {
			out = append(out, it)
		}
	}
	return out
}
