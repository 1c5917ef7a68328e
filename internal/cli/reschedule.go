package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/timeline"
)

// errNoChange is returned when a gesture would leave the item where it is.
var errNoChange = errors.New("nothing to change")

// rescheduleItem replays a drag of deltaDays on it without a pointer, so
// the CLI applies exactly the checks the timeline does. lane < 0 keeps
// the item's current lane.
func rescheduleItem(ctx context.Context, app *App, p *domain.Project, it *domain.Item, kind timeline.Kind, deltaDays, lane int) (*domain.Item, error) {
	if it.Status == domain.ItemArchived {
		return nil, fmt.Errorf("%s: %w", it.Title, domain.ErrArchived)
	}
	items, err := app.Items.ListByProject(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	cfg := app.config()
	layout := app.Timeline.Arrange(items)

	vp := timeline.NewViewport(it.StartDate, 7*cfg.ScaleTable().PixelsPerDay(timeline.Weekly), timeline.Weekly, cfg.ScaleTable())
	surface := timeline.Surface{
		Viewport:     vp,
		Geometry:     timeline.LaneGeometry{LaneHeightPx: cfg.Timeline.LaneHeightPx},
		EdgeHitboxPx: cfg.Timeline.EdgeHitboxPx,
		Items:        items,
		Layout:       layout,
	}

	current, _ := layout.Lane(it.ID)
	if lane < 0 {
		lane = current
	}

	s, m, err := timeline.Replay(surface, it, kind, deltaDays, lane)
	if err != nil {
		return nil, err
	}
	if m == nil {
		if !s.IsValid {
			return nil, fmt.Errorf("%s %s → %s would overlap another item in lane %d",
				kind, s.PreviewRange.Start.Format(domain.DateLayout), s.PreviewRange.End.Format(domain.DateLayout), s.TargetLane)
		}
		return nil, errNoChange
	}

	app.Log.Debug().
		Str("item_id", m.ItemID).
		Stringer("kind", kind).
		Int("delta_days", deltaDays).
		Int("lane", m.Lane).
		Msg("replayed drag")
	return app.Items.Reschedule(ctx, *m)
}
