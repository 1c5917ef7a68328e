package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/meridian/internal/domain"
)

// resolveProject accepts a short ID (any case) or a full UUID.
func resolveProject(ctx context.Context, app *App, ref string) (*domain.Project, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("project is required (use --project)")
	}
	if p, err := app.Projects.Resolve(ctx, strings.ToUpper(ref)); err == nil {
		return p, nil
	}
	return app.Projects.Resolve(ctx, ref)
}

// resolveItem accepts "3", "#3" or a UUID within the project.
func resolveItem(ctx context.Context, app *App, projectRef, itemRef string) (*domain.Project, *domain.Item, error) {
	p, err := resolveProject(ctx, app, projectRef)
	if err != nil {
		return nil, nil, err
	}
	it, err := app.Items.Resolve(ctx, p.ID, itemRef)
	if err != nil {
		return nil, nil, err
	}
	return p, it, nil
}
