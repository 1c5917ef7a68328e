package cli

import (
	"fmt"

	"github.com/alexanderramin/meridian/internal/cli/formatter"
	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/timeline"
	"github.com/spf13/cobra"
)

func newTimelineCmd(app *App) *cobra.Command {
	var gran granularityFlag
	var at dateFlag
	var width int
	var project string

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Print a project's timeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, project)
			if err != nil {
				return err
			}
			if width < 10 {
				return fmt.Errorf("width must be at least 10 columns")
			}

			g := gran.Or(app.config().Granularity())
			if !gran.set && app.Prefs != nil {
				if pr, err := app.Prefs.Load(ctx, p.ID); err == nil {
					g = pr.Granularity
				}
			}
			center := domain.Day(app.now())
			if at.set {
				center = at.t
			}

			cfg := app.config()
			vp := timeline.NewViewport(center, float64(width)*cfg.Timeline.CellPx, g, cfg.ScaleTable())
			view, err := app.Timeline.Layout(ctx, p.ID, vp)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s  %s → %s\n\n",
				formatter.Bold(p.Name), formatter.Dim(string(g)),
				vp.WindowStart().Format("Jan 2, 2006"), vp.WindowEnd().Format("Jan 2, 2006"))
			fmt.Fprintln(out, formatter.RenderTimeline(formatter.TimelineGrid{
				Viewport: vp,
				Items:    view.Visible,
				Layout:   view.Layout,
				CellPx:   cfg.Timeline.CellPx,
				Today:    app.now(),
			}))
			fmt.Fprintln(out)
			fmt.Fprintln(out, formatter.FormatTimelineLegend(view.Visible, view.Layout))
			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project short ID or UUID")
	cmd.Flags().VarP(&gran, "granularity", "g", "weekly|monthly|quarterly (default from config or saved view)")
	cmd.Flags().Var(&at, "at", "Centre the window on this day (YYYY-MM-DD, default today)")
	cmd.Flags().IntVar(&width, "width", 100, "Width in terminal columns")

	return cmd
}
