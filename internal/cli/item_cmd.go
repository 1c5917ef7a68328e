package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/meridian/internal/cli/formatter"
	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/timeline"
	"github.com/spf13/cobra"
)

func newItemCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage dated items (tasks, bugs, features, trackers)",
	}

	cmd.PersistentFlags().StringP("project", "p", "", "Project short ID or UUID")

	cmd.AddCommand(
		newItemAddCmd(app),
		newItemListCmd(app),
		newItemShowCmd(app),
		newItemUpdateCmd(app),
		newItemMoveCmd(app),
		newItemResizeCmd(app),
		newItemDoneCmd(app),
		newItemRemoveCmd(app),
	)

	return cmd
}

func projectFlag(cmd *cobra.Command) string {
	v, _ := cmd.Flags().GetString("project")
	return v
}

func newItemAddCmd(app *App) *cobra.Command {
	var title string
	var days int
	var start, end dateFlag
	kind := kindFlag(domain.KindTask)
	priority := priorityFlag(domain.PriorityMedium)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an item to a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, projectFlag(cmd))
			if err != nil {
				return err
			}

			from := domain.Day(app.now())
			if start.set {
				from = start.t
			}
			to := domain.AddDays(from, days-1)
			if end.set {
				to = end.t
			}

			it := &domain.Item{
				ProjectID: p.ID,
				Title:     strings.TrimSpace(title),
				Kind:      domain.ItemKind(kind.value),
				Priority:  domain.Priority(priority.value),
				StartDate: from,
				EndDate:   to,
			}
			if err := app.Items.Create(ctx, it); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s to %s: %s\n",
				formatter.ItemRef(it.Seq), it.Title, p.DisplayID(), formatter.FormatRange(it.StartDate, it.EndDate))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Item title")
	cmd.Flags().Var(kind, "kind", "task|bug|feature|tracker")
	cmd.Flags().Var(priority, "priority", "low|medium|high|urgent")
	cmd.Flags().Var(&start, "start", "First day (YYYY-MM-DD, default today)")
	cmd.Flags().Var(&end, "end", "Last day, inclusive (YYYY-MM-DD)")
	cmd.Flags().IntVar(&days, "days", 1, "Length in days when --end is not given")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newItemListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's items",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, projectFlag(cmd))
			if err != nil {
				return err
			}
			items, err := app.Items.ListByProject(ctx, p.ID)
			if err != nil {
				return err
			}
			if !all {
				live := items[:0]
				for _, it := range items {
					if it.Status != domain.ItemArchived {
						live = append(live, it)
					}
				}
				items = live
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No items found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatItemList(p, items))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include archived items")

	return cmd
}

func newItemShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ITEM",
		Short: "Show one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, it, err := resolveItem(cmd.Context(), app, projectFlag(cmd), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatItemDetail(it))
			return nil
		},
	}
}

func newItemUpdateCmd(app *App) *cobra.Command {
	var title string
	var start, end dateFlag
	status := statusFlag()
	priority := priorityFlag("")

	cmd := &cobra.Command{
		Use:   "update ITEM",
		Short: "Change an item's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, it, err := resolveItem(ctx, app, projectFlag(cmd), args[0])
			if err != nil {
				return err
			}

			var patch domain.ItemPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("status") {
				s := domain.ItemStatus(status.value)
				patch.Status = &s
			}
			if cmd.Flags().Changed("priority") {
				pr := domain.Priority(priority.value)
				patch.Priority = &pr
			}
			patch.StartDate = start.Ptr()
			patch.EndDate = end.Ptr()
			if patch.Empty() {
				return fmt.Errorf("nothing to update (set at least one flag)")
			}

			updated, err := app.Items.Update(ctx, it.ID, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s\n", formatter.ItemRef(updated.Seq), updated.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().Var(status, "status", "todo|in_progress|done|archived")
	cmd.Flags().Var(priority, "priority", "low|medium|high|urgent")
	cmd.Flags().Var(&start, "start", "New first day (YYYY-MM-DD)")
	cmd.Flags().Var(&end, "end", "New last day (YYYY-MM-DD)")

	return cmd
}

func newItemMoveCmd(app *App) *cobra.Command {
	var by, lane int

	cmd := &cobra.Command{
		Use:   "move ITEM",
		Short: "Shift an item by whole days, optionally into another lane",
		Long: "Shift an item by whole days, optionally into another lane.\n\n" +
			"The move follows the same rules as dragging on the timeline: it is\n" +
			"rejected when the item would overlap another item in the target lane.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := -1
			if cmd.Flags().Changed("lane") {
				if lane < 0 {
					return fmt.Errorf("lane must be >= 0")
				}
				target = lane
			}
			return runReschedule(cmd, app, args[0], timeline.KindMove, by, target)
		},
	}

	cmd.Flags().IntVar(&by, "by", 0, "Days to shift (negative moves earlier)")
	cmd.Flags().IntVar(&lane, "lane", 0, "Target lane (default: keep current lane)")

	return cmd
}

func newItemResizeCmd(app *App) *cobra.Command {
	var by int
	var edge string

	cmd := &cobra.Command{
		Use:   "resize ITEM",
		Short: "Move one end of an item by whole days",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var kind timeline.Kind
			switch edge {
			case "start":
				kind = timeline.KindResizeStart
			case "end":
				kind = timeline.KindResizeEnd
			default:
				return fmt.Errorf("invalid edge %q (want start or end)", edge)
			}
			return runReschedule(cmd, app, args[0], kind, by, -1)
		},
	}

	cmd.Flags().IntVar(&by, "by", 0, "Days to move the edge")
	cmd.Flags().StringVar(&edge, "edge", "end", "Which end to move (start|end)")

	return cmd
}

func runReschedule(cmd *cobra.Command, app *App, ref string, kind timeline.Kind, by, lane int) error {
	ctx := cmd.Context()
	p, it, err := resolveItem(ctx, app, projectFlag(cmd), ref)
	if err != nil {
		return err
	}
	res, err := rescheduleItem(ctx, app, p, it, kind, by, lane)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Rescheduled %s %s: %s (lane %d)\n",
		formatter.ItemRef(res.Seq), res.Title, formatter.FormatRange(res.StartDate, res.EndDate), *res.LaneHint)
	return nil
}

func newItemDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done ITEM",
		Short: "Mark an item done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, it, err := resolveItem(ctx, app, projectFlag(cmd), args[0])
			if err != nil {
				return err
			}
			done, err := app.Items.MarkDone(ctx, it.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Done: %s %s\n",
				formatter.StyleGreen.Render("✔"), formatter.ItemRef(done.Seq), formatter.Bold(done.Title))
			return nil
		},
	}
}

func newItemRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ITEM",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, it, err := resolveItem(ctx, app, projectFlag(cmd), args[0])
			if err != nil {
				return err
			}
			if err := app.Items.Delete(ctx, it.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s %s\n", formatter.ItemRef(it.Seq), it.Title)
			return nil
		},
	}
}
