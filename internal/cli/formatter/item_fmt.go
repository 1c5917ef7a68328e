package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/meridian/internal/domain"
)

// FormatItemList renders a project's items as a table.
func FormatItemList(project *domain.Project, items []*domain.Item) string {
	headers := []string{"#", "TITLE", "KIND", "STATUS", "PRIORITY", "RANGE"}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			Dim(ItemRef(it.Seq)),
			it.Title,
			KindBadge(it.Kind),
			ItemStatusPill(it.Status),
			PriorityBadge(it.Priority),
			FormatRange(it.StartDate, it.EndDate),
		})
	}
	title := "Items"
	if project != nil {
		title = fmt.Sprintf("%s · %s", project.DisplayID(), project.Name)
	}
	return RenderBox(title, RenderTable(headers, rows))
}

// FormatItemDetail renders a single item card.
func FormatItemDetail(it *domain.Item) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render(fmt.Sprintf("%s %s", ItemRef(it.Seq), it.Title)) + "\n\n")
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("KIND    "), KindBadge(it.Kind)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("STATUS  "), ItemStatusPill(it.Status)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("PRIORITY"), PriorityBadge(it.Priority)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("RANGE   "), FormatRange(it.StartDate, it.EndDate)))
	if it.LaneHint != nil {
		b.WriteString(fmt.Sprintf("%s  %d\n", StyleDim.Render("LANE    "), *it.LaneHint))
	}
	b.WriteString(fmt.Sprintf("%s  %s", StyleDim.Render("UUID    "), TruncID(it.ID)))
	return RenderBox("", b.String())
}
