package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// ProjectInspectData holds all data needed to render a project inspect view.
type ProjectInspectData struct {
	Project *domain.Project
	Items   []*domain.Item
}

// FormatProjectList renders a styled project list inside a bordered box.
// counts maps project ID to its items; projects missing from it show no bar.
func FormatProjectList(projects []*domain.Project, counts map[string][]*domain.Item) string {
	headers := []string{"ID", "NAME", "STATUS", "PROGRESS", "UPDATED"}
	rows := make([][]string, 0, len(projects))

	for _, p := range projects {
		id := p.ShortID
		if strings.TrimSpace(id) == "" {
			id = TruncID(p.ID)
		}
		if strings.TrimSpace(id) == "" {
			id = "--"
		}

		progress := Dim("--")
		if items, ok := counts[p.ID]; ok {
			done, total := Completion(items)
			if total > 0 {
				progress = fmt.Sprintf("%s %s", RenderCompactBar(float64(done)/float64(total), 10, false), Dim(fmt.Sprintf("%d/%d", done, total)))
			}
		}

		rows = append(rows, []string{
			id,
			Bold(p.Name),
			StatusPill(p.Status),
			progress,
			HumanTimestamp(p.UpdatedAt),
		})
	}

	return RenderBox("Projects", RenderTable(headers, rows))
}

// FormatProjectInspect renders a project card with its items grouped by kind.
func FormatProjectInspect(data ProjectInspectData) string {
	left := buildMetadataPanel(data.Project, data.Items)
	right := buildItemTreePanel(data.Items)
	combined := lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right)
	return RenderBox("", combined)
}

func buildMetadataPanel(p *domain.Project, items []*domain.Item) string {
	var b strings.Builder

	b.WriteString(StyleBold.Render(p.Name) + "\n")
	if p.Description != "" {
		b.WriteString(Dim(p.Description) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("STATUS"), StatusPill(p.Status)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("ID    "), Dim(p.ShortID)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("UUID  "), TruncID(p.ID)))

	if first, last, ok := span(items); ok {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("SPAN  "), StyleFg.Render(FormatRange(first, last))))
	}
	if p.ArchivedAt != nil {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("ARCHVD"), HumanTimestamp(*p.ArchivedAt)))
	}
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("UPDATED"), HumanTimestamp(p.UpdatedAt)))

	if done, total := Completion(items); total > 0 {
		b.WriteString("\n" + RenderProgress(float64(done)/float64(total), 20) + "\n")
	}

	return lipgloss.NewStyle().Width(45).Render(b.String())
}

var kindOrder = []domain.ItemKind{domain.KindFeature, domain.KindTask, domain.KindBug, domain.KindTracker}

// buildItemTreePanel groups items under their kind, in start order.
func buildItemTreePanel(items []*domain.Item) string {
	if len(items) == 0 {
		return StyleDim.Render("No items")
	}

	byKind := make(map[domain.ItemKind][]*domain.Item)
	for _, it := range items {
		byKind[it.Kind] = append(byKind[it.Kind], it)
	}

	var tree []TreeItem
	for _, k := range kindOrder {
		group := byKind[k]
		if len(group) == 0 {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool {
			if !group[i].StartDate.Equal(group[j].StartDate) {
				return group[i].StartDate.Before(group[j].StartDate)
			}
			return group[i].Seq < group[j].Seq
		})
		tree = append(tree, TreeItem{Title: KindBadge(k), Level: 0})
		for i, it := range group {
			tree = append(tree, TreeItem{
				Title:  it.Title,
				Seq:    it.Seq,
				Level:  1,
				IsLast: i == len(group)-1,
				Status: string(it.Status),
				Detail: FormatRange(it.StartDate, it.EndDate),
			})
		}
	}

	return StyleHeader.Render("ITEMS") + "\n\n" + RenderTree(tree)
}

// span returns the earliest start and latest end over live items.
func span(items []*domain.Item) (first, last time.Time, ok bool) {
	for _, it := range items {
		if it.Status == domain.ItemArchived {
			continue
		}
		if !ok || it.StartDate.Before(first) {
			first = it.StartDate
		}
		if !ok || it.EndDate.After(last) {
			last = it.EndDate
		}
		ok = true
	}
	return first, last, ok
}
