package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/meridian/internal/cli/formatter"
	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// projectsLoadedMsg signals that project list data has been loaded.
type projectsLoadedMsg struct {
	projects []*domain.Project
	progress map[string]float64
	err      error
}

// projectListView shows an interactive, navigable list of projects.
type projectListView struct {
	state    *SharedState
	projects []*domain.Project
	progress map[string]float64
	cursor   int
	loading  bool
	err      error

	// Filtering
	filtering bool
	filter    string
}

func newProjectListView(state *SharedState) *projectListView {
	return &projectListView{
		state:   state,
		loading: true,
	}
}

func (v *projectListView) ID() ViewID    { return ViewProjectList }
func (v *projectListView) Title() string { return "Projects" }

func (v *projectListView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new project")),
		key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	}
}

func (v *projectListView) Init() tea.Cmd {
	return v.loadProjects()
}

func (v *projectListView) loadProjects() tea.Cmd {
	app := v.state.App
	return func() tea.Msg {
		ctx := context.Background()
		projects, err := app.Projects.List(ctx, false)
		if err != nil {
			return projectsLoadedMsg{err: err}
		}
		progress := make(map[string]float64, len(projects))
		for _, p := range projects {
			items, err := app.Items.ListByProject(ctx, p.ID)
			if err != nil {
				return projectsLoadedMsg{err: err}
			}
			if done, total := formatter.Completion(items); total > 0 {
				progress[p.ID] = float64(done) / float64(total)
			}
		}
		return projectsLoadedMsg{projects: projects, progress: progress}
	}
}

func (v *projectListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case projectsLoadedMsg:
		v.loading = false
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		v.err = nil
		v.projects = msg.projects
		v.progress = msg.progress
		if v.cursor >= len(v.projects) {
			v.cursor = max(len(v.projects)-1, 0)
		}
		return v, nil

	case refreshViewMsg:
		return v, v.loadProjects()

	case tea.KeyMsg:
		if v.filtering {
			return v.updateFilter(msg)
		}
		return v.updateNormal(msg)
	}
	return v, nil
}

func (v *projectListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := v.visibleProjects()

	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(visible)-1 {
			v.cursor++
		}
	case "enter":
		if v.cursor < len(visible) {
			v.state.OpenProject(context.Background(), visible[v.cursor])
			return v, pushView(newItemListView(v.state))
		}
	case "n":
		return v, v.newProject()
	case "/":
		v.filtering = true
		v.filter = ""
	}
	return v, nil
}

func (v *projectListView) newProject() tea.Cmd {
	var in projectFormInput
	app := v.state.App
	return startWizardCmd(v.state, "New Project", newProjectForm(&in), func() tea.Cmd {
		return func() tea.Msg {
			p := &domain.Project{
				ShortID:     strings.ToUpper(strings.TrimSpace(in.ShortID)),
				Name:        strings.TrimSpace(in.Name),
				Description: strings.TrimSpace(in.Description),
			}
			err := app.Projects.Create(context.Background(), p)
			return resultMsg(fmt.Sprintf("✔ Created %s %s", p.ShortID, p.Name), err)
		}
	})
}

func (v *projectListView) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.filtering = false
		v.filter = ""
		v.cursor = 0
		return v, nil
	case tea.KeyEnter:
		v.filtering = false
		return v, nil
	case tea.KeyBackspace:
		if len(v.filter) > 0 {
			v.filter = v.filter[:len(v.filter)-1]
			v.cursor = 0
		}
	default:
		if len(msg.String()) == 1 {
			v.filter += msg.String()
			v.cursor = 0
		}
	}
	return v, nil
}

// CapturesInput keeps every key while a filter is being typed.
func (v *projectListView) CapturesInput(tea.KeyMsg) bool { return v.filtering }

func (v *projectListView) visibleProjects() []*domain.Project {
	if v.filter == "" {
		return v.projects
	}
	lf := strings.ToLower(v.filter)
	var filtered []*domain.Project
	for _, p := range v.projects {
		if strings.Contains(strings.ToLower(p.Name), lf) ||
			strings.Contains(strings.ToLower(p.ShortID), lf) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func (v *projectListView) View() string {
	if v.loading {
		return "\n  " + formatter.Dim("Loading projects...")
	}
	if v.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+v.err.Error())
	}

	visible := v.visibleProjects()

	var b strings.Builder
	b.WriteString("\n")

	if v.filtering {
		b.WriteString("  " + formatter.StyleYellow.Render("/") + " " + v.filter + "█\n\n")
	}

	if len(visible) == 0 {
		b.WriteString("  " + formatter.Dim("No projects found. Press n to create one.") + "\n")
		return b.String()
	}

	for i, p := range visible {
		cursor := "  "
		nameStyle := formatter.StyleFg
		if i == v.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
			nameStyle = formatter.StyleBold
		}

		pct, ok := v.progress[p.ID]
		bar := formatter.Dim("no items")
		if ok {
			bar = formatter.RenderCompactBar(pct, 10, i != v.cursor)
		}

		b.WriteString(fmt.Sprintf("%s%-7s %s  %s  %s\n",
			cursor,
			formatter.StyleGreen.Render(p.DisplayID()),
			nameStyle.Render(padRight(p.Name, 22)),
			formatter.StatusPill(p.Status),
			bar,
		))
	}

	return b.String()
}

// padRight pads a string to a minimum width, truncating if needed.
func padRight(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		return string(r[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(r))
}
