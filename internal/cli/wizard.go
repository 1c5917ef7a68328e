package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/meridian/internal/cli/formatter"
	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// meridianHuhTheme returns a custom huh theme using the Gruvbox palette.
func meridianHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// projectFormInput collects the fields of a new project.
type projectFormInput struct {
	ShortID     string
	Name        string
	Description string
}

// newProjectForm asks for a short ID, a name and an optional description.
func newProjectForm(in *projectFormInput) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Short ID").
				Placeholder("WEB01").
				Value(&in.ShortID).
				Validate(validateShortID),
			requiredInput("Name", "", &in.Name),
			huh.NewInput().
				Title("Description").
				Value(&in.Description),
		),
	).WithTheme(meridianHuhTheme()).WithShowHelp(false)
}

// itemFormInput collects the fields of a new item. Dates are kept as
// text until the form completes.
type itemFormInput struct {
	Title    string
	Kind     domain.ItemKind
	Priority domain.Priority
	Start    string
	End      string
}

func newItemFormInput(start time.Time) itemFormInput {
	day := domain.Day(start).Format(domain.DateLayout)
	return itemFormInput{
		Kind:     domain.KindTask,
		Priority: domain.PriorityMedium,
		Start:    day,
		End:      day,
	}
}

// Item builds the item the form describes. It assumes the form validated.
func (in itemFormInput) Item() (*domain.Item, error) {
	start, err := domain.ParseDate(in.Start)
	if err != nil {
		return nil, err
	}
	end, err := domain.ParseDate(in.End)
	if err != nil {
		return nil, err
	}
	return &domain.Item{
		Title:     strings.TrimSpace(in.Title),
		Kind:      in.Kind,
		Priority:  in.Priority,
		StartDate: start,
		EndDate:   end,
	}, nil
}

// newItemForm asks for the title, kind, priority and date range of an item.
func newItemForm(in *itemFormInput) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			requiredInput("Title", "Ship the thing", &in.Title),
			kindSelect(&in.Kind),
			prioritySelect(&in.Priority),
		),
		huh.NewGroup(
			dateInput("Start (YYYY-MM-DD)", in.Start, &in.Start, validateDate),
			dateInput("End (YYYY-MM-DD)", in.End, &in.End, func(s string) error {
				return validateEndDate(in.Start, s)
			}),
		),
	).WithTheme(meridianHuhTheme()).WithShowHelp(false)
}

// validateShortID applies the project short ID rules to form input.
func validateShortID(s string) error {
	p := domain.Project{ShortID: strings.ToUpper(strings.TrimSpace(s))}
	return p.ValidateShortID()
}

// validateDate accepts a YYYY-MM-DD date string.
func validateDate(s string) error {
	if _, err := domain.ParseDate(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

// validateEndDate accepts an end date on or after start. An unparsable
// start is left for its own field to report.
func validateEndDate(start, end string) error {
	if err := validateDate(end); err != nil {
		return err
	}
	s, err := domain.ParseDate(strings.TrimSpace(start))
	if err != nil {
		return nil
	}
	e, _ := domain.ParseDate(strings.TrimSpace(end))
	if e.Before(s) {
		return fmt.Errorf("end must not be before start")
	}
	return nil
}

// wizardConfirm creates a huh form for a yes/no confirmation.
func wizardConfirm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(meridianHuhTheme()).WithShowHelp(false)
}
