package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/charmbracelet/huh"
)

// dateInput returns a huh.Input for a date field.
func dateInput(title, placeholder string, value *string, validate func(string) error) *huh.Input {
	if placeholder == "" {
		placeholder = "2026-06-30"
	}
	return huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(value).
		Validate(validate)
}

// requiredInput returns a huh.Input that rejects blank values.
func requiredInput(title, placeholder string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(value).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s is required", strings.ToLower(title))
			}
			return nil
		})
}

// kindSelect returns a select over the item kinds.
func kindSelect(value *domain.ItemKind) *huh.Select[domain.ItemKind] {
	return huh.NewSelect[domain.ItemKind]().
		Title("Kind").
		Options(
			huh.NewOption("Task", domain.KindTask),
			huh.NewOption("Bug", domain.KindBug),
			huh.NewOption("Feature", domain.KindFeature),
			huh.NewOption("Tracker", domain.KindTracker),
		).
		Value(value)
}

// prioritySelect returns a select over the priorities.
func prioritySelect(value *domain.Priority) *huh.Select[domain.Priority] {
	return huh.NewSelect[domain.Priority]().
		Title("Priority").
		Options(
			huh.NewOption("Low", domain.PriorityLow),
			huh.NewOption("Medium", domain.PriorityMedium),
			huh.NewOption("High", domain.PriorityHigh),
			huh.NewOption("Urgent", domain.PriorityUrgent),
		).
		Value(value)
}
