package cli

import (
	"context"

	"github.com/alexanderramin/meridian/internal/board"
	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/prefs"
	"github.com/alexanderramin/meridian/internal/timeline"
	tea "github.com/charmbracelet/bubbletea"
)

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App

	// Bus carries pointer and key events to an active drag.
	Bus *timeline.InputBus

	// Active project context
	Project *domain.Project
	Board   *board.Board
	Prefs   prefs.Preferences

	// Terminal dimensions
	Width  int
	Height int
}

func newSharedState(app *App) *SharedState {
	return &SharedState{App: app, Bus: timeline.NewInputBus()}
}

// OpenProject makes p the active project: a fresh board over its items
// and the saved view preferences.
func (s *SharedState) OpenProject(ctx context.Context, p *domain.Project) {
	s.Project = p
	s.Board = board.New(s.App.Items, p.ID, s.App.Log.With().Str("project", p.DisplayID()).Logger())
	s.Prefs = prefs.Preferences{Granularity: s.App.config().Granularity()}
	if s.App.Prefs == nil {
		return
	}
	pr, err := s.App.Prefs.Load(ctx, p.ID)
	if err != nil {
		s.App.Log.Warn().Err(err).Str("project_id", p.ID).Msg("loading view preferences")
		return
	}
	s.Prefs = pr
}

// ClearProject drops the active project.
func (s *SharedState) ClearProject() {
	s.Project = nil
	s.Board = nil
	s.Prefs = prefs.Preferences{}
}

// SavePrefs persists the current preferences for the active project.
func (s *SharedState) SavePrefs() tea.Cmd {
	if s.App.Prefs == nil || s.Project == nil {
		return nil
	}
	store, id, p := s.App.Prefs, s.Project.ID, s.Prefs
	if p.Collapsed != nil {
		c := make(map[string]bool, len(p.Collapsed))
		for k, v := range p.Collapsed {
			c[k] = v
		}
		p.Collapsed = c
	}
	return func() tea.Msg {
		if err := store.Save(context.Background(), id, p); err != nil {
			return noticeMsg{text: "saving view preferences: " + err.Error(), isErr: true}
		}
		return nil
	}
}

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator) and
// status bar (3 lines: notice + separator + hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - appHeaderRows - 3
	if h < 1 {
		return 1
	}
	return h
}
