package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewID identifies each type of view in the TUI.
type ViewID int

const (
	ViewProjectList ViewID = iota
	ViewItemList
	ViewTimeline
	ViewForm
)

// View is the interface that all TUI views must implement.
// It extends tea.Model with navigation and help metadata.
type View interface {
	tea.Model
	ID() ViewID
	ShortHelp() []key.Binding // key hints shown in the bottom bar
	Title() string            // breadcrumb segment for this view
}

// inputCapturer is implemented by views that sometimes need keys the app
// would otherwise take, such as q or Esc.
type inputCapturer interface {
	CapturesInput(msg tea.KeyMsg) bool
}

// closer is implemented by views holding resources that must be released
// when they leave the stack.
type closer interface {
	Close()
}
