package cli

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Navigation messages used by views to request view transitions.
// The appModel handles these in its Update method.

// pushViewMsg pushes a new view onto the navigation stack.
type pushViewMsg struct {
	view View
}

// popViewMsg pops the current view off the navigation stack,
// returning to the previous view.
type popViewMsg struct{}

// replaceViewMsg replaces the current top view with a new one.
type replaceViewMsg struct {
	view View
}

// refreshViewMsg asks every view on the stack to reload its data.
type refreshViewMsg struct{}

// quitMsg ends the program.
type quitMsg struct{}

// cmdOutputMsg carries text output to be displayed in a scrollable
// panel over the current view.
type cmdOutputMsg struct {
	output string
}

// noticeMsg is a one-line status message shown under the content area
// until it expires.
type noticeMsg struct {
	text  string
	isErr bool
}

// noticeExpiredMsg clears the notice with the matching sequence number.
type noticeExpiredMsg struct{ seq int }

// noticeTTL is how long a notice stays on screen.
const noticeTTL = 4 * time.Second

// wizardCompleteMsg is sent when a wizard form completes or is cancelled.
// The appModel handles it atomically: pop the wizard view, then run nextCmd.
type wizardCompleteMsg struct {
	nextCmd tea.Cmd
}

// pushView returns a tea.Cmd that pushes a view onto the stack.
func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

// popView returns a tea.Cmd that pops the current view.
func popView() tea.Cmd {
	return func() tea.Msg { return popViewMsg{} }
}

// outputCmd shows text in the output panel.
func outputCmd(text string) tea.Cmd {
	return func() tea.Msg { return cmdOutputMsg{output: text} }
}

// notify shows a transient notice.
func notify(text string) tea.Cmd {
	return func() tea.Msg { return noticeMsg{text: text} }
}

// notifyErr shows err as a transient error notice.
func notifyErr(err error) tea.Cmd {
	return func() tea.Msg { return noticeMsg{text: err.Error(), isErr: true} }
}
