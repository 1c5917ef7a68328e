package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/meridian/internal/board"
	"github.com/alexanderramin/meridian/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
)

// boardSyncedMsg reports that a board write finished. Views re-read the
// board on every frame, so it only carries the outcome.
type boardSyncedMsg struct {
	err error
}

// wizardCompleteOutput returns a wizardCompleteMsg that shows msg as a notice.
func wizardCompleteOutput(msg string) tea.Msg {
	return wizardCompleteMsg{nextCmd: notify(msg)}
}

// resultMsg turns the outcome of a form action into a notice.
func resultMsg(ok string, err error) tea.Msg {
	if err != nil {
		return noticeMsg{text: err.Error(), isErr: true}
	}
	return noticeMsg{text: ok}
}

// boardCmd runs a board write off the event loop and reports the outcome.
// The board has already reverted by the time a failure is reported.
func boardCmd(fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return boardSyncedMsg{err: fn(context.Background())}
	}
}

// execCreateItem pushes the new-item form and creates the item on b when
// it completes.
func execCreateItem(state *SharedState, b *board.Board, in itemFormInput) tea.Cmd {
	form := newItemForm(&in)
	return startWizardCmd(state, "New Item", form, func() tea.Cmd {
		return func() tea.Msg {
			it, err := in.Item()
			if err == nil {
				err = b.Create(context.Background(), it)
			}
			if err != nil {
				return resultMsg("", err)
			}
			return resultMsg(fmt.Sprintf("✔ Created #%d %s", it.Seq, it.Title), nil)
		}
	})
}

// execToggleDone flips an item between done and todo.
func execToggleDone(b *board.Board, it *domain.Item) tea.Cmd {
	next := domain.ItemDone
	if it.Status == domain.ItemDone {
		next = domain.ItemTodo
	}
	id := it.ID
	return boardCmd(func(ctx context.Context) error {
		return b.Update(ctx, id, domain.ItemPatch{Status: &next})
	})
}

// execConfirmDelete pushes a confirmation wizard and runs deleteFn if confirmed.
func execConfirmDelete(state *SharedState, prompt, title string, deleteFn func(ctx context.Context) error) tea.Cmd {
	var confirmed bool
	form := wizardConfirm(prompt, &confirmed)
	return startWizardCmd(state, "Confirm Delete", form, func() tea.Cmd {
		if !confirmed {
			return notify("Cancelled.")
		}
		return func() tea.Msg {
			return resultMsg("✔ Deleted: "+title, deleteFn(context.Background()))
		}
	})
}

// execDeleteItem asks for confirmation, then deletes the item through the
// board.
func execDeleteItem(state *SharedState, b *board.Board, it *domain.Item) tea.Cmd {
	id, title := it.ID, it.Title
	return execConfirmDelete(state, fmt.Sprintf("Delete %q?", title), title, func(ctx context.Context) error {
		return b.Delete(ctx, id)
	})
}
