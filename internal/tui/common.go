package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/choredeck/internal/chores"
)

// viewState represents the currently active view.
type viewState int

const (
	viewChores viewState = iota
	viewHistory
	viewReports
	viewSettings
)

var viewNames = []string{"Chores", "History", "Reports", "Settings"}

// --- Messages ---

// StoreChanged wraps a chore store event so it can be delivered through
// tea.Program.Send.
func StoreChanged(ev chores.Event) tea.Msg {
	return storeChangedMsg{event: ev}
}

type storeChangedMsg struct {
	event chores.Event
}

type choresLoadedMsg struct {
	err error
}

type choreCompletedMsg struct {
	name string
	user string
	err  error
}

type userSelectedMsg struct {
	name string
	err  error
}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

type settingsSavedMsg struct{}

// --- Helpers ---

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isError: isError}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
