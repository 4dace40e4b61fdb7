package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/choredeck/internal/journal"
)

const historyLimit = 50

type historyFilter int

const (
	historyAll historyFilter = iota
	historyDone
)

type historyModel struct {
	journal *journal.Store
	width   int
	height  int

	filter      historyFilter
	completions []journal.Completion
	today       int
	cursor      int
}

func newHistoryModel(j *journal.Store) historyModel {
	return historyModel{journal: j}
}

func (h *historyModel) setSize(w, ht int) {
	h.width = w
	h.height = ht
}

type historyDataMsg struct {
	completions []journal.Completion
	today       int
}

func (h historyModel) refresh() tea.Cmd {
	f := journal.Filter{Limit: historyLimit}
	if h.filter == historyDone {
		f.Outcome = journal.OutcomeDone
	}
	return func() tea.Msg {
		list, _ := h.journal.ListCompletions(f)
		today, _ := h.journal.TodayCount()
		return historyDataMsg{completions: list, today: today}
	}
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyDataMsg:
		h.completions = msg.completions
		h.today = msg.today
		h.cursor = clamp(h.cursor, 0, max(0, len(h.completions)-1))
		return h, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if h.cursor > 0 {
				h.cursor--
			}
		case key.Matches(msg, keys.Down):
			if h.cursor < len(h.completions)-1 {
				h.cursor++
			}
		case key.Matches(msg, keys.Future):
			if h.filter == historyAll {
				h.filter = historyDone
			} else {
				h.filter = historyAll
			}
			h.cursor = 0
			return h, h.refresh()
		}
	}
	return h, nil
}

func (h historyModel) view() string {
	w := h.width - 4

	filterName := "all attempts"
	if h.filter == historyDone {
		filterName = "completed only"
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("History"), "  ",
		highlightStyle.Render(fmt.Sprintf("%d done today", h.today)), "  ",
		mutedStyle.Render(filterName),
	)

	if len(h.completions) == 0 {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, header, "", mutedStyle.Render("No completions yet")),
		)
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-16s %-20s %-12s %s", "When", "Chore", "User", "Result")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 64))))
	for i, c := range h.completions {
		cursor := "  "
		style := normalItemStyle
		if i == h.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		row := fmt.Sprintf("%s%-16s %-20s %-12s ",
			cursor, c.TrackedAt.Local().Format("Jan 02 15:04"), truncate(c.ChoreName, 20), truncate(c.UserName, 12))
		rows = append(rows, style.Render(row)+outcomeLabel(c))
	}

	nav := mutedStyle.Render("  f: toggle completed only")
	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", strings.Join(rows, "\n"), "", nav),
	)
}

func outcomeLabel(c journal.Completion) string {
	if c.Succeeded() {
		return successStyle.Render("✓ done")
	}
	text := "✗ " + string(c.Outcome)
	if c.Message != "" {
		text += ": " + c.Message
	}
	return errorStyle.Render(text)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
