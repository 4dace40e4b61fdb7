package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/choredeck/internal/chores"
	"github.com/sadopc/choredeck/internal/export"
	"github.com/sadopc/choredeck/internal/journal"
	"go.uber.org/zap"
)

// App is the root Bubble Tea model.
type App struct {
	chores  *chores.Store
	journal *journal.Store
	log     *zap.Logger
	width   int
	height  int

	activeView viewState
	showHelp   bool
	exportDir  string

	choresView choresModel
	history    historyModel
	reports    reportsModel
	settings   settingsModel

	help      help.Model
	status    string
	statusErr bool
}

// NewApp builds the root model. The chore list is fetched by Init; wire the
// store's events in with Program.Send(StoreChanged(ev)) so every mutation
// re-renders.
func NewApp(cs *chores.Store, j *journal.Store, log *zap.Logger) App {
	h := help.New()
	h.ShowAll = false

	home, _ := os.UserHomeDir()

	return App{
		chores:     cs,
		journal:    j,
		log:        log.Named("tui"),
		activeView: viewChores,
		exportDir:  home,
		choresView: newChoresModel(cs, j),
		history:    newHistoryModel(j),
		reports:    newReportsModel(j),
		settings:   newSettingsModel(j),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.choresView.load(),
		a.history.refresh(),
		tickCmd(),
	)
}

// tickCmd re-renders once a minute so remaining-time labels and buckets
// follow the clock.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.choresView.setSize(a.width, contentHeight)
		a.history.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			return a, a.doExport()
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewChores
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewHistory
			return a, a.history.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewReports
			return a, a.reports.refresh()
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		return a, tickCmd()

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		if msg.isError {
			a.log.Debug("status", zap.String("text", msg.text))
		}
		return a, nil

	case storeChangedMsg, choresLoadedMsg, userSelectedMsg:
		var cmd tea.Cmd
		a.choresView, cmd = a.choresView.update(msg)
		return a, cmd

	case choreCompletedMsg:
		var cmd tea.Cmd
		a.choresView, cmd = a.choresView.update(msg)
		// Every attempt lands in the journal, successful or not.
		return a, tea.Batch(cmd, a.history.refresh(), a.reports.refresh())

	case settingsSavedMsg:
		var cmd tea.Cmd
		a.choresView, cmd = a.choresView.update(msg)
		return a, tea.Batch(cmd, a.settings.refresh(), statusCmd("Settings saved", false))

	case historyDataMsg:
		a.history, _ = a.history.update(msg)
		return a, nil

	case reportsDataMsg:
		a.reports, _ = a.reports.update(msg)
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewChores:
		a.choresView, cmd = a.choresView.update(msg)
	case viewHistory:
		a.history, cmd = a.history.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewChores:
		return a.choresView.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewHistory:
		return a.history.refresh()
	case viewReports:
		return a.reports.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewChores:
		content = a.choresView.view()
	case viewHistory:
		content = a.history.view()
	case viewReports:
		content = a.reports.view()
	case viewSettings:
		content = a.settings.view()
	}

	contentHeight := a.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 1 {
		contentHeight = 1
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("choredeck")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	left := footerStyle.Render(helpView)

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, status)
}

// doExport writes the whole journal in the configured format.
func (a App) doExport() tea.Cmd {
	return func() tea.Msg {
		completions, err := a.journal.ListCompletions(journal.Filter{})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		format, err := a.journal.GetSetting(journal.SettingExportFormat)
		if err != nil {
			format = "csv"
		}
		dateStr := time.Now().Format("2006-01-02")

		var path string
		switch format {
		case "json":
			path = filepath.Join(a.exportDir, fmt.Sprintf("choredeck-history-%s.json", dateStr))
			if err := export.ToJSON(completions, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		default:
			path = filepath.Join(a.exportDir, fmt.Sprintf("choredeck-history-%s.csv", dateStr))
			if err := export.ToCSV(completions, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		}

		a.log.Info("history exported", zap.String("path", path), zap.Int("rows", len(completions)))
		return exportDoneMsg{path: path}
	}
}
