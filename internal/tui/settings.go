package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/choredeck/internal/journal"
)

var settingLabels = map[string]string{
	journal.SettingFutureExpanded: "Show future chores",
	journal.SettingExportFormat:   "Export format",
}

type settingsModel struct {
	journal *journal.Store
	width   int
	height  int

	settings   []journal.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	futureExpanded *bool
	exportFormat   *string
}

func newSettingsModel(j *journal.Store) settingsModel {
	fe, ef := false, "csv"
	return settingsModel{
		journal:        j,
		futureExpanded: &fe,
		exportFormat:   &ef,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []journal.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.journal.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Enter) {
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.futureExpanded = s.journal.GetBool(journal.SettingFutureExpanded, false)
	*s.exportFormat = s.getVal(journal.SettingExportFormat, "csv")

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().Title(settingLabels[journal.SettingFutureExpanded]).
				Description("Expand the future chores section on start").
				Value(s.futureExpanded),
			huh.NewSelect[string]().Title(settingLabels[journal.SettingExportFormat]).
				Options(
					huh.NewOption("CSV", "csv"),
					huh.NewOption("JSON", "json"),
				).Value(s.exportFormat),
		).Title("General"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, s.save()
	}

	return s, cmd
}

func (s settingsModel) save() tea.Cmd {
	fe := strconv.FormatBool(*s.futureExpanded)
	ef := *s.exportFormat
	return func() tea.Msg {
		if err := s.journal.SetSetting(journal.SettingFutureExpanded, fe); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		if err := s.journal.SetSetting(journal.SettingExportFormat, ef); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return settingsSavedMsg{}
	}
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.journal.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	var rows []string
	rows = append(rows, title, "")
	for _, setting := range s.settings {
		label := setting.Key
		if l, ok := settingLabels[setting.Key]; ok {
			label = l
		}
		rows = append(rows, fmt.Sprintf("  %s %s",
			lipgloss.NewStyle().Width(24).Render(label),
			highlightStyle.Render(formatSettingValue(setting.Key, setting.Value)),
		))
	}
	rows = append(rows, "", mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case journal.SettingFutureExpanded:
		if b, err := strconv.ParseBool(v); err == nil {
			if b {
				return "expanded"
			}
			return "collapsed"
		}
	case journal.SettingExportFormat:
		return strings.ToUpper(v)
	}
	return v
}
