package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/choredeck/internal/journal"
)

var userColors = []string{"#6C63FF", "#2EC4B6", "#FF6B6B", "#F39C12", "#2ECC71", "#E74C3C", "#9B59B6", "#3498DB"}

type reportsModel struct {
	journal *journal.Store
	now     func() time.Time
	width   int
	height  int

	summaries []journal.DailySummary
	offset    int // 7-day blocks back from today (0 = current)

	chart barchart.Model
}

func newReportsModel(j *journal.Store) reportsModel {
	return reportsModel{
		journal: j,
		now:     time.Now,
		chart:   barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	summaries []journal.DailySummary
}

func (r reportsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		from, to := r.dateRange()
		summaries, _ := r.journal.DailySummary(from, to)
		return reportsDataMsg{summaries: summaries}
	}
}

// dateRange is the 7-day window ending today, shifted back by offset weeks.
func (r reportsModel) dateRange() (time.Time, time.Time) {
	now := r.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := today.AddDate(0, 0, 1-7*r.offset)
	return end.AddDate(0, 0, -7), end
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		r.summaries = msg.summaries
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		}
	}
	return r, nil
}

func userColor(id int64) lipgloss.Color {
	if id < 0 {
		id = -id
	}
	return lipgloss.Color(userColors[id%int64(len(userColors))])
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	from, to := r.dateRange()

	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format("2006-01-02")

		var values []barchart.BarValue
		for _, s := range r.summaries {
			if s.Date == dateStr {
				values = append(values, barchart.BarValue{
					Name:  s.UserName,
					Value: float64(s.Count),
					Style: lipgloss.NewStyle().Foreground(userColor(s.UserID)),
				})
			}
		}

		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}

		bars = append(bars, barchart.BarData{
			Label:  d.Format("Mon 02"),
			Values: values,
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) total() int {
	n := 0
	for _, s := range r.summaries {
		n += s.Count
	}
	return n
}

func (r reportsModel) view() string {
	w := r.width - 4

	from, to := r.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s - %s", from.Format("Jan 02"), to.AddDate(0, 0, -1).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ",
		highlightStyle.Render(fmt.Sprintf("%d chores done", r.total())), "  ",
		dateLabel,
	)

	nav := mutedStyle.Render("  ←/→: previous/next week")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", r.renderLegend(), "", r.renderSummaryTable(w), "", nav,
		),
	)
}

func (r reportsModel) renderSummaryTable(w int) string {
	if len(r.summaries) == 0 {
		return mutedStyle.Render("  No completed chores in this period")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %-20s %6s", "Date", "User", "Chores")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 40))))

	for _, s := range r.summaries {
		dot := lipgloss.NewStyle().Foreground(userColor(s.UserID)).Render("●")
		rows = append(rows, fmt.Sprintf("  %-12s %s %-18s %6d", s.Date, dot, s.UserName, s.Count))
	}
	return strings.Join(rows, "\n")
}

func (r reportsModel) renderLegend() string {
	seen := make(map[int64]bool)
	var items []string
	for _, s := range r.summaries {
		if seen[s.UserID] {
			continue
		}
		seen[s.UserID] = true
		dot := lipgloss.NewStyle().Foreground(userColor(s.UserID)).Render("●")
		items = append(items, fmt.Sprintf("%s %s", dot, s.UserName))
	}
	if len(items) == 0 {
		return ""
	}
	return "  " + strings.Join(items, "  ")
}
