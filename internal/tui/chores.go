package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/choredeck/internal/chores"
	"github.com/sadopc/choredeck/internal/journal"
)

type choreForm int

const (
	formNone choreForm = iota
	formUser
	formConfirm
)

type choresModel struct {
	store   *chores.Store
	journal *journal.Store
	now     func() time.Time
	width   int
	height  int

	items    []chores.Record
	selected int
	dir      chores.Directory
	loaded   bool
	expanded bool
	cursor   int

	formActive bool
	form       *huh.Form
	formKind   choreForm
	pending    chores.Entry

	// Form values as pointers (survive value copies)
	pickedUser *int
	confirmed  *bool
}

func newChoresModel(cs *chores.Store, j *journal.Store) choresModel {
	picked, confirmed := 0, false
	return choresModel{
		store:      cs,
		journal:    j,
		now:        time.Now,
		items:      cs.Items(),
		selected:   cs.SelectedUser(),
		dir:        cs.Directory(),
		expanded:   j.GetBool(journal.SettingFutureExpanded, false),
		pickedUser: &picked,
		confirmed:  &confirmed,
	}
}

func (c *choresModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

func (c choresModel) load() tea.Cmd {
	return func() tea.Msg {
		return choresLoadedMsg{err: c.store.Load(context.Background())}
	}
}

func (c choresModel) complete(e chores.Entry, user string) tea.Cmd {
	return func() tea.Msg {
		err := c.store.Complete(context.Background(), e.ID)
		return choreCompletedMsg{name: e.Name, user: user, err: err}
	}
}

func (c choresModel) selectUser(id int) tea.Cmd {
	name := c.userName(id)
	return func() tea.Msg {
		return userSelectedMsg{name: name, err: c.store.SelectUser(id)}
	}
}

// visible returns the entries the cursor can land on, in display order.
func (c choresModel) visible() []chores.Entry {
	var out []chores.Entry
	for _, s := range chores.Group(c.items, c.now()) {
		if s.Bucket == chores.Future && !c.expanded {
			continue
		}
		out = append(out, s.Entries...)
	}
	return out
}

func (c choresModel) userName(id int) string {
	if name, ok := c.dir.Name(id); ok {
		return name
	}
	return ""
}

func (c choresModel) update(msg tea.Msg) (choresModel, tea.Cmd) {
	if c.formActive && c.form != nil && !isChoreMsg(msg) {
		return c.updateForm(msg)
	}

	switch msg := msg.(type) {
	case storeChangedMsg:
		c.items = msg.event.Items
		c.selected = msg.event.SelectedUser
		if msg.event.Kind == chores.EventItemsReplaced {
			c.loaded = true
		}
		c.dir = c.store.Directory()
		c.cursor = clamp(c.cursor, 0, max(0, len(c.visible())-1))
		return c, nil

	case choresLoadedMsg:
		c.loaded = true
		if msg.err != nil {
			return c, statusCmd(chores.UserMessage(msg.err), true)
		}
		return c, statusCmd(fmt.Sprintf("%d chores", len(c.items)), false)

	case choreCompletedMsg:
		if msg.err != nil {
			return c, statusCmd(chores.UserMessage(msg.err), true)
		}
		return c, statusCmd(fmt.Sprintf("Completed %s as %s", msg.name, msg.user), false)

	case userSelectedMsg:
		if msg.err != nil {
			return c, statusCmd(chores.UserMessage(msg.err), true)
		}
		return c, statusCmd("Doing chores as "+msg.name, false)

	case settingsSavedMsg:
		c.expanded = c.journal.GetBool(journal.SettingFutureExpanded, c.expanded)
		c.cursor = clamp(c.cursor, 0, max(0, len(c.visible())-1))
		return c, nil

	case tea.KeyMsg:
		return c.updateList(msg)
	}
	return c, nil
}

// isChoreMsg reports whether msg carries store results, which are applied
// even while a form is open.
func isChoreMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case storeChangedMsg, choresLoadedMsg, choreCompletedMsg, userSelectedMsg, settingsSavedMsg:
		return true
	}
	return false
}

func (c choresModel) updateList(msg tea.KeyMsg) (choresModel, tea.Cmd) {
	entries := c.visible()
	switch {
	case key.Matches(msg, keys.Up):
		if c.cursor > 0 {
			c.cursor--
		}
	case key.Matches(msg, keys.Down):
		if c.cursor < len(entries)-1 {
			c.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(entries) == 0 {
			return c, nil
		}
		if c.selected <= 0 {
			return c, statusCmd(chores.UserMessage(chores.ErrNoUserSelected), true)
		}
		return c.showConfirm(entries[clamp(c.cursor, 0, len(entries)-1)])
	case key.Matches(msg, keys.Users):
		if c.dir.Len() == 0 {
			return c, statusCmd("No grocy users loaded", true)
		}
		return c.showUserPicker()
	case key.Matches(msg, keys.Refresh):
		return c, tea.Batch(statusCmd("Refreshing...", false), c.load())
	case key.Matches(msg, keys.Future):
		c.expanded = !c.expanded
		c.cursor = clamp(c.cursor, 0, max(0, len(c.visible())-1))
		return c, c.saveExpanded()
	}
	return c, nil
}

func (c choresModel) saveExpanded() tea.Cmd {
	v := strconv.FormatBool(c.expanded)
	return func() tea.Msg {
		if err := c.journal.SetSetting(journal.SettingFutureExpanded, v); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return nil
	}
}

func (c choresModel) showUserPicker() (choresModel, tea.Cmd) {
	*c.pickedUser = c.selected
	users := c.dir.Users()
	opts := make([]huh.Option[int], len(users))
	for i, u := range users {
		opts[i] = huh.NewOption(u.DisplayName, u.ID)
	}

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().Title("Who is doing chores?").Options(opts...).Value(c.pickedUser),
		),
	).WithShowHelp(true)

	c.formKind = formUser
	c.formActive = true
	return c, c.form.Init()
}

func (c choresModel) showConfirm(e chores.Entry) (choresModel, tea.Cmd) {
	*c.confirmed = false
	c.pending = e

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Complete chore %s as %s?", e.Name, c.userName(c.selected))).
				Affirmative("Yes").
				Negative("No").
				Value(c.confirmed),
		),
	).WithShowHelp(true)

	c.formKind = formConfirm
	c.formActive = true
	return c, c.form.Init()
}

func (c choresModel) updateForm(msg tea.Msg) (choresModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			return c.closeForm(), nil
		}
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	switch c.form.State {
	case huh.StateCompleted:
		return c.finishForm()
	case huh.StateAborted:
		return c.closeForm(), nil
	}
	return c, cmd
}

// finishForm acts on a submitted form. Only an explicit Yes completes a chore.
func (c choresModel) finishForm() (choresModel, tea.Cmd) {
	kind, pending := c.formKind, c.pending
	c = c.closeForm()

	switch kind {
	case formUser:
		return c, c.selectUser(*c.pickedUser)
	case formConfirm:
		if !*c.confirmed {
			return c, nil
		}
		return c, c.complete(pending, c.userName(c.selected))
	}
	return c, nil
}

func (c choresModel) closeForm() choresModel {
	c.formActive = false
	c.form = nil
	c.formKind = formNone
	return c
}

func (c choresModel) view() string {
	w := c.width - 4

	if c.formActive && c.form != nil {
		return activePanelStyle.Width(w).Render(c.form.View())
	}

	header := titleStyle.Render("Chores")
	if name := c.userName(c.selected); name != "" {
		header += "  " + highlightStyle.Render("doing chores as "+name)
	} else {
		header += "  " + warningStyle.Render("no user picked, press u")
	}

	if len(c.items) == 0 {
		body := mutedStyle.Render("List is empty.")
		if !c.loaded {
			body = mutedStyle.Render("Loading chores...")
		}
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, header, "", body))
	}

	lines, cursorLine := c.renderSections()
	lines = c.window(lines, cursorLine)

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", strings.Join(lines, "\n")),
	)
}

func (c choresModel) renderSections() ([]string, int) {
	var lines []string
	cursorLine := 0
	idx := 0
	for _, s := range chores.Group(c.items, c.now()) {
		if s.Bucket == chores.Future {
			hint := "f: hide"
			if !c.expanded {
				hint = "f: show"
			}
			lines = append(lines, "", sectionStyle.Render(fmt.Sprintf("%s (%d)", s.Bucket, len(s.Entries)))+" "+mutedStyle.Render(hint))
			if !c.expanded {
				continue
			}
		} else {
			lines = append(lines, sectionStyle.Render(s.Bucket.String()))
		}

		for _, e := range s.Entries {
			cursor := "  "
			if idx == c.cursor {
				cursor = selectedItemStyle.Render("> ")
				cursorLine = len(lines)
			}
			lines = append(lines, cursor+bucketStyle(e.Bucket).Render(c.buttonText(e)))
			idx++
		}
	}
	return lines, cursorLine
}

// buttonText renders "USER - chore", plus " - ~label" for chores not yet due.
func (c choresModel) buttonText(e chores.Entry) string {
	user := c.userName(e.AssignedUserID)
	if user == "" {
		user = "unassigned"
	}
	text := strings.ToUpper(user) + " - " + e.Name
	if e.Bucket != chores.Overdue {
		text += " - ~" + e.Label
	}
	return text
}

// window keeps the cursor on screen when the list is taller than the panel.
func (c choresModel) window(lines []string, cursorLine int) []string {
	h := c.height - 8
	if h <= 0 || len(lines) <= h {
		return lines
	}
	start := clamp(cursorLine-h/2, 0, len(lines)-h)
	return lines[start : start+h]
}
