package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"startime/search"
)

// quickAction is one entry of the quick actions tray
type quickAction struct {
	ID          string
	Name        string
	Description string
	Available   bool
}

var quickActions = []quickAction{
	{"pomodoro", "Pomodoro Timer", "Focus in 25 minute blocks with short breaks", true},
	{"notes", "Pop-up Notes", "Jot something down without leaving the chat", false},
	{"habits", "Habit Tracker", "Keep a streak going", false},
	{"bucket", "Bucket List", "Things to do some day", false},
	{"shopping", "Shopping List", "What to pick up next time", false},
}

// quickActionTray is the fuzzy-filterable overlay
type quickActionTray struct {
	open     bool
	filter   textinput.Model
	selected int
}

func newQuickActionTray() quickActionTray {
	input := textinput.New()
	input.Prompt = "Filter: "
	input.CharLimit = 40
	return quickActionTray{filter: input}
}

func (q *quickActionTray) show() {
	q.open = true
	q.selected = 0
	q.filter.SetValue("")
	q.filter.Focus()
}

func (q *quickActionTray) hide() {
	q.open = false
	q.filter.Blur()
}

func (q quickActionTray) visible() []quickAction {
	return search.Filter(q.filter.Value(), quickActions, func(a quickAction) string {
		return a.Name
	})
}

func (q *quickActionTray) move(delta int) {
	n := len(q.visible())
	if n == 0 {
		q.selected = 0
		return
	}
	q.selected = (q.selected + delta + n) % n
}

// current returns the highlighted action
func (q quickActionTray) current() (quickAction, bool) {
	list := q.visible()
	if q.selected < 0 || q.selected >= len(list) {
		return quickAction{}, false
	}
	return list[q.selected], true
}

func (q quickActionTray) view(width, height int) string {
	modalWidth := modalWidthFor(56, width)

	lines := []string{q.filter.View(), ""}
	list := q.visible()
	if len(list) == 0 {
		lines = append(lines, DimStyle.Render("No matching actions"))
	}
	for i, a := range list {
		name := a.Name
		if !a.Available {
			name += DimStyle.Render("  (coming soon)")
		}
		row := "  " + name
		if i == q.selected {
			row = SelectedStyle.Render("> ") + name
		}
		lines = append(lines, row, "    "+DimStyle.Render(truncate(a.Description, modalWidth-6)))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(1, 2).
		Width(modalWidth).
		Render(TitleStyle.Render("⚡ Quick actions") + "\n\n" + strings.Join(lines, "\n") + "\n\n" +
			FormatFooter("↑/↓", "Navigate", "Enter", "Open", "Esc", "Close"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
