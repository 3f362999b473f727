package ui

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"startime/backend"
	"startime/search"
)

var headlineBoldRegex = regexp.MustCompile(`(?s)<b>(.*?)</b>`)

// historyState drives the conversation history list
type historyState struct {
	selected   int
	searchMode bool
	input      textinput.Model
	debouncer  *search.Debouncer
	loading    bool
	err        string

	confirmDelete *backend.ConversationHeader
}

func newHistoryState(delay time.Duration) historyState {
	input := textinput.New()
	input.Prompt = "Search: "
	input.Placeholder = "title or message text"
	input.CharLimit = 100

	return historyState{
		input:     input,
		debouncer: search.NewDebouncer(delay),
	}
}

// rows is what the list shows. Until the backend answers for the typed
// query, the last fetched list is narrowed locally by title.
func (a AppView) historyRows() []backend.ConversationHeader {
	typed := search.Normalize(a.history.input.Value())
	if typed == a.dataModel.HistoryQuery {
		return a.dataModel.History
	}
	if a.dataModel.HistoryQuery == "" {
		return a.dataModel.FilterHistory(typed)
	}
	return a.dataModel.History
}

func (a AppView) openHistory() (AppView, tea.Cmd) {
	a.dataModel.Navigate(viewHistoryPath()...)
	a.view = viewHistory
	a.layout()
	a.history.selected = 0
	a.history.searchMode = false
	a.history.err = ""
	a.history.loading = true
	a.history.input.SetValue("")
	a.history.input.Blur()
	a.history.debouncer.Stop()
	return a, a.dataModel.FetchHistory("")
}

func (a AppView) handleHistoryKey(msg tea.KeyMsg) (AppView, tea.Cmd) {
	kb := a.keys
	h := &a.history

	if h.confirmDelete != nil {
		switch msg.String() {
		case "y", "Y":
			id := h.confirmDelete.ID
			h.confirmDelete = nil
			return a, a.dataModel.DeleteConversation(id)
		case "n", "N", "esc":
			h.confirmDelete = nil
		}
		return a, nil
	}

	rows := a.historyRows()

	if h.searchMode {
		switch {
		case msg.String() == "esc":
			h.searchMode = false
			h.input.Blur()
			return a, nil
		case msg.String() == "enter":
			h.searchMode = false
			h.input.Blur()
			h.debouncer.Stop()
			h.loading = true
			return a, a.dataModel.FetchHistory(h.input.Value())
		case kb.Matches(msg.String(), "list_down_filtered") || kb.Matches(msg.String(), "list_down_arrow"):
			h.selected = clampIndex(h.selected+1, len(rows))
			return a, nil
		case kb.Matches(msg.String(), "list_up_filtered") || kb.Matches(msg.String(), "list_up_arrow"):
			h.selected = clampIndex(h.selected-1, len(rows))
			return a, nil
		case kb.Matches(msg.String(), "clear_input"):
			h.input.SetValue("")
		default:
			var cmd tea.Cmd
			before := h.input.Value()
			h.input, cmd = h.input.Update(msg)
			if h.input.Value() == before {
				return a, cmd
			}
			h.selected = 0
			return a, tea.Batch(cmd, h.debouncer.Trigger(h.input.Value()))
		}
		h.selected = 0
		return a, h.debouncer.Trigger(h.input.Value())
	}

	switch {
	case kb.Matches(msg.String(), "list_down") || kb.Matches(msg.String(), "list_down_arrow"):
		h.selected = clampIndex(h.selected+1, len(rows))
	case kb.Matches(msg.String(), "list_up") || kb.Matches(msg.String(), "list_up_arrow"):
		h.selected = clampIndex(h.selected-1, len(rows))
	case kb.Matches(msg.String(), "list_filter"):
		h.searchMode = true
		return a, h.input.Focus()
	case kb.Matches(msg.String(), "list_refresh"):
		h.loading = true
		return a, a.dataModel.FetchHistory(h.input.Value())
	case kb.Matches(msg.String(), "history_delete"):
		if h.selected < len(rows) {
			row := rows[h.selected]
			h.confirmDelete = &row
		}
	case kb.Matches(msg.String(), "list_select"):
		if h.selected < len(rows) {
			a.view = viewConversation
			return a, a.dataModel.OpenConversation(rows[h.selected].ID)
		}
	}
	return a, nil
}

// handleHistoryDebounce sends the backend search once typing has paused
func (a AppView) handleHistoryDebounce(msg search.DebounceMsg) (AppView, tea.Cmd) {
	if a.view != viewHistory || !a.history.debouncer.Ready(msg) {
		return a, nil
	}
	a.history.loading = true
	return a, a.dataModel.FetchHistory(msg.Query)
}

func clampIndex(i, n int) int {
	if n == 0 {
		return 0
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// renderHeadline turns the backend's <b> markers into terminal highlight
func renderHeadline(headline string) string {
	headline = strings.ReplaceAll(headline, "\n", " ")
	return headlineBoldRegex.ReplaceAllStringFunc(headline, func(m string) string {
		return HighlightStyle.Render(headlineBoldRegex.FindStringSubmatch(m)[1])
	})
}

func (a AppView) renderHistory(height int) string {
	h := a.history
	width := a.width

	if h.confirmDelete != nil {
		warning := lipgloss.NewStyle().Foreground(dangerColor).Render("It will disappear from your history.")
		return RenderConfirmationModal(ConfirmationState{
			Active:  true,
			Title:   "⚠ Delete conversation",
			Message: fmt.Sprintf("Delete \"%s\"?\n\n%s", h.confirmDelete.Title(), warning),
		}, width, height)
	}

	rows := a.historyRows()

	var header string
	switch {
	case h.searchMode || h.input.Value() != "":
		header = h.input.View()
	default:
		header = fmt.Sprintf("%d conversations", len(rows))
	}
	if h.loading {
		header += "  " + a.spinner.View()
	}

	headerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Width(width).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(header)

	var lines []string
	if h.err != "" {
		lines = append(lines, ErrorStyle.Render("⚠ "+h.err))
	}

	maxRows := (height - 4) / 2
	if maxRows < 1 {
		maxRows = 1
	}

	if len(rows) == 0 && !h.loading {
		empty := "No conversations yet. Ask something from the home screen!"
		if h.input.Value() != "" {
			empty = "No matches found"
		}
		lines = append(lines, DimStyle.Italic(true).Render(empty))
	}

	start := 0
	if h.selected >= maxRows {
		start = h.selected - maxRows + 1
	}
	for i := start; i < len(rows) && i < start+maxRows; i++ {
		row := rows[i]
		indicator := "  "
		title := truncate(row.Title(), width-24)
		if i == h.selected {
			indicator = "▶ "
			title = SelectedStyle.Render(title)
		}

		created := ""
		if t := row.Created(); !t.IsZero() {
			created = t.Local().Format("Jan 2 15:04")
		}
		lines = append(lines, indicator+title+"  "+DimStyle.Render(created))

		detail := ""
		if row.Headline != "" {
			detail = lipgloss.NewStyle().MaxWidth(width - 6).Render(renderHeadline(row.Headline))
		}
		lines = append(lines, "    "+detail)
	}

	body := lipgloss.NewStyle().Height(height - 3).MaxHeight(height - 3).Render(strings.Join(lines, "\n"))
	footer := FormatFooter("j/k", "Navigate", "Enter", "Open", "/", "Search", "d", "Delete", "Esc", "Back")
	return lipgloss.JoinVertical(lipgloss.Left, headerSection, body, DimStyle.Render(footer))
}
