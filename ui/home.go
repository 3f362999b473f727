package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	appmodel "startime/model"
)

// homeSuggestions are the prompt chips on the home screen. Picking one
// fills the prompt; the second is meant to be completed by the user.
var homeSuggestions = []string{
	"Quick overview of my schedule for today",
	"Add an event: ",
}

func (a *AppView) applySuggestion(i int) {
	if i < 0 || i >= len(homeSuggestions) {
		return
	}
	a.textarea.SetValue(homeSuggestions[i])
	a.textarea.CursorEnd()
	a.textarea.Focus()
}

func (a AppView) greeting() string {
	if fields := strings.Fields(a.dataModel.User.User().Label()); len(fields) > 0 {
		return "Hi " + fields[0] + "!"
	}
	return "Hi there!"
}

func (a AppView) renderHome(height int) string {
	title := TitleStyle.Render("✨ " + a.greeting() + " What should we plan?")

	var chips []string
	for i, s := range homeSuggestions {
		label := strings.TrimSpace(s)
		if i == a.suggestion {
			chips = append(chips, SelectedStyle.Render("[ "+label+" ]"))
		} else {
			chips = append(chips, DimStyle.Render("[ "+label+" ]"))
		}
	}

	briefs := appmodel.BriefsOrPlaceholders(a.dataModel.Briefs)
	panelWidth := (a.width - 8) / 3
	if panelWidth < 20 {
		panelWidth = a.width - 4
	}
	panels := []string{
		a.renderBrief("📝 Tasks", briefs.Tasks, panelWidth),
		a.renderBrief("📅 Events", briefs.Events, panelWidth),
		a.renderBrief("📰 News", briefs.News, panelWidth),
	}

	var briefRow string
	if panelWidth == a.width-4 {
		briefRow = lipgloss.JoinVertical(lipgloss.Left, panels...)
	} else {
		briefRow = lipgloss.JoinHorizontal(lipgloss.Top, panels...)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		strings.Join(chips, "  "),
		"",
		briefRow,
	)

	return lipgloss.NewStyle().Height(height).MaxHeight(height).Padding(0, 1).Render(content)
}

func (a AppView) renderBrief(title, body string, width int) string {
	text := body
	switch body {
	case appmodel.TaskBriefPlaceholder, appmodel.EventBriefPlaceholder, appmodel.NewsBriefPlaceholder:
		text = DimStyle.Render(body)
	default:
		text = a.md.render(body, width-4)
	}
	return PanelStyle.Width(width).Render(HighlightStyle.Render(title) + "\n" + text)
}
