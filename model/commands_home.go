package model

import (
	tea "github.com/charmbracelet/bubbletea"

	"startime/config"
)

// FetchBriefs loads today's task, event and news summaries
func (m *Model) FetchBriefs() tea.Cmd {
	client := m.Client
	ctx := m.ViewContext()

	return func() tea.Msg {
		briefs, err := client.Briefs(ctx)
		return BriefsMsg{Briefs: briefs, Err: err}
	}
}

// ApplyBriefs keeps whatever arrived; missing ones show their placeholder
func (m *Model) ApplyBriefs(msg BriefsMsg) {
	if msg.Err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[Model] briefs incomplete: %v", msg.Err)
	}
	m.Briefs = BriefsOrPlaceholders(msg.Briefs)
}
