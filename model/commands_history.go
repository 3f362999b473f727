package model

import (
	tea "github.com/charmbracelet/bubbletea"

	"startime/backend"
	"startime/search"
)

// FetchHistory lists conversations, or searches them when query is set.
// Each call supersedes the previous one; see ApplyHistory.
func (m *Model) FetchHistory(query string) tea.Cmd {
	query = search.Normalize(query)
	seq := m.historySearch.Begin()
	client := m.Client
	ctx := m.ViewContext()

	return func() tea.Msg {
		var (
			list []backend.ConversationHeader
			err  error
		)
		if query == "" {
			list, err = client.Conversations(ctx)
		} else {
			list, err = client.SearchConversations(ctx, query)
		}
		return HistoryLoadedMsg{Seq: seq, Query: query, Conversations: list, Err: err}
	}
}

// ApplyHistory stores a history response unless a newer request has been
// issued since. Failed responses keep the previous list.
func (m *Model) ApplyHistory(msg HistoryLoadedMsg) bool {
	if !m.historySearch.Accept(msg.Seq) {
		return false
	}
	if msg.Err != nil {
		return false
	}

	m.History = msg.Conversations
	m.HistoryQuery = msg.Query
	return true
}

// DeleteConversation soft-deletes a conversation on the backend
func (m *Model) DeleteConversation(id backend.ID) tea.Cmd {
	client := m.Client
	ctx := m.ViewContext()

	return func() tea.Msg {
		err := client.DeleteConversation(ctx, id)
		return ConversationDeletedMsg{ID: id, Err: err}
	}
}

// FilterHistory narrows the fetched list locally by title
func (m *Model) FilterHistory(filter string) []backend.ConversationHeader {
	return search.Filter(filter, m.History, func(h backend.ConversationHeader) string {
		return h.Title()
	})
}
