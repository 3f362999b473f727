package model

import (
	tea "github.com/charmbracelet/bubbletea"

	"startime/backend"
)

// LoadCategories fetches the category list; the manager falls back to the
// built-in set when the backend is unreachable
func (m *Model) LoadCategories() tea.Cmd {
	manager := m.Categories
	ctx := m.ViewContext()

	return func() tea.Msg {
		return CategoriesLoadedMsg{Result: manager.Load(ctx)}
	}
}

// SaveCategory writes one category and re-fetches the list
func (m *Model) SaveCategory(c backend.Category) tea.Cmd {
	manager := m.Categories
	ctx := m.ViewContext()

	return func() tea.Msg {
		return CategorySavedMsg{Category: c, Result: manager.Save(ctx, c)}
	}
}
