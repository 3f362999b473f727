package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"startime/backend"
	"startime/category"
)

// categoryFormFields are the focus stops of the edit form; the last one is
// the active toggle.
var categoryFormFields = []category.Field{
	category.FieldTitle,
	category.FieldDescription,
	category.FieldPrefix,
}

const activeToggleIndex = 3

type categoryForm struct {
	original backend.Category
	inputs   []textinput.Model
	active   bool
	focus    int
	saving   bool

	confirmDiscard bool
}

func newCategoryInput(f category.Field, value string) textinput.Model {
	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = category.Limit(f)
	input.Width = 50
	input.SetValue(value)
	return input
}

func newCategoryForm(c backend.Category) *categoryForm {
	form := &categoryForm{
		original: c,
		inputs: []textinput.Model{
			newCategoryInput(category.FieldTitle, c.Title),
			newCategoryInput(category.FieldDescription, c.Description),
			newCategoryInput(category.FieldPrefix, c.EventPrefix),
		},
		active: c.Active,
	}
	form.inputs[0].Focus()
	return form
}

// edited is the category as the form would save it
func (f *categoryForm) edited() backend.Category {
	return category.Edit(f.original,
		f.inputs[0].Value(),
		f.inputs[1].Value(),
		f.inputs[2].Value(),
		f.active,
	)
}

func (f *categoryForm) dirty() bool {
	e := f.edited()
	o := f.original
	return e.Title != o.Title || e.Description != o.Description || e.EventPrefix != o.EventPrefix || e.Active != o.Active
}

func (f *categoryForm) setFocus(i int) tea.Cmd {
	n := len(f.inputs) + 1
	f.focus = (i + n) % n
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == f.focus {
			cmd = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return cmd
}

// categoriesState drives the category list and its edit form
type categoriesState struct {
	selected int
	loading  bool
	form     *categoryForm
}

func (a AppView) openCategories() (AppView, tea.Cmd) {
	a.dataModel.Navigate(viewCategoriesPath()...)
	a.view = viewCategories
	a.layout()
	a.categories.form = nil
	a.categories.loading = true
	return a, a.dataModel.LoadCategories()
}

func (a AppView) handleCategoriesKey(msg tea.KeyMsg) (AppView, tea.Cmd) {
	kb := a.keys
	c := &a.categories
	list := a.dataModel.Categories.Categories()

	if c.form != nil {
		return a.handleCategoryFormKey(msg)
	}

	switch {
	case kb.Matches(msg.String(), "list_down") || kb.Matches(msg.String(), "list_down_arrow"):
		c.selected = clampIndex(c.selected+1, len(list))
	case kb.Matches(msg.String(), "list_up") || kb.Matches(msg.String(), "list_up_arrow"):
		c.selected = clampIndex(c.selected-1, len(list))
	case kb.Matches(msg.String(), "list_refresh"):
		c.loading = true
		return a, a.dataModel.LoadCategories()
	case kb.Matches(msg.String(), "list_select"):
		if c.selected < len(list) {
			c.form = newCategoryForm(list[c.selected])
			return a, textinput.Blink
		}
	}
	return a, nil
}

func (a AppView) handleCategoryFormKey(msg tea.KeyMsg) (AppView, tea.Cmd) {
	kb := a.keys
	form := a.categories.form

	if form.confirmDiscard {
		switch msg.String() {
		case "y", "Y":
			a.categories.form = nil
		case "n", "N", "esc":
			form.confirmDiscard = false
		}
		return a, nil
	}

	if form.saving {
		return a, nil
	}

	switch {
	case kb.Matches(msg.String(), "back"):
		if form.dirty() {
			form.confirmDiscard = true
			return a, nil
		}
		a.categories.form = nil
		return a, nil
	case kb.Matches(msg.String(), "form_save"):
		form.saving = true
		return a, a.dataModel.SaveCategory(form.edited())
	case kb.Matches(msg.String(), "form_next") || msg.String() == "down":
		return a, form.setFocus(form.focus + 1)
	case kb.Matches(msg.String(), "form_prev") || msg.String() == "up":
		return a, form.setFocus(form.focus - 1)
	}

	if form.focus == activeToggleIndex {
		switch msg.String() {
		case " ", "enter", "x":
			form.active = !form.active
		}
		return a, nil
	}

	if kb.Matches(msg.String(), "clear_input") {
		form.inputs[form.focus].SetValue("")
		return a, nil
	}

	if msg.String() == "enter" {
		return a, form.setFocus(form.focus + 1)
	}

	var cmd tea.Cmd
	form.inputs[form.focus], cmd = form.inputs[form.focus].Update(msg)
	return a, cmd
}

func (a AppView) renderCategories(height int) string {
	c := a.categories
	if c.form != nil {
		if c.form.confirmDiscard {
			return RenderUnsavedChangesModal(a.width, height)
		}
		return a.renderCategoryForm(c.form, height)
	}

	list := a.dataModel.Categories.Categories()

	header := fmt.Sprintf("%d categories", len(list))
	if c.loading {
		header += "  " + a.spinner.View()
	}
	var lines []string
	lines = append(lines, DimStyle.Render(header))
	if a.dataModel.Categories.Degraded() {
		lines = append(lines, lipgloss.NewStyle().Foreground(warningColor).Render("⚠ Showing the default categories: the server could not be reached."))
	}
	lines = append(lines, "")

	start := 0
	maxRows := height - 5
	if maxRows < 1 {
		maxRows = 1
	}
	if c.selected >= maxRows {
		start = c.selected - maxRows + 1
	}

	for i := start; i < len(list) && i < start+maxRows; i++ {
		cat := list[i]
		indicator := "  "
		if i == c.selected {
			indicator = "▶ "
		}

		state := SuccessStyle.Render("●")
		if !cat.Active {
			state = DimStyle.Render("○")
		}

		title := swatch(cat.Background, cat.Foreground, truncate(cat.Title, 24))
		prefix := ""
		if cat.EventPrefix != "" {
			prefix = DimStyle.Render("[" + cat.EventPrefix + "] ")
		}
		desc := truncate(cat.Description, a.width-lipgloss.Width(title)-20)
		lines = append(lines, fmt.Sprintf("%s%s %s %s%s", indicator, state, title, prefix, DimStyle.Render(desc)))
	}

	footer := FormatFooter("j/k", "Navigate", "Enter", "Edit", a.keys.DisplayActionKey("list_refresh"), "Reload", "Esc", "Back")
	body := lipgloss.NewStyle().Height(height - 1).MaxHeight(height - 1).Padding(0, 1).Render(strings.Join(lines, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, body, DimStyle.Render(footer))
}

func (a AppView) renderCategoryForm(form *categoryForm, height int) string {
	modalWidth := modalWidthFor(70, a.width)

	var lines []string
	for i, f := range categoryFormFields {
		label := fmt.Sprintf("%s (%d/%d)", f, len([]rune(form.inputs[i].Value())), category.Limit(f))
		if i == form.focus {
			label = SelectedStyle.Render(label)
		} else {
			label = DimStyle.Render(label)
		}
		lines = append(lines, "  "+label, "  "+form.inputs[i].View(), "")
	}

	box := "[ ]"
	if form.active {
		box = "[x]"
	}
	toggle := box + " Active"
	if form.focus == activeToggleIndex {
		toggle = SelectedStyle.Render(toggle)
	}
	lines = append(lines, "  "+toggle, "")

	preview := form.edited()
	lines = append(lines, "  "+swatch(preview.Background, preview.Foreground, preview.Title))

	if form.saving {
		lines = append(lines, "", "  "+a.spinner.View()+" Saving...")
	}

	footer := FormatFooter("Tab", "Next", a.keys.DisplayActionKey("form_save"), "Save", "Esc", "Cancel")
	return RenderThreeSectionModal("Edit category", lines, footer, ModalTypeInfo, modalWidth, a.width, height)
}
