package ui

import (
	"github.com/charmbracelet/lipgloss"
)

type ConfirmationState struct {
	Active  bool
	Title   string
	Message string
}

// RenderConfirmationModal asks a y/n question, e.g. before deleting a conversation
func RenderConfirmationModal(state ConfirmationState, width, height int) string {
	lines := centeredLines(state.Message, modalWidthFor(60, width))
	return RenderThreeSectionModal(state.Title, lines, FormatFooter("y", "Yes", "n", "No"), ModalTypeWarning, 60, width, height)
}

// RenderUnsavedChangesModal is shown when leaving the category form with edits
func RenderUnsavedChangesModal(width, height int) string {
	bold := lipgloss.NewStyle().Bold(true)
	lines := centeredLines("This category has unsaved changes.\n\nDiscard them?", modalWidthFor(50, width))
	lines = append(lines, centerTextLine(bold.Render("Nothing is sent until you save."), modalWidthFor(50, width)))
	return RenderThreeSectionModal("Unsaved changes", lines, FormatFooter("y", "Discard", "n", "Keep editing"), ModalTypeWarning, 50, width, height)
}
