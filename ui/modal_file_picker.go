package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/lipgloss"

	"startime/config"
)

// imageTypes are the attachments the agent accepts
var imageTypes = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}

// FilePickerState wraps the bubbles file picker used to attach images
type FilePickerState struct {
	Active bool
	Picker filepicker.Model
	Title  string
}

func NewImagePickerState() FilePickerState {
	fp := filepicker.New()
	fp.AllowedTypes = imageTypes
	fp.Height = 10
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.ShowPermissions = false
	fp.ShowSize = true
	fp.ShowHidden = false
	fp.CurrentDirectory = config.GetHomeDir()

	fp.Styles.Directory = lipgloss.NewStyle().
		Foreground(accentColor).
		Bold(true)
	fp.Styles.File = lipgloss.NewStyle().
		Foreground(lipgloss.Color("15"))
	fp.Styles.Selected = lipgloss.NewStyle().
		Foreground(successColor).
		Bold(true)
	fp.Styles.Cursor = lipgloss.NewStyle().
		Foreground(successColor)

	return FilePickerState{Picker: fp, Title: "Attach image"}
}

func (fps *FilePickerState) Activate() {
	fps.Active = true
}

func (fps *FilePickerState) Reset() {
	fps.Active = false
}

func RenderFilePickerModal(state FilePickerState, attached []string, width, height int) string {
	if width < 20 || height < 10 {
		return "Terminal too small"
	}

	modalWidth := width - 10
	if modalWidth > 80 {
		modalWidth = 80
	}
	if modalWidth < 10 {
		modalWidth = 10
	}

	contentStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Align(lipgloss.Left)

	var lines []string
	for _, line := range strings.Split(state.Picker.View(), "\n") {
		lines = append(lines, contentStyle.Render("  "+strings.TrimRight(line, " ")))
	}

	if len(attached) > 0 {
		lines = append(lines, strings.Repeat(" ", modalWidth))
		for _, path := range attached {
			lines = append(lines, contentStyle.Render("  "+SuccessStyle.Render("✓ ")+truncate(path, modalWidth-6)))
		}
	}

	footer := "j/k Navigate  h/l Back/Forward  Enter Attach  Esc Done"
	return RenderThreeSectionModal(state.Title, lines, footer, ModalTypeInfo, modalWidth, width, height)
}
