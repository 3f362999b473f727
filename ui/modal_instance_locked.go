package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// InstanceLockedModal is shown when another client already uses the data
// directory. The user can exit or force-delete a stale lock.
type InstanceLockedModal struct {
	runningPID  int
	width       int
	height      int
	forceDelete bool
}

func NewInstanceLockedModal(runningPID int) InstanceLockedModal {
	return InstanceLockedModal{runningPID: runningPID}
}

func (m InstanceLockedModal) Init() tea.Cmd {
	return nil
}

func (m InstanceLockedModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "ctrl+c":
			return m, tea.Quit
		case "d", "D":
			m.forceDelete = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// ForceDelete returns true if the user chose to remove the lock file
func (m InstanceLockedModal) ForceDelete() bool {
	return m.forceDelete
}

func (m InstanceLockedModal) View() string {
	if m.width < 20 || m.height < 10 {
		return "Terminal too small"
	}

	message := fmt.Sprintf(
		"StarTime is already running (PID %d).\n\n"+
			"Two clients on one data directory would overwrite\n"+
			"each other's timer and session cache.\n\n"+
			"Close the other client, or set STARTIME_DATA_DIR.\n\n"+
			"If the other process is gone, press D to delete\n"+
			"the lock file and continue.",
		m.runningPID)

	lines := centeredLines(message, modalWidthFor(60, m.width))
	return RenderThreeSectionModal("⚠️  StarTime Already Running  ⚠️", lines, "Enter Exit │ D Force delete lock file", ModalTypeError, 60, m.width, m.height)
}
