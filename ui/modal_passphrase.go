package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"startime/config"
)

// PassphraseModal prompts for the SSH key passphrase before the app starts.
// The entered passphrase is tried against the key right away so a typo can
// be retried without restarting.
type PassphraseModal struct {
	keyPath   string
	enc       *config.EncryptionManager
	input     textinput.Model
	err       string
	width     int
	height    int
	cancelled bool
	unlocked  bool
}

func NewPassphraseModal(keyPath string, enc *config.EncryptionManager) PassphraseModal {
	input := NewPassphraseInput("Enter passphrase")
	input.Focus()

	return PassphraseModal{
		keyPath: keyPath,
		enc:     enc,
		input:   input,
	}
}

// NewPassphraseInput creates a masked textinput for SSH passphrase entry
func NewPassphraseInput(placeholder string) textinput.Model {
	input := textinput.New()
	input.Placeholder = placeholder
	input.Width = 50
	input.CharLimit = 200
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	return input
}

func (m PassphraseModal) Init() tea.Cmd {
	return textinput.Blink
}

func (m PassphraseModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit

		case "enter":
			if m.input.Value() == "" {
				m.err = "Passphrase cannot be empty"
				return m, nil
			}
			if err := UnlockEncryption(m.enc, m.input.Value()); err != nil {
				m.err = "Incorrect passphrase. Please try again."
				m.input.SetValue("")
				return m, nil
			}
			m.unlocked = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m PassphraseModal) View() string {
	return RenderPassphraseModal("SSH Key Passphrase Required", m.keyPath, m.input, m.err, m.width, m.height)
}

// Unlocked reports whether the encryption manager is ready
func (m PassphraseModal) Unlocked() bool {
	return m.unlocked && !m.cancelled
}

func (m PassphraseModal) IsCancelled() bool {
	return m.cancelled
}

// UnlockEncryption sets the passphrase and derives the token key
func UnlockEncryption(enc *config.EncryptionManager, passphrase string) error {
	if enc == nil {
		return fmt.Errorf("no encryption manager")
	}
	enc.SetPassphrase(passphrase)
	if err := enc.Initialize(); err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Passphrase] unlock failed: %v", err)
		}
		return err
	}
	return nil
}

// RenderPassphraseModal renders the SSH key passphrase prompt
func RenderPassphraseModal(title, keyPath string, input textinput.Model, errorMsg string, width, height int) string {
	if width < 20 || height < 10 {
		return "Terminal too small"
	}

	modalWidth := modalWidthFor(70, width)

	lines := []string{
		centerTextLine("Your cached session is encrypted with an SSH key.", modalWidth),
		centerTextLine(fmt.Sprintf("Key: %s", keyPath), modalWidth),
		centerTextLine("Please enter its passphrase:", modalWidth),
		strings.Repeat(" ", modalWidth),
		centerTextLine(input.View(), modalWidth),
	}

	if errorMsg != "" {
		styled := lipgloss.NewStyle().Foreground(dangerColor).Bold(true).Render("⚠ " + errorMsg)
		lines = append(lines, strings.Repeat(" ", modalWidth), centerTextLine(styled, modalWidth))
	}

	return RenderThreeSectionModal(title, lines, "Enter Continue  |  Esc Cancel", ModalTypeInfo, modalWidth, width, height)
}
