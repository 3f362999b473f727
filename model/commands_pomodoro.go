package model

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"startime/config"
	"startime/pomodoro"
	"startime/storage"
)

const pomodoroKey = "state"

// PomodoroTick schedules the next one-second tick
func PomodoroTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return PomodoroTickMsg{}
	})
}

// HandlePomodoroTick advances a running timer and persists it. The returned
// notification is set when a phase just ended.
func (m *Model) HandlePomodoroTick() (pomodoro.Notification, bool) {
	if !m.Timer.State().Running {
		return pomodoro.Notification{}, false
	}
	note, ended := m.Timer.Tick()
	m.savePomodoroLogged()
	return note, ended
}

// TogglePomodoro shows the timer, or hides and resets it
func (m *Model) TogglePomodoro() {
	if m.Timer.State().Visible {
		m.Timer.Hide()
	} else {
		m.Timer.Show()
	}
	m.savePomodoroLogged()
}

// StartPausePomodoro flips the running flag of a visible timer
func (m *Model) StartPausePomodoro() {
	if !m.Timer.State().Visible {
		return
	}
	m.Timer.Toggle()
	m.savePomodoroLogged()
}

func (m *Model) ResetPomodoro() {
	m.Timer.Reset()
	m.savePomodoroLogged()
}

// SavePomodoro writes the timer state to the local store
func (m *Model) SavePomodoro() error {
	if m.Store == nil {
		return nil
	}
	return m.Store.SetJSON(storage.NamespacePomodoro, pomodoroKey, m.Timer.State())
}

func (m *Model) savePomodoroLogged() {
	if err := m.SavePomodoro(); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[Pomodoro] persist failed: %v", err)
	}
}

func (m *Model) restorePomodoro() {
	if m.Store == nil {
		return
	}

	var state pomodoro.State
	err := m.Store.GetJSON(storage.NamespacePomodoro, pomodoroKey, &state)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Pomodoro] restore failed, starting fresh: %v", err)
		}
		return
	}
	m.Timer.Restore(state)
}
