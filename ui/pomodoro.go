package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"startime/pomodoro"
)

// renderPomodoro draws the timer banner in the current phase palette
func renderPomodoro(t *pomodoro.Timer, width int) string {
	s := t.State()
	if !s.Visible {
		return ""
	}

	p := t.Palette()
	style := lipgloss.NewStyle().
		Background(lipgloss.Color(p.Background)).
		Foreground(lipgloss.Color(p.Foreground)).
		Bold(true).
		Padding(0, 1)

	icon := "⏸"
	if s.Running {
		icon = "▶"
	}

	left := "🍅 " + t.PhaseLabel() + "  " + t.Clock() + " " + icon
	right := p.Status

	barWidth := width - lipgloss.Width(left) - lipgloss.Width(right) - 8
	bar := ""
	if barWidth >= 10 {
		bar = progressBar(t.Progress(), barWidth)
	}

	line := strings.Join(nonEmpty(left, bar, right), "  ")
	return style.Width(width).Render(line)
}

// progressBar is a plain block bar; bubbles/progress would pull in the
// spring animation package for a bar that only moves once a second.
func progressBar(fraction float64, width int) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction * float64(width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func nonEmpty(parts ...string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
