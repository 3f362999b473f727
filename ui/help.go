package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (a AppView) renderHelpModal(width, height int) string {
	kb := a.keys

	green := lipgloss.NewStyle().
		Bold(true).
		Foreground(successColor)

	title := green.Render("StarTime - Keyboard Shortcuts")

	blue := lipgloss.NewStyle().Foreground(accentColor)

	global := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Global"),
		fmt.Sprintf("• %-13s New conversation", kb.DisplayActionKey("home")),
		fmt.Sprintf("• %-13s History", kb.DisplayActionKey("history")),
		fmt.Sprintf("• %-13s Categories", kb.DisplayActionKey("categories")),
		fmt.Sprintf("• %-13s Quick actions", kb.DisplayActionKey("quick_action")),
		fmt.Sprintf("• %-13s Sign out", kb.DisplayActionKey("logout")),
		fmt.Sprintf("• %-13s Toggle this help", kb.DisplayActionKey("help")),
		fmt.Sprintf("• %-13s Quit", kb.DisplayActionKey("quit")),
	)

	timer := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Pomodoro"),
		fmt.Sprintf("• %-13s Show / hide timer", kb.DisplayActionKey("pomodoro_toggle")),
		fmt.Sprintf("• %-13s Start / pause", kb.DisplayActionKey("pomodoro_start_pause")),
		fmt.Sprintf("• %-13s Reset", kb.DisplayActionKey("pomodoro_reset")),
	)

	chat := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Conversation"),
		"• Enter         Send message",
		fmt.Sprintf("• %-13s Attach image path", kb.DisplayActionKey("attach_image")),
		fmt.Sprintf("• %-13s Scroll down / up", kb.DisplayActionKey("scroll_down")+"/"+kb.DisplayActionKey("scroll_up")),
		fmt.Sprintf("• %-13s Jump to top", kb.DisplayActionKey("scroll_to_top")),
		fmt.Sprintf("• %-13s Jump to bottom", kb.DisplayActionKey("scroll_to_bottom")),
		fmt.Sprintf("• %-13s Copy last reply", kb.DisplayActionKey("yank_last_reply")),
		fmt.Sprintf("• %-13s Copy event link", kb.DisplayActionKey("yank_event_link")),
	)

	lists := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Lists"),
		"• j/k           Move",
		"• /             Filter",
		"• Enter         Open / edit",
		"• d             Delete conversation",
		fmt.Sprintf("• %-13s Refresh", kb.DisplayActionKey("list_refresh")),
		fmt.Sprintf("• %-13s Save category", kb.DisplayActionKey("form_save")),
	)

	columnStyle := lipgloss.NewStyle().Width(42).PaddingLeft(4)

	twoColumns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(lipgloss.JoinVertical(lipgloss.Left, global, "", timer)),
		columnStyle.Render(lipgloss.JoinVertical(lipgloss.Left, chat, "", lists)),
	)

	footer := DimStyle.Render(fmt.Sprintf("Press %s or Esc to close this help", kb.DisplayActionKey("help")))

	content := lipgloss.JoinVertical(lipgloss.Center, title, "", twoColumns, "", footer)

	helpBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(1, 2)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, helpBox.Render(content))
}
