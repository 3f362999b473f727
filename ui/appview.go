package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"startime/config"
	appmodel "startime/model"
)

// screen is the top-level view being shown
type screen int

const (
	viewHome screen = iota
	viewConversation
	viewHistory
	viewCategories
	viewLogin
)

func viewHistoryPath() []string {
	return []string{appmodel.ViewHome, appmodel.ViewHistory}
}

func viewCategoriesPath() []string {
	return []string{appmodel.ViewHome, appmodel.ViewCategories}
}

const flashDuration = 3 * time.Second

type AppView struct {
	// Reference to core data model
	dataModel *appmodel.Model
	keys      *config.KeyBindingsConfig

	// UI Components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model
	md       markdownCache

	// Window state
	width  int
	height int
	ready  bool

	view     screen
	showHelp bool

	// Home
	suggestion    int
	pendingPrompt string

	// Conversation
	imagePicker FilePickerState
	attachments []string

	quick      quickActionTray
	history    historyState
	categories categoriesState
	login      loginState

	// Acknowledge modal (errors that need a keypress)
	showAcknowledgeModal  bool
	acknowledgeModalTitle string
	acknowledgeModalMsg   string
	acknowledgeModalType  ModalType

	// Flash message in the status bar
	flashMsg   string
	flashError bool
	flashUntil time.Time
}

func NewAppView(m *appmodel.Model, kb *config.KeyBindingsConfig) AppView {
	if kb == nil {
		kb = config.DefaultKeybindings()
	}

	ta := textarea.New()
	ta.Placeholder = "Ask StarTime to plan, move or look up events..."
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Enter sends; Alt+Enter inserts a newline
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accentColor)

	a := AppView{
		dataModel:   m,
		keys:        kb,
		viewport:    viewport.New(0, 0),
		textarea:    ta,
		spinner:     sp,
		md:          markdownCache{},
		suggestion:  -1,
		imagePicker: NewImagePickerState(),
		quick:       newQuickActionTray(),
		history:     newHistoryState(m.Config.SearchDebounce()),
		login:       newLoginState(),
	}

	if m.User.Authenticated() {
		a.view = viewHome
		m.Navigate(appmodel.ViewHome)
	} else {
		a.view = viewLogin
		m.Navigate(appmodel.ViewLogin)
	}

	return a
}

func (a AppView) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textarea.Blink,
		a.spinner.Tick,
		appmodel.PomodoroTick(),
	}
	if a.view != viewLogin {
		cmds = append(cmds, a.dataModel.FetchBriefs())
	}
	return tea.Batch(cmds...)
}

// setFlash shows a status bar message for a few seconds
func (a *AppView) setFlash(msg string, isError bool) tea.Cmd {
	a.flashMsg = msg
	a.flashError = isError
	a.flashUntil = time.Now().Add(flashDuration)
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashTickMsg{}
	})
}

func (a *AppView) showAcknowledge(title, msg string, t ModalType) {
	a.showAcknowledgeModal = true
	a.acknowledgeModalTitle = title
	a.acknowledgeModalMsg = msg
	a.acknowledgeModalType = t
}

// layout sizes the components for the current screen
func (a *AppView) layout() {
	a.viewport.Width = a.width
	a.viewport.Height = a.bodyHeight()
	a.textarea.SetWidth(a.width)
}

func (a AppView) bodyHeight() int {
	// header + separator + status bar
	h := a.height - 3
	if a.dataModel.Timer.State().Visible {
		h--
	}
	if a.view == viewHome || a.view == viewConversation {
		h -= a.textarea.Height() + 1
		if len(a.attachments) > 0 {
			h--
		}
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading StarTime..."
	}
	if a.width < 20 || a.height < 10 {
		return "Terminal too small"
	}

	// Modal layers, top first
	if a.showAcknowledgeModal {
		return RenderAcknowledgeModal(a.acknowledgeModalTitle, a.acknowledgeModalMsg, a.acknowledgeModalType, a.width, a.height)
	}
	if a.showHelp {
		return a.renderHelpModal(a.width, a.height)
	}
	if a.quick.open {
		return a.quick.view(a.width, a.height)
	}
	if a.imagePicker.Active {
		return RenderFilePickerModal(a.imagePicker, a.attachments, a.width, a.height)
	}

	parts := []string{a.renderHeader(), ""}
	if banner := renderPomodoro(a.dataModel.Timer, a.width); banner != "" {
		parts = append(parts, banner)
	}

	body := a.bodyHeight()
	switch a.view {
	case viewLogin:
		parts = append(parts, a.renderLogin(body))
	case viewHistory:
		parts = append(parts, a.renderHistory(body))
	case viewCategories:
		parts = append(parts, a.renderCategories(body))
	case viewConversation:
		parts = append(parts, a.viewport.View())
	default:
		parts = append(parts, a.renderHome(body))
	}

	if a.view == viewHome || a.view == viewConversation {
		if line := a.attachmentLine(); line != "" {
			parts = append(parts, line)
		}
		parts = append(parts, a.textarea.View())
	}

	parts = append(parts, a.renderStatusBar())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a AppView) renderHeader() string {
	title := AssistantStyle.Bold(true).Render("⭐ StarTime")
	if trail := a.dataModel.Breadcrumb.String(); trail != "" {
		title += DimStyle.Render("  " + trail)
	}

	if !a.dataModel.User.Authenticated() {
		return title
	}

	user := UserStyle.Render(a.dataModel.User.User().Label())
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(user)
	if gap < 2 {
		return title
	}
	return title + strings.Repeat(" ", gap) + user
}

func (a AppView) renderStatusBar() string {
	if a.flashMsg != "" {
		if a.flashError {
			return ErrorStyle.Render("⚠ " + a.flashMsg)
		}
		return SuccessStyle.Render("✓ " + a.flashMsg)
	}

	kb := a.keys
	descStyle := lipgloss.NewStyle().Foreground(successColor).Bold(true)
	var pairs [][2]string
	switch a.view {
	case viewLogin:
		pairs = [][2]string{{kb.DisplayActionKey("quit"), "Quit"}, {kb.DisplayActionKey("help"), "Help"}}
	case viewConversation:
		pairs = [][2]string{
			{"Enter", "Send"},
			{kb.DisplayActionKey("attach_image"), "Image"},
			{kb.DisplayActionKey("yank_last_reply"), "Copy"},
			{"Esc", "Home"},
			{kb.DisplayActionKey("help"), "Help"},
		}
	default:
		pairs = [][2]string{
			{kb.DisplayActionKey("quit"), "Quit"},
			{kb.DisplayActionKey("history"), "History"},
			{kb.DisplayActionKey("categories"), "Categories"},
			{kb.DisplayActionKey("quick_action"), "Actions"},
			{kb.DisplayActionKey("help"), "Help"},
		}
	}

	var out []string
	for _, p := range pairs {
		out = append(out, fmt.Sprintf("%s %s", p[0], descStyle.Render(p[1])))
	}
	return StatusStyle.Render(truncateANSIFree(strings.Join(out, "  "), a.width))
}

// truncateANSIFree cuts a styled line to width without breaking escapes
func truncateANSIFree(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}
