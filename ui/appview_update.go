package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"startime/config"
	appmodel "startime/model"
	"startime/search"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The file picker reads directories asynchronously; its non-key
	// messages are forwarded here, keys go through handleImagePickerKey.
	var pickerCmd tea.Cmd
	if a.imagePicker.Active {
		if _, isKey := msg.(tea.KeyMsg); !isKey {
			a.imagePicker.Picker, pickerCmd = a.imagePicker.Picker.Update(msg)
		}
	}

	next, cmd := a.update(msg)
	if pickerCmd == nil {
		return next, cmd
	}
	return next, tea.Batch(pickerCmd, cmd)
}

func (a AppView) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.layout()
		a.updateViewportContent(true)
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		if a.view == viewConversation && a.dataModel.Conversation.Loading {
			a.updateViewportContent(false)
		}
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)

	case flashTickMsg:
		if !a.flashUntil.IsZero() && !time.Now().Before(a.flashUntil) {
			a.flashMsg = ""
			a.flashUntil = time.Time{}
		}
		return a, nil

	case pomodoroTickMsg:
		cmds := []tea.Cmd{appmodel.PomodoroTick()}
		if note, ended := a.dataModel.HandlePomodoroTick(); ended {
			cmds = append(cmds, a.setFlash(note.Message, false), ringBell)
		}
		return a, tea.Batch(cmds...)

	case search.DebounceMsg:
		return a.handleHistoryDebounce(msg)
	}

	return a.handleModelMessage(msg)
}

// handleModelMessage applies the results of model commands
func (a AppView) handleModelMessage(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case conversationStartedMsg:
		if msg.Err != nil {
			a.pendingPrompt = ""
			a.dataModel.Conversation.Loading = false
			return a.handleRequestError("Could not start the conversation", msg.Err)
		}
		cmd := a.dataModel.OpenConversation(msg.ID)
		a.view = viewConversation
		a.layout()
		a.updateViewportContent(true)
		return a, cmd

	case socketOpenedMsg:
		cmd := a.dataModel.HandleSocketOpened(msg)
		if msg.Err != nil && msg.ConversationID == a.dataModel.Conversation.ID {
			a.pendingPrompt = ""
			a.updateViewportContent(false)
			return a, a.setFlash("Could not connect to the conversation: "+msg.Err.Error(), true)
		}
		return a, cmd

	case snapshotMsg:
		if msg.ConversationID != a.dataModel.Conversation.ID {
			return a, nil
		}
		if a.dataModel.ApplySnapshot(msg) {
			a.pendingPrompt = ""
		}
		if a.view == viewConversation {
			a.updateViewportContent(false)
		}
		return a, a.dataModel.WaitForSnapshot()

	case socketClosedMsg:
		if a.dataModel.HandleSocketClosed(msg) {
			a.pendingPrompt = ""
			next, cmd := a.goHome()
			flash := next.setFlash("The conversation was closed by the server", true)
			return next, tea.Batch(cmd, flash)
		}
		return a, nil

	case messageSentMsg:
		if msg.Err != nil && msg.ConversationID == a.dataModel.Conversation.ID {
			a.dataModel.Conversation.Loading = false
			a.updateViewportContent(false)
			return a.handleRequestError("Message not sent", msg.Err)
		}
		return a, nil

	case historyLoadedMsg:
		if a.dataModel.ApplyHistory(msg) {
			a.history.loading = false
			a.history.err = ""
			a.history.selected = clampIndex(a.history.selected, len(a.historyRows()))
			return a, nil
		}
		if msg.Err != nil && !isCancelled(msg.Err) {
			a.history.loading = false
			if appmodel.NeedsLogin(msg.Err) {
				return a.openLogin("Your session has expired. Please sign in again.")
			}
			a.history.err = msg.Err.Error()
		}
		return a, nil

	case conversationDeletedMsg:
		if msg.Err != nil {
			return a.handleRequestError("Could not delete the conversation", msg.Err)
		}
		a.history.loading = true
		return a, tea.Batch(
			a.setFlash("Conversation deleted", false),
			a.dataModel.FetchHistory(a.history.input.Value()),
		)

	case categoriesLoadedMsg:
		a.categories.loading = false
		a.categories.selected = clampIndex(a.categories.selected, len(msg.Result.Categories))
		if msg.Result.Err != nil && !isCancelled(msg.Result.Err) {
			if appmodel.NeedsLogin(msg.Result.Err) {
				return a.openLogin("Your session has expired. Please sign in again.")
			}
			return a, a.setFlash("Categories unavailable, showing defaults", true)
		}
		return a, nil

	case categorySavedMsg:
		if a.categories.form != nil {
			a.categories.form.saving = false
		}
		if !msg.Result.Saved {
			if isCancelled(msg.Result.Err) {
				return a, nil
			}
			return a.handleRequestError("Could not save "+msg.Category.Title, msg.Result.Err)
		}
		a.categories.form = nil
		return a, a.setFlash(fmt.Sprintf("Saved %q", msg.Category.Title), false)

	case briefsMsg:
		a.dataModel.ApplyBriefs(msg)
		if msg.Err != nil && appmodel.NeedsLogin(msg.Err) {
			return a.openLogin("Your session has expired. Please sign in again.")
		}
		return a, nil

	case loginMsg:
		a.login.pending = false
		if err := a.dataModel.ApplyLogin(msg); err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[UI] sign in failed: %v", err)
			}
			a.login.err = "Sign in failed: " + err.Error()
			return a, nil
		}
		next, cmd := a.goHome()
		flash := next.setFlash("Signed in as "+next.dataModel.User.User().Label(), false)
		return next, tea.Batch(cmd, next.dataModel.FetchBriefs(), flash)
	}

	return a, nil
}

func (a AppView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kb := a.keys
	pressed := msg.String()

	if pressed == "ctrl+c" || kb.Matches(pressed, "quit") {
		return a.quit()
	}

	if a.showAcknowledgeModal {
		if pressed == "enter" || pressed == "esc" {
			a.showAcknowledgeModal = false
		}
		return a, nil
	}

	if kb.Matches(pressed, "help") {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		if pressed == "esc" {
			a.showHelp = false
		}
		return a, nil
	}

	if a.quick.open {
		return a.handleQuickActionKey(msg)
	}
	if a.imagePicker.Active {
		return a.handleImagePickerKey(msg)
	}

	if a.view == viewLogin {
		return a.handleLoginKey(msg)
	}

	// Global actions
	switch {
	case kb.Matches(pressed, "home"):
		return a.goHome()
	case kb.Matches(pressed, "history"):
		return a.openHistory()
	case kb.Matches(pressed, "categories"):
		return a.openCategories()
	case kb.Matches(pressed, "quick_action"):
		a.quick.show()
		return a, nil
	case kb.Matches(pressed, "logout"):
		if err := a.dataModel.Logout(); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[UI] logout: %v", err)
		}
		return a.openLogin("")
	case kb.Matches(pressed, "pomodoro_toggle"):
		a.dataModel.TogglePomodoro()
		a.layout()
		return a, nil
	case kb.Matches(pressed, "pomodoro_start_pause"):
		a.dataModel.StartPausePomodoro()
		return a, nil
	case kb.Matches(pressed, "pomodoro_reset"):
		a.dataModel.ResetPomodoro()
		return a, nil
	}

	switch a.view {
	case viewConversation:
		return a.handleConversationKey(msg)
	case viewHistory:
		if kb.Matches(pressed, "back") && !a.history.searchMode && a.history.confirmDelete == nil {
			return a.goHome()
		}
		return a.handleHistoryKey(msg)
	case viewCategories:
		if kb.Matches(pressed, "back") && a.categories.form == nil {
			return a.goHome()
		}
		return a.handleCategoriesKey(msg)
	default:
		return a.handleHomeKey(msg)
	}
}

func (a AppView) handleHomeKey(msg tea.KeyMsg) (AppView, tea.Cmd) {
	kb := a.keys
	switch {
	case msg.String() == "enter":
		return a.startFromHome()
	case kb.Matches(msg.String(), "form_next"):
		a.suggestion = (a.suggestion + 1) % len(homeSuggestions)
		a.applySuggestion(a.suggestion)
		return a, nil
	case kb.Matches(msg.String(), "clear_input"):
		a.textarea.Reset()
		a.suggestion = -1
		return a, nil
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}

func (a AppView) handleQuickActionKey(msg tea.KeyMsg) (AppView, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.quick.hide()
		return a, nil
	case "up", "ctrl+k":
		a.quick.move(-1)
		return a, nil
	case "down", "ctrl+j":
		a.quick.move(1)
		return a, nil
	case "enter":
		action, ok := a.quick.current()
		if !ok {
			return a, nil
		}
		a.quick.hide()
		if !action.Available {
			return a, a.setFlash(action.Name+" is coming soon", false)
		}
		if action.ID == "pomodoro" {
			if !a.dataModel.Timer.State().Visible {
				a.dataModel.TogglePomodoro()
				a.layout()
			}
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.quick.filter, cmd = a.quick.filter.Update(msg)
	a.quick.selected = clampIndex(a.quick.selected, len(a.quick.visible()))
	return a, cmd
}

// goHome leaves the current view; the conversation socket is closed
func (a AppView) goHome() (AppView, tea.Cmd) {
	a.dataModel.Navigate(appmodel.ViewHome)
	a.view = viewHome
	a.history.debouncer.Stop()
	a.history.confirmDelete = nil
	a.categories.form = nil
	a.attachments = nil
	a.imagePicker.Reset()
	a.layout()
	return a, a.textarea.Focus()
}

func (a AppView) quit() (tea.Model, tea.Cmd) {
	if config.DebugLog != nil {
		config.DebugLog.Printf("[UI] quit requested")
	}
	a.dataModel.Shutdown()
	return a, tea.Quit
}

// handleRequestError sends auth failures to the sign-in screen and shows
// everything else as a flash message
func (a AppView) handleRequestError(what string, err error) (AppView, tea.Cmd) {
	if err == nil || isCancelled(err) {
		return a, nil
	}
	if appmodel.NeedsLogin(err) {
		return a.openLogin("Your session has expired. Please sign in again.")
	}
	if config.DebugLog != nil {
		config.DebugLog.Printf("[UI] %s: %v", what, err)
	}
	return a, a.setFlash(what+": "+err.Error(), true)
}

func isCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// ringBell sounds the terminal bell when a pomodoro phase ends. It goes
// to stderr so it never interleaves with the renderer's frames.
func ringBell() tea.Msg {
	fmt.Fprint(os.Stderr, "\a")
	return nil
}
