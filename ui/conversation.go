package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"startime/config"
	"startime/conversation"
)

// updateViewportContent re-renders the open conversation. A prompt that
// has been sent but not yet echoed by the server is drawn locally with a
// waiting card under it.
func (a *AppView) updateViewportContent(gotoBottom bool) {
	r := cardRenderer{width: a.viewport.Width, spinner: a.spinner.View(), md: a.md}

	content := r.renderConversation(a.dataModel.Conversation.Messages)
	if a.pendingPrompt != "" && len(a.dataModel.Conversation.Messages) == 0 {
		content = r.userCard(conversation.UserPrompt{Text: a.pendingPrompt})
	}
	if a.dataModel.Conversation.Loading && !endsWithWaitingCard(a.dataModel.Conversation.Messages) {
		if content != "" {
			content += "\n\n"
		}
		content += r.waitingCard("Thinking...")
	}

	if title := strings.TrimSpace(a.dataModel.Conversation.Name); title != "" {
		content = TitleStyle.Render(title) + "\n\n" + content
	}

	atBottom := a.viewport.AtBottom()
	a.viewport.SetContent(content)
	if gotoBottom || atBottom {
		a.viewport.GotoBottom()
	}
}

func endsWithWaitingCard(msgs []conversation.Message) bool {
	if len(msgs) == 0 {
		return false
	}
	return conversation.SelectCard(msgs[len(msgs)-1]).Kind == conversation.CardWaiting
}

func (a AppView) sendFromConversation() (AppView, tea.Cmd) {
	text := strings.TrimSpace(a.textarea.Value())
	cmd := a.dataModel.SendMessage(text, a.attachments)
	if cmd == nil {
		return a, nil
	}
	a.textarea.Reset()
	a.attachments = nil
	a.layout()
	a.updateViewportContent(true)
	return a, cmd
}

func (a AppView) startFromHome() (AppView, tea.Cmd) {
	text := strings.TrimSpace(a.textarea.Value())
	cmd := a.dataModel.StartConversation(text, "")
	if cmd == nil {
		return a, nil
	}
	a.textarea.Reset()
	a.suggestion = -1
	a.pendingPrompt = text
	a.view = viewConversation
	a.dataModel.Conversation.Loading = true
	a.layout()
	a.updateViewportContent(true)
	return a, cmd
}

func (a AppView) handleConversationKey(msg tea.KeyMsg) (AppView, tea.Cmd) {
	kb := a.keys
	pressed := msg.String()

	switch {
	case kb.Matches(pressed, "back"):
		return a.goHome()
	case kb.Matches(pressed, "scroll_down"):
		a.viewport.SetYOffset(a.viewport.YOffset + 1)
		return a, nil
	case kb.Matches(pressed, "scroll_up"):
		a.viewport.SetYOffset(a.viewport.YOffset - 1)
		return a, nil
	case kb.Matches(pressed, "page_down"):
		a.viewport.ViewDown()
		return a, nil
	case kb.Matches(pressed, "page_up"):
		a.viewport.ViewUp()
		return a, nil
	case kb.Matches(pressed, "scroll_to_top"):
		a.viewport.GotoTop()
		return a, nil
	case kb.Matches(pressed, "scroll_to_bottom"):
		a.viewport.GotoBottom()
		return a, nil
	case kb.Matches(pressed, "yank_last_reply"):
		text, ok := a.dataModel.LastAssistantReply()
		if !ok {
			return a, a.setFlash("Nothing to copy yet", false)
		}
		return a, a.copyToClipboard(text, "Reply copied")
	case kb.Matches(pressed, "yank_event_link"):
		link, ok := a.dataModel.LastEventLink()
		if !ok {
			return a, a.setFlash("No event link in this conversation", false)
		}
		return a, a.copyToClipboard(link, "Event link copied")
	case kb.Matches(pressed, "attach_image"):
		a.imagePicker.Activate()
		return a, a.imagePicker.Picker.Init()
	case kb.Matches(pressed, "clear_input"):
		a.textarea.Reset()
		a.attachments = nil
		a.layout()
		return a, nil
	case pressed == "enter":
		if a.dataModel.Conversation.Loading {
			return a, a.setFlash("Still waiting for the last reply", false)
		}
		return a.sendFromConversation()
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}

func (a *AppView) copyToClipboard(text, done string) tea.Cmd {
	if err := clipboard.WriteAll(text); err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] clipboard write failed: %v", err)
		}
		return a.setFlash("Clipboard unavailable: "+err.Error(), true)
	}
	return a.setFlash(done, false)
}

// handleImagePickerKey attaches the chosen file and keeps the picker open
// for more; Esc closes it.
func (a AppView) handleImagePickerKey(msg tea.KeyMsg) (AppView, tea.Cmd) {
	if msg.String() == "esc" {
		a.imagePicker.Reset()
		a.layout()
		return a, nil
	}

	var cmd tea.Cmd
	a.imagePicker.Picker, cmd = a.imagePicker.Picker.Update(msg)

	if ok, path := a.imagePicker.Picker.DidSelectFile(msg); ok {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			a.attachments = appendUnique(a.attachments, path)
			return a, tea.Batch(cmd, a.setFlash("Attached "+filepath.Base(path), false))
		}
	}
	if ok, path := a.imagePicker.Picker.DidSelectDisabledFile(msg); ok {
		return a, tea.Batch(cmd, a.setFlash(filepath.Base(path)+" is not a supported image", true))
	}

	return a, cmd
}

func appendUnique(list []string, item string) []string {
	for _, existing := range list {
		if existing == item {
			return list
		}
	}
	return append(list, item)
}

func (a AppView) attachmentLine() string {
	if len(a.attachments) == 0 {
		return ""
	}
	names := make([]string, len(a.attachments))
	for i, p := range a.attachments {
		names[i] = filepath.Base(p)
	}
	return DimStyle.Render(fmt.Sprintf("🖼 %s", strings.Join(names, ", ")))
}
