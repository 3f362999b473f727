package model

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"startime/backend"
	"startime/config"
	"startime/conversation"
)

// StartConversation sends a first prompt to the agent. The reply names the
// conversation to open; its messages arrive over the socket.
func (m *Model) StartConversation(text, transcript string) tea.Cmd {
	if strings.TrimSpace(text) == "" && strings.TrimSpace(transcript) == "" {
		return nil
	}

	client := m.Client
	deviceID := m.DeviceID
	prompt := backend.FormatPrompt(text, transcript)
	ctx := m.ViewContext()

	return func() tea.Msg {
		id, err := client.StartConversation(ctx, prompt, "", deviceID)
		return ConversationStartedMsg{ID: id, Err: err}
	}
}

// SendMessage continues the open conversation
func (m *Model) SendMessage(text string, imagePaths []string) tea.Cmd {
	id := m.Conversation.ID
	if id == "" || (strings.TrimSpace(text) == "" && len(imagePaths) == 0) {
		return nil
	}

	client := m.Client
	ctx := m.ViewContext()
	req := backend.MessageRequest{
		ConversationID: id,
		Prompt:         backend.FormatPrompt(text, ""),
		ImagePaths:     imagePaths,
	}

	m.Conversation.Loading = true

	return func() tea.Msg {
		err := client.SendMessage(ctx, req)
		return MessageSentMsg{ConversationID: id, Err: err}
	}
}

// OpenConversation switches to a conversation and dials its socket. Any
// previously open socket is closed first.
func (m *Model) OpenConversation(id backend.ID) tea.Cmd {
	if id == "" {
		return nil
	}

	m.CloseConversation()
	ctx := m.Navigate(ViewHome, ViewConversation)
	m.Conversation = ConversationState{ID: id, Loading: true}

	wsBase := m.Config.WSBackend
	return func() tea.Msg {
		socket, err := backend.Dial(ctx, wsBase, id)
		return SocketOpenedMsg{ConversationID: id, Socket: socket, Err: err}
	}
}

// HandleSocketOpened adopts a dialed socket and starts waiting for snapshots.
// A socket for a conversation that is no longer open is closed immediately.
func (m *Model) HandleSocketOpened(msg SocketOpenedMsg) tea.Cmd {
	if msg.Err != nil {
		if msg.ConversationID == m.Conversation.ID {
			m.Conversation.Loading = false
		}
		return nil
	}

	if msg.ConversationID != m.Conversation.ID || m.socket != nil {
		_ = msg.Socket.Close()
		return nil
	}

	m.socket = msg.Socket
	return m.WaitForSnapshot()
}

// WaitForSnapshot blocks until the socket delivers its next frame or ends
func (m *Model) WaitForSnapshot() tea.Cmd {
	socket := m.socket
	if socket == nil {
		return nil
	}
	ctx := m.ViewContext()
	id := socket.ConversationID()

	return func() tea.Msg {
		ev, err := socket.Next(ctx)
		if err != nil {
			reason := socket.Reason()
			if errors.Is(err, context.Canceled) {
				reason = backend.ClosedByClient
			}
			return SocketClosedMsg{ConversationID: id, Reason: reason, Err: socket.Err()}
		}
		return SnapshotMsg{ConversationID: id, Snapshot: ev.Snapshot, Err: ev.Err}
	}
}

// ApplySnapshot replaces the conversation with a pushed snapshot. A frame
// that failed to decode keeps the previous messages but still ends loading.
func (m *Model) ApplySnapshot(msg SnapshotMsg) bool {
	if msg.ConversationID != m.Conversation.ID {
		return false
	}

	m.Conversation.Loading = false
	if msg.Err != nil {
		return false
	}

	m.Conversation.Name = msg.Snapshot.Name
	m.Conversation.Messages = conversation.View(msg.Snapshot)
	if name := strings.TrimSpace(msg.Snapshot.Name); name != "" {
		m.Breadcrumb.Rename(name)
	}
	return true
}

// HandleSocketClosed forgets the socket. It returns true when the server
// ended the conversation and the user should be sent home.
func (m *Model) HandleSocketClosed(msg SocketClosedMsg) bool {
	if msg.ConversationID != m.Conversation.ID {
		return false
	}

	m.socket = nil
	m.Conversation.Loading = false

	if msg.Reason != backend.ClosedByServer {
		return false
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Model] conversation %s ended by server (err=%v)", msg.ConversationID, msg.Err)
	}
	m.Conversation = ConversationState{}
	return true
}

// CloseConversation closes the socket, if any. The conversation data is kept
// so the view can still be drawn while navigating away.
func (m *Model) CloseConversation() {
	if m.socket == nil {
		return
	}
	if err := m.socket.Close(); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[Model] closing socket: %v", err)
	}
	m.socket = nil
}

// SocketOpen reports whether a conversation socket is currently held
func (m *Model) SocketOpen() bool {
	return m.socket != nil
}

// LastAssistantReply is the text of the newest assistant message
func (m *Model) LastAssistantReply() (string, bool) {
	msgs := m.Conversation.Messages
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == conversation.RoleAssistant && len(msgs[i].ToolCalls) == 0 {
			if text := strings.TrimSpace(msgs[i].Content.String()); text != "" {
				return text, true
			}
		}
	}
	return "", false
}

// LastEventLink is the calendar link of the newest completed event card
func (m *Model) LastEventLink() (string, bool) {
	msgs := m.Conversation.Messages
	for i := len(msgs) - 1; i >= 0; i-- {
		card := conversation.SelectCard(msgs[i])
		switch card.Kind {
		case conversation.CardEventDetail:
			if card.Event.HTMLLink != "" {
				return card.Event.HTMLLink, true
			}
		case conversation.CardEventList:
			for j := len(card.Events) - 1; j >= 0; j-- {
				if card.Events[j].HTMLLink != "" {
					return card.Events[j].HTMLLink, true
				}
			}
		}
	}
	return "", false
}
