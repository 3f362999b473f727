package model

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"startime/backend"
)

// Login exchanges a pasted OAuth access token for a backend session
func (m *Model) Login(user User, accessToken string) tea.Cmd {
	accessToken = strings.TrimSpace(accessToken)
	user.Email = strings.TrimSpace(user.Email)
	user.Name = strings.TrimSpace(user.Name)

	client := m.Client
	ctx := m.ViewContext()

	return func() tea.Msg {
		token, err := client.ExchangeAuth(ctx, backend.OAuthTokens{
			AccessToken: accessToken,
			TokenType:   "Bearer",
		})
		return LoginMsg{User: user, Token: token, Err: err}
	}
}

// ApplyLogin stores the session and authorizes later requests
func (m *Model) ApplyLogin(msg LoginMsg) error {
	if msg.Err != nil {
		return msg.Err
	}
	if err := m.User.Set(msg.User, msg.Token); err != nil {
		return err
	}
	m.Client.SetToken(msg.Token)
	return nil
}

// Logout forgets the cached session and drops the open conversation
func (m *Model) Logout() error {
	m.CloseConversation()
	m.Conversation = ConversationState{}
	m.History = nil
	m.Client.SetToken("")
	m.Navigate(ViewLogin)
	return m.User.Clear()
}
