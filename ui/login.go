package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	appmodel "startime/model"
)

// loginState is the sign-in form. The Google consent flow happens in a
// browser; the resulting access token is pasted here and exchanged for a
// backend session.
type loginState struct {
	inputs  []textinput.Model
	focus   int
	pending bool
	err     string
}

const (
	loginEmail = iota
	loginName
	loginToken
)

func newLoginState() loginState {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 120
	email.Width = 50

	name := textinput.New()
	name.Placeholder = "Your name (optional)"
	name.CharLimit = 80
	name.Width = 50

	token := NewPassphraseInput("Paste your Google access token")
	token.CharLimit = 4096

	email.Focus()
	return loginState{inputs: []textinput.Model{email, name, token}}
}

func (l *loginState) setFocus(i int) tea.Cmd {
	n := len(l.inputs)
	l.focus = (i + n) % n
	var cmd tea.Cmd
	for j := range l.inputs {
		if j == l.focus {
			cmd = l.inputs[j].Focus()
		} else {
			l.inputs[j].Blur()
		}
	}
	return cmd
}

func (a AppView) openLogin(reason string) (AppView, tea.Cmd) {
	a.view = viewLogin
	a.dataModel.Navigate(appmodel.ViewLogin)
	a.layout()
	a.login = newLoginState()
	a.login.err = reason
	return a, textinput.Blink
}

func (a AppView) handleLoginKey(msg tea.KeyMsg) (AppView, tea.Cmd) {
	l := &a.login
	if l.pending {
		return a, nil
	}

	switch {
	case a.keys.Matches(msg.String(), "form_next") || msg.String() == "down":
		return a, l.setFocus(l.focus + 1)
	case a.keys.Matches(msg.String(), "form_prev") || msg.String() == "up":
		return a, l.setFocus(l.focus - 1)
	case a.keys.Matches(msg.String(), "clear_input"):
		l.inputs[l.focus].SetValue("")
		return a, nil
	case msg.String() == "enter":
		if l.focus != loginToken {
			return a, l.setFocus(l.focus + 1)
		}
		return a.submitLogin()
	}

	var cmd tea.Cmd
	l.inputs[l.focus], cmd = l.inputs[l.focus].Update(msg)
	return a, cmd
}

func (a AppView) submitLogin() (AppView, tea.Cmd) {
	l := &a.login
	email := strings.TrimSpace(l.inputs[loginEmail].Value())
	token := strings.TrimSpace(l.inputs[loginToken].Value())

	switch {
	case email == "":
		l.err = "Email is required"
		return a, l.setFocus(loginEmail)
	case token == "":
		l.err = "Access token is required"
		return a, l.setFocus(loginToken)
	}

	l.err = ""
	l.pending = true
	return a, a.dataModel.Login(appmodel.User{
		Email: email,
		Name:  l.inputs[loginName].Value(),
	}, token)
}

func (a AppView) renderLogin(height int) string {
	l := a.login
	modalWidth := modalWidthFor(70, a.width)

	labels := []string{"Email", "Name", "Access token"}
	lines := []string{
		centerTextLine("Sign in with your Google account to reach your calendar.", modalWidth),
		centerTextLine(DimStyle.Render("Paste the access token from the consent page below."), modalWidth),
		"",
	}
	for i, input := range l.inputs {
		label := DimStyle.Render(labels[i])
		if i == l.focus {
			label = SelectedStyle.Render(labels[i])
		}
		lines = append(lines, "  "+label, "  "+input.View(), "")
	}

	if l.pending {
		lines = append(lines, centerTextLine(a.spinner.View()+" Signing in...", modalWidth))
	}
	if l.err != "" {
		lines = append(lines, centerTextLine(ErrorStyle.Render("⚠ "+l.err), modalWidth))
	}

	footer := FormatFooter("Tab", "Next field", "Enter", "Sign in", a.keys.DisplayActionKey("quit"), "Quit")
	return RenderThreeSectionModal("🌟 Welcome to StarTime", lines, footer, ModalTypeInfo, modalWidth, a.width, height)
}
