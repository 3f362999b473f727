package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"startime/backend"
	"startime/category"
	"startime/config"
	"startime/conversation"
	appmodel "startime/model"
	"startime/pomodoro"
)

func newTestView(t *testing.T, signedIn bool) AppView {
	t.Helper()
	m, err := appmodel.NewModel(&config.Config{HTTPBackend: "http://127.0.0.1:1", WSBackend: "ws://127.0.0.1:1"}, nil, nil, "test")
	require.NoError(t, err)
	t.Cleanup(m.Shutdown)

	if signedIn {
		require.NoError(t, m.User.Set(appmodel.User{Email: "ada@example.com", Name: "Ada Lovelace"}, "session-token"))
	}

	a := NewAppView(m, config.DefaultKeybindings())
	next, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(AppView)
}

func press(t *testing.T, a AppView, keys ...tea.KeyMsg) AppView {
	t.Helper()
	for _, k := range keys {
		next, _ := a.Update(k)
		a = next.(AppView)
	}
	return a
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func alt(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s), Alt: true}
}

var enter = tea.KeyMsg{Type: tea.KeyEnter}

func TestEventCardShowsDetails(t *testing.T) {
	r := cardRenderer{width: 80, md: markdownCache{}}

	out := stripANSI(r.render(conversation.Card{
		Kind: conversation.CardEventDetail,
		Event: conversation.EventDetails{
			Summary:  "Dentist",
			Location: "Main St 5",
			HTMLLink: "https://calendar.example.com/e/1",
			Start:    conversation.EventTime{DateTime: "2024-05-10T09:00:00Z", TimeZone: "UTC"},
			End:      conversation.EventTime{DateTime: "2024-05-10T10:00:00Z", TimeZone: "UTC"},
		},
	}))

	assert.Contains(t, out, "Dentist")
	assert.Contains(t, out, "Main St 5")
	assert.Contains(t, out, "https://calendar.example.com/e/1")
	assert.Contains(t, out, "09:00 AM UTC")
}

func TestEventTimeRange(t *testing.T) {
	tests := []struct {
		name  string
		event conversation.EventDetails
		want  string
	}{
		{
			name: "same day keeps one date",
			event: conversation.EventDetails{
				Start: conversation.EventTime{DateTime: "2024-05-10T09:00:00Z", TimeZone: "UTC"},
				End:   conversation.EventTime{DateTime: "2024-05-10T10:00:00Z", TimeZone: "UTC"},
			},
			want: "Fri, May 10, 09:00 AM UTC – 10:00 AM UTC",
		},
		{
			name: "overnight repeats the date",
			event: conversation.EventDetails{
				Start: conversation.EventTime{DateTime: "2024-05-10T23:00:00Z", TimeZone: "UTC"},
				End:   conversation.EventTime{DateTime: "2024-05-11T01:00:00Z", TimeZone: "UTC"},
			},
			want: "Fri, May 10, 11:00 PM UTC – Sat, May 11, 01:00 AM UTC",
		},
		{
			name: "no end",
			event: conversation.EventDetails{
				Start: conversation.EventTime{Date: "2024-05-10", TimeZone: "UTC"},
			},
			want: "Fri, May 10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, eventTimeRange(tt.event))
		})
	}
}

func TestWaitingAndEmptyListCards(t *testing.T) {
	r := cardRenderer{width: 80, spinner: "*", md: markdownCache{}}

	waiting := stripANSI(r.render(conversation.Card{Kind: conversation.CardWaiting, Caption: "Creating your event..."}))
	assert.Contains(t, waiting, "Creating your event...")

	empty := stripANSI(r.render(conversation.Card{Kind: conversation.CardEventList}))
	assert.Contains(t, empty, "No events found.")

	assert.Empty(t, r.render(conversation.Card{Kind: conversation.CardNone}))
}

func TestRenderConversationSkipsSystemRows(t *testing.T) {
	r := cardRenderer{width: 80, md: markdownCache{}}
	out := stripANSI(r.renderConversation([]conversation.Message{
		{Role: conversation.RoleSystem, Content: conversation.TextContent("internal instructions")},
		{Role: conversation.RoleUser, Content: conversation.TextContent("[TEXT]: lunch with Sam")},
	}))

	assert.NotContains(t, out, "internal instructions")
	assert.Contains(t, out, "lunch with Sam")
}

func TestCategoryFormCapsInput(t *testing.T) {
	form := newCategoryForm(backend.Category{ID: "3", Title: "Health", Active: true})

	for i, f := range categoryFormFields {
		assert.Equal(t, category.Limit(f), form.inputs[i].CharLimit, f.String())
	}

	form.setFocus(2)
	for i := 0; i < 15; i++ {
		form.inputs[2], _ = form.inputs[2].Update(runes("x"))
	}
	assert.Equal(t, strings.Repeat("x", 10), form.inputs[2].Value())

	long := newCategoryForm(backend.Category{ID: "4", Title: strings.Repeat("é", 80)})
	assert.Len(t, []rune(long.edited().Title), 50)
}

func TestCategoryFormDirty(t *testing.T) {
	form := newCategoryForm(backend.Category{ID: "3", Title: "Health", Active: true})
	assert.False(t, form.dirty())

	form.active = false
	assert.True(t, form.dirty())

	form.active = true
	form.inputs[0].SetValue("Fitness")
	assert.True(t, form.dirty())
	assert.Equal(t, "Fitness", form.edited().Title)
	assert.Equal(t, backend.ID("3"), form.edited().ID)
}

func TestQuickActionFilter(t *testing.T) {
	tray := newQuickActionTray()
	tray.show()
	assert.Len(t, tray.visible(), len(quickActions))

	tray.filter.SetValue("pomo")
	list := tray.visible()
	require.NotEmpty(t, list)
	assert.Equal(t, "Pomodoro Timer", list[0].Name)

	tray.filter.SetValue("zzzz")
	_, ok := tray.current()
	assert.False(t, ok)
}

func TestPomodoroBanner(t *testing.T) {
	timer := pomodoro.New(pomodoro.DefaultDurations, func(int) int { return 0 })
	assert.Empty(t, renderPomodoro(timer, 100))

	timer.Show()
	out := stripANSI(renderPomodoro(timer, 100))
	assert.Contains(t, out, "25:00")
	assert.Contains(t, out, "Focus 1/4")
	assert.Contains(t, out, timer.Palette().Status)
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "██░░", progressBar(0.5, 4))
	assert.Equal(t, "░░░░", progressBar(-1, 4))
	assert.Equal(t, "████", progressBar(2, 4))
}

func TestRenderHeadline(t *testing.T) {
	out := stripANSI(renderHeadline("lunch <b>with</b> Sam\nat noon"))
	assert.Equal(t, "lunch with Sam at noon", out)
}

func TestSignedOutStartsAtLogin(t *testing.T) {
	a := newTestView(t, false)
	assert.Equal(t, viewLogin, a.view)
	assert.Contains(t, a.View(), "Welcome to StarTime")

	a = press(t, a, enter, enter, enter)
	assert.Equal(t, "Email is required", a.login.err)
	assert.False(t, a.login.pending)
}

func TestNavigationBetweenViews(t *testing.T) {
	a := newTestView(t, true)
	assert.Equal(t, viewHome, a.view)

	a = press(t, a, alt("s"))
	assert.Equal(t, viewHistory, a.view)
	assert.Equal(t, []string{appmodel.ViewHome, appmodel.ViewHistory}, a.dataModel.Breadcrumb.Path())

	a = press(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, viewHome, a.view)
	assert.Equal(t, []string{appmodel.ViewHome}, a.dataModel.Breadcrumb.Path())

	a = press(t, a, alt("c"))
	assert.Equal(t, viewCategories, a.view)
}

func TestQuickActionOpensPomodoro(t *testing.T) {
	a := newTestView(t, true)
	require.False(t, a.dataModel.Timer.State().Visible)

	a = press(t, a, alt("a"), runes("p"), runes("o"), runes("m"), runes("o"), enter)
	assert.False(t, a.quick.open)
	assert.True(t, a.dataModel.Timer.State().Visible)

	// Alt+Shift+P starts it
	a = press(t, a, alt("P"))
	assert.True(t, a.dataModel.Timer.State().Running)

	// Alt+P hides and resets
	a = press(t, a, alt("p"))
	state := a.dataModel.Timer.State()
	assert.False(t, state.Visible)
	assert.False(t, state.Running)
}

func TestComingSoonActionFlashes(t *testing.T) {
	a := newTestView(t, true)
	a = press(t, a, alt("a"), runes("shop"), enter)
	assert.False(t, a.quick.open)
	assert.Contains(t, a.flashMsg, "coming soon")
}

func TestHomeSuggestionFillsPrompt(t *testing.T) {
	a := newTestView(t, true)
	a = press(t, a, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, homeSuggestions[0], a.textarea.Value())

	a = press(t, a, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, homeSuggestions[1], a.textarea.Value())
}
