package model

import (
	"context"
	"errors"
	"sync"

	"startime/backend"
	"startime/category"
	"startime/config"
	"startime/conversation"
	"startime/pomodoro"
	"startime/search"
	"startime/storage"
)

// View paths used for the breadcrumb
const (
	ViewHome         = "Home"
	ViewConversation = "Conversation"
	ViewHistory      = "History"
	ViewCategories   = "Categories"
	ViewLogin        = "Sign in"
)

// ConversationState is the open conversation as last pushed by the server
type ConversationState struct {
	ID       backend.ID
	Name     string
	Messages []conversation.Message // projected view
	Loading  bool
}

// Model holds the application data and the commands that change it
type Model struct {
	// Core dependencies
	Config     *config.Config
	Client     *backend.Client
	Categories *category.Manager
	Store      Store

	// State containers
	Timer      *pomodoro.Timer
	Breadcrumb *Breadcrumb
	User       *UserStore
	DeviceID   string

	// Application data
	Conversation ConversationState
	History      []backend.ConversationHeader
	HistoryQuery string
	Briefs       backend.Briefs

	historySearch search.Tracker
	socket        *backend.Socket

	viewMu     sync.Mutex
	viewCtx    context.Context
	cancelView context.CancelFunc

	Quitting bool
	Version  string
}

// NewModel wires the client and restores persisted state. store may be nil
// (nothing is persisted); sealer may be nil (tokens are stored as-is).
func NewModel(cfg *config.Config, store Store, sealer Sealer, version string) (*Model, error) {
	client := backend.NewClient(cfg.HTTPBackend)

	users, err := LoadUserStore(store, sealer)
	if err != nil {
		return nil, err
	}
	if users.Authenticated() {
		client.SetToken(users.Token())
	}

	var deviceID string
	if store != nil {
		if deviceID, err = store.DeviceID(); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[Model] no device id: %v", err)
		}
	}

	m := &Model{
		Config:     cfg,
		Client:     client,
		Categories: category.NewManager(client),
		Store:      store,
		Timer: pomodoro.New(pomodoro.Durations{
			Work:       cfg.WorkSeconds,
			ShortBreak: cfg.ShortBreakSeconds,
			LongBreak:  cfg.LongBreakSeconds,
		}, nil),
		Breadcrumb: LoadBreadcrumb(store),
		User:       users,
		DeviceID:   deviceID,
		Version:    version,
	}
	m.restorePomodoro()
	m.viewCtx, m.cancelView = context.WithCancel(context.Background())

	return m, nil
}

// Navigate makes path the active view. Requests issued for the previous view
// are cancelled, and the conversation socket is closed unless the new view is
// the same conversation.
func (m *Model) Navigate(path ...string) context.Context {
	m.viewMu.Lock()
	if m.cancelView != nil {
		m.cancelView()
	}
	m.viewCtx, m.cancelView = context.WithCancel(context.Background())
	ctx := m.viewCtx
	m.viewMu.Unlock()

	if len(path) == 0 || path[len(path)-1] != ViewConversation {
		m.CloseConversation()
	}

	m.Breadcrumb.Set(path...)
	return ctx
}

// ViewContext is cancelled when the user leaves the current view
func (m *Model) ViewContext() context.Context {
	m.viewMu.Lock()
	defer m.viewMu.Unlock()
	return m.viewCtx
}

// Shutdown releases the socket and cancels outstanding requests
func (m *Model) Shutdown() {
	m.Quitting = true
	m.CloseConversation()

	m.viewMu.Lock()
	if m.cancelView != nil {
		m.cancelView()
	}
	m.viewMu.Unlock()

	if err := m.SavePomodoro(); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[Model] final pomodoro save failed: %v", err)
	}
}

// NeedsLogin reports whether err means the session is missing or rejected
func NeedsLogin(err error) bool {
	return errors.Is(err, backend.ErrNotAuthenticated) || backend.IsUnauthorized(err)
}

// Placeholders shown when a brief could not be fetched
const (
	TaskBriefPlaceholder  = "Task Brief"
	EventBriefPlaceholder = "Event Brief"
	NewsBriefPlaceholder  = "News Brief"
)

// BriefsOrPlaceholders fills missing briefs with their placeholder text
func BriefsOrPlaceholders(b backend.Briefs) backend.Briefs {
	if b.Tasks == "" {
		b.Tasks = TaskBriefPlaceholder
	}
	if b.Events == "" {
		b.Events = EventBriefPlaceholder
	}
	if b.News == "" {
		b.News = NewsBriefPlaceholder
	}
	return b
}

var _ Store = (*storage.KVStore)(nil)
