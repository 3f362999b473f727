package model

import (
	"startime/backend"
	"startime/category"
	"startime/conversation"
)

type ConversationStartedMsg struct {
	ID  backend.ID
	Err error
}

type MessageSentMsg struct {
	ConversationID backend.ID
	Err            error
}

type SocketOpenedMsg struct {
	ConversationID backend.ID
	Socket         *backend.Socket
	Err            error
}

// SnapshotMsg carries one pushed snapshot. Err is set for a frame that did not decode.
type SnapshotMsg struct {
	ConversationID backend.ID
	Snapshot       conversation.Snapshot
	Err            error
}

type SocketClosedMsg struct {
	ConversationID backend.ID
	Reason         backend.CloseReason
	Err            error
}

// HistoryLoadedMsg answers a list or search request tagged with Seq
type HistoryLoadedMsg struct {
	Seq           uint64
	Query         string
	Conversations []backend.ConversationHeader
	Err           error
}

type ConversationDeletedMsg struct {
	ID  backend.ID
	Err error
}

type CategoriesLoadedMsg struct {
	Result category.LoadResult
}

type CategorySavedMsg struct {
	Category backend.Category
	Result   category.SaveResult
}

type BriefsMsg struct {
	Briefs backend.Briefs
	Err    error
}

type LoginMsg struct {
	User  User
	Token string
	Err   error
}

type PomodoroTickMsg struct{}

type FlashTickMsg struct{}
