package ui

import (
	"startime/model"
)

// Message type aliases; the commands that produce them live in model
type conversationStartedMsg = model.ConversationStartedMsg
type messageSentMsg = model.MessageSentMsg
type socketOpenedMsg = model.SocketOpenedMsg
type snapshotMsg = model.SnapshotMsg
type socketClosedMsg = model.SocketClosedMsg
type historyLoadedMsg = model.HistoryLoadedMsg
type conversationDeletedMsg = model.ConversationDeletedMsg
type categoriesLoadedMsg = model.CategoriesLoadedMsg
type categorySavedMsg = model.CategorySavedMsg
type briefsMsg = model.BriefsMsg
type loginMsg = model.LoginMsg
type pomodoroTickMsg = model.PomodoroTickMsg
type flashTickMsg = model.FlashTickMsg
