package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ID is a backend identifier. The database sends integers, the agent
// service sends strings; both decode to the same value.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", trimmed, err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// Category is a user-editable event tag
type Category struct {
	ID          ID       `json:"cat_id"`
	ColorID     string   `json:"cat_color_id"`
	Title       string   `json:"cat_title"`
	Description string   `json:"cat_description"`
	Background  string   `json:"cat_background"`
	Foreground  string   `json:"cat_foreground"`
	Active      bool     `json:"cat_active"`
	EventPrefix string   `json:"cat_event_prefix"`
	Examples    []string `json:"cat_examples"`
}

// ConversationHeader is a history row. Headline is only set by search and
// carries the backend's <b>highlight</b> markup.
type ConversationHeader struct {
	ID        ID        `json:"c_id"`
	Name      string    `json:"c_name"`
	CreatedAt string    `json:"c_created_at"`
	Deleted   bool      `json:"c_deleted"`
	Headline  string    `json:"headline,omitempty"`
}

// Title falls back to a placeholder for conversations the agent has not named yet
func (h ConversationHeader) Title() string {
	if strings.TrimSpace(h.Name) == "" {
		return "Untitled conversation"
	}
	return h.Name
}

// Created parses CreatedAt; the zero time is returned for missing or odd values
func (h ConversationHeader) Created() time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, h.CreatedAt); err == nil {
			return t
		}
	}
	return time.Time{}
}

// OAuthTokens are the Google tokens handed to the backend at login
type OAuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope"`
	TokenType    string `json:"token_type"`
}

// Briefs are the three daily summaries shown on the home screen
type Briefs struct {
	Tasks  string
	Events string
	News   string
}
