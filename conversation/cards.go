package conversation

import (
	"strings"
)

// CardKind is the visual card chosen for a projected row
type CardKind int

const (
	CardNone CardKind = iota
	CardUserText
	CardAssistantMarkdown
	CardEventDetail
	CardEventList
	CardWaiting
)

func (k CardKind) String() string {
	switch k {
	case CardUserText:
		return "user_text"
	case CardAssistantMarkdown:
		return "assistant_markdown"
	case CardEventDetail:
		return "event_detail"
	case CardEventList:
		return "event_list"
	case CardWaiting:
		return "waiting"
	default:
		return "none"
	}
}

type toolKind int

const (
	toolSingleEvent toolKind = iota
	toolEventList
)

type toolInfo struct {
	kind    toolKind
	caption string
}

// knownTools lists the backend functions that have a card
var knownTools = map[string]toolInfo{
	"CreateCalendarEvent": {toolSingleEvent, "Creating your event..."},
	"ModifyEvent":         {toolSingleEvent, "Updating your event..."},
	"GetTodayEvents":      {toolEventList, "Looking up today's events..."},
	"GetThisWeekEvents":   {toolEventList, "Looking up this week's events..."},
}

// IsKnownTool reports whether a function name has a card
func IsKnownTool(name string) bool {
	_, ok := knownTools[name]
	return ok
}

// WaitingCaption returns the caption shown while a function's result is pending
func WaitingCaption(name string) string {
	if info, ok := knownTools[name]; ok {
		return info.caption
	}
	return ""
}

// UserPrompt is a user message split into its typed and spoken parts
type UserPrompt struct {
	Text       string
	Transcript string
	Images     int
}

// Card is everything the render layer needs for one row
type Card struct {
	Kind     CardKind
	Function string
	Caption  string
	Text     string
	Prompt   UserPrompt
	Event    EventDetails
	Events   []EventDetails
}

// SelectCard decides the card for a projected row from its role, the invoked
// function and whether a result is present.
func SelectCard(msg Message) Card {
	switch msg.Role {
	case RoleUser:
		return Card{Kind: CardUserText, Prompt: ParseUserPrompt(msg.Content)}

	case RoleAssistant:
		return Card{Kind: CardAssistantMarkdown, Text: msg.Content.String()}

	case RoleTool:
		return selectToolCard(msg)
	}

	return Card{Kind: CardNone}
}

func selectToolCard(msg Message) Card {
	if len(msg.ToolCalls) == 0 {
		return Card{Kind: CardNone}
	}

	call := msg.ToolCalls[0]
	info, ok := knownTools[call.Function.Name]
	if !ok {
		return Card{Kind: CardNone, Function: call.Function.Name}
	}

	card := Card{Function: call.Function.Name, Caption: info.caption}

	if msg.ToolCallResult == nil || msg.ToolCallResult.Status != StatusSuccess {
		card.Kind = CardWaiting
		return card
	}

	switch info.kind {
	case toolEventList:
		card.Kind = CardEventList
		card.Events = ParseEventList(msg.ToolCallResult.Content)
	default:
		card.Kind = CardEventDetail
		card.Event, _ = ParseEventDetails(msg.ToolCallResult.Content, call.Function.Arguments)
	}
	return card
}

// ParseUserPrompt splits the backend's "[TEXT]: ..." / "[AUDIO]: ..." prompt
// format and counts image parts of structured content.
func ParseUserPrompt(c Content) UserPrompt {
	var prompt UserPrompt

	raw := c.Raw
	if parts, ok := c.Value.([]any); ok && c.IsJSON() {
		var texts []string
		for _, p := range parts {
			part, ok := p.(map[string]any)
			if !ok {
				continue
			}
			switch stringField(part, "type") {
			case "text":
				texts = append(texts, stringField(part, "text"))
			case "image_url", "image":
				prompt.Images++
			}
		}
		raw = strings.Join(texts, "\n")
	} else if c.IsJSON() {
		raw = c.String()
	}

	var text []string
	for _, line := range strings.Split(raw, "\n") {
		switch {
		case strings.HasPrefix(line, "[TEXT]:"):
			text = append(text, strings.TrimSpace(strings.TrimPrefix(line, "[TEXT]:")))
		case strings.HasPrefix(line, "[AUDIO]:"):
			prompt.Transcript = strings.TrimSpace(strings.TrimPrefix(line, "[AUDIO]:"))
		default:
			text = append(text, line)
		}
	}
	prompt.Text = strings.TrimSpace(strings.Join(text, "\n"))

	return prompt
}
