package conversation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tripUser = `{"role":"user","content":"[TEXT]: Book my flight to Lisbon on Friday morning\n"}`

const tripAssistant = `{"role":"assistant","content":"","tool_calls":[{"id":"call_1","type":"function","function":{"name":"CreateCalendarEvent","arguments":"{\"event\":{\"summary\":\"Flight to Lisbon\",\"start\":{\"dateTime\":\"2024-05-10T09:00:00Z\",\"timeZone\":\"UTC\"},\"end\":{\"dateTime\":\"2024-05-10T12:00:00Z\",\"timeZone\":\"UTC\"}}}"}}]}`

const tripTool = `{"role":"tool","tool_call_id":"call_1","content":"{\"status\":\"confirmed\",\"htmlLink\":\"https://www.google.com/calendar/event?eid=abc123\",\"summary\":\"Flight to Lisbon\",\"start\":{\"dateTime\":\"2024-05-10T09:00:00Z\",\"timeZone\":\"UTC\"},\"end\":{\"dateTime\":\"2024-05-10T12:00:00Z\",\"timeZone\":\"UTC\"}}"}`

func tripFrame(messages ...string) []byte {
	frame := `{"data":{"c_name":"Trip","c_messages":[`
	for i, m := range messages {
		if i > 0 {
			frame += ","
		}
		frame += m
	}
	return []byte(frame + `]}}`)
}

func TestTripScenarioWithResult(t *testing.T) {
	snap, err := DecodeSnapshot(tripFrame(tripUser, tripAssistant, tripTool))
	require.NoError(t, err)
	assert.Equal(t, "Trip", snap.Name)

	rows := View(snap)
	require.Len(t, rows, 2)

	assert.Equal(t, RoleUser, rows[0].Role)
	userCard := SelectCard(rows[0])
	assert.Equal(t, CardUserText, userCard.Kind)
	assert.Equal(t, "Book my flight to Lisbon on Friday morning", userCard.Prompt.Text)

	require.Equal(t, RoleTool, rows[1].Role)
	require.NotNil(t, rows[1].ToolCallResult)
	assert.Equal(t, StatusSuccess, rows[1].ToolCallResult.Status)
	assert.Equal(t, "call_1", rows[1].ToolCallID)

	card := SelectCard(rows[1])
	assert.Equal(t, CardEventDetail, card.Kind)
	assert.Equal(t, "CreateCalendarEvent", card.Function)
	assert.Equal(t, "Flight to Lisbon", card.Event.Summary)
	assert.Equal(t, "2024-05-10T09:00:00Z", card.Event.Start.DateTime)
	assert.Equal(t, "2024-05-10T12:00:00Z", card.Event.End.DateTime)
	assert.Equal(t, "https://www.google.com/calendar/event?eid=abc123", card.Event.HTMLLink)
	assert.True(t, card.Event.Complete())
}

func TestTripScenarioWithoutResult(t *testing.T) {
	snap, err := DecodeSnapshot(tripFrame(tripUser, tripAssistant))
	require.NoError(t, err)

	rows := View(snap)
	require.Len(t, rows, 2)
	assert.Equal(t, RoleUser, rows[0].Role)

	require.NotNil(t, rows[1].ToolCallResult)
	assert.Equal(t, StatusError, rows[1].ToolCallResult.Status)
	assert.Nil(t, rows[1].ToolCallResult.Content)

	card := SelectCard(rows[1])
	assert.Equal(t, CardWaiting, card.Kind)
	assert.Equal(t, WaitingCaption("CreateCalendarEvent"), card.Caption)
	assert.NotEmpty(t, card.Caption)
}

func TestSelectCard(t *testing.T) {
	success := &ToolCallResult{ToolCallID: "c", Status: StatusSuccess, Content: map[string]any{"summary": "Standup"}}
	failed := &ToolCallResult{ToolCallID: "c", Status: StatusError}

	tests := []struct {
		name string
		msg  Message
		want CardKind
	}{
		{"user", Message{Role: RoleUser, Content: TextContent("hi")}, CardUserText},
		{"assistant", Message{Role: RoleAssistant, Content: TextContent("**bold**")}, CardAssistantMarkdown},
		{"system", Message{Role: RoleSystem, Content: TextContent("rules")}, CardNone},
		{"known with result", Message{Role: RoleTool, ToolCalls: []ToolCall{call("c", "ModifyEvent")}, ToolCallResult: success}, CardEventDetail},
		{"known without result", Message{Role: RoleTool, ToolCalls: []ToolCall{call("c", "ModifyEvent")}, ToolCallResult: failed}, CardWaiting},
		{"list with result", Message{Role: RoleTool, ToolCalls: []ToolCall{call("c", "GetTodayEvents")}, ToolCallResult: success}, CardEventList},
		{"list without result", Message{Role: RoleTool, ToolCalls: []ToolCall{call("c", "GetThisWeekEvents")}, ToolCallResult: failed}, CardWaiting},
		{"unknown function", Message{Role: RoleTool, ToolCalls: []ToolCall{call("c", "SendEmail")}, ToolCallResult: success}, CardNone},
		{"tool row without calls", Message{Role: RoleTool, ToolCallResult: success}, CardNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectCard(tt.msg)
			if got.Kind != tt.want {
				t.Errorf("got %v, want %v", got.Kind, tt.want)
			}
		})
	}
}

func TestWaitingCaptions(t *testing.T) {
	for _, name := range []string{"CreateCalendarEvent", "ModifyEvent", "GetTodayEvents", "GetThisWeekEvents"} {
		if !IsKnownTool(name) {
			t.Errorf("%s should be known", name)
		}
		if WaitingCaption(name) == "" {
			t.Errorf("%s has no caption", name)
		}
	}
	if IsKnownTool("DeleteEverything") || WaitingCaption("DeleteEverything") != "" {
		t.Error("unknown function should have no card")
	}
}

func TestSelectCardEventList(t *testing.T) {
	var content Content
	require.NoError(t, json.Unmarshal([]byte(`"{\"items\":[{\"summary\":\"Standup\",\"start\":{\"dateTime\":\"2024-05-10T09:00:00Z\"}},{\"summary\":\"Lunch\",\"start\":\"2024-05-10T12:00:00Z\"},{\"kind\":\"calendar#event\"}]}"`), &content))

	rows := Project(Normalize([]Message{
		{Role: RoleAssistant, ToolCalls: []ToolCall{call("t", "GetTodayEvents")}},
		{Role: RoleTool, ToolCallID: "t", Content: content},
	}))
	require.Len(t, rows, 1)

	card := SelectCard(rows[0])
	require.Equal(t, CardEventList, card.Kind)
	require.Len(t, card.Events, 2)
	assert.Equal(t, "Standup", card.Events[0].Summary)
	assert.Equal(t, "2024-05-10T12:00:00Z", card.Events[1].Start.DateTime)
}

func TestParseUserPrompt(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		text       string
		transcript string
		images     int
	}{
		{
			name:    "plain",
			content: `"What's on today?"`,
			text:    "What's on today?",
		},
		{
			name:       "text and audio sections",
			content:    `"[TEXT]: move my 3pm\n[AUDIO]: move my three pm to four\n"`,
			text:       "move my 3pm",
			transcript: "move my three pm to four",
		},
		{
			name:       "audio only",
			content:    `"[TEXT]: \n[AUDIO]: dinner with Sam at eight\n"`,
			transcript: "dinner with Sam at eight",
		},
		{
			name:    "structured parts with an image",
			content: `[{"type":"text","text":"[TEXT]: what is this flyer about"},{"type":"image_url","image_url":{"url":"data:image/png;base64,AAAA"}}]`,
			text:    "what is this flyer about",
			images:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Content
			require.NoError(t, json.Unmarshal([]byte(tt.content), &c))

			prompt := ParseUserPrompt(c)
			assert.Equal(t, tt.text, prompt.Text)
			assert.Equal(t, tt.transcript, prompt.Transcript)
			assert.Equal(t, tt.images, prompt.Images)
		})
	}
}
