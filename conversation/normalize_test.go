package conversation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeContent(t *testing.T) {
	tests := []struct {
		name     string
		input    Message
		wantKind ContentKind
	}{
		{
			name:     "plain text stays text",
			input:    Message{Role: RoleAssistant, Content: TextContent("Here is your schedule")},
			wantKind: KindText,
		},
		{
			name:     "json object is decoded",
			input:    Message{Role: RoleTool, ToolCallID: "call_1", Content: TextContent(`{"status":"confirmed"}`)},
			wantKind: KindJSON,
		},
		{
			name:     "json array is decoded",
			input:    Message{Role: RoleTool, ToolCallID: "call_1", Content: TextContent(`[{"summary":"Gym"}]`)},
			wantKind: KindJSON,
		},
		{
			name:     "truncated json stays text",
			input:    Message{Role: RoleAssistant, Content: TextContent(`{"status":`)},
			wantKind: KindText,
		},
		{
			name:     "trailing data stays text",
			input:    Message{Role: RoleAssistant, Content: TextContent(`{"a":1} and more`)},
			wantKind: KindText,
		},
		{
			name:     "empty content stays text",
			input:    Message{Role: RoleAssistant, Content: TextContent("")},
			wantKind: KindText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Normalize([]Message{tt.input})
			require.Len(t, out, 1)
			assert.Equal(t, tt.wantKind, out[0].Content.Kind)
			assert.Equal(t, tt.input.Content.Raw, out[0].Content.Raw)
		})
	}
}

func TestNormalizeRoundTrip(t *testing.T) {
	original := `{"summary":"Dentist","start":{"dateTime":"2024-05-10T09:00:00Z"},"attendees":[{"email":"a@example.com"}],"reminders":{"useDefault":true},"sequence":3}`

	out := Normalize([]Message{{Role: RoleTool, ToolCallID: "call_9", Content: TextContent(original)}})
	require.Len(t, out, 1)
	require.True(t, out[0].Content.IsJSON())

	encoded, err := json.Marshal(out[0].Content)
	require.NoError(t, err)
	assert.JSONEq(t, original, string(encoded))
}

func TestNormalizeMalformedPassesThrough(t *testing.T) {
	inputs := []string{
		"I couldn't find any events for today.",
		"{not json",
		"[TEXT]: hello\n",
		`{"summary": "Lunch",}`,
	}

	for _, raw := range inputs {
		msg := Message{Role: RoleAssistant, Content: TextContent(raw)}
		out := Normalize([]Message{msg})
		if len(out) != 1 {
			t.Fatalf("length mismatch: got %d, want 1", len(out))
		}
		if out[0].Content.Kind != KindText {
			t.Errorf("content %q: got kind %v, want text", raw, out[0].Content.Kind)
		}
		if out[0].Content.Raw != raw {
			t.Errorf("content changed: got %q, want %q", out[0].Content.Raw, raw)
		}
	}
}

func TestNormalizeToolArguments(t *testing.T) {
	msgs := []Message{
		{
			Role: RoleAssistant,
			ToolCalls: []ToolCall{
				{ID: "call_1", Type: "function", Function: ToolFunction{Name: "CreateCalendarEvent", Arguments: Arguments{Raw: `{"event":{"summary":"Gym"}}`}}},
				{ID: "call_2", Type: "function", Function: ToolFunction{Name: "GetTodayEvents", Arguments: Arguments{Raw: `not json`}}},
				{ID: "call_3", Type: "function", Function: ToolFunction{Name: "ModifyEvent", Arguments: Arguments{Value: map[string]any{"eventId": "x"}, Decoded: true}}},
			},
		},
	}

	out := Normalize(msgs)
	require.Len(t, out, 1)
	calls := out[0].ToolCalls

	obj, ok := calls[0].Function.Arguments.Object()
	require.True(t, ok)
	event, ok := obj["event"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Gym", event["summary"])

	_, ok = calls[1].Function.Arguments.Object()
	assert.False(t, ok)
	assert.Equal(t, "not json", calls[1].Function.Arguments.Raw)

	obj, ok = calls[2].Function.Arguments.Object()
	require.True(t, ok)
	assert.Equal(t, "x", obj["eventId"])

	// input untouched
	assert.False(t, msgs[0].ToolCalls[0].Function.Arguments.Decoded)
}

func TestNormalizePreservesOrder(t *testing.T) {
	msgs := []Message{
		{Role: RoleSystem, Content: TextContent("you are a scheduler")},
		{Role: RoleUser, Content: TextContent("hi")},
		{Role: RoleAssistant, Content: TextContent("hello")},
		{Role: RoleTool, ToolCallID: "c", Content: TextContent(`{"ok":true}`)},
	}

	out := Normalize(msgs)
	require.Len(t, out, len(msgs))
	for i := range msgs {
		assert.Equal(t, msgs[i].Role, out[i].Role)
	}
}

func TestNormalizeRepairsPythonLiterals(t *testing.T) {
	raw := `{'status': 'confirmed', 'self': True, 'location': None, 'guestsCanModify': False,}`

	out := Normalize([]Message{{Role: RoleTool, ToolCallID: "call_1", Content: TextContent(raw)}})
	require.Len(t, out, 1)

	obj, ok := out[0].Content.Object()
	require.True(t, ok)
	assert.Equal(t, "confirmed", obj["status"])
	assert.Equal(t, true, obj["self"])
	assert.Equal(t, false, obj["guestsCanModify"])
	assert.Nil(t, obj["location"])
	assert.Equal(t, raw, out[0].Content.Raw)

	// only tool results get the repair
	out = Normalize([]Message{{Role: RoleAssistant, Content: TextContent(raw)}})
	assert.Equal(t, KindText, out[0].Content.Kind)
}

func TestDecodeSnapshot(t *testing.T) {
	frame := []byte(`{"data":{"c_name":"Week plan","c_messages":[{"role":"user","content":"plan my week"},{"role":"assistant","content":null}]}}`)

	snap, err := DecodeSnapshot(frame)
	require.NoError(t, err)
	assert.Equal(t, "Week plan", snap.Name)
	require.Len(t, snap.Messages, 2)
	assert.Equal(t, "plan my week", snap.Messages[0].Content.String())
	assert.Equal(t, "", snap.Messages[1].Content.String())

	_, err = DecodeSnapshot([]byte(`{"type":"ping"}`))
	assert.Error(t, err)

	_, err = DecodeSnapshot([]byte(`not a frame`))
	assert.Error(t, err)
}
