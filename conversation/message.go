package conversation

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Role identifies the author of a conversation message
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ContentKind tags which variant of Content is populated
type ContentKind int

const (
	KindText ContentKind = iota
	KindJSON
)

// Content is either raw text or a decoded JSON value.
// Raw always keeps the text as it arrived so nothing is lost when decoding.
type Content struct {
	Kind  ContentKind
	Raw   string
	Value any
}

// TextContent builds a plain-text Content
func TextContent(s string) Content {
	return Content{Kind: KindText, Raw: s}
}

// IsJSON reports whether the content was decoded into a structured value
func (c Content) IsJSON() bool {
	return c.Kind == KindJSON
}

// Object returns the decoded value as a JSON object, if it is one
func (c Content) Object() (map[string]any, bool) {
	if c.Kind != KindJSON {
		return nil, false
	}
	obj, ok := c.Value.(map[string]any)
	return obj, ok
}

// Resolved returns the decoded value for JSON content and the raw string otherwise
func (c Content) Resolved() any {
	if c.Kind == KindJSON {
		return c.Value
	}
	return c.Raw
}

// String returns the display text. Structured content is re-encoded.
func (c Content) String() string {
	if c.Kind == KindText {
		return c.Raw
	}
	if s, ok := c.Value.(string); ok {
		return s
	}
	if c.Raw != "" {
		return c.Raw
	}
	data, err := json.Marshal(c.Value)
	if err != nil {
		return ""
	}
	return string(data)
}

func (c *Content) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*c = Content{Kind: KindText}
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("failed to decode message content: %w", err)
		}
		*c = TextContent(s)
		return nil
	}

	// Multi-part content (text + image parts) arrives already structured
	value, err := decodeJSON(string(trimmed))
	if err != nil {
		return fmt.Errorf("failed to decode message content: %w", err)
	}
	*c = Content{Kind: KindJSON, Raw: string(trimmed), Value: value}
	return nil
}

func (c Content) MarshalJSON() ([]byte, error) {
	if c.Kind == KindJSON {
		return json.Marshal(c.Value)
	}
	return json.Marshal(c.Raw)
}

// Arguments holds a tool call's arguments, transmitted either as a JSON
// string or as an already structured object.
type Arguments struct {
	Raw     string
	Value   map[string]any
	Decoded bool
}

// Object returns the decoded arguments object
func (a Arguments) Object() (map[string]any, bool) {
	if !a.Decoded {
		return nil, false
	}
	return a.Value, a.Value != nil
}

func (a *Arguments) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*a = Arguments{}
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("failed to decode tool arguments: %w", err)
		}
		*a = Arguments{Raw: s}
		return nil
	}

	value, err := decodeJSON(string(trimmed))
	if err != nil {
		return fmt.Errorf("failed to decode tool arguments: %w", err)
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return fmt.Errorf("tool arguments must be an object, got %T", value)
	}
	*a = Arguments{Raw: string(trimmed), Value: obj, Decoded: true}
	return nil
}

func (a Arguments) MarshalJSON() ([]byte, error) {
	if a.Decoded {
		return json.Marshal(a.Value)
	}
	return json.Marshal(a.Raw)
}

// ToolFunction names the invoked function and its arguments
type ToolFunction struct {
	Name      string    `json:"name"`
	Arguments Arguments `json:"arguments"`
}

// ToolCall is a function invocation emitted by the assistant.
// ID correlates it with the tool message carrying its result.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

// Status of a synthesized tool result
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ToolCallResult is synthesized during projection; the backend never sends it in this shape
type ToolCallResult struct {
	ToolCallID string `json:"tool_call_id"`
	Content    any    `json:"content"`
	Status     Status `json:"status"`
}

// Message is one entry of a conversation snapshot
type Message struct {
	Role           Role            `json:"role"`
	Content        Content         `json:"content"`
	ToolCalls      []ToolCall      `json:"tool_calls,omitempty"`
	ToolCallID     string          `json:"tool_call_id,omitempty"`
	ToolCallResult *ToolCallResult `json:"tool_call_result,omitempty"`
}

// Snapshot is a full replacement of a conversation's name and messages
type Snapshot struct {
	Name     string    `json:"c_name"`
	Messages []Message `json:"c_messages"`
}

type snapshotEnvelope struct {
	Data *Snapshot `json:"data"`
}

// DecodeSnapshot parses a socket frame of the form {"data": {"c_name", "c_messages"}}
func DecodeSnapshot(frame []byte) (Snapshot, error) {
	var env snapshotEnvelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if env.Data == nil {
		return Snapshot{}, fmt.Errorf("snapshot frame has no data field")
	}
	return *env.Data, nil
}

// decodeJSON decodes with UseNumber so numeric values survive a re-encode unchanged
func decodeJSON(s string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	// Reject trailing garbage such as `{"a":1} extra`
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return v, nil
}
