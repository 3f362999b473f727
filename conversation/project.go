package conversation

// Results maps a tool_call_id to the content of the tool message answering it.
// An id with no entry is unmatched: its projected row gets StatusError and
// renders as a waiting card.
type Results map[string]Content

// Correlate scans the tool messages once and indexes their content by tool_call_id.
// When several tool messages share an id the first one wins. Empty ids are never indexed.
func Correlate(messages []Message) Results {
	results := make(Results)
	for _, msg := range messages {
		if msg.Role != RoleTool || msg.ToolCallID == "" {
			continue
		}
		if _, exists := results[msg.ToolCallID]; exists {
			continue
		}
		results[msg.ToolCallID] = msg.Content
	}
	return results
}

// Lookup returns the result content for a tool call id
func (r Results) Lookup(id string) (Content, bool) {
	if id == "" {
		return Content{}, false
	}
	c, ok := r[id]
	return c, ok
}

// Project derives the display sequence from normalized messages.
//
// Each assistant message carrying tool calls is replaced, in place, by one
// synthesized tool row per call. Raw tool messages only feed the lookup and are
// never emitted. Everything else passes through unchanged.
func Project(messages []Message) []Message {
	results := Correlate(messages)
	rows := make([]Message, 0, len(messages))

	for _, msg := range messages {
		switch {
		case msg.Role == RoleTool:
			continue

		case msg.Role == RoleAssistant && len(msg.ToolCalls) > 0:
			for _, call := range msg.ToolCalls {
				rows = append(rows, toolRow(call, results))
			}

		default:
			rows = append(rows, msg)
		}
	}

	return rows
}

func toolRow(call ToolCall, results Results) Message {
	result := &ToolCallResult{
		ToolCallID: call.ID,
		Status:     StatusError,
	}
	if content, ok := results.Lookup(call.ID); ok {
		result.Content = content.Resolved()
		result.Status = StatusSuccess
	}

	return Message{
		Role:           RoleTool,
		ToolCallID:     call.ID,
		ToolCalls:      []ToolCall{call},
		ToolCallResult: result,
	}
}

// View normalizes and projects a snapshot in one step
func View(snapshot Snapshot) []Message {
	return Project(Normalize(snapshot.Messages))
}
