package conversation

import (
	"testing"
)

func call(id, name string) ToolCall {
	return ToolCall{ID: id, Type: "function", Function: ToolFunction{Name: name, Arguments: Arguments{Raw: "{}"}}}
}

func TestProjectCounts(t *testing.T) {
	tests := []struct {
		name      string
		input     []Message
		toolRows  int
		otherRows int
	}{
		{
			name:  "empty",
			input: []Message{},
		},
		{
			name: "text only",
			input: []Message{
				{Role: RoleUser, Content: TextContent("hi")},
				{Role: RoleAssistant, Content: TextContent("hello")},
			},
			otherRows: 2,
		},
		{
			name: "one call with result",
			input: []Message{
				{Role: RoleUser, Content: TextContent("add gym")},
				{Role: RoleAssistant, ToolCalls: []ToolCall{call("c1", "CreateCalendarEvent")}},
				{Role: RoleTool, ToolCallID: "c1", Content: TextContent(`{"summary":"Gym"}`)},
				{Role: RoleAssistant, Content: TextContent("Done!")},
			},
			toolRows:  1,
			otherRows: 2,
		},
		{
			name: "two assistant turns, three calls, one orphan tool row",
			input: []Message{
				{Role: RoleSystem, Content: TextContent("context")},
				{Role: RoleUser, Content: TextContent("today and this week")},
				{Role: RoleAssistant, ToolCalls: []ToolCall{call("a", "GetTodayEvents"), call("b", "GetThisWeekEvents")}},
				{Role: RoleTool, ToolCallID: "a", Content: TextContent(`[]`)},
				{Role: RoleTool, ToolCallID: "b", Content: TextContent(`[]`)},
				{Role: RoleAssistant, ToolCalls: []ToolCall{call("c", "ModifyEvent")}},
				{Role: RoleTool, ToolCallID: "zzz", Content: TextContent(`{}`)},
			},
			toolRows:  3,
			otherRows: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := Project(Normalize(tt.input))

			var tools, others int
			for _, row := range rows {
				if row.Role == RoleTool {
					tools++
					if row.ToolCallResult == nil {
						t.Errorf("tool row %q has no result", row.ToolCallID)
					}
					if len(row.ToolCalls) != 1 {
						t.Errorf("tool row %q carries %d calls, want 1", row.ToolCallID, len(row.ToolCalls))
					}
				} else {
					others++
				}
			}
			if tools != tt.toolRows {
				t.Errorf("tool rows: got %d, want %d", tools, tt.toolRows)
			}
			if others != tt.otherRows {
				t.Errorf("other rows: got %d, want %d", others, tt.otherRows)
			}
		})
	}
}

func TestProjectStatusMatchesPresence(t *testing.T) {
	input := []Message{
		{Role: RoleAssistant, ToolCalls: []ToolCall{call("a", "GetTodayEvents"), call("b", "CreateCalendarEvent"), call("", "ModifyEvent")}},
		{Role: RoleTool, ToolCallID: "a", Content: TextContent(`{"items":[]}`)},
		{Role: RoleTool, ToolCallID: "", Content: TextContent(`{"summary":"ghost"}`)},
	}

	rows := Project(Normalize(input))
	if len(rows) != 3 {
		t.Fatalf("length mismatch: got %d, want 3", len(rows))
	}

	want := map[string]Status{"a": StatusSuccess, "b": StatusError, "": StatusError}
	for _, row := range rows {
		got := row.ToolCallResult.Status
		if got != want[row.ToolCallID] {
			t.Errorf("call %q: got status %q, want %q", row.ToolCallID, got, want[row.ToolCallID])
		}
		if got == StatusError && row.ToolCallResult.Content != nil {
			t.Errorf("call %q: unmatched row should have nil content, got %v", row.ToolCallID, row.ToolCallResult.Content)
		}
	}
}

func TestProjectOrder(t *testing.T) {
	input := []Message{
		{Role: RoleUser, Content: TextContent("one")},
		{Role: RoleAssistant, ToolCalls: []ToolCall{call("x", "GetTodayEvents"), call("y", "GetThisWeekEvents")}},
		{Role: RoleUser, Content: TextContent("two")},
		{Role: RoleTool, ToolCallID: "x", Content: TextContent(`[]`)},
		{Role: RoleTool, ToolCallID: "y", Content: TextContent(`[]`)},
		{Role: RoleAssistant, Content: TextContent("three")},
	}

	rows := Project(Normalize(input))

	want := []string{"user:one", "tool:x", "tool:y", "user:two", "assistant:three"}
	if len(rows) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(rows), len(want))
	}
	for i, row := range rows {
		got := string(row.Role) + ":" + row.Content.String()
		if row.Role == RoleTool {
			got = string(row.Role) + ":" + row.ToolCallID
		}
		if got != want[i] {
			t.Errorf("row %d: got %q, want %q", i, got, want[i])
		}
	}
}

func TestCorrelateFirstResultWins(t *testing.T) {
	results := Correlate([]Message{
		{Role: RoleTool, ToolCallID: "dup", Content: TextContent("first")},
		{Role: RoleTool, ToolCallID: "dup", Content: TextContent("second")},
		{Role: RoleUser, ToolCallID: "dup", Content: TextContent("not a tool")},
	})

	c, ok := results.Lookup("dup")
	if !ok {
		t.Fatal("expected dup to be matched")
	}
	if c.Raw != "first" {
		t.Errorf("got %q, want %q", c.Raw, "first")
	}
	if _, ok := results.Lookup(""); ok {
		t.Error("empty id should never match")
	}
}

func TestProjectIsRecomputable(t *testing.T) {
	input := []Message{
		{Role: RoleAssistant, ToolCalls: []ToolCall{call("a", "GetTodayEvents")}},
	}
	first := Project(Normalize(input))

	input = append(input, Message{Role: RoleTool, ToolCallID: "a", Content: TextContent(`[]`)})
	second := Project(Normalize(input))

	if first[0].ToolCallResult.Status != StatusError {
		t.Errorf("before result: got %q, want error", first[0].ToolCallResult.Status)
	}
	if second[0].ToolCallResult.Status != StatusSuccess {
		t.Errorf("after result: got %q, want success", second[0].ToolCallResult.Status)
	}
}
