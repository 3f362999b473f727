package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventDetailsShapes(t *testing.T) {
	tests := []struct {
		name      string
		result    any
		args      Arguments
		wantStart string
		wantEnd   string
		wantDate  string
	}{
		{
			name: "nested time_data preferred over flat",
			result: map[string]any{
				"summary": "Review",
				"time_data": map[string]any{
					"start": map[string]any{"dateTime": "2024-05-10T14:00:00Z"},
					"end":   map[string]any{"dateTime": "2024-05-10T15:00:00Z"},
				},
				"start": map[string]any{"dateTime": "1999-01-01T00:00:00Z"},
			},
			wantStart: "2024-05-10T14:00:00Z",
			wantEnd:   "2024-05-10T15:00:00Z",
		},
		{
			name: "flat start and end",
			result: map[string]any{
				"summary": "Review",
				"start":   map[string]any{"dateTime": "2024-05-10T14:00:00Z"},
				"end":     map[string]any{"dateTime": "2024-05-10T15:00:00Z"},
			},
			wantStart: "2024-05-10T14:00:00Z",
			wantEnd:   "2024-05-10T15:00:00Z",
		},
		{
			name: "empty time_data falls back",
			result: map[string]any{
				"summary":   "Review",
				"time_data": map[string]any{},
				"start":     map[string]any{"dateTime": "2024-05-10T14:00:00Z"},
			},
			wantStart: "2024-05-10T14:00:00Z",
		},
		{
			name: "event_details wrapper",
			result: map[string]any{
				"event_details": map[string]any{
					"summary": "Review",
					"start":   map[string]any{"date": "2024-05-10"},
				},
			},
			wantDate: "2024-05-10",
		},
		{
			name:   "result missing, arguments fill in",
			result: "Event created",
			args: Arguments{Decoded: true, Value: map[string]any{
				"event": map[string]any{
					"summary":    "Review",
					"start_time": "2024-05-10T14:00:00Z",
					"end_time":   "2024-05-10T15:00:00Z",
				},
			}},
			wantStart: "2024-05-10T14:00:00Z",
			wantEnd:   "2024-05-10T15:00:00Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details, ok := ParseEventDetails(tt.result, tt.args)
			require.True(t, ok)
			assert.Equal(t, "Review", details.Summary)
			assert.Equal(t, tt.wantStart, details.Start.DateTime)
			assert.Equal(t, tt.wantEnd, details.End.DateTime)
			assert.Equal(t, tt.wantDate, details.Start.Date)
		})
	}
}

func TestParseEventDetailsEmpty(t *testing.T) {
	_, ok := ParseEventDetails(nil, Arguments{})
	assert.False(t, ok)

	_, ok = ParseEventDetails(map[string]any{"status": "confirmed"}, Arguments{Raw: "garbage"})
	assert.False(t, ok)
}

func TestParseEventDetailsAttendeesAndCalendar(t *testing.T) {
	result := map[string]any{
		"summary": "Sync",
		"start":   map[string]any{"dateTime": "2024-05-10T14:00:00Z"},
		"attendees": []any{
			map[string]any{"email": "ana@example.com", "displayName": "Ana", "responseStatus": "accepted"},
			"bo@example.com",
		},
	}
	args := Arguments{Decoded: true, Value: map[string]any{"calendarId": "primary"}}

	details, ok := ParseEventDetails(result, args)
	require.True(t, ok)
	assert.Equal(t, "primary", details.CalendarID)
	require.Len(t, details.Attendees, 2)
	assert.Equal(t, "Ana", details.Attendees[0].Label())
	assert.Equal(t, "bo@example.com", details.Attendees[1].Label())
}

func TestEventTimeFormat(t *testing.T) {
	tests := []struct {
		name string
		in   EventTime
		full bool
		want string
	}{
		{"clock only", EventTime{DateTime: "2024-05-10T09:00:00Z", TimeZone: "UTC"}, false, "09:00 AM UTC"},
		{"full", EventTime{DateTime: "2024-05-10T21:30:00Z", TimeZone: "UTC"}, true, "Fri, May 10, 09:30 PM UTC"},
		{"all day", EventTime{Date: "2024-05-10"}, true, "Fri, May 10"},
		{"naive in zone", EventTime{DateTime: "2024-05-10T09:00:00", TimeZone: "UTC"}, false, "09:00 AM UTC"},
		{"unparseable kept", EventTime{DateTime: "tomorrow-ish"}, false, "tomorrow-ish"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Format(tt.full); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
