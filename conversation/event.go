package conversation

import (
	"fmt"
	"time"
)

// EventTime is either a timed instant (DateTime) or an all-day date (Date)
type EventTime struct {
	DateTime string
	Date     string
	TimeZone string
}

// IsZero reports whether neither form is set
func (t EventTime) IsZero() bool {
	return t.DateTime == "" && t.Date == ""
}

// AllDay reports whether this is a date-only value
func (t EventTime) AllDay() bool {
	return t.DateTime == "" && t.Date != ""
}

// Time parses the value, shifted into TimeZone when it names a known zone
func (t EventTime) Time() (time.Time, error) {
	loc := time.Local
	if t.TimeZone != "" {
		if l, err := time.LoadLocation(t.TimeZone); err == nil {
			loc = l
		}
	}

	if t.DateTime != "" {
		parsed, err := time.Parse(time.RFC3339, t.DateTime)
		if err != nil {
			// Naive timestamps are interpreted in the event's own zone
			parsed, err = time.ParseInLocation("2006-01-02T15:04:05", t.DateTime, loc)
			if err != nil {
				return time.Time{}, fmt.Errorf("invalid event dateTime %q: %w", t.DateTime, err)
			}
		}
		return parsed.In(loc), nil
	}

	if t.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", t.Date, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid event date %q: %w", t.Date, err)
		}
		return parsed, nil
	}

	return time.Time{}, fmt.Errorf("event time not set")
}

// Format renders the time with a weekday/date prefix when full is true,
// and just the clock (plus zone) otherwise. Unparseable values are returned as-is.
func (t EventTime) Format(full bool) string {
	parsed, err := t.Time()
	if err != nil {
		if t.DateTime != "" {
			return t.DateTime
		}
		return t.Date
	}
	if t.AllDay() {
		return parsed.Format("Mon, Jan 2")
	}
	if full {
		return parsed.Format("Mon, Jan 2, 03:04 PM MST")
	}
	return parsed.Format("03:04 PM MST")
}

// Attendee of a calendar event
type Attendee struct {
	Email          string
	DisplayName    string
	ResponseStatus string
}

// Label prefers the display name
func (a Attendee) Label() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.Email
}

// EventDetails is the single normalized view of a calendar event, whatever
// shape the backend used to send it.
type EventDetails struct {
	ID          string
	Summary     string
	Description string
	Location    string
	Status      string
	HTMLLink    string
	CalendarID  string
	Start       EventTime
	End         EventTime
	Attendees   []Attendee
}

// Complete reports whether the card has enough to show (a title and a start)
func (e EventDetails) Complete() bool {
	return e.Summary != "" && !e.Start.IsZero()
}

// ParseEventDetails builds event details from a tool result, filling gaps
// from the tool call's own arguments.
func ParseEventDetails(result any, args Arguments) (EventDetails, bool) {
	var details EventDetails

	if obj, ok := result.(map[string]any); ok {
		details = parseEvent(unwrapEvent(obj))
	}

	if argObj, ok := args.Object(); ok {
		fallback := parseEvent(unwrapEvent(argObj))
		if details.CalendarID == "" {
			details.CalendarID = stringField(argObj, "calendarId")
		}
		details = mergeEvent(details, fallback)
	}

	return details, details.Summary != "" || !details.Start.IsZero()
}

// ParseEventList extracts events from a query result: a bare list, or an
// object wrapping one under "items" or "events".
func ParseEventList(result any) []EventDetails {
	var items []any
	switch v := result.(type) {
	case []any:
		items = v
	case map[string]any:
		if list, ok := v["items"].([]any); ok {
			items = list
		} else if list, ok := v["events"].([]any); ok {
			items = list
		}
	}

	var events []EventDetails
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		ev := parseEvent(unwrapEvent(obj))
		if ev.Summary == "" && ev.Start.IsZero() {
			continue
		}
		events = append(events, ev)
	}
	return events
}

// unwrapEvent strips the wrappers the backend has used over time
func unwrapEvent(obj map[string]any) map[string]any {
	for _, key := range []string{"event_details", "event", "modifiedEvent"} {
		if inner, ok := obj[key].(map[string]any); ok {
			return inner
		}
	}
	return obj
}

func parseEvent(obj map[string]any) EventDetails {
	start, end := resolveTimes(obj)
	return EventDetails{
		ID:          stringField(obj, "id"),
		Summary:     stringField(obj, "summary"),
		Description: stringField(obj, "description"),
		Location:    stringField(obj, "location"),
		Status:      stringField(obj, "status"),
		HTMLLink:    stringField(obj, "htmlLink"),
		Start:       start,
		End:         end,
		Attendees:   parseAttendees(obj["attendees"]),
	}
}

// resolveTimes prefers the nested time_data form and falls back to the flat one
func resolveTimes(obj map[string]any) (EventTime, EventTime) {
	if td, ok := obj["time_data"].(map[string]any); ok {
		start := parseEventTime(td["start"])
		end := parseEventTime(td["end"])
		if !start.IsZero() || !end.IsZero() {
			return start, end
		}
	}

	start := parseEventTime(obj["start"])
	if start.IsZero() {
		start = parseEventTime(obj["start_time"])
	}
	end := parseEventTime(obj["end"])
	if end.IsZero() {
		end = parseEventTime(obj["end_time"])
	}
	return start, end
}

func parseEventTime(v any) EventTime {
	switch t := v.(type) {
	case map[string]any:
		return EventTime{
			DateTime: stringField(t, "dateTime"),
			Date:     stringField(t, "date"),
			TimeZone: stringField(t, "timeZone"),
		}
	case string:
		if len(t) == len("2006-01-02") {
			return EventTime{Date: t}
		}
		return EventTime{DateTime: t}
	}
	return EventTime{}
}

func parseAttendees(v any) []Attendee {
	list, ok := v.([]any)
	if !ok {
		return nil
	}

	var attendees []Attendee
	for _, item := range list {
		switch a := item.(type) {
		case map[string]any:
			attendees = append(attendees, Attendee{
				Email:          stringField(a, "email"),
				DisplayName:    stringField(a, "displayName"),
				ResponseStatus: stringField(a, "responseStatus"),
			})
		case string:
			attendees = append(attendees, Attendee{Email: a})
		}
	}
	return attendees
}

func mergeEvent(primary, fallback EventDetails) EventDetails {
	pick := func(a, b string) string {
		if a != "" {
			return a
		}
		return b
	}
	primary.ID = pick(primary.ID, fallback.ID)
	primary.Summary = pick(primary.Summary, fallback.Summary)
	primary.Description = pick(primary.Description, fallback.Description)
	primary.Location = pick(primary.Location, fallback.Location)
	primary.Status = pick(primary.Status, fallback.Status)
	primary.HTMLLink = pick(primary.HTMLLink, fallback.HTMLLink)
	if primary.Start.IsZero() {
		primary.Start = fallback.Start
	}
	if primary.End.IsZero() {
		primary.End = fallback.End
	}
	if len(primary.Attendees) == 0 {
		primary.Attendees = fallback.Attendees
	}
	return primary
}

func stringField(obj map[string]any, key string) string {
	if obj == nil {
		return ""
	}
	if s, ok := obj[key].(string); ok {
		return s
	}
	return ""
}
