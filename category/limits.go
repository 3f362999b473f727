package category

import (
	"unicode/utf8"
)

// Field is an editable category field with an input cap
type Field int

const (
	FieldTitle Field = iota
	FieldDescription
	FieldPrefix
)

func (f Field) String() string {
	switch f {
	case FieldTitle:
		return "Title"
	case FieldDescription:
		return "Description"
	case FieldPrefix:
		return "Event prefix"
	default:
		return "Unknown"
	}
}

// Limits are the maximum lengths in characters (runes)
var Limits = map[Field]int{
	FieldTitle:       50,
	FieldDescription: 200,
	FieldPrefix:      10,
}

// Limit returns the cap for a field, 0 for unknown fields
func Limit(f Field) int {
	return Limits[f]
}

// Clamp cuts value to the field's cap, counting runes so multi-byte text is never split
func Clamp(f Field, value string) string {
	limit, ok := Limits[f]
	if !ok || utf8.RuneCountInString(value) <= limit {
		return value
	}

	runes := []rune(value)
	return string(runes[:limit])
}

// Accept reports whether appending input to current stays within the cap.
// Input handlers use it to reject keystrokes rather than truncate afterwards.
func Accept(f Field, current, input string) bool {
	limit, ok := Limits[f]
	if !ok {
		return true
	}
	return utf8.RuneCountInString(current)+utf8.RuneCountInString(input) <= limit
}
