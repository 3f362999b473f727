package conversation

import (
	"regexp"
	"strings"

	"startime/config"
)

var (
	pyTrueRegex      = regexp.MustCompile(`\bTrue\b`)
	pyFalseRegex     = regexp.MustCompile(`\bFalse\b`)
	pyNoneRegex      = regexp.MustCompile(`\bNone\b`)
	trailingCommaRgx = regexp.MustCompile(`,(\s*[}\]])`)
)

// Normalize decodes stringified JSON fields of a snapshot's messages.
// It returns a new slice with the same length and order; the input is not modified.
// Fields that fail to decode keep their raw value.
func Normalize(messages []Message) []Message {
	out := make([]Message, len(messages))
	for i, msg := range messages {
		out[i] = normalizeMessage(msg)
	}
	return out
}

func normalizeMessage(msg Message) Message {
	if msg.Role == RoleAssistant && len(msg.ToolCalls) > 0 {
		calls := make([]ToolCall, len(msg.ToolCalls))
		for i, call := range msg.ToolCalls {
			calls[i] = call
			calls[i].Function.Arguments = normalizeArguments(call.Function.Arguments)
		}
		msg.ToolCalls = calls
	}

	if msg.Content.Kind == KindText {
		msg.Content = normalizeContent(msg.Content, msg.Role == RoleTool)
	}

	return msg
}

func normalizeArguments(args Arguments) Arguments {
	if args.Decoded || strings.TrimSpace(args.Raw) == "" {
		return args
	}

	value, err := decodeJSON(args.Raw)
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Normalize] keeping raw tool arguments: %v", err)
		}
		return args
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return args
	}
	return Arguments{Raw: args.Raw, Value: obj, Decoded: true}
}

// normalizeContent promotes JSON text to a structured value.
// Tool results may arrive as Python literals, which get one repair attempt.
func normalizeContent(c Content, repairLiterals bool) Content {
	if strings.TrimSpace(c.Raw) == "" {
		return c
	}

	if value, err := decodeJSON(c.Raw); err == nil {
		return Content{Kind: KindJSON, Raw: c.Raw, Value: value}
	}

	if !repairLiterals {
		return c
	}

	value, err := decodeJSON(RepairPythonLiteral(c.Raw))
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Normalize] keeping raw tool content: %v", err)
		}
		return c
	}
	return Content{Kind: KindJSON, Raw: c.Raw, Value: value}
}

// RepairPythonLiteral rewrites a Python dict repr into something JSON-shaped:
// single quotes, True/False/None and trailing commas.
func RepairPythonLiteral(s string) string {
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `'`, `"`)
	s = pyTrueRegex.ReplaceAllString(s, "true")
	s = pyFalseRegex.ReplaceAllString(s, "false")
	s = pyNoneRegex.ReplaceAllString(s, "null")
	s = trailingCommaRgx.ReplaceAllString(s, "$1")
	return s
}
