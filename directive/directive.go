// Package directive implements the single tolerant parser for semi-structured
// directives embedded in free-text model output: <think> blocks, <reroute>
// hand-off requests and <tool_call> invocations, each carrying a JSON payload,
// plus first-balanced-JSON extraction for classifier output. Parsing never
// fails: malformed payloads are reported as flags and the surrounding text is
// treated as plain response text.
package directive

import (
	"encoding/json"
	"strings"

	"github.com/commercemesh/commercemesh/core"
)

// ToolCall is a parsed tool invocation directive.
type ToolCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// Result is the outcome of parsing one raw model output. Text is the output
// with the thinking block (always) and a well-formed reroute tag removed; a
// malformed tag stays in place and is treated as plain text.
type Result struct {
	Thinking    string
	Reroute     *core.RerouteDirective
	ToolCall    *ToolCall
	Text        string
	BadReroute  bool // reroute tag present but payload unparseable
	BadToolCall bool // tool_call tag present but payload unparseable or unnamed
}

// Parse extracts at most one thinking block, one reroute directive and one
// tool call from raw output. Precedence mirrors the loop contract: thinking
// is stripped first, a valid reroute wins over any tool call, and a valid
// tool call leaves its tag in Text so the raw assistant turn can be replayed
// to the backend.
func Parse(raw string) Result {
	var res Result

	text := raw
	if inner, stripped, ok := cutTag(text, "think"); ok {
		res.Thinking = strings.TrimSpace(inner)
		text = stripped
	}

	if inner, stripped, ok := cutTag(text, "reroute"); ok {
		var rd core.RerouteDirective
		if err := json.Unmarshal([]byte(inner), &rd); err == nil && rd.Agent != "" {
			res.Reroute = &rd
			res.Text = strings.TrimSpace(stripped)
			return res
		}
		res.BadReroute = true
	}

	if inner, _, ok := cutTag(text, "tool_call"); ok {
		var tc ToolCall
		if err := json.Unmarshal([]byte(inner), &tc); err == nil && tc.Name != "" {
			if tc.Args == nil {
				tc.Args = map[string]any{}
			}
			res.ToolCall = &tc
		} else {
			res.BadToolCall = true
		}
	}

	res.Text = strings.TrimSpace(text)
	return res
}

// cutTag returns the inner payload of the first <name>...</name> block and
// the input with that block removed. Matching spans newlines.
func cutTag(s, name string) (inner, stripped string, ok bool) {
	openTag := "<" + name + ">"
	closeTag := "</" + name + ">"
	i := strings.Index(s, openTag)
	if i < 0 {
		return "", s, false
	}
	j := strings.Index(s[i+len(openTag):], closeTag)
	if j < 0 {
		return "", s, false
	}
	inner = s[i+len(openTag) : i+len(openTag)+j]
	stripped = s[:i] + s[i+len(openTag)+j+len(closeTag):]
	return inner, stripped, true
}

// FirstJSONObject scans text for the first balanced top-level JSON object,
// honoring string literals and escapes, and unmarshals it into a generic map.
// It returns false when no balanced object exists or the candidate is not
// valid JSON.
func FirstJSONObject(text string) (map[string]any, bool) {
	start := strings.IndexByte(text, '{')
	for start >= 0 {
		if raw, ok := balancedFrom(text, start); ok {
			var m map[string]any
			if err := json.Unmarshal([]byte(raw), &m); err == nil {
				return m, true
			}
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			return nil, false
		}
		start = start + 1 + next
	}
	return nil, false
}

// balancedFrom returns the substring spanning the balanced brace group that
// opens at text[start].
func balancedFrom(text string, start int) (string, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
