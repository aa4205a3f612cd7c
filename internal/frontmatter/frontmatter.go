// Package frontmatter extracts the structured metadata block from the head
// of a document. The block grammar is a deliberate subset shared with the
// bridge; both sides must split and decode it identically.
package frontmatter

import (
	"encoding/json"
	"strings"
)

// fence is the delimiter line for the YAML-style block form.
const fence = "---"

// Split detects a leading metadata block and returns the decoded mapping
// together with the remaining body. Two block styles are recognised, tried
// in order:
//
//  1. a line that is exactly "---", the block lines, a closing "---" line;
//  2. a line that is exactly "{", the block lines, a closing "}" line,
//     decoded as a JSON object.
//
// Anything else, including a JSON block that fails to decode, degrades to
// an empty mapping with the full input returned as body. Split never fails.
func Split(text string) (map[string]any, string) {
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return map[string]any{}, text
	}

	switch strings.TrimRight(lines[0], "\r") {
	case fence:
		if end := closingLine(lines, fence); end > 0 {
			block := strings.Join(lines[1:end], "\n")
			return Parse(block), joinBody(lines, end+1)
		}
	case "{":
		if end := closingLine(lines, "}"); end > 0 {
			raw := "{" + strings.Join(lines[1:end], "\n") + "}"
			var m map[string]any
			if err := json.Unmarshal([]byte(raw), &m); err == nil {
				if m == nil {
					m = map[string]any{}
				}
				return m, joinBody(lines, end+1)
			}
		}
	}

	return map[string]any{}, text
}

// closingLine returns the index of the first line after the opener whose
// content is exactly marker, or -1 when the block never closes.
func closingLine(lines []string, marker string) int {
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r") == marker {
			return i
		}
	}
	return -1
}

func joinBody(lines []string, from int) string {
	if from >= len(lines) {
		return ""
	}
	return strings.Join(lines[from:], "\n")
}
