package frontmatter

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Parse decodes the lines of a metadata block into a mapping. The grammar is
// a practical subset: comments, "key: value" pairs, JSON arrays, quoted
// strings, booleans, numbers, and three multi-line forms (literal "|",
// folded ">", and block arrays). Inputs outside the subset degrade to raw
// string values; Parse never fails.
func Parse(block string) map[string]any {
	lines := strings.Split(block, "\n")
	out := make(map[string]any)

	for i := 0; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		sep := strings.Index(line, ":")
		if sep < 0 {
			continue
		}
		key := strings.TrimSpace(line[:sep])
		raw := strings.TrimSpace(line[sep+1:])

		if raw == "" || raw == "|" || raw == ">" {
			val, consumed := readBlock(lines[i+1:], raw)
			out[key] = val
			i += consumed
			continue
		}
		out[key] = scalar(raw)
	}
	return out
}

// scalar resolves a single-line value. Forms are tried in order: JSON
// array, quoted string, boolean, number, raw string.
func scalar(raw string) any {
	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		var arr []any
		if err := json.Unmarshal([]byte(raw), &arr); err == nil {
			if arr == nil {
				arr = []any{}
			}
			return arr
		}
	}
	if len(raw) >= 2 {
		if (raw[0] == '"' && raw[len(raw)-1] == '"') || (raw[0] == '\'' && raw[len(raw)-1] == '\'') {
			// Quotes are unwrapped verbatim, no escape processing.
			return raw[1 : len(raw)-1]
		}
	}
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

// readBlock consumes the multi-line value that follows a "key:", "key: |"
// or "key: >" line. rest holds the remaining lines; marker is "", "|" or
// ">". It returns the value and the number of lines consumed.
func readBlock(rest []string, marker string) (any, int) {
	base := -1
	for _, l := range rest {
		if strings.TrimSpace(l) == "" {
			continue
		}
		base = indentOf(l)
		break
	}
	if base < 0 {
		// Nothing follows the key at all.
		if marker == "" {
			return "", 0
		}
		return "", len(rest)
	}

	if marker == "" {
		return readBlockArray(rest, base)
	}
	return readBlockString(rest, base, marker)
}

// readBlockString handles the literal ("|") and folded (">") forms.
func readBlockString(rest []string, base int, marker string) (string, int) {
	var collected []string
	consumed := 0
	for _, l := range rest {
		line := strings.TrimRight(l, "\r")
		blank := strings.TrimSpace(line) == ""
		if !blank && indentOf(line) < base {
			break
		}
		consumed++
		if blank {
			if marker == "|" {
				collected = append(collected, "")
			}
			continue
		}
		if marker == "|" {
			collected = append(collected, line[base:])
		} else {
			collected = append(collected, strings.TrimSpace(line))
		}
	}
	if marker == "|" {
		return strings.Join(collected, "\n"), consumed
	}
	return strings.Join(collected, " "), consumed
}

// readBlockArray handles the plain multi-line form: "- " items at or below
// the base indent, with non-item lines appended to the previous element.
func readBlockArray(rest []string, base int) (any, int) {
	var items []any
	consumed := 0
	for _, l := range rest {
		line := strings.TrimRight(l, "\r")
		if strings.TrimSpace(line) == "" {
			consumed++
			continue
		}
		if indentOf(line) < base {
			break
		}
		content := strings.TrimSpace(line)
		if rem, ok := strings.CutPrefix(content, "- "); ok {
			items = append(items, strings.TrimSpace(rem))
			consumed++
			continue
		}
		if len(items) == 0 {
			// First content line is not an item: no block here, the key
			// degrades to an empty value and the line stays unconsumed.
			return "", 0
		}
		if prev, ok := items[len(items)-1].(string); ok {
			items[len(items)-1] = prev + " " + content
		}
		consumed++
	}
	if items == nil {
		return "", consumed
	}
	return items, consumed
}

// indentOf counts leading whitespace characters.
func indentOf(line string) int {
	for i := 0; i < len(line); i++ {
		if line[i] != ' ' && line[i] != '\t' {
			return i
		}
	}
	return len(line)
}
