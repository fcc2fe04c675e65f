package completion

import "strings"

// StripFences removes Markdown code fences and surrounding prose that
// models sometimes wrap around a JSON payload despite instructions.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers. The closing fence
	// is only trimmed when an opening fence was stripped, so backticks
	// inside an unfenced payload survive.
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	// If there is still junk around the JSON value, keep only the span
	// from the first opening brace/bracket to its matching last close.
	start := strings.IndexAny(s, "{[")
	if start == -1 {
		return s
	}
	var end int
	if s[start] == '{' {
		end = strings.LastIndex(s, "}")
	} else {
		end = strings.LastIndex(s, "]")
	}
	if end > start {
		s = strings.TrimSpace(s[start : end+1])
	}

	return s
}
