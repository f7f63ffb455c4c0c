package llm

import (
	"encoding/json"
	"strings"
)

// CleanJSONBlock removes markdown code block wrappers and conversational
// preamble or trailing text around a JSON object or array. Bracketed prose
// such as "[as requested]" is skipped in favour of the first span that is
// valid JSON. Text with no balanced value is returned trimmed but otherwise
// unchanged, so the caller's decoder reports the real problem.
func CleanJSONBlock(text string) string {
	text = stripCodeFence(strings.TrimSpace(text))

	fallback := ""
	for offset := 0; offset < len(text); {
		idx := strings.IndexAny(text[offset:], "{[")
		if idx < 0 {
			break
		}
		start := offset + idx

		candidate := extractBalanced(text[start:])
		if candidate == "" {
			// an opener that never closes swallows the rest of the text
			break
		}
		if json.Valid([]byte(candidate)) {
			return candidate
		}
		if fallback == "" {
			fallback = candidate
		}
		offset = start + len(candidate)
	}

	if fallback != "" {
		return fallback
	}
	return text
}

// stripCodeFence removes a leading ``` or ```lang line and the closing fence
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	// Skip a language identifier on the first line
	if idx := strings.Index(text, "\n"); idx >= 0 {
		firstLine := text[:idx]
		if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// extractBalanced returns the bracketed value that opens at s[0], or "" when
// it is never closed. Brackets inside JSON strings are ignored.
func extractBalanced(s string) string {
	if len(s) == 0 {
		return ""
	}
	open, closing := s[0], byte('}')
	switch open {
	case '{':
	case '[':
		closing = ']'
	default:
		return ""
	}

	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch c {
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}

	return ""
}
