package llmHandlers

import "strings"

// CleanModelOutput strips the markdown code fences models like to wrap
// structured replies in, plus surrounding whitespace.
func CleanModelOutput(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		// drop the opening fence line, with or without a language tag
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
	}

	return strings.TrimSpace(s)
}
