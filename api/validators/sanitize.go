package validators

import "strings"

func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}

// SanitizeSelection trims keys and values and drops entries with an empty key.
func SanitizeSelection(input map[string]string, maxLen int) map[string]string {
	out := make(map[string]string, len(input))
	for key, value := range input {
		key = SanitizeString(key, maxLen)
		if key == "" {
			continue
		}
		out[key] = SanitizeString(value, maxLen)
	}
	return out
}
