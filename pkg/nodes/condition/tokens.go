package condition

import "strings"

// ParseTokens splits raw token text on commas and newlines, trims each piece
// and drops the empty ones. Order is preserved and duplicates are kept.
func ParseTokens(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n'
	})

	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		token := strings.TrimSpace(field)
		if token != "" {
			tokens = append(tokens, token)
		}
	}

	return tokens
}
