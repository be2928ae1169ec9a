package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTokens(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{"mixed separators", "a, b\nc,,  d ", []string{"a", "b", "c", "d"}},
		{"empty", "", []string{}},
		{"only separators", " ,\n, \n", []string{}},
		{"windows newlines", "a\r\nb", []string{"a", "b"}},
		{"duplicates kept", "a,a", []string{"a", "a"}},
		{"single", "  token-1  ", []string{"token-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseTokens(tt.raw))
		})
	}
}
