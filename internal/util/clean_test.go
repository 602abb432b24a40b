package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanCompletionText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims whitespace", "  \n Write a haiku.\n\n", "Write a haiku."},
		{"drops BOM", "\uFEFFHello", "Hello"},
		{"drops NUL", "a\x00b", "ab"},
		{"replaces invalid utf8", "ok\xff", "ok\uFFFD"},
		{"keeps typographic quotes", "\u201Cquoted\u201D", "\u201Cquoted\u201D"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanCompletionText(tt.in, "test"))
		})
	}
}
