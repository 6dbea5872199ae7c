package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchURL(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		target   string
		want     bool
	}{
		{"exact", []string{"https://example.com/login?next=/"}, "https://example.com/login?next=/", true},
		{"glob path", []string{"https://example.com/orders/*"}, "https://example.com/orders/42", true},
		{"glob ignores query", []string{"https://example.com/orders/*"}, "https://example.com/orders/42?tab=items", true},
		{"glob does not cross segments", []string{"https://example.com/orders/*"}, "https://example.com/orders/42/items", false},
		{"other host", []string{"https://example.com/*"}, "https://evil.example/home", false},
		{"other scheme", []string{"https://example.com/*"}, "http://example.com/home", false},
		{"second pattern", []string{"https://example.com/a", "https://example.com/b*"}, "https://example.com/basket", true},
		{"bad pattern skipped", []string{"https://example.com/[", "https://example.com/ok"}, "https://example.com/ok", true},
		{"no patterns", nil, "https://example.com/", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchURL(tt.patterns, tt.target))
		})
	}
}
