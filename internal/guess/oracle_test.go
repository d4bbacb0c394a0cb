package guess

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/melodix-games/melodix/internal/catalog"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       string
		expected string
	}{
		{"Hello", "hello"},
		{"  HELLO   World ", "hello world"},
		{"don't stop!", "dont stop"},
		{"99.9", "999"},
		{"...", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Normalize(tt.in), "input %q", tt.in)
	}
}

func TestOracleMatch(t *testing.T) {
	t.Parallel()

	o := New()

	tests := []struct {
		name     string
		title    string
		input    string
		expected bool
	}{
		{"exact", "Spring Day", "Spring Day", true},
		{"case and punctuation blind", "Gee!", "gee", true},
		{"bracketed decoration optional", "Fire (Japanese Ver.)", "fire", true},
		{"decoration spelled out", "Fire (Japanese Ver.)", "fire japanese ver", true},
		{"square brackets", "Dope [MV]", "dope", true},
		{"wrong title", "Spring Day", "Winter Night", false},
		{"empty input", "Spring Day", "   ", false},
		{"partial title rejected", "Spring Day", "Spring", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, weight := o.Match(tt.input, catalog.Song{Name: tt.title})
			assert.Equal(t, tt.expected, ok)
			if tt.expected {
				assert.Equal(t, 1.0, weight)
			} else {
				assert.Equal(t, 0.0, weight)
			}
		})
	}
}
