package discord

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggest(t *testing.T) {
	names := []string{"ping", "help", "botinfo", "roll", "spawn", "kick", "ban"}

	tests := []struct {
		input string
		want  []string
	}{
		{"rol", []string{"roll"}},
		{"rlol", []string{"roll"}},
		{"SPAWN", []string{"spawn"}},
		{"", nil},
		{"fireball", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Suggest(tt.input, names))
		})
	}
}

func TestSuggest_Limit(t *testing.T) {
	got := Suggest("a", []string{"aa", "ab", "ac", "ad", "ae"})
	assert.Len(t, got, maxSuggestions)
}
