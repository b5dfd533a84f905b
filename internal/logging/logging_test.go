package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LineLayout(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, zerolog.DebugLevel, "")

	log.Info().Msg("Bot is up and running")

	line := buf.String()
	assert.True(t, strings.HasPrefix(line, ansiGray+ansiBold), "timestamp should open the line in bold gray: %q", line)
	assert.Contains(t, line, ansiBlue+ansiBold+"INFO    "+ansiReset)
	assert.Contains(t, line, ansiPurple+ansiBold+DefaultSource+ansiReset)
	assert.Contains(t, line, ansiWhite+"Bot is up and running"+ansiReset)
}

func TestNew_LevelColours(t *testing.T) {
	tests := []struct {
		name string
		emit func(l *zerolog.Logger)
		want string
	}{
		{"debug", func(l *zerolog.Logger) { l.Debug().Msg("x") }, ansiGray + ansiBold + "DEBUG   " + ansiReset},
		{"info", func(l *zerolog.Logger) { l.Info().Msg("x") }, ansiBlue + ansiBold + "INFO    " + ansiReset},
		{"warning", func(l *zerolog.Logger) { l.Warn().Msg("x") }, ansiYellow + ansiBold + "WARNING " + ansiReset},
		{"error", func(l *zerolog.Logger) { l.Error().Msg("x") }, ansiRed + "ERROR   " + ansiReset},
		{"critical", func(l *zerolog.Logger) { Critical(l).Msg("x") }, ansiRed + ansiBold + "CRITICAL" + ansiReset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(&buf, zerolog.DebugLevel, "test")
			tt.emit(&log)
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, zerolog.InfoLevel, "test")

	log.Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	log.Warn().Str("extension", "dice").Msg("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "extension=dice")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    zerolog.Level
		wantErr bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"", zerolog.InfoLevel, false},
		{"INFO", zerolog.InfoLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"critical", zerolog.FatalLevel, false},
		{"verbose", zerolog.NoLevel, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		if tt.wantErr {
			require.Error(t, err, "ParseLevel(%q)", tt.input)
			continue
		}
		require.NoError(t, err, "ParseLevel(%q)", tt.input)
		assert.Equal(t, tt.want, got, "ParseLevel(%q)", tt.input)
	}
}
