// Package logging builds the bot's console logger.
//
// Lines are rendered as
//
//	2006-01-02 15:04:05 LEVEL    source message key=value ...
//
// with the timestamp in bold gray, the level in its own colour, the source tag
// in bold purple and the message in white. Every coloured segment is followed
// by a reset sequence.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultSource is the tag printed on every line.
const DefaultSource = "dnd_spawner_bot"

const timeLayout = "2006-01-02 15:04:05"

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiWhite  = "\x1b[15m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
	ansiPurple = "\x1b[35m"
	ansiGray   = "\x1b[38m"
)

// New returns a logger writing coloured lines to w. A nil w means stdout.
func New(w io.Writer, level zerolog.Level, source string) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	if source == "" {
		source = DefaultSource
	}
	return zerolog.New(NewConsoleWriter(w, source)).Level(level).With().Timestamp().Logger()
}

// NewConsoleWriter returns the zerolog writer used by New.
func NewConsoleWriter(w io.Writer, source string) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:     w,
		NoColor: true,
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			zerolog.MessageFieldName,
		},
		FormatTimestamp: formatTimestamp,
		FormatLevel:     formatLevel,
		FormatMessage: func(i interface{}) string {
			msg := ""
			if i != nil {
				msg = fmt.Sprint(i)
			}
			return ansiPurple + ansiBold + source + ansiReset + " " + ansiWhite + msg + ansiReset
		},
	}
}

// Critical starts an event at the critical level. Unlike zerolog's Fatal it
// does not exit the process.
func Critical(l *zerolog.Logger) *zerolog.Event {
	return l.WithLevel(zerolog.FatalLevel)
}

// ParseLevel maps a configured level name onto a zerolog level.
func ParseLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "critical", "fatal":
		return zerolog.FatalLevel, nil
	}
	return zerolog.NoLevel, fmt.Errorf("unknown log level %q", s)
}

func formatTimestamp(i interface{}) string {
	ts := fmt.Sprint(i)
	if s, ok := i.(string); ok {
		if t, err := time.Parse(zerolog.TimeFieldFormat, s); err == nil {
			ts = t.Local().Format(timeLayout)
		}
	}
	return ansiGray + ansiBold + ts + ansiReset
}

func formatLevel(i interface{}) string {
	if i == nil {
		return ""
	}
	name, colour := levelStyle(fmt.Sprint(i))
	return colour + fmt.Sprintf("%-8s", name) + ansiReset
}

func levelStyle(level string) (string, string) {
	switch level {
	case zerolog.LevelTraceValue, zerolog.LevelDebugValue:
		return "DEBUG", ansiGray + ansiBold
	case zerolog.LevelInfoValue:
		return "INFO", ansiBlue + ansiBold
	case zerolog.LevelWarnValue:
		return "WARNING", ansiYellow + ansiBold
	case zerolog.LevelErrorValue:
		return "ERROR", ansiRed
	case zerolog.LevelFatalValue, zerolog.LevelPanicValue:
		return "CRITICAL", ansiRed + ansiBold
	default:
		return strings.ToUpper(level), ""
	}
}
