package commands

import (
	"strings"
	"unicode"
)

// splitArgs splits s on whitespace, keeping "double quoted" runs together.
func splitArgs(s string) []string {
	var (
		args    []string
		cur     strings.Builder
		inQuote bool
		started bool
	)
	flush := func() {
		if started {
			args = append(args, cur.String())
		}
		cur.Reset()
		started = false
	}
	for _, r := range s {
		switch {
		case r == '"':
			if inQuote {
				inQuote = false
				flush()
				continue
			}
			flush()
			inQuote = true
			started = true
		case unicode.IsSpace(r) && !inQuote:
			flush()
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	flush()
	return args
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
