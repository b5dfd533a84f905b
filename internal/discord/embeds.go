package discord

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/whotypes/dndspawner/internal/commands"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrorColor is used by every error reply.
const ErrorColor = 0xE02B2B

// errorEmbed renders the reply for a recognised failure. It reports false for
// UnhandledError, which gets no reply.
func errorEmbed(kind commands.Kind) (*discordgo.MessageEmbed, bool) {
	switch k := kind.(type) {
	case *commands.CooldownError:
		return &discordgo.MessageEmbed{
			Description: fmt.Sprintf("**Please slow down** - You can use this command again in %s.", formatRetryAfter(k.RetryAfter)),
			Color:       ErrorColor,
		}, true
	case *commands.NotOwnerError:
		return &discordgo.MessageEmbed{
			Description: "You are not the owner of the bot!",
			Color:       ErrorColor,
		}, true
	case *commands.MissingPermissionsError:
		return &discordgo.MessageEmbed{
			Description: "You are missing the permission(s) " + formatPermissions(k.Missing) + " to execute this command!",
			Color:       ErrorColor,
		}, true
	case *commands.BotMissingPermissionsError:
		return &discordgo.MessageEmbed{
			Description: "I am missing the permission(s) " + formatPermissions(k.Missing) + " to fully perform this command!",
			Color:       ErrorColor,
		}, true
	case *commands.MissingRequiredArgumentError:
		return &discordgo.MessageEmbed{
			Title:       "Error!",
			Description: capitalize(k.Error()),
			Color:       ErrorColor,
		}, true
	case *commands.UnhandledError:
		return nil, false
	}
	return nil, false
}

// formatRetryAfter splits d into hours (modulo a day), minutes and seconds,
// each rounded half to even, and keeps the non-zero parts.
func formatRetryAfter(d time.Duration) string {
	minutes, seconds := divmod(d.Seconds(), 60)
	hours, minutes := divmod(minutes, 60)
	hours = math.Mod(hours, 24)

	var parts []string
	if h := math.RoundToEven(hours); h > 0 {
		parts = append(parts, fmt.Sprintf("%d hours", int(h)))
	}
	if m := math.RoundToEven(minutes); m > 0 {
		parts = append(parts, fmt.Sprintf("%d minutes", int(m)))
	}
	if s := math.RoundToEven(seconds); s > 0 {
		parts = append(parts, fmt.Sprintf("%d seconds", int(s)))
	}
	if len(parts) == 0 {
		return "a moment"
	}
	return strings.Join(parts, " ")
}

func divmod(x, y float64) (float64, float64) {
	q := math.Floor(x / y)
	return q, x - q*y
}

// formatPermissions renders names as `a, b`.
func formatPermissions(names []string) string {
	return "`" + strings.Join(names, ", ") + "`"
}

// capitalize upper-cases the first letter of s and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToTitle(r)) + cases.Lower(language.Und).String(s[size:])
}
