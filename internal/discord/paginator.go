package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	paginator "github.com/topi314/dgo-paginator"
)

const (
	// EmbedColor is the accent colour of regular replies.
	EmbedColor   = 0x5865F2
	linesPerPage = 10
	pageExpiry   = 10 * time.Minute
)

// NewPaginatorManager returns the manager that tracks button state of every
// paginated reply sent by one client.
func NewPaginatorManager() *paginator.Manager {
	return paginator.NewManager(
		paginator.WithButtonsConfig(paginator.ButtonsConfig{
			First: &paginator.ComponentOptions{
				Emoji: &discordgo.ComponentEmoji{
					Name: "⏮",
				},
				Style: discordgo.PrimaryButton,
			},
			Back: &paginator.ComponentOptions{
				Emoji: &discordgo.ComponentEmoji{
					Name: "◀",
				},
				Style: discordgo.PrimaryButton,
			},
			Stop: nil,
			Next: &paginator.ComponentOptions{
				Emoji: &discordgo.ComponentEmoji{
					Name: "▶",
				},
				Style: discordgo.PrimaryButton,
			},
			Last: &paginator.ComponentOptions{
				Emoji: &discordgo.ComponentEmoji{
					Name: "⏩",
				},
				Style: discordgo.PrimaryButton,
			},
		}),

		paginator.WithNotYourPaginatorMessage("This paginator can only be used by the person who requested it."),
	)
}

// PageCount is the number of pages needed for n lines.
func PageCount(n int) int {
	if n == 0 {
		return 1
	}
	return (n + linesPerPage - 1) / linesPerPage
}

// NewListPaginator pages lines under title, linesPerPage at a time.
func NewListPaginator(title string, lines []string) *paginator.Paginator {
	totalPages := PageCount(len(lines))

	return &paginator.Paginator{
		PageFunc: func(page int, embed *discordgo.MessageEmbed) {
			embed.Title = title
			embed.Color = EmbedColor
			embed.Description = PageLines(lines, page)
			embed.Footer = &discordgo.MessageEmbedFooter{
				Text: fmt.Sprintf("Page %d/%d • Use the buttons below to navigate", page+1, totalPages),
			}
			embed.Timestamp = time.Now().Format(time.RFC3339)
		},
		MaxPages:        totalPages,
		ExpiryLastUsage: true,
		Expiry:          time.Now().Add(pageExpiry),
	}
}

// PageLines renders the lines of one zero based page.
func PageLines(lines []string, page int) string {
	start := page * linesPerPage
	if start >= len(lines) || start < 0 {
		return ""
	}
	end := start + linesPerPage
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start:end], "\n")
}
