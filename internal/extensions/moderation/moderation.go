// Package moderation provides kick and ban.
package moderation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/whotypes/dndspawner/internal/commands"
	"github.com/whotypes/dndspawner/internal/discord"
)

const defaultReason = "Not specified"

var ErrInvalidMember = errors.New("member must be a mention or a user ID")

var memberRef = regexp.MustCompile(`^(?:<@!?(\d{15,21})>|(\d{15,21}))$`)

// ParseMember extracts a user ID from a mention or a raw ID.
func ParseMember(s string) (string, error) {
	m := memberRef.FindStringSubmatch(s)
	if m == nil {
		return "", ErrInvalidMember
	}
	if m[1] != "" {
		return m[1], nil
	}
	return m[2], nil
}

type Moderation struct {
	log zerolog.Logger
}

func New(deps discord.ExtensionDeps) (commands.Extension, error) {
	return &Moderation{log: deps.Log}, nil
}

func (m *Moderation) Commands() []*commands.Command {
	params := []commands.Param{
		{Name: "member", Description: "The member to act on"},
		{Name: "reason", Description: "Why", Optional: true, Rest: true},
	}
	return []*commands.Command{
		{
			Name:           "kick",
			Description:    "Kick a user out of the server.",
			Params:         params,
			GuildOnly:      true,
			Permissions:    []string{"kick_members"},
			BotPermissions: []string{"kick_members"},
			Hybrid:         true,
			Run:            m.action("kick", "kicked"),
		},
		{
			Name:           "ban",
			Description:    "Bans a user from the server.",
			Params:         params,
			GuildOnly:      true,
			Permissions:    []string{"ban_members"},
			BotPermissions: []string{"ban_members"},
			Hybrid:         true,
			Run:            m.action("ban", "banned"),
		},
	}
}

func (m *Moderation) action(verb, past string) func(*commands.Context) error {
	return func(ctx *commands.Context) error {
		target, err := ParseMember(ctx.Arg("member"))
		if err != nil {
			return ctx.ReplyEmbed(&discordgo.MessageEmbed{
				Description: fmt.Sprintf("`%s` is not a member: %v.", ctx.Arg("member"), err),
				Color:       discord.ErrorColor,
			})
		}
		if target == ctx.Author.ID {
			return ctx.ReplyEmbed(&discordgo.MessageEmbed{
				Description: fmt.Sprintf("You cannot %s yourself.", verb),
				Color:       discord.ErrorColor,
			})
		}
		if self := ctx.Transport.Self(); self != nil && target == self.ID {
			return ctx.ReplyEmbed(&discordgo.MessageEmbed{
				Description: fmt.Sprintf("I cannot %s myself.", verb),
				Color:       discord.ErrorColor,
			})
		}

		reason := defaultReason
		if ctx.HasArg("reason") {
			reason = ctx.Arg("reason")
		}

		if verb == "ban" {
			err = ctx.Transport.Ban(ctx.GuildID, target, reason)
		} else {
			err = ctx.Transport.Kick(ctx.GuildID, target, reason)
		}
		if err != nil {
			m.log.Warn().Err(err).Str("target", target).Msgf("Failed to %s member", verb)
			return ctx.ReplyEmbed(&discordgo.MessageEmbed{
				Description: fmt.Sprintf("An error occurred while trying to %s the user. Make sure my role is above the role of the user you want to %s.", verb, verb),
				Color:       discord.ErrorColor,
			})
		}

		return ctx.ReplyEmbed(&discordgo.MessageEmbed{
			Description: fmt.Sprintf("**<@%s>** was %s by **%s**!", target, past, ctx.Author.Username),
			Color:       discord.EmbedColor,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Reason:", Value: reason},
			},
		})
	}
}
