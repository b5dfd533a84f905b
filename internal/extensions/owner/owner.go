// Package owner holds the commands only bot owners may run.
package owner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/whotypes/dndspawner/internal/commands"
	"github.com/whotypes/dndspawner/internal/discord"
)

type Owner struct {
	log zerolog.Logger
	bot discord.BotControl
}

func New(deps discord.ExtensionDeps) (commands.Extension, error) {
	if deps.Bot == nil {
		return nil, fmt.Errorf("owner: bot control is required")
	}
	return &Owner{log: deps.Log, bot: deps.Bot}, nil
}

func (o *Owner) Commands() []*commands.Command {
	name := []commands.Param{{Name: "extension", Description: "The name of the extension"}}
	return []*commands.Command{
		{
			Name:        "ext",
			Aliases:     []string{"extension"},
			Description: "Manage the bot's extensions.",
			OwnerOnly:   true,
			Subcommands: []*commands.Command{
				{
					Name:        "list",
					Description: "List every extension and whether it is loaded.",
					OwnerOnly:   true,
					Run:         o.list,
				},
				{
					Name:        "load",
					Description: "Load an extension.",
					Params:      name,
					OwnerOnly:   true,
					Run:         o.manage("load", "Loaded", o.bot.LoadExtension),
				},
				{
					Name:        "unload",
					Description: "Unload an extension.",
					Params:      name,
					OwnerOnly:   true,
					Run:         o.manage("unload", "Unloaded", o.bot.UnloadExtension),
				},
				{
					Name:        "reload",
					Description: "Reload an extension.",
					Params:      name,
					OwnerOnly:   true,
					Run:         o.manage("reload", "Reloaded", o.bot.ReloadExtension),
				},
			},
		},
		{
			Name:        "shutdown",
			Description: "Make the bot shutdown.",
			OwnerOnly:   true,
			Hybrid:      true,
			Run:         o.shutdown,
		},
	}
}

func (o *Owner) list(ctx *commands.Context) error {
	statuses := o.bot.Extensions()
	lines := make([]string, 0, len(statuses))
	for _, st := range statuses {
		switch {
		case st.Loaded:
			lines = append(lines, fmt.Sprintf("🟢 `%s` loaded <t:%d:R>", st.Name, st.LoadedAt.Unix()))
		case st.Error != "":
			lines = append(lines, fmt.Sprintf("🔴 `%s` failed: %s", st.Name, st.Error))
		default:
			lines = append(lines, fmt.Sprintf("⚪ `%s` not loaded", st.Name))
		}
	}
	if len(lines) == 0 {
		lines = append(lines, "No extensions found!")
	}
	return ctx.ReplyEmbed(&discordgo.MessageEmbed{
		Title:       "Extensions",
		Description: strings.Join(lines, "\n"),
		Color:       discord.EmbedColor,
	})
}

func (o *Owner) manage(verb, past string, action func(string) error) func(*commands.Context) error {
	return func(ctx *commands.Context) error {
		name := strings.ToLower(ctx.Arg("extension"))
		if err := action(name); err != nil {
			o.log.Warn().Err(err).Str("extension", name).Msgf("Could not %s extension", verb)
			desc := err.Error()
			var notFound *discord.ExtensionNotFoundError
			if errors.As(err, &notFound) {
				if hints := discord.Suggest(name, o.names()); len(hints) > 0 {
					desc += "\nDid you mean " + quoteAll(hints) + "?"
				}
			}
			return ctx.ReplyEmbed(&discordgo.MessageEmbed{
				Title:       "Error!",
				Description: desc,
				Color:       discord.ErrorColor,
			})
		}
		o.log.Info().Str("user", ctx.Author.ID).Msgf("%s extension %s", past, name)
		return ctx.ReplyEmbed(&discordgo.MessageEmbed{
			Description: fmt.Sprintf("%s the `%s` extension.", past, name),
			Color:       discord.EmbedColor,
		})
	}
}

func (o *Owner) shutdown(ctx *commands.Context) error {
	err := ctx.ReplyEmbed(&discordgo.MessageEmbed{
		Description: "Shutting down. Bye! :wave:",
		Color:       discord.EmbedColor,
	})
	o.bot.Shutdown()
	return err
}

func (o *Owner) names() []string {
	statuses := o.bot.Extensions()
	names := make([]string, len(statuses))
	for i, st := range statuses {
		names[i] = st.Name
	}
	return names
}

func quoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "`" + n + "`"
	}
	return strings.Join(quoted, ", ")
}
