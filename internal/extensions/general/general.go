// Package general holds the everyday commands: ping, help and botinfo.
package general

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/whotypes/dndspawner/internal/commands"
	"github.com/whotypes/dndspawner/internal/discord"
)

type General struct {
	log zerolog.Logger
	bot discord.BotControl
}

func New(deps discord.ExtensionDeps) (commands.Extension, error) {
	if deps.Bot == nil {
		return nil, fmt.Errorf("general: bot control is required")
	}
	return &General{log: deps.Log, bot: deps.Bot}, nil
}

func (g *General) Commands() []*commands.Command {
	return []*commands.Command{
		{
			Name:        "ping",
			Description: "Check if the bot is alive.",
			Hybrid:      true,
			Run:         g.ping,
		},
		{
			Name:        "help",
			Aliases:     []string{"commands"},
			Description: "List all commands the bot has loaded.",
			Params: []commands.Param{
				{Name: "command", Description: "Command to show details for", Optional: true, Rest: true},
			},
			Hybrid: true,
			Run:    g.help,
		},
		{
			Name:        "botinfo",
			Aliases:     []string{"info"},
			Description: "Get some useful (or not) information about the bot.",
			Hybrid:      true,
			Run:         g.botinfo,
		},
	}
}

func (g *General) ping(ctx *commands.Context) error {
	return ctx.ReplyEmbed(&discordgo.MessageEmbed{
		Title:       "🏓 Pong!",
		Description: fmt.Sprintf("The bot latency is %dms.", ctx.Transport.Latency().Milliseconds()),
		Color:       discord.EmbedColor,
	})
}

func (g *General) botinfo(ctx *commands.Context) error {
	loaded := 0
	exts := g.bot.Extensions()
	for _, st := range exts {
		if st.Loaded {
			loaded++
		}
	}

	embed := &discordgo.MessageEmbed{
		Description: "A Dungeons & Dragons helper that rolls dice and spawns encounters.",
		Color:       discord.EmbedColor,
		Author:      &discordgo.MessageEmbedAuthor{Name: "Bot Information"},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Prefix", Value: fmt.Sprintf("`/` (slash commands) or `%s` for normal commands", g.bot.Prefix()), Inline: false},
			{Name: "Go Version", Value: runtime.Version(), Inline: true},
			{Name: "discordgo", Value: discordgo.VERSION, Inline: true},
			{Name: "Uptime", Value: g.bot.Uptime().Truncate(time.Second).String(), Inline: true},
			{Name: "Extensions", Value: fmt.Sprintf("%d/%d loaded", loaded, len(exts)), Inline: true},
			{Name: "Commands", Value: fmt.Sprintf("%d", len(g.bot.Commands())), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Requested by " + ctx.Author.Username},
	}
	return ctx.ReplyEmbed(embed)
}

func (g *General) help(ctx *commands.Context) error {
	if name := strings.TrimSpace(ctx.Arg("command")); name != "" {
		return g.helpCommand(ctx, name)
	}

	prefix := g.bot.Prefix()
	var lines []string
	for _, cmd := range g.bot.Commands() {
		lines = append(lines, helpLine(prefix, cmd))
		for _, sub := range cmd.Subcommands {
			lines = append(lines, helpLine(prefix, sub))
		}
	}
	if len(lines) == 0 {
		return ctx.Reply("No commands are loaded.")
	}

	title := "Help"
	if discord.PageCount(len(lines)) == 1 {
		return ctx.ReplyEmbed(&discordgo.MessageEmbed{
			Title:       title,
			Description: discord.PageLines(lines, 0),
			Color:       discord.EmbedColor,
			Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Use %shelp <command> for details", prefix)},
		})
	}
	return ctx.ReplyPaginated(discord.NewListPaginator(title, lines))
}

func helpLine(prefix string, cmd *commands.Command) string {
	usage := strings.TrimSpace(cmd.QualifiedName() + " " + cmd.Signature())
	desc := cmd.Description
	if desc == "" {
		desc = "No description"
	}
	return fmt.Sprintf("• **%s%s** - %s", prefix, usage, desc)
}

// helpCommand describes one command, descending into subcommands, or
// suggests close names when nothing matches.
func (g *General) helpCommand(ctx *commands.Context, query string) error {
	prefix := g.bot.Prefix()
	tokens := strings.Fields(query)

	cmd, ok := g.bot.Lookup(tokens[0])
	if !ok {
		g.log.Debug().Str("query", query).Msg("help requested for unknown command")
		return ctx.ReplyEmbed(notFoundEmbed(prefix, tokens[0], g.commandNames()))
	}
	for _, tok := range tokens[1:] {
		var next *commands.Command
		for _, sub := range cmd.Subcommands {
			if strings.EqualFold(sub.Name, tok) {
				next = sub
				break
			}
		}
		if next == nil {
			break
		}
		cmd = next
	}

	embed := &discordgo.MessageEmbed{
		Title:       prefix + cmd.QualifiedName(),
		Description: cmd.Description,
		Color:       discord.EmbedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Usage", Value: "`" + strings.TrimSpace(prefix+cmd.QualifiedName()+" "+cmd.Signature()) + "`"},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Extension: " + g.bot.ExtensionOf(cmd)},
	}
	if len(cmd.Aliases) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Aliases", Value: strings.Join(cmd.Aliases, ", "), Inline: true})
	}
	if len(cmd.Subcommands) > 0 {
		names := make([]string, len(cmd.Subcommands))
		for i, sub := range cmd.Subcommands {
			names[i] = sub.Name
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Subcommands", Value: strings.Join(names, ", "), Inline: true})
	}
	if cd := cmd.Cooldown; cd != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Cooldown", Value: fmt.Sprintf("%d per %s", cd.Rate, cd.Per), Inline: true})
	}
	if cmd.OwnerOnly {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Restricted", Value: "Bot owners only", Inline: true})
	}
	if cmd.Hybrid {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Slash", Value: "/" + cmd.Name, Inline: true})
	}
	return ctx.ReplyEmbed(embed)
}

func (g *General) commandNames() []string {
	var names []string
	for _, cmd := range g.bot.Commands() {
		names = append(names, cmd.Name)
		names = append(names, cmd.Aliases...)
	}
	return names
}

func notFoundEmbed(prefix, name string, candidates []string) *discordgo.MessageEmbed {
	desc := fmt.Sprintf("No command called `%s` found. Use `%shelp` for available commands.", name, prefix)
	if suggestions := discord.Suggest(name, candidates); len(suggestions) > 0 {
		quoted := make([]string, len(suggestions))
		for i, s := range suggestions {
			quoted[i] = "`" + prefix + s + "`"
		}
		desc = fmt.Sprintf("No command called `%s` found. Did you mean %s?", name, strings.Join(quoted, ", "))
	}
	return &discordgo.MessageEmbed{Description: desc, Color: discord.ErrorColor}
}
