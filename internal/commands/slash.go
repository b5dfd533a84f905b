package commands

import (
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
)

const (
	defaultDescription = "No description"
	// maxDescription is Discord's limit, counted in characters.
	maxDescription = 100
)

// ApplicationCommands returns the slash definitions of every hybrid command.
func (r *Router) ApplicationCommands() []*discordgo.ApplicationCommand {
	var out []*discordgo.ApplicationCommand
	for _, cmd := range r.Commands() {
		if !cmd.Hybrid {
			continue
		}
		out = append(out, applicationCommand(cmd))
	}
	return out
}

func applicationCommand(cmd *Command) *discordgo.ApplicationCommand {
	ac := &discordgo.ApplicationCommand{
		Name:        cmd.Name,
		Description: describe(cmd.Description),
	}
	for _, p := range cmd.Params {
		ac.Options = append(ac.Options, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        p.Name,
			Description: describe(p.Description),
			Required:    !p.Optional,
		})
	}
	return ac
}

func describe(s string) string {
	if s == "" {
		return defaultDescription
	}
	if utf8.RuneCountInString(s) <= maxDescription {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxDescription-3]) + "..."
}

// ProcessInteraction invokes the hybrid command named by an application
// command interaction.
func (r *Router) ProcessInteraction(t Transport, i *discordgo.Interaction) {
	if i == nil || i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()

	author := i.User
	if i.Member != nil && i.Member.User != nil {
		author = i.Member.User
	}
	if author == nil {
		return
	}

	ctx := &Context{
		InvokedWith: data.Name,
		Prefix:      "/",
		Author:      author,
		GuildID:     i.GuildID,
		ChannelID:   i.ChannelID,
		Interaction: i,
		Transport:   t,
	}

	cmd, ok := r.Lookup(data.Name)
	if !ok || !cmd.Hybrid {
		r.fail(ctx, &CommandNotFoundError{Name: data.Name})
		return
	}
	ctx.Command = cmd
	ctx.Args = optionArgs(cmd, data.Options)

	r.Invoke(ctx)
}

// optionArgs orders interaction options by the command's params, stopping at
// the first one that is absent.
func optionArgs(cmd *Command, opts []*discordgo.ApplicationCommandInteractionDataOption) []string {
	byName := make(map[string]string, len(opts))
	for _, o := range opts {
		if o.Type == discordgo.ApplicationCommandOptionString {
			byName[o.Name] = o.StringValue()
		}
	}
	var args []string
	for _, p := range cmd.Params {
		v, ok := byName[p.Name]
		if !ok {
			break
		}
		args = append(args, v)
	}
	return args
}
