package commands

import (
	"sync"

	"github.com/bwmarrin/discordgo"
	paginator "github.com/topi314/dgo-paginator"
)

// Context is the invocation state handed to a command.
type Context struct {
	Command *Command
	// InvokedWith is the name or alias the user typed.
	InvokedWith string
	Prefix      string

	Author    *discordgo.User
	GuildID   string
	ChannelID string
	MessageID string

	// Interaction is set for slash invocations.
	Interaction *discordgo.Interaction

	// Args holds the raw tokens after the command name.
	Args []string

	Transport Transport

	params map[string]string

	mu        sync.Mutex
	responded bool
	guildName string
}

// IsDM reports whether the command was invoked in a direct message.
func (c *Context) IsDM() bool { return c.GuildID == "" }

// GuildName returns the name of the invoking guild, or "" in DMs.
func (c *Context) GuildName() string {
	if c.IsDM() {
		return ""
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.guildName == "" && c.Transport != nil {
		c.guildName = c.Transport.GuildName(c.GuildID)
	}
	return c.guildName
}

// Arg returns the bound value of a parameter, or "" when it was not supplied.
func (c *Context) Arg(name string) string {
	return c.params[name]
}

// HasArg reports whether an optional parameter was supplied.
func (c *Context) HasArg(name string) bool {
	_, ok := c.params[name]
	return ok
}

// Reply sends plain text to the invoking channel or interaction.
func (c *Context) Reply(content string) error {
	if c.Interaction != nil {
		return c.respond(&discordgo.InteractionResponseData{Content: content})
	}
	return c.Transport.SendText(c.ChannelID, content)
}

// ReplyEmbed sends an embed to the invoking channel or interaction.
func (c *Context) ReplyEmbed(embed *discordgo.MessageEmbed) error {
	if c.Interaction != nil {
		return c.respond(&discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}})
	}
	return c.Transport.SendEmbed(c.ChannelID, embed)
}

// ReplyPaginated sends a button paginated embed.
func (c *Context) ReplyPaginated(pg *paginator.Paginator) error {
	if c.Interaction != nil {
		c.mu.Lock()
		first := !c.responded
		c.responded = true
		c.mu.Unlock()
		if first {
			return c.Transport.RespondPaginator(c.Interaction, pg)
		}
	}
	return c.Transport.SendPaginator(c.ChannelID, pg)
}

// respond answers the interaction once and follows up afterwards.
func (c *Context) respond(data *discordgo.InteractionResponseData) error {
	c.mu.Lock()
	first := !c.responded
	c.responded = true
	c.mu.Unlock()

	if first {
		return c.Transport.Respond(c.Interaction, data)
	}
	return c.Transport.Followup(c.Interaction, data)
}

// bind assigns Args to the command's params.
func (c *Context) bind() error {
	c.params = make(map[string]string, len(c.Command.Params))
	for i, p := range c.Command.Params {
		if i >= len(c.Args) {
			if !p.Optional {
				return &MissingRequiredArgumentError{Param: p.Name}
			}
			continue
		}
		if p.Rest {
			c.params[p.Name] = joinArgs(c.Args[i:])
			break
		}
		c.params[p.Name] = c.Args[i]
	}
	return nil
}
