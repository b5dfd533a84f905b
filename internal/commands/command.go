// Package commands is a small prefix and slash command framework on top of
// discordgo. Commands are grouped into extensions, checked (owner, guild,
// permissions, cooldown), bound to their parameters and run. Results are
// reported through Hooks.
package commands

import (
	"strings"
)

// Command describes one invocable command or command group.
type Command struct {
	Name        string
	Aliases     []string
	Description string
	Usage       string
	Params      []Param

	// OwnerOnly restricts the command to bot owners.
	OwnerOnly bool
	// GuildOnly rejects invocations from direct messages.
	GuildOnly bool
	// Permissions and BotPermissions are snake_case permission names
	// (ban_members, kick_members, ...) required of the author and of the bot.
	Permissions    []string
	BotPermissions []string

	Cooldown *Cooldown

	// Hybrid commands are also registered as application (slash) commands.
	Hybrid bool

	Subcommands []*Command

	Run func(ctx *Context) error

	parent *Command
}

// Param is a positional argument.
type Param struct {
	Name        string
	Description string
	Optional    bool
	// Rest consumes every remaining token. Only valid on the last param.
	Rest bool
}

// Extension contributes a set of commands under one identifier.
type Extension interface {
	Commands() []*Command
}

// Closer is implemented by extensions that hold resources to release on unload.
type Closer interface {
	Close() error
}

// QualifiedName is the full invocation path, e.g. "ext reload".
func (c *Command) QualifiedName() string {
	if c.parent == nil {
		return c.Name
	}
	return c.parent.QualifiedName() + " " + c.Name
}

// Root returns the top level command of a group.
func (c *Command) Root() *Command {
	for c.parent != nil {
		c = c.parent
	}
	return c
}

func (c *Command) Parent() *Command { return c.parent }

// Signature renders the parameters as "<required> [optional]".
func (c *Command) Signature() string {
	if c.Usage != "" {
		return c.Usage
	}
	parts := make([]string, 0, len(c.Params))
	for _, p := range c.Params {
		name := p.Name
		if p.Rest {
			name += "..."
		}
		if p.Optional {
			parts = append(parts, "["+name+"]")
		} else {
			parts = append(parts, "<"+name+">")
		}
	}
	return strings.Join(parts, " ")
}

func (c *Command) names() []string {
	out := make([]string, 0, 1+len(c.Aliases))
	out = append(out, strings.ToLower(c.Name))
	for _, a := range c.Aliases {
		out = append(out, strings.ToLower(a))
	}
	return out
}

func (c *Command) subcommand(name string) *Command {
	name = strings.ToLower(name)
	for _, sub := range c.Subcommands {
		for _, n := range sub.names() {
			if n == name {
				return sub
			}
		}
	}
	return nil
}

func (c *Command) link() {
	for _, sub := range c.Subcommands {
		sub.parent = c
		sub.link()
	}
}
