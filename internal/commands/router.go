package commands

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// Hooks receives the outcome of every invocation.
//
// OnCommandError returns nil when it handled err. A non-nil return is passed
// to the router's default handler, which logs it.
type Hooks interface {
	OnCommandCompletion(ctx *Context)
	OnCommandError(ctx *Context, err error) error
}

// OwnerChecker decides who may run owner only commands.
type OwnerChecker interface {
	IsOwner(userID string) bool
}

type Options struct {
	Prefix string
	Owners OwnerChecker
	Hooks  Hooks
	Log    zerolog.Logger
	// Now is the clock used for cooldowns. Defaults to time.Now.
	Now func() time.Time
}

// Router owns the registered commands and dispatches invocations to them.
type Router struct {
	mu          sync.RWMutex
	prefix      string
	owners      OwnerChecker
	hooks       Hooks
	log         zerolog.Logger
	now         func() time.Time
	commands    map[string]*Command
	byExtension map[string][]*Command
	extensions  map[string]Extension
}

func NewRouter(opts Options) *Router {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Router{
		prefix:      opts.Prefix,
		owners:      opts.Owners,
		hooks:       opts.Hooks,
		log:         opts.Log,
		now:         opts.Now,
		commands:    make(map[string]*Command),
		byExtension: make(map[string][]*Command),
		extensions:  make(map[string]Extension),
	}
}

func (r *Router) Prefix() string { return r.prefix }

// AddExtension registers every command of ext under name. Registration is all
// or nothing: on a name conflict no command of ext is added.
func (r *Router) AddExtension(name string, ext Extension) error {
	cmds := ext.Commands()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.extensions[name]; ok {
		return fmt.Errorf("extension %q already registered", name)
	}

	seen := make(map[string]bool)
	for _, cmd := range cmds {
		if err := validateCommand(cmd); err != nil {
			return fmt.Errorf("command %q: %w", cmd.Name, err)
		}
		for i, n := range cmd.names() {
			if _, taken := r.commands[n]; taken || seen[n] {
				return &CommandRegistrationError{Name: n, IsAlias: i > 0}
			}
			seen[n] = true
		}
	}

	for _, cmd := range cmds {
		cmd.parent = nil
		cmd.link()
		for _, n := range cmd.names() {
			r.commands[n] = cmd
		}
	}
	r.byExtension[name] = cmds
	r.extensions[name] = ext
	return nil
}

// RemoveExtension unregisters the commands of name and returns the extension.
func (r *Router) RemoveExtension(name string) (Extension, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ext, ok := r.extensions[name]
	if !ok {
		return nil, fmt.Errorf("extension %q is not registered", name)
	}
	for _, cmd := range r.byExtension[name] {
		for _, n := range cmd.names() {
			if r.commands[n] == cmd {
				delete(r.commands, n)
			}
		}
	}
	delete(r.byExtension, name)
	delete(r.extensions, name)
	return ext, nil
}

// Lookup resolves a top level command by name or alias.
func (r *Router) Lookup(name string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[strings.ToLower(name)]
	return cmd, ok
}

// Commands returns the top level commands sorted by name.
func (r *Router) Commands() []*Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Command
	for _, cmds := range r.byExtension {
		out = append(out, cmds...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ExtensionOf returns the extension name a top level command belongs to.
func (r *Router) ExtensionOf(cmd *Command) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	root := cmd.Root()
	for name, cmds := range r.byExtension {
		for _, c := range cmds {
			if c == root {
				return name
			}
		}
	}
	return ""
}

// Process parses m as a command invoked with the prefix or a mention of the
// bot, and invokes it. Other messages are ignored.
func (r *Router) Process(t Transport, m *discordgo.Message) {
	if m == nil || m.Author == nil {
		return
	}
	prefix, ok := r.matchPrefix(t, m.Content)
	if !ok {
		return
	}
	tokens := splitArgs(strings.TrimPrefix(m.Content, prefix))
	if len(tokens) == 0 {
		return
	}

	ctx := &Context{
		InvokedWith: tokens[0],
		Prefix:      prefix,
		Author:      m.Author,
		GuildID:     m.GuildID,
		ChannelID:   m.ChannelID,
		MessageID:   m.ID,
		Transport:   t,
	}

	cmd, ok := r.Lookup(tokens[0])
	if !ok {
		r.fail(ctx, &CommandNotFoundError{Name: tokens[0]})
		return
	}
	args := tokens[1:]
	for len(cmd.Subcommands) > 0 && len(args) > 0 {
		sub := cmd.subcommand(args[0])
		if sub == nil {
			break
		}
		cmd, args = sub, args[1:]
	}
	ctx.Command = cmd
	ctx.Args = args

	r.Invoke(ctx)
}

// matchPrefix returns the leading part of content that addresses the bot:
// the configured prefix, or a mention of the bot followed by whitespace.
func (r *Router) matchPrefix(t Transport, content string) (string, bool) {
	if r.prefix != "" && strings.HasPrefix(content, r.prefix) {
		return r.prefix, true
	}
	self := t.Self()
	if self == nil {
		return "", false
	}
	for _, mention := range []string{"<@" + self.ID + ">", "<@!" + self.ID + ">"} {
		if !strings.HasPrefix(content, mention) {
			continue
		}
		rest := strings.TrimPrefix(content, mention)
		trimmed := strings.TrimLeft(rest, " \t\n")
		if trimmed == rest {
			return "", false
		}
		return content[:len(content)-len(trimmed)], true
	}
	return "", false
}

// Invoke runs the checks and body of ctx.Command and reports the outcome.
func (r *Router) Invoke(ctx *Context) {
	if err := r.run(ctx); err != nil {
		r.fail(ctx, err)
		return
	}
	if r.hooks != nil {
		r.hooks.OnCommandCompletion(ctx)
	}
}

func (r *Router) run(ctx *Context) (err error) {
	cmd := ctx.Command

	if cmd.GuildOnly && ctx.IsDM() {
		return &NoPrivateMessageError{}
	}
	if cmd.OwnerOnly && (r.owners == nil || !r.owners.IsOwner(ctx.Author.ID)) {
		return &NotOwnerError{}
	}
	if len(cmd.Permissions) > 0 {
		held, err := r.permissionsFor(ctx, ctx.Author.ID)
		if err != nil {
			return err
		}
		if missing := MissingPermissions(cmd.Permissions, held); len(missing) > 0 {
			return &MissingPermissionsError{Missing: missing}
		}
	}
	if len(cmd.BotPermissions) > 0 {
		self := ctx.Transport.Self()
		if self == nil {
			return errors.New("bot user is not known yet")
		}
		held, err := r.permissionsFor(ctx, self.ID)
		if err != nil {
			return err
		}
		if missing := MissingPermissions(cmd.BotPermissions, held); len(missing) > 0 {
			return &BotMissingPermissionsError{Missing: missing}
		}
	}
	if cmd.Run == nil {
		return &MissingRequiredArgumentError{Param: "subcommand"}
	}
	if cmd.Cooldown != nil {
		if retry := cmd.Cooldown.Update(ctx, r.now()); retry > 0 {
			return &CooldownError{RetryAfter: retry, Cooldown: cmd.Cooldown}
		}
	}
	if err := ctx.bind(); err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			err = &CommandInvokeError{Command: cmd.QualifiedName(), Err: fmt.Errorf("panic: %v", p)}
		}
	}()
	if err := cmd.Run(ctx); err != nil {
		return &CommandInvokeError{Command: cmd.QualifiedName(), Err: err}
	}
	return nil
}

func (r *Router) permissionsFor(ctx *Context, userID string) (int64, error) {
	if ctx.IsDM() {
		return DMPermissions, nil
	}
	held, err := ctx.Transport.Permissions(userID, ctx.ChannelID)
	if err != nil {
		return 0, fmt.Errorf("resolve permissions: %w", err)
	}
	return held, nil
}

// fail hands err to the error hook and logs whatever the hook gives back.
func (r *Router) fail(ctx *Context, err error) {
	if r.hooks != nil {
		err = r.hooks.OnCommandError(ctx, err)
	}
	if err == nil {
		return
	}

	var notFound *CommandNotFoundError
	if errors.As(err, &notFound) {
		r.log.Debug().Str("command", notFound.Name).Msg(err.Error())
		return
	}

	name := ctx.InvokedWith
	if ctx.Command != nil {
		name = ctx.Command.QualifiedName()
	}
	r.log.Error().
		Str("error_type", fmt.Sprintf("%T", err)).
		Err(err).
		Msgf("Ignoring exception in command %s", name)
}

func validateCommand(cmd *Command) error {
	if strings.TrimSpace(cmd.Name) == "" {
		return errors.New("command name is empty")
	}
	if strings.ContainsAny(cmd.Name, " \t\n") {
		return errors.New("command name contains whitespace")
	}
	if _, err := PermissionBits(cmd.Permissions...); err != nil {
		return err
	}
	if _, err := PermissionBits(cmd.BotPermissions...); err != nil {
		return err
	}
	for i, p := range cmd.Params {
		if p.Rest && i != len(cmd.Params)-1 {
			return fmt.Errorf("param %q: only the last param may consume the rest", p.Name)
		}
	}
	for _, sub := range cmd.Subcommands {
		if err := validateCommand(sub); err != nil {
			return fmt.Errorf("subcommand %q: %w", sub.Name, err)
		}
	}
	return nil
}
