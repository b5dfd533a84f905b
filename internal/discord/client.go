// Package discord wires the command framework to a discordgo session: gateway
// callbacks, extension loading, error replies and the command audit trail.
package discord

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	paginator "github.com/topi314/dgo-paginator"
	"github.com/whotypes/dndspawner/internal/audit"
	"github.com/whotypes/dndspawner/internal/commands"
)

const (
	separator    = "-------------------"
	auditTimeout = 5 * time.Second
)

// Dispatcher hands parsed input to command dispatch.
type Dispatcher interface {
	Process(t commands.Transport, m *discordgo.Message)
	ProcessInteraction(t commands.Transport, i *discordgo.Interaction)
}

type Options struct {
	Prefix string
	// Owners may run owner only commands. When empty, the application owner
	// (or its team) is resolved on the first ready event.
	Owners       []string
	SyncCommands bool
	Now          func() time.Time
}

type Client struct {
	log      zerolog.Logger
	router   *commands.Router
	dispatch Dispatcher
	loader   *Loader
	audit    audit.Store
	pages    *paginator.Manager
	opts     Options

	mu        sync.RWMutex
	owners    map[string]bool
	user      *discordgo.User
	session   *discordgo.Session
	ready     bool
	startedAt time.Time

	readyOnce    sync.Once
	shutdown     chan struct{}
	shutdownOnce sync.Once
	pending      sync.WaitGroup
}

// NewClient builds a client whose extensions come from registry. store may be
// nil to disable the audit trail.
func NewClient(log zerolog.Logger, registry []Entry, store audit.Store, opts Options) *Client {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	c := &Client{
		log:       log,
		audit:     store,
		pages:     NewPaginatorManager(),
		opts:      opts,
		owners:    make(map[string]bool),
		startedAt: opts.Now(),
		shutdown:  make(chan struct{}),
	}
	for _, id := range opts.Owners {
		c.owners[id] = true
	}
	c.router = commands.NewRouter(commands.Options{
		Prefix: opts.Prefix,
		Owners: c,
		Hooks:  c,
		Log:    log,
		Now:    opts.Now,
	})
	c.dispatch = c.router
	c.loader = NewLoader(log, c.router, registry, ExtensionDeps{Log: log, Bot: c})
	return c
}

func (c *Client) Router() *commands.Router { return c.router }

// OnReady runs the startup sequence on the first ready event. Later ready
// events come from reconnects and only refresh the session.
func (c *Client) OnReady(s *discordgo.Session, r *discordgo.Ready) {
	c.mu.Lock()
	c.session = s
	c.user = r.User
	c.mu.Unlock()

	first := false
	c.readyOnce.Do(func() { first = true })
	if !first {
		c.log.Info().Msg("Reconnected to Discord")
		return
	}

	if !c.hasOwners() {
		c.resolveOwners(s)
	}
	c.setup(r.User, func() {
		if c.opts.SyncCommands {
			c.syncCommands(s, r.User.ID)
		}
	})
}

// setup logs the environment, loads every extension and marks the client ready.
func (c *Client) setup(user *discordgo.User, afterLoad func()) {
	c.log.Info().Msgf("Logged in as %s", displayName(user))
	c.log.Info().Msgf("discordgo version: %s (API v%s)", discordgo.VERSION, discordgo.APIVersion)
	c.log.Info().Msgf("Go version: %s", runtime.Version())
	c.log.Info().Msgf("Running on: %s %s", runtime.GOOS, runtime.GOARCH)
	c.log.Info().Msg(separator)
	c.loader.LoadAll()
	if afterLoad != nil {
		afterLoad()
	}
	c.log.Info().Msg(separator)

	c.mu.Lock()
	c.ready = true
	c.mu.Unlock()
	c.log.Info().Msg("Bot is up and running")
}

func (c *Client) resolveOwners(s *discordgo.Session) {
	app, err := s.Application("@me")
	if err != nil {
		c.log.Warn().Err(err).Msg("Could not resolve the application owner; owner only commands are disabled")
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if app.Team != nil {
		for _, m := range app.Team.Members {
			if m.User != nil {
				c.owners[m.User.ID] = true
			}
		}
	} else if app.Owner != nil {
		c.owners[app.Owner.ID] = true
	}
}

// syncCommands replaces the registered application commands with the hybrid
// commands of the router.
func (c *Client) syncCommands(s *discordgo.Session, appID string) {
	cmds := c.router.ApplicationCommands()

	registered, err := s.ApplicationCommands(appID, "")
	if err != nil {
		c.log.Warn().Err(err).Msg("Failed to get registered commands")
	} else {
		for _, rc := range registered {
			keep := false
			for _, cmd := range cmds {
				if rc.Name == cmd.Name {
					keep = true
					break
				}
			}
			if keep {
				continue
			}
			c.log.Info().Msgf("Removing old command: /%s", rc.Name)
			if err := s.ApplicationCommandDelete(appID, "", rc.ID); err != nil {
				c.log.Warn().Err(err).Msgf("Failed to delete command '%s'", rc.Name)
			}
		}
	}

	for _, cmd := range cmds {
		if _, err := s.ApplicationCommandCreate(appID, "", cmd); err != nil {
			c.log.Error().Err(err).Msgf("Cannot create '%s' command", cmd.Name)
			continue
		}
		c.log.Debug().Msgf("Registered command: /%s", cmd.Name)
	}
}

func (c *Client) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	c.handleMessage(c.transport(s), m.Message)
}

// handleMessage drops messages written by this bot or any other bot before
// they reach command dispatch.
func (c *Client) handleMessage(t commands.Transport, m *discordgo.Message) {
	if m == nil || m.Author == nil {
		return
	}
	if m.Author.Bot {
		return
	}
	if self := t.Self(); self != nil && m.Author.ID == self.ID {
		return
	}
	c.dispatch.Process(t, m)
}

func (c *Client) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		// let the paginator handle button clicks
		c.pages.OnInteractionCreate(s, i)
	case discordgo.InteractionApplicationCommand:
		c.dispatch.ProcessInteraction(c.transport(s), i.Interaction)
	}
}

func (c *Client) transport(s *discordgo.Session) commands.Transport {
	return commands.NewSessionTransport(s, c.pages)
}

// OnCommandCompletion logs who ran which command where and records it.
func (c *Client) OnCommandCompletion(ctx *commands.Context) {
	root := ctx.Command.Root().Name
	if ctx.IsDM() {
		c.log.Info().Msgf("Executed %s command by %s (ID: %s) in DMs",
			root, displayName(ctx.Author), ctx.Author.ID)
	} else {
		c.log.Info().Msgf("Executed %s command in %s (ID: %s) by %s (ID: %s)",
			root, ctx.GuildName(), ctx.GuildID, displayName(ctx.Author), ctx.Author.ID)
	}
	c.record(ctx)
}

// OnCommandError replies to recognised failures. Anything else is returned
// unchanged for the router's default handler.
func (c *Client) OnCommandError(ctx *commands.Context, err error) error {
	kind := commands.Classify(err)
	embed, ok := errorEmbed(kind)
	if !ok {
		return err
	}

	if _, notOwner := kind.(*commands.NotOwnerError); notOwner {
		if ctx.IsDM() {
			c.log.Warn().Msgf("%s (ID: %s) tried to execute an owner only command in the bot's DMs, but the user is not an owner of the bot.",
				displayName(ctx.Author), ctx.Author.ID)
		} else {
			c.log.Warn().Msgf("%s (ID: %s) tried to execute an owner only command in the guild %s (ID: %s), but the user is not an owner of the bot.",
				displayName(ctx.Author), ctx.Author.ID, ctx.GuildName(), ctx.GuildID)
		}
	}

	if sendErr := ctx.ReplyEmbed(embed); sendErr != nil {
		c.log.Warn().Err(sendErr).Msg("Failed to send error reply")
	}
	return nil
}

// record stores an audit entry in the background. Failures are only logged.
func (c *Client) record(ctx *commands.Context) {
	if c.audit == nil {
		return
	}
	r := audit.Record{
		Command:       ctx.Command.Root().Name,
		QualifiedName: ctx.Command.QualifiedName(),
		AuthorID:      ctx.Author.ID,
		AuthorName:    displayName(ctx.Author),
		GuildID:       ctx.GuildID,
		GuildName:     ctx.GuildName(),
		ChannelID:     ctx.ChannelID,
		DM:            ctx.IsDM(),
		ExecutedAt:    c.opts.Now().UTC(),
	}

	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		bg, cancel := context.WithTimeout(context.Background(), auditTimeout)
		defer cancel()
		if _, err := c.audit.Add(bg, r); err != nil {
			c.log.Warn().Err(err).Str("command", r.QualifiedName).Msg("Failed to record command")
		}
	}()
}

// IsOwner implements commands.OwnerChecker.
func (c *Client) IsOwner(userID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.owners[userID]
}

func (c *Client) hasOwners() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.owners) > 0
}

func (c *Client) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// User is the bot account, known after the first ready event.
func (c *Client) User() *discordgo.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user
}

func (c *Client) Latency() time.Duration {
	c.mu.RLock()
	s := c.session
	c.mu.RUnlock()
	if s == nil {
		return 0
	}
	return s.HeartbeatLatency()
}

func (c *Client) Prefix() string { return c.router.Prefix() }

func (c *Client) Commands() []*commands.Command { return c.router.Commands() }

func (c *Client) Lookup(name string) (*commands.Command, bool) { return c.router.Lookup(name) }

func (c *Client) ExtensionOf(cmd *commands.Command) string { return c.router.ExtensionOf(cmd) }

func (c *Client) Extensions() []ExtensionStatus { return c.loader.Statuses() }

func (c *Client) LoadExtension(name string) error { return c.loader.Load(name) }

func (c *Client) UnloadExtension(name string) error { return c.loader.Unload(name) }

func (c *Client) ReloadExtension(name string) error { return c.loader.Reload(name) }

func (c *Client) Uptime() time.Duration { return c.opts.Now().Sub(c.startedAt) }

// Shutdown asks the process to stop. It is safe to call more than once.
func (c *Client) Shutdown() {
	c.shutdownOnce.Do(func() {
		c.log.Warn().Msg("Shutdown requested")
		close(c.shutdown)
	})
}

// Done is closed once Shutdown has been called.
func (c *Client) Done() <-chan struct{} { return c.shutdown }

// Close unloads every extension and waits for pending audit writes.
func (c *Client) Close() {
	c.loader.UnloadAll()
	c.pending.Wait()
}

// displayName renders a user the way Discord shows them: the username, plus
// the discriminator for accounts that still have one.
func displayName(u *discordgo.User) string {
	if u == nil {
		return ""
	}
	if u.Discriminator == "" || u.Discriminator == "0" {
		return u.Username
	}
	return u.Username + "#" + u.Discriminator
}
