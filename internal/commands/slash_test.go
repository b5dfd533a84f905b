package commands

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whotypes/dndspawner/internal/commands/commandstest"
)

func TestDescribe(t *testing.T) {
	assert.Equal(t, defaultDescription, describe(""))

	exact := strings.Repeat("a", maxDescription)
	assert.Equal(t, exact, describe(exact))

	long := describe(strings.Repeat("🐉", 120))
	assert.True(t, utf8.ValidString(long))
	assert.Equal(t, maxDescription, utf8.RuneCountInString(long))
	assert.True(t, strings.HasSuffix(long, "🐉..."))
}

func TestApplicationCommands(t *testing.T) {
	r := newTestRouter(t, &recordedHooks{},
		&Command{Name: "roll", Hybrid: true, Description: "Roll dice", Params: []Param{
			{Name: "dice", Description: "NdM+K"},
			{Name: "note", Optional: true},
		}},
		&Command{Name: "kick"},
	)

	acs := r.ApplicationCommands()
	require.Len(t, acs, 1)
	assert.Equal(t, "roll", acs[0].Name)
	assert.Equal(t, "Roll dice", acs[0].Description)
	require.Len(t, acs[0].Options, 2)
	assert.True(t, acs[0].Options[0].Required)
	assert.False(t, acs[0].Options[1].Required)
	assert.Equal(t, defaultDescription, acs[0].Options[1].Description)
}

func slashInteraction(name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.Interaction {
	return &discordgo.Interaction{
		ID:        "i1",
		Type:      discordgo.InteractionApplicationCommand,
		GuildID:   "g1",
		ChannelID: "c1",
		Member:    &discordgo.Member{User: &discordgo.User{ID: "u1", Username: "tasha"}},
		Data:      discordgo.ApplicationCommandInteractionData{Name: name, Options: opts},
	}
}

func stringOption(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

func TestProcessInteraction(t *testing.T) {
	hooks := &recordedHooks{}
	r := newTestRouter(t, hooks,
		&Command{Name: "roll", Hybrid: true, Params: []Param{{Name: "dice"}, {Name: "note", Optional: true}},
			Run: func(ctx *Context) error {
				if err := ctx.Reply("rolled " + ctx.Arg("dice")); err != nil {
					return err
				}
				return ctx.Reply("again")
			}},
		&Command{Name: "kick", Run: func(*Context) error { return nil }},
	)
	tr := commandstest.New(&discordgo.User{ID: "bot"})

	r.ProcessInteraction(tr, slashInteraction("roll", stringOption("dice", "1d20")))

	require.Len(t, hooks.completed, 1)
	ctx := hooks.completed[0]
	assert.Equal(t, "u1", ctx.Author.ID)
	assert.Equal(t, "/", ctx.Prefix)
	assert.Equal(t, []string{"1d20"}, ctx.Args)

	sent := tr.Messages()
	require.Len(t, sent, 2)
	assert.Equal(t, "rolled 1d20", sent[0].Content)
	assert.False(t, sent[0].Followup)
	assert.True(t, sent[1].Followup)

	r.ProcessInteraction(tr, slashInteraction("kick"))
	require.Len(t, hooks.errs, 1)
	assert.IsType(t, &CommandNotFoundError{}, hooks.errs[0])

	r.ProcessInteraction(tr, slashInteraction("roll"))
	require.Len(t, hooks.errs, 2)
	assert.Equal(t, &MissingRequiredArgumentError{Param: "dice"}, hooks.errs[1])
}

func TestProcessInteraction_IgnoresComponents(t *testing.T) {
	hooks := &recordedHooks{}
	r := NewRouter(Options{Prefix: "!", Hooks: hooks, Log: zerolog.Nop()})

	r.ProcessInteraction(commandstest.New(nil), &discordgo.Interaction{Type: discordgo.InteractionMessageComponent})
	r.ProcessInteraction(commandstest.New(nil), nil)

	assert.Empty(t, hooks.completed)
	assert.Empty(t, hooks.errs)
}
