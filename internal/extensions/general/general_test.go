package general

import (
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whotypes/dndspawner/internal/commands"
	"github.com/whotypes/dndspawner/internal/commands/commandstest"
	"github.com/whotypes/dndspawner/internal/discord"
)

type extraCommands []*commands.Command

func (e extraCommands) Commands() []*commands.Command { return e }

func newTestClient(t *testing.T, extra ...*commands.Command) *discord.Client {
	t.Helper()
	registry := []discord.Entry{
		{Name: "general", New: New},
		{Name: "extra", New: func(discord.ExtensionDeps) (commands.Extension, error) { return extraCommands(extra), nil }},
	}
	c := discord.NewClient(zerolog.Nop(), registry, nil, discord.Options{Prefix: "!"})
	require.NoError(t, c.LoadExtension("general"))
	require.NoError(t, c.LoadExtension("extra"))
	return c
}

func send(c *discord.Client, tr *commandstest.Transport, content string) {
	c.Router().Process(tr, &discordgo.Message{
		ID:        "1",
		ChannelID: "10",
		GuildID:   "20",
		Content:   content,
		Author:    &discordgo.User{ID: "30", Username: "tasha"},
	})
}

func TestPing(t *testing.T) {
	c := newTestClient(t)
	tr := commandstest.New(&discordgo.User{ID: "99"})
	tr.Ping = 42 * time.Millisecond

	send(c, tr, "!ping")

	require.Len(t, tr.Messages(), 1)
	embed := tr.Last().Embeds[0]
	assert.Equal(t, "🏓 Pong!", embed.Title)
	assert.Equal(t, "The bot latency is 42ms.", embed.Description)
}

func TestHelp_SinglePage(t *testing.T) {
	c := newTestClient(t, &commands.Command{
		Name:        "roll",
		Description: "Roll some dice.",
		Params:      []commands.Param{{Name: "dice"}},
	})
	tr := commandstest.New(nil)

	send(c, tr, "!help")

	require.Len(t, tr.Messages(), 1)
	embed := tr.Last().Embeds[0]
	assert.Equal(t, "Help", embed.Title)
	assert.Contains(t, embed.Description, "• **!roll <dice>** - Roll some dice.")
	assert.Contains(t, embed.Description, "• **!ping** - Check if the bot is alive.")
}

func TestHelp_Paginates(t *testing.T) {
	var extra []*commands.Command
	for i := 0; i < 12; i++ {
		extra = append(extra, &commands.Command{Name: fmt.Sprintf("spell%02d", i)})
	}
	c := newTestClient(t, extra...)
	tr := commandstest.New(nil)

	send(c, tr, "!commands")

	require.Len(t, tr.Messages(), 1)
	pg := tr.Last().Paginator
	require.NotNil(t, pg)
	assert.Equal(t, 2, pg.MaxPages)

	embed := &discordgo.MessageEmbed{}
	pg.PageFunc(1, embed)
	assert.Equal(t, "Page 2/2 • Use the buttons below to navigate", embed.Footer.Text)
	assert.Contains(t, embed.Description, "spell11")
}

func TestHelp_Command(t *testing.T) {
	c := newTestClient(t, &commands.Command{
		Name:        "ext",
		Description: "Manage extensions.",
		OwnerOnly:   true,
		Subcommands: []*commands.Command{
			{Name: "reload", Description: "Reload an extension.", Params: []commands.Param{{Name: "name"}}, Run: func(*commands.Context) error { return nil }},
		},
	})
	tr := commandstest.New(nil)

	send(c, tr, "!help ext reload")

	embed := tr.Last().Embeds[0]
	assert.Equal(t, "!ext reload", embed.Title)
	assert.Equal(t, "Reload an extension.", embed.Description)
	assert.Equal(t, "`!ext reload <name>`", embed.Fields[0].Value)
	assert.Equal(t, "Extension: extra", embed.Footer.Text)

	send(c, tr, "!help ext")
	embed = tr.Last().Embeds[0]
	assert.Equal(t, "!ext", embed.Title)
	var names []string
	for _, f := range embed.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Usage", "Subcommands", "Restricted"}, names)
}

func TestHelp_UnknownCommandSuggests(t *testing.T) {
	c := newTestClient(t)
	tr := commandstest.New(nil)

	send(c, tr, "!help pnig")

	embed := tr.Last().Embeds[0]
	assert.Equal(t, discord.ErrorColor, embed.Color)
	assert.Equal(t, "No command called `pnig` found. Did you mean `!ping`?", embed.Description)

	send(c, tr, "!help fireball")
	assert.Equal(t, "No command called `fireball` found. Use `!help` for available commands.", tr.Last().Embeds[0].Description)
}

func TestBotinfo(t *testing.T) {
	c := newTestClient(t)
	tr := commandstest.New(nil)

	send(c, tr, "!info")

	embed := tr.Last().Embeds[0]
	fields := make(map[string]string)
	for _, f := range embed.Fields {
		fields[f.Name] = f.Value
	}
	assert.Equal(t, "2/2 loaded", fields["Extensions"])
	assert.Equal(t, "3", fields["Commands"])
	assert.Contains(t, fields["Prefix"], "`!`")
	assert.Equal(t, "Requested by tasha", embed.Footer.Text)
}
