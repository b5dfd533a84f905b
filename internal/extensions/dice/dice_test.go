package dice

import (
	"math/rand/v2"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whotypes/dndspawner/internal/commands"
	"github.com/whotypes/dndspawner/internal/commands/commandstest"
	"github.com/whotypes/dndspawner/internal/discord"
)

func TestParseRoll(t *testing.T) {
	tests := []struct {
		in      string
		want    Roll
		wantErr error
	}{
		{in: "d20", want: Roll{Count: 1, Sides: 20}},
		{in: "2d6", want: Roll{Count: 2, Sides: 6}},
		{in: " 4D8+3 ", want: Roll{Count: 4, Sides: 8, Modifier: 3}},
		{in: "1d4-1", want: Roll{Count: 1, Sides: 4, Modifier: -1}},
		{in: "", wantErr: ErrInvalidDice},
		{in: "20", wantErr: ErrInvalidDice},
		{in: "2d", wantErr: ErrInvalidDice},
		{in: "0d6", wantErr: ErrInvalidDice},
		{in: "1d1", wantErr: ErrInvalidDice},
		{in: "2d6+", wantErr: ErrInvalidDice},
		{in: "101d6", wantErr: ErrTooManyDice},
		{in: "1d1001", wantErr: ErrTooManyDice},
		{in: "1d6+1001", wantErr: ErrModifier},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRoll(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRollString(t *testing.T) {
	assert.Equal(t, "2d6+3", Roll{Count: 2, Sides: 6, Modifier: 3}.String())
	assert.Equal(t, "1d4-1", Roll{Count: 1, Sides: 4, Modifier: -1}.String())
	assert.Equal(t, "1d20", Roll{Count: 1, Sides: 20}.String())
}

func TestThrow(t *testing.T) {
	d := NewWithRand(zerolog.Nop(), rand.New(rand.NewPCG(1, 2)))
	r := Roll{Count: 50, Sides: 6, Modifier: -3}

	rolls, total := d.Throw(r)

	require.Len(t, rolls, 50)
	sum := 0
	for _, v := range rolls {
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 6)
		sum += v
	}
	assert.Equal(t, sum-3, total)
}

func TestParseChallengeRating(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"1/8", "1/8"},
		{"0.25", "1/4"},
		{"1/2", "1/2"},
		{"3", "3"},
		{"30", "30"},
	}
	for _, tt := range tests {
		cr, err := ParseChallengeRating(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, cr.String())
	}

	for _, in := range []string{"", "-1", "31", "1/3", "owlbear"} {
		_, err := ParseChallengeRating(in)
		assert.ErrorIs(t, err, ErrInvalidChallengeRating, in)
	}
}

func TestEncounter(t *testing.T) {
	d := NewWithRand(zerolog.Nop(), rand.New(rand.NewPCG(3, 4)))

	for _, r := range ratings {
		m, table, n := d.Encounter(r)
		assert.Equal(t, r, table)
		assert.Contains(t, encounters[r], m)
		assert.GreaterOrEqual(t, n, 1)
	}

	_, table, _ := d.Encounter(ChallengeRating(12 * 8))
	assert.Equal(t, ChallengeRating(11*8), table, "ratings without a table use the next lower one")
}

func newTestClient(t *testing.T) *discord.Client {
	t.Helper()
	registry := []discord.Entry{{Name: "dice", New: func(deps discord.ExtensionDeps) (commands.Extension, error) {
		return NewWithRand(deps.Log, rand.New(rand.NewPCG(5, 6))), nil
	}}}
	c := discord.NewClient(zerolog.Nop(), registry, nil, discord.Options{Prefix: "!"})
	require.NoError(t, c.LoadExtension("dice"))
	return c
}

func send(c *discord.Client, tr *commandstest.Transport, userID, content string) {
	c.Router().Process(tr, &discordgo.Message{
		ID:        "1",
		ChannelID: "10",
		GuildID:   "20",
		Content:   content,
		Author:    &discordgo.User{ID: userID, Username: "tasha"},
	})
}

func TestRollCommand(t *testing.T) {
	c := newTestClient(t)
	tr := commandstest.New(nil)

	send(c, tr, "30", "!roll 2d6+3")

	embed := tr.Last().Embeds[0]
	assert.Equal(t, "🎲 2d6+3", embed.Title)
	assert.Regexp(t, `^\[\d, \d\] \+ 3 = \*\*\d+\*\*$`, embed.Description)

	send(c, tr, "30", "!r 1d20")
	embed = tr.Last().Embeds[0]
	assert.Equal(t, discord.ErrorColor, embed.Color)
	assert.Contains(t, embed.Description, "**Please slow down**")

	send(c, tr, "31", "!roll fireball")
	embed = tr.Last().Embeds[0]
	assert.Equal(t, "Error!", embed.Title)
	assert.Contains(t, embed.Description, "Cannot roll `fireball`")
}

func TestRollCommand_MissingArgument(t *testing.T) {
	c := newTestClient(t)
	tr := commandstest.New(nil)

	send(c, tr, "30", "!roll")

	embed := tr.Last().Embeds[0]
	assert.Equal(t, "Error!", embed.Title)
	assert.Equal(t, "Dice is a required argument that is missing.", embed.Description)
}

func TestSpawnCommand(t *testing.T) {
	c := newTestClient(t)
	tr := commandstest.New(nil)

	send(c, tr, "30", "!spawn 1/4")

	embed := tr.Last().Embeds[0]
	assert.Equal(t, "⚔️ Encounter", embed.Title)
	assert.Contains(t, embed.Description, "appear")
	assert.Equal(t, "1/4", embed.Fields[0].Value)

	send(c, tr, "31", "!spawn 99")
	assert.Contains(t, tr.Last().Embeds[0].Description, "Cannot spawn `99`")
}
