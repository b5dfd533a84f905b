package moderation

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whotypes/dndspawner/internal/commands/commandstest"
	"github.com/whotypes/dndspawner/internal/discord"
)

const (
	botID    = "100000000000000001"
	modID    = "100000000000000002"
	targetID = "100000000000000003"
	guildID  = "100000000000000004"

	kickMembers = int64(1 << 1)
	banMembers  = int64(1 << 2)
)

func TestParseMember(t *testing.T) {
	for _, in := range []string{"<@" + targetID + ">", "<@!" + targetID + ">", targetID} {
		id, err := ParseMember(in)
		require.NoError(t, err, in)
		assert.Equal(t, targetID, id)
	}
	for _, in := range []string{"", "@tasha", "<@123>", "<#" + targetID + ">"} {
		_, err := ParseMember(in)
		assert.ErrorIs(t, err, ErrInvalidMember, in)
	}
}

func setup(t *testing.T) (*discord.Client, *commandstest.Transport) {
	t.Helper()
	c := discord.NewClient(zerolog.Nop(), []discord.Entry{{Name: "moderation", New: New}}, nil, discord.Options{Prefix: "!"})
	require.NoError(t, c.LoadExtension("moderation"))
	tr := commandstest.New(&discordgo.User{ID: botID, Bot: true})
	tr.Perms[modID] = kickMembers | banMembers
	tr.Perms[botID] = kickMembers | banMembers
	return c, tr
}

func send(c *discord.Client, tr *commandstest.Transport, guild, content string) {
	c.Router().Process(tr, &discordgo.Message{
		ID:        "1",
		ChannelID: "10",
		GuildID:   guild,
		Content:   content,
		Author:    &discordgo.User{ID: modID, Username: "tasha"},
	})
}

func TestKick(t *testing.T) {
	c, tr := setup(t)

	send(c, tr, guildID, "!kick <@"+targetID+"> stole the party loot")

	require.Len(t, tr.Moderation, 1)
	assert.Equal(t, commandstest.Moderation{Action: "kick", GuildID: guildID, UserID: targetID, Reason: "stole the party loot"}, tr.Moderation[0])
	embed := tr.Last().Embeds[0]
	assert.Equal(t, "**<@"+targetID+">** was kicked by **tasha**!", embed.Description)
	assert.Equal(t, "stole the party loot", embed.Fields[0].Value)
}

func TestBan_DefaultReason(t *testing.T) {
	c, tr := setup(t)

	send(c, tr, guildID, "!ban "+targetID)

	require.Len(t, tr.Moderation, 1)
	assert.Equal(t, "ban", tr.Moderation[0].Action)
	assert.Equal(t, defaultReason, tr.Moderation[0].Reason)
}

func TestModeration_Refusals(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"self", "!kick <@" + modID + ">", "You cannot kick yourself."},
		{"bot", "!ban <@" + botID + ">", "I cannot ban myself."},
		{"not a member", "!kick tasha", "`tasha` is not a member"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, tr := setup(t)
			send(c, tr, guildID, tt.content)
			assert.Empty(t, tr.Moderation)
			assert.Contains(t, tr.Last().Embeds[0].Description, tt.want)
		})
	}
}

func TestModeration_Checks(t *testing.T) {
	c, tr := setup(t)
	tr.Perms[modID] = kickMembers
	tr.Perms[botID] = banMembers

	send(c, tr, guildID, "!ban "+targetID)
	assert.Equal(t, "You are missing the permission(s) `ban_members` to execute this command!", tr.Last().Embeds[0].Description)

	send(c, tr, guildID, "!kick "+targetID)
	assert.Equal(t, "I am missing the permission(s) `kick_members` to fully perform this command!", tr.Last().Embeds[0].Description)

	assert.Empty(t, tr.Moderation)
}

func TestModeration_GuildOnly(t *testing.T) {
	c, tr := setup(t)

	// not a recognised failure, so nothing is sent back
	send(c, tr, "", "!kick "+targetID)

	assert.Empty(t, tr.Messages())
	assert.Empty(t, tr.Moderation)
}

func TestModeration_APIFailure(t *testing.T) {
	c, tr := setup(t)
	tr.ModErr = errors.New("missing permissions")

	send(c, tr, guildID, "!kick "+targetID)

	assert.Contains(t, tr.Last().Embeds[0].Description, "An error occurred while trying to kick the user.")
}
