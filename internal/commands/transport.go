package commands

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	paginator "github.com/topi314/dgo-paginator"
)

// Transport is the subset of the Discord API commands talk to.
type Transport interface {
	SendText(channelID, content string) error
	SendEmbed(channelID string, embed *discordgo.MessageEmbed) error
	SendPaginator(channelID string, pg *paginator.Paginator) error

	// Respond answers an interaction for the first time.
	Respond(i *discordgo.Interaction, data *discordgo.InteractionResponseData) error
	// Followup sends further messages for an already answered interaction.
	Followup(i *discordgo.Interaction, data *discordgo.InteractionResponseData) error
	RespondPaginator(i *discordgo.Interaction, pg *paginator.Paginator) error

	// Permissions returns the effective permission bits of userID in channelID.
	Permissions(userID, channelID string) (int64, error)
	GuildName(guildID string) string
	Self() *discordgo.User
	Latency() time.Duration

	Kick(guildID, userID, reason string) error
	Ban(guildID, userID, reason string) error
}

// SessionTransport adapts a live discordgo session.
type SessionTransport struct {
	s  *discordgo.Session
	pm *paginator.Manager
}

func NewSessionTransport(s *discordgo.Session, pm *paginator.Manager) *SessionTransport {
	return &SessionTransport{s: s, pm: pm}
}

func (t *SessionTransport) SendText(channelID, content string) error {
	_, err := t.s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: content,
		Flags:   discordgo.MessageFlagsSuppressEmbeds,
	})
	return err
}

func (t *SessionTransport) SendEmbed(channelID string, embed *discordgo.MessageEmbed) error {
	_, err := t.s.ChannelMessageSendEmbed(channelID, embed)
	return err
}

func (t *SessionTransport) SendPaginator(channelID string, pg *paginator.Paginator) error {
	if t.pm == nil {
		return fmt.Errorf("no paginator manager configured")
	}
	return t.pm.CreateMessage(t.s, channelID, pg)
}

func (t *SessionTransport) Respond(i *discordgo.Interaction, data *discordgo.InteractionResponseData) error {
	return t.s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

func (t *SessionTransport) Followup(i *discordgo.Interaction, data *discordgo.InteractionResponseData) error {
	_, err := t.s.FollowupMessageCreate(i, true, &discordgo.WebhookParams{
		Content: data.Content,
		Embeds:  data.Embeds,
		Flags:   data.Flags,
	})
	return err
}

func (t *SessionTransport) RespondPaginator(i *discordgo.Interaction, pg *paginator.Paginator) error {
	if t.pm == nil {
		return fmt.Errorf("no paginator manager configured")
	}
	return t.pm.CreateInteraction(t.s, i, pg, false)
}

func (t *SessionTransport) Permissions(userID, channelID string) (int64, error) {
	return t.s.UserChannelPermissions(userID, channelID)
}

func (t *SessionTransport) GuildName(guildID string) string {
	if t.s.State != nil {
		if g, err := t.s.State.Guild(guildID); err == nil && g.Name != "" {
			return g.Name
		}
	}
	if g, err := t.s.Guild(guildID); err == nil {
		return g.Name
	}
	return guildID
}

func (t *SessionTransport) Self() *discordgo.User {
	if t.s.State == nil {
		return nil
	}
	return t.s.State.User
}

func (t *SessionTransport) Latency() time.Duration {
	return t.s.HeartbeatLatency()
}

func (t *SessionTransport) Kick(guildID, userID, reason string) error {
	return t.s.GuildMemberDeleteWithReason(guildID, userID, reason)
}

func (t *SessionTransport) Ban(guildID, userID, reason string) error {
	return t.s.GuildBanCreateWithReason(guildID, userID, reason, 0)
}
