// Package commandstest provides an in-memory commands.Transport for tests.
package commandstest

import (
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	paginator "github.com/topi314/dgo-paginator"
)

// Sent is one outgoing message recorded by Transport.
type Sent struct {
	ChannelID   string
	Interaction *discordgo.Interaction
	Content     string
	Embeds      []*discordgo.MessageEmbed
	Paginator   *paginator.Paginator
	Followup    bool
}

// Moderation records a kick or ban.
type Moderation struct {
	Action  string
	GuildID string
	UserID  string
	Reason  string
}

// Transport records everything sent through it. Permissions are looked up in
// Perms by user ID.
type Transport struct {
	mu sync.Mutex

	User       *discordgo.User
	Perms      map[string]int64
	PermErr    error
	SendErr    error
	ModErr     error
	Guilds     map[string]string
	Ping       time.Duration
	Sent       []Sent
	Moderation []Moderation
}

func New(self *discordgo.User) *Transport {
	return &Transport{
		User:   self,
		Perms:  make(map[string]int64),
		Guilds: make(map[string]string),
	}
}

func (t *Transport) record(s Sent) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.SendErr != nil {
		return t.SendErr
	}
	t.Sent = append(t.Sent, s)
	return nil
}

func (t *Transport) SendText(channelID, content string) error {
	return t.record(Sent{ChannelID: channelID, Content: content})
}

func (t *Transport) SendEmbed(channelID string, embed *discordgo.MessageEmbed) error {
	return t.record(Sent{ChannelID: channelID, Embeds: []*discordgo.MessageEmbed{embed}})
}

func (t *Transport) SendPaginator(channelID string, pg *paginator.Paginator) error {
	return t.record(Sent{ChannelID: channelID, Paginator: pg})
}

func (t *Transport) Respond(i *discordgo.Interaction, data *discordgo.InteractionResponseData) error {
	return t.record(Sent{Interaction: i, Content: data.Content, Embeds: data.Embeds})
}

func (t *Transport) Followup(i *discordgo.Interaction, data *discordgo.InteractionResponseData) error {
	return t.record(Sent{Interaction: i, Content: data.Content, Embeds: data.Embeds, Followup: true})
}

func (t *Transport) RespondPaginator(i *discordgo.Interaction, pg *paginator.Paginator) error {
	return t.record(Sent{Interaction: i, Paginator: pg})
}

func (t *Transport) Permissions(userID, channelID string) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.PermErr != nil {
		return 0, t.PermErr
	}
	return t.Perms[userID], nil
}

func (t *Transport) GuildName(guildID string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if name, ok := t.Guilds[guildID]; ok {
		return name
	}
	return guildID
}

func (t *Transport) Self() *discordgo.User { return t.User }

func (t *Transport) Latency() time.Duration { return t.Ping }

func (t *Transport) Kick(guildID, userID, reason string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ModErr != nil {
		return t.ModErr
	}
	t.Moderation = append(t.Moderation, Moderation{Action: "kick", GuildID: guildID, UserID: userID, Reason: reason})
	return nil
}

func (t *Transport) Ban(guildID, userID, reason string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ModErr != nil {
		return t.ModErr
	}
	t.Moderation = append(t.Moderation, Moderation{Action: "ban", GuildID: guildID, UserID: userID, Reason: reason})
	return nil
}

// Messages returns a copy of what has been sent so far.
func (t *Transport) Messages() []Sent {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Sent(nil), t.Sent...)
}

// Last returns the most recent message, or the zero value.
func (t *Transport) Last() Sent {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.Sent) == 0 {
		return Sent{}
	}
	return t.Sent[len(t.Sent)-1]
}
