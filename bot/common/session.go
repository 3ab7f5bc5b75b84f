package common

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// Session is the subset of the Discord REST API used by the features.
// *StateSession implements it over a live *discordgo.Session.
type Session interface {
	// BotUserID returns the id of the bot account
	BotUserID() string

	Guild(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error)
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	User(userID string, options ...discordgo.RequestOption) (*discordgo.User, error)

	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelDelete(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)

	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error

	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
}

// StateSession serves guild and channel lookups from the gateway state cache
// and falls back to REST on a miss
type StateSession struct {
	*discordgo.Session
}

// NewStateSession wraps a discordgo session
func NewStateSession(s *discordgo.Session) *StateSession {
	return &StateSession{Session: s}
}

// BotUserID returns the id of the logged in bot account, or "" before Ready
func (s *StateSession) BotUserID() string {
	if s.State == nil || s.State.User == nil {
		return ""
	}
	return s.State.User.ID
}

// Guild returns a guild from state, fetching it when not cached
func (s *StateSession) Guild(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error) {
	if s.State != nil {
		if g, err := s.State.Guild(guildID); err == nil {
			return g, nil
		}
	}
	return s.Session.Guild(guildID, options...)
}

// Channel returns a channel from state, fetching it when not cached
func (s *StateSession) Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	if s.State != nil {
		if c, err := s.State.Channel(channelID); err == nil {
			return c, nil
		}
	}
	return s.Session.Channel(channelID, options...)
}

// SendDM opens a DM channel with the user and posts content to it
func SendDM(ctx context.Context, s Session, userID, content string) error {
	ch, err := s.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return err
	}
	_, err = s.ChannelMessageSend(ch.ID, content, discordgo.WithContext(ctx))
	return err
}
