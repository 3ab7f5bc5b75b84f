package membership

import (
	"context"

	"xenory/bot/common"
	"xenory/events"
	"xenory/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// DefaultWelcomeMessage is posted when a welcome channel is set without a template
const DefaultWelcomeMessage = "Welcome {user}!"

// fallbackGuildName replaces {server} when the guild cannot be resolved
const fallbackGuildName = "the server"

// Feature grants the restricted role and welcomes new members
type Feature struct {
	session   common.Session
	configs   service.GuildConfigService
	publisher events.Publisher
}

// NewFeature creates a new membership feature instance
func NewFeature(session common.Session, configs service.GuildConfigService, publisher events.Publisher) *Feature {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Feature{
		session:   session,
		configs:   configs,
		publisher: publisher,
	}
}

// HandleMemberJoin runs the join actions configured for the member's guild.
// Every platform call is advisory; one failing does not skip the others.
func (f *Feature) HandleMemberJoin(ctx context.Context, m *discordgo.GuildMemberAdd) {
	if m.Member == nil || m.User == nil || m.User.Bot {
		return
	}

	fields := log.Fields{
		"guild_id": m.GuildID,
		"user_id":  m.User.ID,
	}
	cfg := f.configs.Get(ctx, m.GuildID)
	event := events.MemberJoinedEvent{GuildID: m.GuildID, UserID: m.User.ID}

	if cfg.HasRestrictedRole() {
		event.RestrictedRole = common.Advisory("grant_restricted_role", fields, func() error {
			return f.session.GuildMemberRoleAdd(m.GuildID, m.User.ID, cfg.RestrictedRole(), discordgo.WithContext(ctx))
		}).OK()
	}

	if cfg.HasWelcomeChannel() || cfg.ShouldSendWelcomeDM() {
		guildName := f.guildName(m.GuildID)

		if cfg.HasWelcomeChannel() {
			template := cfg.WelcomeMessage()
			if template == "" {
				template = DefaultWelcomeMessage
			}
			content := common.ExpandPlaceholders(template, m.User, guildName)
			event.WelcomePosted = common.Advisory("post_welcome", fields, func() error {
				_, err := f.session.ChannelMessageSend(cfg.WelcomeChannel(), content, discordgo.WithContext(ctx))
				return err
			}).OK()
		}

		if cfg.ShouldSendWelcomeDM() {
			content := common.ExpandPlaceholders(cfg.WelcomeDM(), m.User, guildName)
			event.WelcomeDMPosted = common.Advisory("send_welcome_dm", fields, func() error {
				return common.SendDM(ctx, f.session, m.User.ID, content)
			}).OK()
		}
	}

	log.WithFields(fields).Debug("Handled member join")
	f.publisher.Emit(ctx, event)
}

func (f *Feature) guildName(guildID string) string {
	guild, err := f.session.Guild(guildID)
	if err != nil || guild == nil || guild.Name == "" {
		return fallbackGuildName
	}
	return guild.Name
}
