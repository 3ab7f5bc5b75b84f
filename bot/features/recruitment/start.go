package recruitment

import (
	"context"

	"xenory/bot/common"
	"xenory/events"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	applicantPermissions = discordgo.PermissionViewChannel |
		discordgo.PermissionSendMessages |
		discordgo.PermissionAttachFiles |
		discordgo.PermissionReadMessageHistory
	botPermissions = discordgo.PermissionViewChannel |
		discordgo.PermissionSendMessages |
		discordgo.PermissionManageChannels
)

// HandleStart opens a private application channel for the member who pressed the start button
func (f *Feature) HandleStart(ctx context.Context, i *discordgo.InteractionCreate) {
	if i.GuildID == "" || i.Member == nil || i.Member.User == nil {
		common.RespondWithError(f.session, i, "Applications can only be started inside a server.")
		return
	}

	applicant := i.Member.User
	fields := log.Fields{
		"guild_id": i.GuildID,
		"user_id":  applicant.ID,
	}

	cfg := f.configs.Get(ctx, i.GuildID)
	if !cfg.HasStaffChannel() {
		log.WithFields(fields).Info("Application start refused, no staff channel configured")
		common.RespondWithError(f.session, i, "Recruitment is not configured on this server yet. Ask an administrator to set a staff review channel in the dashboard.")
		return
	}

	channel, err := f.session.GuildChannelCreateComplex(i.GuildID, discordgo.GuildChannelCreateData{
		Name:                 ApplicationChannelName(applicant.Username),
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                "Application of " + applicant.String(),
		ParentID:             cfg.ApplicationCategory(),
		PermissionOverwrites: f.applicationOverwrites(i.GuildID, applicant.ID),
	}, discordgo.WithContext(ctx))
	if err != nil {
		log.WithFields(fields).WithError(err).Warn("Failed to create application channel")
		common.RespondWithError(f.session, i, "I could not create your application channel. Make sure I have the Manage Channels permission and that the configured category still exists.")
		return
	}

	fields["channel_id"] = channel.ID

	common.Advisory("post_application_instructions", fields, func() error {
		_, err := f.session.ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
			Content: applicant.Mention(),
			Embeds: []*discordgo.MessageEmbed{{
				Title:       "📸 Media required",
				Description: "Send a **photo or video** in this channel. It will be forwarded to the staff for review.",
				Color:       common.ColorPurple,
			}},
		}, discordgo.WithContext(ctx))
		return err
	})

	common.Advisory("reply_application_started", fields, func() error {
		return common.RespondEphemeral(f.session, i, "Your application channel was created: "+common.ChannelMention(channel.ID))
	})

	log.WithFields(fields).Info("Opened application channel")
	f.metrics.Application("opened")
	f.publisher.Emit(ctx, events.ApplicationOpenedEvent{
		GuildID:     i.GuildID,
		ApplicantID: applicant.ID,
		ChannelID:   channel.ID,
	})
}

// applicationOverwrites hides the channel from everyone except the applicant and the bot
func (f *Feature) applicationOverwrites(guildID, applicantID string) []*discordgo.PermissionOverwrite {
	overwrites := []*discordgo.PermissionOverwrite{
		{
			// The @everyone role shares the guild id
			ID:   guildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		{
			ID:    applicantID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: applicantPermissions,
		},
	}

	if botID := f.session.BotUserID(); botID != "" {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    botID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: botPermissions,
		})
	}
	return overwrites
}
