package recruitment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"xenory/bot/common"
	"xenory/events"
	"xenory/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// IsVideo reports whether an attachment content type is a video
func IsVideo(contentType string) bool {
	return strings.Contains(contentType, "video")
}

// HandleMessage relays the first attachment posted in an application channel to the staff channel
func (f *Feature) HandleMessage(ctx context.Context, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" || len(m.Attachments) == 0 {
		return
	}

	channel, err := f.session.Channel(m.ChannelID)
	if err != nil || !IsApplicationChannel(channel.Name) {
		return
	}

	fields := log.Fields{
		"guild_id":   m.GuildID,
		"user_id":    m.Author.ID,
		"channel_id": m.ChannelID,
	}

	cfg := f.configs.Get(ctx, m.GuildID)
	if !cfg.HasStaffChannel() {
		// The channel stays open so staff can pick the application up by hand
		log.WithFields(fields).Warn("Application submitted but no staff channel is configured")
		common.Advisory("notify_recruitment_unconfigured", fields, func() error {
			_, err := f.session.ChannelMessageSend(m.ChannelID,
				"⚠️ Recruitment is not configured on this server, so your submission could not be forwarded. This channel stays open and a staff member will follow up here.",
				discordgo.WithContext(ctx))
			return err
		})
		return
	}

	attachment := m.Attachments[0]
	video := IsVideo(attachment.ContentType)
	staffChannelID := cfg.StaffChannel()

	notification, err := f.session.ChannelMessageSendComplex(staffChannelID, staffNotification(cfg, m.Author, attachment, video), discordgo.WithContext(ctx))
	if err != nil {
		log.WithFields(fields).WithError(err).Warn("Failed to relay application to staff channel")
		common.Advisory("notify_relay_failed", fields, func() error {
			_, err := f.session.ChannelMessageSend(m.ChannelID,
				"❌ I could not forward your submission to the staff. Please try again in a moment.",
				discordgo.WithContext(ctx))
			return err
		})
		return
	}

	if video {
		common.Advisory("post_video_link", fields, func() error {
			_, err := f.session.ChannelMessageSend(staffChannelID, "🎥 Video: "+attachment.URL, discordgo.WithContext(ctx))
			return err
		})
	}

	common.Advisory("confirm_submission", fields, func() error {
		_, err := f.session.ChannelMessageSend(m.ChannelID,
			fmt.Sprintf("✅ Sent to the staff! This channel will be deleted in %s.", f.closeDelay.Round(time.Second)),
			discordgo.WithContext(ctx))
		return err
	})

	channelID := m.ChannelID
	f.schedule(f.closeDelay, func() {
		common.Advisory("delete_application_channel", fields, func() error {
			_, err := f.session.ChannelDelete(channelID)
			return err
		})
	})

	log.WithFields(fields).WithField("video", video).Info("Relayed application to staff")
	f.metrics.Application("submitted")
	f.publisher.Emit(ctx, events.ApplicationSubmittedEvent{
		GuildID:        m.GuildID,
		ApplicantID:    m.Author.ID,
		StaffChannelID: staffChannelID,
		MessageID:      notification.ID,
		IsVideo:        video,
	})
}

// staffNotification builds the review message with approve and reject buttons
func staffNotification(cfg *models.GuildConfig, applicant *discordgo.User, attachment *discordgo.MessageAttachment, video bool) *discordgo.MessageSend {
	embed := &discordgo.MessageEmbed{
		Title: "📋 " + cfg.Title(),
		Color: common.ColorOrange,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Applicant", Value: applicant.String(), Inline: true},
			{Name: "User ID", Value: applicant.ID, Inline: true},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if video {
		embed.Description = "Video submission, link below."
	} else {
		embed.Image = &discordgo.MessageEmbedImage{URL: attachment.URL}
	}

	content := "New application received!"
	allowed := &discordgo.MessageAllowedMentions{}
	if cfg.HasStaffPingRole() {
		content = common.RoleMention(cfg.StaffPingRole())
		allowed.Roles = []string{cfg.StaffPingRole()}
	}

	return &discordgo.MessageSend{
		Content:         content,
		Embeds:          []*discordgo.MessageEmbed{embed},
		AllowedMentions: allowed,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Approve",
					Style:    discordgo.SuccessButton,
					CustomID: models.NewApproval(applicant.ID).CustomID(),
				},
				discordgo.Button{
					Label:    "Reject",
					Style:    discordgo.DangerButton,
					CustomID: models.NewRejection(applicant.ID).CustomID(),
				},
			}},
		},
	}
}
