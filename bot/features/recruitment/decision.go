package recruitment

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"xenory/bot/common"
	"xenory/events"
	"xenory/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// HandleDecision handles a staff press of an approve or reject button
func (f *Feature) HandleDecision(ctx context.Context, i *discordgo.InteractionCreate) {
	decision, err := models.ParseDecisionID(i.MessageComponentData().CustomID)
	if err != nil {
		log.WithError(err).Warn("Rejected malformed decision id")
		common.RespondWithError(f.session, i, "This button is no longer valid.")
		return
	}

	staffID := common.InteractionUserID(i)
	fields := log.Fields{
		"guild_id":     i.GuildID,
		"user_id":      staffID,
		"applicant_id": decision.ApplicantID,
		"decision":     decision.Kind,
	}

	guardKey := i.ID
	if i.Message != nil {
		guardKey = i.Message.ID
	}
	if !f.guard.claim(guardKey) {
		log.WithFields(fields).Info("Ignored duplicate decision")
		common.Advisory("reply_duplicate_decision", fields, func() error {
			return common.RespondEphemeral(f.session, i, "This application was already handled.")
		})
		return
	}

	event := events.ApplicationDecidedEvent{
		GuildID:     i.GuildID,
		ApplicantID: decision.ApplicantID,
		DecidedBy:   staffID,
		Approved:    decision.IsApproval(),
	}

	applicant, err := f.session.User(decision.ApplicantID, discordgo.WithContext(ctx))
	if err != nil {
		log.WithFields(fields).WithError(err).Info("Could not resolve applicant, skipping DM")
	} else {
		guildName := f.guildName(i.GuildID)
		event.Notified = common.Advisory("send_decision_dm", fields, func() error {
			return common.SendDM(ctx, f.session, applicant.ID, decisionMessage(decision, guildName))
		}).OK()
	}

	verb := "Rejected"
	if decision.IsApproval() {
		verb = "Approved"
	}
	common.Advisory("reply_decision", fields, func() error {
		return common.RespondPublic(f.session, i,
			fmt.Sprintf("%s: %s (by %s)", verb, common.UserMention(decision.ApplicantID), common.UserMention(staffID)))
	})

	if i.Message != nil {
		common.Advisory("delete_staff_notification", fields, func() error {
			return ignoreUnknownMessage(f.session.ChannelMessageDelete(i.ChannelID, i.Message.ID, discordgo.WithContext(ctx)))
		})
	}

	log.WithFields(fields).Info("Application decided")
	f.metrics.Application(string(decision.Kind))
	f.publisher.Emit(ctx, event)
}

// decisionMessage is the DM sent to the applicant
func decisionMessage(d models.Decision, guildName string) string {
	if d.IsApproval() {
		return fmt.Sprintf("✅ Your application in **%s** was accepted!", guildName)
	}
	return fmt.Sprintf("❌ Your application in **%s** was declined.", guildName)
}

func (f *Feature) guildName(guildID string) string {
	guild, err := f.session.Guild(guildID)
	if err != nil || guild == nil || guild.Name == "" {
		return "the server"
	}
	return guild.Name
}

// ignoreUnknownMessage treats deleting an already deleted message as success
func ignoreUnknownMessage(err error) error {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) {
		if restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeUnknownMessage {
			return nil
		}
		if restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
			return nil
		}
	}
	return err
}
