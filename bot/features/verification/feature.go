package verification

import (
	"context"

	"xenory/bot/common"
	"xenory/events"
	"xenory/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature swaps the restricted role for the verified role when a member
// presses the verify button
type Feature struct {
	session   common.Session
	configs   service.GuildConfigService
	publisher events.Publisher
}

// NewFeature creates a new verification feature instance
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

// HandleVerify handles a press of the verify button
func (f *Feature) HandleVerify(ctx context.Context, i *discordgo.InteractionCreate) {
	if i.GuildID == "" {
		common.RespondWithError(f.session, i, "Verification only works inside a server.")
		return
	}

	userID := common.InteractionUserID(i)
	fields := log.Fields{
		"guild_id": i.GuildID,
		"user_id":  userID,
	}

	cfg := f.configs.Get(ctx, i.GuildID)
	if !cfg.HasVerifiedRole() {
		log.WithFields(fields).Info("Verify pressed but no verified role is configured")
		common.RespondWithError(f.session, i, "Verification is not configured on this server. Ask an administrator to set a verified role in the dashboard.")
		return
	}

	event := events.MemberVerifiedEvent{GuildID: i.GuildID, UserID: userID}

	// Grant and revoke are independent: a failed grant still lifts the restriction
	event.RoleGranted = common.Advisory("grant_verified_role", fields, func() error {
		return f.session.GuildMemberRoleAdd(i.GuildID, userID, cfg.VerifiedRole(), discordgo.WithContext(ctx))
	}).OK()

	if cfg.HasRestrictedRole() {
		event.RestrictedLift = common.Advisory("revoke_restricted_role", fields, func() error {
			return f.session.GuildMemberRoleRemove(i.GuildID, userID, cfg.RestrictedRole(), discordgo.WithContext(ctx))
		}).OK()
	}

	reply := "✅ You are now verified. Welcome!"
	if !event.RoleGranted {
		reply = "⚠️ I could not assign the verified role. Please contact the server staff."
	}
	common.Advisory("reply_verify", fields, func() error {
		return common.RespondEphemeral(f.session, i, reply)
	})

	f.publisher.Emit(ctx, event)
}
