package common

import (
	"github.com/bwmarrin/discordgo"
)

// RespondEphemeral replies to the interaction with a message only the invoker sees
func RespondEphemeral(s Session, i *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// RespondPublic replies to the interaction with a message visible in the channel
func RespondPublic(s Session, i *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:         content,
			AllowedMentions: &discordgo.MessageAllowedMentions{},
		},
	})
}

// RespondWithSuccess sends an ephemeral success message
func RespondWithSuccess(s Session, i *discordgo.InteractionCreate, message string) error {
	return RespondEphemeral(s, i, "✅ "+message)
}

// InteractionUserID returns the invoking user's id for guild and DM interactions
func InteractionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// IsAdministrator reports whether the invoking member holds the Administrator permission
func IsAdministrator(i *discordgo.InteractionCreate) bool {
	return i.Member != nil && i.Member.Permissions&discordgo.PermissionAdministrator != 0
}
