package common

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

// ExpandPlaceholders substitutes {user}, {username} and {server} in a
// member-facing template
func ExpandPlaceholders(template string, user *discordgo.User, guildName string) string {
	r := strings.NewReplacer(
		"{user}", user.Mention(),
		"{username}", user.Username,
		"{server}", guildName,
	)
	return r.Replace(template)
}

// UserMention formats a user id as a mention
func UserMention(userID string) string {
	return "<@" + userID + ">"
}

// RoleMention formats a role id as a mention
func RoleMention(roleID string) string {
	return "<@&" + roleID + ">"
}

// ChannelMention formats a channel id as a mention
func ChannelMention(channelID string) string {
	return "<#" + channelID + ">"
}
