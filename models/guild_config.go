package models

import "time"

// DefaultApplicationTitle is used for the recruitment panel when no title is configured
const DefaultApplicationTitle = "Staff Recruitment"

// GuildConfig represents the per-guild configuration record.
// Optional ids are nil when not configured.
type GuildConfig struct {
	GuildID string `db:"guild_id" bson:"guild_id"`

	// Verification
	RestrictedRoleID *string `db:"restricted_role_id" bson:"restricted_role_id,omitempty"` // granted on join, revoked on verify
	VerifiedRoleID   *string `db:"verified_role_id" bson:"verified_role_id,omitempty"`

	// Welcome
	WelcomeChannelID       *string `db:"welcome_channel_id" bson:"welcome_channel_id,omitempty"`
	WelcomeMessageTemplate *string `db:"welcome_message_template" bson:"welcome_message_template,omitempty"`
	WelcomeDMTemplate      *string `db:"welcome_dm_template" bson:"welcome_dm_template,omitempty"`
	SendWelcomeDM          bool    `db:"send_welcome_dm" bson:"send_welcome_dm"`

	// Recruitment
	ApplicationCategoryID     *string `db:"application_category_id" bson:"application_category_id,omitempty"`
	ApplicationStaffChannelID *string `db:"application_staff_channel_id" bson:"application_staff_channel_id,omitempty"`
	StaffPingRoleID           *string `db:"staff_ping_role_id" bson:"staff_ping_role_id,omitempty"`
	ApplicationTitle          string  `db:"application_title" bson:"application_title"`

	UpdatedAt time.Time `db:"updated_at" bson:"updated_at"`
}

// NewGuildConfig returns the default configuration for a guild: every optional
// field absent and the default application title
func NewGuildConfig(guildID string) *GuildConfig {
	return &GuildConfig{
		GuildID:          guildID,
		ApplicationTitle: DefaultApplicationTitle,
	}
}

func isSet(id *string) bool {
	return id != nil && *id != ""
}

func valueOf(id *string) string {
	if id == nil {
		return ""
	}
	return *id
}

// HasRestrictedRole checks if a restricted role is configured
func (c *GuildConfig) HasRestrictedRole() bool {
	return isSet(c.RestrictedRoleID)
}

// HasVerifiedRole checks if a verified role is configured
func (c *GuildConfig) HasVerifiedRole() bool {
	return isSet(c.VerifiedRoleID)
}

// HasWelcomeChannel checks if a welcome channel is configured
func (c *GuildConfig) HasWelcomeChannel() bool {
	return isSet(c.WelcomeChannelID)
}

// ShouldSendWelcomeDM reports whether new members get a direct welcome message
func (c *GuildConfig) ShouldSendWelcomeDM() bool {
	return c.SendWelcomeDM && isSet(c.WelcomeDMTemplate)
}

// HasApplicationCategory checks if a category for application channels is configured
func (c *GuildConfig) HasApplicationCategory() bool {
	return isSet(c.ApplicationCategoryID)
}

// HasStaffChannel checks if a staff review channel is configured
func (c *GuildConfig) HasStaffChannel() bool {
	return isSet(c.ApplicationStaffChannelID)
}

// HasStaffPingRole checks if a role should be pinged for new applications
func (c *GuildConfig) HasStaffPingRole() bool {
	return isSet(c.StaffPingRoleID)
}

// RestrictedRole returns the restricted role id or ""
func (c *GuildConfig) RestrictedRole() string { return valueOf(c.RestrictedRoleID) }

// VerifiedRole returns the verified role id or ""
func (c *GuildConfig) VerifiedRole() string { return valueOf(c.VerifiedRoleID) }

// WelcomeChannel returns the welcome channel id or ""
func (c *GuildConfig) WelcomeChannel() string { return valueOf(c.WelcomeChannelID) }

// WelcomeMessage returns the welcome message template or ""
func (c *GuildConfig) WelcomeMessage() string { return valueOf(c.WelcomeMessageTemplate) }

// WelcomeDM returns the welcome DM template or ""
func (c *GuildConfig) WelcomeDM() string { return valueOf(c.WelcomeDMTemplate) }

// ApplicationCategory returns the application category id or ""
func (c *GuildConfig) ApplicationCategory() string { return valueOf(c.ApplicationCategoryID) }

// StaffChannel returns the staff review channel id or ""
func (c *GuildConfig) StaffChannel() string { return valueOf(c.ApplicationStaffChannelID) }

// StaffPingRole returns the staff ping role id or ""
func (c *GuildConfig) StaffPingRole() string { return valueOf(c.StaffPingRoleID) }

// Title returns the recruitment title, falling back to the default
func (c *GuildConfig) Title() string {
	if c.ApplicationTitle == "" {
		return DefaultApplicationTitle
	}
	return c.ApplicationTitle
}
