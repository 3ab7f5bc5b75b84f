package testutil

import (
	"time"

	"xenory/models"
)

func strPtr(s string) *string { return &s }

// CreateTestGuildConfig creates a guild config with every field populated
func CreateTestGuildConfig(guildID string) *models.GuildConfig {
	return &models.GuildConfig{
		GuildID:                   guildID,
		RestrictedRoleID:          strPtr("100000000000000001"),
		VerifiedRoleID:            strPtr("100000000000000002"),
		WelcomeChannelID:          strPtr("100000000000000003"),
		WelcomeMessageTemplate:    strPtr("Welcome {user} to {server}!"),
		WelcomeDMTemplate:         strPtr("Hi {username}, read the rules."),
		SendWelcomeDM:             true,
		ApplicationCategoryID:     strPtr("100000000000000004"),
		ApplicationStaffChannelID: strPtr("100000000000000005"),
		StaffPingRoleID:           strPtr("100000000000000006"),
		ApplicationTitle:          "Staff Recruitment 2026",
		UpdatedAt:                 time.Now().UTC().Truncate(time.Microsecond),
	}
}
