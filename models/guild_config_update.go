package models

// GuildConfigUpdate is a partial update of a GuildConfig.
// A nil field is left unchanged; a pointer to "" clears the field.
type GuildConfigUpdate struct {
	RestrictedRoleID          *string
	VerifiedRoleID            *string
	WelcomeChannelID          *string
	WelcomeMessageTemplate    *string
	WelcomeDMTemplate         *string
	SendWelcomeDM             *bool
	ApplicationCategoryID     *string
	ApplicationStaffChannelID *string
	StaffPingRoleID           *string
	ApplicationTitle          *string
}

// IsEmpty reports whether the update changes nothing
func (u GuildConfigUpdate) IsEmpty() bool {
	return u == GuildConfigUpdate{}
}

// Apply merges the update into cfg
func (u GuildConfigUpdate) Apply(cfg *GuildConfig) {
	mergeOptional(&cfg.RestrictedRoleID, u.RestrictedRoleID)
	mergeOptional(&cfg.VerifiedRoleID, u.VerifiedRoleID)
	mergeOptional(&cfg.WelcomeChannelID, u.WelcomeChannelID)
	mergeOptional(&cfg.WelcomeMessageTemplate, u.WelcomeMessageTemplate)
	mergeOptional(&cfg.WelcomeDMTemplate, u.WelcomeDMTemplate)
	mergeOptional(&cfg.ApplicationCategoryID, u.ApplicationCategoryID)
	mergeOptional(&cfg.ApplicationStaffChannelID, u.ApplicationStaffChannelID)
	mergeOptional(&cfg.StaffPingRoleID, u.StaffPingRoleID)

	if u.SendWelcomeDM != nil {
		cfg.SendWelcomeDM = *u.SendWelcomeDM
	}
	if u.ApplicationTitle != nil {
		if *u.ApplicationTitle == "" {
			cfg.ApplicationTitle = DefaultApplicationTitle
		} else {
			cfg.ApplicationTitle = *u.ApplicationTitle
		}
	}
}

func mergeOptional(dst **string, src *string) {
	if src == nil {
		return
	}
	if *src == "" {
		*dst = nil
		return
	}
	v := *src
	*dst = &v
}
