package web

import (
	"net/url"
	"strconv"
	"strings"

	"xenory/models"
)

// Form keys accepted by the config form. The second key of each pair is the
// older field name still posted by existing dashboards.
var (
	formRestrictedRole = []string{"restrictedRoleId", "autoRoleId"}
	formVerifiedRole   = []string{"verifiedRoleId", "verifyRoleId"}
	formWelcomeChannel = []string{"welcomeChannelId"}
	formWelcomeMessage = []string{"welcomeMessageTemplate", "welcomeMessage"}
	formWelcomeDM      = []string{"welcomeDmTemplate", "welcomeDm"}
	formSendWelcomeDM  = []string{"sendWelcomeDm"}
	formCategory       = []string{"applicationCategoryId", "formCategoryId"}
	formStaffChannel   = []string{"applicationStaffChannelId", "formStaffChannelId"}
	formStaffPingRole  = []string{"staffPingRoleId", "staffRoleId"}
	formTitle          = []string{"applicationTitle", "formTitle"}
)

// maxTitleLength matches the embed title limit
const maxTitleLength = 256

// parseConfigForm turns a submitted form into a partial update. Fields missing
// from the form are left unchanged; fields submitted empty are cleared.
func parseConfigForm(form url.Values) models.GuildConfigUpdate {
	var update models.GuildConfigUpdate

	update.RestrictedRoleID = formID(form, formRestrictedRole)
	update.VerifiedRoleID = formID(form, formVerifiedRole)
	update.WelcomeChannelID = formID(form, formWelcomeChannel)
	update.WelcomeMessageTemplate = formText(form, formWelcomeMessage)
	update.WelcomeDMTemplate = formText(form, formWelcomeDM)
	update.SendWelcomeDM = formBool(form, formSendWelcomeDM)
	update.ApplicationCategoryID = formID(form, formCategory)
	update.ApplicationStaffChannelID = formID(form, formStaffChannel)
	update.StaffPingRoleID = formID(form, formStaffPingRole)

	if title := formText(form, formTitle); title != nil {
		t := strings.TrimSpace(*title)
		if r := []rune(t); len(r) > maxTitleLength {
			t = string(r[:maxTitleLength])
		}
		update.ApplicationTitle = &t
	}

	return update
}

// lookup returns the last submitted value of the first key present
func lookup(form url.Values, keys []string) (string, bool) {
	for _, key := range keys {
		if values, ok := form[key]; ok && len(values) > 0 {
			return values[len(values)-1], true
		}
	}
	return "", false
}

func formID(form url.Values, keys []string) *string {
	v, ok := lookup(form, keys)
	if !ok {
		return nil
	}
	v = strings.TrimSpace(v)
	return &v
}

func formText(form url.Values, keys []string) *string {
	v, ok := lookup(form, keys)
	if !ok {
		return nil
	}
	return &v
}

// formBool reads a checkbox. The page posts a hidden "false" ahead of the
// checkbox so an unticked box still arrives as a value.
func formBool(form url.Values, keys []string) *bool {
	v, ok := lookup(form, keys)
	if !ok {
		return nil
	}

	var b bool
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "yes":
		b = true
	case "", "off", "no":
		b = false
	default:
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil
		}
		b = parsed
	}
	return &b
}

// validTabs are the tabs of the config page
var validTabs = map[string]bool{
	"verification": true,
	"welcome":      true,
	"recruitment":  true,
}

// redirectTab returns the tab to return to, or "" when the submitted one is unknown
func redirectTab(tab string) string {
	if validTabs[tab] {
		return tab
	}
	return ""
}
