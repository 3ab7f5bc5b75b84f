package web

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigForm(t *testing.T) {
	t.Parallel()

	t.Run("absent fields stay unchanged", func(t *testing.T) {
		t.Parallel()
		update := parseConfigForm(url.Values{"tab": {"welcome"}})
		assert.True(t, update.IsEmpty())
	})

	t.Run("canonical names", func(t *testing.T) {
		t.Parallel()
		update := parseConfigForm(url.Values{
			"restrictedRoleId":       {" r1 "},
			"verifiedRoleId":         {"v1"},
			"welcomeChannelId":       {"c1"},
			"welcomeMessageTemplate": {"Hi {user}"},
			"staffPingRoleId":        {""},
		})

		require.NotNil(t, update.RestrictedRoleID)
		assert.Equal(t, "r1", *update.RestrictedRoleID)
		assert.Equal(t, "v1", *update.VerifiedRoleID)
		assert.Equal(t, "c1", *update.WelcomeChannelID)
		assert.Equal(t, "Hi {user}", *update.WelcomeMessageTemplate)
		require.NotNil(t, update.StaffPingRoleID)
		assert.Empty(t, *update.StaffPingRoleID)
		assert.Nil(t, update.ApplicationTitle)
	})

	t.Run("legacy names", func(t *testing.T) {
		t.Parallel()
		update := parseConfigForm(url.Values{
			"autoRoleId":         {"a1"},
			"verifyRoleId":       {"v1"},
			"formStaffChannelId": {"s1"},
			"formCategoryId":     {"cat"},
			"staffRoleId":        {"staff"},
			"formTitle":          {"Join us"},
		})

		assert.Equal(t, "a1", *update.RestrictedRoleID)
		assert.Equal(t, "v1", *update.VerifiedRoleID)
		assert.Equal(t, "s1", *update.ApplicationStaffChannelID)
		assert.Equal(t, "cat", *update.ApplicationCategoryID)
		assert.Equal(t, "staff", *update.StaffPingRoleID)
		assert.Equal(t, "Join us", *update.ApplicationTitle)
	})

	t.Run("canonical name wins over legacy", func(t *testing.T) {
		t.Parallel()
		update := parseConfigForm(url.Values{
			"verifiedRoleId": {"new"},
			"verifyRoleId":   {"old"},
		})
		assert.Equal(t, "new", *update.VerifiedRoleID)
	})

	t.Run("title is trimmed and truncated", func(t *testing.T) {
		t.Parallel()
		update := parseConfigForm(url.Values{"applicationTitle": {"  " + strings.Repeat("é", 300) + "  "}})
		require.NotNil(t, update.ApplicationTitle)
		assert.Len(t, []rune(*update.ApplicationTitle), maxTitleLength)
	})
}

func TestFormBool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []string
		want   *bool
	}{
		{name: "unticked checkbox", values: []string{"false"}, want: boolPtr(false)},
		{name: "ticked checkbox", values: []string{"false", "true"}, want: boolPtr(true)},
		{name: "browser default value", values: []string{"on"}, want: boolPtr(true)},
		{name: "spreadsheet literal", values: []string{"TRUE"}, want: boolPtr(true)},
		{name: "garbage", values: []string{"maybe"}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := formBool(url.Values{"sendWelcomeDm": tt.values}, formSendWelcomeDM)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Nil(t, formBool(url.Values{}, formSendWelcomeDM))
}

func TestRedirectTab(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "recruitment", redirectTab("recruitment"))
	assert.Empty(t, redirectTab("https://evil.example"))
	assert.Empty(t, redirectTab(""))
}

func TestAdminGuilds(t *testing.T) {
	t.Parallel()
	guilds := []Guild{
		{ID: "1", Permissions: 0x8},
		{ID: "2", Permissions: 0x20},
		{ID: "3", Permissions: 0x8 | 0x20},
	}

	admin := AdminGuilds(guilds)

	ids := make([]string, 0, len(admin))
	for _, g := range admin {
		ids = append(ids, g.ID)
	}
	assert.Equal(t, []string{"1", "3"}, ids)
}

func boolPtr(b bool) *bool { return &b }
