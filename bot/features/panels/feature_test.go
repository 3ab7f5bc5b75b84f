package panels

import (
	"context"
	"errors"
	"strings"
	"testing"

	"xenory/bot/common"
	"xenory/models"
	"xenory/service"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func commandInteraction(name, sub string, perms int64) *discordgo.InteractionCreate {
	data := discordgo.ApplicationCommandInteractionData{Name: name}
	if sub != "" {
		data.Options = []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: sub, Type: discordgo.ApplicationCommandOptionSubCommand},
		}
	}
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:      discordgo.InteractionApplicationCommand,
		GuildID:   "g1",
		ChannelID: "c1",
		Member:    &discordgo.Member{User: &discordgo.User{ID: "admin"}, Permissions: perms},
		Data:      data,
	}}
}

func modalInteraction(title string, perms int64) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:    discordgo.InteractionModalSubmit,
		GuildID: "g1",
		Member:  &discordgo.Member{User: &discordgo.User{ID: "admin"}, Permissions: perms},
		Data: discordgo.ModalSubmitInteractionData{
			CustomID: common.CustomIDTitleModal,
			Components: []discordgo.MessageComponent{
				&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					&discordgo.TextInput{CustomID: common.CustomIDTitleInput, Value: title},
				}},
			},
		},
	}}
}

func isEphemeral(substr string) interface{} {
	return mock.MatchedBy(func(resp *discordgo.InteractionResponse) bool {
		return resp.Data != nil &&
			resp.Data.Flags&discordgo.MessageFlagsEphemeral != 0 &&
			strings.Contains(resp.Data.Content, substr)
	})
}

func TestCommands_AdminOnly(t *testing.T) {
	t.Parallel()

	f := NewFeature(nil, nil)
	for _, cmd := range f.Commands() {
		require.NotNil(t, cmd.DefaultMemberPermissions, cmd.Name)
		assert.Equal(t, int64(discordgo.PermissionAdministrator), *cmd.DefaultMemberPermissions)
	}
}

func TestHandleCommand_RejectsNonAdmins(t *testing.T) {
	t.Parallel()

	session := new(common.MockSession)
	configs := new(service.MockGuildConfigService)
	f := NewFeature(session, configs)

	i := commandInteraction(CommandPanel, "verify", discordgo.PermissionSendMessages)
	session.On("InteractionRespond", i.Interaction, isEphemeral("administrator")).Return(nil)

	f.HandleCommand(context.Background(), i)

	session.AssertExpectations(t)
	session.AssertNotCalled(t, "ChannelMessageSendComplex", mock.Anything, mock.Anything)
}

func TestHandleCommand_VerifyPanel(t *testing.T) {
	t.Parallel()

	session := new(common.MockSession)
	f := NewFeature(session, new(service.MockGuildConfigService))

	i := commandInteraction(CommandPanel, "verify", discordgo.PermissionAdministrator)
	session.On("ChannelMessageSendComplex", "c1", mock.MatchedBy(func(m *discordgo.MessageSend) bool {
		row := m.Components[0].(discordgo.ActionsRow)
		return row.Components[0].(discordgo.Button).CustomID == common.CustomIDVerify
	})).Return(&discordgo.Message{}, nil)
	session.On("InteractionRespond", i.Interaction, isEphemeral("Panel posted")).Return(nil)

	f.HandleCommand(context.Background(), i)

	session.AssertExpectations(t)
}

func TestHandleCommand_PanelWithoutKnownSubCommand(t *testing.T) {
	t.Parallel()

	for _, sub := range []string{"", "leaderboard"} {
		t.Run("sub="+sub, func(t *testing.T) {
			t.Parallel()

			session := new(common.MockSession)
			configs := new(service.MockGuildConfigService)
			f := NewFeature(session, configs)

			i := commandInteraction(CommandPanel, sub, discordgo.PermissionAdministrator)
			session.On("InteractionRespond", i.Interaction, isEphemeral("verify or recruitment")).Return(nil)

			f.HandleCommand(context.Background(), i)

			session.AssertExpectations(t)
			session.AssertNotCalled(t, "ChannelMessageSendComplex", mock.Anything, mock.Anything)
			configs.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
		})
	}
}

func TestHandleCommand_RecruitmentPanelUsesTitle(t *testing.T) {
	t.Parallel()

	session := new(common.MockSession)
	configs := new(service.MockGuildConfigService)
	f := NewFeature(session, configs)

	cfg := models.NewGuildConfig("g1")
	cfg.ApplicationTitle = "Moderators wanted"
	configs.On("Get", mock.Anything, "g1").Return(cfg)

	i := commandInteraction(CommandPanel, "recruitment", discordgo.PermissionAdministrator)
	session.On("ChannelMessageSendComplex", "c1", mock.MatchedBy(func(m *discordgo.MessageSend) bool {
		row := m.Components[0].(discordgo.ActionsRow)
		return m.Embeds[0].Title == "Moderators wanted" &&
			row.Components[0].(discordgo.Button).CustomID == common.CustomIDStartForm
	})).Return(&discordgo.Message{}, nil)
	session.On("InteractionRespond", i.Interaction, mock.Anything).Return(nil)

	f.HandleCommand(context.Background(), i)

	session.AssertExpectations(t)
}

func TestHandleCommand_OpensTitleModal(t *testing.T) {
	t.Parallel()

	session := new(common.MockSession)
	configs := new(service.MockGuildConfigService)
	f := NewFeature(session, configs)

	configs.On("Get", mock.Anything, "g1").Return(models.NewGuildConfig("g1"))
	i := commandInteraction(CommandRecruitmentTitle, "", discordgo.PermissionAdministrator)
	session.On("InteractionRespond", i.Interaction, mock.MatchedBy(func(resp *discordgo.InteractionResponse) bool {
		return resp.Type == discordgo.InteractionResponseModal &&
			resp.Data.CustomID == common.CustomIDTitleModal
	})).Return(nil)

	f.HandleCommand(context.Background(), i)

	session.AssertExpectations(t)
}

func TestHandleModalSubmit_SavesTitle(t *testing.T) {
	t.Parallel()

	session := new(common.MockSession)
	configs := new(service.MockGuildConfigService)
	f := NewFeature(session, configs)

	i := modalInteraction("  Helpers wanted  ", discordgo.PermissionAdministrator)
	configs.On("Save", mock.Anything, "g1", mock.MatchedBy(func(u models.GuildConfigUpdate) bool {
		return u.ApplicationTitle != nil && *u.ApplicationTitle == "Helpers wanted" && u.VerifiedRoleID == nil
	})).Return(models.NewGuildConfig("g1"), nil)
	session.On("InteractionRespond", i.Interaction, isEphemeral("Helpers wanted")).Return(nil)

	f.HandleModalSubmit(context.Background(), i)

	configs.AssertExpectations(t)
	session.AssertExpectations(t)
}

func TestHandleModalSubmit_SaveFailure(t *testing.T) {
	t.Parallel()

	session := new(common.MockSession)
	configs := new(service.MockGuildConfigService)
	f := NewFeature(session, configs)

	i := modalInteraction("Title", discordgo.PermissionAdministrator)
	configs.On("Save", mock.Anything, "g1", mock.Anything).Return(nil, errors.New("backend down"))
	session.On("InteractionRespond", i.Interaction, isEphemeral("Something went wrong")).Return(nil)

	f.HandleModalSubmit(context.Background(), i)

	session.AssertExpectations(t)
}

func TestHandleModalSubmit_EmptyTitle(t *testing.T) {
	t.Parallel()

	session := new(common.MockSession)
	configs := new(service.MockGuildConfigService)
	f := NewFeature(session, configs)

	i := modalInteraction("   ", discordgo.PermissionAdministrator)
	session.On("InteractionRespond", i.Interaction, isEphemeral("cannot be empty")).Return(nil)

	f.HandleModalSubmit(context.Background(), i)

	session.AssertExpectations(t)
	configs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}
