package membership

import (
	"context"
	"errors"
	"strings"
	"testing"

	"xenory/bot/common"
	"xenory/events"
	"xenory/models"
	"xenory/service"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func memberAdd(guildID, userID, username string) *discordgo.GuildMemberAdd {
	return &discordgo.GuildMemberAdd{Member: &discordgo.Member{
		GuildID: guildID,
		User:    &discordgo.User{ID: userID, Username: username},
	}}
}

func setup(t *testing.T, cfg *models.GuildConfig) (*Feature, *common.MockSession, *events.Recorder) {
	t.Helper()
	session := new(common.MockSession)
	configs := new(service.MockGuildConfigService)
	configs.On("Get", mock.Anything, cfg.GuildID).Return(cfg)
	recorder := &events.Recorder{}
	return NewFeature(session, configs, recorder), session, recorder
}

func TestHandleMemberJoin_GrantsRoleAndWelcomes(t *testing.T) {
	t.Parallel()

	cfg := models.NewGuildConfig("g1")
	cfg.RestrictedRoleID = ptr("R")
	cfg.WelcomeChannelID = ptr("C")

	feature, session, recorder := setup(t, cfg)
	session.On("GuildMemberRoleAdd", "g1", "u1", "R").Return(nil)
	session.On("Guild", "g1").Return(&discordgo.Guild{ID: "g1", Name: "Xenory"}, nil)
	session.On("ChannelMessageSend", "C", mock.MatchedBy(func(content string) bool {
		return strings.Contains(content, "<@u1>")
	})).Return(&discordgo.Message{}, nil)

	feature.HandleMemberJoin(context.Background(), memberAdd("g1", "u1", "ana"))

	session.AssertExpectations(t)
	session.AssertNotCalled(t, "UserChannelCreate", mock.Anything)

	recorded := recorder.Events()
	require.Len(t, recorded, 1)
	assert.Equal(t, events.MemberJoinedEvent{
		GuildID:        "g1",
		UserID:         "u1",
		RestrictedRole: true,
		WelcomePosted:  true,
	}, recorded[0])
}

func TestHandleMemberJoin_TemplatePlaceholders(t *testing.T) {
	t.Parallel()

	cfg := models.NewGuildConfig("g1")
	cfg.WelcomeChannelID = ptr("C")
	cfg.WelcomeMessageTemplate = ptr("Hey {username}, welcome to {server}. Ping: {user}")

	feature, session, _ := setup(t, cfg)
	session.On("Guild", "g1").Return(&discordgo.Guild{ID: "g1", Name: "Xenory"}, nil)
	session.On("ChannelMessageSend", "C", "Hey ana, welcome to Xenory. Ping: <@u1>").Return(&discordgo.Message{}, nil)

	feature.HandleMemberJoin(context.Background(), memberAdd("g1", "u1", "ana"))

	session.AssertExpectations(t)
	session.AssertNotCalled(t, "GuildMemberRoleAdd", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleMemberJoin_RoleFailureDoesNotBlockWelcome(t *testing.T) {
	t.Parallel()

	cfg := models.NewGuildConfig("g1")
	cfg.RestrictedRoleID = ptr("R")
	cfg.WelcomeChannelID = ptr("C")

	feature, session, recorder := setup(t, cfg)
	session.On("GuildMemberRoleAdd", "g1", "u1", "R").Return(errors.New("HTTP 403 Forbidden"))
	session.On("Guild", "g1").Return(nil, errors.New("unknown guild"))
	session.On("ChannelMessageSend", "C", "Welcome <@u1>!").Return(&discordgo.Message{}, nil)

	feature.HandleMemberJoin(context.Background(), memberAdd("g1", "u1", "ana"))

	session.AssertExpectations(t)
	joined := recorder.Events()[0].(events.MemberJoinedEvent)
	assert.False(t, joined.RestrictedRole)
	assert.True(t, joined.WelcomePosted)
}

func TestHandleMemberJoin_WelcomeDM(t *testing.T) {
	t.Parallel()

	cfg := models.NewGuildConfig("g1")
	cfg.SendWelcomeDM = true
	cfg.WelcomeDMTemplate = ptr("Read the rules of {server}")

	feature, session, _ := setup(t, cfg)
	session.On("Guild", "g1").Return(&discordgo.Guild{ID: "g1", Name: "Xenory"}, nil)
	session.On("UserChannelCreate", "u1").Return(&discordgo.Channel{ID: "dm1"}, nil)
	session.On("ChannelMessageSend", "dm1", "Read the rules of Xenory").Return(&discordgo.Message{}, nil)

	feature.HandleMemberJoin(context.Background(), memberAdd("g1", "u1", "ana"))

	session.AssertExpectations(t)
}

func TestHandleMemberJoin_NothingConfigured(t *testing.T) {
	t.Parallel()

	feature, session, recorder := setup(t, models.NewGuildConfig("g1"))

	feature.HandleMemberJoin(context.Background(), memberAdd("g1", "u1", "ana"))

	session.AssertNotCalled(t, "GuildMemberRoleAdd", mock.Anything, mock.Anything, mock.Anything)
	session.AssertNotCalled(t, "ChannelMessageSend", mock.Anything, mock.Anything)
	assert.Len(t, recorder.Events(), 1)
}

func TestHandleMemberJoin_IgnoresBots(t *testing.T) {
	t.Parallel()

	session := new(common.MockSession)
	configs := new(service.MockGuildConfigService)
	feature := NewFeature(session, configs, nil)

	join := memberAdd("g1", "b1", "bot")
	join.User.Bot = true
	feature.HandleMemberJoin(context.Background(), join)

	configs.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}
