package panels

import (
	"context"
	"fmt"
	"strings"

	"xenory/bot/common"
	"xenory/models"
	"xenory/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Command names
const (
	CommandPanel            = "panel"
	CommandRecruitmentTitle = "recruitment-title"
)

const maxTitleLength = 256

// Feature posts the verification and recruitment panels and edits the recruitment title
type Feature struct {
	session common.Session
	configs service.GuildConfigService
}

// NewFeature creates a new panels feature instance
func NewFeature(session common.Session, configs service.GuildConfigService) *Feature {
	return &Feature{
		session: session,
		configs: configs,
	}
}

// Commands returns the slash commands of this feature
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	adminOnly := int64(discordgo.PermissionAdministrator)
	dmAllowed := false

	return []*discordgo.ApplicationCommand{
		{
			Name:                     CommandPanel,
			Description:              "Post an interactive panel in this channel",
			DefaultMemberPermissions: &adminOnly,
			DMPermission:             &dmAllowed,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "verify",
					Description: "Post the verification panel",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "recruitment",
					Description: "Post the recruitment panel",
				},
			},
		},
		{
			Name:                     CommandRecruitmentTitle,
			Description:              "Edit the title of the recruitment panel",
			DefaultMemberPermissions: &adminOnly,
			DMPermission:             &dmAllowed,
		},
	}
}

// HandleCommand routes panel commands to the appropriate handlers
func (f *Feature) HandleCommand(ctx context.Context, i *discordgo.InteractionCreate) {
	if !common.IsAdministrator(i) {
		common.RespondWithError(f.session, i, "You need administrator permissions to use this command.")
		return
	}

	data := i.ApplicationCommandData()
	switch data.Name {
	case CommandPanel:
		sub := ""
		if len(data.Options) > 0 {
			sub = data.Options[0].Name
		}
		switch sub {
		case "verify":
			f.postPanel(ctx, i, verifyPanel())
		case "recruitment":
			cfg := f.configs.Get(ctx, i.GuildID)
			f.postPanel(ctx, i, recruitmentPanel(cfg))
		default:
			common.HandleError(f.session, i, common.NewUserError(
				"Choose which panel to post: verify or recruitment.",
				fmt.Sprintf("Unknown panel sub-command %q", sub)))
		}
	case CommandRecruitmentTitle:
		f.openTitleModal(ctx, i)
	}
}

func (f *Feature) postPanel(ctx context.Context, i *discordgo.InteractionCreate, panel *discordgo.MessageSend) {
	fields := log.Fields{
		"guild_id":   i.GuildID,
		"channel_id": i.ChannelID,
		"user_id":    common.InteractionUserID(i),
	}

	if _, err := f.session.ChannelMessageSendComplex(i.ChannelID, panel, discordgo.WithContext(ctx)); err != nil {
		log.WithFields(fields).WithError(err).Warn("Failed to post panel")
		common.RespondWithError(f.session, i, "I could not post the panel here. Check that I can send messages in this channel.")
		return
	}

	common.Advisory("reply_panel_posted", fields, func() error {
		return common.RespondWithSuccess(f.session, i, "Panel posted.")
	})
}

func verifyPanel() *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       "✅ Verification",
			Description: "Press the button below to verify and unlock the server.",
			Color:       common.ColorSuccess,
		}},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Verify",
					Style:    discordgo.SuccessButton,
					CustomID: common.CustomIDVerify,
				},
			}},
		},
	}
}

func recruitmentPanel(cfg *models.GuildConfig) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       cfg.Title(),
			Description: "Press the button below to start your application.",
			Color:       common.ColorPurple,
		}},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Start application",
					Style:    discordgo.PrimaryButton,
					CustomID: common.CustomIDStartForm,
				},
			}},
		},
	}
}

func (f *Feature) openTitleModal(ctx context.Context, i *discordgo.InteractionCreate) {
	cfg := f.configs.Get(ctx, i.GuildID)

	err := f.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: common.CustomIDTitleModal,
			Title:    "Edit recruitment title",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:  common.CustomIDTitleInput,
						Label:     "Title",
						Style:     discordgo.TextInputShort,
						Value:     cfg.Title(),
						Required:  true,
						MaxLength: maxTitleLength,
					},
				}},
			},
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		log.WithFields(log.Fields{
			"guild_id": i.GuildID,
			"error":    err,
		}).Warn("Failed to open title modal")
	}
}

// HandleModalSubmit saves the recruitment title entered in the modal
func (f *Feature) HandleModalSubmit(ctx context.Context, i *discordgo.InteractionCreate) {
	if !common.IsAdministrator(i) {
		common.RespondWithError(f.session, i, "You need administrator permissions to change the recruitment title.")
		return
	}

	title := strings.TrimSpace(textInputValue(i.ModalSubmitData().Components, common.CustomIDTitleInput))
	if title == "" {
		common.HandleError(f.session, i, common.NewUserError("The title cannot be empty.", "Empty recruitment title submitted"))
		return
	}
	if runes := []rune(title); len(runes) > maxTitleLength {
		title = string(runes[:maxTitleLength])
	}

	if _, err := f.configs.Save(ctx, i.GuildID, models.GuildConfigUpdate{ApplicationTitle: &title}); err != nil {
		common.HandleError(f.session, i, common.NewSystemError(err, "Failed to save recruitment title"))
		return
	}

	common.Advisory("reply_title_saved", log.Fields{"guild_id": i.GuildID}, func() error {
		return common.RespondWithSuccess(f.session, i, "Recruitment title updated to **"+title+"**.")
	})
}

// textInputValue finds a text input by custom id in submitted modal components
func textInputValue(components []discordgo.MessageComponent, customID string) string {
	for _, c := range components {
		var children []discordgo.MessageComponent
		switch row := c.(type) {
		case *discordgo.ActionsRow:
			children = row.Components
		case discordgo.ActionsRow:
			children = row.Components
		}
		for _, child := range children {
			switch input := child.(type) {
			case *discordgo.TextInput:
				if input.CustomID == customID {
					return input.Value
				}
			case discordgo.TextInput:
				if input.CustomID == customID {
					return input.Value
				}
			}
		}
	}
	return ""
}
