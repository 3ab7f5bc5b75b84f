package bot

import (
	"context"
	"fmt"
	"time"

	"xenory/bot/common"
	"xenory/bot/features/membership"
	"xenory/bot/features/panels"
	"xenory/bot/features/recruitment"
	"xenory/bot/features/verification"
	"xenory/events"
	"xenory/infrastructure/observability"
	"xenory/models"
	"xenory/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handlerTimeout bounds the platform and store calls made for a single gateway event
const handlerTimeout = 30 * time.Second

// Config holds bot configuration
type Config struct {
	Token                 string
	ApplicationCloseDelay time.Duration
}

// Bot represents the Discord bot
type Bot struct {
	config  Config
	session *discordgo.Session
	metrics *observability.Metrics

	membership   *membership.Feature
	verification *verification.Feature
	recruitment  *recruitment.Feature
	panels       *panels.Feature
}

// New creates a bot, connects it to the gateway and registers its commands
func New(config Config, configs service.GuildConfigService, publisher events.Publisher, metrics *observability.Metrics) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent |
		discordgo.IntentsDirectMessages
	dg.LogLevel = discordLogLevel(log.GetLevel())
	discordgo.Logger = discordLogger

	state := common.NewStateSession(dg)

	bot := &Bot{
		config:       config,
		session:      dg,
		metrics:      metrics,
		membership:   membership.NewFeature(state, configs, publisher),
		verification: verification.NewFeature(state, configs, publisher),
		recruitment:  recruitment.NewFeature(state, configs, publisher, metrics, config.ApplicationCloseDelay),
		panels:       panels.NewFeature(state, configs),
	}

	dg.AddHandler(bot.handleReady)
	dg.AddHandler(bot.handleMemberAdd)
	dg.AddHandler(bot.handleInteractions)
	dg.AddHandler(bot.handleMessageCreate)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	return bot, nil
}

// Session returns the underlying discord session
func (b *Bot) Session() *discordgo.Session {
	return b.session
}

// Close closes the gateway connection
func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	log.WithFields(log.Fields{
		"user":   r.User.String(),
		"guilds": len(r.Guilds),
	}).Info("Bot is ready")
}

func (b *Bot) handleMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	defer recoverHandler("guild_member_add")

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	b.membership.HandleMemberJoin(ctx, m)
}

// handleInteractions routes slash commands, buttons and modal submissions
func (b *Bot) handleInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer recoverHandler("interaction_create")

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.metrics.Interaction("command")
		b.panels.HandleCommand(ctx, i)

	case discordgo.InteractionMessageComponent:
		b.routeComponentInteraction(ctx, i, i.MessageComponentData().CustomID)

	case discordgo.InteractionModalSubmit:
		b.routeModalInteraction(ctx, i, i.ModalSubmitData().CustomID)
	}
}

func (b *Bot) routeComponentInteraction(ctx context.Context, i *discordgo.InteractionCreate, customID string) {
	switch {
	case customID == common.CustomIDVerify:
		b.metrics.Interaction("verify")
		b.verification.HandleVerify(ctx, i)

	case customID == common.CustomIDStartForm:
		b.metrics.Interaction("start_application")
		b.recruitment.HandleStart(ctx, i)

	case models.IsDecisionID(customID):
		b.metrics.Interaction("decision")
		b.recruitment.HandleDecision(ctx, i)

	default:
		log.WithField("custom_id", customID).Debug("Ignoring unknown component interaction")
	}
}

func (b *Bot) routeModalInteraction(ctx context.Context, i *discordgo.InteractionCreate, customID string) {
	switch customID {
	case common.CustomIDTitleModal:
		b.metrics.Interaction("title_modal")
		b.panels.HandleModalSubmit(ctx, i)
	}
}

func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	defer recoverHandler("message_create")

	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	b.recruitment.HandleMessage(ctx, m)
}

// recoverHandler keeps a panicking handler from taking down the gateway goroutine
func recoverHandler(event string) {
	if r := recover(); r != nil {
		log.WithFields(log.Fields{
			"event": event,
			"panic": r,
		}).Error("Discord event handler panicked")
	}
}
