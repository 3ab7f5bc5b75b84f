package cmd

import (
	"context"
	"fmt"

	"xenory/bot"
	"xenory/bot/common"
	"xenory/config"
	"xenory/events"
	"xenory/infrastructure"
	"xenory/infrastructure/observability"
	"xenory/keepalive"
	"xenory/service"
	"xenory/web"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application, blocking until ctx is cancelled
func Run(ctx context.Context) error {
	cfg := config.Get()
	setupLogging(cfg)

	log.WithFields(log.Fields{
		"environment": cfg.Environment,
		"store":       cfg.StoreBackend,
	}).Info("Starting xenory...")

	metrics := observability.Default()
	common.SetAdvisoryMetrics(metrics)

	// Config store backend
	repo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open config store: %w", err)
	}
	defer closeStore()
	log.Info("Config store ready")

	// Event bus, optionally forwarded to NATS
	eventBus := events.NewBus()
	var natsClient *infrastructure.NATSClient
	if cfg.NATSServers != "" {
		natsClient = infrastructure.NewNATSClient(cfg.NATSServers)
		if err := natsClient.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer func() {
			if err := natsClient.Close(); err != nil {
				log.WithError(err).Warn("Error closing NATS connection")
			}
		}()
		if err := natsClient.EnsureEventStream(); err != nil {
			return fmt.Errorf("failed to set up event stream: %w", err)
		}
		infrastructure.NewEventForwarder(natsClient, metrics).Attach(eventBus)
		log.Info("Forwarding events to NATS")
	}

	configs := service.NewConfigStore(repo, cfg.StoreBackend, eventBus, metrics)

	// Discord bot
	log.Info("Connecting to Discord...")
	discordBot, err := bot.New(bot.Config{
		Token:                 cfg.DiscordToken,
		ApplicationCloseDelay: cfg.ApplicationCloseDelay,
	}, configs, eventBus, metrics)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	defer func() {
		if err := discordBot.Close(); err != nil {
			log.WithError(err).Warn("Error closing Discord session")
		}
	}()

	// Web dashboard
	serverErr := make(chan error, 1)
	if cfg.WebEnabled {
		server, err := web.NewServer(web.Options{
			Port:           cfg.Port,
			SessionSecret:  cfg.SessionSecret,
			SessionMaxAge:  cfg.SessionMaxAge,
			TrustedProxies: cfg.TrustedProxies,
		}, configs, web.NewDiscordIdentity(cfg.OAuthClientID, cfg.OAuthClientSecret, cfg.OAuthCallbackURL), discordBot.Session())
		if err != nil {
			return fmt.Errorf("failed to initialize web dashboard: %w", err)
		}

		go func() {
			serverErr <- server.ListenAndServe()
		}()
		defer func() {
			if err := server.Shutdown(context.Background()); err != nil {
				log.WithError(err).Warn("Error shutting down web dashboard")
			}
		}()
	}

	// Keep-alive
	stopKeepAlive := keepalive.NewPinger(cfg.GetPublicURL(), cfg.KeepAliveInterval, metrics).Start(ctx)
	defer stopKeepAlive()

	log.Info("Xenory is running")

	select {
	case <-ctx.Done():
		log.Info("Shutting down...")
	case err := <-serverErr:
		if err != nil {
			return err
		}
	}

	return nil
}
