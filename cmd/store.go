package cmd

import (
	"context"
	"fmt"

	"xenory/config"
	"xenory/database"
	"xenory/repository"
	"xenory/repository/mongostore"
	"xenory/repository/sheetstore"
	"xenory/service"

	log "github.com/sirupsen/logrus"
)

// openStore connects the configured config store backend. The returned func
// releases the backend's connection.
func openStore(ctx context.Context, cfg *config.Config) (service.GuildConfigRepository, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreBackendPostgres:
		log.Info("Connecting to postgres...")
		if err := database.RunMigrationsWithURL(cfg.GetDatabaseURL()); err != nil {
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return repository.NewGuildConfigRepository(db), db.Close, nil

	case config.StoreBackendMongo:
		log.Info("Connecting to mongodb...")
		client, err := mongostore.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		store, err := mongostore.New(ctx, client, cfg.MongoDatabase)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.WithError(err).Warn("Error disconnecting from mongodb")
			}
		}
		return store, closeFn, nil

	case config.StoreBackendSheets:
		log.Info("Connecting to google sheets...")
		store, err := sheetstore.New(ctx, cfg.SheetsSpreadsheetID, cfg.SheetsCredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
