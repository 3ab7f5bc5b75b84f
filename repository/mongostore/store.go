package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"xenory/models"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// CollectionName is the collection holding one document per guild
const CollectionName = "guild_configs"

// Connect opens a client and verifies the primary is reachable
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetAppName("xenory").
		SetServerSelectionTimeout(10*time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return client, nil
}

// Store stores guild configurations in MongoDB
type Store struct {
	collection *mongo.Collection
}

// New creates a store on the given database and ensures the guild_id index exists
func New(ctx context.Context, client *mongo.Client, databaseName string) (*Store, error) {
	collection := client.Database(databaseName).Collection(CollectionName)

	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "guild_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("guild_id_unique"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create guild_id index: %w", err)
	}

	log.WithFields(log.Fields{
		"database":   databaseName,
		"collection": CollectionName,
	}).Debug("Mongo config store ready")

	return &Store{collection: collection}, nil
}

// Find returns the configuration for a guild, or nil when none is stored
func (s *Store) Find(ctx context.Context, guildID string) (*models.GuildConfig, error) {
	var cfg models.GuildConfig
	err := s.collection.FindOne(ctx, bson.M{"guild_id": guildID}).Decode(&cfg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guild config for guild %s: %w", guildID, err)
	}
	if cfg.ApplicationTitle == "" {
		cfg.ApplicationTitle = models.DefaultApplicationTitle
	}
	return &cfg, nil
}

// Upsert replaces the guild's document, inserting it when absent
func (s *Store) Upsert(ctx context.Context, cfg *models.GuildConfig) error {
	_, err := s.collection.ReplaceOne(ctx,
		bson.M{"guild_id": cfg.GuildID},
		cfg,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert guild config for guild %s: %w", cfg.GuildID, err)
	}
	return nil
}
