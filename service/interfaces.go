package service

import (
	"context"

	"xenory/models"
)

// GuildConfigRepository defines the interface for guild configuration storage backends
type GuildConfigRepository interface {
	// Find returns the configuration for a guild, or nil when none is stored
	Find(ctx context.Context, guildID string) (*models.GuildConfig, error)

	// Upsert inserts or replaces the configuration of cfg.GuildID
	Upsert(ctx context.Context, cfg *models.GuildConfig) error
}

// GuildConfigService defines the configuration operations used by the bot and dashboard
type GuildConfigService interface {
	// Get returns the configuration for a guild. It never fails: a missing
	// record or an unavailable backend yields the default configuration.
	Get(ctx context.Context, guildID string) *models.GuildConfig

	// Save merges a partial update into the stored configuration, creating
	// the record with defaults when absent
	Save(ctx context.Context, guildID string, update models.GuildConfigUpdate) (*models.GuildConfig, error)
}
