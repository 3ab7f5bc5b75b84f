package service

import (
	"context"
	"fmt"
	"time"

	"xenory/events"
	"xenory/infrastructure/observability"
	"xenory/models"

	log "github.com/sirupsen/logrus"
)

// ConfigStore implements GuildConfigService on top of a storage backend.
// Reads degrade to defaults, writes merge and propagate errors. Concurrent
// saves for the same guild are last-write-wins.
type ConfigStore struct {
	repo      GuildConfigRepository
	backend   string
	publisher events.Publisher
	metrics   *observability.Metrics
	now       func() time.Time
}

// NewConfigStore creates a new config store. backend names the storage for logs and metrics.
func NewConfigStore(repo GuildConfigRepository, backend string, publisher events.Publisher, metrics *observability.Metrics) *ConfigStore {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &ConfigStore{
		repo:      repo,
		backend:   backend,
		publisher: publisher,
		metrics:   metrics,
		now:       time.Now,
	}
}

// Get returns the configuration for a guild, or the default configuration
// when none is stored or the backend fails
func (s *ConfigStore) Get(ctx context.Context, guildID string) *models.GuildConfig {
	cfg, err := s.repo.Find(ctx, guildID)
	if err != nil {
		log.WithFields(log.Fields{
			"guild_id": guildID,
			"backend":  s.backend,
			"error":    err,
		}).Warn("Config store read failed, using defaults")
		s.metrics.StoreReadFailure(s.backend)
		return models.NewGuildConfig(guildID)
	}
	if cfg == nil {
		return models.NewGuildConfig(guildID)
	}
	return cfg
}

// Save merges update into the stored configuration and writes it back
func (s *ConfigStore) Save(ctx context.Context, guildID string, update models.GuildConfigUpdate) (*models.GuildConfig, error) {
	cfg, err := s.repo.Find(ctx, guildID)
	if err != nil {
		s.metrics.StoreWrite(s.backend, err)
		return nil, fmt.Errorf("failed to read guild config %s: %w", guildID, err)
	}
	if cfg == nil {
		cfg = models.NewGuildConfig(guildID)
	}

	update.Apply(cfg)
	cfg.UpdatedAt = s.now().UTC()

	if err := s.repo.Upsert(ctx, cfg); err != nil {
		s.metrics.StoreWrite(s.backend, err)
		return nil, fmt.Errorf("failed to save guild config %s: %w", guildID, err)
	}
	s.metrics.StoreWrite(s.backend, nil)

	log.WithFields(log.Fields{
		"guild_id": guildID,
		"backend":  s.backend,
	}).Info("Saved guild config")

	s.publisher.Emit(ctx, events.GuildConfigSavedEvent{GuildID: guildID})

	return cfg, nil
}
