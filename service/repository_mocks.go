package service

import (
	"context"

	"xenory/events"
	"xenory/models"

	"github.com/stretchr/testify/mock"
)

// MockGuildConfigRepository is a mock implementation of GuildConfigRepository
type MockGuildConfigRepository struct {
	mock.Mock
}

func (m *MockGuildConfigRepository) Find(ctx context.Context, guildID string) (*models.GuildConfig, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuildConfig), args.Error(1)
}

func (m *MockGuildConfigRepository) Upsert(ctx context.Context, cfg *models.GuildConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

// MockGuildConfigService is a mock implementation of GuildConfigService
type MockGuildConfigService struct {
	mock.Mock
}

func (m *MockGuildConfigService) Get(ctx context.Context, guildID string) *models.GuildConfig {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return models.NewGuildConfig(guildID)
	}
	return args.Get(0).(*models.GuildConfig)
}

func (m *MockGuildConfigService) Save(ctx context.Context, guildID string, update models.GuildConfigUpdate) (*models.GuildConfig, error) {
	args := m.Called(ctx, guildID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuildConfig), args.Error(1)
}

// MockPublisher is a mock implementation of events.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Emit(ctx context.Context, event events.Event) {
	m.Called(ctx, event)
}
