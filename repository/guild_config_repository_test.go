package repository

import (
	"context"
	"testing"
	"time"

	"xenory/models"
	"xenory/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuildConfigRepository_FindAndUpsert(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGuildConfigRepository(testDB.DB)
	ctx := context.Background()

	t.Run("missing record", func(t *testing.T) {
		cfg, err := repo.Find(ctx, "999")
		require.NoError(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("insert then read", func(t *testing.T) {
		original := testutil.CreateTestGuildConfig("123")
		require.NoError(t, repo.Upsert(ctx, original))

		cfg, err := repo.Find(ctx, "123")
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, original.RestrictedRole(), cfg.RestrictedRole())
		assert.Equal(t, original.VerifiedRole(), cfg.VerifiedRole())
		assert.Equal(t, original.WelcomeChannel(), cfg.WelcomeChannel())
		assert.Equal(t, original.WelcomeMessage(), cfg.WelcomeMessage())
		assert.Equal(t, original.WelcomeDM(), cfg.WelcomeDM())
		assert.True(t, cfg.SendWelcomeDM)
		assert.Equal(t, original.ApplicationCategory(), cfg.ApplicationCategory())
		assert.Equal(t, original.StaffChannel(), cfg.StaffChannel())
		assert.Equal(t, original.StaffPingRole(), cfg.StaffPingRole())
		assert.Equal(t, original.ApplicationTitle, cfg.ApplicationTitle)
		assert.WithinDuration(t, original.UpdatedAt, cfg.UpdatedAt, time.Millisecond)
	})

	t.Run("upsert replaces and clears", func(t *testing.T) {
		cfg := models.NewGuildConfig("456")
		verified := "v1"
		cfg.VerifiedRoleID = &verified
		cfg.UpdatedAt = time.Now().UTC()
		require.NoError(t, repo.Upsert(ctx, cfg))

		cfg.VerifiedRoleID = nil
		restricted := "r1"
		cfg.RestrictedRoleID = &restricted
		require.NoError(t, repo.Upsert(ctx, cfg))

		stored, err := repo.Find(ctx, "456")
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.False(t, stored.HasVerifiedRole())
		assert.Equal(t, "r1", stored.RestrictedRole())
		assert.Equal(t, models.DefaultApplicationTitle, stored.ApplicationTitle)
	})

	t.Run("empty title stored as default", func(t *testing.T) {
		cfg := &models.GuildConfig{GuildID: "789", UpdatedAt: time.Now().UTC()}
		require.NoError(t, repo.Upsert(ctx, cfg))

		stored, err := repo.Find(ctx, "789")
		require.NoError(t, err)
		assert.Equal(t, models.DefaultApplicationTitle, stored.ApplicationTitle)
	})
}
