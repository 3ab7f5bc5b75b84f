package repository

import (
	"context"
	"errors"
	"fmt"

	"xenory/database"
	"xenory/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// queryable is satisfied by *pgxpool.Pool and pgx.Tx
type queryable interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// GuildConfigRepository stores guild configurations in Postgres
type GuildConfigRepository struct {
	q queryable
}

// NewGuildConfigRepository creates a new guild config repository
func NewGuildConfigRepository(db *database.DB) *GuildConfigRepository {
	return &GuildConfigRepository{q: db.Pool}
}

const guildConfigColumns = `
	guild_id,
	restricted_role_id,
	verified_role_id,
	welcome_channel_id,
	welcome_message_template,
	welcome_dm_template,
	send_welcome_dm,
	application_category_id,
	application_staff_channel_id,
	staff_ping_role_id,
	application_title,
	updated_at`

// Find returns the configuration for a guild, or nil when none is stored
func (r *GuildConfigRepository) Find(ctx context.Context, guildID string) (*models.GuildConfig, error) {
	query := `SELECT ` + guildConfigColumns + ` FROM guild_configs WHERE guild_id = $1`

	var cfg models.GuildConfig
	err := r.q.QueryRow(ctx, query, guildID).Scan(
		&cfg.GuildID,
		&cfg.RestrictedRoleID,
		&cfg.VerifiedRoleID,
		&cfg.WelcomeChannelID,
		&cfg.WelcomeMessageTemplate,
		&cfg.WelcomeDMTemplate,
		&cfg.SendWelcomeDM,
		&cfg.ApplicationCategoryID,
		&cfg.ApplicationStaffChannelID,
		&cfg.StaffPingRoleID,
		&cfg.ApplicationTitle,
		&cfg.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guild config for guild %s: %w", guildID, err)
	}

	return &cfg, nil
}

// Upsert inserts the configuration or replaces the stored one
func (r *GuildConfigRepository) Upsert(ctx context.Context, cfg *models.GuildConfig) error {
	query := `
		INSERT INTO guild_configs (` + guildConfigColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (guild_id) DO UPDATE SET
			restricted_role_id = EXCLUDED.restricted_role_id,
			verified_role_id = EXCLUDED.verified_role_id,
			welcome_channel_id = EXCLUDED.welcome_channel_id,
			welcome_message_template = EXCLUDED.welcome_message_template,
			welcome_dm_template = EXCLUDED.welcome_dm_template,
			send_welcome_dm = EXCLUDED.send_welcome_dm,
			application_category_id = EXCLUDED.application_category_id,
			application_staff_channel_id = EXCLUDED.application_staff_channel_id,
			staff_ping_role_id = EXCLUDED.staff_ping_role_id,
			application_title = EXCLUDED.application_title,
			updated_at = EXCLUDED.updated_at
	`

	title := cfg.ApplicationTitle
	if title == "" {
		title = models.DefaultApplicationTitle
	}

	_, err := r.q.Exec(ctx, query,
		cfg.GuildID,
		cfg.RestrictedRoleID,
		cfg.VerifiedRoleID,
		cfg.WelcomeChannelID,
		cfg.WelcomeMessageTemplate,
		cfg.WelcomeDMTemplate,
		cfg.SendWelcomeDM,
		cfg.ApplicationCategoryID,
		cfg.ApplicationStaffChannelID,
		cfg.StaffPingRoleID,
		title,
		cfg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert guild config for guild %s: %w", cfg.GuildID, err)
	}

	return nil
}
