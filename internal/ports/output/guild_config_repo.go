package output

import (
	"context"

	"bossbot/internal/domain/entities"
)

type GuildConfigRepository interface {
	// Get returns the guild row, or a config with defaults when the guild
	// has no row yet.
	Get(ctx context.Context, guildID string) (*entities.GuildConfig, error)
	Upsert(ctx context.Context, cfg *entities.GuildConfig) error
	// EnsureDefaults inserts the default row if the guild is unknown.
	EnsureDefaults(ctx context.Context, guildID string) error
	CategoryChannel(ctx context.Context, guildID, category string) (string, error)
	SetCategoryChannel(ctx context.Context, guildID, category, channelID string) error
	IsBlacklisted(ctx context.Context, guildID, userID string) (bool, error)
	SetBlacklisted(ctx context.Context, guildID, userID string, blacklisted bool) error
}
