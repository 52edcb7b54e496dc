package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bossbot/internal/config"
	"bossbot/internal/domain/entities"
	"bossbot/internal/ports/output"
)

var _ output.GuildConfigRepository = (*GuildConfigRepository)(nil)

type GuildConfigRepository struct {
	pool *pgxpool.Pool
}

func NewGuildConfigRepository(pool *pgxpool.Pool) *GuildConfigRepository {
	return &GuildConfigRepository{pool: pool}
}

func defaultGuildConfig(guildID string) *entities.GuildConfig {
	return &entities.GuildConfig{
		GuildID:       guildID,
		UptimeMinutes: config.DefaultUptimeMinutes,
		Locale:        config.DefaultLocale,
	}
}

func (r *GuildConfigRepository) Get(ctx context.Context, guildID string) (*entities.GuildConfig, error) {
	cfg := &entities.GuildConfig{GuildID: guildID}
	err := r.pool.QueryRow(ctx, `
		SELECT default_channel_id, sub_channel_id, sub_ping_channel_id, heartbeat_channel_id,
			uptime_minutes, show_eta, locale
		FROM guild_config WHERE guild_id=$1`, guildID,
	).Scan(
		&cfg.DefaultChannelID, &cfg.SubChannelID, &cfg.SubPingChannelID,
		&cfg.HeartbeatChannelID, &cfg.UptimeMinutes, &cfg.ShowETA, &cfg.Locale,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return defaultGuildConfig(guildID), nil
	}
	if err != nil {
		return nil, wrapStore("get guild config", err)
	}
	return cfg, nil
}

func (r *GuildConfigRepository) Upsert(ctx context.Context, cfg *entities.GuildConfig) error {
	if _, err := r.pool.Exec(ctx, `
		INSERT INTO guild_config (guild_id, default_channel_id, sub_channel_id, sub_ping_channel_id,
			heartbeat_channel_id, uptime_minutes, show_eta, locale)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (guild_id) DO UPDATE SET
			default_channel_id=excluded.default_channel_id,
			sub_channel_id=excluded.sub_channel_id,
			sub_ping_channel_id=excluded.sub_ping_channel_id,
			heartbeat_channel_id=excluded.heartbeat_channel_id,
			uptime_minutes=excluded.uptime_minutes,
			show_eta=excluded.show_eta,
			locale=excluded.locale`,
		cfg.GuildID, cfg.DefaultChannelID, cfg.SubChannelID, cfg.SubPingChannelID,
		cfg.HeartbeatChannelID, cfg.UptimeMinutes, cfg.ShowETA, cfg.Locale,
	); err != nil {
		return wrapStore("upsert guild config", err)
	}
	return nil
}

func (r *GuildConfigRepository) EnsureDefaults(ctx context.Context, guildID string) error {
	defaults := defaultGuildConfig(guildID)
	if _, err := r.pool.Exec(ctx, `
		INSERT INTO guild_config (guild_id, uptime_minutes, locale)
		VALUES ($1,$2,$3) ON CONFLICT (guild_id) DO NOTHING`,
		guildID, defaults.UptimeMinutes, defaults.Locale,
	); err != nil {
		return wrapStore("ensure guild defaults", err)
	}
	return nil
}

func (r *GuildConfigRepository) CategoryChannel(ctx context.Context, guildID, category string) (string, error) {
	var channelID string
	err := r.pool.QueryRow(ctx,
		"SELECT channel_id FROM category_channels WHERE guild_id=$1 AND category=$2",
		guildID, category,
	).Scan(&channelID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", wrapStore("get category channel", err)
	}
	return channelID, nil
}

func (r *GuildConfigRepository) SetCategoryChannel(ctx context.Context, guildID, category, channelID string) error {
	if _, err := r.pool.Exec(ctx, `
		INSERT INTO category_channels (guild_id, category, channel_id) VALUES ($1,$2,$3)
		ON CONFLICT (guild_id, category) DO UPDATE SET channel_id=excluded.channel_id`,
		guildID, category, channelID,
	); err != nil {
		return wrapStore("set category channel", err)
	}
	return nil
}

func (r *GuildConfigRepository) IsBlacklisted(ctx context.Context, guildID, userID string) (bool, error) {
	var one int
	err := r.pool.QueryRow(ctx,
		"SELECT 1 FROM blacklist WHERE guild_id=$1 AND user_id=$2",
		guildID, userID,
	).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, wrapStore("check blacklist", err)
	}
	return true, nil
}

func (r *GuildConfigRepository) SetBlacklisted(ctx context.Context, guildID, userID string, blacklisted bool) error {
	var err error
	if blacklisted {
		_, err = r.pool.Exec(ctx,
			"INSERT INTO blacklist (guild_id, user_id) VALUES ($1,$2) ON CONFLICT DO NOTHING",
			guildID, userID)
	} else {
		_, err = r.pool.Exec(ctx,
			"DELETE FROM blacklist WHERE guild_id=$1 AND user_id=$2",
			guildID, userID)
	}
	if err != nil {
		return wrapStore("set blacklist", err)
	}
	return nil
}
