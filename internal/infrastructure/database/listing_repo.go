package database

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bossbot/internal/domain/entities"
	"bossbot/internal/ports/output"
)

var _ output.ListingRepository = (*ListingRepository)(nil)

type ListingRepository struct {
	pool *pgxpool.Pool
}

func NewListingRepository(pool *pgxpool.Pool) *ListingRepository {
	return &ListingRepository{pool: pool}
}

const listingColumns = `id, guild_id, section, topic_key, author_id, text, text_hash,
	created_at, last_bump_at, expires_at, channel_id, message_id`

func scanListing(row pgx.Row) (*entities.Listing, error) {
	var l entities.Listing
	err := row.Scan(
		&l.ID, &l.GuildID, &l.Section, &l.TopicKey, &l.AuthorID, &l.Text, &l.TextHash,
		&l.CreatedAt, &l.LastBump, &l.ExpiresAt, &l.ChannelID, &l.MessageID,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *ListingRepository) Create(ctx context.Context, listing *entities.Listing) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO listings (guild_id, section, topic_key, author_id, text, text_hash,
			created_at, last_bump_at, expires_at, channel_id, message_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id`,
		listing.GuildID, listing.Section, listing.TopicKey, listing.AuthorID,
		listing.Text, listing.TextHash, listing.CreatedAt, listing.LastBump,
		listing.ExpiresAt, listing.ChannelID, listing.MessageID,
	)
	if err := row.Scan(&listing.ID); err != nil {
		return wrapStore("create listing", err)
	}
	return nil
}

func (r *ListingRepository) FindActive(ctx context.Context, guildID, section, topicKey string, now time.Time, limit int) ([]entities.Listing, error) {
	query := "SELECT " + listingColumns + " FROM listings WHERE guild_id=$1 AND section=$2 AND expires_at > $3"
	args := []any{guildID, section, now}
	if topicKey != "" {
		query += " AND LOWER(topic_key)=LOWER($4)"
		args = append(args, topicKey)
	}
	query += " ORDER BY created_at DESC LIMIT " + strconv.Itoa(limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapStore("browse listings", err)
	}
	defer rows.Close()
	var out []entities.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, wrapStore("browse listings", err)
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

func (r *ListingRepository) FindByHash(ctx context.Context, guildID, section, authorID, topicKey, hash string) (*entities.Listing, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+listingColumns+` FROM listings
		WHERE guild_id=$1 AND section=$2 AND author_id=$3 AND topic_key=$4 AND text_hash=$5
		ORDER BY id DESC LIMIT 1`,
		guildID, section, authorID, topicKey, hash,
	)
	l, err := scanListing(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapStore("find listing by hash", err)
	}
	return l, nil
}

func (r *ListingRepository) LastCreatedByAuthor(ctx context.Context, guildID, section, authorID string) (time.Time, error) {
	var last *time.Time
	err := r.pool.QueryRow(ctx,
		"SELECT MAX(created_at) FROM listings WHERE guild_id=$1 AND section=$2 AND author_id=$3",
		guildID, section, authorID,
	).Scan(&last)
	if err != nil {
		return time.Time{}, wrapStore("last created by author", err)
	}
	if last == nil {
		return time.Time{}, nil
	}
	return last.UTC(), nil
}

func (r *ListingRepository) Bump(ctx context.Context, id uint, now, expires time.Time) error {
	if _, err := r.pool.Exec(ctx,
		"UPDATE listings SET last_bump_at=$2, expires_at=$3 WHERE id=$1",
		int64(id), now, expires,
	); err != nil {
		return wrapStore("bump listing", err)
	}
	return nil
}

func (r *ListingRepository) SetMessage(ctx context.Context, id uint, channelID, messageID string) error {
	if _, err := r.pool.Exec(ctx,
		"UPDATE listings SET channel_id=$2, message_id=$3 WHERE id=$1",
		int64(id), channelID, messageID,
	); err != nil {
		return wrapStore("set listing message", err)
	}
	return nil
}

func (r *ListingRepository) DeleteExpired(ctx context.Context, now time.Time) ([]entities.Listing, error) {
	rows, err := r.pool.Query(ctx,
		"DELETE FROM listings WHERE expires_at <= $1 RETURNING "+listingColumns, now)
	if err != nil {
		return nil, wrapStore("delete expired listings", err)
	}
	defer rows.Close()
	var out []entities.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, wrapStore("delete expired listings", err)
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

func (r *ListingRepository) SectionConfig(ctx context.Context, guildID, section string) (*entities.SectionConfig, error) {
	cfg := &entities.SectionConfig{GuildID: guildID, Section: section}
	err := r.pool.QueryRow(ctx,
		"SELECT post_channel_id, ping_role_id FROM section_channels WHERE guild_id=$1 AND section=$2",
		guildID, section,
	).Scan(&cfg.PostChannelID, &cfg.PingRoleID)
	if errors.Is(err, pgx.ErrNoRows) {
		return cfg, nil
	}
	if err != nil {
		return nil, wrapStore("get section config", err)
	}
	return cfg, nil
}

func (r *ListingRepository) SetSectionChannel(ctx context.Context, guildID, section, channelID string) error {
	if _, err := r.pool.Exec(ctx, `
		INSERT INTO section_channels (guild_id, section, post_channel_id) VALUES ($1,$2,$3)
		ON CONFLICT (guild_id, section) DO UPDATE SET post_channel_id=excluded.post_channel_id`,
		guildID, section, channelID,
	); err != nil {
		return wrapStore("set section channel", err)
	}
	return nil
}

func (r *ListingRepository) SetSectionRole(ctx context.Context, guildID, section, roleID string) error {
	if _, err := r.pool.Exec(ctx, `
		INSERT INTO section_channels (guild_id, section, ping_role_id) VALUES ($1,$2,$3)
		ON CONFLICT (guild_id, section) DO UPDATE SET ping_role_id=excluded.ping_role_id`,
		guildID, section, roleID,
	); err != nil {
		return wrapStore("set section role", err)
	}
	return nil
}

func (r *ListingRepository) Topics(ctx context.Context, guildID, section string) ([]entities.Topic, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT key, emoji, sort_order FROM topic_keys WHERE guild_id=$1 AND section=$2 ORDER BY sort_order, key",
		guildID, section,
	)
	if err != nil {
		return nil, wrapStore("list topics", err)
	}
	defer rows.Close()
	var out []entities.Topic
	for rows.Next() {
		t := entities.Topic{GuildID: guildID, Section: section}
		if err := rows.Scan(&t.Key, &t.Emoji, &t.SortOrder); err != nil {
			return nil, wrapStore("list topics", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *ListingRepository) UpsertTopic(ctx context.Context, topic *entities.Topic) error {
	if _, err := r.pool.Exec(ctx, `
		INSERT INTO topic_keys (guild_id, section, key, emoji, sort_order) VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (guild_id, section, key) DO UPDATE SET emoji=excluded.emoji, sort_order=excluded.sort_order`,
		topic.GuildID, topic.Section, topic.Key, topic.Emoji, topic.SortOrder,
	); err != nil {
		return wrapStore("upsert topic", err)
	}
	return nil
}

func (r *ListingRepository) DeleteTopic(ctx context.Context, guildID, section, key string) error {
	if _, err := r.pool.Exec(ctx,
		"DELETE FROM topic_keys WHERE guild_id=$1 AND section=$2 AND key=$3",
		guildID, section, key,
	); err != nil {
		return wrapStore("delete topic", err)
	}
	return nil
}
