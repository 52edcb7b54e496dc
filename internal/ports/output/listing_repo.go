package output

import (
	"context"
	"time"

	"bossbot/internal/domain/entities"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *entities.Listing) error
	// FindActive returns non-expired listings of a section, newest first.
	// topicKey filters case-insensitively when non-empty.
	FindActive(ctx context.Context, guildID, section, topicKey string, now time.Time, limit int) ([]entities.Listing, error)
	// FindByHash returns the most recent listing matching the bump key.
	FindByHash(ctx context.Context, guildID, section, authorID, topicKey, hash string) (*entities.Listing, error)
	// LastCreatedByAuthor returns the newest creation time of the author in
	// the section, or the zero time when the author never posted.
	LastCreatedByAuthor(ctx context.Context, guildID, section, authorID string) (time.Time, error)
	// Bump refreshes the ping/expiry window of an existing listing.
	Bump(ctx context.Context, id uint, now, expires time.Time) error
	// SetMessage records the posted message so the sweeper can delete it.
	SetMessage(ctx context.Context, id uint, channelID, messageID string) error
	// DeleteExpired removes expired listings and returns them so the caller
	// can delete the posted messages.
	DeleteExpired(ctx context.Context, now time.Time) ([]entities.Listing, error)

	SectionConfig(ctx context.Context, guildID, section string) (*entities.SectionConfig, error)
	SetSectionChannel(ctx context.Context, guildID, section, channelID string) error
	SetSectionRole(ctx context.Context, guildID, section, roleID string) error
	Topics(ctx context.Context, guildID, section string) ([]entities.Topic, error)
	UpsertTopic(ctx context.Context, topic *entities.Topic) error
	DeleteTopic(ctx context.Context, guildID, section, key string) error
}
