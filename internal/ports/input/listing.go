package input

import (
	"context"

	"bossbot/internal/domain/entities"
)

// PostResult tells the command layer what happened to a post request:
// either a fresh listing was created or an existing one was bumped.
type PostResult struct {
	Listing *entities.Listing
	Bumped  bool
}

type ListingUseCase interface {
	// Post creates (or bumps) a classified-ad listing after validation,
	// the per-author throttle and the bump cooldown.
	Post(ctx context.Context, guildID, section, topicKey, authorID, text string) (*PostResult, error)
	Browse(ctx context.Context, guildID, section, topicKey string) ([]entities.Listing, error)
	Topics(ctx context.Context, guildID, section string) ([]entities.Topic, error)
	SectionConfig(ctx context.Context, guildID, section string) (*entities.SectionConfig, error)
	SetSectionChannel(ctx context.Context, guildID, section, channelID string) error
	SetSectionRole(ctx context.Context, guildID, section, roleID string) error
	// AttachMessage records where the listing was posted so the sweeper can
	// delete the message when the listing expires.
	AttachMessage(ctx context.Context, listing *entities.Listing, channelID, messageID string) error
	// SweepExpired deletes expired listings and returns them.
	SweepExpired(ctx context.Context) ([]entities.Listing, error)
	SeedTopics(ctx context.Context, guildID string) error
	// DeleteTopic removes a topic key; existing listings under it keep
	// running until they expire.
	DeleteTopic(ctx context.Context, guildID, section, key string) error
}

type SubscriptionUseCase interface {
	Subscribe(ctx context.Context, guildID, identifier, userID string) (*entities.Boss, error)
	Unsubscribe(ctx context.Context, guildID, identifier, userID string) (*entities.Boss, error)
	Subscriptions(ctx context.Context, guildID, userID string) ([]entities.Boss, error)
}
