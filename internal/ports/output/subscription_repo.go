package output

import "context"

type SubscriptionRepository interface {
	Add(ctx context.Context, guildID string, bossID uint, userID string) error
	Remove(ctx context.Context, guildID string, bossID uint, userID string) error
	// Subscribers returns the deduplicated user IDs subscribed to the boss.
	// An empty result is valid.
	Subscribers(ctx context.Context, guildID string, bossID uint) ([]string, error)
	SubscriptionsOf(ctx context.Context, guildID, userID string) ([]uint, error)
}
