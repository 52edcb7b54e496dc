package application

import (
	"context"

	"bossbot/internal/domain/entities"
	"bossbot/internal/ports/input"
	"bossbot/internal/ports/output"
)

var _ input.SubscriptionUseCase = (*SubscriptionService)(nil)

// SubscriptionService maps bosses to interested members. The scheduler
// consumes the same repository directly for its fan-out; this service is
// the member-facing side (subscribe, unsubscribe, list).
type SubscriptionService struct {
	subs   output.SubscriptionRepository
	bosses output.BossRepository
}

func NewSubscriptionService(subs output.SubscriptionRepository, bosses output.BossRepository) *SubscriptionService {
	return &SubscriptionService{subs: subs, bosses: bosses}
}

func (s *SubscriptionService) Subscribe(ctx context.Context, guildID, identifier, userID string) (*entities.Boss, error) {
	boss, err := s.bosses.ResolveIdentifier(ctx, guildID, identifier)
	if err != nil {
		return nil, err
	}
	if err := s.subs.Add(ctx, guildID, boss.ID, userID); err != nil {
		return nil, err
	}
	return boss, nil
}

func (s *SubscriptionService) Unsubscribe(ctx context.Context, guildID, identifier, userID string) (*entities.Boss, error) {
	boss, err := s.bosses.ResolveIdentifier(ctx, guildID, identifier)
	if err != nil {
		return nil, err
	}
	if err := s.subs.Remove(ctx, guildID, boss.ID, userID); err != nil {
		return nil, err
	}
	return boss, nil
}

func (s *SubscriptionService) Subscriptions(ctx context.Context, guildID, userID string) ([]entities.Boss, error) {
	ids, err := s.subs.SubscriptionsOf(ctx, guildID, userID)
	if err != nil {
		return nil, err
	}
	bosses := make([]entities.Boss, 0, len(ids))
	for _, id := range ids {
		boss, err := s.bosses.FindByID(ctx, guildID, id)
		if err != nil {
			continue // abonnement orphelin (boss supprimé), ignoré
		}
		bosses = append(bosses, *boss)
	}
	return bosses, nil
}
