package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bossbot/internal/domain"
	"bossbot/internal/domain/entities"
)

func TestSubscribeByAlias(t *testing.T) {
	t0 := time.Date(2025, 9, 12, 12, 0, 0, 0, time.UTC)
	bosses := newMemBossRepo()
	subs := newMemSubRepo()
	svc := NewSubscriptionService(subs, bosses)
	ctx := context.Background()

	boss := addBoss(t, bosses, entities.Boss{GuildID: "g1", Name: "Gelebron", NextSpawn: t0, Aliases: []string{"gele"}})

	got, err := svc.Subscribe(ctx, "g1", "gele", "u1")
	require.NoError(t, err)
	assert.Equal(t, boss.ID, got.ID)

	recipients, err := subs.Subscribers(ctx, "g1", boss.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, recipients)

	_, err = svc.Unsubscribe(ctx, "g1", "gelebron", "u1")
	require.NoError(t, err)
	recipients, err = subs.Subscribers(ctx, "g1", boss.ID)
	require.NoError(t, err)
	assert.Empty(t, recipients)
}

func TestSubscribeUnknownBoss(t *testing.T) {
	bosses := newMemBossRepo()
	svc := NewSubscriptionService(newMemSubRepo(), bosses)

	_, err := svc.Subscribe(context.Background(), "g1", "inconnu", "u1")
	assert.ErrorIs(t, err, domain.ErrBossNotFound)
}

func TestSubscriptionsSkipDeletedBosses(t *testing.T) {
	t0 := time.Date(2025, 9, 12, 12, 0, 0, 0, time.UTC)
	bosses := newMemBossRepo()
	subs := newMemSubRepo()
	svc := NewSubscriptionService(subs, bosses)
	ctx := context.Background()

	kept := addBoss(t, bosses, entities.Boss{GuildID: "g1", Name: "Mordris", NextSpawn: t0})
	gone := addBoss(t, bosses, entities.Boss{GuildID: "g1", Name: "Aggorath", NextSpawn: t0})
	require.NoError(t, subs.Add(ctx, "g1", kept.ID, "u1"))
	require.NoError(t, subs.Add(ctx, "g1", gone.ID, "u1"))

	require.NoError(t, bosses.Delete(ctx, "g1", gone.ID))

	list, err := svc.Subscriptions(ctx, "g1", "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Mordris", list[0].Name)
}
