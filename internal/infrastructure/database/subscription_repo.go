package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"bossbot/internal/ports/output"
)

var _ output.SubscriptionRepository = (*SubscriptionRepository)(nil)

type SubscriptionRepository struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepository(pool *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{pool: pool}
}

func (r *SubscriptionRepository) Add(ctx context.Context, guildID string, bossID uint, userID string) error {
	if _, err := r.pool.Exec(ctx,
		"INSERT INTO subscription_members (guild_id, boss_id, user_id) VALUES ($1,$2,$3) ON CONFLICT DO NOTHING",
		guildID, int64(bossID), userID,
	); err != nil {
		return wrapStore("add subscription", err)
	}
	return nil
}

func (r *SubscriptionRepository) Remove(ctx context.Context, guildID string, bossID uint, userID string) error {
	if _, err := r.pool.Exec(ctx,
		"DELETE FROM subscription_members WHERE guild_id=$1 AND boss_id=$2 AND user_id=$3",
		guildID, int64(bossID), userID,
	); err != nil {
		return wrapStore("remove subscription", err)
	}
	return nil
}

func (r *SubscriptionRepository) Subscribers(ctx context.Context, guildID string, bossID uint) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT DISTINCT user_id FROM subscription_members WHERE guild_id=$1 AND boss_id=$2",
		guildID, int64(bossID),
	)
	if err != nil {
		return nil, wrapStore("list subscribers", err)
	}
	defer rows.Close()
	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, wrapStore("list subscribers", err)
		}
		users = append(users, id)
	}
	return users, rows.Err()
}

func (r *SubscriptionRepository) SubscriptionsOf(ctx context.Context, guildID, userID string) ([]uint, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT boss_id FROM subscription_members WHERE guild_id=$1 AND user_id=$2 ORDER BY boss_id",
		guildID, userID,
	)
	if err != nil {
		return nil, wrapStore("list subscriptions", err)
	}
	defer rows.Close()
	var ids []uint
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, wrapStore("list subscriptions", err)
		}
		ids = append(ids, uint(id))
	}
	return ids, rows.Err()
}
