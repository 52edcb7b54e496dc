package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"bossbot/internal/domain"
)

// wrapStore maps storage errors onto the domain taxonomy: a missing row
// is ErrBossNotFound; anything else is a transient store failure the
// caller may retry on the next tick.
func wrapStore(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrBossNotFound
	}
	return fmt.Errorf("%s: %w", op, errors.Join(domain.ErrStoreUnavailable, err))
}

// bossColumns is the canonical select list shared by every boss query.
const bossColumns = `id, guild_id, channel_id, name, category, respawn_minutes, window_minutes,
	pre_announce_min, next_spawn_at, trusted_role_id, created_by, notes, sort_key, created_at, updated_at`
