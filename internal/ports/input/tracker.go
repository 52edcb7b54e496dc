package input

import (
	"context"
	"time"

	"bossbot/internal/domain"
	"bossbot/internal/domain/entities"
)

// BossSnapshot pairs a boss with its computed window state for list views.
type BossSnapshot struct {
	Boss  entities.Boss
	State domain.WindowState
}

type TrackerUseCase interface {
	// ResolveBoss marks a boss killed: NextSpawn = now + respawn. The actor
	// must be an admin, hold the trusted role when one is set, or have the
	// manage-messages fallback. Returns the boss name and its respawn
	// interval for confirmation messages.
	ResolveBoss(ctx context.Context, guildID, identifier string, actor entities.Actor) (string, int, error)
	// AdjustBoss shifts NextSpawn by deltaMinutes (negative = due sooner).
	AdjustBoss(ctx context.Context, guildID, identifier string, deltaMinutes int, actor entities.Actor) (*entities.Boss, error)
	CreateBoss(ctx context.Context, boss *entities.Boss, actor entities.Actor) error
	// EditBoss updates a single named field; id and guild are immutable.
	EditBoss(ctx context.Context, guildID, identifier, field, value string, actor entities.Actor) (*entities.Boss, error)
	DeleteBoss(ctx context.Context, guildID, identifier string, actor entities.Actor) error
	AddAlias(ctx context.Context, guildID, identifier, alias string, actor entities.Actor) error
	RemoveAlias(ctx context.Context, guildID, alias string, actor entities.Actor) error
	GetBoss(ctx context.Context, guildID, identifier string) (*entities.Boss, error)
	ListBosses(ctx context.Context, guildID, categoryFilter string, now time.Time) ([]BossSnapshot, error)
	// MarkAllExpired pushes every boss of the guild past its grace window
	// ("nada all"), for when timers are known to be stale.
	MarkAllExpired(ctx context.Context, guildID string, actor entities.Actor) (int, error)
}
