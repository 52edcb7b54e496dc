package output

import (
	"context"
	"time"

	"bossbot/internal/domain/entities"
)

type BossRepository interface {
	Create(ctx context.Context, boss *entities.Boss) error
	FindByID(ctx context.Context, guildID string, id uint) (*entities.Boss, error)
	// ResolveIdentifier matches a name or alias: exact first, then prefix,
	// then substring. Returns ErrBossAmbiguous when a step matches more
	// than one boss, ErrBossNotFound when nothing matches.
	ResolveIdentifier(ctx context.Context, guildID, identifier string) (*entities.Boss, error)
	ListByGuild(ctx context.Context, guildID, categoryFilter string) ([]entities.Boss, error)
	// FindUpcoming returns bosses of every guild whose NextSpawn is after now.
	FindUpcoming(ctx context.Context, now time.Time) ([]entities.Boss, error)
	// FindDue returns bosses of every guild whose NextSpawn is at or before now.
	FindDue(ctx context.Context, now time.Time) ([]entities.Boss, error)
	// Update persists mutable fields. ID and GuildID are immutable.
	Update(ctx context.Context, boss *entities.Boss) error
	// SetNextSpawn re-anchors the timer (atomic single-row write).
	SetNextSpawn(ctx context.Context, guildID string, id uint, ts time.Time) error
	// AdjustNextSpawn shifts the anchor by delta (atomic single-row write;
	// negative deltas bring the boss due sooner).
	AdjustNextSpawn(ctx context.Context, guildID string, id uint, delta time.Duration) error
	AddAlias(ctx context.Context, guildID string, id uint, alias string) error
	RemoveAlias(ctx context.Context, guildID, alias string) error
	Delete(ctx context.Context, guildID string, id uint) error
}
