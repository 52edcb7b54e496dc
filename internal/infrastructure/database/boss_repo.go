package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bossbot/internal/domain"
	"bossbot/internal/domain/entities"
	"bossbot/internal/ports/output"
)

var _ output.BossRepository = (*BossRepository)(nil)

type BossRepository struct {
	pool *pgxpool.Pool
}

func NewBossRepository(pool *pgxpool.Pool) *BossRepository {
	return &BossRepository{pool: pool}
}

func scanBoss(row pgx.Row) (*entities.Boss, error) {
	var b entities.Boss
	err := row.Scan(
		&b.ID, &b.GuildID, &b.ChannelID, &b.Name, &b.Category, &b.RespawnMinutes,
		&b.WindowMinutes, &b.PreAnnounceMin, &b.NextSpawn, &b.TrustedRoleID,
		&b.CreatedBy, &b.Notes, &b.SortKey, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.NextSpawn = b.NextSpawn.UTC()
	return &b, nil
}

func (r *BossRepository) collect(ctx context.Context, op, query string, args ...any) ([]entities.Boss, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapStore(op, err)
	}
	defer rows.Close()
	var out []entities.Boss
	for rows.Next() {
		b, err := scanBoss(rows)
		if err != nil {
			return nil, wrapStore(op, err)
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStore(op, err)
	}
	return out, nil
}

func (r *BossRepository) Create(ctx context.Context, boss *entities.Boss) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO bosses (guild_id, channel_id, name, category, respawn_minutes, window_minutes,
			pre_announce_min, next_spawn_at, trusted_role_id, created_by, notes, sort_key)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id, created_at, updated_at`,
		boss.GuildID, boss.ChannelID, boss.Name, boss.Category, boss.RespawnMinutes,
		boss.WindowMinutes, boss.PreAnnounceMin, boss.NextSpawn, boss.TrustedRoleID,
		boss.CreatedBy, boss.Notes, boss.SortKey,
	)
	if err := row.Scan(&boss.ID, &boss.CreatedAt, &boss.UpdatedAt); err != nil {
		return wrapStore("create boss", err)
	}
	return nil
}

func (r *BossRepository) FindByID(ctx context.Context, guildID string, id uint) (*entities.Boss, error) {
	row := r.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM bosses WHERE guild_id=$1 AND id=$2", bossColumns),
		guildID, int64(id),
	)
	b, err := scanBoss(row)
	if err != nil {
		return nil, wrapStore("get boss by id", err)
	}
	if err := r.attachAliases(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ResolveIdentifier matches names then aliases, each exact → prefix →
// substring, stopping at the first step with a single hit.
func (r *BossRepository) ResolveIdentifier(ctx context.Context, guildID, identifier string) (*entities.Boss, error) {
	ident := strings.ToLower(strings.TrimSpace(identifier))
	if ident == "" {
		return nil, domain.ErrBossNotFound
	}

	nameQuery := fmt.Sprintf("SELECT %s FROM bosses WHERE guild_id=$1 AND LOWER(name) LIKE $2", bossColumns)
	aliasQuery := fmt.Sprintf(`SELECT %s FROM bosses
		WHERE guild_id=$1 AND id IN (
			SELECT boss_id FROM boss_aliases WHERE guild_id=$1 AND LOWER(alias) LIKE $2
		)`, bossColumns)

	escaped := escapeLike(ident)
	for _, query := range []string{nameQuery, aliasQuery} {
		for _, pattern := range []string{escaped, escaped + "%", "%" + escaped + "%"} {
			matches, err := r.collect(ctx, "resolve identifier", query, guildID, pattern)
			if err != nil {
				return nil, err
			}
			if len(matches) == 1 {
				b := matches[0]
				if err := r.attachAliases(ctx, &b); err != nil {
					return nil, err
				}
				return &b, nil
			}
			if len(matches) > 1 {
				return nil, domain.ErrBossAmbiguous
			}
		}
	}
	return nil, domain.ErrBossNotFound
}

// escapeLike neutralizes LIKE wildcards in user input. The resolver
// appends its own % after escaping, so a name containing a literal % or
// _ still matches exactly.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *BossRepository) ListByGuild(ctx context.Context, guildID, categoryFilter string) ([]entities.Boss, error) {
	query := fmt.Sprintf("SELECT %s FROM bosses WHERE guild_id=$1", bossColumns)
	args := []any{guildID}
	if categoryFilter != "" {
		query += " AND category=$2"
		args = append(args, categoryFilter)
	}
	query += " ORDER BY category, sort_key, name"
	return r.collect(ctx, "list bosses", query, args...)
}

func (r *BossRepository) FindUpcoming(ctx context.Context, now time.Time) ([]entities.Boss, error) {
	return r.collect(ctx, "find upcoming bosses",
		fmt.Sprintf("SELECT %s FROM bosses WHERE next_spawn_at > $1", bossColumns), now)
}

func (r *BossRepository) FindDue(ctx context.Context, now time.Time) ([]entities.Boss, error) {
	return r.collect(ctx, "find due bosses",
		fmt.Sprintf("SELECT %s FROM bosses WHERE next_spawn_at <= $1", bossColumns), now)
}

func (r *BossRepository) Update(ctx context.Context, boss *entities.Boss) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE bosses SET channel_id=$3, name=$4, category=$5, respawn_minutes=$6,
			window_minutes=$7, pre_announce_min=$8, trusted_role_id=$9, notes=$10,
			sort_key=$11, updated_at=now()
		WHERE guild_id=$1 AND id=$2`,
		boss.GuildID, int64(boss.ID), boss.ChannelID, boss.Name, boss.Category,
		boss.RespawnMinutes, boss.WindowMinutes, boss.PreAnnounceMin,
		boss.TrustedRoleID, boss.Notes, boss.SortKey,
	)
	if err != nil {
		return wrapStore("update boss", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBossNotFound
	}
	return nil
}

func (r *BossRepository) SetNextSpawn(ctx context.Context, guildID string, id uint, ts time.Time) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE bosses SET next_spawn_at=$3, updated_at=now() WHERE guild_id=$1 AND id=$2",
		guildID, int64(id), ts,
	)
	if err != nil {
		return wrapStore("set next spawn", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBossNotFound
	}
	return nil
}

func (r *BossRepository) AdjustNextSpawn(ctx context.Context, guildID string, id uint, delta time.Duration) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE bosses SET next_spawn_at = next_spawn_at + $3 * INTERVAL '1 second', updated_at=now() WHERE guild_id=$1 AND id=$2",
		guildID, int64(id), int64(delta/time.Second),
	)
	if err != nil {
		return wrapStore("adjust next spawn", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBossNotFound
	}
	return nil
}

func (r *BossRepository) AddAlias(ctx context.Context, guildID string, id uint, alias string) error {
	if _, err := r.pool.Exec(ctx,
		"INSERT INTO boss_aliases (guild_id, boss_id, alias) VALUES ($1,$2,$3) ON CONFLICT (guild_id, alias) DO NOTHING",
		guildID, int64(id), alias,
	); err != nil {
		return wrapStore("add alias", err)
	}
	return nil
}

func (r *BossRepository) RemoveAlias(ctx context.Context, guildID, alias string) error {
	if _, err := r.pool.Exec(ctx,
		"DELETE FROM boss_aliases WHERE guild_id=$1 AND LOWER(alias)=LOWER($2)",
		guildID, alias,
	); err != nil {
		return wrapStore("remove alias", err)
	}
	return nil
}

func (r *BossRepository) Delete(ctx context.Context, guildID string, id uint) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM bosses WHERE guild_id=$1 AND id=$2", guildID, int64(id))
	if err != nil {
		return wrapStore("delete boss", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBossNotFound
	}
	return nil
}

func (r *BossRepository) attachAliases(ctx context.Context, b *entities.Boss) error {
	rows, err := r.pool.Query(ctx,
		"SELECT alias FROM boss_aliases WHERE guild_id=$1 AND boss_id=$2 ORDER BY alias",
		b.GuildID, int64(b.ID),
	)
	if err != nil {
		return wrapStore("get aliases", err)
	}
	defer rows.Close()
	b.Aliases = b.Aliases[:0]
	for rows.Next() {
		var alias string
		if err := rows.Scan(&alias); err != nil {
			return wrapStore("get aliases", err)
		}
		b.Aliases = append(b.Aliases, alias)
	}
	return rows.Err()
}
