package application

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"bossbot/internal/domain"
	"bossbot/internal/domain/entities"
	"bossbot/internal/ports/input"
	"bossbot/internal/ports/output"
)

var _ input.TrackerUseCase = (*TrackerService)(nil)

// TrackerService implements the timer commands: kill, adjust, create,
// edit, list. Permission checks live here, not in the store.
type TrackerService struct {
	bosses output.BossRepository
	clock  Clock
	grace  int
}

func NewTrackerService(bosses output.BossRepository, clock Clock, graceSeconds int) *TrackerService {
	return &TrackerService{bosses: bosses, clock: clock, grace: graceSeconds}
}

// canManage is the permission gate for timer mutations: administrators
// always pass; a role-restricted boss requires that exact role; otherwise
// the manage-messages permission counts as trusted.
func canManage(boss *entities.Boss, actor entities.Actor) bool {
	if actor.IsAdmin {
		return true
	}
	if boss.HasRoleRestriction() {
		return actor.HasRole(boss.TrustedRoleID)
	}
	return actor.CanManage
}

func (s *TrackerService) ResolveBoss(ctx context.Context, guildID, identifier string, actor entities.Actor) (string, int, error) {
	boss, err := s.bosses.ResolveIdentifier(ctx, guildID, identifier)
	if err != nil {
		return "", 0, err
	}
	if !canManage(boss, actor) {
		return "", 0, domain.ErrForbidden
	}
	if boss.RespawnMinutes <= 0 {
		return "", 0, domain.ErrInvalidRespawn
	}
	next := s.clock.Now().Add(time.Duration(boss.RespawnMinutes) * time.Minute)
	if err := s.bosses.SetNextSpawn(ctx, guildID, boss.ID, next); err != nil {
		return "", 0, fmt.Errorf("re-arm %s: %w", boss.Name, err)
	}
	return boss.Name, boss.RespawnMinutes, nil
}

func (s *TrackerService) AdjustBoss(ctx context.Context, guildID, identifier string, deltaMinutes int, actor entities.Actor) (*entities.Boss, error) {
	boss, err := s.bosses.ResolveIdentifier(ctx, guildID, identifier)
	if err != nil {
		return nil, err
	}
	if !canManage(boss, actor) {
		return nil, domain.ErrForbidden
	}
	delta := time.Duration(deltaMinutes) * time.Minute
	if err := s.bosses.AdjustNextSpawn(ctx, guildID, boss.ID, delta); err != nil {
		return nil, fmt.Errorf("adjust %s: %w", boss.Name, err)
	}
	return s.bosses.FindByID(ctx, guildID, boss.ID)
}

func (s *TrackerService) CreateBoss(ctx context.Context, boss *entities.Boss, actor entities.Actor) error {
	if !actor.IsAdmin && !actor.CanManage {
		return domain.ErrForbidden
	}
	if boss.RespawnMinutes <= 0 {
		return domain.ErrInvalidRespawn
	}
	boss.Category = domain.NormCategory(boss.Category)
	if boss.NextSpawn.IsZero() {
		// Un nouveau timer démarre au-delà de la grâce ("-Nada") plutôt
		// que d'annoncer une fenêtre fictive.
		boss.NextSpawn = expiredAnchor(s.clock.Now(), boss.WindowMinutes, s.grace)
	}
	return s.bosses.Create(ctx, boss)
}

func (s *TrackerService) EditBoss(ctx context.Context, guildID, identifier, field, value string, actor entities.Actor) (*entities.Boss, error) {
	boss, err := s.bosses.ResolveIdentifier(ctx, guildID, identifier)
	if err != nil {
		return nil, err
	}
	if !canManage(boss, actor) {
		return nil, domain.ErrForbidden
	}

	switch strings.ToLower(strings.TrimSpace(field)) {
	case "id", "guild", "guild_id":
		return nil, domain.ErrImmutableField
	case "name":
		boss.Name = strings.TrimSpace(value)
	case "respawn", "spawn_minutes":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return nil, domain.ErrInvalidRespawn
		}
		boss.RespawnMinutes = n
	case "window", "window_minutes":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("fenêtre invalide %q", value)
		}
		boss.WindowMinutes = n
	case "preannounce", "pre_announce_min":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("pré-annonce invalide %q", value)
		}
		boss.PreAnnounceMin = n
	case "category":
		boss.Category = domain.NormCategory(value)
	case "notes":
		boss.Notes = value
	case "sortkey", "sort_key":
		boss.SortKey = strings.TrimSpace(value)
	case "channel":
		boss.ChannelID = strings.TrimSpace(value)
	case "role", "trusted_role":
		boss.TrustedRoleID = strings.TrimSpace(value)
	default:
		return nil, fmt.Errorf("champ inconnu %q", field)
	}

	if err := s.bosses.Update(ctx, boss); err != nil {
		return nil, fmt.Errorf("edit %s: %w", boss.Name, err)
	}
	return boss, nil
}

func (s *TrackerService) DeleteBoss(ctx context.Context, guildID, identifier string, actor entities.Actor) error {
	boss, err := s.bosses.ResolveIdentifier(ctx, guildID, identifier)
	if err != nil {
		return err
	}
	if !canManage(boss, actor) {
		return domain.ErrForbidden
	}
	return s.bosses.Delete(ctx, guildID, boss.ID)
}

func (s *TrackerService) AddAlias(ctx context.Context, guildID, identifier, alias string, actor entities.Actor) error {
	boss, err := s.bosses.ResolveIdentifier(ctx, guildID, identifier)
	if err != nil {
		return err
	}
	if !canManage(boss, actor) {
		return domain.ErrForbidden
	}
	return s.bosses.AddAlias(ctx, guildID, boss.ID, strings.ToLower(strings.TrimSpace(alias)))
}

func (s *TrackerService) RemoveAlias(ctx context.Context, guildID, alias string, actor entities.Actor) error {
	if !actor.IsAdmin && !actor.CanManage {
		return domain.ErrForbidden
	}
	return s.bosses.RemoveAlias(ctx, guildID, strings.ToLower(strings.TrimSpace(alias)))
}

func (s *TrackerService) GetBoss(ctx context.Context, guildID, identifier string) (*entities.Boss, error) {
	return s.bosses.ResolveIdentifier(ctx, guildID, identifier)
}

func (s *TrackerService) ListBosses(ctx context.Context, guildID, categoryFilter string, now time.Time) ([]input.BossSnapshot, error) {
	filter := ""
	if strings.TrimSpace(categoryFilter) != "" {
		filter = domain.NormCategory(categoryFilter)
	}
	bosses, err := s.bosses.ListByGuild(ctx, guildID, filter)
	if err != nil {
		return nil, err
	}
	snapshots := make([]input.BossSnapshot, len(bosses))
	for i := range bosses {
		snapshots[i] = input.BossSnapshot{
			Boss:  bosses[i],
			State: domain.ComputeWindow(now, bosses[i].NextSpawn, bosses[i].WindowMinutes, s.grace),
		}
	}
	sort.SliceStable(snapshots, func(i, j int) bool {
		a, b := snapshots[i].Boss, snapshots[j].Boss
		if ca, cb := categoryRank(a.Category), categoryRank(b.Category); ca != cb {
			return ca < cb
		}
		if a.SortKey != b.SortKey {
			return a.SortKey < b.SortKey
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
	return snapshots, nil
}

func (s *TrackerService) MarkAllExpired(ctx context.Context, guildID string, actor entities.Actor) (int, error) {
	if !actor.IsAdmin && !actor.CanManage {
		return 0, domain.ErrForbidden
	}
	bosses, err := s.bosses.ListByGuild(ctx, guildID, "")
	if err != nil {
		return 0, err
	}
	now := s.clock.Now()
	count := 0
	for i := range bosses {
		anchor := expiredAnchor(now, bosses[i].WindowMinutes, s.grace)
		if err := s.bosses.SetNextSpawn(ctx, guildID, bosses[i].ID, anchor); err != nil {
			return count, fmt.Errorf("nada %s: %w", bosses[i].Name, err)
		}
		count++
	}
	return count, nil
}

// expiredAnchor is an anchor past the whole window AND the grace, so the
// boss reads "-Nada" and stays inert until it is resolved. Subtracting
// only the grace would leave wide-window bosses mid-window.
func expiredAnchor(now time.Time, windowMinutes, graceSeconds int) time.Time {
	return now.Add(-time.Duration(windowMinutes*60+graceSeconds+1) * time.Second)
}

func categoryRank(category string) int {
	for i, c := range domain.CategoryOrder {
		if c == category {
			return i
		}
	}
	return len(domain.CategoryOrder)
}
