package application

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"bossbot/internal/domain/entities"
	"bossbot/internal/ports/output"
)

// BootState carries what one reconciliation pass learned: the detected
// gap, and the bosses already due at boot, muted so a startup summary
// does not re-announce them one by one. It is scoped to a single boot
// and discarded afterwards.
type BootState struct {
	OfflineSince time.Time
	CaughtUp     int
	muted        map[guildBoss]struct{}
}

// Muted reports whether the boss was already due when the process booted.
func (b *BootState) Muted(guildID string, bossID uint) bool {
	_, ok := b.muted[guildBoss{guildID, bossID}]
	return ok
}

// MutedIn counts the bosses of one guild already due at boot, for the
// startup summary.
func (b *BootState) MutedIn(guildID string) int {
	n := 0
	for k := range b.muted {
		if k.guildID == guildID {
			n++
		}
	}
	return n
}

// Reconcile runs once, before the tick loop starts. It detects downtime
// (explicit offline marker from a graceful shutdown, or a stale tick
// marker) and replays the window opens that happened during the gap as
// catch-up notifications instead of silently skipping them.
//
// The gap marker is cleared unconditionally: a gap is never replayed twice.
func (s *Scheduler) Reconcile(ctx context.Context) (*BootState, error) {
	boot := s.clock.Now()
	state := &BootState{muted: make(map[guildBoss]struct{})}

	if raw, err := s.meta.Get(ctx, output.MetaOfflineSince); err == nil && raw != "" {
		if ts, err := strconv.ParseInt(raw, 10, 64); err == nil {
			state.OfflineSince = time.Unix(ts, 0).UTC()
		}
	}
	if state.OfflineSince.IsZero() {
		if raw, err := s.meta.Get(ctx, output.MetaLastTick); err == nil && raw != "" {
			if ts, err := strconv.ParseInt(raw, 10, 64); err == nil {
				lastTick := time.Unix(ts, 0).UTC()
				if boot.Sub(lastTick) > 2*s.period {
					state.OfflineSince = lastTick
				}
			}
		}
	}
	if err := s.meta.Delete(ctx, output.MetaOfflineSince); err != nil {
		log.Printf("⚠️ Impossible d'effacer le marqueur offline_since: %v", err)
	}

	due, err := s.bosses.FindDue(ctx, boot)
	if err != nil {
		return nil, fmt.Errorf("scan due at boot: %w", err)
	}
	for i := range due {
		state.muted[guildBoss{due[i].GuildID, due[i].ID}] = struct{}{}
	}

	if state.OfflineSince.IsZero() {
		return state, nil
	}

	for i := range due {
		b := due[i]
		if b.NextSpawn.Before(state.OfflineSince) {
			continue // déjà ouvert avant la coupure, rien à rattraper
		}
		t := entities.Transition{
			Boss:       b,
			Kind:       entities.TransitionCatchUpOpen,
			Anchor:     b.NextSpawn,
			OfflineFor: boot.Sub(b.NextSpawn),
		}
		s.markSeen(t)
		// La première passe de la boucle peut recouvrir cette ancre: on
		// consomme aussi la clé WINDOW pour ne pas ré-annoncer l'ouverture.
		s.markSeen(entities.Transition{Boss: b, Kind: entities.TransitionOpen, Anchor: b.NextSpawn})
		recipients, err := s.subs.Subscribers(ctx, b.GuildID, b.ID)
		if err != nil {
			log.Printf("⚠️ Lecture des abonnés impossible pour %s (g%s): %v", b.Name, b.GuildID, err)
			recipients = nil
		}
		if err := s.notifier.NotifyTransition(ctx, t, recipients); err != nil {
			log.Printf("⚠️ Notification de rattrapage échouée pour %s: %v", b.Name, err)
			continue
		}
		state.CaughtUp++
	}
	if state.CaughtUp > 0 {
		log.Printf("💤 Rattrapage hors-ligne: %d fenêtre(s) ouverte(s) pendant la coupure.", state.CaughtUp)
	}
	return state, nil
}
