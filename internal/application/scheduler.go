package application

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"bossbot/internal/domain/entities"
	"bossbot/internal/ports/output"
)

// transitionKey identifies one emitted transition. Keying by the anchor
// means resolving a boss (which moves NextSpawn) naturally re-arms both
// its transitions.
type transitionKey struct {
	guildID string
	bossID  uint
	kind    entities.TransitionKind
	anchor  int64
}

type guildBoss struct {
	guildID string
	bossID  uint
}

// Scheduler drives all time-based logic: one serialized tick loop that
// detects pre-announce and window-open crossings since the previous tick
// and forwards each transition at most once to the notifier.
//
// A single Scheduler must run per store; two processes ticking against
// the same database would double-announce (deployment constraint).
type Scheduler struct {
	bosses   output.BossRepository
	meta     output.MetaRepository
	subs     output.SubscriptionRepository
	notifier output.Notifier
	clock    Clock
	period   time.Duration

	mu       sync.Mutex
	lastTick time.Time
	seen     map[transitionKey]struct{}
}

func NewScheduler(
	bosses output.BossRepository,
	meta output.MetaRepository,
	subs output.SubscriptionRepository,
	notifier output.Notifier,
	clock Clock,
	period time.Duration,
) *Scheduler {
	return &Scheduler{
		bosses:   bosses,
		meta:     meta,
		subs:     subs,
		notifier: notifier,
		clock:    clock,
		period:   period,
		seen:     make(map[transitionKey]struct{}),
	}
}

// Run ticks until the context is cancelled. Ticks are serialized by the
// ticker: an overrunning tick delays the next one, it is never run
// concurrently with it.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()
	log.Printf("⏱️ Boucle de timers démarrée (période %s)", s.period)
	for {
		select {
		case <-ctx.Done():
			log.Println("⏱️ Boucle de timers arrêtée.")
			return
		case <-ticker.C:
			if err := s.Tick(ctx, s.clock.Now()); err != nil {
				log.Printf("⚠️ Tick ignoré: %v", err)
			}
		}
	}
}

// Tick runs one scan at the given instant. On a storage error nothing is
// advanced (neither the in-memory boundary nor the persisted marker), so
// the same range is retried on the next tick.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) error {
	s.mu.Lock()
	prev := s.lastTick
	s.mu.Unlock()
	if prev.IsZero() {
		prev = now.Add(-s.period)
	}

	upcoming, err := s.bosses.FindUpcoming(ctx, now)
	if err != nil {
		return fmt.Errorf("scan upcoming: %w", err)
	}
	due, err := s.bosses.FindDue(ctx, now)
	if err != nil {
		return fmt.Errorf("scan due: %w", err)
	}

	// Pre-announces are detected before window opens: when both instants
	// land in the same tick range, the pre fires first. The due set is
	// scanned too, for the case where the spawn itself crossed in the
	// same range as its pre-announce.
	var transitions []entities.Transition
	for _, group := range [][]entities.Boss{upcoming, due} {
		for i := range group {
			b := group[i]
			preAt, ok := b.PreAnnounceAt()
			if !ok {
				continue
			}
			if preAt.After(prev) && !preAt.After(now) {
				transitions = append(transitions, entities.Transition{
					Boss:      b,
					Kind:      entities.TransitionPre,
					Anchor:    b.NextSpawn,
					Remaining: b.NextSpawn.Sub(now),
				})
			}
		}
	}
	for i := range due {
		b := due[i]
		// Only when the anchor crossed during this tick: bosses already
		// overdue at boot stay inert until they are resolved again.
		if b.NextSpawn.After(prev) && !b.NextSpawn.After(now) {
			transitions = append(transitions, entities.Transition{
				Boss:   b,
				Kind:   entities.TransitionOpen,
				Anchor: b.NextSpawn,
			})
		}
	}

	// Commit point: detection is complete, advance the tick boundary.
	s.mu.Lock()
	s.lastTick = now
	s.mu.Unlock()
	if err := s.meta.Set(ctx, output.MetaLastTick, strconv.FormatInt(now.Unix(), 10)); err != nil {
		log.Printf("⚠️ Impossible de persister last_tick_ts: %v", err)
	}

	for i := range transitions {
		s.emit(ctx, transitions[i])
	}

	s.evict(upcoming, due)
	return nil
}

// emit forwards one transition unless its key was already seen. Delivery
// failures are logged and the key stays consumed: a broken channel never
// causes endless retries nor blocks the other bosses of this tick.
func (s *Scheduler) emit(ctx context.Context, t entities.Transition) {
	key := transitionKey{
		guildID: t.Boss.GuildID,
		bossID:  t.Boss.ID,
		kind:    t.Kind,
		anchor:  t.Anchor.Unix(),
	}
	s.mu.Lock()
	if _, dup := s.seen[key]; dup {
		s.mu.Unlock()
		return
	}
	s.seen[key] = struct{}{}
	s.mu.Unlock()

	recipients, err := s.subs.Subscribers(ctx, t.Boss.GuildID, t.Boss.ID)
	if err != nil {
		log.Printf("⚠️ Lecture des abonnés impossible pour %s (g%s): %v", t.Boss.Name, t.Boss.GuildID, err)
		recipients = nil
	}
	if err := s.notifier.NotifyTransition(ctx, t, recipients); err != nil {
		log.Printf("⚠️ Notification %s échouée pour %s: %v", t.Kind, t.Boss.Name, err)
	}
}

// evict drops dedup entries whose anchor no longer matches the boss's
// current NextSpawn (the boss was resolved or deleted), keeping the set
// bounded by the number of live anchors.
func (s *Scheduler) evict(groups ...[]entities.Boss) {
	anchors := make(map[guildBoss]int64)
	for _, bosses := range groups {
		for i := range bosses {
			b := bosses[i]
			anchors[guildBoss{b.GuildID, b.ID}] = b.NextSpawn.Unix()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.seen {
		cur, ok := anchors[guildBoss{key.guildID, key.bossID}]
		if !ok || cur != key.anchor {
			delete(s.seen, key)
		}
	}
}

// markSeen pre-loads a dedup entry (used by the boot reconciliation).
func (s *Scheduler) markSeen(t entities.Transition) {
	key := transitionKey{
		guildID: t.Boss.GuildID,
		bossID:  t.Boss.ID,
		kind:    t.Kind,
		anchor:  t.Anchor.Unix(),
	}
	s.mu.Lock()
	s.seen[key] = struct{}{}
	s.mu.Unlock()
}
