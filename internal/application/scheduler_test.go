package application

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bossbot/internal/domain/entities"
	"bossbot/internal/ports/output"
)

const testPeriod = 15 * time.Second

func newTestScheduler(t0 time.Time) (*Scheduler, *memBossRepo, *memMetaRepo, *memSubRepo, *recordNotifier) {
	bosses := newMemBossRepo()
	meta := newMemMetaRepo()
	subs := newMemSubRepo()
	notifier := &recordNotifier{}
	s := NewScheduler(bosses, meta, subs, notifier, newFakeClock(t0), testPeriod)
	return s, bosses, meta, subs, notifier
}

func addBoss(t *testing.T, repo *memBossRepo, b entities.Boss) *entities.Boss {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &b))
	return &b
}

func TestTickAnnouncesWindowOpenOnce(t *testing.T) {
	t0 := time.Date(2025, 9, 12, 12, 0, 0, 0, time.UTC)
	s, bosses, meta, _, notifier := newTestScheduler(t0)
	ctx := context.Background()

	spawn := t0.Add(10 * time.Second)
	addBoss(t, bosses, entities.Boss{GuildID: "g1", Name: "Gelebron", RespawnMinutes: 1920, WindowMinutes: 1680, NextSpawn: spawn})

	require.NoError(t, s.Tick(ctx, t0))
	assert.Empty(t, notifier.all())

	require.NoError(t, s.Tick(ctx, t0.Add(testPeriod)))
	sent := notifier.all()
	require.Len(t, sent, 1)
	assert.Equal(t, entities.TransitionOpen, sent[0].transition.Kind)
	assert.Equal(t, "Gelebron", sent[0].transition.Boss.Name)
	assert.True(t, sent[0].transition.Anchor.Equal(spawn))

	// Les ticks suivants ne ré-annoncent pas la même ancre.
	require.NoError(t, s.Tick(ctx, t0.Add(2*testPeriod)))
	require.NoError(t, s.Tick(ctx, t0.Add(3*testPeriod)))
	assert.Len(t, notifier.all(), 1)

	raw, err := meta.Get(ctx, output.MetaLastTick)
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatInt(t0.Add(3*testPeriod).Unix(), 10), raw)
}

func TestTickPreAnnounceBeforeOpen(t *testing.T) {
	t0 := time.Date(2025, 9, 12, 12, 0, 0, 0, time.UTC)
	s, bosses, _, _, notifier := newTestScheduler(t0)
	ctx := context.Background()

	spawn := t0.Add(90 * time.Second)
	addBoss(t, bosses, entities.Boss{GuildID: "g1", Name: "Unox", PreAnnounceMin: 1, NextSpawn: spawn})

	require.NoError(t, s.Tick(ctx, t0))
	// Pré-annonce et ouverture tombent dans la même plage: la pré d'abord.
	require.NoError(t, s.Tick(ctx, t0.Add(2*time.Minute)))

	sent := notifier.all()
	require.Len(t, sent, 2)
	assert.Equal(t, entities.TransitionPre, sent[0].transition.Kind)
	assert.Equal(t, entities.TransitionOpen, sent[1].transition.Kind)
	assert.True(t, sent[0].transition.Anchor.Equal(spawn))
	assert.True(t, sent[1].transition.Anchor.Equal(spawn))
}

func TestPreAnnounceDisabledByZero(t *testing.T) {
	t0 := time.Date(2025, 9, 12, 12, 0, 0, 0, time.UTC)
	s, bosses, _, _, notifier := newTestScheduler(t0)
	ctx := context.Background()

	addBoss(t, bosses, entities.Boss{GuildID: "g1", Name: "Pyrus", PreAnnounceMin: 0, NextSpawn: t0.Add(5 * time.Minute)})

	require.NoError(t, s.Tick(ctx, t0))
	require.NoError(t, s.Tick(ctx, t0.Add(4*time.Minute+50*time.Second)))
	assert.Empty(t, notifier.all())
}

func TestOverdueAtBootStaysQuiet(t *testing.T) {
	t0 := time.Date(2025, 9, 12, 12, 0, 0, 0, time.UTC)
	s, bosses, _, _, notifier := newTestScheduler(t0)
	ctx := context.Background()

	// Déjà en retard au premier tick: l'ancre n'a pas traversé la plage,
	// rien n'est annoncé tant que le boss n'est pas résolu.
	addBoss(t, bosses, entities.Boss{GuildID: "g1", Name: "Mordris", NextSpawn: t0.Add(-time.Hour)})

	require.NoError(t, s.Tick(ctx, t0))
	require.NoError(t, s.Tick(ctx, t0.Add(testPeriod)))
	assert.Empty(t, notifier.all())
}

func TestStoreErrorLeavesRangeForRetry(t *testing.T) {
	t0 := time.Date(2025, 9, 12, 12, 0, 0, 0, time.UTC)
	s, bosses, meta, _, notifier := newTestScheduler(t0)
	ctx := context.Background()

	spawn := t0.Add(10 * time.Second)
	addBoss(t, bosses, entities.Boss{GuildID: "g1", Name: "Bloodthorn", NextSpawn: spawn})

	require.NoError(t, s.Tick(ctx, t0))

	bosses.scanErr = errors.New("connexion perdue")
	err := s.Tick(ctx, t0.Add(testPeriod))
	require.Error(t, err)
	assert.Empty(t, notifier.all())
	raw, _ := meta.Get(ctx, output.MetaLastTick)
	assert.Equal(t, strconv.FormatInt(t0.Unix(), 10), raw, "le marqueur ne doit pas avancer sur erreur")

	// La panne passée, la même plage est rescannée et l'ancre rattrapée.
	bosses.scanErr = nil
	require.NoError(t, s.Tick(ctx, t0.Add(2*testPeriod)))
	sent := notifier.all()
	require.Len(t, sent, 1)
	assert.Equal(t, entities.TransitionOpen, sent[0].transition.Kind)
}

func TestResolveReArmsAnnouncements(t *testing.T) {
	t0 := time.Date(2025, 9, 12, 12, 0, 0, 0, time.UTC)
	s, bosses, _, _, notifier := newTestScheduler(t0)
	ctx := context.Background()

	boss := addBoss(t, bosses, entities.Boss{GuildID: "g1", Name: "Aggorath", NextSpawn: t0.Add(10 * time.Second)})

	require.NoError(t, s.Tick(ctx, t0))
	require.NoError(t, s.Tick(ctx, t0.Add(testPeriod)))
	require.Len(t, notifier.all(), 1)

	// Kill: nouvelle ancre, nouvelles annonces.
	newSpawn := t0.Add(70 * time.Second)
	require.NoError(t, bosses.SetNextSpawn(ctx, "g1", boss.ID, newSpawn))

	require.NoError(t, s.Tick(ctx, t0.Add(2*testPeriod)))
	require.NoError(t, s.Tick(ctx, t0.Add(75*time.Second)))
	sent := notifier.all()
	require.Len(t, sent, 2)
	assert.True(t, sent[1].transition.Anchor.Equal(newSpawn))
}

func TestNotifierFailureIsNotRetried(t *testing.T) {
	t0 := time.Date(2025, 9, 12, 12, 0, 0, 0, time.UTC)
	s, bosses, _, _, notifier := newTestScheduler(t0)
	ctx := context.Background()

	addBoss(t, bosses, entities.Boss{GuildID: "g1", Name: "Necromancer", NextSpawn: t0.Add(10 * time.Second)})
	notifier.failNext = errors.New("salon supprimé")

	require.NoError(t, s.Tick(ctx, t0))
	require.NoError(t, s.Tick(ctx, t0.Add(testPeriod)))
	assert.Empty(t, notifier.all())

	// La clé est consommée: pas de tempête de retentatives.
	require.NoError(t, s.Tick(ctx, t0.Add(2*testPeriod)))
	assert.Empty(t, notifier.all())
}

func TestSubscriberFanout(t *testing.T) {
	t0 := time.Date(2025, 9, 12, 12, 0, 0, 0, time.UTC)
	s, bosses, _, subs, notifier := newTestScheduler(t0)
	ctx := context.Background()

	boss := addBoss(t, bosses, entities.Boss{GuildID: "g1", Name: "Hrungnir", NextSpawn: t0.Add(10 * time.Second)})
	require.NoError(t, subs.Add(ctx, "g1", boss.ID, "u1"))
	require.NoError(t, subs.Add(ctx, "g1", boss.ID, "u2"))
	require.NoError(t, subs.Add(ctx, "g1", boss.ID, "u2")) // doublon ignoré

	require.NoError(t, s.Tick(ctx, t0))
	require.NoError(t, s.Tick(ctx, t0.Add(testPeriod)))

	sent := notifier.all()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"u1", "u2"}, sent[0].recipients)
}

func TestTransitionsAreScopedPerGuild(t *testing.T) {
	t0 := time.Date(2025, 9, 12, 12, 0, 0, 0, time.UTC)
	s, bosses, _, _, notifier := newTestScheduler(t0)
	ctx := context.Background()

	spawn := t0.Add(10 * time.Second)
	addBoss(t, bosses, entities.Boss{GuildID: "g1", Name: "Proteus", NextSpawn: spawn})
	addBoss(t, bosses, entities.Boss{GuildID: "g2", Name: "Proteus", NextSpawn: spawn})

	require.NoError(t, s.Tick(ctx, t0))
	require.NoError(t, s.Tick(ctx, t0.Add(testPeriod)))

	sent := notifier.all()
	require.Len(t, sent, 2)
	guilds := map[string]bool{}
	for _, n := range sent {
		guilds[n.transition.Boss.GuildID] = true
	}
	assert.True(t, guilds["g1"] && guilds["g2"])
}
