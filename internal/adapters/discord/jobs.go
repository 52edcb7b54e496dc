package discord

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/robfig/cron/v3"

	"bossbot/internal/application"
	"bossbot/internal/ports/input"
	"bossbot/internal/ports/output"
)

// Jobs runs the background chores that are not tick-precision work: the
// per-guild heartbeat and the expired-listing sweep.
type Jobs struct {
	session  *discordgo.Session
	guilds   output.GuildConfigRepository
	listings input.ListingUseCase
	t        output.T
	clock    application.Clock
	cron     *cron.Cron

	mu       sync.Mutex
	lastBeat map[string]time.Time
}

func NewJobs(session *discordgo.Session, guilds output.GuildConfigRepository, listings input.ListingUseCase, t output.T, clock application.Clock) *Jobs {
	return &Jobs{
		session:  session,
		guilds:   guilds,
		listings: listings,
		t:        t,
		clock:    clock,
		cron:     cron.New(),
		lastBeat: make(map[string]time.Time),
	}
}

// Start registers and launches the cron entries. The heartbeat entry runs
// every minute and applies each guild's own cadence itself.
func (j *Jobs) Start() error {
	if _, err := j.cron.AddFunc("@every 1m", j.runHeartbeats); err != nil {
		return err
	}
	if _, err := j.cron.AddFunc("@every 5m", j.sweepListings); err != nil {
		return err
	}
	j.cron.Start()
	log.Println("🧹 Tâches périodiques démarrées (heartbeat, purge des annonces).")
	return nil
}

func (j *Jobs) Stop() {
	<-j.cron.Stop().Done()
}

// AnnounceStartup posts the post-gap summary in each guild's heartbeat
// channel: how many timers were left quiet instead of being replayed one
// by one.
func (j *Jobs) AnnounceStartup(boot *application.BootState) {
	if boot == nil || boot.OfflineSince.IsZero() {
		return
	}
	ctx := context.Background()
	for _, g := range j.session.State.Guilds {
		cfg, err := j.guilds.Get(ctx, g.ID)
		if err != nil || cfg.HeartbeatChannelID == "" {
			continue
		}
		content := j.t.T(cfg.Locale, "startup_summary", map[string]any{"Muted": boot.MutedIn(g.ID)})
		if _, err := j.session.ChannelMessageSend(cfg.HeartbeatChannelID, content); err != nil {
			log.Printf("⚠️ Résumé de démarrage impossible dans %s (g%s): %v", cfg.HeartbeatChannelID, g.ID, err)
		}
	}
}

func (j *Jobs) runHeartbeats() {
	ctx := context.Background()
	now := j.clock.Now()
	for _, g := range j.session.State.Guilds {
		cfg, err := j.guilds.Get(ctx, g.ID)
		if err != nil {
			log.Printf("⚠️ Heartbeat: config illisible pour g%s: %v", g.ID, err)
			continue
		}
		if cfg.UptimeMinutes <= 0 || cfg.HeartbeatChannelID == "" {
			continue
		}
		j.mu.Lock()
		last := j.lastBeat[g.ID]
		due := now.Sub(last) >= time.Duration(cfg.UptimeMinutes)*time.Minute
		if due {
			j.lastBeat[g.ID] = now
		}
		j.mu.Unlock()
		if !due {
			continue
		}
		content := j.t.T(cfg.Locale, "heartbeat_online", nil)
		if _, err := j.session.ChannelMessageSend(cfg.HeartbeatChannelID, content); err != nil {
			log.Printf("⚠️ Heartbeat impossible dans %s (g%s): %v", cfg.HeartbeatChannelID, g.ID, err)
		}
	}
}

func (j *Jobs) sweepListings() {
	ctx := context.Background()
	expired, err := j.listings.SweepExpired(ctx)
	if err != nil {
		log.Printf("⚠️ Purge des annonces échouée: %v", err)
		return
	}
	for i := range expired {
		l := expired[i]
		if l.ChannelID == "" || l.MessageID == "" {
			continue
		}
		if err := j.session.ChannelMessageDelete(l.ChannelID, l.MessageID); err != nil {
			// Le message a pu être supprimé à la main: rien à rattraper.
			log.Printf("⚠️ Suppression du message d'annonce %s impossible: %v", l.MessageID, err)
		}
	}
	if len(expired) > 0 {
		log.Printf("🧹 %d annonce(s) expirée(s) purgée(s).", len(expired))
	}
}
