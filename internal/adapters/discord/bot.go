package discord

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"

	"bossbot/internal/application"
	"bossbot/internal/config"
	"bossbot/internal/domain/entities"
	"bossbot/internal/infrastructure/i18n"
	"bossbot/internal/ports/output"
)

// Bot is the Discord adapter.
type Bot struct {
	session   *discordgo.Session
	config    *config.Config
	handler   *Handler
	scheduler *application.Scheduler
	seeder    *application.Seeder
	jobs      *Jobs
	guilds    output.GuildConfigRepository
	meta      output.MetaRepository
	clock     application.Clock
}

// NewBot creates a Bot and wires ports: output adapters -> application (use cases) -> handler.
func NewBot(
	cfg *config.Config,
	bosses output.BossRepository,
	guilds output.GuildConfigRepository,
	meta output.MetaRepository,
	subs output.SubscriptionRepository,
	listings output.ListingRepository,
) *Bot {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		log.Fatal("❌ Erreur lors de la création de la session Discord:", err)
	}

	clock := application.SystemClock{}
	translator := i18n.NewTranslator(cfg.Locale)
	notifier := NewNotifier(s, guilds, translator, cfg.GraceSeconds)

	scheduler := application.NewScheduler(bosses, meta, subs, notifier, clock, time.Duration(cfg.TickSeconds)*time.Second)
	tracker := application.NewTrackerService(bosses, clock, cfg.GraceSeconds)
	subUC := application.NewSubscriptionService(subs, bosses)
	listingUC := application.NewListingService(listings, clock, time.Duration(cfg.ListingTTLSeconds)*time.Second)
	seeder := application.NewSeeder(bosses, meta, clock, cfg.GraceSeconds, cfg.PreAnnounceMin)

	handler := NewHandler(tracker, subUC, listingUC, guilds, clock, cfg.GraceSeconds)

	bot := &Bot{
		session:   s,
		config:    cfg,
		handler:   handler,
		scheduler: scheduler,
		seeder:    seeder,
		jobs:      NewJobs(s, guilds, listingUC, translator, clock),
		guilds:    guilds,
		meta:      meta,
		clock:     clock,
	}
	bot.setupHandlers()
	return bot
}

func (b *Bot) setupHandlers() {
	b.session.AddHandler(b.handleInteraction)
	b.session.AddHandler(b.handleGuildCreate)
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	switch i.ApplicationCommandData().Name {
	case "boss":
		b.handler.HandleBossCommand(s, i)
	case "sub":
		b.handler.HandleSubCommand(s, i)
	case "lix":
		b.handler.HandleListingCommand(s, i, entities.SectionLix)
	case "market":
		b.handler.HandleListingCommand(s, i, entities.SectionMarket)
	case "bossconfig":
		b.handler.HandleConfigCommand(s, i)
	}
}

// handleGuildCreate makes a newly joined (or rebooted) guild ready to
// use: default config row, seeded boss table, seeded classifieds topics.
func (b *Bot) handleGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	ctx := context.Background()
	if err := b.guilds.EnsureDefaults(ctx, g.ID); err != nil {
		log.Printf("⚠️ Initialisation de la config impossible pour g%s: %v", g.ID, err)
	}
	if err := b.seeder.EnsureGuild(ctx, g.ID, g.OwnerID); err != nil {
		log.Printf("⚠️ Seed des boss impossible pour g%s: %v", g.ID, err)
	}
	if err := b.handler.listings.SeedTopics(ctx, g.ID); err != nil {
		log.Printf("⚠️ Seed des sujets d'annonces impossible pour g%s: %v", g.ID, err)
	}
}

// Start runs the bot until interrupted. The boot sequence is: open the
// gateway, reconcile the downtime gap, then start the tick loop and the
// periodic jobs. On shutdown the offline marker is written so the next
// boot can replay what it missed.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("erreur lors de l'ouverture de la session: %w", err)
	}
	defer b.session.Close()

	for _, cmd := range commandDefinitions() {
		if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", cmd); err != nil {
			log.Printf("⚠️ Erreur lors de l'enregistrement de la commande %s: %v", cmd.Name, err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	boot, err := b.scheduler.Reconcile(ctx)
	if err != nil {
		return fmt.Errorf("réconciliation au démarrage: %w", err)
	}
	if !boot.OfflineSince.IsZero() {
		log.Printf("🔁 Coupure détectée depuis %s, %d rattrapage(s) envoyé(s).", boot.OfflineSince.Format(time.RFC3339), boot.CaughtUp)
	}
	if err := b.meta.Set(ctx, output.MetaLastStartup, strconv.FormatInt(b.clock.Now().Unix(), 10)); err != nil {
		log.Printf("⚠️ Impossible d'écrire last_startup_ts: %v", err)
	}

	go b.scheduler.Run(ctx)
	if err := b.jobs.Start(); err != nil {
		return fmt.Errorf("démarrage des tâches périodiques: %w", err)
	}
	b.jobs.AnnounceStartup(boot)

	fmt.Println("🤖 Bot en ligne ! Appuyez sur CTRL+C pour quitter.")
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	cancel()
	b.jobs.Stop()

	// Marqueur d'arrêt propre: le prochain boot saura depuis quand les
	// timers n'étaient plus surveillés.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	now := b.clock.Now()
	if err := b.meta.Set(shutdownCtx, output.MetaOfflineSince, strconv.FormatInt(now.Unix(), 10)); err != nil {
		log.Printf("⚠️ Impossible d'écrire le marqueur offline_since: %v", err)
	}
	log.Println("👋 Arrêt propre terminé.")
	return nil
}
