package main

import (
	"context"
	"log"
	"os"

	"bossbot/internal/adapters/discord"
	"bossbot/internal/config"
	"bossbot/internal/infrastructure/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Configuration invalide: %v", err)
	}

	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatalf("❌ Erreur lors des migrations: %v", err)
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Erreur lors de l'initialisation de la base de données: %v", err)
	}
	defer pool.Close()

	bossRepo := database.NewBossRepository(pool)
	guildRepo := database.NewGuildConfigRepository(pool)
	metaRepo := database.NewMetaRepository(pool)
	subRepo := database.NewSubscriptionRepository(pool)
	listingRepo := database.NewListingRepository(pool)

	bot := discord.NewBot(cfg, bossRepo, guildRepo, metaRepo, subRepo, listingRepo)
	if err := bot.Start(); err != nil {
		log.Printf("❌ Erreur lors du démarrage du bot: %v", err)
		os.Exit(1)
	}
}
