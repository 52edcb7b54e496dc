package discord

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"bossbot/internal/domain"
	"bossbot/internal/domain/entities"
	"bossbot/internal/ports/input"
	"bossbot/pkg/timefmt"
)

const listEmbedColor = 0x5865F2

func strOpt(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if o, ok := opts[name]; ok {
		return o.StringValue()
	}
	return ""
}

func intOpt(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string, fallback int) int {
	if o, ok := opts[name]; ok {
		return int(o.IntValue())
	}
	return fallback
}

// HandleBossCommand dispatches the /boss subcommands.
func (h *Handler) HandleBossCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]
	opts := optionIndex(sub.Options)
	ctx := context.Background()
	actor := actorFromInteraction(i)

	if h.rejectBlacklisted(ctx, s, i, actor.UserID) {
		return
	}

	switch sub.Name {
	case "kill":
		name, respawn, err := h.tracker.ResolveBoss(ctx, i.GuildID, strOpt(opts, "nom"), actor)
		if err != nil {
			h.fail(s, i, "kill", err)
			return
		}
		respondPublic(s, i.Interaction, fmt.Sprintf("✅ **%s** tué par %s. Prochain spawn dans **%dm**.", name, resolveDisplayName(i.Member), respawn))
	case "list":
		h.handleBossList(ctx, s, i, strOpt(opts, "categorie"))
	case "info":
		boss, err := h.tracker.GetBoss(ctx, i.GuildID, strOpt(opts, "nom"))
		if err != nil {
			h.fail(s, i, "info", err)
			return
		}
		respondEmbed(s, i.Interaction, h.bossInfoEmbed(boss))
	case "add":
		boss := &entities.Boss{
			GuildID:        i.GuildID,
			Name:           strings.TrimSpace(strOpt(opts, "nom")),
			Category:       strOpt(opts, "categorie"),
			RespawnMinutes: intOpt(opts, "respawn_min", 0),
			WindowMinutes:  intOpt(opts, "fenetre_min", 0),
			PreAnnounceMin: intOpt(opts, "preavis_min", 0),
			CreatedBy:      actor.UserID,
		}
		if err := h.tracker.CreateBoss(ctx, boss, actor); err != nil {
			h.fail(s, i, "add", err)
			return
		}
		respondEphemeral(s, i.Interaction, fmt.Sprintf("✅ **%s** ajouté (respawn %dm, fenêtre %dm).", boss.Name, boss.RespawnMinutes, boss.WindowMinutes))
	case "adjust":
		boss, err := h.tracker.AdjustBoss(ctx, i.GuildID, strOpt(opts, "nom"), intOpt(opts, "delta_min", 0), actor)
		if err != nil {
			h.fail(s, i, "adjust", err)
			return
		}
		left := timefmt.Delta(boss.NextSpawn.Sub(h.clock.Now()), h.grace)
		respondPublic(s, i.Interaction, fmt.Sprintf("🔧 **%s** décalé. Prochain spawn: `%s`.", boss.Name, left))
	case "edit":
		boss, err := h.tracker.EditBoss(ctx, i.GuildID, strOpt(opts, "nom"), strOpt(opts, "champ"), strOpt(opts, "valeur"), actor)
		if err != nil {
			h.fail(s, i, "edit", err)
			return
		}
		respondEphemeral(s, i.Interaction, fmt.Sprintf("✅ **%s** modifié.", boss.Name))
	case "alias":
		if err := h.tracker.AddAlias(ctx, i.GuildID, strOpt(opts, "nom"), strOpt(opts, "alias"), actor); err != nil {
			h.fail(s, i, "alias", err)
			return
		}
		respondEphemeral(s, i.Interaction, "✅ Alias ajouté.")
	case "unalias":
		if err := h.tracker.RemoveAlias(ctx, i.GuildID, strOpt(opts, "alias"), actor); err != nil {
			h.fail(s, i, "unalias", err)
			return
		}
		respondEphemeral(s, i.Interaction, "✅ Alias retiré.")
	case "del":
		if err := h.tracker.DeleteBoss(ctx, i.GuildID, strOpt(opts, "nom"), actor); err != nil {
			h.fail(s, i, "del", err)
			return
		}
		respondEphemeral(s, i.Interaction, "🗑️ Boss supprimé.")
	case "nada":
		count, err := h.tracker.MarkAllExpired(ctx, i.GuildID, actor)
		if err != nil {
			h.fail(s, i, "nada", err)
			return
		}
		respondPublic(s, i.Interaction, fmt.Sprintf("💤 %d timer(s) marqué(s) -Nada.", count))
	}
}

func (h *Handler) handleBossList(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, categoryFilter string) {
	now := h.clock.Now()
	snapshots, err := h.tracker.ListBosses(ctx, i.GuildID, categoryFilter, now)
	if err != nil {
		h.fail(s, i, "list", err)
		return
	}
	if len(snapshots) == 0 {
		respondEphemeral(s, i.Interaction, "ℹ️ Aucun timer. Ajoute un boss avec `/boss add`.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "⏱️ Timers",
		Color: listEmbedColor,
	}
	var (
		current string
		lines   []string
	)
	flush := func() {
		if current == "" || len(lines) == 0 {
			return
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  current,
			Value: strings.Join(lines, "\n"),
		})
		lines = nil
	}
	for _, snap := range snapshots {
		if snap.Boss.Category != current {
			flush()
			current = snap.Boss.Category
		}
		lines = append(lines, formatBossLine(snap, now, h.grace))
	}
	flush()
	respondEmbed(s, i.Interaction, embed)
}

// Une ligne par boss: countdown signé puis état de la fenêtre.
func formatBossLine(snap input.BossSnapshot, now time.Time, grace int) string {
	left := timefmt.Delta(snap.Boss.NextSpawn.Sub(now), grace)
	return fmt.Sprintf("**%s** — `%s` — %s", snap.Boss.Name, left, timefmt.WindowLabel(snap.State, snap.Boss.WindowMinutes))
}

func (h *Handler) bossInfoEmbed(boss *entities.Boss) *discordgo.MessageEmbed {
	now := h.clock.Now()
	state := domain.ComputeWindow(now, boss.NextSpawn, boss.WindowMinutes, h.grace)
	fields := []*discordgo.MessageEmbedField{
		{Name: "Catégorie", Value: boss.Category, Inline: true},
		{Name: "Respawn", Value: fmt.Sprintf("%dm", boss.RespawnMinutes), Inline: true},
		{Name: "Fenêtre", Value: fmt.Sprintf("%dm", boss.WindowMinutes), Inline: true},
		{Name: "Prochain spawn", Value: timefmt.Delta(boss.NextSpawn.Sub(now), h.grace), Inline: true},
		{Name: "État", Value: timefmt.WindowLabel(state, boss.WindowMinutes), Inline: true},
	}
	if len(boss.Aliases) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Alias", Value: strings.Join(boss.Aliases, ", ")})
	}
	if boss.Notes != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Notes", Value: boss.Notes})
	}
	return &discordgo.MessageEmbed{
		Title:  "ℹ️ " + boss.Name,
		Color:  listEmbedColor,
		Fields: fields,
	}
}

func (h *Handler) rejectBlacklisted(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, userID string) bool {
	blocked, err := h.guilds.IsBlacklisted(ctx, i.GuildID, userID)
	if err != nil {
		log.Printf("⚠️ Vérification de la liste noire impossible (g%s): %v", i.GuildID, err)
		return false
	}
	if blocked {
		respondEphemeral(s, i.Interaction, userMessage(domain.ErrBlacklisted))
	}
	return blocked
}

func (h *Handler) fail(s *discordgo.Session, i *discordgo.InteractionCreate, op string, err error) {
	log.Printf("⚠️ Commande %s échouée (g%s): %v", op, i.GuildID, err)
	respondEphemeral(s, i.Interaction, userMessage(err))
}
