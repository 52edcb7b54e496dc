package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"bossbot/internal/domain"
)

// HandleConfigCommand dispatches the /bossconfig subcommands. Everything
// here is reserved to administrators.
func (h *Handler) HandleConfigCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]
	opts := optionIndex(sub.Options)
	ctx := context.Background()
	actor := actorFromInteraction(i)

	if !actor.IsAdmin {
		respondEphemeral(s, i.Interaction, userMessage(domain.ErrForbidden))
		return
	}

	channelID := ""
	if o, ok := opts["salon"]; ok {
		channelID = o.ChannelValue(nil).ID
	}

	switch sub.Name {
	case "channel":
		h.updateGuildConfig(ctx, s, i, func(cfg *guildConfigPatch) { cfg.DefaultChannelID = &channelID })
	case "subping":
		h.updateGuildConfig(ctx, s, i, func(cfg *guildConfigPatch) { cfg.SubPingChannelID = &channelID })
	case "heartbeat":
		minutes := intOpt(opts, "minutes", 0)
		h.updateGuildConfig(ctx, s, i, func(cfg *guildConfigPatch) {
			cfg.HeartbeatChannelID = &channelID
			cfg.UptimeMinutes = &minutes
		})
	case "category":
		category := domain.NormCategory(strOpt(opts, "categorie"))
		if err := h.guilds.SetCategoryChannel(ctx, i.GuildID, category, channelID); err != nil {
			h.fail(s, i, "config category", err)
			return
		}
		respondEphemeral(s, i.Interaction, fmt.Sprintf("✅ Catégorie **%s** annoncée dans <#%s>.", category, channelID))
	case "section":
		if err := h.listings.SetSectionChannel(ctx, i.GuildID, strOpt(opts, "section"), channelID); err != nil {
			h.fail(s, i, "config section", err)
			return
		}
		respondEphemeral(s, i.Interaction, fmt.Sprintf("✅ Section publiée dans <#%s>.", channelID))
	case "sectionrole":
		roleID := ""
		if o, ok := opts["role"]; ok {
			roleID = o.RoleValue(nil, i.GuildID).ID
		}
		if err := h.listings.SetSectionRole(ctx, i.GuildID, strOpt(opts, "section"), roleID); err != nil {
			h.fail(s, i, "config sectionrole", err)
			return
		}
		respondEphemeral(s, i.Interaction, "✅ Rôle de section enregistré.")
	case "topicdel":
		key := strOpt(opts, "sujet")
		if err := h.listings.DeleteTopic(ctx, i.GuildID, strOpt(opts, "section"), key); err != nil {
			h.fail(s, i, "config topicdel", err)
			return
		}
		respondEphemeral(s, i.Interaction, fmt.Sprintf("🗑️ Sujet `%s` retiré.", key))
	case "blacklist":
		userID := ""
		if o, ok := opts["utilisateur"]; ok {
			userID = o.UserValue(nil).ID
		}
		blocked := false
		if o, ok := opts["bloquer"]; ok {
			blocked = o.BoolValue()
		}
		if err := h.guilds.SetBlacklisted(ctx, i.GuildID, userID, blocked); err != nil {
			h.fail(s, i, "config blacklist", err)
			return
		}
		if blocked {
			respondEphemeral(s, i.Interaction, fmt.Sprintf("✅ <@%s> est maintenant bloqué.", userID))
		} else {
			respondEphemeral(s, i.Interaction, fmt.Sprintf("✅ <@%s> est débloqué.", userID))
		}
	}
}

// guildConfigPatch lists the fields a config subcommand may change; nil
// means untouched.
type guildConfigPatch struct {
	DefaultChannelID   *string
	SubPingChannelID   *string
	HeartbeatChannelID *string
	UptimeMinutes      *int
}

func (h *Handler) updateGuildConfig(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, apply func(*guildConfigPatch)) {
	cfg, err := h.guilds.Get(ctx, i.GuildID)
	if err != nil {
		h.fail(s, i, "config", err)
		return
	}
	cfg.GuildID = i.GuildID

	patch := &guildConfigPatch{}
	apply(patch)
	if patch.DefaultChannelID != nil {
		cfg.DefaultChannelID = *patch.DefaultChannelID
	}
	if patch.SubPingChannelID != nil {
		cfg.SubPingChannelID = *patch.SubPingChannelID
	}
	if patch.HeartbeatChannelID != nil {
		cfg.HeartbeatChannelID = *patch.HeartbeatChannelID
	}
	if patch.UptimeMinutes != nil {
		cfg.UptimeMinutes = *patch.UptimeMinutes
	}

	if err := h.guilds.Upsert(ctx, cfg); err != nil {
		h.fail(s, i, "config", err)
		return
	}
	respondEphemeral(s, i.Interaction, "✅ Configuration mise à jour.")
}
