package discord

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"bossbot/pkg/timefmt"
)

// HandleListingCommand dispatches /lix and /market; both share the same
// shape and only differ by section.
func (h *Handler) HandleListingCommand(s *discordgo.Session, i *discordgo.InteractionCreate, section string) {
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
	case "post":
		h.handleListingPost(ctx, s, i, section, strOpt(opts, "sujet"), strOpt(opts, "texte"), actor.UserID)
	case "browse":
		h.handleListingBrowse(ctx, s, i, section, strOpt(opts, "sujet"))
	case "topics":
		topics, err := h.listings.Topics(ctx, i.GuildID, section)
		if err != nil {
			h.fail(s, i, section+" topics", err)
			return
		}
		if len(topics) == 0 {
			respondEphemeral(s, i.Interaction, "ℹ️ Aucun sujet configuré pour cette section.")
			return
		}
		lines := make([]string, 0, len(topics))
		for _, t := range topics {
			lines = append(lines, fmt.Sprintf("%s `%s`", t.Emoji, t.Key))
		}
		respondEphemeral(s, i.Interaction, "📚 Sujets disponibles:\n"+strings.Join(lines, "\n"))
	}
}

func (h *Handler) handleListingPost(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, section, topicKey, text, authorID string) {
	result, err := h.listings.Post(ctx, i.GuildID, section, topicKey, authorID, text)
	if err != nil {
		h.fail(s, i, section+" post", err)
		return
	}
	if result.Bumped {
		respondEphemeral(s, i.Interaction, "🔁 Annonce identique trouvée: elle a été remontée.")
		return
	}

	cfg, err := h.listings.SectionConfig(ctx, i.GuildID, section)
	if err != nil || cfg.PostChannelID == "" {
		// Pas de salon de publication: l'annonce reste consultable via browse.
		respondEphemeral(s, i.Interaction, "✅ Annonce enregistrée.")
		return
	}

	content := fmt.Sprintf("📣 `%s` — %s\n*par <@%s>*", result.Listing.TopicKey, result.Listing.Text, authorID)
	if cfg.PingRoleID != "" {
		content = fmt.Sprintf("<@&%s> %s", cfg.PingRoleID, content)
	}
	msg, err := s.ChannelMessageSend(cfg.PostChannelID, content)
	if err != nil {
		log.Printf("⚠️ Publication de l'annonce impossible dans %s (g%s): %v", cfg.PostChannelID, i.GuildID, err)
		respondEphemeral(s, i.Interaction, "✅ Annonce enregistrée (publication dans le salon impossible).")
		return
	}
	if err := h.listings.AttachMessage(ctx, result.Listing, cfg.PostChannelID, msg.ID); err != nil {
		log.Printf("⚠️ Liaison annonce/message impossible (g%s): %v", i.GuildID, err)
	}
	respondEphemeral(s, i.Interaction, fmt.Sprintf("✅ Annonce publiée dans <#%s>.", cfg.PostChannelID))
}

func (h *Handler) handleListingBrowse(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, section, topicKey string) {
	listings, err := h.listings.Browse(ctx, i.GuildID, section, topicKey)
	if err != nil {
		h.fail(s, i, section+" browse", err)
		return
	}
	if len(listings) == 0 {
		respondEphemeral(s, i.Interaction, "ℹ️ Aucune annonce active.")
		return
	}
	now := h.clock.Now()
	lines := make([]string, 0, len(listings))
	for idx := range listings {
		l := listings[idx]
		lines = append(lines, fmt.Sprintf("`%s` %s — <@%s> (%s)", l.TopicKey, l.Text, l.AuthorID, timefmt.Ago(now.Sub(l.LastBump))))
	}
	embed := &discordgo.MessageEmbed{
		Title:       "📣 Annonces actives",
		Color:       listEmbedColor,
		Description: strings.Join(lines, "\n"),
	}
	respondEmbed(s, i.Interaction, embed)
}
