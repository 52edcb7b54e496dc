package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"bossbot/pkg/timefmt"
)

// HandleSubCommand dispatches the /sub subcommands.
func (h *Handler) HandleSubCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
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
	case "add":
		boss, err := h.subs.Subscribe(ctx, i.GuildID, strOpt(opts, "nom"), actor.UserID)
		if err != nil {
			h.fail(s, i, "sub add", err)
			return
		}
		respondEphemeral(s, i.Interaction, fmt.Sprintf("🔔 Abonné aux annonces de **%s**.", boss.Name))
	case "remove":
		boss, err := h.subs.Unsubscribe(ctx, i.GuildID, strOpt(opts, "nom"), actor.UserID)
		if err != nil {
			h.fail(s, i, "sub remove", err)
			return
		}
		respondEphemeral(s, i.Interaction, fmt.Sprintf("🔕 Désabonné de **%s**.", boss.Name))
	case "list":
		bosses, err := h.subs.Subscriptions(ctx, i.GuildID, actor.UserID)
		if err != nil {
			h.fail(s, i, "sub list", err)
			return
		}
		if len(bosses) == 0 {
			respondEphemeral(s, i.Interaction, "ℹ️ Aucun abonnement. Utilise `/sub add`.")
			return
		}
		now := h.clock.Now()
		lines := make([]string, 0, len(bosses))
		for i := range bosses {
			b := bosses[i]
			lines = append(lines, fmt.Sprintf("**%s** — `%s`", b.Name, timefmt.Delta(b.NextSpawn.Sub(now), h.grace)))
		}
		respondEphemeral(s, i.Interaction, "🔔 Tes abonnements:\n"+strings.Join(lines, "\n"))
	}
}
