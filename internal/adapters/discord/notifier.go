package discord

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"bossbot/internal/domain"
	"bossbot/internal/domain/entities"
	"bossbot/internal/ports/output"
	"bossbot/pkg/timefmt"
)

// Ensure Notifier implements the output port.
var _ output.Notifier = (*Notifier)(nil)

// Notifier renders transitions into Discord messages and routes them to
// the right channel: the boss's own channel, then the category channel,
// then the guild default.
type Notifier struct {
	session *discordgo.Session
	guilds  output.GuildConfigRepository
	t       output.T
	grace   int
}

func NewNotifier(session *discordgo.Session, guilds output.GuildConfigRepository, t output.T, graceSeconds int) *Notifier {
	return &Notifier{
		session: session,
		guilds:  guilds,
		t:       t,
		grace:   graceSeconds,
	}
}

// NotifyTransition sends the announcement, then the subscriber ping (in
// the dedicated ping channel when one is configured). A missing channel
// is a delivery failure: the caller logs it and moves on.
func (n *Notifier) NotifyTransition(ctx context.Context, t entities.Transition, recipients []string) error {
	cfg, err := n.guilds.Get(ctx, t.Boss.GuildID)
	if err != nil {
		return fmt.Errorf("config du serveur: %w", err)
	}

	channelID, err := n.announceChannel(ctx, &t.Boss, cfg)
	if err != nil {
		return err
	}

	content := n.render(t, cfg.Locale)
	if _, err := n.session.ChannelMessageSend(channelID, content); err != nil {
		return fmt.Errorf("envoi dans le salon %s: %w", channelID, errors.Join(domain.ErrDeliveryFailed, err))
	}

	if len(recipients) == 0 {
		return nil
	}
	pingChannel := cfg.SubPingChannelID
	if pingChannel == "" {
		pingChannel = channelID
	}
	mentions := make([]string, 0, len(recipients))
	for _, id := range recipients {
		mentions = append(mentions, "<@"+id+">")
	}
	data := map[string]any{"Name": t.Boss.Name, "Mentions": strings.Join(mentions, " ")}
	if t.Kind == entities.TransitionPre {
		data["Left"] = timefmt.Delta(t.Remaining, n.grace)
	}
	if _, err := n.session.ChannelMessageSend(pingChannel, n.t.T(cfg.Locale, subPingKey(t.Kind), data)); err != nil {
		// Le ping est secondaire: l'annonce principale est déjà partie.
		log.Printf("⚠️ Ping des abonnés de %s impossible (g%s): %v", t.Boss.Name, t.Boss.GuildID, err)
	}
	return nil
}

// subPingKey picks the ping wording. A catch-up pings like a live open:
// the window did open, the bot just learned about it late.
func subPingKey(kind entities.TransitionKind) string {
	if kind == entities.TransitionPre {
		return "sub_ping_pre"
	}
	return "sub_ping_window"
}

func (n *Notifier) announceChannel(ctx context.Context, b *entities.Boss, cfg *entities.GuildConfig) (string, error) {
	if b.ChannelID != "" {
		return b.ChannelID, nil
	}
	if ch, err := n.guilds.CategoryChannel(ctx, b.GuildID, b.Category); err == nil && ch != "" {
		return ch, nil
	}
	if cfg.DefaultChannelID != "" {
		return cfg.DefaultChannelID, nil
	}
	return "", fmt.Errorf("aucun salon d'annonce configuré pour %s (g%s): %w", b.Name, b.GuildID, domain.ErrDeliveryFailed)
}

func (n *Notifier) render(t entities.Transition, locale string) string {
	switch t.Kind {
	case entities.TransitionPre:
		return n.t.T(locale, "boss_pre_announce", map[string]any{
			"Name": t.Boss.Name,
			"Left": timefmt.Delta(t.Remaining, n.grace),
		})
	case entities.TransitionCatchUpOpen:
		return n.t.T(locale, "boss_offline_catchup", map[string]any{
			"Name": t.Boss.Name,
			"Ago":  timefmt.Ago(t.OfflineFor),
		})
	}
	return n.t.T(locale, "boss_window_open", map[string]any{"Name": t.Boss.Name})
}
