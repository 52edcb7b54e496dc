package discord

import (
	"errors"

	"github.com/bwmarrin/discordgo"

	"bossbot/internal/domain"
	"bossbot/internal/domain/entities"
)

// Nick > GlobalName > Username
func resolveDisplayName(member *discordgo.Member) string {
	if member == nil || member.User == nil {
		return ""
	}
	if member.Nick != "" {
		return member.Nick
	}
	if member.User.GlobalName != "" {
		return member.User.GlobalName
	}
	return member.User.Username
}

func respondEphemeral(s *discordgo.Session, i *discordgo.Interaction, content string) {
	_ = s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func respondPublic(s *discordgo.Session, i *discordgo.Interaction, content string) {
	_ = s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
}

func respondEmbed(s *discordgo.Session, i *discordgo.Interaction, embed *discordgo.MessageEmbed) {
	_ = s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}

// userMessage maps domain errors to the short messages shown to the
// caller. Unknown errors get a generic line (details go to the log).
func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrBossNotFound):
		return "❌ Boss introuvable. Vérifie le nom ou l'alias."
	case errors.Is(err, domain.ErrBossAmbiguous):
		return "⚠️ Plusieurs boss correspondent. Précise le nom."
	case errors.Is(err, domain.ErrForbidden):
		return "❌ Tu n'as pas la permission de faire ça."
	case errors.Is(err, domain.ErrImmutableField):
		return "❌ Ce champ ne peut pas être modifié."
	case errors.Is(err, domain.ErrInvalidRespawn):
		return "❌ Durée de respawn invalide."
	case errors.Is(err, domain.ErrListingTooShort):
		return "❌ Texte trop court pour une annonce."
	case errors.Is(err, domain.ErrListingThrottled):
		return "⏳ Doucement ! Attends un peu avant de reposter."
	case errors.Is(err, domain.ErrListingOnCooldown):
		return "⏳ Annonce identique déjà publiée récemment."
	case errors.Is(err, domain.ErrUnknownSection):
		return "❌ Section inconnue (lix ou market)."
	case errors.Is(err, domain.ErrNoSectionChannel):
		return "❌ Aucun salon configuré pour cette section."
	case errors.Is(err, domain.ErrBlacklisted):
		return "❌ Tu n'es pas autorisé à utiliser cette commande."
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "⚠️ Base de données indisponible, réessaie dans un instant."
	}
	return "❌ Une erreur est survenue."
}

// actorFromInteraction builds the permission snapshot the tracker checks.
func actorFromInteraction(i *discordgo.InteractionCreate) entities.Actor {
	actor := entities.Actor{}
	if i.Member == nil {
		return actor
	}
	if i.Member.User != nil {
		actor.UserID = i.Member.User.ID
	}
	actor.IsAdmin = i.Member.Permissions&discordgo.PermissionAdministrator != 0
	actor.CanManage = i.Member.Permissions&discordgo.PermissionManageMessages != 0
	actor.RoleIDs = i.Member.Roles
	return actor
}
