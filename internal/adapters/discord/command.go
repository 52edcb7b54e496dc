package discord

import (
	"github.com/bwmarrin/discordgo"
)

// Slash command surface. Every command is guild-scoped; permission checks
// happen in the use cases, not in Discord's permission system, so that
// the trusted-role rule can be enforced per boss.
func commandDefinitions() []*discordgo.ApplicationCommand {
	nameOpt := func(required bool) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "nom",
			Description: "Nom ou alias du boss",
			Required:    required,
		}
	}
	sectionTopicOpts := func(topicRequired bool) []*discordgo.ApplicationCommandOption {
		opts := []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "sujet",
				Description: "Sujet de l'annonce",
				Required:    topicRequired,
			},
		}
		return opts
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        "boss",
			Description: "Timers de boss",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "kill",
					Description: "Marquer un boss tué (relance son timer)",
					Options:     []*discordgo.ApplicationCommandOption{nameOpt(true)},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "Lister les timers",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "categorie", Description: "Filtrer par catégorie", Required: false},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "info",
					Description: "Détails d'un boss",
					Options:     []*discordgo.ApplicationCommandOption{nameOpt(true)},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Ajouter un boss",
					Options: []*discordgo.ApplicationCommandOption{
						nameOpt(true),
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "respawn_min", Description: "Respawn en minutes", Required: true},
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "fenetre_min", Description: "Fenêtre en minutes", Required: false},
						{Type: discordgo.ApplicationCommandOptionString, Name: "categorie", Description: "Catégorie", Required: false},
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "preavis_min", Description: "Pré-annonce en minutes (0 = désactivée)", Required: false},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "adjust",
					Description: "Décaler le prochain spawn (minutes, négatif = plus tôt)",
					Options: []*discordgo.ApplicationCommandOption{
						nameOpt(true),
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "delta_min", Description: "Décalage en minutes", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "edit",
					Description: "Modifier un champ d'un boss",
					Options: []*discordgo.ApplicationCommandOption{
						nameOpt(true),
						{Type: discordgo.ApplicationCommandOptionString, Name: "champ", Description: "name, category, respawn_min, window_min, pre_min, channel, role, notes, sort", Required: true},
						{Type: discordgo.ApplicationCommandOptionString, Name: "valeur", Description: "Nouvelle valeur", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "alias",
					Description: "Ajouter un alias",
					Options: []*discordgo.ApplicationCommandOption{
						nameOpt(true),
						{Type: discordgo.ApplicationCommandOptionString, Name: "alias", Description: "Alias à ajouter", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "unalias",
					Description: "Retirer un alias",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "alias", Description: "Alias à retirer", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "del",
					Description: "Supprimer un boss",
					Options:     []*discordgo.ApplicationCommandOption{nameOpt(true)},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "nada",
					Description: "Marquer tous les timers du serveur comme périmés",
				},
			},
		},
		{
			Name:        "sub",
			Description: "Abonnements aux boss",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "S'abonner aux annonces d'un boss",
					Options:     []*discordgo.ApplicationCommandOption{nameOpt(true)},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Se désabonner d'un boss",
					Options:     []*discordgo.ApplicationCommandOption{nameOpt(true)},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "Lister ses abonnements",
				},
			},
		},
		{
			Name:        "lix",
			Description: "Annonces de groupe",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "post",
					Description: "Publier une annonce de groupe",
					Options: append(sectionTopicOpts(true),
						&discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionString, Name: "texte", Description: "Texte de l'annonce", Required: true}),
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "browse",
					Description: "Voir les annonces actives",
					Options:     sectionTopicOpts(false),
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "topics",
					Description: "Lister les sujets disponibles",
				},
			},
		},
		{
			Name:        "market",
			Description: "Annonces de vente et d'achat",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "post",
					Description: "Publier une annonce de marché",
					Options: append(sectionTopicOpts(true),
						&discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionString, Name: "texte", Description: "Texte de l'annonce", Required: true}),
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "browse",
					Description: "Voir les annonces actives",
					Options:     sectionTopicOpts(false),
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "topics",
					Description: "Lister les sujets disponibles",
				},
			},
		},
		{
			Name:        "bossconfig",
			Description: "Configuration du bot (admin)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "channel",
					Description: "Salon d'annonce par défaut",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionChannel, Name: "salon", Description: "Salon", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "subping",
					Description: "Salon dédié aux pings d'abonnés",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionChannel, Name: "salon", Description: "Salon", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "heartbeat",
					Description: "Salon et cadence du battement de coeur",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionChannel, Name: "salon", Description: "Salon", Required: true},
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "minutes", Description: "Cadence en minutes (0 = désactivé)", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "category",
					Description: "Salon d'annonce d'une catégorie",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "categorie", Description: "Catégorie", Required: true},
						{Type: discordgo.ApplicationCommandOptionChannel, Name: "salon", Description: "Salon", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "section",
					Description: "Salon de publication d'une section d'annonces",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "section", Description: "lix ou market", Required: true},
						{Type: discordgo.ApplicationCommandOptionChannel, Name: "salon", Description: "Salon", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "sectionrole",
					Description: "Rôle mentionné lors d'une publication de section",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "section", Description: "lix ou market", Required: true},
						{Type: discordgo.ApplicationCommandOptionRole, Name: "role", Description: "Rôle", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "topicdel",
					Description: "Retirer un sujet d'une section d'annonces",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "section", Description: "lix ou market", Required: true},
						{Type: discordgo.ApplicationCommandOptionString, Name: "sujet", Description: "Sujet à retirer", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "blacklist",
					Description: "Bloquer ou débloquer un utilisateur",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionUser, Name: "utilisateur", Description: "Utilisateur", Required: true},
						{Type: discordgo.ApplicationCommandOptionBoolean, Name: "bloquer", Description: "true = bloquer", Required: true},
					},
				},
			},
		},
	}
}

// optionIndex flattens the options of a subcommand for lookup by name.
func optionIndex(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	index := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, o := range opts {
		index[o.Name] = o
	}
	return index
}
