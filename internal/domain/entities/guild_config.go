package entities

// GuildConfig holds per-guild settings. A row is upserted with defaults
// the first time a guild is seen.
type GuildConfig struct {
	GuildID            string
	DefaultChannelID   string
	SubChannelID       string // salon des panneaux d'abonnement
	SubPingChannelID   string // salon dédié aux pings d'abonnés (vide = salon d'annonce)
	HeartbeatChannelID string
	UptimeMinutes      int // cadence du heartbeat; 0 = désactivé
	ShowETA            bool
	Locale             string
}

// SectionConfig holds the posting channel and optional ping role of one
// classifieds section ("lix" or "market") in a guild.
type SectionConfig struct {
	GuildID       string
	Section       string
	PostChannelID string
	PingRoleID    string
}

// Topic is one classifieds topic key within a section.
type Topic struct {
	GuildID   string
	Section   string
	Key       string
	Emoji     string
	SortOrder int
}
