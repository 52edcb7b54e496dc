package entities

import "time"

// Classifieds sections.
const (
	SectionLix    = "lix"
	SectionMarket = "market"
)

// Listing is one classified-ad post (group-finder or market). TextHash
// keys the 6h bump cooldown: the same author re-posting the same text on
// the same topic only bumps the existing listing.
type Listing struct {
	ID        uint
	GuildID   string
	Section   string
	TopicKey  string
	AuthorID  string
	Text      string
	TextHash  string
	CreatedAt time.Time
	LastBump  time.Time
	ExpiresAt time.Time
	ChannelID string
	MessageID string
}

// Active reports whether the listing has not expired at the given instant.
func (l *Listing) Active(now time.Time) bool {
	return l.ExpiresAt.After(now)
}
