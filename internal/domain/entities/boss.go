package entities

import "time"

// Boss is a tracked recurring spawn timer. It always belongs to a single
// guild; NextSpawn is the anchor every phase computation and transition
// is keyed against.
type Boss struct {
	ID             uint
	GuildID        string
	ChannelID      string // salon d'annonce dédié (vide = routage catégorie/défaut)
	Name           string
	Category       string
	RespawnMinutes int
	WindowMinutes  int
	PreAnnounceMin int
	NextSpawn      time.Time
	TrustedRoleID  string // vide = pas de restriction de rôle
	CreatedBy      string
	Notes          string
	SortKey        string
	Aliases        []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasRoleRestriction reports whether resolving this boss requires a role.
func (b *Boss) HasRoleRestriction() bool {
	return b.TrustedRoleID != ""
}

// PreAnnounceAt returns the instant the pre-announce notification is due,
// and false when pre-announce is disabled for this boss.
func (b *Boss) PreAnnounceAt() (time.Time, bool) {
	if b.PreAnnounceMin <= 0 {
		return time.Time{}, false
	}
	return b.NextSpawn.Add(-time.Duration(b.PreAnnounceMin) * time.Minute), true
}
