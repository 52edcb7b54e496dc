package entities

import "time"

// TransitionKind identifies which boundary a boss just crossed.
type TransitionKind string

const (
	TransitionPre         TransitionKind = "PRE"
	TransitionOpen        TransitionKind = "WINDOW"
	TransitionCatchUpOpen TransitionKind = "CATCHUP"
)

// Transition is a scheduling event emitted by the tick loop (or by the
// boot reconciliation for CatchUpOpen). Anchor is the NextSpawn value the
// event was detected against: the same (guild, boss, kind, anchor)
// quadruple is never emitted twice.
type Transition struct {
	Boss       Boss
	Kind       TransitionKind
	Anchor     time.Time
	Remaining  time.Duration // PRE: temps restant avant l'ouverture
	OfflineFor time.Duration // CATCHUP: depuis combien de temps la fenêtre est ouverte
}

// Actor is the identity a command layer resolved for a caller, with the
// guild-level permissions the tracker needs for its checks.
type Actor struct {
	UserID    string
	IsAdmin   bool
	CanManage bool // permission "Gérer les messages" (confiance par défaut)
	RoleIDs   []string
}

// HasRole reports whether the actor holds the given role.
func (a Actor) HasRole(roleID string) bool {
	for _, id := range a.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}
