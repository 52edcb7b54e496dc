package domain

import "strings"

// CategoryOrder is the closed list of boss categories, in display order.
// Every stored category is normalized to one of these values.
var CategoryOrder = []string{
	"Warden", "Meteoric", "Frozen", "DL", "EDL", "Midraids", "Rings", "EG", "Default",
}

// NormCategory maps free-form user input onto the closed category set.
// Unknown values fall back to "Default".
func NormCategory(c string) string {
	cl := strings.ToLower(strings.TrimSpace(c))
	switch {
	case strings.Contains(cl, "warden"):
		return "Warden"
	case strings.Contains(cl, "meteoric"):
		return "Meteoric"
	case strings.Contains(cl, "frozen"):
		return "Frozen"
	case strings.HasPrefix(cl, "dl"):
		return "DL"
	case strings.HasPrefix(cl, "edl"):
		return "EDL"
	case strings.Contains(cl, "midraid"):
		return "Midraids"
	case strings.Contains(cl, "ring"):
		return "Rings"
	case strings.HasPrefix(cl, "eg"):
		return "EG"
	}
	return "Default"
}

// IsKnownCategory reports whether c is already one of the closed values.
func IsKnownCategory(c string) bool {
	for _, known := range CategoryOrder {
		if c == known {
			return true
		}
	}
	return false
}
