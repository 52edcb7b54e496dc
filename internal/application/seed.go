package application

import (
	"context"
	"fmt"
	"log"

	"bossbot/internal/domain"
	"bossbot/internal/domain/entities"
	"bossbot/internal/ports/output"
)

// seedVersion is bumped whenever seedData changes, so the meta marker
// tells which revision a guild was last reconciled against.
const seedVersion = "2025-09-12"

type seedEntry struct {
	Category       string
	Name           string
	RespawnMinutes int
	WindowMinutes  int
	Aliases        []string
}

// seedData is the authoritative respawn/window table for the stock
// bosses. Existing rows drifting from these values are corrected;
// manually added bosses are never touched.
var seedData = []seedEntry{
	// Meteoric
	{"Meteoric", "Doomclaw", 7, 5, nil},
	{"Meteoric", "Bonehad", 15, 5, nil},
	{"Meteoric", "Rockbelly", 15, 5, nil},
	{"Meteoric", "Redbane", 20, 5, nil},
	{"Meteoric", "Coppinger", 20, 5, []string{"copp"}},
	{"Meteoric", "Goretusk", 20, 5, nil},

	// Frozen
	{"Frozen", "Redbane", 20, 5, nil},
	{"Frozen", "Eye", 28, 3, nil},
	{"Frozen", "Swampie", 33, 3, []string{"swampy"}},
	{"Frozen", "Woody", 38, 3, nil},
	{"Frozen", "Chained", 43, 3, []string{"chain"}},
	{"Frozen", "Grom", 48, 3, nil},
	{"Frozen", "Pyrus", 58, 3, []string{"py"}},

	// DL
	{"DL", "155", 63, 3, nil},
	{"DL", "160", 68, 3, nil},
	{"DL", "165", 73, 3, nil},
	{"DL", "170", 78, 3, nil},
	{"DL", "180", 88, 3, []string{"snorri"}},

	// EDL
	{"EDL", "185", 72, 3, nil},
	{"EDL", "190", 81, 3, nil},
	{"EDL", "195", 89, 4, nil},
	{"EDL", "200", 108, 5, nil},
	{"EDL", "205", 117, 4, nil},
	{"EDL", "210", 125, 5, nil},
	{"EDL", "215", 134, 5, []string{"unox"}},

	// Rings (3h35 de respawn, fenêtre 50m)
	{"Rings", "North Ring", 215, 50, []string{"northring"}},
	{"Rings", "Center Ring", 215, 50, []string{"centre", "centering"}},
	{"Rings", "South Ring", 215, 50, []string{"southring"}},
	{"Rings", "East Ring", 215, 50, []string{"eastring"}},

	// EG
	{"EG", "Draig Liathphur", 240, 840, []string{"draig", "dragon", "riverdragon"}},
	{"EG", "Sciathan Leathair", 240, 300, []string{"sciathan", "bat", "northbat"}},
	{"EG", "Thymea Banebark", 240, 840, []string{"thymea", "tree", "ancienttree"}},
	{"EG", "Proteus", 1080, 15, []string{"prot", "base", "prime"}},
	{"EG", "Gelebron", 1920, 1680, []string{"gele"}},
	{"EG", "Dhiothu", 2040, 1680, []string{"dino", "dhio", "d2"}},
	{"EG", "Bloodthorn", 2040, 1680, []string{"bt"}},
	{"EG", "Crom's Manikin", 5760, 1440, []string{"manikin", "crom", "croms"}},

	// Midraids
	{"Midraids", "Aggorath", 1200, 960, []string{"aggy"}},
	{"Midraids", "Mordris", 1200, 960, []string{"mord", "mordy"}},
	{"Midraids", "Necromancer", 1320, 960, []string{"necro"}},
	{"Midraids", "Hrungnir", 1320, 960, []string{"hrung", "muk"}},
}

// Seeder installs and enforces the stock boss table for each guild.
type Seeder struct {
	bosses output.BossRepository
	meta   output.MetaRepository
	clock  Clock
	grace  int
	preMin int
}

func NewSeeder(bosses output.BossRepository, meta output.MetaRepository, clock Clock, graceSeconds, defaultPreAnnounceMin int) *Seeder {
	return &Seeder{bosses: bosses, meta: meta, clock: clock, grace: graceSeconds, preMin: defaultPreAnnounceMin}
}

// EnsureGuild is idempotent: it inserts missing seed bosses (expired
// anchor, so nothing is announced), corrects respawn/window drift on
// seeded rows, and adds missing aliases. It never deletes manual
// additions.
func (s *Seeder) EnsureGuild(ctx context.Context, guildID, ownerID string) error {
	existing, err := s.bosses.ListByGuild(ctx, guildID, "")
	if err != nil {
		return fmt.Errorf("seed list g%s: %w", guildID, err)
	}
	type catName struct{ cat, name string }
	byKey := make(map[catName]*entities.Boss, len(existing))
	for i := range existing {
		b := &existing[i]
		byKey[catName{domain.NormCategory(b.Category), b.Name}] = b
	}

	inserted, updated := 0, 0
	for _, entry := range seedData {
		key := catName{domain.NormCategory(entry.Category), entry.Name}
		if b, ok := byKey[key]; ok {
			if b.RespawnMinutes != entry.RespawnMinutes || b.WindowMinutes != entry.WindowMinutes {
				b.RespawnMinutes = entry.RespawnMinutes
				b.WindowMinutes = entry.WindowMinutes
				if err := s.bosses.Update(ctx, b); err != nil {
					return fmt.Errorf("seed update %s: %w", b.Name, err)
				}
				updated++
			}
			for _, alias := range entry.Aliases {
				if err := s.bosses.AddAlias(ctx, guildID, b.ID, alias); err != nil {
					return fmt.Errorf("seed alias %s/%s: %w", b.Name, alias, err)
				}
			}
			continue
		}

		boss := &entities.Boss{
			GuildID:        guildID,
			Name:           entry.Name,
			Category:       key.cat,
			RespawnMinutes: entry.RespawnMinutes,
			WindowMinutes:  entry.WindowMinutes,
			PreAnnounceMin: s.preMin,
			NextSpawn:      expiredAnchor(s.clock.Now(), entry.WindowMinutes, s.grace),
			CreatedBy:      ownerID,
		}
		if err := s.bosses.Create(ctx, boss); err != nil {
			return fmt.Errorf("seed insert %s: %w", boss.Name, err)
		}
		for _, alias := range entry.Aliases {
			if err := s.bosses.AddAlias(ctx, guildID, boss.ID, alias); err != nil {
				return fmt.Errorf("seed alias %s/%s: %w", boss.Name, alias, err)
			}
		}
		inserted++
	}

	if inserted > 0 || updated > 0 {
		log.Printf("🌱 Seed g%s: %d insertion(s), %d mise(s) à jour.", guildID, inserted, updated)
	}
	return s.meta.Set(ctx, fmt.Sprintf("seed:%s:g%s", seedVersion, guildID), "done")
}
