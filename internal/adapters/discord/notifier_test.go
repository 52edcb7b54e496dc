package discord

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bossbot/internal/domain/entities"
)

// keyTranslator renders the key and its data, so the tests can assert
// which message was picked without loading the real bundles.
type keyTranslator struct{}

func (keyTranslator) T(_, key string, data map[string]any) string {
	return fmt.Sprintf("%s %v", key, data["Name"])
}

func TestRenderPicksMessagePerTransition(t *testing.T) {
	n := &Notifier{t: keyTranslator{}, grace: 1800}
	boss := entities.Boss{GuildID: "g1", Name: "Mordris"}

	msg := n.render(entities.Transition{Boss: boss, Kind: entities.TransitionPre, Remaining: 10 * time.Minute}, "fr")
	assert.Contains(t, msg, "boss_pre_announce")

	msg = n.render(entities.Transition{Boss: boss, Kind: entities.TransitionOpen}, "fr")
	assert.Contains(t, msg, "boss_window_open")

	msg = n.render(entities.Transition{Boss: boss, Kind: entities.TransitionCatchUpOpen, OfflineFor: time.Hour}, "fr")
	assert.Contains(t, msg, "boss_offline_catchup")
}

func TestSubPingKeyCoversCatchUps(t *testing.T) {
	assert.Equal(t, "sub_ping_pre", subPingKey(entities.TransitionPre))
	assert.Equal(t, "sub_ping_window", subPingKey(entities.TransitionOpen))
	// Les abonnés sont aussi prévenus quand l'ouverture est rattrapée
	// après une coupure.
	assert.Equal(t, "sub_ping_window", subPingKey(entities.TransitionCatchUpOpen))
}
