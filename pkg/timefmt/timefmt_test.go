package timefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bossbot/internal/domain"
)

func TestDelta(t *testing.T) {
	const grace = 1800
	tests := []struct {
		d    time.Duration
		want string
	}{
		{90 * time.Minute, "1h 30m"},
		{2 * time.Hour, "2h"},
		{7 * time.Minute, "7m"},
		{45 * time.Second, "45s"},
		{0, "-0m"},
		{-5 * time.Minute, "-5m"},
		{-29 * time.Minute, "-29m"},
		{-30*time.Minute - time.Second, "-Nada"},
		{-3 * time.Hour, "-Nada"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Delta(tt.d, grace), "delta %s", tt.d)
	}
}

func TestAgo(t *testing.T) {
	assert.Equal(t, "just now", Ago(30*time.Second))
	assert.Equal(t, "5m ago", Ago(5*time.Minute))
	assert.Equal(t, "2h 5m ago", Ago(2*time.Hour+5*time.Minute))
}

func TestWindowLabel(t *testing.T) {
	assert.Equal(t, "5m (pending)",
		WindowLabel(domain.WindowState{Phase: domain.PhasePending, Remaining: time.Hour}, 5))
	assert.Equal(t, "3m left (open)",
		WindowLabel(domain.WindowState{Phase: domain.PhaseOpen, Remaining: 3*time.Minute + 20*time.Second}, 5))
	assert.Equal(t, "closed",
		WindowLabel(domain.WindowState{Phase: domain.PhaseClosed, Remaining: time.Minute}, 5))
	assert.Equal(t, "-Nada",
		WindowLabel(domain.WindowState{Phase: domain.PhaseExpired, Remaining: time.Hour}, 5))
}
