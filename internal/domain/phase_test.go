package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeWindowPhases(t *testing.T) {
	spawn := time.Date(2025, 9, 12, 12, 0, 0, 0, time.UTC)
	const window = 5
	const grace = 1800

	tests := []struct {
		name      string
		now       time.Time
		phase     Phase
		remaining time.Duration
	}{
		{"bien avant le spawn", spawn.Add(-2 * time.Hour), PhasePending, 2 * time.Hour},
		{"à l'instant du spawn", spawn, PhasePending, 0},
		{"fenêtre ouverte", spawn.Add(2 * time.Minute), PhaseOpen, 3 * time.Minute},
		{"dernière seconde de la fenêtre", spawn.Add(5 * time.Minute), PhaseOpen, 0},
		{"juste après la fenêtre", spawn.Add(5*time.Minute + time.Second), PhaseClosed, time.Second},
		{"dernière seconde de grâce", spawn.Add(5*time.Minute + 1800*time.Second), PhaseClosed, 1800 * time.Second},
		{"au-delà de la grâce", spawn.Add(5*time.Minute + 1801*time.Second), PhaseExpired, 1801 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := ComputeWindow(tt.now, spawn, window, grace)
			assert.Equal(t, tt.phase, state.Phase)
			assert.Equal(t, tt.remaining, state.Remaining)
		})
	}
}

func TestComputeWindowZeroWindow(t *testing.T) {
	spawn := time.Date(2025, 9, 12, 12, 0, 0, 0, time.UTC)
	state := ComputeWindow(spawn.Add(time.Second), spawn, 0, 1800)
	assert.Equal(t, PhaseClosed, state.Phase)
}

func TestComputeWindowOnlyMovesForward(t *testing.T) {
	spawn := time.Date(2025, 9, 12, 12, 0, 0, 0, time.UTC)
	prev := PhasePending
	for offset := -10 * time.Minute; offset <= 45*time.Minute; offset += 10 * time.Second {
		state := ComputeWindow(spawn.Add(offset), spawn, 5, 600)
		assert.GreaterOrEqual(t, state.Phase, prev, "phase ne doit jamais reculer (offset %s)", offset)
		prev = state.Phase
	}
	assert.Equal(t, PhaseExpired, prev)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "pending", PhasePending.String())
	assert.Equal(t, "open", PhaseOpen.String())
	assert.Equal(t, "closed", PhaseClosed.String())
	assert.Equal(t, "expired", PhaseExpired.String())
}
