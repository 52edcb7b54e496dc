package domain

import "time"

// Phase is the computed lifecycle state of a boss window at a given instant.
type Phase int

const (
	PhasePending Phase = iota
	PhaseOpen
	PhaseClosed
	PhaseExpired
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseOpen:
		return "open"
	case PhaseClosed:
		return "closed"
	case PhaseExpired:
		return "expired"
	}
	return "unknown"
}

// DefaultGraceSeconds is how long a window stays "closed" before flipping
// to the terminal "expired" state. The split exists so a display does not
// flap between "just closed" and a terminal overdue marker the instant
// the window ends.
const DefaultGraceSeconds = 1800

// WindowState is the result of the pure window computation: the phase and
// a magnitude the caller can render (time until open, time left in the
// window, or time elapsed since the window closed).
type WindowState struct {
	Phase     Phase
	Remaining time.Duration
}

// ComputeWindow derives the phase of a boss from its next spawn anchor and
// window length. It is a pure function of its arguments; graceSeconds
// controls the Closed→Expired split (callers normally pass the configured
// grace, DefaultGraceSeconds when unset).
//
// For fixed nextSpawn and windowMinutes the phase only moves forward
// (Pending→Open→Closed→Expired) as now increases.
func ComputeWindow(now, nextSpawn time.Time, windowMinutes, graceSeconds int) WindowState {
	delta := nextSpawn.Sub(now)
	if delta >= 0 {
		return WindowState{Phase: PhasePending, Remaining: delta}
	}
	elapsedOpen := -delta
	window := time.Duration(windowMinutes) * time.Minute
	if elapsedOpen <= window {
		return WindowState{Phase: PhaseOpen, Remaining: window - elapsedOpen}
	}
	afterClose := elapsedOpen - window
	if afterClose <= time.Duration(graceSeconds)*time.Second {
		return WindowState{Phase: PhaseClosed, Remaining: afterClose}
	}
	return WindowState{Phase: PhaseExpired, Remaining: afterClose}
}
