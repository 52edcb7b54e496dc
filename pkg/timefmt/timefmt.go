// Package timefmt formats timer durations and window phases the way they
// are displayed in lists and announcements. Formatting is a presentation
// concern layered on top of the pure window computation.
package timefmt

import (
	"fmt"
	"time"

	"bossbot/internal/domain"
)

// Delta renders a signed countdown. Future deltas read "1h 23m"; past
// deltas read "-Xm" until the grace elapses, then the terminal "-Nada".
func Delta(d time.Duration, graceSeconds int) string {
	secs := int64(d / time.Second)
	if secs <= 0 {
		overdue := -secs
		if overdue > int64(graceSeconds) {
			return "-Nada"
		}
		return fmt.Sprintf("-%dm", overdue/60)
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", s)
}

// Ago renders an elapsed duration for catch-up notices ("2h 5m ago").
func Ago(d time.Duration) string {
	secs := int64(d / time.Second)
	if secs < 60 {
		return "just now"
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm ago", h, m)
	}
	return fmt.Sprintf("%dm ago", m)
}

// WindowLabel renders the phase of a window for list views:
//   - avant l'ouverture:       "<window>m (pending)"
//   - pendant la fenêtre:      "<X>m left (open)"
//   - après, pendant la grâce: "closed"
//   - au-delà:                 "-Nada"
func WindowLabel(state domain.WindowState, windowMinutes int) string {
	switch state.Phase {
	case domain.PhasePending:
		return fmt.Sprintf("%dm (pending)", windowMinutes)
	case domain.PhaseOpen:
		left := int64(state.Remaining/time.Minute)
		if left < 0 {
			left = 0
		}
		return fmt.Sprintf("%dm left (open)", left)
	case domain.PhaseClosed:
		return "closed"
	}
	return "-Nada"
}
