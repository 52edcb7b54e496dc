package output

import (
	"context"

	"bossbot/internal/domain/entities"
)

// Notifier delivers a rendered message for a transition. Delivery is
// best-effort: the scheduler logs errors and never retries inline, so a
// slow or broken channel cannot stall the tick loop. recipients is the
// already-deduplicated subscriber set (may be empty).
type Notifier interface {
	NotifyTransition(ctx context.Context, t entities.Transition, recipients []string) error
}
