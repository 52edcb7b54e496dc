package output

import "context"

// Meta keys used by the scheduler and the boot reconciliation.
const (
	MetaLastTick     = "last_tick_ts"
	MetaOfflineSince = "offline_since"
	MetaLastStartup  = "last_startup_ts"
)

// MetaRepository is a small key/value store for process bookkeeping
// (tick marker, offline marker, seed versions).
type MetaRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes the key; deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error
}
