package storage

import (
	"context"
	"time"

	"github.com/DecentralDever/unityledger-sync/internal/model"
)

// Storage is a sink for sync snapshots and derived stats. The sync layer
// works without one; persistence exists for downstream dashboards that want
// history.
type Storage interface {
	PutPools(ctx context.Context, chainID uint64, pools []model.Pool, syncedAt time.Time) error
	PutStats(ctx context.Context, chainID uint64, stats model.PlatformStats, syncedAt time.Time) error
}
