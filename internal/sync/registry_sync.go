// Package sync turns the sparse, externally mutated ledger state into a
// consistent, ordered view model: the synced pool registry, per-pool
// rosters, and per-account eligibility.
package sync

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/DecentralDever/unityledger-sync/internal/model"
)

// DefaultRefreshInterval is the fixed re-sync cadence.
const DefaultRefreshInterval = 30 * time.Second

// LedgerReader is the read surface the sync layer needs from the ledger
// client.
type LedgerReader interface {
	GetPoolCount(ctx context.Context) (uint64, error)
	GetPoolDetails(ctx context.Context, poolID uint64) (model.RawPoolRecord, error)
	GetPoolMembers(ctx context.Context, poolID uint64) ([]model.Member, error)
	CanJoin(ctx context.Context, poolID uint64, account string) (bool, error)
	CanContribute(ctx context.Context, poolID uint64, account string) (bool, error)
}

// RegistrySync fetches the full pool set and normalizes it into typed Pool
// entities.
type RegistrySync struct {
	reader LedgerReader
	logger *zap.Logger
}

func NewRegistrySync(reader LedgerReader, logger *zap.Logger) *RegistrySync {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrySync{reader: reader, logger: logger}
}

// SyncAll reads the pool count and fetches every pool's details in parallel.
// A single pool's failure is logged and the pool omitted; ledger reads can
// transiently fail per item under load, so tolerating that is required
// behavior, not an edge case. Results are reordered by pool id regardless of
// resolution order.
func (s *RegistrySync) SyncAll(ctx context.Context) ([]model.Pool, error) {
	count, err := s.reader.GetPoolCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("get pool count: %w", err)
	}
	if count == 0 {
		return []model.Pool{}, nil
	}

	records, errs := Gather(ctx, int(count), func(ctx context.Context, i int) (model.RawPoolRecord, error) {
		return s.reader.GetPoolDetails(ctx, uint64(i))
	})

	pools := make([]model.Pool, 0, count)
	for i, record := range records {
		if errs[i] != nil {
			s.logger.Warn("pool detail fetch failed, omitting",
				zap.Int("pool_id", i),
				zap.Error(errs[i]),
			)
			continue
		}
		pool, err := model.NewPool(record)
		if err != nil {
			s.logger.Warn("pool record rejected, omitting",
				zap.Int("pool_id", i),
				zap.Error(err),
			)
			continue
		}
		pools = append(pools, pool)
	}

	sort.Slice(pools, func(i, j int) bool { return pools[i].ID < pools[j].ID })
	return pools, nil
}

// SyncRosters fetches the member roster of every pool in parallel. A pool
// whose roster read fails is simply absent from the map.
func (s *RegistrySync) SyncRosters(ctx context.Context, pools []model.Pool) map[uint64][]model.Member {
	rosters, errs := Gather(ctx, len(pools), func(ctx context.Context, i int) ([]model.Member, error) {
		return s.reader.GetPoolMembers(ctx, pools[i].ID)
	})

	out := make(map[uint64][]model.Member, len(pools))
	for i, roster := range rosters {
		if errs[i] != nil {
			s.logger.Warn("roster fetch failed, omitting",
				zap.Uint64("pool_id", pools[i].ID),
				zap.Error(errs[i]),
			)
			continue
		}
		out[pools[i].ID] = roster
	}
	return out
}
