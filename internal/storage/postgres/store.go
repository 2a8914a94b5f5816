// Package postgres persists sync snapshots for downstream dashboards.
package postgres

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DecentralDever/unityledger-sync/internal/model"
)

// Store provides Postgres persistence for pool snapshots and derived stats.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// PutPools upserts the latest state of every pool in the snapshot.
func (s *Store) PutPools(ctx context.Context, chainID uint64, pools []model.Pool, syncedAt time.Time) error {
	if len(pools) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, pool := range pools {
		batch.Queue(`
			INSERT INTO pools (
				chain_id, pool_id, creator, contribution_wei, cycle_duration_secs,
				max_members, total_members, current_cycle, pool_created_at,
				last_payout_at, active, completed, pool_type, fee_bps,
				total_contributions, creator_rewards, synced_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,now())
			ON CONFLICT (chain_id, pool_id)
			DO UPDATE SET
				creator = EXCLUDED.creator,
				contribution_wei = EXCLUDED.contribution_wei,
				cycle_duration_secs = EXCLUDED.cycle_duration_secs,
				max_members = EXCLUDED.max_members,
				total_members = EXCLUDED.total_members,
				current_cycle = EXCLUDED.current_cycle,
				pool_created_at = EXCLUDED.pool_created_at,
				last_payout_at = EXCLUDED.last_payout_at,
				active = EXCLUDED.active,
				completed = EXCLUDED.completed,
				pool_type = EXCLUDED.pool_type,
				fee_bps = EXCLUDED.fee_bps,
				total_contributions = EXCLUDED.total_contributions,
				creator_rewards = EXCLUDED.creator_rewards,
				synced_at = EXCLUDED.synced_at,
				updated_at = now()
		`,
			int64(chainID),
			int64(pool.ID),
			pool.Creator,
			bigIntText(pool.ContributionWei),
			int64(pool.CycleDurationSecs),
			int64(pool.MaxMembers),
			int64(pool.TotalMembers),
			int64(pool.CurrentCycle),
			int64(pool.CreatedAt),
			int64(pool.LastPayoutAt),
			pool.Active,
			pool.Completed,
			pool.PoolType,
			int64(pool.FeeBps),
			bigIntText(pool.TotalContributions),
			bigIntText(pool.CreatorRewards),
			syncedAt.UTC(),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range pools {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// PutStats appends one derived platform stats row per sync.
func (s *Store) PutStats(ctx context.Context, chainID uint64, stats model.PlatformStats, syncedAt time.Time) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO platform_stats (
			chain_id, pool_count, active_pool_count, total_members,
			total_value_locked_wei, avg_pool_size, avg_contribution_wei,
			synced_at, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,now())
		ON CONFLICT (chain_id, synced_at) DO NOTHING
	`,
		int64(chainID),
		int64(stats.PoolCount),
		int64(stats.ActivePoolCount),
		int64(stats.TotalMembers),
		bigIntText(stats.TotalValueLockedWei),
		stats.AvgPoolSize,
		bigIntText(stats.AvgContributionWei),
		syncedAt.UTC(),
	)
	return err
}

func bigIntText(value *big.Int) string {
	if value == nil {
		return "0"
	}
	return value.String()
}
