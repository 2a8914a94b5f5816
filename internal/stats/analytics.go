// Package stats derives read-only projections (platform analytics,
// leaderboards) from an already synced pool set. Nothing here issues ledger
// reads; every call recomputes from raw sums so the projection always
// matches the latest snapshot.
package stats

import (
	"math/big"
	"sort"

	"github.com/DecentralDever/unityledger-sync/internal/model"
)

const (
	topPoolTypeCount = 5
	recentActivityCap = 10
)

// Aggregate computes the platform-wide statistics for one pool snapshot.
// Aggregate(nil) returns all-zero stats.
func Aggregate(pools []model.Pool) model.PlatformStats {
	result := model.PlatformStats{
		PoolCount:           uint64(len(pools)),
		TotalValueLockedWei: big.NewInt(0),
		AvgContributionWei:  big.NewInt(0),
		TopPoolTypes:        []model.PoolTypeCount{},
		RecentActivity:      []model.Pool{},
	}

	typeCounts := make(map[string]uint64)
	typeOrder := make([]string, 0)

	for _, pool := range pools {
		result.TotalMembers += pool.TotalMembers

		// Locked value is contribution × members summed in wei before any
		// unit conversion, so per-pool rounding never compounds.
		if pool.ContributionWei != nil {
			locked := new(big.Int).Mul(pool.ContributionWei, new(big.Int).SetUint64(pool.TotalMembers))
			result.TotalValueLockedWei.Add(result.TotalValueLockedWei, locked)
		}

		switch {
		case pool.Completed:
			result.PoolsByStatus.Completed++
		case pool.Active:
			result.ActivePoolCount++
			result.PoolsByStatus.Active++
		default:
			result.PoolsByStatus.Inactive++
		}

		if pool.PoolType != "" {
			if _, seen := typeCounts[pool.PoolType]; !seen {
				typeOrder = append(typeOrder, pool.PoolType)
			}
			typeCounts[pool.PoolType]++
		}
	}

	if len(pools) > 0 {
		result.AvgPoolSize = float64(result.TotalMembers) / float64(len(pools))
	}
	if result.TotalMembers > 0 {
		result.AvgContributionWei = new(big.Int).Div(
			result.TotalValueLockedWei,
			new(big.Int).SetUint64(result.TotalMembers),
		)
	}

	result.TopPoolTypes = topPoolTypes(typeOrder, typeCounts)
	result.RecentActivity = recentPools(pools)

	return result
}

// topPoolTypes ranks labels by count descending; ties keep first-seen order.
func topPoolTypes(order []string, counts map[string]uint64) []model.PoolTypeCount {
	ranked := make([]model.PoolTypeCount, 0, len(order))
	for _, label := range order {
		ranked = append(ranked, model.PoolTypeCount{PoolType: label, Count: counts[label]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	if len(ranked) > topPoolTypeCount {
		ranked = ranked[:topPoolTypeCount]
	}
	return ranked
}

// recentPools sorts by creation time descending, excluding pools with no
// timestamp, capped at ten.
func recentPools(pools []model.Pool) []model.Pool {
	recent := make([]model.Pool, 0, len(pools))
	for _, pool := range pools {
		if pool.CreatedAt > 0 {
			recent = append(recent, pool)
		}
	}
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].CreatedAt > recent[j].CreatedAt })
	if len(recent) > recentActivityCap {
		recent = recent[:recentActivityCap]
	}
	return recent
}
