package stats

import (
	"math/big"
	"sort"
	"strings"

	"github.com/DecentralDever/unityledger-sync/internal/model"
)

// rankingCap bounds every leaderboard list.
const rankingCap = 10

// Rank builds the four bounded leaderboard views from a synced pool set and
// its rosters. All sorts are stable; ties keep original iteration order.
func Rank(pools []model.Pool, rosters map[uint64][]model.Member) model.Leaderboard {
	return model.Leaderboard{
		TopCreators:       topCreators(pools),
		TopPools:          topPools(pools),
		MostActiveMembers: mostActiveMembers(pools, rosters),
		HighestYield:      highestYield(pools),
	}
}

func topCreators(pools []model.Pool) []model.CreatorRank {
	byCreator := make(map[string]*model.CreatorRank)
	order := make([]string, 0)
	feeSums := make(map[string]uint64)

	for _, pool := range pools {
		key := strings.ToLower(pool.Creator)
		entry, seen := byCreator[key]
		if !seen {
			entry = &model.CreatorRank{Address: pool.Creator, TotalValue: big.NewInt(0)}
			byCreator[key] = entry
			order = append(order, key)
		}
		entry.PoolsCreated++
		entry.TotalMembers += pool.TotalMembers
		if pool.TotalContributions != nil {
			entry.TotalValue.Add(entry.TotalValue, pool.TotalContributions)
		}
		feeSums[key] += pool.FeeBps
	}

	ranked := make([]model.CreatorRank, 0, len(order))
	for _, key := range order {
		entry := byCreator[key]
		// Running average of the advertised fee rate; a display heuristic,
		// not a ledger-sourced yield figure.
		entry.AvgAPYBps = float64(feeSums[key]) / float64(entry.PoolsCreated)
		ranked = append(ranked, *entry)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalValue.Cmp(ranked[j].TotalValue) > 0
	})
	return truncateCreators(ranked)
}

func topPools(pools []model.Pool) []model.Pool {
	ranked := make([]model.Pool, len(pools))
	copy(ranked, pools)
	sort.SliceStable(ranked, func(i, j int) bool {
		return cmpBig(ranked[i].TotalContributions, ranked[j].TotalContributions) > 0
	})
	return truncatePools(ranked)
}

func mostActiveMembers(pools []model.Pool, rosters map[uint64][]model.Member) []model.MemberRank {
	byMember := make(map[string]*model.MemberRank)
	order := make([]string, 0)

	for _, pool := range pools {
		for _, member := range rosters[pool.ID] {
			key := strings.ToLower(member.Wallet)
			entry, seen := byMember[key]
			if !seen {
				entry = &model.MemberRank{Address: member.Wallet, TotalContributed: big.NewInt(0)}
				byMember[key] = entry
				order = append(order, key)
			}
			entry.PoolsJoined++
			if member.TotalContributed != nil {
				entry.TotalContributed.Add(entry.TotalContributed, member.TotalContributed)
			}
			if member.HasReceivedPayout {
				entry.PayoutsReceived++
			}
		}
	}

	ranked := make([]model.MemberRank, 0, len(order))
	for _, key := range order {
		ranked = append(ranked, *byMember[key])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PoolsJoined > ranked[j].PoolsJoined
	})
	if len(ranked) > rankingCap {
		ranked = ranked[:rankingCap]
	}
	return ranked
}

func highestYield(pools []model.Pool) []model.Pool {
	yielding := make([]model.Pool, 0, len(pools))
	for _, pool := range pools {
		if pool.FeeBps > 0 {
			yielding = append(yielding, pool)
		}
	}
	sort.SliceStable(yielding, func(i, j int) bool {
		return yielding[i].FeeBps > yielding[j].FeeBps
	})
	return truncatePools(yielding)
}

func truncatePools(pools []model.Pool) []model.Pool {
	if len(pools) > rankingCap {
		return pools[:rankingCap]
	}
	return pools
}

func truncateCreators(ranked []model.CreatorRank) []model.CreatorRank {
	if len(ranked) > rankingCap {
		return ranked[:rankingCap]
	}
	return ranked
}

func cmpBig(a, b *big.Int) int {
	if a == nil {
		a = big.NewInt(0)
	}
	if b == nil {
		b = big.NewInt(0)
	}
	return a.Cmp(b)
}
