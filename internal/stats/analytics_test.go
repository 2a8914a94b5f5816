package stats

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DecentralDever/unityledger-sync/internal/model"
)

func eth(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

func TestAggregateEmpty(t *testing.T) {
	result := Aggregate(nil)

	assert.Zero(t, result.PoolCount)
	assert.Zero(t, result.TotalMembers)
	assert.Zero(t, result.AvgPoolSize)
	require.NotNil(t, result.TotalValueLockedWei)
	assert.Zero(t, result.TotalValueLockedWei.Sign())
	require.NotNil(t, result.AvgContributionWei)
	assert.Zero(t, result.AvgContributionWei.Sign())
	assert.Empty(t, result.TopPoolTypes)
	assert.Empty(t, result.RecentActivity)
}

func TestAggregateStatusPartition(t *testing.T) {
	pools := []model.Pool{
		{ID: 0, Active: true},
		{ID: 1, Active: true},
		{ID: 2, Active: true, Completed: true},
		{ID: 3, Completed: true},
		{ID: 4},
	}

	result := Aggregate(pools)

	// Completed wins over active; the three buckets always sum to the total.
	assert.Equal(t, uint64(2), result.PoolsByStatus.Active)
	assert.Equal(t, uint64(2), result.PoolsByStatus.Completed)
	assert.Equal(t, uint64(1), result.PoolsByStatus.Inactive)
	assert.Equal(t, uint64(2), result.ActivePoolCount)
	assert.Equal(t, uint64(5), result.PoolCount)
}

func TestAggregateValueLocked(t *testing.T) {
	pools := []model.Pool{
		{ID: 0, ContributionWei: eth(1), TotalMembers: 4},
		{ID: 1, ContributionWei: eth(2), TotalMembers: 3},
		{ID: 2, ContributionWei: nil, TotalMembers: 5},
	}

	result := Aggregate(pools)

	assert.Equal(t, eth(10).String(), result.TotalValueLockedWei.String())
	assert.Equal(t, uint64(12), result.TotalMembers)
	assert.InDelta(t, 4.0, result.AvgPoolSize, 1e-9)
	// 10 ETH over 12 members, truncated wei division.
	want := new(big.Int).Div(eth(10), big.NewInt(12))
	assert.Equal(t, want.String(), result.AvgContributionWei.String())
}

func TestAggregateTopPoolTypes(t *testing.T) {
	pools := []model.Pool{
		{ID: 0, PoolType: "savings"},
		{ID: 1, PoolType: "premium"},
		{ID: 2, PoolType: "savings"},
		{ID: 3, PoolType: "social"},
		{ID: 4, PoolType: "premium"},
		{ID: 5, PoolType: "savings"},
		{ID: 6, PoolType: ""},
		{ID: 7, PoolType: "charity"},
		{ID: 8, PoolType: "investment"},
		{ID: 9, PoolType: "lottery"},
	}

	result := Aggregate(pools)

	require.Len(t, result.TopPoolTypes, 5)
	assert.Equal(t, model.PoolTypeCount{PoolType: "savings", Count: 3}, result.TopPoolTypes[0])
	assert.Equal(t, model.PoolTypeCount{PoolType: "premium", Count: 2}, result.TopPoolTypes[1])
	// Singles keep first-seen order.
	assert.Equal(t, "social", result.TopPoolTypes[2].PoolType)
	assert.Equal(t, "charity", result.TopPoolTypes[3].PoolType)
}

func TestAggregateRecentActivity(t *testing.T) {
	pools := make([]model.Pool, 0, 13)
	for i := 0; i < 12; i++ {
		pools = append(pools, model.Pool{ID: uint64(i), CreatedAt: uint64(1700000000 + i)})
	}
	pools = append(pools, model.Pool{ID: 99, CreatedAt: 0})

	result := Aggregate(pools)

	require.Len(t, result.RecentActivity, 10)
	assert.Equal(t, uint64(11), result.RecentActivity[0].ID)
	for _, pool := range result.RecentActivity {
		assert.NotZero(t, pool.CreatedAt, "pools with no timestamp are excluded")
	}
}
