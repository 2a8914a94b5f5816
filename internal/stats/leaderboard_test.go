package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DecentralDever/unityledger-sync/internal/model"
)

func TestTopCreatorsOrderAndMerge(t *testing.T) {
	alice := "0xAAAA000000000000000000000000000000000001"
	bob := "0xBBBB000000000000000000000000000000000002"
	pools := []model.Pool{
		{ID: 0, Creator: alice, TotalContributions: eth(4), TotalMembers: 3, FeeBps: 200},
		{ID: 1, Creator: bob, TotalContributions: eth(7), TotalMembers: 5, FeeBps: 100},
		// Same creator in a different case folds into one entry.
		{ID: 2, Creator: "0xaaaa000000000000000000000000000000000001", TotalContributions: eth(6), TotalMembers: 2, FeeBps: 400},
	}

	board := Rank(pools, nil)

	require.Len(t, board.TopCreators, 2)
	top := board.TopCreators[0]
	assert.Equal(t, alice, top.Address)
	assert.Equal(t, uint64(2), top.PoolsCreated)
	assert.Equal(t, eth(10).String(), top.TotalValue.String())
	assert.Equal(t, uint64(5), top.TotalMembers)
	assert.InDelta(t, 300.0, top.AvgAPYBps, 1e-9)
	assert.Equal(t, bob, board.TopCreators[1].Address)
}

func TestTopCreatorsStableTies(t *testing.T) {
	pools := make([]model.Pool, 0, 4)
	for i := 0; i < 4; i++ {
		pools = append(pools, model.Pool{
			ID:                 uint64(i),
			Creator:            creatorAddr(i),
			TotalContributions: eth(1),
		})
	}

	board := Rank(pools, nil)

	require.Len(t, board.TopCreators, 4)
	for i, rank := range board.TopCreators {
		assert.Equal(t, creatorAddr(i), rank.Address, "equal totals keep first-seen order")
	}
}

func TestTopPoolsCapped(t *testing.T) {
	pools := make([]model.Pool, 0, 15)
	for i := 0; i < 15; i++ {
		pools = append(pools, model.Pool{
			ID:                 uint64(i),
			Creator:            creatorAddr(i),
			TotalContributions: eth(int64(i)),
		})
	}

	board := Rank(pools, nil)

	require.Len(t, board.TopPools, 10)
	assert.Equal(t, uint64(14), board.TopPools[0].ID)
	// The input snapshot keeps its own order.
	assert.Equal(t, uint64(0), pools[0].ID)
}

func TestTopPoolsNilContributions(t *testing.T) {
	pools := []model.Pool{
		{ID: 0, TotalContributions: nil},
		{ID: 1, TotalContributions: eth(1)},
	}
	board := Rank(pools, nil)
	require.Len(t, board.TopPools, 2)
	assert.Equal(t, uint64(1), board.TopPools[0].ID)
}

func TestMostActiveMembers(t *testing.T) {
	carol := "0xCCCC000000000000000000000000000000000003"
	dave := "0xDDDD000000000000000000000000000000000004"
	pools := []model.Pool{{ID: 0}, {ID: 1}, {ID: 2}}
	rosters := map[uint64][]model.Member{
		0: {
			{Wallet: carol, TotalContributed: eth(1)},
			{Wallet: dave, TotalContributed: eth(2), HasReceivedPayout: true},
		},
		1: {{Wallet: carol, TotalContributed: eth(3)}},
		2: {{Wallet: "0xcccc000000000000000000000000000000000003", TotalContributed: eth(1)}},
	}

	board := Rank(pools, rosters)

	require.Len(t, board.MostActiveMembers, 2)
	top := board.MostActiveMembers[0]
	assert.Equal(t, carol, top.Address)
	assert.Equal(t, uint64(3), top.PoolsJoined)
	assert.Equal(t, eth(5).String(), top.TotalContributed.String())
	assert.Equal(t, uint64(1), board.MostActiveMembers[1].PayoutsReceived)
}

func TestHighestYieldFiltersZeroFee(t *testing.T) {
	pools := []model.Pool{
		{ID: 0, FeeBps: 0},
		{ID: 1, FeeBps: 300},
		{ID: 2, FeeBps: 500},
	}

	board := Rank(pools, nil)

	require.Len(t, board.HighestYield, 2)
	assert.Equal(t, uint64(2), board.HighestYield[0].ID)
	assert.Equal(t, uint64(1), board.HighestYield[1].ID)
}

func creatorAddr(i int) string {
	return "0x" + string(rune('1'+i)) + "000000000000000000000000000000000000001"
}
