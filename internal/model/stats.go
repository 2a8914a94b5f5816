package model

import "math/big"

// PoolTypeCount is one entry of the top pool-type breakdown.
type PoolTypeCount struct {
	PoolType string `json:"pool_type"`
	Count    uint64 `json:"count"`
}

// StatusBreakdown is the mutually exclusive three-way pool partition:
// completed wins over active, everything else is inactive.
type StatusBreakdown struct {
	Active    uint64 `json:"active"`
	Completed uint64 `json:"completed"`
	Inactive  uint64 `json:"inactive"`
}

// PlatformStats is the platform-wide projection derived from a synced pool
// set. All fields are recomputed from raw sums on every aggregation.
type PlatformStats struct {
	PoolCount           uint64          `json:"pool_count"`
	ActivePoolCount     uint64          `json:"active_pool_count"`
	TotalMembers        uint64          `json:"total_members"`
	TotalValueLockedWei *big.Int        `json:"total_value_locked_wei"`
	AvgPoolSize         float64         `json:"avg_pool_size"`
	AvgContributionWei  *big.Int        `json:"avg_contribution_wei"`
	TopPoolTypes        []PoolTypeCount `json:"top_pool_types"`
	PoolsByStatus       StatusBreakdown `json:"pools_by_status"`
	RecentActivity      []Pool          `json:"recent_activity"`
}

// CreatorRank is one row of the top-creators leaderboard.
type CreatorRank struct {
	Address      string   `json:"address"`
	PoolsCreated uint64   `json:"pools_created"`
	TotalValue   *big.Int `json:"total_value"`
	TotalMembers uint64   `json:"total_members"`
	AvgAPYBps    float64  `json:"avg_apy_bps"`
}

// MemberRank is one row of the most-active-members leaderboard.
type MemberRank struct {
	Address          string   `json:"address"`
	PoolsJoined      uint64   `json:"pools_joined"`
	TotalContributed *big.Int `json:"total_contributed"`
	PayoutsReceived  uint64   `json:"payouts_received"`
}

// Leaderboard bundles the four ranked projections, each capped at ten rows.
type Leaderboard struct {
	TopCreators       []CreatorRank `json:"top_creators"`
	TopPools          []Pool        `json:"top_pools"`
	MostActiveMembers []MemberRank  `json:"most_active_members"`
	HighestYield      []Pool        `json:"highest_yield"`
}

// FaucetStatus is the derived claim-eligibility snapshot for one account.
type FaucetStatus struct {
	CanClaim         bool     `json:"can_claim"`
	SecondsUntilNext uint64   `json:"seconds_until_next"`
	TotalClaimed     *big.Int `json:"total_claimed"`
}

// StakingPosition is the stake/reward/discount snapshot for one account.
type StakingPosition struct {
	Balance        *big.Int `json:"balance"`
	Staked         *big.Int `json:"staked"`
	PendingRewards *big.Int `json:"pending_rewards"`
	FeeDiscountBps uint64   `json:"fee_discount_bps"`
	VotingPower    *big.Int `json:"voting_power"`
}
