package model

import (
	"fmt"
	"math/big"
	"strings"
)

// Pool is the canonical normalized record for one savings pool. It is always
// re-derived from a fresh ledger read and never mutated locally.
type Pool struct {
	ID                 uint64   `json:"id"`
	Creator            string   `json:"creator"`
	ContributionWei    *big.Int `json:"contribution_wei"`
	CycleDurationSecs  uint64   `json:"cycle_duration_secs"`
	MaxMembers         uint64   `json:"max_members"`
	TotalMembers       uint64   `json:"total_members"`
	CurrentCycle       uint64   `json:"current_cycle"`
	CreatedAt          uint64   `json:"created_at"`
	LastPayoutAt       uint64   `json:"last_payout_at"`
	Active             bool     `json:"active"`
	Completed          bool     `json:"completed"`
	PoolType           string   `json:"pool_type"`
	FeeBps             uint64   `json:"fee_bps"`
	TotalContributions *big.Int `json:"total_contributions"`
	CreatorRewards     *big.Int `json:"creator_rewards"`
}

// IsFull reports whether the pool has reached its member cap.
func (p Pool) IsFull() bool {
	return p.MaxMembers > 0 && p.TotalMembers >= p.MaxMembers
}

// IsCreator reports whether account created this pool, matching
// case-insensitively.
func (p Pool) IsCreator(account string) bool {
	return account != "" && strings.EqualFold(p.Creator, account)
}

// RawPoolRecord is a loosely typed pool record as returned by the ledger.
// Numeric fields may arrive in implementation specific encodings and are
// canonicalized by NewPool.
type RawPoolRecord struct {
	ID                 any
	Creator            string
	ContributionAmount any
	CycleDuration      any
	MaxMembers         any
	TotalMembers       any
	CurrentCycle       any
	CreatedAt          any
	LastPayoutTime     any
	IsActive           bool
	IsCompleted        bool
	PoolType           string
	FeeBps             any
	TotalContributions any
	CreatorRewards     any
}

// NewPool validates and normalizes a raw ledger record into a Pool. Numeric
// fields pass through tolerant coercion and never fail; structural problems
// (missing creator, inconsistent member counts) are rejected so that callers
// can log and skip the record.
func NewPool(raw RawPoolRecord) (Pool, error) {
	if strings.TrimSpace(raw.Creator) == "" {
		return Pool{}, fmt.Errorf("pool record missing creator")
	}

	pool := Pool{
		ID:                 CoerceUint64(raw.ID),
		Creator:            raw.Creator,
		ContributionWei:    CoerceBigInt(raw.ContributionAmount),
		CycleDurationSecs:  CoerceUint64(raw.CycleDuration),
		MaxMembers:         CoerceUint64(raw.MaxMembers),
		TotalMembers:       CoerceUint64(raw.TotalMembers),
		CurrentCycle:       CoerceUint64(raw.CurrentCycle),
		CreatedAt:          CoerceUint64(raw.CreatedAt),
		LastPayoutAt:       CoerceUint64(raw.LastPayoutTime),
		Active:             raw.IsActive,
		Completed:          raw.IsCompleted,
		PoolType:           strings.TrimSpace(raw.PoolType),
		FeeBps:             CoerceUint64(raw.FeeBps),
		TotalContributions: CoerceBigInt(raw.TotalContributions),
		CreatorRewards:     CoerceBigInt(raw.CreatorRewards),
	}

	if pool.MaxMembers > 0 && pool.TotalMembers > pool.MaxMembers {
		return Pool{}, fmt.Errorf("pool %d: member count %d exceeds cap %d", pool.ID, pool.TotalMembers, pool.MaxMembers)
	}

	return pool, nil
}

// Member is one entry in a pool roster. JoinPosition is 1-based and
// determines payout order.
type Member struct {
	Wallet            string   `json:"wallet"`
	JoinPosition      uint64   `json:"join_position"`
	TotalContributed  *big.Int `json:"total_contributed"`
	HasReceivedPayout bool     `json:"has_received_payout"`
}

// EligibilityView is the derived join/contribute permission for one
// (pool, account) pair. The ledger is authoritative for CanJoin and
// CanContribute; Joined implies CanJoin is false.
type EligibilityView struct {
	Joined        bool `json:"joined"`
	CanJoin       bool `json:"can_join"`
	CanContribute bool `json:"can_contribute"`
}
