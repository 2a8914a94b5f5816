package model

import (
	"math/big"
	"testing"
)

func TestNewPool(t *testing.T) {
	raw := RawPoolRecord{
		ID:                 big.NewInt(3),
		Creator:            "0x1111111111111111111111111111111111111111",
		ContributionAmount: "1e18",
		CycleDuration:      uint64(604800),
		MaxMembers:         big.NewInt(10),
		TotalMembers:       big.NewInt(4),
		CurrentCycle:       uint64(0),
		CreatedAt:          uint64(1700000000),
		IsActive:           true,
		PoolType:           " savings ",
		FeeBps:             uint64(250),
		TotalContributions: big.NewInt(4_000_000),
	}

	pool, err := NewPool(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pool.ID != 3 {
		t.Fatalf("id = %d, want 3", pool.ID)
	}
	if pool.ContributionWei.String() != "1000000000000000000" {
		t.Fatalf("contribution = %s", pool.ContributionWei)
	}
	if pool.PoolType != "savings" {
		t.Fatalf("pool type = %q, want trimmed", pool.PoolType)
	}
	if pool.CreatorRewards == nil || pool.CreatorRewards.Sign() != 0 {
		t.Fatalf("missing numeric fields must coerce to zero, got %v", pool.CreatorRewards)
	}
}

func TestNewPoolRejectsMissingCreator(t *testing.T) {
	if _, err := NewPool(RawPoolRecord{Creator: "  "}); err == nil {
		t.Fatalf("expected error for missing creator")
	}
}

func TestNewPoolRejectsOverfullRoster(t *testing.T) {
	raw := RawPoolRecord{
		Creator:      "0x1111111111111111111111111111111111111111",
		MaxMembers:   uint64(5),
		TotalMembers: uint64(6),
	}
	if _, err := NewPool(raw); err == nil {
		t.Fatalf("expected error for member count above cap")
	}
}

func TestPoolIsFull(t *testing.T) {
	if (Pool{MaxMembers: 0, TotalMembers: 100}).IsFull() {
		t.Fatalf("zero cap must never report full")
	}
	if !(Pool{MaxMembers: 5, TotalMembers: 5}).IsFull() {
		t.Fatalf("at-cap pool must report full")
	}
}

func TestPoolIsCreator(t *testing.T) {
	pool := Pool{Creator: "0xAbCd000000000000000000000000000000000001"}
	if !pool.IsCreator("0xabcd000000000000000000000000000000000001") {
		t.Fatalf("creator match must be case-insensitive")
	}
	if pool.IsCreator("") {
		t.Fatalf("empty account is never the creator")
	}
}
