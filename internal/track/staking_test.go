package track

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/DecentralDever/unityledger-sync/internal/ledger"
)

type fakeStakingReader struct {
	balance    *big.Int
	balanceErr error
	stake      ledger.StakeInfo
	stakeErr   error
	rewards    *big.Int
	discount   uint64
	power      *big.Int
}

func (f *fakeStakingReader) BalanceOf(context.Context, string) (*big.Int, error) {
	return f.balance, f.balanceErr
}

func (f *fakeStakingReader) GetStakeInfo(context.Context, string) (ledger.StakeInfo, error) {
	return f.stake, f.stakeErr
}

func (f *fakeStakingReader) GetPendingRewards(context.Context, string) (*big.Int, error) {
	return f.rewards, nil
}

func (f *fakeStakingReader) GetFeeDiscount(context.Context, string) (uint64, error) {
	return f.discount, nil
}

func (f *fakeStakingReader) VotingPower(context.Context, string) (*big.Int, error) {
	return f.power, nil
}

func TestStakingSnapshot(t *testing.T) {
	reader := &fakeStakingReader{
		balance:  big.NewInt(1000),
		stake:    ledger.StakeInfo{Staked: big.NewInt(400)},
		rewards:  big.NewInt(25),
		discount: 150,
		power:    big.NewInt(400),
	}
	position := NewStakingTracker(reader, nil).Snapshot(context.Background(), testAccount)

	if position.Balance.Int64() != 1000 {
		t.Fatalf("balance = %s", position.Balance)
	}
	if position.Staked.Int64() != 400 {
		t.Fatalf("staked = %s", position.Staked)
	}
	if position.PendingRewards.Int64() != 25 {
		t.Fatalf("rewards = %s", position.PendingRewards)
	}
	if position.FeeDiscountBps != 150 {
		t.Fatalf("discount = %d", position.FeeDiscountBps)
	}
}

func TestStakingSnapshotDegradesPerField(t *testing.T) {
	reader := &fakeStakingReader{
		balance:  big.NewInt(1000),
		stakeErr: errors.New("rpc timeout"),
		rewards:  big.NewInt(25),
		power:    big.NewInt(0),
	}
	position := NewStakingTracker(reader, nil).Snapshot(context.Background(), testAccount)

	if position.Staked.Sign() != 0 {
		t.Fatalf("failed field must degrade to zero, got %s", position.Staked)
	}
	if position.Balance.Int64() != 1000 || position.PendingRewards.Int64() != 25 {
		t.Fatalf("healthy fields must survive: %+v", position)
	}
}

func TestStakingSnapshotEmptyAccount(t *testing.T) {
	position := NewStakingTracker(&fakeStakingReader{}, nil).Snapshot(context.Background(), "")
	if position.Balance == nil || position.Balance.Sign() != 0 {
		t.Fatalf("empty account must yield the zero position, got %+v", position)
	}
}
