package track

import (
	"context"
	"math/big"

	"go.uber.org/zap"

	"github.com/DecentralDever/unityledger-sync/internal/ledger"
	"github.com/DecentralDever/unityledger-sync/internal/model"
	"github.com/DecentralDever/unityledger-sync/internal/sync"
)

// StakingReader is the token view surface the staking tracker needs.
type StakingReader interface {
	BalanceOf(ctx context.Context, account string) (*big.Int, error)
	GetStakeInfo(ctx context.Context, account string) (ledger.StakeInfo, error)
	GetPendingRewards(ctx context.Context, account string) (*big.Int, error)
	GetFeeDiscount(ctx context.Context, account string) (uint64, error)
	VotingPower(ctx context.Context, account string) (*big.Int, error)
}

// StakingTracker derives the stake/reward/discount snapshot for an account.
type StakingTracker struct {
	reader StakingReader
	logger *zap.Logger
}

func NewStakingTracker(reader StakingReader, logger *zap.Logger) *StakingTracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StakingTracker{reader: reader, logger: logger}
}

// Snapshot issues the five token views concurrently. A failed read degrades
// its own field to zero and is logged; it never fails the whole snapshot.
func (t *StakingTracker) Snapshot(ctx context.Context, account string) model.StakingPosition {
	position := model.StakingPosition{
		Balance:        big.NewInt(0),
		Staked:         big.NewInt(0),
		PendingRewards: big.NewInt(0),
		VotingPower:    big.NewInt(0),
	}
	if account == "" {
		return position
	}

	ops := []string{"balanceOf", "getStakeInfo", "getPendingRewards", "getFeeDiscount", "votingPower"}
	_, errs := sync.Gather(ctx, len(ops), func(ctx context.Context, i int) (struct{}, error) {
		var err error
		switch i {
		case 0:
			var balance *big.Int
			if balance, err = t.reader.BalanceOf(ctx, account); err == nil {
				position.Balance = balance
			}
		case 1:
			var info ledger.StakeInfo
			if info, err = t.reader.GetStakeInfo(ctx, account); err == nil {
				position.Staked = info.Staked
			}
		case 2:
			var rewards *big.Int
			if rewards, err = t.reader.GetPendingRewards(ctx, account); err == nil {
				position.PendingRewards = rewards
			}
		case 3:
			var discount uint64
			if discount, err = t.reader.GetFeeDiscount(ctx, account); err == nil {
				position.FeeDiscountBps = discount
			}
		case 4:
			var power *big.Int
			if power, err = t.reader.VotingPower(ctx, account); err == nil {
				position.VotingPower = power
			}
		}
		return struct{}{}, err
	})

	for i, err := range errs {
		if err != nil {
			t.logger.Warn("staking view degraded",
				zap.String("op", ops[i]),
				zap.String("account", account),
				zap.Error(err),
			)
		}
	}
	return position
}
