// Package track holds the small derived-state trackers: faucet claim
// eligibility and the staking position snapshot.
package track

import (
	"context"
	"fmt"
	"math/big"
	stdsync "sync"

	"go.uber.org/zap"

	"github.com/DecentralDever/unityledger-sync/internal/ledger"
	"github.com/DecentralDever/unityledger-sync/internal/model"
	"github.com/DecentralDever/unityledger-sync/internal/sync"
)

// FaucetReader is the ledger surface the faucet tracker needs.
type FaucetReader interface {
	GetFaucetUserStats(ctx context.Context, account string) (ledger.FaucetUserStats, error)
}

// FaucetTracker tracks claim eligibility for one account. The cooldown is
// seeded from a single ledger read and then decremented locally once per
// tick purely for display smoothness. The local countdown is never trusted
// for authorization; AuthoritativeCanClaim re-reads the ledger before any
// claim write.
type FaucetTracker struct {
	reader FaucetReader
	logger *zap.Logger

	mu           stdsync.Mutex
	account      string
	seeded       bool
	canClaim     bool
	remaining    uint64
	totalClaimed *big.Int
}

// NewFaucetTracker builds a tracker; Seed must run before snapshots are
// meaningful.
func NewFaucetTracker(reader FaucetReader, logger *zap.Logger) *FaucetTracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FaucetTracker{
		reader:       reader,
		logger:       logger,
		totalClaimed: big.NewInt(0),
	}
}

// Seed loads the authoritative cooldown state for account.
func (t *FaucetTracker) Seed(ctx context.Context, account string) error {
	stats, err := t.reader.GetFaucetUserStats(ctx, account)
	if err != nil {
		return fmt.Errorf("seed faucet state: %w", err)
	}

	t.mu.Lock()
	t.account = account
	t.seeded = true
	t.canClaim = stats.CanClaim
	t.remaining = stats.CooldownRemaining
	t.totalClaimed = stats.TotalClaimed
	t.mu.Unlock()

	t.logger.Debug("faucet state seeded",
		zap.String("account", account),
		zap.Uint64("cooldown_remaining", stats.CooldownRemaining),
		zap.Bool("can_claim", stats.CanClaim),
	)
	return nil
}

// Tick advances the local countdown by one second. At zero the tracker
// flips CanClaim for display; authorization still requires a ledger
// re-check.
func (t *FaucetTracker) Tick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.seeded || t.canClaim {
		return
	}
	if t.remaining > 0 {
		t.remaining--
	}
	if t.remaining == 0 {
		t.canClaim = true
	}
}

// Run decrements the countdown on each tick until ctx is done.
func (t *FaucetTracker) Run(ctx context.Context, ticker sync.Ticker) {
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			t.Tick()
		}
	}
}

// Snapshot returns the current derived claim view.
func (t *FaucetTracker) Snapshot() model.FaucetStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return model.FaucetStatus{
		CanClaim:         t.canClaim,
		SecondsUntilNext: t.remaining,
		TotalClaimed:     new(big.Int).Set(t.totalClaimed),
	}
}

// AuthoritativeCanClaim performs the fresh ledger read that gates a claim
// write, and re-seeds the local state from the result.
func (t *FaucetTracker) AuthoritativeCanClaim(ctx context.Context) (bool, error) {
	t.mu.Lock()
	account := t.account
	t.mu.Unlock()
	if account == "" {
		return false, fmt.Errorf("faucet tracker not seeded")
	}
	if err := t.Seed(ctx, account); err != nil {
		return false, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.canClaim, nil
}
