package sync

import (
	"context"
	stdsync "sync"
	"time"

	"go.uber.org/zap"

	"github.com/DecentralDever/unityledger-sync/internal/model"
	"github.com/DecentralDever/unityledger-sync/internal/wallet"
)

// Snapshot is one complete, immutable sync result. Consumers only ever read
// the latest whole snapshot, so no fine-grained locking is needed anywhere
// downstream.
type Snapshot struct {
	Account  string                   `json:"account,omitempty"`
	ChainID  uint64                   `json:"chain_id"`
	Pools    []model.Pool             `json:"pools"`
	Rosters  map[uint64][]model.Member `json:"rosters"`
	SyncedAt time.Time                `json:"synced_at"`
}

// Refresher owns the re-sync triggers: startup, account change, chain
// change, and a fixed interval. A sync in flight when a trigger fires is not
// cancelled; its result is simply superseded (last write wins), which is
// safe because every sync is a full, self-contained, read-only snapshot.
type Refresher struct {
	syncer    *RegistrySync
	host      wallet.Host
	chainID   uint64
	newTicker func() Ticker
	logger    *zap.Logger

	trigger chan string

	mu       stdsync.RWMutex
	account  string
	snapshot Snapshot
	ready    bool
}

// NewRefresher wires the refresh loop. host may be nil for a headless
// read-only daemon; tickerFactory may be nil to use the default interval.
func NewRefresher(syncer *RegistrySync, host wallet.Host, chainID uint64, tickerFactory func() Ticker, logger *zap.Logger) *Refresher {
	if tickerFactory == nil {
		tickerFactory = func() Ticker { return NewImmediateTicker(DefaultRefreshInterval) }
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Refresher{
		syncer:    syncer,
		host:      host,
		chainID:   chainID,
		newTicker: tickerFactory,
		logger:    logger,
		trigger:   make(chan string, 4),
	}
}

// SetAccount records the connected account and forces a re-sync.
func (r *Refresher) SetAccount(account string) {
	r.mu.Lock()
	r.account = account
	r.mu.Unlock()
	r.requestSync("account-change")
}

// Account returns the currently tracked account.
func (r *Refresher) Account() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.account
}

// Snapshot returns the latest complete sync result; ok is false until the
// first sync lands.
func (r *Refresher) Snapshot() (Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot, r.ready
}

func (r *Refresher) requestSync(reason string) {
	select {
	case r.trigger <- reason:
	default:
		// A trigger is already pending; the next sync is a full snapshot
		// anyway.
	}
}

// Run drives the refresh loop until ctx is done. Wallet subscriptions are
// detached on exit.
func (r *Refresher) Run(ctx context.Context) error {
	if r.host != nil {
		offAccount := r.host.SubscribeAccountChanged(func(account string) {
			r.logger.Info("account changed", zap.String("account", account))
			r.SetAccount(account)
		})
		defer offAccount()

		offChain := r.host.SubscribeChainChanged(func(chainID uint64) {
			r.logger.Info("chain changed", zap.Uint64("chain_id", chainID))
			r.requestSync("chain-change")
		})
		defer offChain()
	}

	ticker := r.newTicker()
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C():
			r.runSync(ctx, "interval")
		case reason := <-r.trigger:
			r.runSync(ctx, reason)
		}
	}
}

func (r *Refresher) runSync(ctx context.Context, reason string) {
	started := time.Now()
	pools, err := r.syncer.SyncAll(ctx)
	if err != nil {
		r.logger.Error("sync failed", zap.String("reason", reason), zap.Error(err))
		return
	}
	rosters := r.syncer.SyncRosters(ctx, pools)

	r.mu.Lock()
	r.snapshot = Snapshot{
		Account:  r.account,
		ChainID:  r.chainID,
		Pools:    pools,
		Rosters:  rosters,
		SyncedAt: time.Now().UTC(),
	}
	r.ready = true
	r.mu.Unlock()

	r.logger.Info("sync complete",
		zap.String("reason", reason),
		zap.Int("pools", len(pools)),
		zap.Duration("elapsed", time.Since(started)),
	)
}
