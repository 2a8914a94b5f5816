// Package server exposes the derived projections over HTTP for presentation
// layers. Platform-wide responses are served from the latest complete
// in-memory snapshot; only the per-account view reads the ledger on demand,
// since eligibility cannot be precomputed for arbitrary accounts.
package server

import (
	"context"
	"net/http"
	stdsync "sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DecentralDever/unityledger-sync/internal/feed"
	"github.com/DecentralDever/unityledger-sync/internal/model"
	"github.com/DecentralDever/unityledger-sync/internal/stats"
	"github.com/DecentralDever/unityledger-sync/internal/storage"
	"github.com/DecentralDever/unityledger-sync/internal/sync"
	"github.com/DecentralDever/unityledger-sync/internal/track"
)

// Config holds the HTTP server settings.
type Config struct {
	ListenAddr      string
	RefreshInterval time.Duration
	FeedWindow      uint64
}

// AccountViews bundles the on-demand per-account readers behind the
// /account endpoint. Any field may be nil to disable that part of the view.
type AccountViews struct {
	Resolver *sync.Resolver
	Staking  *track.StakingTracker
	Faucet   track.FaucetReader
}

// Server serves the view-model projections and keeps them fresh in the
// background.
type Server struct {
	*echo.Echo
	cfg       Config
	refresher *sync.Refresher
	feed      *feed.Builder
	store     storage.Storage
	accounts  *AccountViews
	chainID   uint64
	logger    *zap.Logger

	mu        stdsync.RWMutex
	ready     bool
	snapshot  sync.Snapshot
	platform  model.PlatformStats
	board     model.Leaderboard
	activity  []model.ActivityEvent
	updatedAt time.Time
}

// New builds the server. store and accounts may be nil when persistence or
// the per-account view are disabled.
func New(cfg Config, refresher *sync.Refresher, feedBuilder *feed.Builder, store storage.Storage, accounts *AccountViews, chainID uint64, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		Echo:      e,
		cfg:       cfg,
		refresher: refresher,
		feed:      feedBuilder,
		store:     store,
		accounts:  accounts,
		chainID:   chainID,
		logger:    logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.GET("/status", s.GetStatus)
	s.GET("/pools", s.GetPools)
	s.GET("/stats", s.GetStats)
	s.GET("/leaderboard", s.GetLeaderboard)
	s.GET("/activity", s.GetActivity)
	s.GET("/account/:addr", s.GetAccount)
}

// RunBackgroundUpdater re-derives all projections from the latest sync
// snapshot on the refresh interval.
func (s *Server) RunBackgroundUpdater(ctx context.Context) error {
	ticker := sync.NewImmediateTicker(s.cfg.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C():
			if err := s.updateProjections(ctx); err != nil {
				s.logger.Error("failed to update projections", zap.Error(err))
			}
		}
	}
}

func (s *Server) updateProjections(ctx context.Context) error {
	snapshot, ok := s.refresher.Snapshot()
	if !ok {
		s.logger.Debug("no sync snapshot yet")
		return nil
	}

	var (
		platform model.PlatformStats
		board    model.Leaderboard
		activity []model.ActivityEvent
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		platform = stats.Aggregate(snapshot.Pools)
		return nil
	})
	eg.Go(func() error {
		board = stats.Rank(snapshot.Pools, snapshot.Rosters)
		return nil
	})
	eg.Go(func() error {
		var err error
		activity, err = s.feed.Build(egCtx, s.cfg.FeedWindow)
		return err
	})
	if err := eg.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.platform = platform
	s.board = board
	s.activity = activity
	s.updatedAt = time.Now().UTC()
	s.ready = true
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.PutPools(ctx, s.chainID, snapshot.Pools, snapshot.SyncedAt); err != nil {
			s.logger.Warn("persist pools failed", zap.Error(err))
		}
		if err := s.store.PutStats(ctx, s.chainID, platform, snapshot.SyncedAt); err != nil {
			s.logger.Warn("persist stats failed", zap.Error(err))
		}
	}
	return nil
}

// StatusResponse reports freshness for health checks.
type StatusResponse struct {
	ChainID   uint64    `json:"chain_id"`
	PoolCount int       `json:"pool_count"`
	SyncedAt  time.Time `json:"synced_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Server) GetStatus(c echo.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "no snapshot yet")
	}
	return c.JSON(http.StatusOK, StatusResponse{
		ChainID:   s.chainID,
		PoolCount: len(s.snapshot.Pools),
		SyncedAt:  s.snapshot.SyncedAt,
		UpdatedAt: s.updatedAt,
	})
}

func (s *Server) GetPools(c echo.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "no snapshot yet")
	}
	return c.JSON(http.StatusOK, s.snapshot.Pools)
}

func (s *Server) GetStats(c echo.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "no snapshot yet")
	}
	return c.JSON(http.StatusOK, s.platform)
}

func (s *Server) GetLeaderboard(c echo.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "no snapshot yet")
	}
	return c.JSON(http.StatusOK, s.board)
}

func (s *Server) GetActivity(c echo.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "no snapshot yet")
	}
	return c.JSON(http.StatusOK, s.activity)
}

// PoolEligibility is the per-pool slice of the account view.
type PoolEligibility struct {
	PoolID      uint64                `json:"pool_id"`
	Eligibility model.EligibilityView `json:"eligibility"`
	ActionLabel string                `json:"action_label"`
	Enabled     bool                  `json:"enabled"`
}

// AccountResponse is the on-demand per-account view.
type AccountResponse struct {
	Address string                 `json:"address"`
	Pools   []PoolEligibility      `json:"pools"`
	Staking *model.StakingPosition `json:"staking,omitempty"`
	Faucet  *model.FaucetStatus    `json:"faucet,omitempty"`
}

func (s *Server) GetAccount(c echo.Context) error {
	if s.accounts == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "account views disabled")
	}
	addr := c.Param("addr")
	if !common.IsHexAddress(addr) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid address")
	}

	s.mu.RLock()
	ready := s.ready
	pools := s.snapshot.Pools
	s.mu.RUnlock()
	if !ready {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "no snapshot yet")
	}

	ctx := c.Request().Context()
	response := AccountResponse{Address: addr, Pools: make([]PoolEligibility, 0, len(pools))}

	if s.accounts.Resolver != nil {
		views, _ := sync.Gather(ctx, len(pools), func(ctx context.Context, i int) (model.EligibilityView, error) {
			return s.accounts.Resolver.Resolve(ctx, pools[i].ID, addr), nil
		})
		for i, pool := range pools {
			action := sync.ActionFor(addr, pool, views[i])
			response.Pools = append(response.Pools, PoolEligibility{
				PoolID:      pool.ID,
				Eligibility: views[i],
				ActionLabel: action.Label,
				Enabled:     action.Enabled,
			})
		}
	}

	if s.accounts.Staking != nil {
		position := s.accounts.Staking.Snapshot(ctx, addr)
		response.Staking = &position
	}

	if s.accounts.Faucet != nil {
		if userStats, err := s.accounts.Faucet.GetFaucetUserStats(ctx, addr); err != nil {
			s.logger.Warn("faucet view unavailable", zap.String("account", addr), zap.Error(err))
		} else {
			response.Faucet = &model.FaucetStatus{
				CanClaim:         userStats.CanClaim,
				SecondsUntilNext: userStats.CooldownRemaining,
				TotalClaimed:     userStats.TotalClaimed,
			}
		}
	}

	return c.JSON(http.StatusOK, response)
}
