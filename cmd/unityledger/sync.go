package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DecentralDever/unityledger-sync/internal/chain"
	"github.com/DecentralDever/unityledger-sync/internal/config"
	"github.com/DecentralDever/unityledger-sync/internal/feed"
	"github.com/DecentralDever/unityledger-sync/internal/ledger"
	"github.com/DecentralDever/unityledger-sync/internal/registry"
	"github.com/DecentralDever/unityledger-sync/internal/server"
	"github.com/DecentralDever/unityledger-sync/internal/storage"
	"github.com/DecentralDever/unityledger-sync/internal/storage/postgres"
	unisync "github.com/DecentralDever/unityledger-sync/internal/sync"
	"github.com/DecentralDever/unityledger-sync/internal/track"
	"github.com/DecentralDever/unityledger-sync/internal/wallet"
)

func runSync(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	network := registry.Resolve(cfg.ChainID)
	if network.ChainID != cfg.ChainID {
		logger.Warn("unknown chain id, using default network",
			zap.Uint64("requested", cfg.ChainID),
			zap.Uint64("chain_id", network.ChainID),
		)
	}
	network = registry.WithRPCURL(network, cfg.RPCURL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, network.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	client, err := ledger.NewClient(chainClient, network, nil, logger)
	if err != nil {
		return fmt.Errorf("build ledger client: %w", err)
	}

	syncer := unisync.NewRegistrySync(client, logger)
	refresher := unisync.NewRefresher(syncer, nil, network.ChainID, func() unisync.Ticker {
		return unisync.NewImmediateTicker(cfg.RefreshInterval)
	}, logger)

	accountStore := wallet.NewAccountStore(cfg.AccountState, cfg.AccountState != "")
	account := cfg.Account
	if account == "" {
		if saved, _, ok, err := accountStore.Load(); err != nil {
			logger.Warn("load persisted account failed", zap.Error(err))
		} else if ok {
			account = saved
			logger.Info("restored persisted account", zap.String("account", account))
		}
	}
	if account != "" {
		refresher.SetAccount(account)
		if err := accountStore.Save(account, network.ChainID); err != nil {
			logger.Warn("persist account failed", zap.Error(err))
		}
	}

	var store storage.Storage
	switch {
	case cfg.PgDSN != "":
		pgStore, err := postgres.NewStore(ctx, cfg.PgDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pgStore.Close()
		store = pgStore
	case cfg.Out != "":
		store = storage.NewJsonlStorage(cfg.Out)
	}

	feedBuilder := feed.NewBuilder(client, nil, logger)
	accountViews := &server.AccountViews{
		Resolver: unisync.NewResolver(client, logger),
		Staking:  track.NewStakingTracker(client, logger),
		Faucet:   client,
	}
	api := server.New(server.Config{
		ListenAddr:      cfg.ListenAddr,
		RefreshInterval: cfg.RefreshInterval,
		FeedWindow:      cfg.FeedWindow,
	}, refresher, feedBuilder, store, accountViews, network.ChainID, logger)

	logger.Info("sync daemon start",
		zap.String("network", network.String()),
		zap.String("rpc", network.RPCURL),
		zap.String("listen", cfg.ListenAddr),
		zap.Duration("refresh_interval", cfg.RefreshInterval),
		zap.Uint64("feed_window", cfg.FeedWindow),
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return refresher.Run(egCtx)
	})
	eg.Go(func() error {
		return api.RunBackgroundUpdater(egCtx)
	})
	eg.Go(func() error {
		if err := api.Start(cfg.ListenAddr); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		return api.Shutdown(context.Background())
	})

	if err := eg.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
