package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DecentralDever/unityledger-sync/internal/chain"
	"github.com/DecentralDever/unityledger-sync/internal/config"
	"github.com/DecentralDever/unityledger-sync/internal/feed"
	"github.com/DecentralDever/unityledger-sync/internal/ledger"
	"github.com/DecentralDever/unityledger-sync/internal/registry"
)

func runFeed(cmd *cobra.Command, _ []string) error {
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

	network := registry.WithRPCURL(registry.Resolve(cfg.ChainID), cfg.RPCURL)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	chainClient, err := chain.NewClient(ctx, network.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	client, err := ledger.NewClient(chainClient, network, nil, logger)
	if err != nil {
		return fmt.Errorf("build ledger client: %w", err)
	}

	events, err := feed.NewBuilder(client, nil, logger).Build(ctx, cfg.FeedWindow)
	if err != nil {
		return fmt.Errorf("build feed: %w", err)
	}
	logger.Info("feed built", zap.Int("events", len(events)), zap.String("network", network.String()))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(events)
}
