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
	"github.com/DecentralDever/unityledger-sync/internal/ledger"
	"github.com/DecentralDever/unityledger-sync/internal/registry"
	unisync "github.com/DecentralDever/unityledger-sync/internal/sync"
)

func runPools(cmd *cobra.Command, _ []string) error {
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

	pools, err := unisync.NewRegistrySync(client, logger).SyncAll(ctx)
	if err != nil {
		return fmt.Errorf("sync pools: %w", err)
	}
	logger.Info("pool sync complete", zap.Int("pools", len(pools)), zap.String("network", network.String()))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(pools)
}
