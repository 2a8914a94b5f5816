package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "unityledger",
		Short:        "UnityLedger state sync and view-model service",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Run the sync daemon with the HTTP API",
		RunE:  runSync,
	}
	addCommonFlags(syncCmd)
	syncCmd.Flags().Duration("refresh-interval", 30*time.Second, "re-sync interval")
	syncCmd.Flags().Uint64("feed-window", 1000, "activity feed window in blocks")
	syncCmd.Flags().String("listen", ":8080", "HTTP listen address")
	syncCmd.Flags().String("out", "", "optional JSONL snapshot output path")
	syncCmd.Flags().String("pg-dsn", "", "optional Postgres DSN for snapshot history")
	syncCmd.Flags().String("account", "", "account address for eligibility views")
	syncCmd.Flags().String("account-state", "./data/account.json", "persisted account state path")
	root.AddCommand(syncCmd)

	poolsCmd := &cobra.Command{
		Use:   "pools",
		Short: "Sync the pool set once and print it as JSON",
		RunE:  runPools,
	}
	addCommonFlags(poolsCmd)
	root.AddCommand(poolsCmd)

	feedCmd := &cobra.Command{
		Use:   "feed",
		Short: "Build the activity feed once and print it as JSON",
		RunE:  runFeed,
	}
	addCommonFlags(feedCmd)
	feedCmd.Flags().Uint64("feed-window", 1000, "activity feed window in blocks")
	root.AddCommand(feedCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64("chain-id", 4202, "target chain id (unknown ids fall back to the default network)")
	cmd.Flags().String("rpc", "", "RPC URL override")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
