package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	ChainID         uint64
	RPCURL          string
	Account         string
	AccountState    string
	RefreshInterval time.Duration
	FeedWindow      uint64
	ListenAddr      string
	Out             string
	PgDSN           string
	LogLevel        string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("UNITYLEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("chain-id", uint64(4202))
	v.SetDefault("account-state", "./data/account.json")
	v.SetDefault("refresh-interval", 30*time.Second)
	v.SetDefault("feed-window", uint64(1000))
	v.SetDefault("listen", ":8080")
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		ChainID:         v.GetUint64("chain-id"),
		RPCURL:          v.GetString("rpc"),
		Account:         v.GetString("account"),
		AccountState:    v.GetString("account-state"),
		RefreshInterval: v.GetDuration("refresh-interval"),
		FeedWindow:      v.GetUint64("feed-window"),
		ListenAddr:      v.GetString("listen"),
		Out:             v.GetString("out"),
		PgDSN:           v.GetString("pg-dsn"),
		LogLevel:        v.GetString("log-level"),
	}

	return cfg, nil
}
