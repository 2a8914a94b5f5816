package wallet

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/DecentralDever/unityledger-sync/internal/registry"
)

// Negotiator detects the wallet's active chain and drives the switch-or-add
// flow when the user is on an unsupported network.
type Negotiator struct {
	host   Host
	logger *zap.Logger
}

// NewNegotiator builds a Negotiator around the injected wallet host.
func NewNegotiator(host Host, logger *zap.Logger) *Negotiator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Negotiator{host: host, logger: logger}
}

// DetectChain resolves the active chain to a supported network config. An
// unknown chain id degrades to the default network instead of failing.
func (n *Negotiator) DetectChain(ctx context.Context) (registry.NetworkConfig, error) {
	chainID, err := n.host.ActiveChain(ctx)
	if err != nil {
		return registry.NetworkConfig{}, fmt.Errorf("read active chain: %w", err)
	}

	cfg, ok := registry.Lookup(chainID)
	if !ok {
		cfg = registry.Default()
		n.logger.Warn("unknown chain, falling back to default network",
			zap.Uint64("chain_id", chainID),
			zap.Uint64("fallback_chain_id", cfg.ChainID),
		)
	}
	return cfg, nil
}

// EnsureChain brings the wallet onto the target network. A chain already
// matching the target succeeds immediately. Otherwise a switch is requested;
// if the wallet does not recognize the chain the full config is added and
// the switch retried. User rejection at any step is terminal.
func (n *Negotiator) EnsureChain(ctx context.Context, target registry.NetworkConfig) error {
	active, err := n.host.ActiveChain(ctx)
	if err != nil {
		return &NegotiationError{ChainID: target.ChainID, Err: fmt.Errorf("read active chain: %w", err)}
	}
	if active == target.ChainID {
		return nil
	}

	err = n.host.SwitchChain(ctx, target.ChainID)
	if err == nil {
		n.logger.Info("switched chain", zap.Uint64("chain_id", target.ChainID))
		return nil
	}
	if errors.Is(err, ErrUserRejected) {
		return &NegotiationError{ChainID: target.ChainID, Err: err}
	}
	if !errors.Is(err, ErrUnrecognizedChain) {
		return &NegotiationError{ChainID: target.ChainID, Err: fmt.Errorf("switch chain: %w", err)}
	}

	n.logger.Info("chain not registered with wallet, adding",
		zap.Uint64("chain_id", target.ChainID),
		zap.String("chain_name", target.ChainName),
	)
	if err := n.host.AddChain(ctx, target); err != nil {
		return &NegotiationError{ChainID: target.ChainID, Err: fmt.Errorf("add chain: %w", err)}
	}
	if err := n.host.SwitchChain(ctx, target.ChainID); err != nil {
		return &NegotiationError{ChainID: target.ChainID, Err: fmt.Errorf("switch after add: %w", err)}
	}

	n.logger.Info("switched chain after add", zap.Uint64("chain_id", target.ChainID))
	return nil
}
