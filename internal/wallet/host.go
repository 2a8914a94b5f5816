// Package wallet abstracts the host wallet as an injected capability and
// drives the switch-or-add chain negotiation.
package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/DecentralDever/unityledger-sync/internal/registry"
)

// Sentinel errors reported by Host implementations.
var (
	// ErrUnrecognizedChain is returned by SwitchChain when the wallet does
	// not know the target chain and an add-chain request is required first.
	ErrUnrecognizedChain = errors.New("wallet: unrecognized chain")
	// ErrUserRejected is returned when the user declines a wallet prompt.
	// It is terminal; negotiation is never retried automatically.
	ErrUserRejected = errors.New("wallet: user rejected request")
)

// Unsubscribe detaches a previously registered notification callback.
type Unsubscribe func()

// Host is the capability surface of the injected wallet handle. It replaces
// ambient global wallet state with an explicit dependency carrying its own
// subscribe/unsubscribe lifecycle.
type Host interface {
	// ActiveChain returns the wallet's currently selected chain id.
	ActiveChain(ctx context.Context) (uint64, error)
	// RequestAccounts prompts for (or silently returns) connected accounts.
	RequestAccounts(ctx context.Context) ([]string, error)
	// SwitchChain asks the wallet to select chainID. Returns
	// ErrUnrecognizedChain when the chain must be added first.
	SwitchChain(ctx context.Context, chainID uint64) error
	// AddChain registers a network with the wallet.
	AddChain(ctx context.Context, cfg registry.NetworkConfig) error
	// SubscribeAccountChanged registers a callback for account switches.
	SubscribeAccountChanged(fn func(account string)) Unsubscribe
	// SubscribeChainChanged registers a callback for chain switches.
	SubscribeChainChanged(fn func(chainID uint64)) Unsubscribe
}

// NegotiationError wraps a failure to establish a supported chain context.
type NegotiationError struct {
	ChainID uint64
	Err     error
}

func (e *NegotiationError) Error() string {
	return fmt.Sprintf("chain negotiation failed for chain %d: %v", e.ChainID, e.Err)
}

func (e *NegotiationError) Unwrap() error {
	return e.Err
}
