// Package registry holds the static table of supported networks and their
// deployed contract addresses. The table is looked up, never mutated at
// runtime.
package registry

import (
	"fmt"
	"sort"
)

// ContractAddresses groups the per-network deployment addresses.
type ContractAddresses struct {
	Ledger string `json:"ledger"`
	Token  string `json:"token"`
	Faucet string `json:"faucet,omitempty"`
}

// NativeCurrency describes the network's gas currency for wallet add-chain
// requests.
type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// NetworkConfig is the static fingerprint of one supported network.
type NetworkConfig struct {
	ChainID           uint64            `json:"chain_id"`
	ChainName         string            `json:"chain_name"`
	RPCURL            string            `json:"rpc_url"`
	NativeCurrency    NativeCurrency    `json:"native_currency"`
	BlockExplorerURLs []string          `json:"block_explorer_urls"`
	Contracts         ContractAddresses `json:"contracts"`
}

const (
	// LiskSepoliaChainID is the default network.
	LiskSepoliaChainID uint64 = 4202
	// BaseSepoliaChainID is the secondary supported network.
	BaseSepoliaChainID uint64 = 84532
)

var networks = map[uint64]NetworkConfig{
	LiskSepoliaChainID: {
		ChainID:   LiskSepoliaChainID,
		ChainName: "Lisk Sepolia Testnet",
		RPCURL:    "https://rpc.sepolia-api.lisk.com",
		NativeCurrency: NativeCurrency{
			Name:     "Sepolia Ether",
			Symbol:   "ETH",
			Decimals: 18,
		},
		BlockExplorerURLs: []string{"https://sepolia-blockscout.lisk.com"},
		Contracts: ContractAddresses{
			Ledger: "0x4c9A0C2D1E7f6bD8A38E5C3F0b7D9821a6E4f053",
			Token:  "0x8F31bC2d77E04eA1C7aD5b8F4E2c9360D1a7bE19",
			Faucet: "0xA2e64D8F1C09b537fF60E3Bd24C18a9247CD5E80",
		},
	},
	BaseSepoliaChainID: {
		ChainID:   BaseSepoliaChainID,
		ChainName: "Base Sepolia",
		RPCURL:    "https://sepolia.base.org",
		NativeCurrency: NativeCurrency{
			Name:     "Sepolia Ether",
			Symbol:   "ETH",
			Decimals: 18,
		},
		BlockExplorerURLs: []string{"https://sepolia.basescan.org"},
		Contracts: ContractAddresses{
			Ledger: "0x17dD20C08235BF4c2E4f03D9b52C3E0B48963f10",
			Token:  "0xC4a81D2F0E93F6b8B15D0E7b3e6A9F24d80C6a52",
			Faucet: "0x6B09E2fD84cAe13F7821A96C05923bE0d4F1E7A3",
		},
	},
}

// Default returns the fallback network used when the active chain is not
// recognized.
func Default() NetworkConfig {
	return networks[LiskSepoliaChainID]
}

// Lookup returns the config for chainID, or ok=false when the chain is not
// supported.
func Lookup(chainID uint64) (NetworkConfig, bool) {
	cfg, ok := networks[chainID]
	return cfg, ok
}

// Resolve returns the config for chainID, falling back to the default
// network when the chain is unknown.
func Resolve(chainID uint64) NetworkConfig {
	if cfg, ok := networks[chainID]; ok {
		return cfg
	}
	return Default()
}

// Supported lists all supported chain ids in ascending order.
func Supported() []uint64 {
	ids := make([]uint64, 0, len(networks))
	for id := range networks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// WithRPCURL returns a copy of cfg with an overridden RPC endpoint. Only the
// endpoint may be overridden through configuration; addresses are fixed.
func WithRPCURL(cfg NetworkConfig, rpcURL string) NetworkConfig {
	if rpcURL == "" {
		return cfg
	}
	out := cfg
	out.RPCURL = rpcURL
	return out
}

// String implements fmt.Stringer for log fields.
func (c NetworkConfig) String() string {
	return fmt.Sprintf("%s(%d)", c.ChainName, c.ChainID)
}
