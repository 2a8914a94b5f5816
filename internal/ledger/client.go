// Package ledger is the thin read/write façade over the deployed UnityLedger
// contracts. Every read is issued independently; fan-out and fan-in belong
// to the aggregation layer.
package ledger

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/DecentralDever/unityledger-sync/internal/chain"
	"github.com/DecentralDever/unityledger-sync/internal/model"
	"github.com/DecentralDever/unityledger-sync/internal/registry"
)

// DefaultReadTimeout bounds every single view call.
const DefaultReadTimeout = 15 * time.Second

// Client exposes the ledger's view and write operations for one network.
type Client struct {
	chain       *chain.Client
	network     registry.NetworkConfig
	ledgerAddr  common.Address
	tokenAddr   common.Address
	faucetAddr  common.Address
	sender      TxSender
	readTimeout time.Duration
	logger      *zap.Logger
}

// NewClient builds a ledger client for the given network. sender may be nil
// for a read-only client; write operations will then fail fast.
func NewClient(chainClient *chain.Client, network registry.NetworkConfig, sender TxSender, logger *zap.Logger) (*Client, error) {
	if chainClient == nil {
		return nil, fmt.Errorf("chain client is nil")
	}
	if err := loadABIs(); err != nil {
		return nil, fmt.Errorf("parse contract abis: %w", err)
	}
	if !common.IsHexAddress(network.Contracts.Ledger) {
		return nil, fmt.Errorf("invalid ledger address: %s", network.Contracts.Ledger)
	}
	if !common.IsHexAddress(network.Contracts.Token) {
		return nil, fmt.Errorf("invalid token address: %s", network.Contracts.Token)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := &Client{
		chain:       chainClient,
		network:     network,
		ledgerAddr:  common.HexToAddress(network.Contracts.Ledger),
		tokenAddr:   common.HexToAddress(network.Contracts.Token),
		sender:      sender,
		readTimeout: DefaultReadTimeout,
		logger:      logger,
	}
	if common.IsHexAddress(network.Contracts.Faucet) {
		client.faucetAddr = common.HexToAddress(network.Contracts.Faucet)
	}
	return client, nil
}

// Network returns the network this client is bound to.
func (c *Client) Network() registry.NetworkConfig {
	return c.network
}

// LatestBlock returns the current chain head number.
func (c *Client) LatestBlock(ctx context.Context) (uint64, error) {
	return c.chain.LatestBlockNumber(ctx)
}

// BlockTimestamp resolves a block number to its unix timestamp.
func (c *Client) BlockTimestamp(ctx context.Context, blockNumber uint64) (uint64, error) {
	return c.chain.BlockTimestamp(ctx, blockNumber)
}

func (c *Client) call(ctx context.Context, to common.Address, parsed abi.ABI, method string, args ...any) ([]any, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, &ReadError{Op: method, Err: fmt.Errorf("pack: %w", err)}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.readTimeout)
	defer cancel()

	msg := ethereum.CallMsg{To: &to, Data: data}
	resp, err := c.chain.CallContract(callCtx, msg, nil)
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return nil, &TimeoutError{Op: method}
		}
		return nil, &ReadError{Op: method, Err: err}
	}

	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, &ReadError{Op: method, Err: fmt.Errorf("unpack: %w", err)}
	}
	return values, nil
}

// GetPoolCount returns the total number of pools ever created.
func (c *Client) GetPoolCount(ctx context.Context) (uint64, error) {
	values, err := c.call(ctx, c.ledgerAddr, poolABI, "poolCount")
	if err != nil {
		return 0, err
	}
	if len(values) != 1 {
		return 0, &ReadError{Op: "poolCount", Err: fmt.Errorf("unexpected return size %d", len(values))}
	}
	return model.CoerceUint64(values[0]), nil
}

// GetPoolDetails returns the raw record for one pool. The result is loosely
// typed on purpose; model.NewPool owns validation and coercion.
func (c *Client) GetPoolDetails(ctx context.Context, poolID uint64) (model.RawPoolRecord, error) {
	values, err := c.call(ctx, c.ledgerAddr, poolABI, "getPoolDetails", new(big.Int).SetUint64(poolID))
	if err != nil {
		return model.RawPoolRecord{}, err
	}
	if len(values) != 15 {
		return model.RawPoolRecord{}, &ReadError{Op: "getPoolDetails", Err: fmt.Errorf("unexpected return size %d", len(values))}
	}

	creator, _ := values[1].(common.Address)
	poolType, _ := values[11].(string)

	return model.RawPoolRecord{
		ID:                 values[0],
		Creator:            creator.Hex(),
		ContributionAmount: values[2],
		CycleDuration:      values[3],
		MaxMembers:         values[4],
		TotalMembers:       values[5],
		CurrentCycle:       values[6],
		CreatedAt:          values[7],
		LastPayoutTime:     values[8],
		IsActive:           values[9] == true,
		IsCompleted:        values[10] == true,
		PoolType:           poolType,
		FeeBps:             values[12],
		TotalContributions: values[13],
		CreatorRewards:     values[14],
	}, nil
}

// GetPoolMembers returns the ordered roster for one pool. Join position is
// the 1-based roster index.
func (c *Client) GetPoolMembers(ctx context.Context, poolID uint64) ([]model.Member, error) {
	values, err := c.call(ctx, c.ledgerAddr, poolABI, "getPoolMembers", new(big.Int).SetUint64(poolID))
	if err != nil {
		return nil, err
	}
	if len(values) != 3 {
		return nil, &ReadError{Op: "getPoolMembers", Err: fmt.Errorf("unexpected return size %d", len(values))}
	}

	wallets, ok := values[0].([]common.Address)
	if !ok {
		return nil, &ReadError{Op: "getPoolMembers", Err: fmt.Errorf("unexpected wallets type %T", values[0])}
	}
	contributions, _ := values[1].([]*big.Int)
	paidOut, _ := values[2].([]bool)

	members := make([]model.Member, 0, len(wallets))
	for i, wallet := range wallets {
		member := model.Member{
			Wallet:           wallet.Hex(),
			JoinPosition:     uint64(i + 1),
			TotalContributed: big.NewInt(0),
		}
		if i < len(contributions) && contributions[i] != nil {
			member.TotalContributed = new(big.Int).Set(contributions[i])
		}
		if i < len(paidOut) {
			member.HasReceivedPayout = paidOut[i]
		}
		members = append(members, member)
	}
	return members, nil
}

// CanJoin asks the ledger whether account may join the pool. The ledger is
// the single source of truth for eligibility.
func (c *Client) CanJoin(ctx context.Context, poolID uint64, account string) (bool, error) {
	return c.boolView(ctx, "canJoin", poolID, account)
}

// CanContribute asks the ledger whether account may contribute this cycle.
func (c *Client) CanContribute(ctx context.Context, poolID uint64, account string) (bool, error) {
	return c.boolView(ctx, "canContribute", poolID, account)
}

func (c *Client) boolView(ctx context.Context, method string, poolID uint64, account string) (bool, error) {
	if !common.IsHexAddress(account) {
		return false, &ReadError{Op: method, Err: fmt.Errorf("invalid account: %s", account)}
	}
	values, err := c.call(ctx, c.ledgerAddr, poolABI, method, new(big.Int).SetUint64(poolID), common.HexToAddress(account))
	if err != nil {
		return false, err
	}
	if len(values) != 1 {
		return false, &ReadError{Op: method, Err: fmt.Errorf("unexpected return size %d", len(values))}
	}
	result, _ := values[0].(bool)
	return result, nil
}

// PlatformTotals is the ledger's own aggregate view, read for cross-checking
// the locally derived stats.
type PlatformTotals struct {
	TotalPools       uint64
	TotalMembers     uint64
	TotalValueLocked *big.Int
}

// GetPlatformStats reads the contract-side platform totals.
func (c *Client) GetPlatformStats(ctx context.Context) (PlatformTotals, error) {
	values, err := c.call(ctx, c.ledgerAddr, poolABI, "getPlatformStats")
	if err != nil {
		return PlatformTotals{}, err
	}
	if len(values) != 3 {
		return PlatformTotals{}, &ReadError{Op: "getPlatformStats", Err: fmt.Errorf("unexpected return size %d", len(values))}
	}
	return PlatformTotals{
		TotalPools:       model.CoerceUint64(values[0]),
		TotalMembers:     model.CoerceUint64(values[1]),
		TotalValueLocked: model.CoerceBigInt(values[2]),
	}, nil
}

// BalanceOf returns the reward token balance of an account.
func (c *Client) BalanceOf(ctx context.Context, account string) (*big.Int, error) {
	return c.bigIntView(ctx, c.tokenAddr, tokenABI, "balanceOf", account)
}

// Allowance returns the reward token allowance from account to the staking
// spender.
func (c *Client) Allowance(ctx context.Context, owner, spender string) (*big.Int, error) {
	if !common.IsHexAddress(owner) || !common.IsHexAddress(spender) {
		return nil, &ReadError{Op: "allowance", Err: fmt.Errorf("invalid address")}
	}
	values, err := c.call(ctx, c.tokenAddr, tokenABI, "allowance", common.HexToAddress(owner), common.HexToAddress(spender))
	if err != nil {
		return nil, err
	}
	return model.CoerceBigInt(values[0]), nil
}

// StakeInfo is the raw staking view for one account.
type StakeInfo struct {
	Staked      *big.Int
	StakedSince uint64
}

// GetStakeInfo returns the current stake of an account.
func (c *Client) GetStakeInfo(ctx context.Context, account string) (StakeInfo, error) {
	if !common.IsHexAddress(account) {
		return StakeInfo{}, &ReadError{Op: "getStakeInfo", Err: fmt.Errorf("invalid account: %s", account)}
	}
	values, err := c.call(ctx, c.tokenAddr, tokenABI, "getStakeInfo", common.HexToAddress(account))
	if err != nil {
		return StakeInfo{}, err
	}
	if len(values) != 2 {
		return StakeInfo{}, &ReadError{Op: "getStakeInfo", Err: fmt.Errorf("unexpected return size %d", len(values))}
	}
	return StakeInfo{
		Staked:      model.CoerceBigInt(values[0]),
		StakedSince: model.CoerceUint64(values[1]),
	}, nil
}

// GetPendingRewards returns unclaimed staking rewards.
func (c *Client) GetPendingRewards(ctx context.Context, account string) (*big.Int, error) {
	return c.bigIntView(ctx, c.tokenAddr, tokenABI, "getPendingRewards", account)
}

// GetFeeDiscount returns the fee discount earned by staking, in basis points.
func (c *Client) GetFeeDiscount(ctx context.Context, account string) (uint64, error) {
	value, err := c.bigIntView(ctx, c.tokenAddr, tokenABI, "getFeeDiscount", account)
	if err != nil {
		return 0, err
	}
	return model.CoerceUint64(value), nil
}

// VotingPower returns the governance weight of an account.
func (c *Client) VotingPower(ctx context.Context, account string) (*big.Int, error) {
	return c.bigIntView(ctx, c.tokenAddr, tokenABI, "votingPower", account)
}

func (c *Client) bigIntView(ctx context.Context, to common.Address, parsed abi.ABI, method, account string) (*big.Int, error) {
	if !common.IsHexAddress(account) {
		return nil, &ReadError{Op: method, Err: fmt.Errorf("invalid account: %s", account)}
	}
	values, err := c.call(ctx, to, parsed, method, common.HexToAddress(account))
	if err != nil {
		return nil, err
	}
	if len(values) != 1 {
		return nil, &ReadError{Op: method, Err: fmt.Errorf("unexpected return size %d", len(values))}
	}
	return model.CoerceBigInt(values[0]), nil
}

// FaucetUserStats is the per-account faucet view.
type FaucetUserStats struct {
	TotalClaimed      *big.Int
	LastClaimTime     uint64
	CooldownRemaining uint64
	CanClaim          bool
}

// GetFaucetUserStats reads the claim state of an account.
func (c *Client) GetFaucetUserStats(ctx context.Context, account string) (FaucetUserStats, error) {
	if c.faucetAddr == (common.Address{}) {
		return FaucetUserStats{}, &ReadError{Op: "getUserStats", Err: fmt.Errorf("no faucet on network %s", c.network)}
	}
	if !common.IsHexAddress(account) {
		return FaucetUserStats{}, &ReadError{Op: "getUserStats", Err: fmt.Errorf("invalid account: %s", account)}
	}
	values, err := c.call(ctx, c.faucetAddr, faucetABI, "getUserStats", common.HexToAddress(account))
	if err != nil {
		return FaucetUserStats{}, err
	}
	if len(values) != 4 {
		return FaucetUserStats{}, &ReadError{Op: "getUserStats", Err: fmt.Errorf("unexpected return size %d", len(values))}
	}
	canClaim, _ := values[3].(bool)
	return FaucetUserStats{
		TotalClaimed:      model.CoerceBigInt(values[0]),
		LastClaimTime:     model.CoerceUint64(values[1]),
		CooldownRemaining: model.CoerceUint64(values[2]),
		CanClaim:          canClaim,
	}, nil
}

// FaucetStats is the platform-wide faucet view.
type FaucetStats struct {
	TotalDispensed *big.Int
	UniqueClaimers uint64
	ClaimAmount    *big.Int
}

// GetFaucetStats reads the faucet's global counters.
func (c *Client) GetFaucetStats(ctx context.Context) (FaucetStats, error) {
	if c.faucetAddr == (common.Address{}) {
		return FaucetStats{}, &ReadError{Op: "getFaucetStats", Err: fmt.Errorf("no faucet on network %s", c.network)}
	}
	values, err := c.call(ctx, c.faucetAddr, faucetABI, "getFaucetStats")
	if err != nil {
		return FaucetStats{}, err
	}
	if len(values) != 3 {
		return FaucetStats{}, &ReadError{Op: "getFaucetStats", Err: fmt.Errorf("unexpected return size %d", len(values))}
	}
	return FaucetStats{
		TotalDispensed: model.CoerceBigInt(values[0]),
		UniqueClaimers: model.CoerceUint64(values[1]),
		ClaimAmount:    model.CoerceBigInt(values[2]),
	}, nil
}
