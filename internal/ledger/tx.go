package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/DecentralDever/unityledger-sync/internal/chain"
	"github.com/DecentralDever/unityledger-sync/internal/wallet"
)

const defaultPollInterval = 2 * time.Second

// TxSender submits signed transactions on behalf of the connected account.
// The wallet host owns keys and signing; the ledger client only builds
// calldata.
type TxSender interface {
	From() string
	SendTransaction(ctx context.Context, to common.Address, data []byte, value *big.Int) (common.Hash, error)
}

// TxHandle is a pending transaction. Confirm blocks until the receipt is
// available and reports reverts with the most specific reason the node
// offers.
type TxHandle struct {
	Hash common.Hash

	op           string
	chain        *chain.Client
	replay       ethereum.CallMsg
	pollInterval time.Duration
	logger       *zap.Logger
}

// Confirm waits for the transaction receipt. A status-0 receipt replays the
// call at the mined block to extract the revert reason.
func (h *TxHandle) Confirm(ctx context.Context) error {
	for {
		receipt, err := h.chain.TransactionReceipt(ctx, h.Hash)
		if err == nil {
			if receipt.Status == 1 {
				h.logger.Info("transaction confirmed",
					zap.String("op", h.op),
					zap.String("tx_hash", h.Hash.Hex()),
					zap.Uint64("block_number", receipt.BlockNumber.Uint64()),
				)
				return nil
			}
			reason := h.revertReason(ctx, receipt.BlockNumber)
			return &TransactionRevertedError{Op: h.op, TxHash: h.Hash.Hex(), Reason: reason}
		}
		if !errors.Is(err, ethereum.NotFound) {
			return fmt.Errorf("fetch receipt for %s: %w", h.op, err)
		}

		timer := time.NewTimer(h.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (h *TxHandle) revertReason(ctx context.Context, blockNumber *big.Int) string {
	_, err := h.chain.CallContract(ctx, h.replay, blockNumber)
	if err == nil {
		return ""
	}
	msg := err.Error()
	if idx := strings.Index(msg, "execution reverted"); idx >= 0 {
		reason := strings.TrimPrefix(msg[idx:], "execution reverted")
		reason = strings.TrimLeft(reason, ": ")
		return reason
	}
	return ""
}

func (c *Client) requireSender() error {
	if c.sender == nil {
		return fmt.Errorf("no transaction sender configured")
	}
	return nil
}

func (c *Client) submit(ctx context.Context, op string, to common.Address, parsed abi.ABI, value *big.Int, method string, args ...any) (*TxHandle, error) {
	if err := c.requireSender(); err != nil {
		return nil, err
	}

	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	txHash, err := c.sender.SendTransaction(ctx, to, data, value)
	if err != nil {
		if errors.Is(err, wallet.ErrUserRejected) {
			return nil, &TransactionRejectedError{Op: op}
		}
		return nil, fmt.Errorf("submit %s: %w", op, err)
	}

	c.logger.Info("transaction submitted",
		zap.String("op", op),
		zap.String("tx_hash", txHash.Hex()),
	)

	from := common.HexToAddress(c.sender.From())
	return &TxHandle{
		Hash:  txHash,
		op:    op,
		chain: c.chain,
		replay: ethereum.CallMsg{
			From:  from,
			To:    &to,
			Data:  data,
			Value: value,
		},
		pollInterval: defaultPollInterval,
		logger:       c.logger,
	}, nil
}

// CreatePoolParams carries the createPool arguments.
type CreatePoolParams struct {
	ContributionWei *big.Int
	CycleDuration   time.Duration
	MaxMembers      uint64
	PoolType        string
	FeeBps          uint64
	Premium         bool
}

// CreatePool submits a pool creation. Premium pools pay a reward-token fee,
// so balance and allowance are checked up front.
func (c *Client) CreatePool(ctx context.Context, params CreatePoolParams) (*TxHandle, error) {
	if err := c.requireSender(); err != nil {
		return nil, err
	}
	if params.ContributionWei == nil || params.ContributionWei.Sign() <= 0 {
		return nil, fmt.Errorf("contribution amount must be positive")
	}
	if params.Premium {
		if err := c.preflightTokenFee(ctx); err != nil {
			return nil, err
		}
	}
	return c.submit(ctx, "createPool", c.ledgerAddr, poolABI, nil, "createPool",
		params.ContributionWei,
		new(big.Int).SetInt64(int64(params.CycleDuration/time.Second)),
		new(big.Int).SetUint64(params.MaxMembers),
		params.PoolType,
		new(big.Int).SetUint64(params.FeeBps),
		params.Premium,
	)
}

// JoinPool submits a join with the pool's contribution attached as value.
// The native balance is checked first so a doomed transaction is never sent.
func (c *Client) JoinPool(ctx context.Context, poolID uint64, contributionWei *big.Int) (*TxHandle, error) {
	if err := c.requireSender(); err != nil {
		return nil, err
	}
	if contributionWei == nil || contributionWei.Sign() <= 0 {
		return nil, fmt.Errorf("contribution amount must be positive")
	}
	balance, err := c.chain.BalanceAt(ctx, common.HexToAddress(c.sender.From()))
	if err != nil {
		return nil, &ReadError{Op: "balanceAt", Err: err}
	}
	if balance.Cmp(contributionWei) < 0 {
		return nil, ErrInsufficientBalance
	}
	return c.submit(ctx, "joinPool", c.ledgerAddr, poolABI, contributionWei, "joinPool", new(big.Int).SetUint64(poolID))
}

// ClaimYield submits a creator yield claim for one pool.
func (c *Client) ClaimYield(ctx context.Context, poolID uint64) (*TxHandle, error) {
	return c.submit(ctx, "claimYield", c.ledgerAddr, poolABI, nil, "claimYield", new(big.Int).SetUint64(poolID))
}

// Approve grants spender an allowance on the reward token.
func (c *Client) Approve(ctx context.Context, spender string, amount *big.Int) (*TxHandle, error) {
	if !common.IsHexAddress(spender) {
		return nil, fmt.Errorf("invalid spender: %s", spender)
	}
	return c.submit(ctx, "approve", c.tokenAddr, tokenABI, nil, "approve", common.HexToAddress(spender), amount)
}

// Stake locks reward tokens. The token balance is checked first.
func (c *Client) Stake(ctx context.Context, amount *big.Int) (*TxHandle, error) {
	if err := c.requireSender(); err != nil {
		return nil, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, fmt.Errorf("stake amount must be positive")
	}
	balance, err := c.BalanceOf(ctx, c.sender.From())
	if err != nil {
		return nil, err
	}
	if balance.Cmp(amount) < 0 {
		return nil, ErrInsufficientBalance
	}
	return c.submit(ctx, "stake", c.tokenAddr, tokenABI, nil, "stake", amount)
}

// Unstake releases staked reward tokens, bounded by the current stake.
func (c *Client) Unstake(ctx context.Context, amount *big.Int) (*TxHandle, error) {
	if err := c.requireSender(); err != nil {
		return nil, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, fmt.Errorf("unstake amount must be positive")
	}
	info, err := c.GetStakeInfo(ctx, c.sender.From())
	if err != nil {
		return nil, err
	}
	if info.Staked.Cmp(amount) < 0 {
		return nil, ErrInsufficientBalance
	}
	return c.submit(ctx, "unstake", c.tokenAddr, tokenABI, nil, "unstake", amount)
}

// ClaimStakingRewards claims accrued staking rewards.
func (c *Client) ClaimStakingRewards(ctx context.Context) (*TxHandle, error) {
	return c.submit(ctx, "claimRewards", c.tokenAddr, tokenABI, nil, "claimRewards")
}

// ClaimFaucetTokens requests a faucet dispensation. Callers re-check the
// authoritative cooldown first; the local countdown is display only.
func (c *Client) ClaimFaucetTokens(ctx context.Context) (*TxHandle, error) {
	if c.faucetAddr == (common.Address{}) {
		return nil, fmt.Errorf("no faucet on network %s", c.network)
	}
	return c.submit(ctx, "claimTokens", c.faucetAddr, faucetABI, nil, "claimTokens")
}

func (c *Client) preflightTokenFee(ctx context.Context) error {
	from := c.sender.From()
	balance, err := c.BalanceOf(ctx, from)
	if err != nil {
		return err
	}
	if balance.Sign() == 0 {
		return ErrInsufficientBalance
	}
	allowance, err := c.Allowance(ctx, from, c.ledgerAddr.Hex())
	if err != nil {
		return err
	}
	if allowance.Sign() == 0 {
		return ErrApprovalRequired
	}
	return nil
}
