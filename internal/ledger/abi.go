package ledger

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const poolLedgerABIJSON = `[
  {"inputs": [], "name": "poolCount", "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"internalType": "uint256", "name": "poolId", "type": "uint256"}], "name": "getPoolDetails", "outputs": [
    {"internalType": "uint256", "name": "id", "type": "uint256"},
    {"internalType": "address", "name": "creator", "type": "address"},
    {"internalType": "uint256", "name": "contributionAmount", "type": "uint256"},
    {"internalType": "uint256", "name": "cycleDuration", "type": "uint256"},
    {"internalType": "uint256", "name": "maxMembers", "type": "uint256"},
    {"internalType": "uint256", "name": "totalMembers", "type": "uint256"},
    {"internalType": "uint256", "name": "currentCycle", "type": "uint256"},
    {"internalType": "uint256", "name": "createdAt", "type": "uint256"},
    {"internalType": "uint256", "name": "lastPayoutTime", "type": "uint256"},
    {"internalType": "bool", "name": "isActive", "type": "bool"},
    {"internalType": "bool", "name": "isCompleted", "type": "bool"},
    {"internalType": "string", "name": "poolType", "type": "string"},
    {"internalType": "uint256", "name": "feeBps", "type": "uint256"},
    {"internalType": "uint256", "name": "totalContributions", "type": "uint256"},
    {"internalType": "uint256", "name": "creatorRewards", "type": "uint256"}
  ], "stateMutability": "view", "type": "function"},
  {"inputs": [{"internalType": "uint256", "name": "poolId", "type": "uint256"}], "name": "getPoolMembers", "outputs": [
    {"internalType": "address[]", "name": "wallets", "type": "address[]"},
    {"internalType": "uint256[]", "name": "contributions", "type": "uint256[]"},
    {"internalType": "bool[]", "name": "paidOut", "type": "bool[]"}
  ], "stateMutability": "view", "type": "function"},
  {"inputs": [{"internalType": "uint256", "name": "poolId", "type": "uint256"}, {"internalType": "address", "name": "account", "type": "address"}], "name": "canJoin", "outputs": [{"internalType": "bool", "name": "", "type": "bool"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"internalType": "uint256", "name": "poolId", "type": "uint256"}, {"internalType": "address", "name": "account", "type": "address"}], "name": "canContribute", "outputs": [{"internalType": "bool", "name": "", "type": "bool"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "getPlatformStats", "outputs": [
    {"internalType": "uint256", "name": "totalPools", "type": "uint256"},
    {"internalType": "uint256", "name": "totalMembers", "type": "uint256"},
    {"internalType": "uint256", "name": "totalValueLocked", "type": "uint256"}
  ], "stateMutability": "view", "type": "function"},
  {"inputs": [
    {"internalType": "uint256", "name": "contributionAmount", "type": "uint256"},
    {"internalType": "uint256", "name": "cycleDuration", "type": "uint256"},
    {"internalType": "uint256", "name": "maxMembers", "type": "uint256"},
    {"internalType": "string", "name": "poolType", "type": "string"},
    {"internalType": "uint256", "name": "feeBps", "type": "uint256"},
    {"internalType": "bool", "name": "premium", "type": "bool"}
  ], "name": "createPool", "outputs": [], "stateMutability": "nonpayable", "type": "function"},
  {"inputs": [{"internalType": "uint256", "name": "poolId", "type": "uint256"}], "name": "joinPool", "outputs": [], "stateMutability": "payable", "type": "function"},
  {"inputs": [{"internalType": "uint256", "name": "poolId", "type": "uint256"}], "name": "claimYield", "outputs": [], "stateMutability": "nonpayable", "type": "function"},
  {"anonymous": false, "inputs": [
    {"indexed": true, "internalType": "uint256", "name": "poolId", "type": "uint256"},
    {"indexed": true, "internalType": "address", "name": "member", "type": "address"},
    {"indexed": false, "internalType": "uint256", "name": "position", "type": "uint256"}
  ], "name": "JoinedPool", "type": "event"},
  {"anonymous": false, "inputs": [
    {"indexed": true, "internalType": "uint256", "name": "poolId", "type": "uint256"},
    {"indexed": true, "internalType": "address", "name": "recipient", "type": "address"},
    {"indexed": false, "internalType": "uint256", "name": "amount", "type": "uint256"}
  ], "name": "PayoutSent", "type": "event"},
  {"anonymous": false, "inputs": [
    {"indexed": true, "internalType": "uint256", "name": "poolId", "type": "uint256"},
    {"indexed": true, "internalType": "address", "name": "creator", "type": "address"},
    {"indexed": false, "internalType": "uint256", "name": "amount", "type": "uint256"}
  ], "name": "CreatorRewardEarned", "type": "event"}
]`

const rewardTokenABIJSON = `[
  {"inputs": [{"internalType": "address", "name": "account", "type": "address"}], "name": "balanceOf", "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"internalType": "address", "name": "owner", "type": "address"}, {"internalType": "address", "name": "spender", "type": "address"}], "name": "allowance", "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"internalType": "address", "name": "account", "type": "address"}], "name": "getStakeInfo", "outputs": [
    {"internalType": "uint256", "name": "staked", "type": "uint256"},
    {"internalType": "uint256", "name": "stakedSince", "type": "uint256"}
  ], "stateMutability": "view", "type": "function"},
  {"inputs": [{"internalType": "address", "name": "account", "type": "address"}], "name": "getPendingRewards", "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"internalType": "address", "name": "account", "type": "address"}], "name": "getFeeDiscount", "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"internalType": "address", "name": "account", "type": "address"}], "name": "votingPower", "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"internalType": "address", "name": "spender", "type": "address"}, {"internalType": "uint256", "name": "amount", "type": "uint256"}], "name": "approve", "outputs": [{"internalType": "bool", "name": "", "type": "bool"}], "stateMutability": "nonpayable", "type": "function"},
  {"inputs": [{"internalType": "uint256", "name": "amount", "type": "uint256"}], "name": "stake", "outputs": [], "stateMutability": "nonpayable", "type": "function"},
  {"inputs": [{"internalType": "uint256", "name": "amount", "type": "uint256"}], "name": "unstake", "outputs": [], "stateMutability": "nonpayable", "type": "function"},
  {"inputs": [], "name": "claimRewards", "outputs": [], "stateMutability": "nonpayable", "type": "function"}
]`

const faucetABIJSON = `[
  {"inputs": [{"internalType": "address", "name": "account", "type": "address"}], "name": "getUserStats", "outputs": [
    {"internalType": "uint256", "name": "totalClaimed", "type": "uint256"},
    {"internalType": "uint256", "name": "lastClaimTime", "type": "uint256"},
    {"internalType": "uint256", "name": "cooldownRemaining", "type": "uint256"},
    {"internalType": "bool", "name": "canClaim", "type": "bool"}
  ], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "getFaucetStats", "outputs": [
    {"internalType": "uint256", "name": "totalDispensed", "type": "uint256"},
    {"internalType": "uint256", "name": "uniqueClaimers", "type": "uint256"},
    {"internalType": "uint256", "name": "claimAmount", "type": "uint256"}
  ], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "claimTokens", "outputs": [], "stateMutability": "nonpayable", "type": "function"}
]`

var (
	abiOnce      sync.Once
	abiErr       error
	poolABI      abi.ABI
	tokenABI     abi.ABI
	faucetABI    abi.ABI
	topicJoined  common.Hash
	topicPayout  common.Hash
	topicReward  common.Hash
)

func loadABIs() error {
	abiOnce.Do(func() {
		poolABI, abiErr = abi.JSON(strings.NewReader(poolLedgerABIJSON))
		if abiErr != nil {
			return
		}
		tokenABI, abiErr = abi.JSON(strings.NewReader(rewardTokenABIJSON))
		if abiErr != nil {
			return
		}
		faucetABI, abiErr = abi.JSON(strings.NewReader(faucetABIJSON))
		if abiErr != nil {
			return
		}
		topicJoined = crypto.Keccak256Hash([]byte("JoinedPool(uint256,address,uint256)"))
		topicPayout = crypto.Keccak256Hash([]byte("PayoutSent(uint256,address,uint256)"))
		topicReward = crypto.Keccak256Hash([]byte("CreatorRewardEarned(uint256,address,uint256)"))
	})
	return abiErr
}
