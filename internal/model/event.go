package model

import "math/big"

// EventKind tags an activity event with its source filter.
type EventKind string

const (
	EventJoin   EventKind = "join"
	EventPayout EventKind = "payout"
	EventReward EventKind = "reward"
)

// ActivityEvent is one reconstructed ledger event for the activity feed.
// Immutable once read; ordering key is BlockNumber descending with LogIndex
// as the stable tie break.
type ActivityEvent struct {
	Kind        EventKind `json:"kind"`
	PoolID      uint64    `json:"pool_id"`
	Actor       string    `json:"actor"`
	AmountWei   *big.Int  `json:"amount_wei,omitempty"`
	BlockNumber uint64    `json:"block_number"`
	LogIndex    uint64    `json:"log_index"`
	TxHash      string    `json:"tx_hash"`
	Timestamp   uint64    `json:"timestamp"`
	Age         string    `json:"age"`
}
