package ledger

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/DecentralDever/unityledger-sync/internal/model"
)

// QueryEvents returns the raw activity events of one kind in the inclusive
// block range. Timestamps and age labels are left for the feed builder to
// resolve.
func (c *Client) QueryEvents(ctx context.Context, kind model.EventKind, fromBlock, toBlock uint64) ([]model.ActivityEvent, error) {
	if err := loadABIs(); err != nil {
		return nil, &ReadError{Op: "queryEvents", Err: err}
	}

	topic, err := topicFor(kind)
	if err != nil {
		return nil, &ReadError{Op: "queryEvents", Err: err}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.readTimeout)
	defer cancel()

	logs, err := c.chain.FilterLogs(callCtx, fromBlock, toBlock, []common.Address{c.ledgerAddr}, []common.Hash{topic})
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return nil, &TimeoutError{Op: "queryEvents"}
		}
		return nil, &ReadError{Op: "queryEvents", Err: err}
	}

	events := make([]model.ActivityEvent, 0, len(logs))
	for _, entry := range logs {
		event, err := decodeEvent(kind, entry)
		if err != nil {
			c.logger.Warn("skip undecodable event",
				zap.String("kind", string(kind)),
				zap.Uint64("block_number", entry.BlockNumber),
				zap.String("tx_hash", entry.TxHash.Hex()),
				zap.Error(err),
			)
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

func topicFor(kind model.EventKind) (common.Hash, error) {
	switch kind {
	case model.EventJoin:
		return topicJoined, nil
	case model.EventPayout:
		return topicPayout, nil
	case model.EventReward:
		return topicReward, nil
	default:
		return common.Hash{}, fmt.Errorf("unknown event kind %q", kind)
	}
}

func decodeEvent(kind model.EventKind, entry types.Log) (model.ActivityEvent, error) {
	if len(entry.Topics) < 3 {
		return model.ActivityEvent{}, fmt.Errorf("expected 3 topics, got %d", len(entry.Topics))
	}

	poolID := new(big.Int).SetBytes(entry.Topics[1].Bytes())
	actor := common.BytesToAddress(entry.Topics[2].Bytes())

	event := model.ActivityEvent{
		Kind:        kind,
		PoolID:      model.CoerceUint64(poolID),
		Actor:       actor.Hex(),
		BlockNumber: entry.BlockNumber,
		LogIndex:    uint64(entry.Index),
		TxHash:      entry.TxHash.Hex(),
	}

	// Joins carry the roster position in the data word, not an amount.
	if kind != model.EventJoin && len(entry.Data) >= 32 {
		event.AmountWei = new(big.Int).SetBytes(entry.Data[:32])
	}
	return event, nil
}
