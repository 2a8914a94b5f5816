// Package feed reconstructs a chronologically ordered, human readable
// activity feed from disjoint ledger event queries.
package feed

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/DecentralDever/unityledger-sync/internal/model"
	"github.com/DecentralDever/unityledger-sync/internal/sync"
)

const (
	// DefaultWindowBlocks trades feed freshness against read volume. Events
	// older than the window are invisible to the feed.
	DefaultWindowBlocks uint64 = 1000
	feedCap                    = 10
)

// EventSource is the ledger surface the feed needs.
type EventSource interface {
	LatestBlock(ctx context.Context) (uint64, error)
	QueryEvents(ctx context.Context, kind model.EventKind, fromBlock, toBlock uint64) ([]model.ActivityEvent, error)
	BlockTimestamp(ctx context.Context, blockNumber uint64) (uint64, error)
}

// Builder assembles the merged, ordered, capped activity feed.
type Builder struct {
	source EventSource
	now    func() time.Time
	logger *zap.Logger
}

// NewBuilder builds a feed builder. now may be nil to use wall-clock time.
func NewBuilder(source EventSource, now func() time.Time, logger *zap.Logger) *Builder {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{source: source, now: now, logger: logger}
}

// Build queries the join, payout, and reward filters over the same trailing
// block window, merges them, orders by block number descending with log
// index as the stable tie break, caps at ten, then resolves each surviving
// event's block timestamp into a relative age label. A timestamp failure
// degrades that single event's label to "Unknown" without discarding it.
func (b *Builder) Build(ctx context.Context, windowBlocks uint64) ([]model.ActivityEvent, error) {
	if windowBlocks == 0 {
		windowBlocks = DefaultWindowBlocks
	}

	latest, err := b.source.LatestBlock(ctx)
	if err != nil {
		return nil, fmt.Errorf("get latest block: %w", err)
	}
	fromBlock := uint64(0)
	if latest > windowBlocks {
		fromBlock = latest - windowBlocks
	}

	kinds := []model.EventKind{model.EventJoin, model.EventPayout, model.EventReward}
	batches, errs := sync.Gather(ctx, len(kinds), func(ctx context.Context, i int) ([]model.ActivityEvent, error) {
		return b.source.QueryEvents(ctx, kinds[i], fromBlock, latest)
	})

	merged := make([]model.ActivityEvent, 0)
	for i, batch := range batches {
		if errs[i] != nil {
			b.logger.Warn("event filter failed, omitting",
				zap.String("kind", string(kinds[i])),
				zap.Error(errs[i]),
			)
			continue
		}
		merged = append(merged, batch...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].BlockNumber != merged[j].BlockNumber {
			return merged[i].BlockNumber > merged[j].BlockNumber
		}
		return merged[i].LogIndex > merged[j].LogIndex
	})
	if len(merged) > feedCap {
		merged = merged[:feedCap]
	}

	b.resolveAges(ctx, merged)
	return merged, nil
}

func (b *Builder) resolveAges(ctx context.Context, events []model.ActivityEvent) {
	timestamps, errs := sync.Gather(ctx, len(events), func(ctx context.Context, i int) (uint64, error) {
		return b.source.BlockTimestamp(ctx, events[i].BlockNumber)
	})
	now := b.now().UTC()
	for i := range events {
		if errs[i] != nil {
			b.logger.Warn("block timestamp unresolved",
				zap.Uint64("block_number", events[i].BlockNumber),
				zap.Error(errs[i]),
			)
			events[i].Age = "Unknown"
			continue
		}
		events[i].Timestamp = timestamps[i]
		events[i].Age = AgeLabel(now, timestamps[i])
	}
}

// AgeLabel renders a unix timestamp as a relative age against now.
func AgeLabel(now time.Time, timestamp uint64) string {
	eventTime := time.Unix(int64(timestamp), 0).UTC()
	elapsed := now.Sub(eventTime)
	if elapsed < 0 {
		elapsed = 0
	}
	switch {
	case elapsed < time.Minute:
		return "Just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(elapsed.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(elapsed.Hours()/24))
	}
}
