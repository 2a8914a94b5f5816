package feed

import (
	"context"
	"errors"
	stdsync "sync"
	"testing"
	"time"

	"github.com/DecentralDever/unityledger-sync/internal/model"
)

type fakeSource struct {
	latest    uint64
	latestErr error
	events    map[model.EventKind][]model.ActivityEvent
	kindErrs  map[model.EventKind]error
	tsErrs    map[uint64]error

	mu      stdsync.Mutex
	gotFrom uint64
	gotTo   uint64
}

func (f *fakeSource) LatestBlock(context.Context) (uint64, error) {
	return f.latest, f.latestErr
}

func (f *fakeSource) QueryEvents(_ context.Context, kind model.EventKind, fromBlock, toBlock uint64) ([]model.ActivityEvent, error) {
	f.mu.Lock()
	f.gotFrom = fromBlock
	f.gotTo = toBlock
	f.mu.Unlock()
	if err := f.kindErrs[kind]; err != nil {
		return nil, err
	}
	return f.events[kind], nil
}

func (f *fakeSource) BlockTimestamp(_ context.Context, blockNumber uint64) (uint64, error) {
	if err := f.tsErrs[blockNumber]; err != nil {
		return 0, err
	}
	return blockNumber * 10, nil
}

func fixedNow() time.Time {
	return time.Unix(100000, 0).UTC()
}

func TestBuildOrdersAndMerges(t *testing.T) {
	source := &fakeSource{
		latest: 5000,
		events: map[model.EventKind][]model.ActivityEvent{
			model.EventJoin: {
				{Kind: model.EventJoin, BlockNumber: 4800, LogIndex: 2},
				{Kind: model.EventJoin, BlockNumber: 4990, LogIndex: 0},
			},
			model.EventPayout: {
				{Kind: model.EventPayout, BlockNumber: 4800, LogIndex: 7},
			},
			model.EventReward: {
				{Kind: model.EventReward, BlockNumber: 4995, LogIndex: 1},
			},
		},
	}

	events, err := NewBuilder(source, fixedNow, nil).Build(context.Background(), 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.gotFrom != 4000 || source.gotTo != 5000 {
		t.Fatalf("window = [%d, %d], want [4000, 5000]", source.gotFrom, source.gotTo)
	}
	if len(events) != 4 {
		t.Fatalf("events = %d, want 4", len(events))
	}

	wantBlocks := []uint64{4995, 4990, 4800, 4800}
	for i, event := range events {
		if event.BlockNumber != wantBlocks[i] {
			t.Fatalf("events[%d].BlockNumber = %d, want %d", i, event.BlockNumber, wantBlocks[i])
		}
	}
	// Same block: higher log index first.
	if events[2].LogIndex != 7 || events[3].LogIndex != 2 {
		t.Fatalf("tie break wrong: %d then %d", events[2].LogIndex, events[3].LogIndex)
	}
}

func TestBuildCapsAtTen(t *testing.T) {
	joins := make([]model.ActivityEvent, 0, 25)
	for i := 0; i < 25; i++ {
		joins = append(joins, model.ActivityEvent{Kind: model.EventJoin, BlockNumber: uint64(4000 + i)})
	}
	source := &fakeSource{
		latest: 5000,
		events: map[model.EventKind][]model.ActivityEvent{model.EventJoin: joins},
	}

	events, err := NewBuilder(source, fixedNow, nil).Build(context.Background(), 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 10 {
		t.Fatalf("events = %d, want 10", len(events))
	}
	if events[0].BlockNumber != 4024 {
		t.Fatalf("newest first, got block %d", events[0].BlockNumber)
	}
}

func TestBuildOmitsFailedFilter(t *testing.T) {
	source := &fakeSource{
		latest: 5000,
		events: map[model.EventKind][]model.ActivityEvent{
			model.EventJoin: {{Kind: model.EventJoin, BlockNumber: 4500}},
		},
		kindErrs: map[model.EventKind]error{model.EventPayout: errors.New("filter limit")},
	}

	events, err := NewBuilder(source, fixedNow, nil).Build(context.Background(), 1000)
	if err != nil {
		t.Fatalf("a failed filter must not fail the build: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
}

func TestBuildShortChainWindow(t *testing.T) {
	source := &fakeSource{latest: 300}
	if _, err := NewBuilder(source, fixedNow, nil).Build(context.Background(), 1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.gotFrom != 0 {
		t.Fatalf("window start = %d, want 0 on a short chain", source.gotFrom)
	}
}

func TestBuildUnknownAgeOnTimestampFailure(t *testing.T) {
	source := &fakeSource{
		latest: 5000,
		events: map[model.EventKind][]model.ActivityEvent{
			model.EventJoin: {
				{Kind: model.EventJoin, BlockNumber: 4500},
				{Kind: model.EventJoin, BlockNumber: 4400},
			},
		},
		tsErrs: map[uint64]error{4400: errors.New("header fetch failed")},
	}

	events, err := NewBuilder(source, fixedNow, nil).Build(context.Background(), 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("a timestamp failure must not drop the event")
	}
	if events[0].Age == "Unknown" {
		t.Fatalf("healthy event must resolve an age")
	}
	if events[1].Age != "Unknown" {
		t.Fatalf("failed event age = %q, want Unknown", events[1].Age)
	}
}

func TestAgeLabel(t *testing.T) {
	now := time.Unix(1_000_000, 0).UTC()
	cases := []struct {
		name string
		ts   uint64
		want string
	}{
		{"just now", 1_000_000 - 30, "Just now"},
		{"minutes", 1_000_000 - 300, "5m ago"},
		{"hours", 1_000_000 - 7200, "2h ago"},
		{"days", 1_000_000 - 3*86400, "3d ago"},
		{"future clamps", 1_000_000 + 500, "Just now"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AgeLabel(now, tc.ts); got != tc.want {
				t.Fatalf("AgeLabel = %q, want %q", got, tc.want)
			}
		})
	}
}
