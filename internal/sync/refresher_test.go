package sync

import (
	"context"
	"testing"
	"time"
)

// manualTicker lets tests drive sync ticks explicitly.
type manualTicker struct {
	ch chan time.Time
}

func newManualTicker() *manualTicker {
	return &manualTicker{ch: make(chan time.Time)}
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }
func (t *manualTicker) Stop()               {}

func (t *manualTicker) tick() { t.ch <- time.Now() }

func waitForSnapshot(t *testing.T, r *Refresher) Snapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if snapshot, ok := r.Snapshot(); ok {
			return snapshot
		}
		select {
		case <-deadline:
			t.Fatal("no snapshot before deadline")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestRefresherSnapshotNotReadyBeforeFirstSync(t *testing.T) {
	r := NewRefresher(NewRegistrySync(&fakeReader{count: 1}, nil), nil, 4202, nil, nil)
	if _, ok := r.Snapshot(); ok {
		t.Fatalf("snapshot must not be ready before the first sync")
	}
}

func TestRefresherTickProducesSnapshot(t *testing.T) {
	ticker := newManualTicker()
	r := NewRefresher(
		NewRegistrySync(&fakeReader{count: 3}, nil),
		nil, 4202,
		func() Ticker { return ticker },
		nil,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	ticker.tick()
	snapshot := waitForSnapshot(t, r)
	if len(snapshot.Pools) != 3 {
		t.Fatalf("pools = %d, want 3", len(snapshot.Pools))
	}
	if snapshot.ChainID != 4202 {
		t.Fatalf("chain id = %d", snapshot.ChainID)
	}
	if snapshot.SyncedAt.IsZero() {
		t.Fatalf("synced at must be stamped")
	}
}

func TestRefresherAccountChangeTriggersSync(t *testing.T) {
	ticker := newManualTicker()
	r := NewRefresher(
		NewRegistrySync(&fakeReader{count: 1}, nil),
		nil, 4202,
		func() Ticker { return ticker },
		nil,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	r.SetAccount("0x1111111111111111111111111111111111111111")
	snapshot := waitForSnapshot(t, r)
	if snapshot.Account != "0x1111111111111111111111111111111111111111" {
		t.Fatalf("snapshot account = %q", snapshot.Account)
	}
}
