package sync

import "time"

// Ticker is the scheduler abstraction behind periodic re-sync, so tests can
// drive virtual time instead of waiting on real timers.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// immediateTicker ticks once right away, then on the regular interval.
type immediateTicker struct {
	ch     chan time.Time
	ticker *time.Ticker
	stop   chan struct{}
}

// NewImmediateTicker returns a Ticker whose first tick fires immediately.
// The initial sync should not wait a full interval.
func NewImmediateTicker(interval time.Duration) Ticker {
	t := &immediateTicker{
		ch:     make(chan time.Time, 1),
		ticker: time.NewTicker(interval),
		stop:   make(chan struct{}),
	}
	t.ch <- time.Now()
	go func() {
		for {
			select {
			case <-t.stop:
				return
			case tick := <-t.ticker.C:
				select {
				case t.ch <- tick:
				default:
				}
			}
		}
	}()
	return t
}

func (t *immediateTicker) C() <-chan time.Time {
	return t.ch
}

func (t *immediateTicker) Stop() {
	t.ticker.Stop()
	close(t.stop)
}
