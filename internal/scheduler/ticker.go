package scheduler

import (
	"context"
	"sync"
	"time"
)

// Handle identifies a repeating registration
type Handle uint64

// Ticker runs repeating callbacks on time.Ticker goroutines.
// Cancel never waits for a callback that is already running.
type Ticker struct {
	ctx context.Context

	mu     sync.Mutex
	nextID Handle
	active map[Handle]context.CancelFunc
}

func NewTicker(ctx context.Context) *Ticker {
	return &Ticker{
		ctx:    ctx,
		active: make(map[Handle]context.CancelFunc),
	}
}

func (t *Ticker) ScheduleRepeating(interval time.Duration, fn func()) Handle {
	if interval <= 0 {
		interval = time.Second
	}
	t.mu.Lock()
	t.nextID++
	id := t.nextID
	childCtx, cancel := context.WithCancel(t.ctx)
	t.active[id] = cancel
	t.mu.Unlock()

	go func() {
		timer := time.NewTicker(interval)
		defer timer.Stop()
		defer t.forget(id)

		for {
			select {
			case <-childCtx.Done():
				return
			case <-timer.C:
				// cancellation wins over a tick that fired at the same time
				if childCtx.Err() != nil {
					return
				}
				fn()
			}
		}
	}()

	return id
}

func (t *Ticker) Cancel(h Handle) {
	t.mu.Lock()
	cancel, ok := t.active[h]
	delete(t.active, h)
	t.mu.Unlock()

	if ok {
		cancel()
	}
}

// Active returns the number of live registrations.
func (t *Ticker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.active)
}

func (t *Ticker) forget(h Handle) {
	t.mu.Lock()
	if cancel, ok := t.active[h]; ok {
		cancel()
		delete(t.active, h)
	}
	t.mu.Unlock()
}
