package schedule

import (
	"context"
	"sync"
	"time"
)

const DefaultTickInterval = time.Second

type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

var SystemClock Clock = ClockFunc(time.Now)

// Ticker recomputes one row's countdown on a fixed interval until stopped.
// onTick runs on the ticker's goroutine and must not call Stop or Reset.
type Ticker struct {
	resolver Resolver
	clock    Clock
	interval time.Duration
	onTick   func(Countdown)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// StartTicker emits the first countdown immediately, then once per interval.
func (r Resolver) StartTicker(clock Clock, input CountdownInput, interval time.Duration, onTick func(Countdown)) *Ticker {
	if clock == nil {
		clock = SystemClock
	}

	if interval <= 0 {
		interval = DefaultTickInterval
	}

	ticker := &Ticker{
		resolver: r,
		clock:    clock,
		interval: interval,
		onTick:   onTick,
	}

	ticker.mu.Lock()
	ticker.start(input)
	ticker.mu.Unlock()

	return ticker
}

// Stop cancels the ticker and waits for its goroutine; no callback runs after
// Stop returns. Calling Stop more than once is safe.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stop()
}

// Reset discards the running countdown and starts a fresh one for input.
func (t *Ticker) Reset(input CountdownInput) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stop()
	t.start(input)
}

func (t *Ticker) start(input CountdownInput) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	t.cancel = cancel
	t.done = done

	go t.run(ctx, input, done)
}

func (t *Ticker) stop() {
	if t.cancel == nil {
		return
	}

	t.cancel()
	<-t.done

	t.cancel = nil
	t.done = nil
}

func (t *Ticker) run(ctx context.Context, input CountdownInput, done chan struct{}) {
	defer close(done)

	tick := time.NewTicker(t.interval)
	defer tick.Stop()

	t.emit(ctx, input)

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			t.emit(ctx, input)
		}
	}
}

func (t *Ticker) emit(ctx context.Context, input CountdownInput) {
	if ctx.Err() != nil {
		return
	}

	t.onTick(t.resolver.Countdown(input, t.clock.Now()))
}
