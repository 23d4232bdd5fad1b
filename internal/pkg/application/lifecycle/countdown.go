package lifecycle

import (
	"context"
	"sync"
	"time"

	"github.com/diwise/hazard-alerts/pkg/types"
)

type Tick struct {
	At        time.Time     `json:"at"`
	State     State         `json:"-"`
	Remaining time.Duration `json:"-"`
}

type Countdown interface {
	Start(ctx context.Context) <-chan Tick
	Stop()
}

type countdown struct {
	alert    types.Alert
	interval time.Duration
	now      func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewCountdown creates a periodic task that recomputes the remaining time of an alert every
// interval. The task emits a tick immediately, then once per interval, and terminates by itself
// after emitting the tick that observes the alert as expired.
func NewCountdown(alert types.Alert, interval time.Duration, now func() time.Time) Countdown {
	if interval <= 0 {
		interval = time.Second
	}
	if now == nil {
		now = time.Now
	}

	return &countdown{
		alert:    alert,
		interval: interval,
		now:      now,
	}
}

// Start launches the countdown. The returned channel is closed when the alert expires, when
// ctx is cancelled or when Stop is called. Start may only be called once.
func (c *countdown) Start(ctx context.Context) <-chan Tick {
	c.mu.Lock()
	defer c.mu.Unlock()

	ticks := make(chan Tick)

	if c.done != nil {
		close(ticks)
		return ticks
	}

	ctx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})

	go c.run(ctx, ticks)

	return ticks
}

// Stop cancels the countdown and waits for its goroutine to exit.
func (c *countdown) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done
}

func (c *countdown) run(ctx context.Context, ticks chan<- Tick) {
	defer close(c.done)
	defer close(ticks)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		now := c.now()
		tick := Tick{
			At:        now,
			State:     StateAt(c.alert, now),
			Remaining: TimeRemaining(c.alert, now),
		}

		select {
		case ticks <- tick:
		case <-ctx.Done():
			return
		}

		if tick.State == Expired {
			return
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}
