package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/diwise/hazard-alerts/pkg/types"
	"github.com/matryer/is"
)

var dispatched = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestStateTransitions(t *testing.T) {
	is := is.New(t)
	a := alert(90)

	is.Equal(Pending, StateAt(a, dispatched.Add(-time.Second)))
	is.Equal(Live, StateAt(a, dispatched))
	is.Equal(Live, StateAt(a, dispatched.Add(90*time.Second)))
	is.Equal(Expired, StateAt(a, dispatched.Add(90*time.Second+time.Nanosecond)))
}

func TestIsLiveIsInclusiveOfExpiry(t *testing.T) {
	is := is.New(t)
	a := alert(300)

	is.True(IsLive(a, dispatched.Add(300*time.Second)))
	is.True(!IsLive(a, dispatched.Add(301*time.Second)))
}

func TestIsLiveIsMonotonic(t *testing.T) {
	is := is.New(t)
	a := alert(60)

	expired := false
	for s := 0; s < 180; s++ {
		live := IsLive(a, dispatched.Add(time.Duration(s)*time.Second))
		if expired {
			is.True(!live) // once expired an alert never becomes live again
		}
		if !live {
			expired = true
		}
	}
	is.True(expired)
}

func TestTimeRemainingIsClampedToZero(t *testing.T) {
	is := is.New(t)
	a := alert(90)

	is.Equal(90*time.Second, TimeRemaining(a, dispatched))
	is.Equal(30*time.Second, TimeRemaining(a, dispatched.Add(60*time.Second)))
	is.Equal(time.Duration(0), TimeRemaining(a, dispatched.Add(10*time.Minute)))
}

func TestStatus(t *testing.T) {
	is := is.New(t)
	a := alert(90)

	s := Status(a, dispatched.Add(30*time.Second))
	is.Equal("live", s.State)
	is.Equal(int64(60), s.TimeRemaining)
	is.Equal(dispatched.Add(90*time.Second), s.ExpiresAt)
}

func TestCountdownTerminatesWhenExpired(t *testing.T) {
	is := is.New(t)

	clock := newFakeClock(dispatched)
	cd := NewCountdown(alert(3), time.Millisecond, clock.Next)

	var ticks []Tick
	for tick := range cd.Start(context.Background()) {
		ticks = append(ticks, tick)
	}

	is.Equal(5, len(ticks)) // t+0, t+1, t+2, t+3 live and t+4 expired
	is.Equal(Expired, ticks[len(ticks)-1].State)
	is.Equal(time.Duration(0), ticks[len(ticks)-1].Remaining)
	is.Equal(2*time.Second, ticks[1].Remaining)

	cd.Stop()
}

func TestCountdownStopReleasesTask(t *testing.T) {
	is := is.New(t)

	cd := NewCountdown(alert(3600), time.Millisecond, nil)
	ticks := cd.Start(context.Background())

	<-ticks
	cd.Stop()

	_, open := <-ticks
	for open {
		_, open = <-ticks
	}
	is.True(!open)
}

func TestCountdownStopsWhenContextIsCancelled(t *testing.T) {
	is := is.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	cd := NewCountdown(alert(3600), time.Millisecond, nil)
	ticks := cd.Start(ctx)

	<-ticks
	cancel()

	closed := make(chan struct{})
	go func() {
		for range ticks {
		}
		close(closed)
	}()

	select {
	case <-closed:
	case <-time.After(time.Second):
		is.Fail() // countdown did not stop after cancellation
	}
}

type fakeClock struct {
	t time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{t: start.Add(-time.Second)}
}

// Next advances the clock one second per call.
func (c *fakeClock) Next() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func alert(ttl int) types.Alert {
	return types.Alert{
		ID:           "alert-1",
		Title:        "Flash Flood Warning",
		Severity:     types.SeverityWarning,
		DispatchedAt: dispatched,
		TTLSeconds:   ttl,
	}
}
