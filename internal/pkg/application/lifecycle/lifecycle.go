package lifecycle

import (
	"time"

	"github.com/diwise/hazard-alerts/pkg/types"
)

type State int

const (
	Pending State = iota
	Live
	Expired
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Live:
		return "live"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// StateAt derives the state of an alert from its dispatch window and the observer's clock.
// Nothing is persisted, every observer computes the same answer from the same inputs.
func StateAt(a types.Alert, now time.Time) State {
	if now.Before(a.DispatchedAt) {
		return Pending
	}
	if now.After(a.ExpiresAt()) {
		return Expired
	}
	return Live
}

// IsLive reports whether now is at or before the alert's expiry. An alert with a dispatch
// time in the future is considered live.
func IsLive(a types.Alert, now time.Time) bool {
	return !now.After(a.ExpiresAt())
}

// TimeRemaining returns the time left until expiry, clamped to zero.
func TimeRemaining(a types.Alert, now time.Time) time.Duration {
	remaining := a.ExpiresAt().Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func Status(a types.Alert, now time.Time) types.AlertStatus {
	return types.AlertStatus{
		Alert:         a,
		ExpiresAt:     a.ExpiresAt(),
		State:         StateAt(a, now).String(),
		TimeRemaining: int64(TimeRemaining(a, now).Seconds()),
	}
}
