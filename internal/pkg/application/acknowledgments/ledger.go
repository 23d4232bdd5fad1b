package acknowledgments

import (
	"context"
	"fmt"
	"time"

	"github.com/diwise/hazard-alerts/internal/pkg/infrastructure/logging"
	"github.com/diwise/hazard-alerts/internal/pkg/infrastructure/metrics"
	"github.com/diwise/hazard-alerts/pkg/types"
)

//go:generate moq -rm -out ledgerstorage_mock.go . LedgerStorage
type LedgerStorage interface {
	GetAlert(ctx context.Context, alertID string) (types.Alert, error)
	// AddAcknowledgment stores ack unless a record for the same alert and user exists. The
	// stored record is always returned, created reports whether it was written by this call.
	AddAcknowledgment(ctx context.Context, ack types.Acknowledgment) (types.Acknowledgment, bool, error)
	GetAcknowledgment(ctx context.Context, alertID, userID string) (types.Acknowledgment, bool, error)
}

type Ledger interface {
	Acknowledge(ctx context.Context, alertID, userID string, now time.Time) (types.Acknowledgment, bool, error)
	HasAcknowledged(ctx context.Context, alertID, userID string) (bool, error)
	Get(ctx context.Context, alertID, userID string) (types.Acknowledgment, bool, error)
}

type ledger struct {
	storage LedgerStorage
	timeout time.Duration
}

func New(storage LedgerStorage, storageTimeout time.Duration) Ledger {
	return &ledger{
		storage: storage,
		timeout: storageTimeout,
	}
}

// Acknowledge records that userID has acknowledged alertID. The first acknowledgment wins,
// repeated calls return the stored record unchanged with created set to false. The on-time
// flag is computed against the alert's expiry at the moment of recording.
func (l *ledger) Acknowledge(ctx context.Context, alertID, userID string, now time.Time) (types.Acknowledgment, bool, error) {
	if userID == "" {
		return types.Acknowledgment{}, false, types.ErrUnauthenticated
	}

	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	ctx, logger := logging.WithFields(ctx, "alert_id", alertID, "user_id", userID)

	existing, found, err := l.storage.GetAcknowledgment(ctx, alertID, userID)
	if err != nil {
		return types.Acknowledgment{}, false, err
	}
	if found {
		logger.Debug().Msg("alert already acknowledged")
		return existing, false, nil
	}

	alert, err := l.storage.GetAlert(ctx, alertID)
	if err != nil {
		return types.Acknowledgment{}, false, err
	}

	ack := types.Acknowledgment{
		AlertID:        alert.ID,
		UserID:         userID,
		AcknowledgedAt: now.UTC(),
		OnTime:         !now.After(alert.ExpiresAt()),
	}

	stored, created, err := l.storage.AddAcknowledgment(ctx, ack)
	if err != nil {
		return types.Acknowledgment{}, false, fmt.Errorf("could not record acknowledgment: %w", err)
	}

	if created {
		metrics.AcknowledgmentRecorded(stored.OnTime)
		logger.Info().Bool("onTime", stored.OnTime).Msg("acknowledgment recorded")
	}

	return stored, created, nil
}

func (l *ledger) HasAcknowledged(ctx context.Context, alertID, userID string) (bool, error) {
	_, found, err := l.Get(ctx, alertID, userID)
	return found, err
}

// Get returns the acknowledgment for alertID by userID. ErrAlertNotFound is returned when the
// alert itself is unknown.
func (l *ledger) Get(ctx context.Context, alertID, userID string) (types.Acknowledgment, bool, error) {
	if userID == "" {
		return types.Acknowledgment{}, false, types.ErrUnauthenticated
	}

	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	if _, err := l.storage.GetAlert(ctx, alertID); err != nil {
		return types.Acknowledgment{}, false, err
	}

	return l.storage.GetAcknowledgment(ctx, alertID, userID)
}

func (l *ledger) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if l.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, l.timeout)
}
