package notifications

import (
	"context"
	"fmt"
	"sync"

	"github.com/diwise/hazard-alerts/internal/pkg/infrastructure/logging"
	"github.com/diwise/hazard-alerts/internal/pkg/infrastructure/metrics"
	"github.com/diwise/hazard-alerts/pkg/types"
	"golang.org/x/sync/errgroup"
)

//go:generate moq -rm -out notifier_mock.go . Notifier
type Notifier interface {
	Notify(ctx context.Context, user types.UserProfile, alert types.Alert) error
	NotifyAll(ctx context.Context, users []types.UserProfile, alert types.Alert) types.DeliveryReport
}

type notifier struct {
	transport Transport
	cfg       Config
}

func NewNotifier(transport Transport, cfg *Config) Notifier {
	return &notifier{
		transport: transport,
		cfg:       cfg.withDefaults(),
	}
}

// Notify sends a single push notification for alert to user. The send is bounded by the
// configured timeout and fails with ErrNotificationDeliveryFailed. It is never retried.
func (n *notifier) Notify(ctx context.Context, user types.UserProfile, alert types.Alert) error {
	ctx, cancel := context.WithTimeout(ctx, n.cfg.Timeout)
	defer cancel()

	result := make(chan error, 1)

	go func() {
		result <- n.transport.Send(ctx, NewMessage(user, alert))
	}()

	select {
	case err := <-result:
		if err != nil {
			metrics.NotificationFailed()
			return fmt.Errorf("%w: %s", types.ErrNotificationDeliveryFailed, err.Error())
		}
	case <-ctx.Done():
		metrics.NotificationFailed()
		return fmt.Errorf("%w: %s", types.ErrNotificationDeliveryFailed, ctx.Err().Error())
	}

	metrics.NotificationSent()

	return nil
}

// NotifyAll notifies every user independently. A failing or slow user never cancels or delays
// delivery to the others beyond the shared concurrency limit. Failures are logged and reported.
func (n *notifier) NotifyAll(ctx context.Context, users []types.UserProfile, alert types.Alert) types.DeliveryReport {
	report := types.DeliveryReport{
		AlertID:    alert.ID,
		Recipients: len(users),
		Failed:     []string{},
	}

	var mu sync.Mutex

	g := errgroup.Group{}
	g.SetLimit(n.cfg.Concurrency)

	for _, u := range users {
		u := u
		g.Go(func() error {
			_, logger := logging.WithFields(ctx, "alert_id", alert.ID, "user_id", u.UserID)

			err := n.Notify(ctx, u, alert)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				logger.Error().Err(err).Msg("failed to notify user")
				report.Failed = append(report.Failed, u.UserID)
				return nil
			}

			report.Delivered++
			return nil
		})
	}

	_ = g.Wait()

	return report
}

// NewMessage builds the push notification shown to the user. The payload carries the alert
// id so the client can open the alert directly.
func NewMessage(user types.UserProfile, alert types.Alert) Message {
	return Message{
		UserID:    user.UserID,
		PushToken: user.PushToken,
		Title:     alert.Title,
		Body:      alert.Body,
		Payload: map[string]string{
			"alertId":       alert.ID,
			"severity":      string(alert.Severity),
			"severityLabel": alert.Severity.Label(),
			"sound":         "alert",
			"priority":      "max",
		},
	}
}
