package notifications

import (
	"context"
	"errors"
	"fmt"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/diwise/hazard-alerts/internal/pkg/infrastructure/logging"
	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

type Message struct {
	UserID    string            `json:"userId"`
	PushToken string            `json:"pushToken"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Payload   map[string]string `json:"payload"`
}

//go:generate moq -rm -out transport_mock.go . Transport
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

type cloudEventsTransport struct {
	client    cloudevents.Client
	endpoints []string
}

// NewCloudEventsTransport creates a transport that posts each message as a cloud event to every
// push gateway endpoint subscribed to alert notifications.
func NewCloudEventsTransport(cfg *Config) (Transport, error) {
	c, err := cloudevents.NewClientHTTP()
	if err != nil {
		return nil, err
	}

	return &cloudEventsTransport{
		client:    c,
		endpoints: cfg.Endpoints(NotificationType),
	}, nil
}

func (t *cloudEventsTransport) Send(ctx context.Context, msg Message) error {
	if len(t.endpoints) == 0 {
		return fmt.Errorf("no push gateway configured for %s", NotificationType)
	}

	event := cloudevents.NewEvent()
	event.SetID(fmt.Sprintf("%s:%s:%s", msg.Payload["alertId"], msg.UserID, uuid.NewString()))
	event.SetSource("github.com/diwise/hazard-alerts")
	event.SetType(NotificationType)
	event.SetSubject(msg.UserID)

	if err := event.SetData(cloudevents.ApplicationJSON, msg); err != nil {
		return err
	}

	logger := logging.GetFromContext(ctx)

	var err error

	for _, endpoint := range t.endpoints {
		ctxWithTarget := cloudevents.ContextWithTarget(ctx, endpoint)

		result := t.client.Send(ctxWithTarget, event)
		if errors.Is(result, unix.ECONNREFUSED) {
			logger.Error().Err(result).Msgf("push gateway %s refused connection", endpoint)
		}
		if !cloudevents.IsACK(result) {
			err = errors.Join(err, fmt.Errorf("%s: %w", endpoint, result))
		}
	}

	return err
}
