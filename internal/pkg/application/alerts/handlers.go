package alerts

import (
	"context"
	"encoding/json"
	"time"

	"github.com/diwise/hazard-alerts/internal/pkg/infrastructure/logging"
	"github.com/diwise/hazard-alerts/pkg/types"
	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// NewLocationReportedHandler stores locations that devices report through the message bus.
func NewLocationReportedHandler(svc AlertService) messaging.TopicMessageHandler {
	return func(ctx context.Context, msg amqp.Delivery, logger zerolog.Logger) {
		var err error

		ctx, span := tracer.Start(ctx, "location-reported")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		reported := types.LocationReported{}

		err = json.Unmarshal(msg.Body, &reported)
		if err != nil {
			logger.Error().Err(err).Msgf("failed to unmarshal message from %s", msg.RoutingKey)
			return
		}

		logger = logger.With().Str("user_id", reported.UserID).Logger()
		ctx = logging.NewContextWithLogger(ctx, logger)

		observedAt := reported.ObservedAt
		if observedAt.IsZero() {
			logger.Warn().Msg("location message contains no timestamp")
			observedAt = time.Now().UTC()
		}

		err = svc.ReportLocation(ctx, types.LocationSample{
			UserID: reported.UserID,
			Location: types.Point{
				Latitude:  reported.Latitude,
				Longitude: reported.Longitude,
			},
			ObservedAt: observedAt,
		})
		if err != nil {
			logger.Error().Err(err).Msg("could not store reported location")
			return
		}

		logger.Debug().Msgf("%s handled", msg.RoutingKey)
	}
}
