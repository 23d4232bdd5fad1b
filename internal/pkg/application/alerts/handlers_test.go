package alerts

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/diwise/hazard-alerts/pkg/types"
	"github.com/matryer/is"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

func TestLocationReportedHandlerStoresLocation(t *testing.T) {
	is := is.New(t)

	svc := &AlertServiceMock{
		ReportLocationFunc: func(ctx context.Context, sample types.LocationSample) error {
			return nil
		},
	}

	handler := NewLocationReportedHandler(svc)
	handler(context.Background(), delivery(types.LocationReported{
		UserID:     "user-1",
		Latitude:   5.5496,
		Longitude:  -0.2057,
		ObservedAt: T,
	}), zerolog.Nop())

	is.Equal(1, len(svc.ReportLocationCalls()))

	sample := svc.ReportLocationCalls()[0].Sample
	is.Equal("user-1", sample.UserID)
	is.Equal(5.5496, sample.Location.Latitude)
	is.Equal(T, sample.ObservedAt)
}

func TestLocationReportedHandlerIgnoresBrokenMessages(t *testing.T) {
	is := is.New(t)

	svc := &AlertServiceMock{
		ReportLocationFunc: func(ctx context.Context, sample types.LocationSample) error {
			return errors.New("should not be called")
		},
	}

	handler := NewLocationReportedHandler(svc)
	handler(context.Background(), amqp.Delivery{Body: []byte("{not json"), RoutingKey: "device.locationReported"}, zerolog.Nop())

	is.Equal(0, len(svc.ReportLocationCalls()))
}

func TestLocationReportedHandlerDefaultsTimestamp(t *testing.T) {
	is := is.New(t)

	svc := &AlertServiceMock{
		ReportLocationFunc: func(ctx context.Context, sample types.LocationSample) error {
			return nil
		},
	}

	before := time.Now().UTC()
	NewLocationReportedHandler(svc)(context.Background(), delivery(types.LocationReported{UserID: "user-1", Latitude: 1, Longitude: 1}), zerolog.Nop())

	is.True(!svc.ReportLocationCalls()[0].Sample.ObservedAt.Before(before))
}

func delivery(v any) amqp.Delivery {
	b, _ := json.Marshal(v)
	return amqp.Delivery{Body: b, RoutingKey: "device.locationReported"}
}
