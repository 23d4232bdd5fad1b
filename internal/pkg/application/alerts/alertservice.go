package alerts

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/diwise/hazard-alerts/internal/pkg/application/acknowledgments"
	"github.com/diwise/hazard-alerts/internal/pkg/application/geofence"
	"github.com/diwise/hazard-alerts/internal/pkg/application/lifecycle"
	"github.com/diwise/hazard-alerts/internal/pkg/application/notifications"
	"github.com/diwise/hazard-alerts/internal/pkg/application/zones"
	"github.com/diwise/hazard-alerts/internal/pkg/infrastructure/logging"
	"github.com/diwise/hazard-alerts/internal/pkg/infrastructure/metrics"
	"github.com/diwise/hazard-alerts/pkg/types"
	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("hazard-alerts/alerts")

//go:generate moq -rm -out alertservice_mock.go . AlertService
type AlertService interface {
	Dispatch(ctx context.Context, req types.AlertRequest) (types.Alert, types.DeliveryReport, error)
	ListAlerts(ctx context.Context) (types.Collection[types.AlertStatus], error)
	GetAlert(ctx context.Context, alertID, userID string) (types.AlertStatus, error)
	TimeRemaining(ctx context.Context, alertID string, now time.Time) (time.Duration, error)
	IsAcknowledged(ctx context.Context, alertID, userID string) (bool, error)
	Acknowledge(ctx context.Context, alertID, userID string) (types.Acknowledgment, bool, error)
	Watch(ctx context.Context, alertID string) (lifecycle.Countdown, error)

	ReportLocation(ctx context.Context, sample types.LocationSample) error
	Zones(ctx context.Context) ([]types.Polygon, error)
	Zone(ctx context.Context, polygonID string) (types.Polygon, error)
	MyZones(ctx context.Context, userID string) ([]types.Polygon, error)

	RegisterDevice(ctx context.Context, userID, pushToken string) (types.UserProfile, error)
	UpdatePreferences(ctx context.Context, userID string, prefs types.Preferences) (types.UserProfile, error)
}

type Storage interface {
	acknowledgments.LedgerStorage

	AddAlert(ctx context.Context, alert types.Alert) error
	// QueryAlerts returns all alerts ordered by dispatch time, newest first.
	QueryAlerts(ctx context.Context) ([]types.Alert, error)

	GetPolygon(ctx context.Context, polygonID string) (types.Polygon, error)
	QueryPolygons(ctx context.Context) ([]types.Polygon, error)

	GetUser(ctx context.Context, userID string) (types.UserProfile, bool, error)
	SaveUser(ctx context.Context, user types.UserProfile) error
	QueryUsers(ctx context.Context) ([]types.UserProfile, error)
}

type LocationStore interface {
	// StoreLocation keeps sample if it is newer than the stored sample for the same user.
	StoreLocation(ctx context.Context, sample types.LocationSample) (bool, error)
	LatestLocation(ctx context.Context, userID string) (types.LocationSample, bool, error)
	LatestLocations(ctx context.Context, userIDs []string) (map[string]types.LocationSample, error)
}

//go:generate moq -rm -out messenger_mock.go . Messenger
type Messenger interface {
	PublishOnTopic(ctx context.Context, message messaging.TopicMessage) error
}

type alertSvc struct {
	storage   Storage
	locations LocationStore
	ledger    acknowledgments.Ledger
	notifier  notifications.Notifier
	messenger Messenger
	cfg       AlertsConfig
	now       func() time.Time
}

func New(s Storage, l LocationStore, n notifications.Notifier, m Messenger, cfg AlertsConfig) AlertService {
	cfg = cfg.withDefaults()

	return &alertSvc{
		storage:   s,
		locations: l,
		ledger:    acknowledgments.New(s, cfg.StorageTimeout),
		notifier:  n,
		messenger: m,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Dispatch validates and stores a new alert, announces it on the message bus and notifies
// every matching user. Delivery failures are part of the report, they do not fail the dispatch.
// Notifications run on a context detached from ctx. If ctx ends first, Dispatch returns a report
// with only the recipient count and delivery continues in the background.
func (svc *alertSvc) Dispatch(ctx context.Context, req types.AlertRequest) (alert types.Alert, report types.DeliveryReport, err error) {
	ctx, span := tracer.Start(ctx, "dispatch-alert")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	alert, err = svc.newAlert(req)
	if err != nil {
		return types.Alert{}, types.DeliveryReport{}, err
	}

	ctx, logger := logging.WithFields(ctx, "alert_id", alert.ID, "polygon_id", alert.PolygonID)

	var target *types.Polygon

	if !alert.Global() {
		p, err := svc.getPolygon(ctx, alert.PolygonID)
		if err != nil {
			return types.Alert{}, types.DeliveryReport{}, err
		}
		if err = geofence.Validate(p); err != nil {
			return types.Alert{}, types.DeliveryReport{}, fmt.Errorf("target polygon %s: %w", p.ID, err)
		}
		target = &p
	}

	err = svc.withStorageTimeout(ctx, func(ctx context.Context) error {
		return svc.storage.AddAlert(ctx, alert)
	})
	if err != nil {
		return types.Alert{}, types.DeliveryReport{}, err
	}

	metrics.AlertDispatched(string(alert.Severity), alert.Global())
	logger.Info().Str("severity", string(alert.Severity)).Int("ttl", alert.TTLSeconds).Msg("alert dispatched")

	if pubErr := svc.messenger.PublishOnTopic(ctx, &types.AlertDispatched{Alert: alert, Timestamp: alert.DispatchedAt}); pubErr != nil {
		logger.Error().Err(pubErr).Msg("failed to publish dispatched alert")
	}

	recipients, err := svc.recipients(ctx, alert, target)
	if err != nil {
		return alert, types.DeliveryReport{AlertID: alert.ID}, err
	}

	reports := make(chan types.DeliveryReport, 1)

	go func() {
		r := svc.notifier.NotifyAll(detach(ctx), recipients, alert)
		if len(r.Failed) > 0 {
			logger.Warn().Int("failed", len(r.Failed)).Int("recipients", r.Recipients).Msg("some notifications could not be delivered")
		}
		reports <- r
	}()

	select {
	case report = <-reports:
	case <-ctx.Done():
		logger.Warn().Int("recipients", len(recipients)).Msg("dispatcher went away, notifications continue in the background")
		report = types.DeliveryReport{AlertID: alert.ID, Recipients: len(recipients), Failed: []string{}}
	}

	return alert, report, nil
}

// detach returns a context that keeps the logger and span of ctx but is never cancelled by it.
func detach(ctx context.Context) context.Context {
	detached := trace.ContextWithSpanContext(context.Background(), trace.SpanContextFromContext(ctx))
	return logging.NewContextWithLogger(detached, logging.GetFromContext(ctx))
}

func (svc *alertSvc) newAlert(req types.AlertRequest) (types.Alert, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return types.Alert{}, fmt.Errorf("%w: title is required", types.ErrInvalidAlert)
	}

	severity, err := types.ParseSeverity(string(req.Severity))
	if err != nil {
		return types.Alert{}, err
	}

	ttl := svc.cfg.DefaultTTL
	if req.TTLSeconds != nil {
		ttl = *req.TTLSeconds
		if ttl <= 0 {
			return types.Alert{}, fmt.Errorf("%w: ttlSeconds must be positive", types.ErrInvalidAlert)
		}
	}

	return types.Alert{
		ID:           uuid.NewString(),
		Title:        title,
		Body:         req.Body,
		Severity:     severity,
		DispatchedAt: svc.now(),
		TTLSeconds:   ttl,
		PolygonID:    strings.TrimSpace(req.PolygonID),
	}, nil
}

func (svc *alertSvc) recipients(ctx context.Context, alert types.Alert, target *types.Polygon) ([]types.UserProfile, error) {
	var users []types.UserProfile

	err := svc.withStorageTimeout(ctx, func(ctx context.Context) (err error) {
		users, err = svc.storage.QueryUsers(ctx)
		return
	})
	if err != nil {
		return nil, err
	}

	locations := map[string]types.LocationSample{}

	if target != nil {
		ids := lo.FilterMap(users, func(u types.UserProfile, _ int) (string, bool) {
			return u.UserID, u.LocationConsent
		})

		err = svc.withStorageTimeout(ctx, func(ctx context.Context) (err error) {
			locations, err = svc.locations.LatestLocations(ctx, ids)
			return
		})
		if err != nil {
			return nil, err
		}
	}

	return zones.Recipients(ctx, alert, target, users, locations)
}

func (svc *alertSvc) ListAlerts(ctx context.Context) (types.Collection[types.AlertStatus], error) {
	var alerts []types.Alert

	err := svc.withStorageTimeout(ctx, func(ctx context.Context) (err error) {
		alerts, err = svc.storage.QueryAlerts(ctx)
		return
	})
	if err != nil {
		return types.Collection[types.AlertStatus]{}, err
	}

	now := svc.now()
	statuses := lo.Map(alerts, func(a types.Alert, _ int) types.AlertStatus {
		return lifecycle.Status(a, now)
	})

	return types.Collection[types.AlertStatus]{
		Data:  statuses,
		Count: uint64(len(statuses)),
	}, nil
}

// GetAlert returns the alert with its derived lifecycle state. The acknowledgment flag is
// included when userID is set.
func (svc *alertSvc) GetAlert(ctx context.Context, alertID, userID string) (types.AlertStatus, error) {
	alert, err := svc.getAlert(ctx, alertID)
	if err != nil {
		return types.AlertStatus{}, err
	}

	status := lifecycle.Status(alert, svc.now())

	if userID != "" {
		acked, err := svc.ledger.HasAcknowledged(ctx, alertID, userID)
		if err != nil {
			return types.AlertStatus{}, err
		}
		status.Acknowledged = &acked
	}

	return status, nil
}

func (svc *alertSvc) TimeRemaining(ctx context.Context, alertID string, now time.Time) (time.Duration, error) {
	alert, err := svc.getAlert(ctx, alertID)
	if err != nil {
		return 0, err
	}

	return lifecycle.TimeRemaining(alert, now), nil
}

func (svc *alertSvc) IsAcknowledged(ctx context.Context, alertID, userID string) (bool, error) {
	return svc.ledger.HasAcknowledged(ctx, alertID, userID)
}

func (svc *alertSvc) Acknowledge(ctx context.Context, alertID, userID string) (ack types.Acknowledgment, created bool, err error) {
	ctx, span := tracer.Start(ctx, "acknowledge-alert")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	ack, created, err = svc.ledger.Acknowledge(ctx, alertID, userID, svc.now())
	if err != nil {
		return types.Acknowledgment{}, false, err
	}

	if created {
		msg := &types.AlertAcknowledged{
			AlertID:   ack.AlertID,
			UserID:    ack.UserID,
			OnTime:    ack.OnTime,
			Timestamp: ack.AcknowledgedAt,
		}
		if pubErr := svc.messenger.PublishOnTopic(ctx, msg); pubErr != nil {
			logging.GetFromContext(ctx).Error().Err(pubErr).Str("alert_id", alertID).Msg("failed to publish acknowledgment")
		}
	}

	return ack, created, nil
}

// Watch returns a countdown for the alert. The caller owns the countdown and must Stop it.
func (svc *alertSvc) Watch(ctx context.Context, alertID string) (lifecycle.Countdown, error) {
	alert, err := svc.getAlert(ctx, alertID)
	if err != nil {
		return nil, err
	}

	return lifecycle.NewCountdown(alert, svc.cfg.TickInterval, svc.now), nil
}

func (svc *alertSvc) ReportLocation(ctx context.Context, sample types.LocationSample) error {
	if sample.UserID == "" {
		return types.ErrUnauthenticated
	}

	if err := validLocation(sample.Location); err != nil {
		return err
	}

	if sample.ObservedAt.IsZero() {
		sample.ObservedAt = svc.now()
	}

	var stored bool

	err := svc.withStorageTimeout(ctx, func(ctx context.Context) (err error) {
		stored, err = svc.locations.StoreLocation(ctx, sample)
		return
	})
	if err != nil {
		return err
	}

	if !stored {
		logging.GetFromContext(ctx).Debug().Str("user_id", sample.UserID).Msg("ignoring location older than the latest known sample")
	}

	return nil
}

func (svc *alertSvc) Zones(ctx context.Context) ([]types.Polygon, error) {
	var polygons []types.Polygon

	err := svc.withStorageTimeout(ctx, func(ctx context.Context) (err error) {
		polygons, err = svc.storage.QueryPolygons(ctx)
		return
	})

	return polygons, err
}

func (svc *alertSvc) Zone(ctx context.Context, polygonID string) (types.Polygon, error) {
	return svc.getPolygon(ctx, polygonID)
}

// MyZones returns the zones containing the latest reported location of userID.
func (svc *alertSvc) MyZones(ctx context.Context, userID string) ([]types.Polygon, error) {
	if userID == "" {
		return nil, types.ErrUnauthenticated
	}

	var sample types.LocationSample
	var found bool

	err := svc.withStorageTimeout(ctx, func(ctx context.Context) (err error) {
		sample, found, err = svc.locations.LatestLocation(ctx, userID)
		return
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return []types.Polygon{}, nil
	}

	polygons, err := svc.Zones(ctx)
	if err != nil {
		return nil, err
	}

	ids := zones.ResolveMemberships(ctx, sample.Location, polygons)

	return lo.Filter(polygons, func(p types.Polygon, _ int) bool {
		return lo.Contains(ids, p.ID)
	}), nil
}

func (svc *alertSvc) RegisterDevice(ctx context.Context, userID, pushToken string) (types.UserProfile, error) {
	if userID == "" {
		return types.UserProfile{}, types.ErrUnauthenticated
	}
	if strings.TrimSpace(pushToken) == "" {
		return types.UserProfile{}, fmt.Errorf("%w: push token is required", types.ErrInvalidDevice)
	}

	return svc.updateUser(ctx, userID, func(u *types.UserProfile) {
		u.PushToken = strings.TrimSpace(pushToken)
	})
}

func (svc *alertSvc) UpdatePreferences(ctx context.Context, userID string, prefs types.Preferences) (types.UserProfile, error) {
	if userID == "" {
		return types.UserProfile{}, types.ErrUnauthenticated
	}

	return svc.updateUser(ctx, userID, func(u *types.UserProfile) {
		if prefs.PushEnabled != nil {
			u.PushEnabled = *prefs.PushEnabled
		}
		if prefs.LocationConsent != nil {
			u.LocationConsent = *prefs.LocationConsent
		}
	})
}

// updateUser applies change to the stored profile of userID. Unknown users start out with
// push enabled and without location consent.
func (svc *alertSvc) updateUser(ctx context.Context, userID string, change func(*types.UserProfile)) (types.UserProfile, error) {
	var user types.UserProfile

	err := svc.withStorageTimeout(ctx, func(ctx context.Context) error {
		u, found, err := svc.storage.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		if !found {
			u = types.UserProfile{UserID: userID, PushEnabled: true}
		}

		change(&u)
		user = u

		return svc.storage.SaveUser(ctx, u)
	})

	return user, err
}

func (svc *alertSvc) getAlert(ctx context.Context, alertID string) (alert types.Alert, err error) {
	err = svc.withStorageTimeout(ctx, func(ctx context.Context) error {
		alert, err = svc.storage.GetAlert(ctx, alertID)
		return err
	})
	return
}

func (svc *alertSvc) getPolygon(ctx context.Context, polygonID string) (polygon types.Polygon, err error) {
	err = svc.withStorageTimeout(ctx, func(ctx context.Context) error {
		polygon, err = svc.storage.GetPolygon(ctx, polygonID)
		return err
	})
	return
}

// withStorageTimeout bounds a storage call by the configured timeout. A call that exceeds it
// fails with ErrStorageUnavailable.
func (svc *alertSvc) withStorageTimeout(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, svc.cfg.StorageTimeout)
	defer cancel()

	err := fn(ctx)
	if err != nil && errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, types.ErrStorageUnavailable) {
		return fmt.Errorf("%w: %s", types.ErrStorageUnavailable, err.Error())
	}

	return err
}

func validLocation(p types.Point) error {
	if math.IsNaN(p.Latitude) || math.IsNaN(p.Longitude) || math.IsInf(p.Latitude, 0) || math.IsInf(p.Longitude, 0) {
		return fmt.Errorf("%w: coordinates must be finite", types.ErrInvalidLocation)
	}
	if p.Latitude < -90 || p.Latitude > 90 || p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("%w: (%f, %f) is out of range", types.ErrInvalidLocation, p.Latitude, p.Longitude)
	}
	return nil
}
