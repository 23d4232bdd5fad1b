package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/diwise/hazard-alerts/internal/pkg/application/alerts"
	"github.com/diwise/hazard-alerts/internal/pkg/application/lifecycle"
	"github.com/diwise/hazard-alerts/internal/pkg/infrastructure/logging"
	"github.com/diwise/hazard-alerts/internal/pkg/presentation/api/auth"
	"github.com/diwise/hazard-alerts/pkg/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("hazard-alerts/api")

func RegisterHandlers(ctx context.Context, router *chi.Mux, policies io.Reader, svc alerts.AlertService) (*chi.Mux, error) {
	log := logging.GetFromContext(ctx)

	authenticator, err := auth.NewAuthenticator(ctx, log, policies)
	if err != nil {
		return nil, fmt.Errorf("failed to create api authenticator: %w", err)
	}

	router.Route("/api/v0", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authenticator)

			r.Route("/alerts", func(r chi.Router) {
				r.Get("/", listAlertsHandler(log, svc))
				r.With(auth.RequireRole(auth.RoleOperator)).Post("/", dispatchAlertHandler(log, svc))
				r.Get("/{alertID}", getAlertHandler(log, svc))
				r.Get("/{alertID}/countdown", countdownHandler(log, svc))
				r.Get("/{alertID}/ack", getAcknowledgmentHandler(log, svc))
				r.Post("/{alertID}/ack", acknowledgeHandler(log, svc))
			})

			r.Route("/zones", func(r chi.Router) {
				r.Get("/", listZonesHandler(log, svc))
				r.Get("/{zoneID}", getZoneHandler(log, svc))
			})

			r.Route("/me", func(r chi.Router) {
				r.Get("/zones", myZonesHandler(log, svc))
				r.Post("/location", reportLocationHandler(log, svc))
				r.Put("/device", registerDeviceHandler(log, svc))
				r.Patch("/preferences", updatePreferencesHandler(log, svc))
			})
		})
	})

	return router, nil
}

func listAlertsHandler(log zerolog.Logger, svc alerts.AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "list-alerts")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		ctx, requestLogger := newRequestLogger(ctx, log, span)

		result, err := svc.ListAlerts(ctx)
		if err != nil {
			writeError(w, requestLogger, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func dispatchAlertHandler(log zerolog.Logger, svc alerts.AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "dispatch-alert")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		ctx, requestLogger := newRequestLogger(ctx, log, span)

		req := types.AlertRequest{}
		if err = decode(r, &req); err != nil {
			requestLogger.Error().Err(err).Msg("unable to read alert request")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		alert, report, err := svc.Dispatch(ctx, req)
		if err != nil {
			writeError(w, requestLogger, err)
			return
		}

		response := struct {
			Alert    types.Alert          `json:"alert"`
			Delivery types.DeliveryReport `json:"delivery"`
		}{
			Alert:    alert,
			Delivery: report,
		}

		w.Header().Set("Location", "/api/v0/alerts/"+alert.ID)
		writeJSON(w, http.StatusCreated, response)
	}
}

func getAlertHandler(log zerolog.Logger, svc alerts.AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "get-alert")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		ctx, requestLogger := newRequestLogger(ctx, log, span)

		alertID := chi.URLParam(r, "alertID")

		status, err := svc.GetAlert(ctx, alertID, auth.GetUserID(ctx))
		if err != nil {
			writeError(w, requestLogger, err)
			return
		}

		writeJSON(w, http.StatusOK, status)
	}
}

type countdownEvent struct {
	AlertID       string    `json:"alertId"`
	State         string    `json:"state"`
	TimeRemaining int64     `json:"timeRemaining"`
	At            time.Time `json:"at"`
}

// countdownHandler streams the remaining time of an alert as server-sent events until the
// alert expires or the client disconnects.
func countdownHandler(log zerolog.Logger, svc alerts.AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "alert-countdown")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		ctx, requestLogger := newRequestLogger(ctx, log, span)

		flusher, ok := w.(http.Flusher)
		if !ok {
			err = errors.New("streaming unsupported")
			requestLogger.Error().Err(err).Msg("response writer cannot flush")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		alertID := chi.URLParam(r, "alertID")

		countdown, err := svc.Watch(ctx, alertID)
		if err != nil {
			writeError(w, requestLogger, err)
			return
		}
		defer countdown.Stop()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		for tick := range countdown.Start(ctx) {
			event := countdownEvent{
				AlertID:       alertID,
				State:         tick.State.String(),
				TimeRemaining: int64(tick.Remaining.Seconds()),
				At:            tick.At,
			}

			b, _ := json.Marshal(event)
			if _, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.State, b); err != nil {
				requestLogger.Debug().Err(err).Msg("client went away")
				return
			}
			flusher.Flush()

			if tick.State == lifecycle.Expired {
				return
			}
		}
	}
}

func acknowledgeHandler(log zerolog.Logger, svc alerts.AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "acknowledge-alert")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		ctx, requestLogger := newRequestLogger(ctx, log, span)

		alertID := chi.URLParam(r, "alertID")

		ack, created, err := svc.Acknowledge(ctx, alertID, auth.GetUserID(ctx))
		if err != nil {
			writeError(w, requestLogger, err)
			return
		}

		if created {
			writeJSON(w, http.StatusCreated, ack)
			return
		}

		writeJSON(w, http.StatusOK, ack)
	}
}

func getAcknowledgmentHandler(log zerolog.Logger, svc alerts.AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "get-acknowledgment")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		ctx, requestLogger := newRequestLogger(ctx, log, span)

		alertID := chi.URLParam(r, "alertID")

		acknowledged, err := svc.IsAcknowledged(ctx, alertID, auth.GetUserID(ctx))
		if err != nil {
			writeError(w, requestLogger, err)
			return
		}

		writeJSON(w, http.StatusOK, struct {
			AlertID      string `json:"alertId"`
			Acknowledged bool   `json:"acknowledged"`
		}{
			AlertID:      alertID,
			Acknowledged: acknowledged,
		})
	}
}

func listZonesHandler(log zerolog.Logger, svc alerts.AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "list-zones")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		ctx, requestLogger := newRequestLogger(ctx, log, span)

		zones, err := svc.Zones(ctx)
		if err != nil {
			writeError(w, requestLogger, err)
			return
		}

		writeJSON(w, http.StatusOK, collection(zones))
	}
}

func getZoneHandler(log zerolog.Logger, svc alerts.AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "get-zone")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		ctx, requestLogger := newRequestLogger(ctx, log, span)

		zone, err := svc.Zone(ctx, chi.URLParam(r, "zoneID"))
		if err != nil {
			if errors.Is(err, types.ErrPolygonNotFound) {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			writeError(w, requestLogger, err)
			return
		}

		writeJSON(w, http.StatusOK, zone)
	}
}

func myZonesHandler(log zerolog.Logger, svc alerts.AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "my-zones")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		ctx, requestLogger := newRequestLogger(ctx, log, span)

		zones, err := svc.MyZones(ctx, auth.GetUserID(ctx))
		if err != nil {
			writeError(w, requestLogger, err)
			return
		}

		writeJSON(w, http.StatusOK, collection(zones))
	}
}

func reportLocationHandler(log zerolog.Logger, svc alerts.AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "report-location")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		ctx, requestLogger := newRequestLogger(ctx, log, span)

		location := struct {
			Latitude   *float64  `json:"latitude"`
			Longitude  *float64  `json:"longitude"`
			ObservedAt time.Time `json:"observedAt"`
		}{}

		if err = decode(r, &location); err != nil || location.Latitude == nil || location.Longitude == nil {
			requestLogger.Error().Err(err).Msg("unable to read location")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		err = svc.ReportLocation(ctx, types.LocationSample{
			UserID:     auth.GetUserID(ctx),
			Location:   types.Point{Latitude: *location.Latitude, Longitude: *location.Longitude},
			ObservedAt: location.ObservedAt,
		})
		if err != nil {
			writeError(w, requestLogger, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func registerDeviceHandler(log zerolog.Logger, svc alerts.AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "register-device")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		ctx, requestLogger := newRequestLogger(ctx, log, span)

		device := struct {
			PushToken string `json:"pushToken"`
		}{}

		if err = decode(r, &device); err != nil {
			requestLogger.Error().Err(err).Msg("unable to read device registration")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		profile, err := svc.RegisterDevice(ctx, auth.GetUserID(ctx), device.PushToken)
		if err != nil {
			writeError(w, requestLogger, err)
			return
		}

		writeJSON(w, http.StatusOK, profile)
	}
}

func updatePreferencesHandler(log zerolog.Logger, svc alerts.AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "update-preferences")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		ctx, requestLogger := newRequestLogger(ctx, log, span)

		prefs := types.Preferences{}
		if err = decode(r, &prefs); err != nil {
			requestLogger.Error().Err(err).Msg("unable to read preferences")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		profile, err := svc.UpdatePreferences(ctx, auth.GetUserID(ctx), prefs)
		if err != nil {
			writeError(w, requestLogger, err)
			return
		}

		writeJSON(w, http.StatusOK, profile)
	}
}

func newRequestLogger(ctx context.Context, log zerolog.Logger, span trace.Span) (context.Context, zerolog.Logger) {
	lc := log.With()

	if traceID := span.SpanContext().TraceID(); traceID.IsValid() {
		lc = lc.Str("traceID", traceID.String())
	}
	if userID := auth.GetUserID(ctx); userID != "" {
		lc = lc.Str("user_id", userID)
	}

	logger := lc.Logger()

	return logging.NewContextWithLogger(ctx, logger), logger
}

func decode(r *http.Request, v any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

func collection[T any](items []T) types.Collection[T] {
	if items == nil {
		items = []T{}
	}
	return types.Collection[T]{Data: items, Count: uint64(len(items))}
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(b)
}

func writeError(w http.ResponseWriter, log zerolog.Logger, err error) {
	statusCode := statusCodeFromError(err)

	if statusCode >= http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	} else {
		log.Debug().Err(err).Msg("request rejected")
	}

	http.Error(w, err.Error(), statusCode)
}

func statusCodeFromError(err error) int {
	switch {
	case errors.Is(err, types.ErrAlertNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, types.ErrInvalidAlert),
		errors.Is(err, types.ErrInvalidGeometry),
		errors.Is(err, types.ErrInvalidLocation),
		errors.Is(err, types.ErrInvalidDevice):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrPolygonNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, types.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
