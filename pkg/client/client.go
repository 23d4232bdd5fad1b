package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/diwise/hazard-alerts/internal/pkg/infrastructure/logging"
	"github.com/diwise/hazard-alerts/pkg/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

type HazardAlertsClient interface {
	ListAlerts(ctx context.Context) ([]types.AlertStatus, error)
	GetAlert(ctx context.Context, alertID string) (types.AlertStatus, error)
	Acknowledge(ctx context.Context, alertID string) (types.Acknowledgment, error)
	IsAcknowledged(ctx context.Context, alertID string) (bool, error)
	ReportLocation(ctx context.Context, latitude, longitude float64, observedAt time.Time) error
	Close(ctx context.Context)
}

type hazardAlertsClient struct {
	url        string
	httpClient *http.Client
}

var tracer = otel.Tracer("hazard-alerts-client")

// New fetches an initial token using the client credentials grant and returns a client whose
// requests are authorized with automatically refreshed tokens.
func New(ctx context.Context, hazardAlertsURL, oauthTokenURL, oauthClientID, oauthClientSecret string) (HazardAlertsClient, error) {
	oauthConfig := &clientcredentials.Config{
		ClientID:     oauthClientID,
		ClientSecret: oauthClientSecret,
		TokenURL:     oauthTokenURL,
	}

	base := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	token, err := oauthConfig.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get client credentials from %s: %w", oauthConfig.TokenURL, err)
	}

	if !token.Valid() {
		return nil, fmt.Errorf("an invalid token was returned from %s", oauthTokenURL)
	}

	return &hazardAlertsClient{
		url:        strings.TrimSuffix(hazardAlertsURL, "/"),
		httpClient: oauthConfig.Client(ctx),
	}, nil
}

func (c *hazardAlertsClient) ListAlerts(ctx context.Context) ([]types.AlertStatus, error) {
	var err error
	ctx, span := tracer.Start(ctx, "list-alerts")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	result := types.Collection[types.AlertStatus]{}
	err = c.do(ctx, http.MethodGet, "/api/v0/alerts", nil, &result)
	if err != nil {
		return nil, err
	}

	return result.Data, nil
}

func (c *hazardAlertsClient) GetAlert(ctx context.Context, alertID string) (types.AlertStatus, error) {
	var err error
	ctx, span := tracer.Start(ctx, "get-alert")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	status := types.AlertStatus{}
	err = c.do(ctx, http.MethodGet, "/api/v0/alerts/"+url.PathEscape(alertID), nil, &status)

	return status, err
}

func (c *hazardAlertsClient) Acknowledge(ctx context.Context, alertID string) (types.Acknowledgment, error) {
	var err error
	ctx, span := tracer.Start(ctx, "acknowledge-alert")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	ack := types.Acknowledgment{}
	err = c.do(ctx, http.MethodPost, "/api/v0/alerts/"+url.PathEscape(alertID)+"/ack", nil, &ack)

	return ack, err
}

func (c *hazardAlertsClient) IsAcknowledged(ctx context.Context, alertID string) (bool, error) {
	var err error
	ctx, span := tracer.Start(ctx, "is-acknowledged")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	result := struct {
		Acknowledged bool `json:"acknowledged"`
	}{}
	err = c.do(ctx, http.MethodGet, "/api/v0/alerts/"+url.PathEscape(alertID)+"/ack", nil, &result)

	return result.Acknowledged, err
}

func (c *hazardAlertsClient) ReportLocation(ctx context.Context, latitude, longitude float64, observedAt time.Time) error {
	var err error
	ctx, span := tracer.Start(ctx, "report-location")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	location := struct {
		Latitude   float64   `json:"latitude"`
		Longitude  float64   `json:"longitude"`
		ObservedAt time.Time `json:"observedAt"`
	}{latitude, longitude, observedAt.UTC()}

	err = c.do(ctx, http.MethodPost, "/api/v0/me/location", location, nil)
	if errors.Is(err, errBadRequest) {
		err = fmt.Errorf("%w: %s", types.ErrInvalidLocation, err.Error())
	}

	return err
}

func (c *hazardAlertsClient) Close(ctx context.Context) {
	c.httpClient.CloseIdleConnections()
}

func (c *hazardAlertsClient) do(ctx context.Context, method, path string, body, result any) error {
	log := logging.GetFromContext(ctx)

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create http request: %w", err)
	}

	req.Header.Add("Accept", "application/json")
	if body != nil {
		req.Header.Add("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		err = errorFromStatusCode(resp.StatusCode)
		log.Debug().Err(err).Msgf("%s %s returned status code %d", method, path, resp.StatusCode)
		return err
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err = json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to unmarshal response body: %w", err)
	}

	return nil
}

var (
	errBadRequest         = errors.New("bad request")
	errUnexpectedResponse = errors.New("unexpected response")
)

func errorFromStatusCode(code int) error {
	switch code {
	case http.StatusNotFound:
		return types.ErrAlertNotFound
	case http.StatusUnauthorized:
		return types.ErrUnauthenticated
	case http.StatusBadRequest:
		return errBadRequest
	case http.StatusServiceUnavailable:
		return types.ErrStorageUnavailable
	default:
		return fmt.Errorf("%w: status code %d", errUnexpectedResponse, code)
	}
}
