package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/diwise/hazard-alerts/internal/pkg/application/alerts"
	"github.com/diwise/hazard-alerts/internal/pkg/infrastructure/router"
	"github.com/diwise/hazard-alerts/internal/pkg/presentation/api"
	"github.com/diwise/hazard-alerts/pkg/types"
	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/matryer/is"
)

func TestInitializeSeedsZonesAndUsers(t *testing.T) {
	is, ctx, svc, _ := testSetup(t)

	zones, err := svc.Zones(ctx)
	is.NoErr(err)
	is.Equal(len(zones), 2)

	mine, err := svc.MyZones(ctx, "ama")
	is.NoErr(err)
	is.Equal(len(mine), 1)
	is.Equal(mine[0].ID, "korle-lagoon")
}

func TestSetup(t *testing.T) {
	is, _, _, server := testSetup(t)

	resp, _ := testRequest(is, server, http.MethodGet, "/health", "", nil)
	is.Equal(resp.StatusCode, http.StatusNoContent)

	resp, _ = testRequest(is, server, http.MethodGet, "/api/v0/alerts", "", nil)
	is.Equal(resp.StatusCode, http.StatusUnauthorized)
}

func TestThatResidentsCannotDispatchAlerts(t *testing.T) {
	is, _, _, server := testSetup(t)

	body := `{"title":"Flash Flood Warning","severity":"danger"}`
	resp, _ := testRequest(is, server, http.MethodPost, "/api/v0/alerts", residentToken, bytes.NewBufferString(body))
	is.Equal(resp.StatusCode, http.StatusForbidden)
}

func TestDispatchAndAcknowledgeAlert(t *testing.T) {
	is, _, _, server := testSetup(t)

	body := `{"title":"Flash Flood Warning","body":"Move to higher ground","severity":"danger","ttlSeconds":300}`
	resp, respBody := testRequest(is, server, http.MethodPost, "/api/v0/alerts", operatorToken, bytes.NewBufferString(body))
	is.Equal(resp.StatusCode, http.StatusCreated)

	dispatched := struct {
		Alert    types.Alert          `json:"alert"`
		Delivery types.DeliveryReport `json:"delivery"`
	}{}
	is.NoErr(json.Unmarshal([]byte(respBody), &dispatched))
	is.Equal(dispatched.Delivery.Recipients, 3) // efua has disabled push
	is.Equal(dispatched.Delivery.Delivered, 3)

	ackPath := "/api/v0/alerts/" + dispatched.Alert.ID + "/ack"

	resp, respBody = testRequest(is, server, http.MethodPost, ackPath, residentToken, nil)
	is.Equal(resp.StatusCode, http.StatusCreated)

	ack := types.Acknowledgment{}
	is.NoErr(json.Unmarshal([]byte(respBody), &ack))
	is.Equal(ack.UserID, "kofi")
	is.True(ack.OnTime)

	resp, _ = testRequest(is, server, http.MethodPost, ackPath, residentToken, nil)
	is.Equal(resp.StatusCode, http.StatusOK)

	resp, respBody = testRequest(is, server, http.MethodGet, ackPath, residentToken, nil)
	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(respBody, `{"alertId":"`+dispatched.Alert.ID+`","acknowledged":true}`)
}

func TestThatAcknowledgingUnknownAlertReturns404(t *testing.T) {
	is, _, _, server := testSetup(t)

	resp, _ := testRequest(is, server, http.MethodPost, "/api/v0/alerts/nosuchalert/ack", residentToken, nil)
	is.Equal(resp.StatusCode, http.StatusNotFound)
}

func TestParseExternalConfigPrefersEnvironment(t *testing.T) {
	is := is.New(t)

	t.Setenv("POSTGRES_HOST", "db.local")
	t.Setenv("REDIS_ADDR", "")

	_, flags := parseExternalConfig(context.Background(), defaultFlags())
	is.Equal(flags[dbHost], "db.local")
	is.Equal(flags[redisAddr], "")
	is.Equal(flags[servicePort], "8080")
}

func testSetup(t *testing.T) (*is.I, context.Context, alerts.AlertService, *httptest.Server) {
	is := is.New(t)
	ctx := context.Background()

	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(gateway.Close)

	cfgFile, err := os.Open("../../assets/config/config.yaml")
	is.NoErr(err)
	defer cfgFile.Close()

	cfg, err := alerts.LoadConfiguration(cfgFile)
	is.NoErr(err)
	cfg.Notifications.Notifications[0].Subscribers[0].Endpoint = gateway.URL

	users, err := os.Open("../../assets/config/users.csv")
	is.NoErr(err)

	messenger := &alerts.MessengerMock{
		PublishOnTopicFunc: func(ctx context.Context, message messaging.TopicMessage) error {
			return nil
		},
	}

	svc, closeStores, err := initialize(ctx, defaultFlags(), cfg, users, messenger)
	is.NoErr(err)
	t.Cleanup(closeStores)

	policies, err := os.Open("../../assets/config/authz.rego")
	is.NoErr(err)
	defer policies.Close()

	r, err := api.RegisterHandlers(ctx, router.New(serviceName), policies, svc)
	is.NoErr(err)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return is, ctx, svc, server
}

func testRequest(is *is.I, ts *httptest.Server, method, path, token string, body io.Reader) (*http.Response, string) {
	req, _ := http.NewRequest(method, ts.URL+path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	is.NoErr(err)
	respBody, _ := io.ReadAll(resp.Body)
	defer resp.Body.Close()

	return resp, string(respBody)
}

func newToken(sub string, roles ...string) string {
	enc := base64.RawURLEncoding
	header, _ := json.Marshal(map[string]string{"alg": "none", "typ": "JWT"})
	payload, _ := json.Marshal(map[string]any{
		"sub":          sub,
		"realm_access": map[string]any{"roles": roles},
	})
	return enc.EncodeToString(header) + "." + enc.EncodeToString(payload) + "." + enc.EncodeToString([]byte("sig"))
}

var (
	residentToken = newToken("kofi", "resident")
	operatorToken = newToken("nadia", "operator")
)
