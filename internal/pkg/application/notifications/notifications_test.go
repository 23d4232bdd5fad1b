package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/diwise/hazard-alerts/pkg/types"
	"github.com/matryer/is"
)

func TestNotifyAllIsolatesFailures(t *testing.T) {
	is := is.New(t)

	transport := &TransportMock{
		SendFunc: func(ctx context.Context, msg Message) error {
			if msg.UserID == "user-2" {
				return errors.New("device unregistered")
			}
			return nil
		},
	}

	n := NewNotifier(transport, &Config{Concurrency: 2})
	report := n.NotifyAll(context.Background(), users("user-1", "user-2", "user-3"), testAlert())

	is.Equal(3, report.Recipients)
	is.Equal(2, report.Delivered)
	is.Equal([]string{"user-2"}, report.Failed)
	is.Equal(3, len(transport.SendCalls()))
}

func TestSlowDeliveryDoesNotBlockOthers(t *testing.T) {
	is := is.New(t)

	var mu sync.Mutex
	delivered := []string{}

	transport := &TransportMock{
		SendFunc: func(ctx context.Context, msg Message) error {
			if msg.UserID == "slow" {
				<-ctx.Done()
				return ctx.Err()
			}
			mu.Lock()
			delivered = append(delivered, msg.UserID)
			mu.Unlock()
			return nil
		},
	}

	n := NewNotifier(transport, &Config{Timeout: 50 * time.Millisecond, Concurrency: 4})

	started := time.Now()
	report := n.NotifyAll(context.Background(), users("slow", "user-1", "user-2"), testAlert())

	is.True(time.Since(started) < 5*time.Second)
	is.Equal(2, report.Delivered)
	is.Equal([]string{"slow"}, report.Failed)

	sort.Strings(delivered)
	is.Equal([]string{"user-1", "user-2"}, delivered)
}

func TestNotifyIsBoundedByTimeout(t *testing.T) {
	is := is.New(t)

	block := make(chan struct{})
	defer close(block)

	transport := &TransportMock{
		SendFunc: func(ctx context.Context, msg Message) error {
			<-block
			return nil
		},
	}

	n := NewNotifier(transport, &Config{Timeout: 20 * time.Millisecond})
	err := n.Notify(context.Background(), users("user-1")[0], testAlert())

	is.True(errors.Is(err, types.ErrNotificationDeliveryFailed))
}

func TestMessageCarriesAlertID(t *testing.T) {
	is := is.New(t)

	msg := NewMessage(users("user-1")[0], testAlert())

	is.Equal("alert-1", msg.Payload["alertId"])
	is.Equal("alert", msg.Payload["sound"])
	is.Equal("max", msg.Payload["priority"])
	is.Equal("Danger", msg.Payload["severityLabel"])
	is.Equal("Flash Flood Warning", msg.Title)
	is.Equal("token-user-1", msg.PushToken)
}

func TestCloudEventsTransportPostsToSubscribers(t *testing.T) {
	is := is.New(t)

	var received Message
	var eventType string

	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		eventType = r.Header.Get("ce-type")
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &received)
		w.WriteHeader(http.StatusOK)
	}))
	defer s.Close()

	cfg, err := LoadConfiguration(bytes.NewBufferString(strings.ReplaceAll(configYaml, "<endpoint>", s.URL)))
	is.NoErr(err)

	transport, err := NewCloudEventsTransport(cfg)
	is.NoErr(err)

	err = transport.Send(context.Background(), NewMessage(users("user-1")[0], testAlert()))
	is.NoErr(err)

	is.Equal(NotificationType, eventType)
	is.Equal("user-1", received.UserID)
	is.Equal("alert-1", received.Payload["alertId"])
}

func TestCloudEventsTransportReportsRejectedEvents(t *testing.T) {
	is := is.New(t)

	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer s.Close()

	cfg, err := LoadConfiguration(bytes.NewBufferString(strings.ReplaceAll(configYaml, "<endpoint>", s.URL)))
	is.NoErr(err)

	transport, err := NewCloudEventsTransport(cfg)
	is.NoErr(err)

	err = transport.Send(context.Background(), NewMessage(users("user-1")[0], testAlert()))
	is.True(err != nil)
}

func TestLoadConfiguration(t *testing.T) {
	is := is.New(t)

	cfg, err := LoadConfiguration(bytes.NewBufferString(configYaml))
	is.NoErr(err)

	is.Equal([]string{"<endpoint>"}, cfg.Endpoints(NotificationType))
	is.Equal(0, len(cfg.Endpoints("diwise.statusmessage")))
	is.Equal(5*time.Second, cfg.Timeout)
	is.Equal(4, cfg.Concurrency)

	defaults := (&Config{}).withDefaults()
	is.Equal(DefaultTimeout, defaults.Timeout)
	is.Equal(DefaultConcurrency, defaults.Concurrency)
}

func users(ids ...string) []types.UserProfile {
	u := []types.UserProfile{}
	for _, id := range ids {
		u = append(u, types.UserProfile{UserID: id, PushToken: "token-" + id, PushEnabled: true})
	}
	return u
}

func testAlert() types.Alert {
	return types.Alert{
		ID:           "alert-1",
		Title:        "Flash Flood Warning",
		Body:         "Move to higher ground",
		Severity:     types.SeverityDanger,
		DispatchedAt: time.Now().UTC(),
		TTLSeconds:   90,
	}
}

const configYaml string = `
timeout: 5s
concurrency: 4
notifications:
  - id: push-gateway
    name: Push gateway
    type: diwise.alert.notification
    subscribers:
      - endpoint: <endpoint>
`
