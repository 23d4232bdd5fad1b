package types

import (
	"fmt"
	"strings"
	"time"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Level orders severities by escalation, info < warning < danger. Unknown severities are 0.
func (s Severity) Level() int {
	switch s {
	case SeverityInfo:
		return 1
	case SeverityWarning:
		return 2
	case SeverityDanger:
		return 3
	default:
		return 0
	}
}

func (s Severity) Valid() bool {
	return s.Level() > 0
}

// AtLeast reports whether s is the same as or more severe than other.
func (s Severity) AtLeast(other Severity) bool {
	return s.Level() >= other.Level()
}

func (s Severity) Label() string {
	switch s {
	case SeverityInfo:
		return "Information"
	case SeverityWarning:
		return "Warning"
	case SeverityDanger:
		return "Danger"
	default:
		return "Alert"
	}
}

func ParseSeverity(s string) (Severity, error) {
	sev := Severity(strings.ToLower(strings.TrimSpace(s)))
	if !sev.Valid() {
		return "", fmt.Errorf("%w: unknown severity %q", ErrInvalidAlert, s)
	}
	return sev, nil
}

const DefaultTTLSeconds int = 90

type Point struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

type Alert struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	Severity     Severity  `json:"severity"`
	DispatchedAt time.Time `json:"dispatchedAt"`
	TTLSeconds   int       `json:"ttlSeconds"`
	PolygonID    string    `json:"polygonId,omitempty"`
}

func (a Alert) TTL() time.Duration {
	return time.Duration(a.TTLSeconds) * time.Second
}

func (a Alert) ExpiresAt() time.Time {
	return a.DispatchedAt.Add(a.TTL())
}

// Global alerts have no target polygon and match every user.
func (a Alert) Global() bool {
	return a.PolygonID == ""
}

type AlertRequest struct {
	Title      string   `json:"title"`
	Body       string   `json:"body"`
	Severity   Severity `json:"severity"`
	TTLSeconds *int     `json:"ttlSeconds,omitempty"`
	PolygonID  string   `json:"polygonId,omitempty"`
}

type AlertStatus struct {
	Alert
	ExpiresAt     time.Time `json:"expiresAt"`
	State         string    `json:"state"`
	TimeRemaining int64     `json:"timeRemaining"`
	Acknowledged  *bool     `json:"acknowledged,omitempty"`
}

type Polygon struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Coordinates []Point `json:"coordinates" yaml:"coordinates"`
	Center      Point   `json:"center" yaml:"center"`
}

type Acknowledgment struct {
	AlertID        string    `json:"alertId"`
	UserID         string    `json:"userId"`
	AcknowledgedAt time.Time `json:"acknowledgedAt"`
	OnTime         bool      `json:"onTime"`
}

type LocationSample struct {
	UserID     string    `json:"userId"`
	Location   Point     `json:"location"`
	ObservedAt time.Time `json:"observedAt"`
}

type UserProfile struct {
	UserID          string `json:"userId"`
	PushToken       string `json:"pushToken,omitempty"`
	PushEnabled     bool   `json:"pushEnabled"`
	LocationConsent bool   `json:"locationConsent"`
}

type Preferences struct {
	PushEnabled     *bool `json:"pushEnabled,omitempty"`
	LocationConsent *bool `json:"locationConsent,omitempty"`
}

type DeliveryReport struct {
	AlertID    string   `json:"alertId"`
	Recipients int      `json:"recipients"`
	Delivered  int      `json:"delivered"`
	Failed     []string `json:"failed,omitempty"`
}

type Collection[T any] struct {
	Data  []T    `json:"data"`
	Count uint64 `json:"count"`
}
