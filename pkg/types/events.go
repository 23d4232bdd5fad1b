package types

import "time"

type AlertDispatched struct {
	Alert     Alert     `json:"alert"`
	Timestamp time.Time `json:"timestamp"`
}

func (a *AlertDispatched) ContentType() string {
	return "application/json"
}
func (a *AlertDispatched) TopicName() string {
	return "alerts.dispatched"
}

type AlertAcknowledged struct {
	AlertID   string    `json:"alertId"`
	UserID    string    `json:"userId"`
	OnTime    bool      `json:"onTime"`
	Timestamp time.Time `json:"timestamp"`
}

func (a *AlertAcknowledged) ContentType() string {
	return "application/json"
}
func (a *AlertAcknowledged) TopicName() string {
	return "alerts.acknowledged"
}

type LocationReported struct {
	UserID     string    `json:"userId"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	ObservedAt time.Time `json:"observedAt"`
}

func (l *LocationReported) ContentType() string {
	return "application/json"
}
func (l *LocationReported) TopicName() string {
	return "device.locationReported"
}
