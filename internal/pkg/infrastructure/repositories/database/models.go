package database

import (
	"time"

	"github.com/diwise/hazard-alerts/pkg/types"
)

type alertRecord struct {
	ID           string    `gorm:"primaryKey"`
	Title        string    `gorm:"not null"`
	Body         string
	Severity     string    `gorm:"not null"`
	DispatchedAt time.Time `gorm:"index;not null"`
	TTLSeconds   int       `gorm:"not null"`
	PolygonID    string    `gorm:"index"`
}

func (alertRecord) TableName() string {
	return "alerts"
}

func (r alertRecord) toAlert() types.Alert {
	return types.Alert{
		ID:           r.ID,
		Title:        r.Title,
		Body:         r.Body,
		Severity:     types.Severity(r.Severity),
		DispatchedAt: r.DispatchedAt.UTC(),
		TTLSeconds:   r.TTLSeconds,
		PolygonID:    r.PolygonID,
	}
}

// acknowledgmentRecord is unique per alert and user. The index is what makes the first
// acknowledgment win when several writers race.
type acknowledgmentRecord struct {
	ID             uint      `gorm:"primaryKey"`
	AlertID        string    `gorm:"uniqueIndex:idx_acknowledgments_alert_user;not null"`
	UserID         string    `gorm:"uniqueIndex:idx_acknowledgments_alert_user;not null"`
	AcknowledgedAt time.Time `gorm:"not null"`
	OnTime         bool
}

func (acknowledgmentRecord) TableName() string {
	return "acknowledgments"
}

func (r acknowledgmentRecord) toAcknowledgment() types.Acknowledgment {
	return types.Acknowledgment{
		AlertID:        r.AlertID,
		UserID:         r.UserID,
		AcknowledgedAt: r.AcknowledgedAt.UTC(),
		OnTime:         r.OnTime,
	}
}

type polygonRecord struct {
	ID              string        `gorm:"primaryKey"`
	Name            string
	Coordinates     []types.Point `gorm:"serializer:json"`
	CenterLatitude  float64
	CenterLongitude float64
}

func (polygonRecord) TableName() string {
	return "polygons"
}

func (r polygonRecord) toPolygon() types.Polygon {
	return types.Polygon{
		ID:          r.ID,
		Name:        r.Name,
		Coordinates: r.Coordinates,
		Center:      types.Point{Latitude: r.CenterLatitude, Longitude: r.CenterLongitude},
	}
}

type userRecord struct {
	UserID          string `gorm:"primaryKey"`
	PushToken       string
	PushEnabled     bool
	LocationConsent bool
}

func (userRecord) TableName() string {
	return "users"
}

func (r userRecord) toUserProfile() types.UserProfile {
	return types.UserProfile{
		UserID:          r.UserID,
		PushToken:       r.PushToken,
		PushEnabled:     r.PushEnabled,
		LocationConsent: r.LocationConsent,
	}
}

type locationRecord struct {
	UserID     string `gorm:"primaryKey"`
	Latitude   float64
	Longitude  float64
	ObservedAt time.Time `gorm:"not null"`
}

func (locationRecord) TableName() string {
	return "locations"
}

func (r locationRecord) toLocationSample() types.LocationSample {
	return types.LocationSample{
		UserID:     r.UserID,
		Location:   types.Point{Latitude: r.Latitude, Longitude: r.Longitude},
		ObservedAt: r.ObservedAt.UTC(),
	}
}
