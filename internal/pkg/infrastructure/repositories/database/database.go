package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/diwise/hazard-alerts/pkg/types"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Datastore interface {
	AddAlert(ctx context.Context, alert types.Alert) error
	GetAlert(ctx context.Context, alertID string) (types.Alert, error)
	QueryAlerts(ctx context.Context) ([]types.Alert, error)

	AddAcknowledgment(ctx context.Context, ack types.Acknowledgment) (types.Acknowledgment, bool, error)
	GetAcknowledgment(ctx context.Context, alertID, userID string) (types.Acknowledgment, bool, error)

	GetPolygon(ctx context.Context, polygonID string) (types.Polygon, error)
	QueryPolygons(ctx context.Context) ([]types.Polygon, error)
	SavePolygon(ctx context.Context, polygon types.Polygon) error

	GetUser(ctx context.Context, userID string) (types.UserProfile, bool, error)
	SaveUser(ctx context.Context, user types.UserProfile) error
	QueryUsers(ctx context.Context) ([]types.UserProfile, error)

	StoreLocation(ctx context.Context, sample types.LocationSample) (bool, error)
	LatestLocation(ctx context.Context, userID string) (types.LocationSample, bool, error)
	LatestLocations(ctx context.Context, userIDs []string) (map[string]types.LocationSample, error)
}

type datastore struct {
	db *gorm.DB
}

func New(connect ConnectorFunc) (Datastore, error) {
	impl, _, err := connect()
	if err != nil {
		return nil, err
	}

	err = impl.AutoMigrate(&alertRecord{}, &acknowledgmentRecord{}, &polygonRecord{}, &userRecord{}, &locationRecord{})
	if err != nil {
		return nil, err
	}

	return &datastore{
		db: impl,
	}, nil
}

func (d *datastore) AddAlert(ctx context.Context, alert types.Alert) error {
	r := alertRecord{
		ID:           alert.ID,
		Title:        alert.Title,
		Body:         alert.Body,
		Severity:     string(alert.Severity),
		DispatchedAt: alert.DispatchedAt.UTC(),
		TTLSeconds:   alert.TTLSeconds,
		PolygonID:    alert.PolygonID,
	}

	err := d.db.WithContext(ctx).Create(&r).Error

	return storageError(err, nil)
}

func (d *datastore) GetAlert(ctx context.Context, alertID string) (types.Alert, error) {
	r := alertRecord{}

	err := d.db.WithContext(ctx).
		Where("id = ?", alertID).
		First(&r).
		Error
	if err != nil {
		return types.Alert{}, storageError(err, types.ErrAlertNotFound)
	}

	return r.toAlert(), nil
}

func (d *datastore) QueryAlerts(ctx context.Context) ([]types.Alert, error) {
	var records []alertRecord

	err := d.db.WithContext(ctx).
		Order("dispatched_at desc").
		Find(&records).
		Error
	if err != nil {
		return nil, storageError(err, nil)
	}

	return lo.Map(records, func(r alertRecord, _ int) types.Alert {
		return r.toAlert()
	}), nil
}

// AddAcknowledgment inserts ack unless the alert and user pair already exists, in which case
// the stored record is returned untouched.
func (d *datastore) AddAcknowledgment(ctx context.Context, ack types.Acknowledgment) (types.Acknowledgment, bool, error) {
	r := acknowledgmentRecord{
		AlertID:        ack.AlertID,
		UserID:         ack.UserID,
		AcknowledgedAt: ack.AcknowledgedAt.UTC(),
		OnTime:         ack.OnTime,
	}

	result := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&r)
	if result.Error != nil {
		return types.Acknowledgment{}, false, storageError(result.Error, nil)
	}

	if result.RowsAffected == 1 {
		return r.toAcknowledgment(), true, nil
	}

	stored, found, err := d.GetAcknowledgment(ctx, ack.AlertID, ack.UserID)
	if err != nil {
		return types.Acknowledgment{}, false, err
	}
	if !found {
		return types.Acknowledgment{}, false, fmt.Errorf("%w: acknowledgment was neither created nor found", types.ErrStorageUnavailable)
	}

	return stored, false, nil
}

func (d *datastore) GetAcknowledgment(ctx context.Context, alertID, userID string) (types.Acknowledgment, bool, error) {
	var records []acknowledgmentRecord

	err := d.db.WithContext(ctx).
		Where("alert_id = ? AND user_id = ?", alertID, userID).
		Limit(1).
		Find(&records).
		Error
	if err != nil {
		return types.Acknowledgment{}, false, storageError(err, nil)
	}

	if len(records) == 0 {
		return types.Acknowledgment{}, false, nil
	}

	return records[0].toAcknowledgment(), true, nil
}

func (d *datastore) GetPolygon(ctx context.Context, polygonID string) (types.Polygon, error) {
	r := polygonRecord{}

	err := d.db.WithContext(ctx).
		Where("id = ?", polygonID).
		First(&r).
		Error
	if err != nil {
		return types.Polygon{}, storageError(err, types.ErrPolygonNotFound)
	}

	return r.toPolygon(), nil
}

func (d *datastore) QueryPolygons(ctx context.Context) ([]types.Polygon, error) {
	var records []polygonRecord

	err := d.db.WithContext(ctx).
		Order("id").
		Find(&records).
		Error
	if err != nil {
		return nil, storageError(err, nil)
	}

	return lo.Map(records, func(r polygonRecord, _ int) types.Polygon {
		return r.toPolygon()
	}), nil
}

func (d *datastore) SavePolygon(ctx context.Context, polygon types.Polygon) error {
	r := polygonRecord{
		ID:              polygon.ID,
		Name:            polygon.Name,
		Coordinates:     polygon.Coordinates,
		CenterLatitude:  polygon.Center.Latitude,
		CenterLongitude: polygon.Center.Longitude,
	}

	err := d.db.WithContext(ctx).Save(&r).Error

	return storageError(err, nil)
}

func (d *datastore) GetUser(ctx context.Context, userID string) (types.UserProfile, bool, error) {
	var records []userRecord

	err := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&records).
		Error
	if err != nil {
		return types.UserProfile{}, false, storageError(err, nil)
	}

	if len(records) == 0 {
		return types.UserProfile{}, false, nil
	}

	return records[0].toUserProfile(), true, nil
}

func (d *datastore) SaveUser(ctx context.Context, user types.UserProfile) error {
	r := userRecord{
		UserID:          user.UserID,
		PushToken:       user.PushToken,
		PushEnabled:     user.PushEnabled,
		LocationConsent: user.LocationConsent,
	}

	err := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"push_token", "push_enabled", "location_consent"}),
		}).
		Create(&r).
		Error

	return storageError(err, nil)
}

func (d *datastore) QueryUsers(ctx context.Context) ([]types.UserProfile, error) {
	var records []userRecord

	err := d.db.WithContext(ctx).
		Order("user_id").
		Find(&records).
		Error
	if err != nil {
		return nil, storageError(err, nil)
	}

	return lo.Map(records, func(r userRecord, _ int) types.UserProfile {
		return r.toUserProfile()
	}), nil
}

// StoreLocation upserts the latest sample for a user. Samples that are not newer than the
// stored one are ignored and reported as not stored.
func (d *datastore) StoreLocation(ctx context.Context, sample types.LocationSample) (bool, error) {
	r := locationRecord{
		UserID:     sample.UserID,
		Latitude:   sample.Location.Latitude,
		Longitude:  sample.Location.Longitude,
		ObservedAt: sample.ObservedAt.UTC(),
	}

	result := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"latitude", "longitude", "observed_at"}),
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Expr{SQL: "locations.observed_at < excluded.observed_at"},
			}},
		}).
		Create(&r)
	if result.Error != nil {
		return false, storageError(result.Error, nil)
	}

	return result.RowsAffected > 0, nil
}

func (d *datastore) LatestLocation(ctx context.Context, userID string) (types.LocationSample, bool, error) {
	var records []locationRecord

	err := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&records).
		Error
	if err != nil {
		return types.LocationSample{}, false, storageError(err, nil)
	}

	if len(records) == 0 {
		return types.LocationSample{}, false, nil
	}

	return records[0].toLocationSample(), true, nil
}

func (d *datastore) LatestLocations(ctx context.Context, userIDs []string) (map[string]types.LocationSample, error) {
	samples := map[string]types.LocationSample{}
	if len(userIDs) == 0 {
		return samples, nil
	}

	var records []locationRecord

	err := d.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&records).
		Error
	if err != nil {
		return nil, storageError(err, nil)
	}

	for _, r := range records {
		samples[r.UserID] = r.toLocationSample()
	}

	return samples, nil
}

// storageError maps gorm errors to the error kinds of the service. A missing record becomes
// notFound when one is given, everything else is reported as ErrStorageUnavailable.
func storageError(err, notFound error) error {
	if err == nil {
		return nil
	}

	if notFound != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}

	return fmt.Errorf("%w: %s", types.ErrStorageUnavailable, err.Error())
}
