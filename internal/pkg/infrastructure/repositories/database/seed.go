package database

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/diwise/hazard-alerts/internal/pkg/infrastructure/logging"
	"github.com/diwise/hazard-alerts/pkg/types"
)

type LocationWriter interface {
	StoreLocation(ctx context.Context, sample types.LocationSample) (bool, error)
}

// SeedUsers reads registered users from a semicolon separated file with the columns
// userID;pushToken;pushEnabled;locationConsent;lat;lon and stores them. Users with a position
// get an initial location sample observed at seededAt.
func SeedUsers(ctx context.Context, d Datastore, locations LocationWriter, reader io.Reader, seededAt time.Time) error {
	r := csv.NewReader(reader)
	r.Comma = ';'
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read csv data from file: %s", err.Error())
	}

	records, err := getUserRecordsFromRows(rows)
	if err != nil {
		return err
	}

	logger := logging.GetFromContext(ctx)
	logger.Info().Msgf("loaded %d users from file", len(records))

	for _, rec := range records {
		err := d.SaveUser(ctx, rec.profile)
		if err != nil {
			return fmt.Errorf("could not seed user %s: %w", rec.profile.UserID, err)
		}

		if rec.location == nil {
			continue
		}

		_, err = locations.StoreLocation(ctx, types.LocationSample{
			UserID:     rec.profile.UserID,
			Location:   *rec.location,
			ObservedAt: seededAt.UTC(),
		})
		if err != nil {
			return fmt.Errorf("could not seed location for user %s: %w", rec.profile.UserID, err)
		}
	}

	return nil
}

// SeedZones stores the configured hazard zones, replacing zones with the same id.
func SeedZones(ctx context.Context, d Datastore, zones []types.Polygon) error {
	for _, z := range zones {
		if z.ID == "" {
			return fmt.Errorf("zone %q has no id", z.Name)
		}
		if err := d.SavePolygon(ctx, z); err != nil {
			return fmt.Errorf("could not seed zone %s: %w", z.ID, err)
		}
	}

	logging.GetFromContext(ctx).Info().Msgf("seeded %d zones", len(zones))

	return nil
}

type userSeedRecord struct {
	profile  types.UserProfile
	location *types.Point
}

func newUserSeedRecord(lineno int, r []string) (userSeedRecord, error) {
	if len(r) < 4 {
		return userSeedRecord{}, fmt.Errorf("line %d: expected at least 4 columns, got %d", lineno, len(r))
	}

	strToBool := func(str string) bool {
		return strings.EqualFold(strings.TrimSpace(str), "true")
	}

	rec := userSeedRecord{
		profile: types.UserProfile{
			UserID:          strings.TrimSpace(r[0]),
			PushToken:       strings.TrimSpace(r[1]),
			PushEnabled:     strToBool(r[2]),
			LocationConsent: strToBool(r[3]),
		},
	}

	if rec.profile.UserID == "" {
		return userSeedRecord{}, fmt.Errorf("line %d: user id is missing", lineno)
	}

	if len(r) >= 6 && (strings.TrimSpace(r[4]) != "" || strings.TrimSpace(r[5]) != "") {
		lat, err := strconv.ParseFloat(strings.TrimSpace(r[4]), 64)
		if err != nil || lat < -90 || lat > 90 {
			return userSeedRecord{}, fmt.Errorf("line %d: invalid latitude %q", lineno, r[4])
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(r[5]), 64)
		if err != nil || lon < -180 || lon > 180 {
			return userSeedRecord{}, fmt.Errorf("line %d: invalid longitude %q", lineno, r[5])
		}
		rec.location = &types.Point{Latitude: lat, Longitude: lon}
	}

	return rec, nil
}

func getUserRecordsFromRows(rows [][]string) ([]userSeedRecord, error) {
	records := []userSeedRecord{}
	seen := map[string]int{}

	for i, row := range rows {
		if i == 0 {
			continue
		}

		rec, err := newUserSeedRecord(i+1, row)
		if err != nil {
			return nil, err
		}

		if first, ok := seen[rec.profile.UserID]; ok {
			return nil, fmt.Errorf("line %d: duplicate user %s, first seen on line %d", i+1, rec.profile.UserID, first)
		}
		seen[rec.profile.UserID] = i + 1

		records = append(records, rec)
	}

	return records, nil
}
