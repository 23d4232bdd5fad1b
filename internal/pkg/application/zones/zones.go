// Package zones decides which hazard zones contain a device and which users should be told
// about a dispatched alert.
package zones

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/diwise/hazard-alerts/internal/pkg/application/geofence"
	"github.com/diwise/hazard-alerts/internal/pkg/infrastructure/logging"
	"github.com/diwise/hazard-alerts/internal/pkg/infrastructure/metrics"
	"github.com/diwise/hazard-alerts/pkg/types"
	"github.com/samber/lo"
)

// ResolveMemberships returns the ids of every polygon that contains location, sorted and
// without duplicates. Invalid polygons are logged and skipped so that a single bad zone never
// fails the whole query.
func ResolveMemberships(ctx context.Context, location types.Point, polygons []types.Polygon) []string {
	logger := logging.GetFromContext(ctx)
	defer metrics.MembershipResolved(time.Now())

	ids := make([]string, 0)

	for _, p := range polygons {
		if err := geofence.Validate(p); err != nil {
			logger.Warn().Err(err).Str("polygon_id", p.ID).Msg("skipping invalid polygon")
			continue
		}

		inside, err := geofence.Contains(p, location)
		if err != nil {
			logger.Warn().Err(err).Str("polygon_id", p.ID).Msg("skipping invalid polygon")
			continue
		}
		if inside {
			ids = append(ids, p.ID)
		}
	}

	ids = lo.Uniq(ids)
	sort.Strings(ids)

	return ids
}

// Recipients selects the users that should be notified about alert. Only users with push
// enabled are candidates. A global alert selects every candidate regardless of location. A zone
// alert selects candidates that consented to location use and whose latest location lies inside
// polygon. A zone alert without its polygon fails with ErrPolygonNotFound and an invalid target
// polygon fails with ErrInvalidGeometry.
func Recipients(ctx context.Context, alert types.Alert, polygon *types.Polygon, users []types.UserProfile, locations map[string]types.LocationSample) ([]types.UserProfile, error) {
	candidates := lo.Filter(users, func(u types.UserProfile, _ int) bool {
		return u.PushEnabled && u.PushToken != ""
	})

	if alert.Global() {
		return candidates, nil
	}

	if polygon == nil {
		return nil, fmt.Errorf("%w: %s", types.ErrPolygonNotFound, alert.PolygonID)
	}

	if err := geofence.Validate(*polygon); err != nil {
		return nil, err
	}

	defer metrics.MembershipResolved(time.Now())

	recipients := make([]types.UserProfile, 0, len(candidates))

	for _, u := range candidates {
		if !u.LocationConsent {
			continue
		}

		sample, ok := locations[u.UserID]
		if !ok {
			continue
		}

		inside, err := geofence.Contains(*polygon, sample.Location)
		if err != nil {
			return nil, err
		}
		if inside {
			recipients = append(recipients, u)
		}
	}

	return recipients, nil
}
