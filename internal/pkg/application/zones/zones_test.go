package zones

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/diwise/hazard-alerts/pkg/types"
	"github.com/matryer/is"
	"github.com/samber/lo"
)

func TestResolveMembershipsReturnsAllOverlappingZones(t *testing.T) {
	is := is.New(t)

	p1 := square("p1", 0, 0, 10)
	p2 := square("p2", 5, 5, 10)
	p3 := square("p3", 20, 20, 5)

	ids := ResolveMemberships(context.Background(), pt(7, 7), []types.Polygon{p2, p3, p1})
	is.Equal([]string{"p1", "p2"}, ids)

	ids = ResolveMemberships(context.Background(), pt(7, 7), []types.Polygon{p1, p2})
	is.Equal([]string{"p1", "p2"}, ids)
}

func TestResolveMembershipsWithNoMatch(t *testing.T) {
	is := is.New(t)

	ids := ResolveMemberships(context.Background(), pt(50, 50), []types.Polygon{square("p1", 0, 0, 10)})
	is.Equal(0, len(ids))
}

func TestResolveMembershipsSkipsInvalidPolygons(t *testing.T) {
	is := is.New(t)

	broken := types.Polygon{ID: "broken", Coordinates: []types.Point{pt(0, 0), pt(0, 10), pt(10, 10)}}

	ids := ResolveMemberships(context.Background(), pt(5, 5), []types.Polygon{broken, square("p1", 0, 0, 10)})
	is.Equal([]string{"p1"}, ids)
}

func TestResolveMembershipsSkipsSelfIntersectingPolygons(t *testing.T) {
	is := is.New(t)

	bowtie := types.Polygon{ID: "bowtie", Coordinates: []types.Point{pt(0, 0), pt(10, 10), pt(10, 0), pt(0, 10), pt(0, 0)}}

	ids := ResolveMemberships(context.Background(), pt(8, 5), []types.Polygon{bowtie})
	is.Equal(0, len(ids))

	ids = ResolveMemberships(context.Background(), pt(8, 5), []types.Polygon{bowtie, square("p1", 0, 0, 10)})
	is.Equal([]string{"p1"}, ids)
}

func TestGlobalAlertSelectsEveryPushEnabledUser(t *testing.T) {
	is := is.New(t)

	p1 := square("p1", 0, 0, 10)
	p2 := square("p2", 5, 5, 10)

	users := []types.UserProfile{
		user("nowhere", true, true),
		user("one-zone", true, true),
		user("two-zones", true, true),
		user("no-location", true, false),
		user("muted", false, true),
	}
	locations := map[string]types.LocationSample{
		"nowhere":   sample("nowhere", 50, 50),
		"one-zone":  sample("one-zone", 1, 1),
		"two-zones": sample("two-zones", 7, 7),
	}

	is.Equal(0, len(ResolveMemberships(context.Background(), locations["nowhere"].Location, []types.Polygon{p1, p2})))
	is.Equal(2, len(ResolveMemberships(context.Background(), locations["two-zones"].Location, []types.Polygon{p1, p2})))

	recipients, err := Recipients(context.Background(), types.Alert{ID: "a1"}, nil, users, locations)
	is.NoErr(err)

	ids := lo.Map(recipients, func(u types.UserProfile, _ int) string { return u.UserID })
	is.Equal([]string{"nowhere", "one-zone", "two-zones", "no-location"}, ids)
}

func TestZoneAlertSelectsUsersInsidePolygon(t *testing.T) {
	is := is.New(t)

	p1 := square("p1", 0, 0, 10)

	users := []types.UserProfile{
		user("inside", true, true),
		user("on-border", true, true),
		user("outside", true, true),
		user("no-consent", true, false),
		user("no-sample", true, true),
		user("muted", false, true),
	}
	locations := map[string]types.LocationSample{
		"inside":     sample("inside", 5, 5),
		"on-border":  sample("on-border", 0, 5),
		"outside":    sample("outside", 15, 5),
		"no-consent": sample("no-consent", 5, 5),
		"muted":      sample("muted", 5, 5),
	}

	recipients, err := Recipients(context.Background(), types.Alert{ID: "a1", PolygonID: "p1"}, &p1, users, locations)
	is.NoErr(err)

	ids := lo.Map(recipients, func(u types.UserProfile, _ int) string { return u.UserID })
	is.Equal([]string{"inside", "on-border"}, ids)
}

func TestZoneAlertWithInvalidPolygonFails(t *testing.T) {
	is := is.New(t)

	broken := types.Polygon{ID: "broken", Coordinates: []types.Point{pt(0, 0), pt(0, 10), pt(10, 10), pt(10, 0)}}

	_, err := Recipients(context.Background(), types.Alert{ID: "a1", PolygonID: "broken"}, &broken, nil, nil)
	is.True(err != nil)
}

func TestZoneAlertWithoutPolygonFails(t *testing.T) {
	is := is.New(t)

	users := []types.UserProfile{user("inside", true, true)}
	locations := map[string]types.LocationSample{"inside": sample("inside", 5, 5)}

	recipients, err := Recipients(context.Background(), types.Alert{ID: "a1", PolygonID: "p1"}, nil, users, locations)
	is.True(errors.Is(err, types.ErrPolygonNotFound))
	is.Equal(0, len(recipients))
}

func square(id string, lat, lon, size float64) types.Polygon {
	return types.Polygon{
		ID: id,
		Coordinates: []types.Point{
			pt(lat, lon), pt(lat, lon+size), pt(lat+size, lon+size), pt(lat+size, lon), pt(lat, lon),
		},
	}
}

func pt(lat, lon float64) types.Point {
	return types.Point{Latitude: lat, Longitude: lon}
}

func user(id string, pushEnabled, consent bool) types.UserProfile {
	return types.UserProfile{UserID: id, PushToken: "token-" + id, PushEnabled: pushEnabled, LocationConsent: consent}
}

func sample(id string, lat, lon float64) types.LocationSample {
	return types.LocationSample{UserID: id, Location: pt(lat, lon), ObservedAt: time.Now()}
}
