package locationcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/diwise/hazard-alerts/pkg/types"
	"github.com/matryer/is"
)

var T = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestNewerLocationWins(t *testing.T) {
	is, ctx, c, _ := testSetup(t)

	stored, err := c.StoreLocation(ctx, sample("kofi", 5.5496, -0.2057, T))
	is.NoErr(err)
	is.True(stored)

	stored, err = c.StoreLocation(ctx, sample("kofi", 10, 10, T.Add(-time.Second)))
	is.NoErr(err)
	is.True(!stored)

	stored, err = c.StoreLocation(ctx, sample("kofi", 10, 10, T))
	is.NoErr(err)
	is.True(!stored) // same timestamp does not replace

	latest, found, err := c.LatestLocation(ctx, "kofi")
	is.NoErr(err)
	is.True(found)
	is.Equal(5.5496, latest.Location.Latitude)
	is.Equal(-0.2057, latest.Location.Longitude)
	is.True(latest.ObservedAt.Equal(T))

	stored, err = c.StoreLocation(ctx, sample("kofi", 5.6370, -0.1650, T.Add(time.Minute)))
	is.NoErr(err)
	is.True(stored)

	latest, _, _ = c.LatestLocation(ctx, "kofi")
	is.Equal(5.6370, latest.Location.Latitude)
}

func TestLatestLocationForUnknownUser(t *testing.T) {
	is, ctx, c, _ := testSetup(t)

	_, found, err := c.LatestLocation(ctx, "nobody")
	is.NoErr(err)
	is.True(!found)
}

func TestLatestLocations(t *testing.T) {
	is, ctx, c, _ := testSetup(t)

	_, err := c.StoreLocation(ctx, sample("kofi", 5.5496, -0.2057, T))
	is.NoErr(err)
	_, err = c.StoreLocation(ctx, sample("ama", 5.6370, -0.1650, T))
	is.NoErr(err)

	locations, err := c.LatestLocations(ctx, []string{"kofi", "ama", "yaw"})
	is.NoErr(err)
	is.Equal(2, len(locations))
	is.Equal(5.6370, locations["ama"].Location.Latitude)

	locations, err = c.LatestLocations(ctx, nil)
	is.NoErr(err)
	is.Equal(0, len(locations))
}

func TestUnavailableRedis(t *testing.T) {
	is, ctx, c, mr := testSetup(t)

	mr.Close()

	_, err := c.StoreLocation(ctx, sample("kofi", 5.5496, -0.2057, T))
	is.True(errors.Is(err, types.ErrStorageUnavailable))
}

func testSetup(t *testing.T) (*is.I, context.Context, *Cache, *miniredis.Miniredis) {
	is := is.New(t)
	ctx := context.Background()

	mr := miniredis.RunT(t)

	c, err := New(ctx, Config{Addr: mr.Addr()})
	is.NoErr(err)
	t.Cleanup(func() { c.Close() })

	return is, ctx, c, mr
}

func sample(userID string, lat, lon float64, at time.Time) types.LocationSample {
	return types.LocationSample{UserID: userID, Location: types.Point{Latitude: lat, Longitude: lon}, ObservedAt: at}
}
