// Package locationcache keeps the latest reported location of every user in redis.
package locationcache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/diwise/hazard-alerts/pkg/types"
	"github.com/go-redis/redis/v8"
)

const keyPrefix string = "location:"

// storeIfNewer only overwrites the hash when the incoming sample is strictly newer.
var storeIfNewer = redis.NewScript(`
local current = redis.call('HGET', KEYS[1], 'observedAt')
if current and tonumber(current) >= tonumber(ARGV[3]) then
	return 0
end
redis.call('HSET', KEYS[1], 'latitude', ARGV[1], 'longitude', ARGV[2], 'observedAt', ARGV[3])
return 1
`)

type Config struct {
	Addr     string
	Password string
	DB       int
}

type Cache struct {
	client *redis.Client
}

func New(ctx context.Context, cfg Config) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("could not connect to redis at %s: %w", cfg.Addr, err)
	}

	return &Cache{client: client}, nil
}

func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) StoreLocation(ctx context.Context, sample types.LocationSample) (bool, error) {
	result, err := storeIfNewer.Run(ctx, c.client, []string{key(sample.UserID)},
		strconv.FormatFloat(sample.Location.Latitude, 'f', -1, 64),
		strconv.FormatFloat(sample.Location.Longitude, 'f', -1, 64),
		sample.ObservedAt.UTC().UnixMilli(),
	).Int()
	if err != nil {
		return false, unavailable(err)
	}

	return result == 1, nil
}

func (c *Cache) LatestLocation(ctx context.Context, userID string) (types.LocationSample, bool, error) {
	fields, err := c.client.HGetAll(ctx, key(userID)).Result()
	if err != nil {
		return types.LocationSample{}, false, unavailable(err)
	}

	if len(fields) == 0 {
		return types.LocationSample{}, false, nil
	}

	sample, err := toSample(userID, fields)
	if err != nil {
		return types.LocationSample{}, false, err
	}

	return sample, true, nil
}

func (c *Cache) LatestLocations(ctx context.Context, userIDs []string) (map[string]types.LocationSample, error) {
	samples := map[string]types.LocationSample{}
	if len(userIDs) == 0 {
		return samples, nil
	}

	cmds := make(map[string]*redis.StringStringMapCmd, len(userIDs))

	pipe := c.client.Pipeline()
	for _, id := range userIDs {
		cmds[id] = pipe.HGetAll(ctx, key(id))
	}

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, unavailable(err)
	}

	for id, cmd := range cmds {
		fields, err := cmd.Result()
		if err != nil || len(fields) == 0 {
			continue
		}

		sample, err := toSample(id, fields)
		if err != nil {
			return nil, err
		}
		samples[id] = sample
	}

	return samples, nil
}

func key(userID string) string {
	return keyPrefix + userID
}

func toSample(userID string, fields map[string]string) (types.LocationSample, error) {
	lat, err := strconv.ParseFloat(fields["latitude"], 64)
	if err != nil {
		return types.LocationSample{}, fmt.Errorf("%w: bad latitude stored for %s", types.ErrStorageUnavailable, userID)
	}

	lon, err := strconv.ParseFloat(fields["longitude"], 64)
	if err != nil {
		return types.LocationSample{}, fmt.Errorf("%w: bad longitude stored for %s", types.ErrStorageUnavailable, userID)
	}

	millis, err := strconv.ParseInt(fields["observedAt"], 10, 64)
	if err != nil {
		return types.LocationSample{}, fmt.Errorf("%w: bad timestamp stored for %s", types.ErrStorageUnavailable, userID)
	}

	return types.LocationSample{
		UserID:     userID,
		Location:   types.Point{Latitude: lat, Longitude: lon},
		ObservedAt: time.UnixMilli(millis).UTC(),
	}, nil
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %s", types.ErrStorageUnavailable, err.Error())
}
