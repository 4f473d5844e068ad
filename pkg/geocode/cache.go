package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"netmesh-api/pkg/models"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

// CachedResolver fronts another Resolver with a Redis TTL cache keyed by
// coordinates rounded to four decimals (roughly 11 m). Cache failures fall
// through to a direct lookup; a submission never fails because of the cache.
type CachedResolver struct {
	next Resolver
	rdb  *redis.Client
	ttl  time.Duration
}

func NewCachedResolver(next Resolver) *CachedResolver {
	rdb := redis.NewClient(&redis.Options{
		Addr:     viper.GetString("redis.addr"),
		Password: viper.GetString("redis.password"),
		DB:       viper.GetInt("redis.db"),
	})

	ttl := viper.GetDuration("geocode.cache_ttl")
	if ttl == 0 {
		ttl = 24 * time.Hour
	}

	return &CachedResolver{next: next, rdb: rdb, ttl: ttl}
}

func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("geocode:%.4f:%.4f", lat, lon)
}

func (c *CachedResolver) Resolve(ctx context.Context, lat, lon float64) (*models.Location, error) {
	if err := ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	key := cacheKey(lat, lon)

	if raw, err := c.rdb.Get(ctx, key).Result(); err == nil {
		var loc models.Location
		if err := json.Unmarshal([]byte(raw), &loc); err == nil {
			loc.ID = 0
			loc.Lat = lat
			loc.Lon = lon
			return &loc, nil
		}
	} else if err != redis.Nil {
		slog.Warn("Geocode cache read failed", "key", key, "error", err)
	}

	loc, err := c.next.Resolve(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(loc); err == nil {
		if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			slog.Warn("Geocode cache write failed", "key", key, "error", err)
		}
	}

	return loc, nil
}
