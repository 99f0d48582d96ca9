package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"fleet-dispatch-service/internal/domain"
)

// RedisDistanceCache stores oracle estimates in a Redis hash per origin.
// Field format is "<distance_km>|<duration_min>". Useful when several
// service instances share one cache without a SQL database.
type RedisDistanceCache struct {
	Client *redis.Client
}

func NewRedisDistanceCache(client *redis.Client) *RedisDistanceCache {
	return &RedisDistanceCache{Client: client}
}

func distanceKey(origin string) string { return "distance:" + origin }

// Fetch cached estimates for one origin and multiple destinations.
func (r *RedisDistanceCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (map[string]domain.Estimate, error) {
	if r.Client == nil {
		return nil, errors.New("distance cache: redis client is nil")
	}

	if origin == "" {
		return nil, errors.New("get distance cache: origin must not be empty")
	}

	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(destinations))
	for _, d := range destinations {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		uniq = append(uniq, d)
	}

	if len(uniq) == 0 {
		return map[string]domain.Estimate{}, nil
	}

	vals, err := r.Client.HMGet(ctx, distanceKey(origin), uniq...).Result()
	if err != nil {
		return nil, fmt.Errorf("get distance cache: hmget: %w", err)
	}

	out := make(map[string]domain.Estimate, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue // field absent
		}
		est, perr := parseEstimateField(s)
		if perr != nil {
			return nil, fmt.Errorf("get distance cache: field %q -> %q: %w", origin, uniq[i], perr)
		}
		out[uniq[i]] = est
	}

	return out, nil
}

// Store many cached estimates for a single origin.
func (r *RedisDistanceCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]domain.Estimate,
) error {
	if r.Client == nil {
		return errors.New("distance cache: redis client is nil")
	}

	if origin == "" {
		return errors.New("insert distance cache: origin must not be empty")
	}

	if len(results) == 0 {
		return nil
	}

	fields := make(map[string]string, len(results))
	for dest, est := range results {
		if strings.TrimSpace(dest) == "" {
			return errors.New("insert distance cache: empty destination key")
		}
		fields[dest] = formatEstimateField(est)
	}

	if err := r.Client.HSet(ctx, distanceKey(origin), fields).Err(); err != nil {
		return fmt.Errorf("insert distance cache: hset: %w", err)
	}

	return nil
}

func formatEstimateField(e domain.Estimate) string {
	return strconv.FormatFloat(e.DistanceKm, 'g', -1, 64) + "|" +
		strconv.FormatFloat(e.DurationMin, 'g', -1, 64)
}

func parseEstimateField(s string) (domain.Estimate, error) {
	kmStr, minStr, ok := strings.Cut(s, "|")
	if !ok {
		return domain.Estimate{}, fmt.Errorf("malformed field %q", s)
	}

	km, err := strconv.ParseFloat(kmStr, 64)
	if err != nil {
		return domain.Estimate{}, fmt.Errorf("parse distance: %w", err)
	}
	min, err := strconv.ParseFloat(minStr, 64)
	if err != nil {
		return domain.Estimate{}, fmt.Errorf("parse duration: %w", err)
	}

	return domain.Estimate{DistanceKm: km, DurationMin: min}, nil
}
