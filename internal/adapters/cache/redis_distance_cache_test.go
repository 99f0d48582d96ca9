package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"fleet-dispatch-service/internal/domain"
)

func newTestRedisCache(t *testing.T) *RedisDistanceCache {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisDistanceCache(client)
}

func TestRedisDistanceCacheRoundTrip(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()

	in := map[string]domain.Estimate{
		"Delhi":     {DistanceKm: 1414.21, DurationMin: 1025.5},
		"Bangalore": {DistanceKm: 981.4, DurationMin: 760},
	}
	if err := c.PutMany(ctx, "Mumbai", in); err != nil {
		t.Fatalf("put: %v", err)
	}

	out, err := c.GetMany(ctx, "Mumbai", []string{"Delhi", "Bangalore", "Chennai"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if len(out) != 2 {
		t.Fatalf("hits = %d, want 2", len(out))
	}
	for dest, want := range in {
		got, ok := out[dest]
		if !ok {
			t.Fatalf("missing destination %q", dest)
		}
		if got != want {
			t.Fatalf("%q = %+v, want %+v", dest, got, want)
		}
	}
	if _, ok := out["Chennai"]; ok {
		t.Fatal("Chennai was never cached but came back as a hit")
	}
}

func TestRedisDistanceCacheValidatesOrigin(t *testing.T) {
	c := newTestRedisCache(t)

	if _, err := c.GetMany(context.Background(), "", []string{"A"}); err == nil {
		t.Fatal("expected error for empty origin")
	}
	if err := c.PutMany(context.Background(), "", map[string]domain.Estimate{"A": {}}); err == nil {
		t.Fatal("expected error for empty origin")
	}
}
