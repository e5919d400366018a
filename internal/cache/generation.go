// Package cache versions cached booking listings.  Every booking write bumps
// a Redis counter; listing cache keys embed the counter, so entries written
// before the bump are never served again and simply expire.
package cache

import (
    "context"
    "errors"
    "fmt"

    "github.com/redis/go-redis/v9"

    "github.com/1316346949/meeting-room-booking-system/internal/model"
)

// Generation is the listing cache version stored under one Redis key.
type Generation struct {
    rdb *redis.Client
    key string
}

func NewGeneration(rdb *redis.Client, key string) *Generation {
    return &Generation{rdb: rdb, key: key}
}

// Current returns the active generation; an unset key is generation 0.
func (g *Generation) Current(ctx context.Context) (int64, error) {
    n, err := g.rdb.Get(ctx, g.key).Int64()
    if errors.Is(err, redis.Nil) {
        return 0, nil
    }
    if err != nil {
        return 0, fmt.Errorf("cache generation: %w", err)
    }
    return n, nil
}

// Bump invalidates every listing cached under the previous generation.
func (g *Generation) Bump(ctx context.Context) (int64, error) {
    n, err := g.rdb.Incr(ctx, g.key).Result()
    if err != nil {
        return 0, fmt.Errorf("cache generation bump: %w", err)
    }
    return n, nil
}

// Publish implements ports.EventPublisher: any booking event makes cached
// listings stale.
func (g *Generation) Publish(ctx context.Context, ev model.BookingEvent) error {
    if _, err := g.Bump(ctx); err != nil {
        return fmt.Errorf("%s: %w", ev.Kind, err)
    }
    return nil
}
