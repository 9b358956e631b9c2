// Package redis builds the Redis client backing idempotent request replay.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// pingTimeout bounds the start-up connectivity check.
const pingTimeout = 5 * time.Second

// NewClient parses redisURL, connects and verifies the server answers a PING.
// The database number in the URL path is honoured.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, errors.Join(fmt.Errorf("redis: ping %s: %w", opts.Addr, err), client.Close())
	}

	return client, nil
}
