// Package revocation holds the optional denylist of session token ids.
// Without one, a token stays valid until it expires.
package revocation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type Denylist interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Noop never revokes anything.
type Noop struct{}

func (Noop) Revoke(context.Context, string, time.Time) error { return nil }

func (Noop) IsRevoked(context.Context, string) (bool, error) { return false, nil }

// Enabled reports whether d actually records revocations.
func Enabled(d Denylist) bool {
	if d == nil {
		return false
	}
	_, noop := d.(Noop)
	return !noop
}

// MemoryDenylist keeps revocations in process memory. Entries are dropped
// once their token would have expired anyway.
type MemoryDenylist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

var _ Denylist = (*MemoryDenylist)(nil)

func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{entries: map[string]time.Time{}, now: time.Now}
}

func (d *MemoryDenylist) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !expiresAt.After(d.now()) {
		return nil
	}
	d.entries[tokenID] = expiresAt
	return nil
}

func (d *MemoryDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	expiresAt, ok := d.entries[tokenID]
	if !ok {
		return false, nil
	}
	if !expiresAt.After(d.now()) {
		delete(d.entries, tokenID)
		return false, nil
	}
	return true, nil
}

// CleanExpired drops entries whose token has expired.
func (d *MemoryDenylist) CleanExpired(context.Context) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var removed int64
	now := d.now()
	for id, expiresAt := range d.entries {
		if !expiresAt.After(now) {
			delete(d.entries, id)
			removed++
		}
	}
	return removed, nil
}

const redisKeyPrefix = "revoked_token:"

type RedisDenylist struct {
	client *redis.Client
}

var _ Denylist = (*RedisDenylist)(nil)

func NewRedisDenylist(client *redis.Client) *RedisDenylist {
	return &RedisDenylist{client: client}
}

func (d *RedisDenylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, redisKeyPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token in redis: %w", err)
	}
	return nil
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, redisKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token in redis: %w", err)
	}
	return n > 0, nil
}

type expiredCleaner interface {
	CleanExpired(ctx context.Context) (int64, error)
}

// StartCleanupTicker purges expired revocations until ctx is cancelled.
func StartCleanupTicker(ctx context.Context, store expiredCleaner, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := store.CleanExpired(ctx)
			if err != nil {
				slog.Warn("revocation cleanup failed", "error", err)
				continue
			}
			if removed > 0 {
				slog.Info("revocation cleanup", "removed", removed)
			}
		}
	}
}
