// Package attempt tracks failed login counts per email in the shared cache.
// Counters self-expire after the configured block window; losing them on a
// cache restart fails open, not closed.
package attempt

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nordmarket/authcore/internal/cache"
)

const keyPrefix = "login_attempts:"

type Tracker struct {
	store cache.Store
	log   *zap.Logger
}

func NewTracker(store cache.Store, log *zap.Logger) *Tracker {
	return &Tracker{
		store: store,
		log:   log,
	}
}

// Get returns the current failure count for the email. A missing or
// expired key reads as zero.
func (t *Tracker) Get(ctx context.Context, email string) (int, error) {
	val, err := t.store.Get(ctx, key(email))
	if errors.Is(err, cache.ErrMiss) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	count, err := strconv.Atoi(val)
	if err != nil {
		// Corrupt counter value; treat as absent rather than locking the user out.
		t.log.Warn("discarding unparseable attempt counter",
			zap.String("email", email), zap.String("value", val))
		return 0, nil
	}
	return count, nil
}

// Increment bumps the failure count and re-arms the expiry, so a burst of
// failures keeps extending the block window.
func (t *Tracker) Increment(ctx context.Context, email string, ttl time.Duration) (int, error) {
	count, err := t.store.Increment(ctx, key(email), ttl)
	if err != nil {
		return 0, err
	}

	t.log.Info("login attempts incremented",
		zap.String("email", email), zap.Int64("count", count))
	return int(count), nil
}

// Reset clears the counter. Called exactly once, on successful authentication.
func (t *Tracker) Reset(ctx context.Context, email string) error {
	return t.store.Delete(ctx, key(email))
}

func key(email string) string {
	return keyPrefix + strings.ToLower(strings.TrimSpace(email))
}
