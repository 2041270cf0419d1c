package ban

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// NewMockRepository returns a map-backed Repository for tests. It enforces
// the one-active-ban-per-account constraint the way the partial unique
// index does in postgres.
func NewMockRepository() Repository {
	return &mockRepository{
		bans: make(map[string]*Ban),
	}
}

type mockRepository struct {
	bans map[string]*Ban
	mu   sync.RWMutex
}

func (r *mockRepository) Create(_ context.Context, ban *Ban) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ban.Active {
		for _, b := range r.bans {
			if b.AccountID == ban.AccountID && b.Active {
				return ErrActiveBanExists
			}
		}
	}

	if ban.ID == "" {
		ban.ID = uuid.NewString()
	}
	if ban.StartsAt.IsZero() {
		ban.StartsAt = time.Now()
	}

	clone := *ban
	r.bans[clone.ID] = &clone
	return nil
}

func (r *mockRepository) FindActiveByAccount(_ context.Context, accountID string) (*Ban, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.bans {
		if b.AccountID == accountID && b.Active {
			clone := *b
			return &clone, nil
		}
	}
	return nil, ErrBanNotFound
}

func (r *mockRepository) Update(_ context.Context, ban *Ban) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bans[ban.ID]; !exists {
		return ErrBanNotFound
	}
	clone := *ban
	r.bans[clone.ID] = &clone
	return nil
}

func (r *mockRepository) ListByAccount(_ context.Context, accountID string) ([]Ban, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var bans []Ban
	for _, b := range r.bans {
		if b.AccountID == accountID {
			bans = append(bans, *b)
		}
	}
	sort.Slice(bans, func(i, j int) bool {
		return bans[i].StartsAt.After(bans[j].StartsAt)
	})
	return bans, nil
}

func (r *mockRepository) DeactivateExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, b := range r.bans {
		if b.Active && !b.EndsAt.After(now) {
			b.Active = false
			count++
		}
	}
	return count, nil
}
