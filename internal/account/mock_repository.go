package account

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// mockRepository is the in-memory Repository used by tests in this package
// and re-exported through NewMockRepository for the auth and ban tests.
type mockRepository struct {
	byID    map[string]*Account
	byEmail map[string]*Account
	mu      sync.RWMutex
}

// NewMockRepository returns a map-backed Repository for tests.
func NewMockRepository() Repository {
	return &mockRepository{
		byID:    make(map[string]*Account),
		byEmail: make(map[string]*Account),
	}
}

func (r *mockRepository) Create(_ context.Context, account *Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[account.Email]; exists {
		return ErrAccountExists
	}

	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if account.Role == "" {
		account.Role = RoleUser
	}

	clone := *account
	r.byID[clone.ID] = &clone
	r.byEmail[clone.Email] = &clone
	return nil
}

func (r *mockRepository) FindByID(_ context.Context, id string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, exists := r.byID[id]
	if !exists {
		return nil, ErrAccountNotFound
	}
	clone := *acc
	return &clone, nil
}

func (r *mockRepository) FindByEmail(_ context.Context, email string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, exists := r.byEmail[email]
	if !exists {
		return nil, ErrAccountNotFound
	}
	clone := *acc
	return &clone, nil
}

func (r *mockRepository) Update(_ context.Context, account *Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.byID[account.ID]
	if !exists {
		return ErrAccountNotFound
	}

	delete(r.byEmail, stored.Email)
	clone := *account
	r.byID[clone.ID] = &clone
	r.byEmail[clone.Email] = &clone
	return nil
}

func (r *mockRepository) SetBannedFlag(_ context.Context, id string, banned bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, exists := r.byID[id]
	if !exists {
		return ErrAccountNotFound
	}
	acc.IsBanned = banned
	return nil
}

func (r *mockRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, exists := r.byID[id]
	if !exists {
		return ErrAccountNotFound
	}
	delete(r.byEmail, acc.Email)
	delete(r.byID, id)
	return nil
}

func (r *mockRepository) List(_ context.Context, searchTerm string) ([]Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var accounts []Account
	for _, acc := range r.byID {
		if searchTerm != "" && !strings.Contains(strings.ToLower(acc.Email), strings.ToLower(searchTerm)) {
			continue
		}
		accounts = append(accounts, *acc)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].CreatedAt.After(accounts[j].CreatedAt)
	})
	return accounts, nil
}

func (r *mockRepository) ListByRole(_ context.Context, role Role, limit int) ([]Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var accounts []Account
	for _, acc := range r.byID {
		if acc.Role != role {
			continue
		}
		accounts = append(accounts, *acc)
		if limit > 0 && len(accounts) == limit {
			break
		}
	}
	return accounts, nil
}

func (r *mockRepository) ListBanned(_ context.Context) ([]Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var accounts []Account
	for _, acc := range r.byID {
		if acc.IsBanned {
			accounts = append(accounts, *acc)
		}
	}
	return accounts, nil
}
