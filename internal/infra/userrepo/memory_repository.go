package userrepo

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/aqi-advisor/internal/domain/auth"
)

// MemoryRepository provides an in-memory user store for tests/dev.
type MemoryRepository struct {
	mu         sync.RWMutex
	users      map[int64]auth.User
	phoneIndex map[string]int64
	seq        int64
}

// NewMemoryRepository constructs a new in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:      make(map[int64]auth.User),
		phoneIndex: make(map[string]int64),
	}
}

// Create stores the user record.
func (r *MemoryRepository) Create(_ context.Context, user auth.User) (auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.phoneIndex[user.Phone]; exists {
		return auth.User{}, auth.ErrPhoneExists
	}
	r.seq++
	user.ID = r.seq
	user.CreatedAt = time.Now().UTC()
	r.users[user.ID] = user
	r.phoneIndex[user.Phone] = user.ID
	return user, nil
}

// GetByPhone returns a user by phone number.
func (r *MemoryRepository) GetByPhone(_ context.Context, phone string) (auth.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id, ok := r.phoneIndex[phone]; ok {
		return r.users[id], true, nil
	}
	return auth.User{}, false, nil
}

// GetByID fetches by ID.
func (r *MemoryRepository) GetByID(_ context.Context, id int64) (auth.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	return user, ok, nil
}

// UpdateHealthFields replaces the mutable profile attributes.
func (r *MemoryRepository) UpdateHealthFields(_ context.Context, id int64, fields auth.HealthFields) (auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user := r.users[id]
	user.City = fields.City
	user.State = fields.State
	user.Country = fields.Country
	user.BirthMonth = fields.BirthMonth
	user.BirthYear = fields.BirthYear
	user.Pregnant = fields.Pregnant
	user.HasAsthma = fields.HasAsthma
	user.HasBronchitis = fields.HasBronchitis
	user.HasCopd = fields.HasCopd
	r.users[id] = user
	return user, nil
}

var _ auth.Repository = (*MemoryRepository)(nil)
