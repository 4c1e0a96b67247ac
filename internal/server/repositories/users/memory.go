package users

import (
	"context"
	"sync"

	"github.com/daydash-app/daydash/internal/common"
	"github.com/daydash-app/daydash/internal/server/models"
)

// MemoryRepository is an in-memory Repository for tests and throwaway
// environments.
type MemoryRepository struct {
	mu    sync.Mutex
	users map[string]*models.User // by username
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]*models.User)}
}

func (r *MemoryRepository) Create(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Username]; ok {
		return common.ErrAlreadyExists
	}
	cp := *u
	r.users[u.Username] = &cp
	return nil
}

func (r *MemoryRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}
