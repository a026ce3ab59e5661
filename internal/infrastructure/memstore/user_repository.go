package memstore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/slotswap/slotswap/internal/domain/user"
)

// UserRepository is an in-memory user.Repository.
type UserRepository struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]*user.User
	byEmail map[string]uuid.UUID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:   make(map[uuid.UUID]*user.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return user.ErrEmailTaken
	}
	cp := *u
	r.users[u.UserID] = &cp
	r.byEmail[u.Email] = u.UserID
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *r.users[id]
	return &cp, nil
}
