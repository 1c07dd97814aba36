// Package memory provides in-memory repositories used as test
// collaborators. The user store mirrors the Postgres behavior, including
// the unique-email backstop, so saga tests observe the same outcomes.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/identigo/backend/domain"
	"github.com/identigo/backend/repository"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]domain.User)}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return domain.ErrEmailInUse
		}
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) GetByActivationToken(_ context.Context, token string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if token == "" {
		return nil, domain.ErrUserNotFound
	}
	for _, user := range r.users {
		if user.ActivationToken == token {
			u := user
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) Update(_ context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	user.UpdatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *UserRepository) List(_ context.Context, filter repository.ListFilter) ([]domain.User, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var active []domain.User
	for _, user := range r.users {
		if user.Inactive || user.ID == filter.ExcludeID {
			continue
		}
		active = append(active, user)
	}
	sort.Slice(active, func(i, j int) bool {
		if active[i].CreatedAt.Equal(active[j].CreatedAt) {
			return active[i].ID < active[j].ID
		}
		return active[i].CreatedAt.Before(active[j].CreatedAt)
	})

	total := len(active)
	start := filter.Page * filter.Size
	if start > total {
		start = total
	}
	end := start + filter.Size
	if end > total {
		end = total
	}

	return append([]domain.User(nil), active[start:end]...), total, nil
}

// Count reports the number of stored rows regardless of state. Test helper.
func (r *UserRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

var _ repository.UserRepository = (*UserRepository)(nil)
