package repository

import (
	"context"

	"github.com/identigo/backend/domain"
)

// ListFilter selects a page of active users, optionally hiding one identity
// (the authenticated caller excludes itself from its own listing).
type ListFilter struct {
	Page      int
	Size      int
	ExcludeID string
}

// UserRepository persists user records. Implementations must enforce email
// uniqueness on Create and report violations as domain.ErrEmailInUse; the
// store constraint is the authoritative backstop when two registrations for
// the same email race past the pre-insert lookup.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByActivationToken(ctx context.Context, token string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.User, int, error)
}
