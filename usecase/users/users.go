// Package users covers the read and self-update operations on user records.
package users

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"go.uber.org/zap"

	"github.com/identigo/backend/domain"
	"github.com/identigo/backend/repository"
)

type UseCase struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func New(users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{users: users, logger: logger}
}

// ListResult is one page of active users.
type ListResult struct {
	Users      []domain.User
	Page       int
	Size       int
	TotalPages int
}

// List returns a page of active users, never including the caller's own
// record. Self-exclusion is listing policy, not an authentication concern.
func (uc *UseCase) List(ctx context.Context, page, size int, excludeID string) (*ListResult, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 10
	}

	items, total, err := uc.users.List(ctx, repository.ListFilter{
		Page:      page,
		Size:      size,
		ExcludeID: excludeID,
	})
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "internal_failure", err)
	}

	totalPages := total / size
	if total%size != 0 {
		totalPages++
	}

	return &ListResult{
		Users:      items,
		Page:       page,
		Size:       size,
		TotalPages: totalPages,
	}, nil
}

// Get looks up an active user by id. Inactive accounts are not addressable
// and report the same not-found outcome as a missing row.
func (uc *UseCase) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.WrapError(domain.ErrCodeInternal, "internal_failure", err)
	}
	if user.Inactive {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// UpdateUsername applies a partial self-update. Authentication may have
// succeeded upstream; ownership is checked here, and a mismatch is a
// forbidden outcome distinct from an authentication failure.
func (uc *UseCase) UpdateUsername(ctx context.Context, authenticatedID, targetID, username string) error {
	if authenticatedID == "" || authenticatedID != targetID {
		return domain.ErrUpdateForbidden
	}

	if err := validation.Validate(username,
		validation.Required.Error("username_null"),
		validation.Length(4, 32).Error("username_size"),
	); err != nil {
		return domain.NewValidationError(domain.FieldError{Field: "username", Key: err.Error()})
	}

	user, err := uc.users.GetByID(ctx, targetID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return domain.ErrUserNotFound
		}
		return domain.WrapError(domain.ErrCodeInternal, "internal_failure", err)
	}

	user.Username = username
	if err := uc.users.Update(ctx, user); err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "internal_failure", err)
	}
	return nil
}
