// Package auth implements the two authentication strategies gating the API:
// a credential-pair verifier (email + password, proves identity at request
// time) and a bearer-token verifier (opaque secret, proves possession of a
// previously issued capability). The two are deliberately separate and must
// stay that way; they encode different trust assumptions.
package auth

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/identigo/backend/domain"
	"github.com/identigo/backend/pkg/password"
	"github.com/identigo/backend/pkg/secret"
	"github.com/identigo/backend/repository"
)

type UseCase struct {
	users    repository.UserRepository
	tokens   repository.TokenRepository
	hasher   *password.Hasher
	tokenTTL time.Duration
	logger   *zap.Logger
}

func New(users repository.UserRepository, tokens repository.TokenRepository, hasher *password.Hasher, tokenTTL time.Duration, logger *zap.Logger) *UseCase {
	if tokenTTL <= 0 {
		tokenTTL = 30 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		tokens:   tokens,
		hasher:   hasher,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// VerifyCredentials checks an email/password pair. Unknown email, an
// unactivated account, and a wrong password all reject with the same
// outcome so the response reveals nothing about which check failed.
func (uc *UseCase) VerifyCredentials(ctx context.Context, email, pass string) (*domain.User, error) {
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrAuthenticationFailed
		}
		return nil, domain.WrapError(domain.ErrCodeInternal, "internal_failure", err)
	}

	if user.Inactive {
		return nil, domain.ErrAuthenticationFailed
	}

	if err := uc.hasher.Compare(ctx, user.PasswordHash, pass); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, domain.ErrAuthenticationFailed
		}
		return nil, domain.WrapError(domain.ErrCodeInternal, "internal_failure", err)
	}

	return user, nil
}

// VerifyToken resolves an opaque bearer token to the owning user's id. The
// caller is responsible for any ownership check on top of the identity.
func (uc *UseCase) VerifyToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrAuthenticationFailed
	}

	userID, err := uc.tokens.Lookup(ctx, token)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return "", domain.ErrAuthenticationFailed
		}
		return "", domain.WrapError(domain.ErrCodeInternal, "internal_failure", err)
	}
	return userID, nil
}

// IssueToken verifies a credential pair and mints a long-lived opaque bearer
// token for the matched user.
func (uc *UseCase) IssueToken(ctx context.Context, email, pass string) (*domain.User, string, error) {
	user, err := uc.VerifyCredentials(ctx, email, pass)
	if err != nil {
		return nil, "", err
	}

	token, err := secret.Token()
	if err != nil {
		return nil, "", domain.WrapError(domain.ErrCodeInternal, "internal_failure", err)
	}

	if err := uc.tokens.Save(ctx, token, user.ID, uc.tokenTTL); err != nil {
		return nil, "", domain.WrapError(domain.ErrCodeInternal, "internal_failure", err)
	}

	return user, token, nil
}
