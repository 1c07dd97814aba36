// Package registration implements the identity lifecycle: the registration
// saga (validate, hash, persist, notify, compensate) and the activation
// state transition.
package registration

import (
	"context"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/identigo/backend/domain"
	"github.com/identigo/backend/pkg/password"
	"github.com/identigo/backend/pkg/secret"
	"github.com/identigo/backend/repository"
	"github.com/identigo/backend/usecase"
)

// Go regexp has no lookahead; the password pattern is three independent
// character-class rules sharing one message key.
var (
	reLower = regexp.MustCompile(`[a-z]`)
	reUpper = regexp.MustCompile(`[A-Z]`)
	reDigit = regexp.MustCompile(`[0-9]`)
)

type UseCase struct {
	users    repository.UserRepository
	hasher   *password.Hasher
	notifier usecase.ActivationNotifier
	journal  usecase.CompensationJournal
	logger   *zap.Logger
}

func New(users repository.UserRepository, hasher *password.Hasher, notifier usecase.ActivationNotifier, journal usecase.CompensationJournal, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		hasher:   hasher,
		notifier: notifier,
		journal:  journal,
		logger:   logger,
	}
}

// RegisterInput carries the caller-supplied registration fields. There is
// deliberately no activity flag here: users are always created inactive no
// matter what the client sends.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register runs the registration saga. Either the user row and the
// activation message both succeed, or neither leaves a durable trace.
func (uc *UseCase) Register(ctx context.Context, in RegisterInput) error {
	if err := uc.validate(ctx, in); err != nil {
		return err
	}

	hash, err := uc.hasher.Hash(ctx, in.Password)
	if err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "internal_failure", err)
	}

	token, err := secret.Token()
	if err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "internal_failure", err)
	}

	user := &domain.User{
		ID:              uuid.NewString(),
		Username:        in.Username,
		Email:           in.Email,
		PasswordHash:    hash,
		Inactive:        true,
		ActivationToken: token,
	}

	if err := uc.users.Create(ctx, user); err != nil {
		// The unique constraint is the backstop for two registrations
		// racing past the pre-insert lookup; the loser observes the same
		// outcome as the pre-check.
		if domain.IsDomainError(err, domain.ErrCodeConflict) {
			return domain.NewValidationError(domain.FieldError{Field: "email", Key: "email_inuse"})
		}
		return domain.WrapError(domain.ErrCodeInternal, "internal_failure", err)
	}

	if err := uc.notifier.SendActivation(ctx, user.Email, token); err != nil {
		uc.compensate(ctx, user)
		return domain.WrapError(domain.ErrCodeDelivery, "email_failure", err)
	}

	return nil
}

// compensate removes the row persisted before a failed notification. A
// failed delete goes to the journal so the orphan row is removed later
// rather than silently kept.
func (uc *UseCase) compensate(ctx context.Context, user *domain.User) {
	err := uc.users.Delete(ctx, user.ID)
	if err == nil || domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return
	}

	uc.logger.Error("compensating delete failed",
		zap.String("user_id", user.ID),
		zap.Error(err))

	if uc.journal == nil {
		return
	}
	if jErr := uc.journal.RecordDelete(ctx, user); jErr != nil {
		uc.logger.Error("failed to journal compensating delete",
			zap.String("user_id", user.ID),
			zap.Error(jErr))
	}
}

// Activate consumes an activation token and transitions the owning user to
// active. Unknown and already-consumed tokens fail identically so a guesser
// cannot probe activation state.
func (uc *UseCase) Activate(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrActivationFailed
	}

	user, err := uc.users.GetByActivationToken(ctx, token)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return domain.ErrActivationFailed
		}
		return domain.WrapError(domain.ErrCodeInternal, "internal_failure", err)
	}

	user.Inactive = false
	user.ActivationToken = ""

	if err := uc.users.Update(ctx, user); err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "internal_failure", err)
	}
	return nil
}

// validate applies the per-field rule chains in order, keeping the first
// failing rule's key per field. The uniqueness lookup is a remote check and
// only runs when the syntactic email rules passed.
func (uc *UseCase) validate(ctx context.Context, in RegisterInput) error {
	var fields []domain.FieldError

	if key := firstKey(in.Username,
		validation.Required.Error("username_null"),
		validation.Length(4, 32).Error("username_size"),
	); key != "" {
		fields = append(fields, domain.FieldError{Field: "username", Key: key})
	}

	emailKey := firstKey(in.Email,
		validation.Required.Error("email_null"),
		is.Email.Error("email_invalid"),
	)
	if emailKey == "" {
		existing, err := uc.users.GetByEmail(ctx, in.Email)
		switch {
		case err == nil && existing != nil:
			emailKey = "email_inuse"
		case err != nil && !domain.IsDomainError(err, domain.ErrCodeNotFound):
			return domain.WrapError(domain.ErrCodeInternal, "internal_failure", err)
		}
	}
	if emailKey != "" {
		fields = append(fields, domain.FieldError{Field: "email", Key: emailKey})
	}

	if key := firstKey(in.Password,
		validation.Required.Error("password_null"),
		validation.Length(6, 0).Error("password_size"),
		validation.Match(reLower).Error("password_pattern"),
		validation.Match(reUpper).Error("password_pattern"),
		validation.Match(reDigit).Error("password_pattern"),
	); key != "" {
		fields = append(fields, domain.FieldError{Field: "password", Key: key})
	}

	if len(fields) > 0 {
		return domain.NewValidationError(fields...)
	}
	return nil
}

// firstKey evaluates rules in order and returns the first failure's key.
// Rule messages are catalog keys, never language text.
func firstKey(value string, rules ...validation.Rule) string {
	if err := validation.Validate(value, rules...); err != nil {
		return err.Error()
	}
	return ""
}
