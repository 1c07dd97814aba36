package usecase

import (
	"context"

	"github.com/identigo/backend/domain"
)

// ActivationNotifier delivers the activation message carrying the raw
// activation token. A single attempt per registration; an error or timeout
// here triggers the registration's compensating delete.
type ActivationNotifier interface {
	SendActivation(ctx context.Context, email, token string) error
}

// CompensationJournal records a compensating delete that could not be
// applied immediately so it is retried later instead of silently dropped.
type CompensationJournal interface {
	RecordDelete(ctx context.Context, user *domain.User) error
}
