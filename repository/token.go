package repository

import (
	"context"
	"time"
)

// TokenRepository stores issued bearer tokens. Tokens are opaque secrets
// mapped to a user id; possession of the token is the whole credential, so
// lookups must match the stored value exactly.
type TokenRepository interface {
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	Lookup(ctx context.Context, token string) (string, error)
}
