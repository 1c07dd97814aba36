package redis

import (
	"context"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/identigo/backend/domain"
	"github.com/identigo/backend/repository"
)

type tokenRepository struct {
	client *redislib.Client
	prefix string
	ttl    time.Duration
}

// NewTokenRepository creates a Redis-backed bearer-token store. Tokens are
// opaque keys mapped to a user id and expire via TTL.
func NewTokenRepository(client *redislib.Client, defaultTTL time.Duration) repository.TokenRepository {
	if defaultTTL <= 0 {
		defaultTTL = 30 * 24 * time.Hour
	}
	return &tokenRepository{
		client: client,
		prefix: "authtoken:",
		ttl:    defaultTTL,
	}
}

func (r *tokenRepository) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	if token == "" || userID == "" {
		return domain.ErrInvalidPayload
	}
	if ttl <= 0 {
		ttl = r.ttl
	}
	return r.client.Set(ctx, r.prefix+token, userID, ttl).Err()
}

func (r *tokenRepository) Lookup(ctx context.Context, token string) (string, error) {
	userID, err := r.client.Get(ctx, r.prefix+token).Result()
	if err != nil {
		if err == redislib.Nil {
			return "", domain.ErrTokenNotFound
		}
		return "", err
	}
	return userID, nil
}
